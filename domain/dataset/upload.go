package dataset

import (
	"io"
	"path/filepath"
	"strings"
)

// DatasetUpload represents an uploaded file before processing
type DatasetUpload struct {
	Filename string
	File     io.Reader
	MimeType string // declared by the client; may be empty
	Size     int64  // declared size in bytes; 0 when unknown
}

// Extension returns the lower-cased file extension including the dot
func (u *DatasetUpload) Extension() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}
