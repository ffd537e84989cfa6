// Package dataset turns uploaded CSV bytes into an immutable in-memory Dataset.
//
// Ingestion is all-or-nothing: a successful call returns a fully built Dataset, a failed call
// returns an error and nothing else, so callers can keep whatever they had before.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal"
	"csvexplorer/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// IngestConfig holds limits for uploaded files
type IngestConfig struct {
	MaxFileSize  int64    // Maximum file size in bytes
	AllowedTypes []string // Declared MIME types accepted for .csv uploads
}

// DefaultIngestConfig returns sensible defaults
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		MaxFileSize: 50 * 1024 * 1024, // 50MB
		AllowedTypes: []string{
			"text/csv",
			"application/csv",
			"text/plain",
			"application/vnd.ms-excel", // what some browsers send for .csv
			"application/octet-stream",
		},
	}
}

// Processor handles CSV upload parsing
type Processor struct {
	config *IngestConfig
	logger *internal.Logger
}

// NewProcessor creates a new dataset processor
func NewProcessor(config *IngestConfig, logger *internal.Logger) *Processor {
	if config == nil {
		config = DefaultIngestConfig()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Processor{config: config, logger: logger}
}

// ProcessUpload parses an uploaded CSV file into a Dataset
func (p *Processor) ProcessUpload(ctx context.Context, upload *dataset.DatasetUpload) (*dataset.Dataset, error) {
	start := time.Now()

	if err := p.validateUpload(upload); err != nil {
		return nil, err
	}

	data, err := p.readLimited(upload.File)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "upload cancelled")
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ParseFailed(fmt.Errorf("no columns to parse from file"))
	}

	if err := sniffText(data); err != nil {
		return nil, err
	}

	text, err := decodeUTF8(data)
	if err != nil {
		return nil, err
	}

	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.FromRecords(upload.Filename, records)
	if err != nil {
		return nil, errors.ParseFailed(err)
	}

	p.logger.Info("[DatasetProcessor] Parsed %s: %d rows x %d columns in %s",
		upload.Filename, ds.Nrow(), ds.Ncol(), time.Since(start).Round(time.Microsecond))
	return ds, nil
}

// LoadFile reads a CSV file from disk through the same path as uploads
func (p *Processor) LoadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "failed to open %s", path)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	return p.ProcessUpload(ctx, &dataset.DatasetUpload{
		Filename: filepath.Base(path),
		File:     f,
		Size:     size,
	})
}

// validateUpload checks everything that can be checked before reading the body
func (p *Processor) validateUpload(upload *dataset.DatasetUpload) error {
	if upload == nil || upload.File == nil {
		return errors.InvalidInput("no file provided")
	}
	if upload.Filename == "" {
		return errors.InvalidInput("no filename provided")
	}
	if ext := upload.Extension(); ext != ".csv" {
		return errors.InvalidInput(fmt.Sprintf("unsupported file extension %q: only .csv files are accepted", ext))
	}
	if upload.MimeType != "" && !p.isAllowedMimeType(upload.MimeType) {
		return errors.InvalidInput(fmt.Sprintf("MIME type %s is not allowed", upload.MimeType))
	}
	if upload.Size > p.config.MaxFileSize {
		return errors.PayloadTooLarge(upload.Size, p.config.MaxFileSize)
	}
	return nil
}

// isAllowedMimeType checks if the MIME type is in the allowed list, ignoring parameters
func (p *Processor) isAllowedMimeType(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	for _, allowed := range p.config.AllowedTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// readLimited reads the whole body, failing once it grows past MaxFileSize
func (p *Processor) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.config.MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to read upload")
	}
	if int64(len(data)) > p.config.MaxFileSize {
		return nil, errors.PayloadTooLarge(int64(len(data)), p.config.MaxFileSize)
	}
	return data, nil
}

// sniffText rejects content that is not some flavour of text
func sniffText(data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return errors.InvalidInput(fmt.Sprintf("file content looks like %s, not CSV text", detected.String()))
}

// decodeUTF8 honours a UTF-8 or UTF-16 byte order mark and requires valid UTF-8 otherwise
func decodeUTF8(data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, errors.EncodingError(fmt.Sprintf("failed to decode file: %v", err))
	}
	if !utf8.Valid(decoded) {
		return nil, errors.EncodingError("file is not valid UTF-8 text")
	}
	return decoded, nil
}

// readRecords parses CSV text. Short rows are padded with missing values; rows with more
// fields than the header are an error.
func readRecords(text []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseFailed(err)
	}
	if len(records) == 0 {
		return nil, errors.ParseFailed(fmt.Errorf("no columns to parse from file"))
	}
	if len(records) == 1 {
		return nil, errors.ParseFailed(fmt.Errorf("file has a header row but no data rows"))
	}

	width := len(records[0])
	for i, record := range records[1:] {
		switch {
		case len(record) > width:
			return nil, errors.ParseFailed(fmt.Errorf("expected %d fields in record %d, saw %d", width, i+2, len(record)))
		case len(record) < width:
			padded := make([]string, width)
			copy(padded, record)
			records[i+1] = padded
		}
	}
	return records, nil
}
