package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCode(t *testing.T) {
	base := ParseFailed(io.ErrUnexpectedEOF)
	wrapped := Wrap(base, "upload rejected")

	assert.Equal(t, CodeParseFailed, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Contains(t, wrapped.Error(), "upload rejected")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 3: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"parse failure", ParseFailed(io.EOF), http.StatusBadRequest},
		{"encoding", EncodingError("bad utf-8"), http.StatusBadRequest},
		{"invalid input", InvalidInput("wrong extension"), http.StatusBadRequest},
		{"too large", PayloadTooLarge(10, 5), http.StatusRequestEntityTooLarge},
		{"no dataset", NoDataset(), http.StatusNotFound},
		{"wrapped no dataset", Wrap(NoDataset(), "summary"), http.StatusNotFound},
		{"render failure", RenderFailed("pie", io.ErrShortWrite), http.StatusInternalServerError},
		{"config", ConfigInvalid("port"), http.StatusInternalServerError},
		{"plain", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
	assert.False(t, IsAppError(io.EOF))
	assert.True(t, IsAppError(Wrap(NoDataset(), "x")))
}
