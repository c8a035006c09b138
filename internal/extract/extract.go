// Package extract turns uploaded document bytes into plain text for the
// analysis prompt.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsupported is returned for content types this build cannot extract.
// The documents service reports it to the client instead of guessing.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor converts raw document bytes into analyzable text. OCR and rich
// document formats are deliberately behind this interface; swapping in a real
// engine must not touch the upload or analysis flow.
type Extractor interface {
	Extract(data []byte, contentType string) (string, error)
}

// PlainText handles text/* uploads and nothing else.
type PlainText struct{}

func NewPlainText() PlainText {
	return PlainText{}
}

func (PlainText) Extract(data []byte, contentType string) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if mime != "text/plain" && !strings.HasPrefix(mime, "text/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, contentType)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrUnsupported, contentType)
	}

	return strings.TrimSpace(string(data)), nil
}
