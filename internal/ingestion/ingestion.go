// Package ingestion turns an uploaded resume file into plain text.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFileType is returned for files outside the allow-list.
// The candidate may retry with another file or continue manually.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrEmptyDocument is returned when a supported file yields no text.
var ErrEmptyDocument = errors.New("document contains no text")

// Allowed lists accepted resume extensions.
var Allowed = []string{".pdf", ".txt"}

// PDFConverter extracts text from a PDF file.
type PDFConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// PDFToText shells out to poppler's pdftotext.
type PDFToText struct {
	// Binary defaults to "pdftotext".
	Binary string
}

func (p PDFToText) Convert(ctx context.Context, path string) (string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftotext"
	}

	out, err := exec.CommandContext(ctx, bin, "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires %q (install poppler-utils): %w", bin, err)
	}

	return string(out), nil
}

// Loader reads resumes from disk.
type Loader struct {
	PDF PDFConverter
}

// NewLoader returns a loader using pdftotext for PDFs.
func NewLoader() *Loader {
	return &Loader{PDF: PDFToText{}}
}

// Supported reports whether path has an accepted extension (case-insensitive).
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range Allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Load returns the text of the resume at path.
func (l *Loader) Load(ctx context.Context, path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFileType, filepath.Ext(path), strings.Join(Allowed, ", "))
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading resume %q: %w", path, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("resume %q is not valid UTF-8 text", path)
		}
		text = string(data)
	case ".pdf":
		if l.PDF == nil {
			return "", fmt.Errorf("%w: no pdf converter configured", ErrUnsupportedFileType)
		}
		converted, err := l.PDF.Convert(ctx, path)
		if err != nil {
			return "", err
		}
		text = converted
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%q: %w", path, ErrEmptyDocument)
	}

	return text, nil
}
