// Package source resolves the text flashcards are generated from.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	PDFContentType  = "application/pdf"
	TextContentType = "text/plain"
)

// ErrInvalidText is returned when a non-PDF upload is not valid UTF-8.
var ErrInvalidText = errors.New("document is not valid utf-8 text")

// Upload is a document supplied by the user.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Open reads a document from disk, deriving its content type from the extension.
func Open(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return &Upload{
		Name:        filepath.Base(path),
		ContentType: contentTypeFor(path),
		Data:        data,
	}, nil
}

// IsPDF reports whether the upload's declared type is PDF. Uploads without a
// declared type fall back to their file extension.
func (u *Upload) IsPDF() bool {
	declared := strings.TrimSpace(u.ContentType)
	if declared == "" {
		declared = contentTypeFor(u.Name)
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	return mediaType == PDFContentType
}

// Resolve returns the text of upload when one is given, otherwise manualText as is.
func Resolve(upload *Upload, manualText string) (string, error) {
	if upload == nil {
		return manualText, nil
	}
	if upload.IsPDF() {
		return ExtractPDFText(upload.Data)
	}
	if !utf8.Valid(upload.Data) {
		return "", fmt.Errorf("decode %s: %w", upload.Name, ErrInvalidText)
	}
	return string(upload.Data), nil
}

// ExtractPDFText returns the plain text of every page, each followed by a newline.
func ExtractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	fonts := make(map[string]*pdf.Font)
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			for _, name := range page.Fonts() {
				if _, ok := fonts[name]; !ok {
					font := page.Font(name)
					fonts[name] = &font
				}
			}
			pageText, pageErr := page.GetPlainText(fonts)
			if pageErr != nil {
				return "", fmt.Errorf("read pdf page %d: %w", i, pageErr)
			}
			builder.WriteString(pageText)
		}
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func contentTypeFor(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return PDFContentType
	}
	return TextContentType
}
