// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyContent indicates the document yielded no extractable text.
var ErrEmptyContent = errors.New("document contains no extractable text")

// Reader extracts normalized plain text from PDF files. It satisfies the
// document-reader contract of the ingestion pipeline and the rename tool.
type Reader struct{}

// ReadText extracts the text of every page, concatenated in page order and
// trimmed of surrounding whitespace. Returns ErrEmptyContent when the
// document has no extractable text (scanned images, empty files).
func (Reader) ReadText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}
