// Package extract wraps the external extraction collaborators: PDF text
// extraction and ffmpeg-based audio extraction from video containers.
package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF files.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText reads the PDF at path and returns the concatenated text of
// all pages, one page per line.
func (e *PDFExtractor) ExtractText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		if _, err := buf.WriteString(text); err != nil {
			return "", fmt.Errorf("write page %d: %w", i+1, err)
		}
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
