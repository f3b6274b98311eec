// Package document extracts starting text for a reading session from PDFs.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages bounds extraction to the opening pages of a document.
const DefaultMaxPages = 5

// ErrNotPDF is returned when the data lacks the %PDF- header.
var ErrNotPDF = errors.New("file is not a PDF")

// Extraction is the text pulled from a PDF.
type Extraction struct {
	Text       string
	Pages      int
	TotalPages int
}

// Truncated reports whether pages beyond the limit were skipped.
func (e *Extraction) Truncated() bool {
	return e.TotalPages > e.Pages
}

// ExtractFile reads the PDF at path.
func ExtractFile(path string, maxPages int) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return Extract(data, maxPages)
}

// Extract returns the plain text of the first maxPages pages, one blank line
// between pages. maxPages <= 0 means DefaultMaxPages.
func Extract(data []byte, maxPages int) (result *Extraction, err error) {
	if !looksLikePDF(data) {
		return nil, ErrNotPDF
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("could not process PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("could not process PDF: %w", err)
	}

	total := reader.NumPage()
	limit := total
	if limit > maxPages {
		limit = maxPages
	}
	pages := make([]string, 0, limit)
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only pages contribute nothing but should not sink the document.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return &Extraction{Text: joinPages(pages), Pages: limit, TotalPages: total}, nil
}

func joinPages(pages []string) string {
	trimmed := make([]string, len(pages))
	for i, page := range pages {
		trimmed[i] = strings.TrimSpace(page)
	}
	return strings.TrimSpace(strings.Join(trimmed, "\n\n"))
}

func looksLikePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
