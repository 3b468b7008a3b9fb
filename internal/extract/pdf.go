package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFReader reads page text with github.com/ledongthuc/pdf.
type PDFReader struct{}

// NewPDFReader returns a PDFReader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// ReadPages returns the plain text of up to limit pages of the PDF at path.
// A non-positive limit reads every page. Pages without a content stream yield "".
func (PDFReader) ReadPages(path string, limit int) (pages []string, err error) {
	// The decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("decode PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if limit > 0 && numPages > limit {
		numPages = limit
	}
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
