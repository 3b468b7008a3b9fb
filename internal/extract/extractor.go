// Package extract provides bounded, case-normalized text extraction from PDF documents.
package extract

import (
	"strings"

	"go.uber.org/zap"
)

// PageReader yields the text of the first limit pages of the document at path,
// one entry per page. Implementations return an error for unreadable documents.
type PageReader interface {
	ReadPages(path string, limit int) ([]string, error)
}

// Extractor turns documents into searchable text. It never fails: an unreadable
// document yields empty text and a logged warning.
type Extractor struct {
	reader        PageReader
	maxPages      int
	caseSensitive bool
	logger        *zap.Logger
}

// NewExtractor returns an Extractor reading at most maxPages pages per document
// through reader. Text is lowercased unless caseSensitive is set.
func NewExtractor(reader PageReader, maxPages int, caseSensitive bool, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		reader:        reader,
		maxPages:      maxPages,
		caseSensitive: caseSensitive,
		logger:        logger,
	}
}

// Extract returns the text of the first pages of path, each page followed by a newline.
func (e *Extractor) Extract(path string) string {
	pages, err := e.reader.ReadPages(path, e.maxPages)
	if err != nil {
		e.logger.Warn("text extraction failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	var b strings.Builder
	for _, page := range pages {
		if page == "" {
			continue
		}
		b.WriteString(page)
		b.WriteByte('\n')
	}
	if e.caseSensitive {
		return b.String()
	}
	return strings.ToLower(b.String())
}
