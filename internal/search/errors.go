package search

import "github.com/hyperjump/pdfseek/internal/corpus"

// ErrDirectoryNotFound is returned by Search when the configured search root is missing.
var ErrDirectoryNotFound = corpus.ErrDirectoryNotFound
