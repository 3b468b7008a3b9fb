// Package search provides the document search engine: it scans the search root,
// matches filenames and extracted text against the criteria, and ranks the hits.
package search

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/pdfseek/internal/config"
	"github.com/hyperjump/pdfseek/internal/corpus"
	"github.com/hyperjump/pdfseek/internal/extract"
	"github.com/hyperjump/pdfseek/internal/match"
	"github.com/hyperjump/pdfseek/internal/models"
	"github.com/hyperjump/pdfseek/internal/ranking"
	"go.uber.org/zap"
)

// Engine runs searches over the configured directory. It holds no mutable state,
// so concurrent searches need no locking.
type Engine struct {
	config    config.SearchConfig
	extractor *extract.Extractor
	matcher   *match.Matcher
	logger    *zap.Logger
}

// NewEngine creates a search engine. cfg is copied; reader supplies page text for extraction.
func NewEngine(cfg config.SearchConfig, reader extract.PageReader, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Extensions = append([]string(nil), cfg.Extensions...)
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".pdf"}
	}
	recursive := cfg.RecursiveOrDefault()
	cfg.Recursive = &recursive
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = config.DefaultMaxResults
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = config.DefaultMaxPages
	}
	return &Engine{
		config:    cfg,
		extractor: extract.NewExtractor(reader, cfg.MaxPages, cfg.CaseSensitive, logger),
		matcher:   match.NewMatcher(cfg.CaseSensitive, cfg.PatternTimeout),
		logger:    logger,
	}
}

// Search returns the documents matching criteria, ranked by relevance then recency.
// With matchAll every field must match, in the filename or the content; otherwise
// one field is enough. Empty criteria return no results without touching the disk.
// Returns ErrDirectoryNotFound if the search root does not exist.
func (e *Engine) Search(ctx context.Context, criteria models.Criteria, matchAll bool) (*models.SearchResponse, error) {
	startTime := time.Now()
	response := &models.SearchResponse{
		SearchID: uuid.NewString(),
		Results:  []*models.SearchResult{},
		MatchAll: matchAll,
		Criteria: criteria,
	}
	if criteria.Empty() {
		return response, nil
	}
	logger := e.logger.With(zap.String("search_id", response.SearchID))
	logger.Info("search started",
		zap.String("directory", e.config.Directory),
		zap.Strings("fields", criteria.Keys()),
		zap.Bool("match_all", matchAll),
	)

	results, truncated, err := e.scan(ctx, criteria, matchAll, logger)
	if err != nil {
		logger.Error("search failed", zap.Error(err))
		return nil, err
	}
	response.Results = ranking.Rank(results)
	response.Total = len(results)
	response.Truncated = truncated
	response.QueryTime = time.Since(startTime).Milliseconds()

	logger.Info("search completed",
		zap.Int("results", response.Total),
		zap.Bool("truncated", truncated),
		zap.Int64("query_time_ms", response.QueryTime),
	)
	return response, nil
}

// Config returns a snapshot of the engine configuration.
func (e *Engine) Config() models.ConfigSnapshot {
	return models.ConfigSnapshot{
		SearchDirectory:      e.config.Directory,
		CaseSensitive:        e.config.CaseSensitive,
		SearchSubdirectories: *e.config.Recursive,
		MaxResults:           e.config.MaxResults,
		MaxPages:             e.config.MaxPages,
		Extensions:           append([]string(nil), e.config.Extensions...),
	}
}

// Root returns the configured search directory.
func (e *Engine) Root() string {
	return e.config.Directory
}

// RootExists reports whether the search directory is present.
func (e *Engine) RootExists() bool {
	info, err := os.Stat(e.config.Directory)
	return err == nil && info.IsDir()
}

// Stats counts the documents currently under the search root.
func (e *Engine) Stats() (corpus.Stats, error) {
	return e.walker(e.logger).Collect(e.config.Directory)
}

// IsDocument reports whether name carries one of the searched extensions.
func (e *Engine) IsDocument(name string) bool {
	return corpus.HasExtension(filepath.Base(name), e.config.Extensions)
}

func (e *Engine) walker(logger *zap.Logger) *corpus.Walker {
	return &corpus.Walker{
		Recursive:  *e.config.Recursive,
		Extensions: e.config.Extensions,
		OnError: func(path string, err error) {
			logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
		},
	}
}
