package search

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/pdfseek/internal/fileid"
	"github.com/hyperjump/pdfseek/internal/match"
	"github.com/hyperjump/pdfseek/internal/models"
	"go.uber.org/zap"
)

// progressEvery is how often, in files, scan progress is logged.
const progressEvery = 10

// scan walks the search root and collects unranked results until MaxResults is reached.
// The second return value reports whether the cap stopped the scan.
func (e *Engine) scan(ctx context.Context, criteria models.Criteria, matchAll bool, logger *zap.Logger) ([]*models.SearchResult, bool, error) {
	root, err := filepath.Abs(e.config.Directory)
	if err != nil {
		return nil, false, fmt.Errorf("resolve search directory: %w", err)
	}
	terms := e.matcher.Compile(criteria)

	var (
		results   []*models.SearchResult
		truncated bool
		processed int
	)
	err = e.walker(logger).Walk(root, func(path string, entry fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		processed++
		if r := e.evaluate(root, path, entry.Name(), terms, criteria, matchAll, logger); r != nil {
			results = append(results, r)
		}
		if processed%progressEvery == 0 {
			logger.Debug("scan progress", zap.Int("processed", processed), zap.Int("results", len(results)))
		}
		if len(results) >= e.config.MaxResults {
			truncated = true
			logger.Warn("result limit reached", zap.Int("max_results", e.config.MaxResults))
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return results, truncated, nil
}

// evaluate matches one file and returns its result, or nil when it does not qualify
// or cannot be read.
func (e *Engine) evaluate(root, path, name string, terms *match.Terms, criteria models.Criteria, matchAll bool, logger *zap.Logger) *models.SearchResult {
	filenameMatches := terms.Match(e.matcher.Normalize(name))

	// A filename hit already satisfies an ANY search; skip the costly extraction then.
	contentMatches := []string{}
	if len(filenameMatches) == 0 || matchAll {
		contentMatches = terms.Match(e.extractor.Extract(path))
	}

	matches := union(criteria, filenameMatches, contentMatches)
	if matchAll {
		if !criteria.SatisfiedBy(matches) {
			return nil
		}
	} else if len(matches) == 0 {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
		return nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = name
	}
	return &models.SearchResult{
		ID:           fileid.ForPath(path),
		Filename:     name,
		Path:         path,
		RelativePath: rel,
		Size:         info.Size(),
		Modified:     info.ModTime(),
		Matches:      matches,
		MatchDetails: models.MatchDetails{
			FilenameMatches: filenameMatches,
			ContentMatches:  contentMatches,
		},
		RelevanceScore: len(matches),
	}
}

// union returns the fields present in a or b, in criteria key order.
func union(criteria models.Criteria, a, b []string) []string {
	found := make(map[string]struct{}, len(a)+len(b))
	for _, f := range a {
		found[f] = struct{}{}
	}
	for _, f := range b {
		found[f] = struct{}{}
	}
	out := make([]string, 0, len(found))
	for _, k := range criteria.Keys() {
		if _, ok := found[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
