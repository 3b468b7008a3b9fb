package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyperjump/pdfseek/internal/config"
	"github.com/hyperjump/pdfseek/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePages serves page text by file name and records which files were read.
type fakePages struct {
	mu    sync.Mutex
	pages map[string][]string
	fail  map[string]bool
	reads map[string]int
}

func newFakePages(pages map[string][]string) *fakePages {
	return &fakePages{pages: pages, fail: map[string]bool{}, reads: map[string]int{}}
}

func (f *fakePages) ReadPages(path string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := filepath.Base(path)
	f.reads[name]++
	if f.fail[name] {
		return nil, errors.New("corrupt document")
	}
	p := f.pages[name]
	if limit > 0 && len(p) > limit {
		p = p[:limit]
	}
	return p, nil
}

func (f *fakePages) readCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[name]
}

func (f *fakePages) totalReads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.reads {
		n += c
	}
	return n
}

// writeCorpus creates one file per name under root; later names get later mtimes.
func writeCorpus(t *testing.T, root string, names ...string) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 "+name), 0600))
		mtime := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func newTestEngine(root string, reader *fakePages, mutate func(*config.SearchConfig)) *Engine {
	cfg := config.SearchConfig{Directory: root, MaxResults: 100, MaxPages: 5, PatternTimeout: time.Second}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewEngine(cfg, reader, zap.NewNop())
}

func filenames(resp *models.SearchResponse) []string {
	out := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.Filename)
	}
	return out
}

// scenarioCorpus builds the two-document corpus: a matches "expediente 100" by name
// and has no text; b.pdf has "sello 55 caratula Juan Perez" as text. a is newer.
func scenarioCorpus(t *testing.T) (string, *fakePages) {
	root := t.TempDir()
	writeCorpus(t, root, "b.pdf", "expediente_100.pdf")
	reader := newFakePages(map[string][]string{
		"expediente_100.pdf": {""},
		"b.pdf":              {"sello 55 caratula Juan Perez"},
	})
	return root, reader
}

func TestSearch_anySingleField(t *testing.T) {
	root, reader := scenarioCorpus(t)
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"expediente": "100"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"expediente_100.pdf"}, filenames(resp))
	assert.Equal(t, 1, resp.Total)

	r := resp.Results[0]
	assert.Equal(t, []string{"expediente"}, r.Matches)
	assert.Equal(t, []string{"expediente"}, r.MatchDetails.FilenameMatches)
	assert.Empty(t, r.MatchDetails.ContentMatches)
	assert.Equal(t, 1, r.RelevanceScore)
	assert.Equal(t, "expediente_100.pdf", r.RelativePath)
	assert.True(t, filepath.IsAbs(r.Path))
	assert.NotEmpty(t, r.ID)
	assert.Positive(t, r.Size)
	assert.NotEmpty(t, resp.SearchID)

	// The filename hit makes extraction unnecessary in ANY mode.
	assert.Zero(t, reader.readCount("expediente_100.pdf"))
	assert.Equal(t, 1, reader.readCount("b.pdf"))
}

func TestSearch_allRequiresEveryField(t *testing.T) {
	root, reader := scenarioCorpus(t)
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"expediente": "100", "sello": "55"}, true)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Total)

	// ALL mode extracts every file, even ones whose name already matched.
	assert.Equal(t, 1, reader.readCount("expediente_100.pdf"))
	assert.Equal(t, 1, reader.readCount("b.pdf"))
}

func TestSearch_anyTwoFieldsRankedByRecency(t *testing.T) {
	root, reader := scenarioCorpus(t)
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"expediente": "100", "sello": "55"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"expediente_100.pdf", "b.pdf"}, filenames(resp))
	assert.Equal(t, []string{"sello"}, resp.Results[1].MatchDetails.ContentMatches)
}

func TestSearch_allMatchesAcrossFilenameAndContent(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "expediente_100.pdf")
	reader := newFakePages(map[string][]string{"expediente_100.pdf": {"Sello 55 2021"}})
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"expediente": "100", "sello": "55/2021"}, true)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	r := resp.Results[0]
	assert.Equal(t, []string{"expediente", "sello"}, r.Matches)
	assert.Equal(t, 2, r.RelevanceScore)
	assert.Equal(t, []string{"expediente"}, r.MatchDetails.FilenameMatches)
	assert.Equal(t, []string{"sello"}, r.MatchDetails.ContentMatches)
}

func TestSearch_emptyCriteriaTouchesNothing(t *testing.T) {
	reader := newFakePages(nil)
	e := newTestEngine(filepath.Join(t.TempDir(), "does-not-exist"), reader, nil)

	for _, matchAll := range []bool{false, true} {
		resp, err := e.Search(context.Background(), models.Criteria{}, matchAll)
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.Equal(t, 0, resp.Total)
	}
	assert.Zero(t, reader.totalReads())
}

func TestSearch_missingRoot(t *testing.T) {
	e := newTestEngine(filepath.Join(t.TempDir(), "missing"), newFakePages(nil), nil)
	_, err := e.Search(context.Background(), models.Criteria{"expediente": "100"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
}

func TestSearch_capInvariant(t *testing.T) {
	root := t.TempDir()
	names := []string{"exp_1.pdf", "exp_2.pdf", "exp_3.pdf", "exp_4.pdf", "exp_5.pdf"}
	writeCorpus(t, root, names...)
	reader := newFakePages(nil)

	for _, limit := range []int{1, 3, 5, 10} {
		e := newTestEngine(root, reader, func(c *config.SearchConfig) { c.MaxResults = limit })
		resp, err := e.Search(context.Background(), models.Criteria{"expediente": "exp"}, false)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(resp.Results), limit)
		assert.Equal(t, min(limit, len(names)), resp.Total)
		assert.Equal(t, limit <= len(names), resp.Truncated, "limit %d", limit)
	}
}

func TestSearch_capStopsScanning(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "a.pdf", "b.pdf", "c.pdf", "d.pdf")
	reader := newFakePages(map[string][]string{
		"a.pdf": {"sello 1"}, "b.pdf": {"sello 2"}, "c.pdf": {"sello 3"}, "d.pdf": {"sello 4"},
	})
	e := newTestEngine(root, reader, func(c *config.SearchConfig) { c.MaxResults = 2 })

	resp, err := e.Search(context.Background(), models.Criteria{"sello": "sello"}, false)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Zero(t, reader.readCount("c.pdf"))
	assert.Zero(t, reader.readCount("d.pdf"))
}

func TestSearch_allIsSubsetOfAny(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "expediente_100.pdf", "sello_55.pdf", "mixed.pdf", "none.pdf", "caratula.pdf")
	reader := newFakePages(map[string][]string{
		"expediente_100.pdf": {"sello 55"},
		"sello_55.pdf":       {"nada"},
		"mixed.pdf":          {"expediente 100", "caratula garcia"},
		"none.pdf":           {"otro texto"},
		"caratula.pdf":       {"garcia c/ estado"},
	})
	e := newTestEngine(root, reader, nil)
	criteriaSets := []models.Criteria{
		{"expediente": "100"},
		{"expediente": "100", "sello": "55"},
		{"expediente": "100", "caratula": "garcia"},
		{"sello": "55", "caratula": "garcia"},
	}
	for _, c := range criteriaSets {
		anyResp, err := e.Search(context.Background(), c, false)
		require.NoError(t, err)
		allResp, err := e.Search(context.Background(), c, true)
		require.NoError(t, err)
		assert.Subset(t, filenames(anyResp), filenames(allResp), "criteria %v", c)
	}
}

func TestSearch_caseSensitivity(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "doc.pdf")
	reader := newFakePages(map[string][]string{"doc.pdf": {"contiene expediente123"}})
	criteria := models.Criteria{"expediente": "Expediente123"}

	insensitive := newTestEngine(root, reader, nil)
	resp, err := insensitive.Search(context.Background(), criteria, false)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)

	sensitive := newTestEngine(root, reader, func(c *config.SearchConfig) { c.CaseSensitive = true })
	resp, err = sensitive.Search(context.Background(), criteria, false)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearch_hyphenNormalization(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "doc.pdf")
	reader := newFakePages(map[string][]string{"doc.pdf": {"expte 123 456"}})
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"expediente": "123-456"}, false)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearch_extractionFailureIsIsolated(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "broken.pdf", "good.pdf")
	reader := newFakePages(map[string][]string{"good.pdf": {"sello 55"}})
	reader.fail["broken.pdf"] = true
	e := newTestEngine(root, reader, nil)

	resp, err := e.Search(context.Background(), models.Criteria{"sello": "55"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"good.pdf"}, filenames(resp))
}

func TestSearch_recursiveFlag(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "top_100.pdf", filepath.Join("2021", "nested_100.pdf"), "skip_100.txt")
	reader := newFakePages(nil)

	recursive := newTestEngine(root, reader, nil)
	resp, err := recursive.Search(context.Background(), models.Criteria{"expediente": "100"}, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top_100.pdf", "nested_100.pdf"}, filenames(resp))
	for _, r := range resp.Results {
		if r.Filename == "nested_100.pdf" {
			assert.Equal(t, filepath.Join("2021", "nested_100.pdf"), r.RelativePath)
		}
	}

	flat := newTestEngine(root, reader, func(c *config.SearchConfig) {
		f := false
		c.Recursive = &f
	})
	resp, err = flat.Search(context.Background(), models.Criteria{"expediente": "100"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"top_100.pdf"}, filenames(resp))
}

func TestSearch_pageLimitPassedToReader(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "long.pdf")
	reader := newFakePages(map[string][]string{"long.pdf": {"p1", "p2", "p3", "caratula garcia"}})
	e := newTestEngine(root, reader, func(c *config.SearchConfig) { c.MaxPages = 3 })

	resp, err := e.Search(context.Background(), models.Criteria{"caratula": "garcia"}, false)
	require.NoError(t, err)
	assert.Empty(t, resp.Results, "text past the page limit must not be searched")
}

func TestSearch_cancelledContext(t *testing.T) {
	root, reader := scenarioCorpus(t)
	e := newTestEngine(root, reader, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, models.Criteria{"expediente": "100"}, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_concurrentCalls(t *testing.T) {
	root, reader := scenarioCorpus(t)
	e := newTestEngine(root, reader, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := e.Search(context.Background(), models.Criteria{"expediente": "100", "sello": "55"}, false)
			assert.NoError(t, err)
			if assert.NotNil(t, resp) {
				assert.Equal(t, []string{"expediente_100.pdf", "b.pdf"}, filenames(resp))
			}
		}()
	}
	wg.Wait()
}

func TestEngine_Config(t *testing.T) {
	e := newTestEngine("/srv/pdfs", newFakePages(nil), func(c *config.SearchConfig) {
		c.MaxResults = 50
		c.CaseSensitive = true
	})
	snap := e.Config()
	assert.Equal(t, "/srv/pdfs", snap.SearchDirectory)
	assert.True(t, snap.CaseSensitive)
	assert.True(t, snap.SearchSubdirectories)
	assert.Equal(t, 50, snap.MaxResults)
	assert.Equal(t, 5, snap.MaxPages)
	assert.Equal(t, []string{".pdf"}, snap.Extensions)

	snap.Extensions[0] = ".txt"
	assert.Equal(t, []string{".pdf"}, e.Config().Extensions, "snapshot must not alias engine state")
}

func TestEngine_StatsAndRoot(t *testing.T) {
	root := t.TempDir()
	writeCorpus(t, root, "a.pdf", "b.pdf", "c.txt")
	e := newTestEngine(root, newFakePages(nil), nil)

	assert.True(t, e.RootExists())
	assert.True(t, e.IsDocument("x/Y.PDF"))
	assert.False(t, e.IsDocument("c.txt"))
	s, err := e.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Documents)

	missing := newTestEngine(filepath.Join(root, "gone"), newFakePages(nil), nil)
	assert.False(t, missing.RootExists())
}
