// Package cli provides CLI utilities for pdfseek.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hyperjump/pdfseek/internal/models"
	"github.com/hyperjump/pdfseek/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact prints one result per line.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// maxPathWidth bounds the relative path shown in text output.
const maxPathWidth = 120

// ParseOutputFormat maps a flag value to a SearchOutputFormat.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch f := SearchOutputFormat(strings.ToLower(s)); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.RelevanceScore, strings.Join(r.Matches, ","), r.Path)
		}
		return nil
	default:
		writeSearchResultsText(w, response, time.Now())
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse, now time.Time) {
	mode := "any"
	if response.MatchAll {
		mode = "all"
	}
	fmt.Fprintf(w, "\nFound %d results in %dms (match %s)\n", response.Total, response.QueryTime, mode)
	if response.Truncated {
		fmt.Fprintln(w, "Result limit reached; narrow the search to see more.")
	}
	fmt.Fprintln(w)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result, now)
	}
}

func writeOneResult(w io.Writer, rank int, result *models.SearchResult, now time.Time) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "#%d %s | Relevance: %d\n", rank, result.Filename, result.RelevanceScore)
	fmt.Fprintf(w, "Path: %s\n", utils.Truncate(result.RelativePath, maxPathWidth))
	fmt.Fprintf(w, "Size: %s | Modified: %s\n",
		humanize.Bytes(uint64(result.Size)), humanize.RelTime(result.Modified, now, "ago", "from now"))
	if len(result.MatchDetails.FilenameMatches) > 0 {
		fmt.Fprintf(w, "Filename matches: %s\n", strings.Join(result.MatchDetails.FilenameMatches, ", "))
	}
	if len(result.MatchDetails.ContentMatches) > 0 {
		fmt.Fprintf(w, "Content matches:  %s\n", strings.Join(result.MatchDetails.ContentMatches, ", "))
	}
	fmt.Fprintln(w)
}
