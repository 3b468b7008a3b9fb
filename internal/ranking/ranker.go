// Package ranking orders search results by relevance and recency.
package ranking

import (
	"sort"

	"github.com/hyperjump/pdfseek/internal/models"
)

// Rank sorts results in place, most matched fields first and, among equal
// scores, most recently modified first. Ties keep their scan order.
func Rank(results []*models.SearchResult) []*models.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return Less(results[j], results[i])
	})
	return results
}

// Less reports whether a ranks below b.
func Less(a, b *models.SearchResult) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore < b.RelevanceScore
	}
	return a.Modified.Before(b.Modified)
}
