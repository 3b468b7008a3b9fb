// Package models defines core data structures for search criteria, results, and configuration snapshots.
package models

import (
	"sort"
	"strings"
)

// Criteria maps a field name (e.g. "expediente", "sello", "caratula") to the
// query string searched for that field. Values are never empty.
type Criteria map[string]string

// NewCriteria trims every value of terms and drops the empty ones.
func NewCriteria(terms map[string]string) Criteria {
	c := make(Criteria, len(terms))
	for field, value := range terms {
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if field == "" || value == "" {
			continue
		}
		c[field] = value
	}
	return c
}

// Keys returns the field names in sorted order.
func (c Criteria) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether there is nothing to search for.
func (c Criteria) Empty() bool {
	return len(c) == 0
}

// SatisfiedBy reports whether matched contains every field of c.
func (c Criteria) SatisfiedBy(matched []string) bool {
	seen := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		seen[m] = struct{}{}
	}
	for field := range c {
		if _, ok := seen[field]; !ok {
			return false
		}
	}
	return true
}
