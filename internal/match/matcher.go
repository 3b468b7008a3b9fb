// Package match tests text against named search terms using a small set of
// punctuation-tolerant pattern variants per term.
package match

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/hyperjump/pdfseek/internal/models"
)

// Matcher builds term patterns for one case-sensitivity mode.
type Matcher struct {
	caseSensitive bool
	timeout       time.Duration
}

// NewMatcher returns a Matcher. timeout bounds each single pattern match; zero means no bound.
func NewMatcher(caseSensitive bool, timeout time.Duration) *Matcher {
	return &Matcher{caseSensitive: caseSensitive, timeout: timeout}
}

// Normalize applies the configured case folding to s.
func (m *Matcher) Normalize(s string) string {
	if m.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// Compile prepares the pattern variants of every term in criteria.
// Variants that fail to compile are left out.
func (m *Matcher) Compile(criteria models.Criteria) *Terms {
	opts := regexp2.None
	if !m.caseSensitive {
		opts = regexp2.IgnoreCase
	}
	terms := &Terms{fields: make([]field, 0, len(criteria))}
	for _, name := range criteria.Keys() {
		f := field{name: name}
		for _, expr := range Variants(m.Normalize(criteria[name])) {
			re, err := regexp2.Compile(expr, opts)
			if err != nil {
				continue
			}
			if m.timeout > 0 {
				re.MatchTimeout = m.timeout
			}
			f.patterns = append(f.patterns, re)
		}
		terms.fields = append(terms.fields, f)
	}
	return terms
}

// Match returns the fields of criteria found in text.
func (m *Matcher) Match(text string, criteria models.Criteria) []string {
	return m.Compile(criteria).Match(text)
}

// Terms is a compiled set of criteria. It is safe for concurrent use.
type Terms struct {
	fields []field
}

type field struct {
	name     string
	patterns []*regexp2.Regexp
}

// Match returns the names of the fields with at least one variant occurring in
// text, in sorted field order. Each field appears at most once.
func (t *Terms) Match(text string) []string {
	matched := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		for _, re := range f.patterns {
			ok, err := re.MatchString(text)
			if err != nil {
				// match timeout
				continue
			}
			if ok {
				matched = append(matched, f.name)
				break
			}
		}
	}
	return matched
}
