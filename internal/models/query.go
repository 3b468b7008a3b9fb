package models

import "fmt"

// SearchRequest is the input of a search over HTTP or the CLI. The three named
// fields are the ones the web form sends; Terms carries any other field.
type SearchRequest struct {
	Expediente string            `json:"expediente,omitempty"`
	Sello      string            `json:"sello,omitempty"`
	Caratula   string            `json:"caratula,omitempty"`
	Terms      map[string]string `json:"terms,omitempty"`
	MatchAll   bool              `json:"match_all"`
}

// Criteria merges the named fields and Terms into normalized criteria.
// Named fields win over Terms entries with the same key.
func (r *SearchRequest) Criteria() Criteria {
	terms := make(map[string]string, len(r.Terms)+3)
	for k, v := range r.Terms {
		terms[k] = v
	}
	for k, v := range map[string]string{
		"expediente": r.Expediente,
		"sello":      r.Sello,
		"caratula":   r.Caratula,
	} {
		if v != "" {
			terms[k] = v
		}
	}
	return NewCriteria(terms)
}

// Validate returns an error if the request carries no searchable term.
func (r *SearchRequest) Validate() error {
	if r.Criteria().Empty() {
		return fmt.Errorf("at least one search term is required")
	}
	return nil
}
