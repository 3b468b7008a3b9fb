package models

import "time"

// MatchDetails tells where each matched field was found.
type MatchDetails struct {
	FilenameMatches []string `json:"filename_matches"`
	ContentMatches  []string `json:"content_matches"`
}

// SearchResult is one matching document. It is built once per search and never modified.
type SearchResult struct {
	ID             string       `json:"id"`
	Filename       string       `json:"filename"`
	Path           string       `json:"path"`
	RelativePath   string       `json:"relative_path"`
	Size           int64        `json:"size"`
	Modified       time.Time    `json:"modified"`
	Matches        []string     `json:"matches"`
	MatchDetails   MatchDetails `json:"match_details"`
	RelevanceScore int          `json:"relevance_score"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	SearchID string          `json:"search_id"`
	Results  []*SearchResult `json:"results"`
	Total    int             `json:"total"`
	// Truncated is set when the scan stopped at the configured result cap.
	Truncated bool     `json:"truncated"`
	QueryTime int64    `json:"query_time_ms"`
	MatchAll  bool     `json:"match_all"`
	Criteria  Criteria `json:"criteria"`
}

// ConfigSnapshot is the read-only view of the search configuration exposed to clients.
type ConfigSnapshot struct {
	SearchDirectory      string   `json:"search_directory"`
	CaseSensitive        bool     `json:"case_sensitive"`
	SearchSubdirectories bool     `json:"search_subdirectories"`
	MaxResults           int      `json:"max_results"`
	MaxPages             int      `json:"max_pages"`
	Extensions           []string `json:"extensions"`
}
