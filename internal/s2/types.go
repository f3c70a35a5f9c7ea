// Package s2 provides a client for the Semantic Scholar Academic Graph API
// and the title resolver built on it.
package s2

// S2Paper represents a paper from the Semantic Scholar API.
type S2Paper struct {
	PaperID  string     `json:"paperId"`
	Title    string     `json:"title"`
	Abstract string     `json:"abstract,omitempty"`
	Authors  []S2Author `json:"authors,omitempty"`
	Year     *int       `json:"year,omitempty"` // null for some papers
}

// S2Author represents an author from the Semantic Scholar API.
type S2Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// CitationResult represents one entry of the references endpoint.
type CitationResult struct {
	CitedPaper *S2Paper `json:"citedPaper,omitempty"`
}

// ReferencesResponse is the response from the references endpoint.
type ReferencesResponse struct {
	Offset int              `json:"offset"`
	Next   int              `json:"next,omitempty"`
	Data   []CitationResult `json:"data"`
}

// SearchResponse is the response from the paper search endpoint.
type SearchResponse struct {
	Total  int       `json:"total"`
	Offset int       `json:"offset"`
	Next   int       `json:"next,omitempty"`
	Data   []S2Paper `json:"data"`
}
