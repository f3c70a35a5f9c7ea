// Package paper defines the core domain types for indexed library documents.
package paper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Paper is the index record for one document in the library.
// Filename is the primary key and the only identity used for graph edges.
type Paper struct {
	// Identity
	Filename string `json:"filename"`
	Filepath string `json:"filepath"` // Absolute path at index time

	// Metadata
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Year     string   `json:"year"`

	// Semantic Scholar paper ID, empty when resolution failed
	ExternalID string `json:"semantic_scholar_id,omitempty"`

	// Immutable after the initial indexing pass
	References []Reference `json:"references"`

	// Derived, rebuilt every cycle. Sorted, no duplicates.
	Cites   []string `json:"cites"`
	CitedBy []string `json:"cited_by"`
}

// UnmarshalJSON accepts year as a string, a number, or null. Older index
// files wrote the Semantic Scholar integer year verbatim.
func (p *Paper) UnmarshalJSON(data []byte) error {
	type alias Paper
	aux := struct {
		*alias
		Year json.RawMessage `json:"year"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	year, err := decodeYear(aux.Year)
	if err != nil {
		return err
	}
	p.Year = year
	return nil
}

func decodeYear(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("year: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", fmt.Errorf("year: %w", err)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Reference is one entry of a paper's reference list.
// Title and ExternalID are only set when the entry came from Semantic Scholar.
type Reference struct {
	Text       string `json:"text"`
	Title      string `json:"title,omitempty"`
	ExternalID string `json:"semantic_scholar_id,omitempty"`
}

// Summary is the cheap listing projection of a Paper.
type Summary struct {
	Filename     string   `json:"filename"`
	Filepath     string   `json:"filepath"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Year         string   `json:"year"`
	CitesCount   int      `json:"cites_count"`
	CitedByCount int      `json:"cited_by_count"`
}

// Match is the metadata returned by a successful title lookup.
type Match struct {
	ExternalID string
	Title      string
	Authors    []string
	Abstract   string
	Year       string
}

// New returns an empty record for the given file with the title derived
// from the filename.
func New(filename, filepath string) Paper {
	return Paper{
		Filename:   filename,
		Filepath:   filepath,
		Title:      TitleFromFilename(filename),
		Authors:    []string{},
		References: []Reference{},
		Cites:      []string{},
		CitedBy:    []string{},
	}
}

// TitleFromFilename strips the extension from a filename.
func TitleFromFilename(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}

// Summarize projects the record to a Summary.
func (p Paper) Summarize() Summary {
	title := p.Title
	if title == "" {
		title = p.Filename
	}
	authors := p.Authors
	if authors == nil {
		authors = []string{}
	}
	return Summary{
		Filename:     p.Filename,
		Filepath:     p.Filepath,
		Title:        title,
		Authors:      authors,
		Year:         p.Year,
		CitesCount:   len(p.Cites),
		CitedByCount: len(p.CitedBy),
	}
}

// Clone returns a copy that shares no slices with p.
func (p Paper) Clone() Paper {
	c := p
	c.Authors = cloneStrings(p.Authors)
	c.References = slices.Clone(p.References)
	if c.References == nil {
		c.References = []Reference{}
	}
	c.Cites = cloneStrings(p.Cites)
	c.CitedBy = cloneStrings(p.CitedBy)
	return c
}

// HasExternalID reports whether the record was resolved against Semantic Scholar.
func (p Paper) HasExternalID() bool {
	return p.ExternalID != ""
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
