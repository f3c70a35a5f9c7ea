package export

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var (
	// @type{key,
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	// semanticscholar = {value} or semanticscholar = "value"
	s2FieldRegex = regexp.MustCompile(`(?i)^\s*semanticscholar\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibTeXIndex indexes existing BibTeX entries for deduplication.
type BibTeXIndex struct {
	// Keys maps citation keys to true for existence check
	Keys map[string]bool
	// ExternalIDs maps Semantic Scholar IDs to citation keys
	ExternalIDs map[string]string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys:        make(map[string]bool),
		ExternalIDs: make(map[string]string),
	}
}

// HasEntry returns true if the entry already exists. The Semantic Scholar ID
// is the primary match; the citation key is the fallback.
func (idx *BibTeXIndex) HasEntry(key, externalID string) bool {
	if externalID != "" {
		if _, exists := idx.ExternalIDs[externalID]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// ParseBibTeXFile builds an index from an existing .bib file.
// Returns an empty index if the file doesn't exist.
func ParseBibTeXFile(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentKey string

	for scanner.Scan() {
		line := scanner.Text()

		if m := entryStartRegex.FindStringSubmatch(line); len(m) > 1 {
			currentKey = strings.TrimSpace(m[1])
			idx.Keys[currentKey] = true
		}
		if m := s2FieldRegex.FindStringSubmatch(line); len(m) > 1 && currentKey != "" {
			if id := strings.TrimSpace(m[1]); id != "" {
				idx.ExternalIDs[id] = currentKey
			}
		}
	}

	return idx, scanner.Err()
}

// AppendToBibFile appends BibTeX content to a file.
func AppendToBibFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Ensure we start on a new line
	_, err = file.WriteString("\n" + content)
	return err
}
