// Package store holds the library index: one record per document, keyed by
// filename, persisted as a single JSON file.
//
// The store is the only owner of the record map. Readers get copies, so a
// record handed out is never changed underneath them.
package store

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/paper"
)

// ErrNotFound is returned by Get when no record has the filename.
var ErrNotFound = errors.New("paper not found in index")

// Store is a concurrency-safe, file-backed record map.
type Store struct {
	path string
	log  *zap.Logger

	mu      sync.RWMutex
	records map[string]paper.Paper
}

// Open loads the index file at path. A missing file gives an empty store; a
// corrupt one is logged and also gives an empty store.
func Open(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log, records: map[string]paper.Paper{}}

	records, err := Load(path)
	switch {
	case err == nil:
		s.records = records
	case errors.Is(err, os.ErrNotExist):
		log.Debug("no index file yet", zap.String("path", path))
	default:
		log.Error("index file unreadable, starting empty", zap.String("path", path), zap.Error(err))
	}
	return s
}

// Load reads and decodes an index file.
func Load(path string) (map[string]paper.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records := map[string]paper.Paper{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	for k, p := range records {
		records[k] = normalize(k, p)
	}
	return records, nil
}

// normalize fills fields older or hand-edited files may omit.
func normalize(key string, p paper.Paper) paper.Paper {
	if p.Filename == "" {
		p.Filename = key
	}
	return p.Clone()
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the record for filename.
func (s *Store) Get(filename string) (paper.Paper, error) {
	p, ok := s.Lookup(filename)
	if !ok {
		return paper.Paper{}, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return p, nil
}

// Lookup returns a copy of the record for filename, or the zero record.
func (s *Store) Lookup(filename string) (paper.Paper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[filename]
	if !ok {
		return paper.Paper{}, false
	}
	return p.Clone(), true
}

// Has reports whether filename is indexed.
func (s *Store) Has(filename string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[filename]
	return ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Put inserts or replaces a record under its filename.
func (s *Store) Put(p paper.Paper) {
	p = p.Clone()
	s.mu.Lock()
	s.records[p.Filename] = p
	s.mu.Unlock()
}

// Snapshot returns a deep copy of every record.
func (s *Store) Snapshot() map[string]paper.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]paper.Paper, len(s.records))
	for k, p := range s.records {
		out[k] = p.Clone()
	}
	return out
}

// PublishEdges copies Cites and CitedBy from a rebuilt record set into the
// store. Only edge fields change, and only for keys present in both maps.
// The lock is taken per record.
func (s *Store) PublishEdges(rebuilt map[string]paper.Paper) {
	keys := make([]string, 0, len(rebuilt))
	for k := range rebuilt {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		r := rebuilt[k]
		cites := slices.Clone(r.Cites)
		citedBy := slices.Clone(r.CitedBy)

		s.mu.Lock()
		if p, ok := s.records[k]; ok {
			p.Cites = nonNil(cites)
			p.CitedBy = nonNil(citedBy)
			s.records[k] = p
		}
		s.mu.Unlock()
	}
}

// Summaries lists every record's Summary, sorted by filename.
func (s *Store) Summaries() []paper.Summary {
	s.mu.RLock()
	out := make([]paper.Summary, 0, len(s.records))
	for _, p := range s.records {
		sum := p.Summarize()
		sum.Authors = slices.Clone(sum.Authors)
		out = append(out, sum)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b paper.Summary) int {
		return cmp.Compare(a.Filename, b.Filename)
	})
	return out
}

// Save overwrites the backing file with the current records.
func (s *Store) Save() error {
	return Write(s.path, s.Snapshot())
}

// Write encodes records to path, replacing the file atomically.
func Write(path string, records map[string]paper.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	// Write to a temp file first, then rename for atomicity
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
