// Package storage maintains a SQLite query cache of the library index.
//
// The cache is derived state: it is rebuilt wholesale from the JSON index and
// can be deleted at any time.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matsen/citenet/internal/paper"
	_ "modernc.org/sqlite"
)

// ErrCacheNotFound is returned by OpenExisting when no cache file exists.
var ErrCacheNotFound = errors.New("query cache not found (run 'citenet rebuild')")

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `p.filename, p.filepath, p.title, p.authors_json, p.year,
	p.cites_count, p.cited_by_count`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// OpenExisting opens the cache only if its file already exists.
func OpenExisting(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("checking cache: %w", err)
	}
	return OpenDB(path)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			filename TEXT PRIMARY KEY,
			filepath TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT,
			year TEXT,
			semantic_scholar_id TEXT,
			authors_json TEXT NOT NULL,
			reference_count INTEGER NOT NULL,
			cites_count INTEGER NOT NULL,
			cited_by_count INTEGER NOT NULL
		);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			filename,
			title,
			authors_text,
			abstract
		);

		CREATE TABLE IF NOT EXISTS citations (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			PRIMARY KEY (source, target)
		);

		CREATE INDEX IF NOT EXISTS idx_citations_target ON citations(target);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromIndex clears the database and reloads it from the given
// records, in one transaction. It returns the number of papers written.
func (d *DB) RebuildFromIndex(records map[string]paper.Paper) (n int, err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"papers", "papers_fts", "citations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (
			filename, filepath, title, abstract, year, semantic_scholar_id,
			authors_json, reference_count, cites_count, cited_by_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO papers_fts (filename, title, authors_text, abstract)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	citesStmt, err := tx.Prepare(`INSERT OR IGNORE INTO citations (source, target) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing citations insert: %w", err)
	}
	defer citesStmt.Close()

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		p := records[k]
		s := p.Summarize()

		authorsJSON, err := json.Marshal(s.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", k, err)
		}

		_, err = papersStmt.Exec(
			k, p.Filepath, s.Title, p.Abstract, p.Year, nullableStringValue(p.ExternalID),
			string(authorsJSON), len(p.References), len(p.Cites), len(p.CitedBy),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", k, err)
		}

		if _, err = ftsStmt.Exec(k, s.Title, strings.Join(s.Authors, ", "), p.Abstract); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", k, err)
		}

		for _, target := range p.Cites {
			if _, err = citesStmt.Exec(k, target); err != nil {
				return 0, fmt.Errorf("inserting citation %s -> %s: %w", k, target, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing cache: %w", err)
	}
	return len(keys), nil
}

// Search performs a full-text search and returns matching papers, best
// matches first.
func (d *DB) Search(query string, limit int) ([]paper.Summary, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return []paper.Summary{}, nil
	}
	return d.match(ftsQuery, limit)
}

// match runs a raw FTS5 query.
func (d *DB) match(ftsQuery string, limit int) ([]paper.Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers p
		JOIN (SELECT filename, rank FROM papers_fts WHERE papers_fts MATCH ?) f
			ON f.filename = p.filename
		ORDER BY f.rank, p.filename
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// SearchField searches a single field: "title", "author" or "abstract".
func (d *DB) SearchField(field, value string, limit int) ([]paper.Summary, error) {
	column := map[string]string{
		"title":    "title",
		"author":   "authors_text",
		"abstract": "abstract",
	}[field]
	if column == "" {
		return nil, fmt.Errorf("unknown search field: %s", field)
	}
	q := prepareFTSQuery(value)
	if q == "" {
		return []paper.Summary{}, nil
	}
	return d.match(columnFilter(column, q), limit)
}

// ListAll returns every cached paper ordered by filename.
func (d *DB) ListAll() ([]paper.Summary, error) {
	rows, err := d.db.Query(`SELECT ` + selectPaperFields + ` FROM papers p ORDER BY p.filename`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// Count returns the number of cached papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

func scanSummaries(rows *sql.Rows) ([]paper.Summary, error) {
	out := []paper.Summary{}
	for rows.Next() {
		var s paper.Summary
		var authorsJSON string
		var year sql.NullString
		if err := rows.Scan(&s.Filename, &s.Filepath, &s.Title, &authorsJSON, &year,
			&s.CitesCount, &s.CitedByCount); err != nil {
			return nil, err
		}
		s.Year = year.String
		if err := json.Unmarshal([]byte(authorsJSON), &s.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors JSON for %s: %w", s.Filename, err)
		}
		if s.Authors == nil {
			s.Authors = []string{}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/'") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}

// columnFilter restricts every term of a prepared query to one column.
func columnFilter(column, q string) string {
	if strings.HasPrefix(q, "\"") {
		return column + ":" + q
	}
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = column + ":" + t
	}
	return strings.Join(terms, " AND ")
}
