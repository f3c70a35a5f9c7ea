package storage

import (
	"database/sql"
	"fmt"
)

// CitedBy returns the papers that cite filename, ordered by name.
func (d *DB) CitedBy(filename string) ([]string, error) {
	rows, err := d.db.Query(`SELECT source FROM citations WHERE target = ? ORDER BY source`, filename)
	if err != nil {
		return nil, fmt.Errorf("querying cited-by: %w", err)
	}
	defer rows.Close()
	return scanNames(rows)
}

// Cites returns the papers filename cites, ordered by name.
func (d *DB) Cites(filename string) ([]string, error) {
	rows, err := d.db.Query(`SELECT target FROM citations WHERE source = ? ORDER BY target`, filename)
	if err != nil {
		return nil, fmt.Errorf("querying cites: %w", err)
	}
	defer rows.Close()
	return scanNames(rows)
}

// CitationCount returns the number of cached edges.
func (d *DB) CitationCount() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM citations").Scan(&count)
	return count, err
}

func scanNames(rows *sql.Rows) ([]string, error) {
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
