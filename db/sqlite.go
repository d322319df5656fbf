// Package db mirrors the measurement table into an in-memory SQLite database
// for aggregate queries. Nothing is written to disk.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"cytodiag/dataset"
)

// Store is a read-only SQL view of one dataset table.
type Store struct {
	db     *sql.DB
	schema *dataset.Schema
}

// ClassSummary aggregates the rows of one diagnosis.
type ClassSummary struct {
	Diagnosis int                `json:"diagnosis"`
	Count     int                `json:"count"`
	Means     map[string]float64 `json:"means"`
}

// Summary describes the loaded dataset.
type Summary struct {
	Rows    int            `json:"rows"`
	Classes []ClassSummary `json:"classes"`
}

// Open creates an empty in-memory database shaped after schema.
func Open(schema *dataset.Schema) (*Store, error) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every pooled connection to :memory: would see its own empty database
	database.SetMaxOpenConns(1)

	columns := make([]string, 0, schema.Len())
	for _, key := range schema.Keys() {
		columns = append(columns, fmt.Sprintf("%s REAL NOT NULL", quote(key)))
	}
	query := fmt.Sprintf(`
    CREATE TABLE measurements (
        id INTEGER PRIMARY KEY,
        sample_id TEXT,
        diagnosis INTEGER NOT NULL,
        %s
    );`, strings.Join(columns, ",\n        "))

	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create measurements: %w", err)
	}
	return &Store{db: database, schema: schema}, nil
}

// LoadTable copies every record of table into the store.
func (s *Store) LoadTable(ctx context.Context, table *dataset.Table) error {
	if table.Schema().Len() != s.schema.Len() {
		return errors.New("table schema does not match store")
	}

	keys := s.schema.Keys()
	quoted := make([]string, len(keys))
	marks := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = quote(key)
		marks[i] = "?"
	}
	query := fmt.Sprintf(
		"INSERT INTO measurements (sample_id, diagnosis, %s) VALUES (?, ?, %s)",
		strings.Join(quoted, ", "), strings.Join(marks, ", "),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(keys)+2)
	for _, rec := range table.Records() {
		args[0] = rec.ID
		args[1] = rec.Diagnosis
		for i, v := range rec.Values {
			args[i+2] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Summary counts rows and averages every field per diagnosis.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	keys := s.schema.Keys()
	avgs := make([]string, len(keys))
	for i, key := range keys {
		avgs[i] = fmt.Sprintf("AVG(%s)", quote(key))
	}
	query := fmt.Sprintf(
		"SELECT diagnosis, COUNT(*), %s FROM measurements GROUP BY diagnosis ORDER BY diagnosis",
		strings.Join(avgs, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var class ClassSummary
		means := make([]float64, len(keys))
		dest := make([]any, len(keys)+2)
		dest[0] = &class.Diagnosis
		dest[1] = &class.Count
		for i := range means {
			dest[i+2] = &means[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return Summary{}, err
		}
		class.Means = make(map[string]float64, len(keys))
		for i, key := range keys {
			class.Means[key] = means[i]
		}
		summary.Rows += class.Count
		summary.Classes = append(summary.Classes, class)
	}
	return summary, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
