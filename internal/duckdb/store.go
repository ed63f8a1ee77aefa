// Package duckdb persists derived gene-structure rows in a DuckDB database
// for ad-hoc querying.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/lampyrid/orstruct/internal/derive"
)

// Store manages a DuckDB connection holding derived OR feature rows.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS or_features (
		gene VARCHAR,
		lg VARCHAR,
		fragment INTEGER,
		feature VARCHAR,
		title VARCHAR,
		start BIGINT,
		"end" BIGINT,
		strand VARCHAR,
		length BIGINT,
		converted_start BIGINT,
		converted_end BIGINT,
		relative_start BIGINT,
		relative_end BIGINT,
		structure VARCHAR,
		"group" VARCHAR,
		clade VARCHAR
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS metadata (
		key VARCHAR PRIMARY KEY,
		value VARCHAR
	)`)
	return err
}

// WriteRows inserts derived rows in a single transaction.
func (s *Store) WriteRows(rows []derive.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO or_features VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		if _, err := stmt.Exec(
			r.GeneID, r.LG, r.Fragment, r.Kind.String(), r.Title,
			r.Start, r.End, r.Strand.String(), r.Length,
			r.ConvertedStart, r.ConvertedEnd,
			r.RelativeStart, r.RelativeEnd,
			r.Structure, r.Group, r.Clade,
		); err != nil {
			return fmt.Errorf("insert row for gene %s: %w", r.GeneID, err)
		}
	}

	return tx.Commit()
}

// RowCount returns the number of stored feature rows.
func (s *Store) RowCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM or_features`).Scan(&count)
	return count, err
}

// GeneCount returns the number of distinct genes in the store.
func (s *Store) GeneCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT gene) FROM or_features`).Scan(&count)
	return count, err
}

// GeneStructure returns the structure label of one gene, or sql.ErrNoRows.
func (s *Store) GeneStructure(gene string) (string, error) {
	var structure string
	err := s.db.QueryRow(
		`SELECT structure FROM or_features WHERE gene = ? AND feature = 'total'`,
		gene,
	).Scan(&structure)
	return structure, err
}

// SetMeta records a metadata key/value pair, replacing any previous value.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}

// GetMeta returns the value for a metadata key, or "" when unset.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
