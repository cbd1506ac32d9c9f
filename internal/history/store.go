// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists conversion outcomes in a local SQLite log.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// DefaultDBPath is where the log lives when no path is configured.
var DefaultDBPath = filepath.Join("ink", "index", "history.db")

// Store manages the conversion history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.DBPath,
// creating parent directories and the schema as needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			input_path TEXT NOT NULL,
			output_path TEXT,
			status TEXT NOT NULL,
			diagnostic TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_recorded_at ON conversions(recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one conversion outcome to the log.
func (s *Store) Record(ctx context.Context, c types.Conversion) error {
	recordedAt := c.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (input_path, output_path, status, diagnostic, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.InputPath, c.OutputPath, string(c.Status), c.Diagnostic,
		recordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", c.InputPath, err)
	}
	return nil
}

// Recent returns up to limit conversions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Conversion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT input_path, output_path, status, diagnostic, recorded_at
		 FROM conversions ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []types.Conversion
	for rows.Next() {
		var c types.Conversion
		var status, recordedAt string
		if err := rows.Scan(&c.InputPath, &c.OutputPath, &status, &c.Diagnostic, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		c.Status = types.ConversionStatus(status)
		ts, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", recordedAt, err)
		}
		c.RecordedAt = ts
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}

	return out, nil
}
