package filestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jo-hoe/magickpad/internal/files"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps files in a single table ordered by a lexicographic rank.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(connectionString string) (*SQLiteStore, error) {
	if connectionString == "" {
		connectionString = ":memory:"
	}
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS files (
		name TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		rank TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) AddFiles(ctx context.Context, collection []files.File) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var last sql.NullString
	if err = tx.QueryRowContext(ctx, "SELECT MAX(rank) FROM files").Scan(&last); err != nil {
		return fmt.Errorf("failed to read last rank: %w", err)
	}
	rank := last.String

	for _, f := range collection {
		var existing string
		err = tx.QueryRowContext(ctx, "SELECT rank FROM files WHERE name = ?", f.Name).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rank = nextRank(rank)
			_, err = tx.ExecContext(ctx, "INSERT INTO files (name, content, rank) VALUES (?, ?, ?)", f.Name, content(f), rank)
		case err == nil:
			_, err = tx.ExecContext(ctx, "UPDATE files SET content = ? WHERE name = ?", content(f), f.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", f.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit files: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]files.File, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, content FROM files ORDER BY rank")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []files.File{}
	for rows.Next() {
		var f files.File
		if err := rows.Scan(&f.Name, &f.Content); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// content keeps NOT NULL satisfied for empty files
func content(f files.File) []byte {
	if f.Content == nil {
		return []byte{}
	}
	return f.Content
}
