package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kiku/internal/models"
	"github.com/hyperjump/kiku/pkg/utils"
)

// SQLiteStore implements Store on an in-process in-memory SQLite database.
// Nothing survives the process; the backend exists for operators who want
// the context table inspectable through SQL at runtime.
type SQLiteStore struct {
	db            *sql.DB
	maxTextLength int
}

// NewSQLiteStore opens an in-memory SQLite database and initializes the schema.
func NewSQLiteStore(maxTextLength int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each pooled connection would otherwise see its own private :memory:
	// database; a single connection keeps one shared table.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, maxTextLength: maxTextLength}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS contexts (
		user_id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		source_name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Put stores a context for userID, replacing any existing row.
func (s *SQLiteStore) Put(ctx context.Context, userID, text, sourceName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contexts (user_id, text, source_name, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   text = excluded.text,
		   source_name = excluded.source_name,
		   created_at = excluded.created_at`,
		userID, utils.Truncate(text, s.maxTextLength), sourceName, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store context: %w", err)
	}
	return nil
}

// Get returns the context for userID, or ok=false when none exists.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (*models.DocumentContext, bool, error) {
	var dc models.DocumentContext
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, text, source_name, created_at FROM contexts WHERE user_id = ?`,
		userID,
	).Scan(&dc.Owner, &dc.Text, &dc.SourceName, &dc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &dc, true, nil
}

// Clear removes the context for userID and reports whether a row was removed.
func (s *SQLiteStore) Clear(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contexts WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Status returns the source name and character count of the stored context.
func (s *SQLiteStore) Status(ctx context.Context, userID string) (string, int, bool, error) {
	var sourceName, text string
	err := s.db.QueryRowContext(ctx,
		`SELECT source_name, text FROM contexts WHERE user_id = ?`,
		userID,
	).Scan(&sourceName, &text)
	if err == sql.ErrNoRows {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return sourceName, utf8.RuneCountInString(text), true, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
