// Package store defines the per-user document-context store and its backends.
package store

import (
	"context"
	"fmt"

	"github.com/hyperjump/kiku/internal/models"
)

// Store maps a user identifier to that user's single document context.
// Put truncates text to the configured maximum before storing and
// unconditionally replaces any existing entry (last-write-wins, no merge).
// Implementations are safe for concurrent use.
type Store interface {
	Put(ctx context.Context, userID, text, sourceName string) error
	Get(ctx context.Context, userID string) (*models.DocumentContext, bool, error)
	// Clear removes the entry if present and reports whether anything was removed.
	Clear(ctx context.Context, userID string) (bool, error)
	// Status returns the source name and text length without mutating state.
	Status(ctx context.Context, userID string) (sourceName string, length int, ok bool, err error)
	Close() error
}

// New returns a Store for the given backend name: "memory" (map-backed) or
// "sqlite" (in-process in-memory SQLite database).
func New(backend string, maxTextLength int) (Store, error) {
	switch backend {
	case "memory":
		return NewMemoryStore(maxTextLength), nil
	case "sqlite":
		return NewSQLiteStore(maxTextLength)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
