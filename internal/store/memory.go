package store

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hyperjump/kiku/internal/models"
	"github.com/hyperjump/kiku/pkg/utils"
)

// MemoryStore implements Store with a mutex-guarded map. Entries never
// expire; memory is bounded by active users times the text cap.
type MemoryStore struct {
	mu            sync.RWMutex
	maxTextLength int
	contexts      map[string]models.DocumentContext
}

// NewMemoryStore returns a MemoryStore that caps stored text at maxTextLength characters.
func NewMemoryStore(maxTextLength int) *MemoryStore {
	return &MemoryStore{
		maxTextLength: maxTextLength,
		contexts:      make(map[string]models.DocumentContext),
	}
}

// Put stores a context for userID, replacing any existing one.
func (s *MemoryStore) Put(_ context.Context, userID, text, sourceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[userID] = models.DocumentContext{
		Owner:      userID,
		Text:       utils.Truncate(text, s.maxTextLength),
		SourceName: sourceName,
		CreatedAt:  time.Now(),
	}
	return nil
}

// Get returns the context for userID, or ok=false when none exists.
func (s *MemoryStore) Get(_ context.Context, userID string) (*models.DocumentContext, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dc, ok := s.contexts[userID]
	if !ok {
		return nil, false, nil
	}
	return &dc, true, nil
}

// Clear removes the context for userID and reports whether one was removed.
func (s *MemoryStore) Clear(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[userID]; !ok {
		return false, nil
	}
	delete(s.contexts, userID)
	return true, nil
}

// Status returns the source name and character count of the stored context.
func (s *MemoryStore) Status(_ context.Context, userID string) (string, int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dc, ok := s.contexts[userID]
	if !ok {
		return "", 0, false, nil
	}
	return dc.SourceName, utf8.RuneCountInString(dc.Text), true, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
