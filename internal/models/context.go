// Package models defines core data structures shared across kiku components.
package models

import "time"

// DocumentContext is the stored text of a user's most recently uploaded
// document. Each user has at most one live context; a new upload fully
// replaces the previous one.
type DocumentContext struct {
	Owner      string    `json:"owner"`
	Text       string    `json:"text"`
	SourceName string    `json:"source_name"`
	CreatedAt  time.Time `json:"created_at"`
}
