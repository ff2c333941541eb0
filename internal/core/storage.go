package core

import (
	"context"
	"time"
)

type JournalStatus string

const (
	JournalOK      JournalStatus = "ok"
	JournalEmpty   JournalStatus = "empty"
	JournalFailed  JournalStatus = "failed"
	JournalInvalid JournalStatus = "invalid"
)

// JournalEntry records one query executor call.
type JournalEntry struct {
	ID         int64         `json:"id"`
	Database   string        `json:"database"`
	Collection string        `json:"collection"`
	Kind       string        `json:"kind"` // "find" or "aggregate"
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Rows       int           `json:"rows"`
	Status     JournalStatus `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

type JournalRepository interface {
	Record(ctx context.Context, entry JournalEntry) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}
