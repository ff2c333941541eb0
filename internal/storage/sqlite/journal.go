package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/querybot/internal/core"
)

type JournalRepo struct {
	db *sql.DB
}

func NewJournalRepo(db *sql.DB) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) Record(ctx context.Context, e core.JournalEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO query_journal
		(db_name, coll_name, kind, page, page_size, row_count, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.Database, e.Collection, e.Kind, e.Page, e.PageSize, e.Rows,
		string(e.Status), e.Error, e.Duration.Milliseconds(), createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]core.JournalEntry, error) {
	query := `SELECT id, db_name, coll_name, kind, page, page_size, row_count, status, error, duration_ms, created_at
		FROM query_journal ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []core.JournalEntry
	for rows.Next() {
		var (
			e          core.JournalEntry
			status     string
			durationMs int64
		)
		if err := rows.Scan(
			&e.ID, &e.Database, &e.Collection, &e.Kind, &e.Page, &e.PageSize, &e.Rows,
			&status, &e.Error, &durationMs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Status = core.JournalStatus(status)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
