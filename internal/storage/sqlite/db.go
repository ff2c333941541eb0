package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/sandevgo/querybot/pkg/log"
	"github.com/sandevgo/querybot/pkg/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewDB opens the query journal at dbPath and brings its schema up to date.
// The journal has a single writer, so the pool is capped at one connection
// to avoid SQLITE_BUSY between concurrent sessions.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open(sqlite.DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("path", dbPath).Msg("query journal ready")
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log.NewGooseLoggerFromCtx(ctx))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, "migrations")
}
