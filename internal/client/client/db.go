package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/linkfolio/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SessionFileMode keeps stored tokens readable by the owner only.
const SessionFileMode os.FileMode = 0o600

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// isPlainPath reports whether dsn names a file on disk rather than an
// in-memory database or a file: URI.
func isPlainPath(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

// InitDatabase opens the local session database at dsn and brings its schema
// up to date. A plain path is created with SessionFileMode and tightened to it
// when it already exists.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if isPlainPath(dsn) {
		f, err := os.OpenFile(dsn, os.O_RDWR|os.O_CREATE, SessionFileMode)
		if err != nil {
			return nil, fmt.Errorf("session file: %w", err)
		}
		_ = f.Close()
		if err := os.Chmod(dsn, SessionFileMode); err != nil {
			return nil, fmt.Errorf("session file: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// one REPL per process; a second linkctl waits instead of failing
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
