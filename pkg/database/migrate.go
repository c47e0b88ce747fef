package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/wonny/investor/pkg/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// goose keeps its dialect, FS and logger in package globals
var gooseMu sync.Mutex

// gooseLogger routes goose output through our logger
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debugf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatalf(strings.TrimSpace(format), v...)
}

// Migrate applies the embedded schema migrations for the SQLite store
func (db *SQLite) Migrate(ctx context.Context, log *logger.Logger) error {
	return migrate(ctx, db.conn, "sqlite3", "migrations/sqlite", log)
}

// Migrate applies the embedded schema migrations for the PostgreSQL store
func (db *DB) Migrate(ctx context.Context, log *logger.Logger) error {
	conn := stdlib.OpenDBFromPool(db.Pool)
	defer conn.Close()

	return migrate(ctx, conn, "postgres", "migrations/postgres", log)
}

func migrate(ctx context.Context, conn *sql.DB, dialect, dir string, log *logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect %s: %w", dialect, err)
	}

	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("apply migrations from %s: %w", dir, err)
	}

	return nil
}
