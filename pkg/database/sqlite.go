package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wonny/investor/pkg/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite wraps the database/sql handle used by the sqlite store
type SQLite struct {
	conn *sql.DB
	path string
}

// NewSQLite opens (creating if needed) the SQLite database at path
func NewSQLite(path string) (*SQLite, error) {
	// file: URIs are used as-is
	if !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	conn, err := sql.Open("sqlite", buildConnectionString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	return &SQLite{conn: conn, path: path}, nil
}

// buildConnectionString appends the PRAGMAs every connection needs.
// foreign_keys must be on per connection for ON DELETE CASCADE to fire.
func buildConnectionString(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep +
		"_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"
}

// Conn returns the underlying sql.DB connection
func (db *SQLite) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *SQLite) Path() string {
	return db.path
}

// Close closes the database connection
func (db *SQLite) Close() error {
	return db.conn.Close()
}

// HealthCheck pings the database and runs a quick integrity check
func (db *SQLite) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Driver:    config.DriverSQLite,
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := db.conn.PingContext(ctx); err != nil {
		status.Error = err.Error()
		return status, err
	}

	var result string
	if err := db.conn.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		status.Error = err.Error()
		return status, fmt.Errorf("quick check query failed: %w", err)
	}
	if result != "ok" {
		status.Error = result
		return status, fmt.Errorf("quick check failed: %s", result)
	}
	status.ResponseTime = time.Since(start)

	stats := db.conn.Stats()
	status.Stats = PoolStats{
		AcquiredConns: int32(stats.InUse),
		IdleConns:     int32(stats.Idle),
		MaxConns:      int32(stats.MaxOpenConnections),
		TotalConns:    int32(stats.OpenConnections),
	}

	status.Healthy = true
	return status, nil
}
