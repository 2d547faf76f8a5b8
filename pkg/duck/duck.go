// Package duck wraps an embedded DuckDB database behind small DB and
// Connection interfaces so stores and query engines can be tested against
// in-memory databases and mocked for failure paths.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DB is the handle stores and engines hold. A single process owns one DB;
// each operation checks out a Connection and closes it when done.
type DB interface {
	Conn(ctx context.Context) (Connection, error)
	Close() error
}

// Connection is a checked-out database connection.
type Connection interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

type Database struct {
	log *slog.Logger
	db  *sql.DB
}

type databaseConn struct {
	conn *sql.Conn
}

func (c *databaseConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *databaseConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *databaseConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.conn.QueryRowContext(ctx, query, args...)
}

func (c *databaseConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return c.conn.BeginTx(ctx, opts)
}

func (c *databaseConn) Close() error {
	return c.conn.Close()
}

// NewDB opens a DuckDB database at the given path. An empty path opens an
// in-memory database, which is what the test suites use.
func NewDB(ctx context.Context, log *slog.Logger, path string) (*Database, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DuckDB is in-process; verify the handle is actually usable before
	// handing it out.
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single connection keeps all sessions on the same in-memory catalog.
	db.SetMaxOpenConns(1)

	return &Database{log: log, db: db}, nil
}

func (d *Database) Conn(ctx context.Context) (Connection, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &databaseConn{conn: conn}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// RedactedDatabasePath redacts credential-looking query parameters from a
// database path before it is logged.
func RedactedDatabasePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		return path[:idx] + "?REDACTED"
	}
	return path
}
