package duck

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"
)

// TestDB creates an in-memory database for tests and closes it on cleanup.
func TestDB(t *testing.T) DB {
	t.Helper()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := NewDB(ctx, log, "")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// FailingDB is a mock DB whose connections fail on every operation.
type FailingDB struct{}

func (f *FailingDB) Conn(ctx context.Context) (Connection, error) {
	return &failingConn{}, nil
}

func (f *FailingDB) Close() error {
	return nil
}

type failingConn struct{}

func (f *failingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, errors.New("database error")
}

func (f *failingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("database error")
}

func (f *failingConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (f *failingConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return nil, errors.New("failed to begin transaction")
}

func (f *failingConn) Close() error {
	return nil
}
