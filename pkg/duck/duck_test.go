package duck_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/duck"
)

func TestDuck_Database(t *testing.T) {
	t.Parallel()

	log := slog.Default()

	t.Run("in-memory roundtrip", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db, err := duck.NewDB(ctx, log, "")
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, db.Close()) })

		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.ExecContext(ctx, "CREATE TABLE t (id BIGINT, name VARCHAR)")
		require.NoError(t, err)
		_, err = conn.ExecContext(ctx, "INSERT INTO t VALUES (?, ?)", int64(1), "one")
		require.NoError(t, err)

		var name string
		require.NoError(t, conn.QueryRowContext(ctx, "SELECT name FROM t WHERE id = ?", int64(1)).Scan(&name))
		require.Equal(t, "one", name)
	})

	t.Run("file-backed database creates parent directory", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "dir", "risklake.db")

		db, err := duck.NewDB(ctx, log, path)
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})

	t.Run("connections see the same catalog", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := duck.TestDB(t)

		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		_, err = conn.ExecContext(ctx, "CREATE TABLE shared (id BIGINT)")
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		conn, err = db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()
		var count int64
		require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM shared").Scan(&count))
		require.Zero(t, count)
	})
}

func TestDuck_RedactedDatabasePath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "risklake.db", duck.RedactedDatabasePath("risklake.db"))
	require.Equal(t, "risklake.db?REDACTED", duck.RedactedDatabasePath("risklake.db?motherduck_token=secret"))
}
