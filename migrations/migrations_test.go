package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	applied, err := Up(ctx, db, "sqlite")
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.EqualValues(t, 1, applied[0].Version)

	v, err := Version(ctx, db, "sqlite")
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	// second run is a no-op
	applied, err = Up(ctx, db, "sqlite")
	require.NoError(t, err)
	require.Empty(t, applied)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM branches`).Scan(&n))
	require.Zero(t, n)
}

func TestUp_UnknownDriver(t *testing.T) {
	_, err := Up(context.Background(), nil, "mysql")
	require.Error(t, err)
}
