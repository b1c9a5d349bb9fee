package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesMetadataTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "wallet.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.True(t, tableExists(t, db, "metadata"))
	require.True(t, tableExists(t, db, "goose_db_version"))

	_, err = db.ExecContext(ctx, `INSERT INTO metadata(key, value) VALUES ('k', x'01')`)
	require.NoError(t, err)

	var updatedAt string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT updated_at FROM metadata WHERE key='k'`).Scan(&updatedAt))
	require.NotEmpty(t, updatedAt)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "metadata"))
}
