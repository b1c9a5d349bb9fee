package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
)

const (
	selectValueSQL = `SELECT value FROM metadata WHERE key = ?`

	upsertValueSQL = `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

	deleteValueSQL = `DELETE FROM metadata WHERE key = ?`
	deleteAllSQL   = `DELETE FROM metadata`
)

// SQLiteRepository stores sealed store entries in the metadata table
// created by the 00001 migration.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository binds the repository to db, which may be a *sql.DB or
// a transaction handle from dbx.WithTx.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	switch err := r.db.QueryRowContext(ctx, selectValueSQL, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("metadata get %q: %w", key, err)
	}
	return value, nil
}

// Set inserts key or replaces its value, bumping updated_at.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertValueSQL, key, value); err != nil {
		return fmt.Errorf("metadata set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteValueSQL, key); err != nil {
		return fmt.Errorf("metadata delete %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteAllSQL); err != nil {
		return fmt.Errorf("metadata clear: %w", err)
	}
	return nil
}
