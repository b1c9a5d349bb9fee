package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/walletkeeper/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations applies the embedded migrations. Running it twice is safe.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite database at dsn, creating its directory if
// needed, and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
