// Package metadata is the SQLite-backed key/value table underneath the
// encrypted secure store.
package metadata

import (
	"context"
)

// Repository is a flat key/value table. Get returns (nil, nil) for a key
// that does not exist.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Clear drops every row, including the store salt and verifier.
	Clear(ctx context.Context) error
}
