// Package securestore provides the string-keyed, string-valued persistent
// store that holds the session and the biometric credential record.
//
// Three implementations exist: EncryptedStore (AES-GCM over the local SQLite
// metadata table), KeychainStore (macOS Keychain, darwin only) and
// MemoryStore (tests and throwaway sessions).
package securestore

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrNotUTF8 is returned by Set when the value is not valid UTF-8.
	ErrNotUTF8 = errors.New("value is not a valid UTF-8 string")
	// ErrWrongPassphrase means the store exists but was sealed with another key.
	ErrWrongPassphrase = errors.New("wrong store passphrase")
	// ErrReservedKey guards the keys the encrypted store keeps for itself.
	ErrReservedKey = errors.New("reserved key")
	// ErrUnsupported is returned when a backend is not available on this platform.
	ErrUnsupported = errors.New("store backend not supported on this platform")
)

// Store is a persistent key/value store with string values.
//
// Get reports ok=false for a missing key. Delete of a missing key is not an
// error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

func checkValue(key, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("set %s: %w", key, ErrNotUTF8)
	}
	return nil
}
