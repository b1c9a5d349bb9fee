//go:build !darwin || !cgo

package securestore

import "context"

// KeychainStore is only implemented on macOS with cgo enabled.
type KeychainStore struct{}

func NewKeychainStore(string) (*KeychainStore, error) {
	return nil, ErrUnsupported
}

func (*KeychainStore) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrUnsupported
}

func (*KeychainStore) Set(context.Context, string, string) error {
	return ErrUnsupported
}

func (*KeychainStore) Delete(context.Context, string) error {
	return ErrUnsupported
}
