//go:build cgo

package securestore

import (
	"context"
	"errors"
	"fmt"

	keychain "github.com/keybase/go-keychain"
)

const keychainLabel = "walletkeeper"

// KeychainStore keeps each key as a generic-password item in the macOS
// Keychain, device-local and readable only while the device is unlocked.
type KeychainStore struct {
	service string
}

func NewKeychainStore(service string) (*KeychainStore, error) {
	if service == "" {
		return nil, errors.New("keychain service is required")
	}
	return &KeychainStore{service: service}, nil
}

func (k *KeychainStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := keychain.GetGenericPassword(k.service, key, "", "")
	if err != nil {
		return "", false, fmt.Errorf("keychain get %s: %w", key, err)
	}
	if data == nil {
		return "", false, nil
	}
	return string(data), true, nil
}

func (k *KeychainStore) Set(_ context.Context, key, value string) error {
	if err := checkValue(key, value); err != nil {
		return err
	}

	item := keychain.NewGenericPassword(k.service, key, keychainLabel, []byte(value), "")
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlockedThisDeviceOnly)

	err := keychain.AddItem(item)
	if err == nil {
		return nil
	}
	if !errors.Is(err, keychain.ErrorDuplicateItem) {
		return fmt.Errorf("keychain add %s: %w", key, err)
	}

	query := keychain.NewGenericPassword(k.service, key, "", nil, "")
	update := keychain.NewItem()
	update.SetData([]byte(value))
	if err := keychain.UpdateItem(query, update); err != nil {
		return fmt.Errorf("keychain update %s: %w", key, err)
	}
	return nil
}

func (k *KeychainStore) Delete(_ context.Context, key string) error {
	query := keychain.NewGenericPassword(k.service, key, "", nil, "")
	if err := keychain.DeleteItem(query); err != nil && !errors.Is(err, keychain.ErrorItemNotFound) {
		return fmt.Errorf("keychain delete %s: %w", key, err)
	}
	return nil
}
