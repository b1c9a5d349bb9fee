package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/client/config"
	"github.com/dmitrijs2005/walletkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// openStore opens the secure store selected by cfg.StoreBackend. The
// returned close function releases it. For the sqlite backend the
// passphrase comes from the config or, when empty, from the terminal. On a
// passphrase mismatch the user may choose to wipe the store and start over.
func openStore(ctx context.Context, cfg *config.Config, reader *bufio.Reader, w io.Writer) (securestore.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return securestore.NewMemoryStore(), func() error { return nil }, nil

	case config.StoreKeychain:
		s, err := securestore.NewKeychainStore(cfg.KeychainService)
		if err != nil {
			return nil, nil, fmt.Errorf("keychain store: %w", err)
		}
		return s, func() error { return nil }, nil

	case config.StoreSQLite:
		db, err := client.InitDatabase(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}

		passphrase := []byte(cfg.StorePassphrase)
		if len(passphrase) == 0 {
			passphrase, err = getPassword(reader, "Enter store passphrase", w)
			if err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		defer common.WipeByteArray(passphrase)

		s, err := securestore.OpenEncryptedStore(ctx, db, passphrase)
		if errors.Is(err, securestore.ErrWrongPassphrase) && reader != nil {
			s, err = resetStore(ctx, db, passphrase, reader, w, err)
		}
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, func() error {
			s.Close()
			return db.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// resetStore asks before wiping a store whose passphrase was lost. A "no"
// answer returns cause unchanged.
func resetStore(ctx context.Context, db *sql.DB, passphrase []byte, reader *bufio.Reader, w io.Writer, cause error) (*securestore.EncryptedStore, error) {
	ok, err := GetConfirmation(reader, "Store passphrase does not match. Forget stored data and start over?", w)
	if err != nil || !ok {
		return nil, cause
	}
	if err := securestore.ResetEncryptedStore(ctx, db); err != nil {
		return nil, err
	}
	return securestore.OpenEncryptedStore(ctx, db, passphrase)
}
