package securestore

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/cryptox"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
)

const saltSize = 16

// EncryptedStore seals every value with AES-GCM before it reaches the
// metadata table. The entry key is bound as associated data, so a sealed
// value only opens under the key it was written to. The key is derived from a passphrase and a per-database
// salt; salt and verifier are stored in clear under reserved keys.
type EncryptedStore struct {
	repo metadata.Repository
	key  []byte
}

// OpenEncryptedStore derives the store key for db. On first use it creates
// the salt and verifier in one transaction; afterwards it checks the
// passphrase against the verifier and returns ErrWrongPassphrase on mismatch.
func OpenEncryptedStore(ctx context.Context, db *sql.DB, passphrase []byte) (*EncryptedStore, error) {
	repo := metadata.NewSQLiteRepository(db)

	salt, err := repo.Get(ctx, common.StoreSaltKey)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		salt = common.GenerateRandByteArray(saltSize)
		key := cryptox.DeriveKey(passphrase, salt)

		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			txRepo := metadata.NewSQLiteRepository(tx)
			if err := txRepo.Set(ctx, common.StoreSaltKey, salt); err != nil {
				return err
			}
			return txRepo.Set(ctx, common.StoreVerifierKey, cryptox.MakeVerifier(key))
		})
		if err != nil {
			return nil, fmt.Errorf("initialise store key: %w", err)
		}
		return &EncryptedStore{repo: repo, key: key}, nil
	}

	savedVerifier, err := repo.Get(ctx, common.StoreVerifierKey)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(passphrase, salt)
	if subtle.ConstantTimeCompare(savedVerifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return nil, ErrWrongPassphrase
	}
	return &EncryptedStore{repo: repo, key: key}, nil
}

// ResetEncryptedStore drops every entry in db together with the salt and
// verifier. The next OpenEncryptedStore initialises a fresh key from
// whatever passphrase it is given.
func ResetEncryptedStore(ctx context.Context, db *sql.DB) error {
	if err := metadata.NewSQLiteRepository(db).Clear(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	return nil
}

func reserved(key string) bool {
	return key == common.StoreSaltKey || key == common.StoreVerifierKey
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if reserved(key) {
		return "", false, fmt.Errorf("get %s: %w", key, ErrReservedKey)
	}

	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if raw == nil {
		return "", false, nil
	}

	value, err := cryptox.OpenString(string(raw), s.key, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", key, err)
	}
	return value, true, nil
}

func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	if reserved(key) {
		return fmt.Errorf("set %s: %w", key, ErrReservedKey)
	}
	if err := checkValue(key, value); err != nil {
		return err
	}

	sealed, err := cryptox.SealString(value, s.key, []byte(key))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, []byte(sealed))
}

func (s *EncryptedStore) Delete(ctx context.Context, key string) error {
	if reserved(key) {
		return fmt.Errorf("delete %s: %w", key, ErrReservedKey)
	}
	return s.repo.Delete(ctx, key)
}

// Close wipes the in-memory key. The store must not be used afterwards.
func (s *EncryptedStore) Close() {
	common.WipeByteArray(s.key)
}
