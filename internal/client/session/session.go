// Package session is the live session store: the bearer token and the user
// profile of the account that is currently logged in. Both live in the
// secure store under keys owned by this package.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// User is the minimal profile returned by the backend on login.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Snapshot is the session as currently persisted. Token is "" and User is
// nil when the corresponding key is absent.
type Snapshot struct {
	Token string
	User  *User
}

// Active reports whether both halves of the session are present.
func (s Snapshot) Active() bool {
	return s.Token != "" && s.User != nil && s.User.Email != ""
}

type Store struct {
	kv securestore.Store
}

func NewStore(kv securestore.Store) *Store {
	return &Store{kv: kv}
}

// Save persists token and user. The profile is written first so a reader
// never sees a token without its user.
func (s *Store) Save(ctx context.Context, token string, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.kv.Set(ctx, common.SessionUserKey, string(raw)); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	if err := s.kv.Set(ctx, common.SessionTokenKey, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

// Snapshot reads the current session. A profile that fails to decode is
// reported as absent rather than as an error.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	token, _, err := s.kv.Get(ctx, common.SessionTokenKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read session token: %w", err)
	}
	snap.Token = token

	raw, ok, err := s.kv.Get(ctx, common.SessionUserKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read session user: %w", err)
	}
	if ok && raw != "" {
		var u User
		if json.Unmarshal([]byte(raw), &u) == nil {
			snap.User = &u
		}
	}
	return snap, nil
}

// Clear removes both session keys. It is safe to call when logged out.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, common.SessionTokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := s.kv.Delete(ctx, common.SessionUserKey); err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}
