package biometric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

type staticSessions struct {
	snap  session.Snapshot
	err   error
	reads int
}

func (s *staticSessions) Snapshot(context.Context) (session.Snapshot, error) {
	s.reads++
	return s.snap, s.err
}

func TestCheckSession(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sessRec := &CredentialRecord{Email: "a@b.com", Credential: SessionCredential{Token: "T1"}, Profile: sampleProfile()}
	pwRec := &CredentialRecord{Email: "a@b.com", Credential: PasswordCredential{Password: "p"}, Profile: sampleProfile()}
	alice := &session.User{ID: 42, Email: "a@b.com"}

	tests := []struct {
		name string
		rec  *CredentialRecord
		snap session.Snapshot
		want Verdict
	}{
		{"password ignores session", pwRec, session.Snapshot{}, Verdict{Valid: true}},
		{"no token", sessRec, session.Snapshot{User: alice}, Verdict{Reason: ReasonNoSession}},
		{"no session at all", sessRec, session.Snapshot{}, Verdict{Reason: ReasonNoSession}},
		{"no profile", sessRec, session.Snapshot{Token: "T1"}, Verdict{Reason: ReasonNoProfile}},
		{"profile without email", sessRec, session.Snapshot{Token: "T1", User: &session.User{ID: 42}}, Verdict{Reason: ReasonNoProfile}},
		{"other account", sessRec, session.Snapshot{Token: "T1", User: &session.User{Email: "c@d.com"}}, Verdict{Reason: ReasonAccountMismatch}},
		{"email case differs", sessRec, session.Snapshot{Token: "T1", User: &session.User{Email: "A@B.com"}}, Verdict{Valid: true}},
		{"opaque token", sessRec, session.Snapshot{Token: "T1", User: alice}, Verdict{Valid: true}},
		{"jwt not expired", sessRec, session.Snapshot{Token: signedToken(t, now.Add(time.Hour)), User: alice}, Verdict{Valid: true}},
		{"jwt expired", sessRec, session.Snapshot{Token: signedToken(t, now.Add(-time.Hour)), User: alice}, Verdict{Reason: ReasonTokenExpired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckSession(tt.rec, tt.snap, now))
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	t.Run("password record skips the session read", func(t *testing.T) {
		src := &staticSessions{err: errors.New("unreachable")}
		v, err := NewValidator(src, clock).Validate(ctx, &CredentialRecord{Email: "a@b.com", Credential: PasswordCredential{Password: "p"}})
		require.NoError(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, 0, src.reads)
	})

	t.Run("nil source reads as signed out", func(t *testing.T) {
		got, err := NewValidator(nil, clock).Validate(ctx, &CredentialRecord{Email: "a@b.com", Credential: SessionCredential{Token: "T1"}})
		require.NoError(t, err)
		assert.Equal(t, Verdict{Reason: ReasonNoSession}, got)
	})

	t.Run("read error is returned", func(t *testing.T) {
		src := &staticSessions{err: errors.New("disk")}
		_, err := NewValidator(src, clock).Validate(ctx, &CredentialRecord{Email: "a@b.com", Credential: SessionCredential{Token: "T1"}})
		require.Error(t, err)
	})

	t.Run("uses the clock", func(t *testing.T) {
		exp := clock.Now().Add(time.Minute)
		src := &staticSessions{snap: session.Snapshot{Token: signedToken(t, exp), User: &session.User{Email: "a@b.com"}}}
		v := NewValidator(src, clock)
		rec := &CredentialRecord{Email: "a@b.com", Credential: SessionCredential{Token: "T1"}}

		got, err := v.Validate(ctx, rec)
		require.NoError(t, err)
		assert.True(t, got.Valid)

		clock.Advance(2 * time.Minute)
		got, err = v.Validate(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, ReasonTokenExpired, got.Reason)
	})
}
