package biometric

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/jonboulle/clockwork"
)

type StaleReason string

const (
	ReasonNoSession       StaleReason = "no-session"
	ReasonNoProfile       StaleReason = "no-profile"
	ReasonAccountMismatch StaleReason = "account-mismatch"
	ReasonTokenExpired    StaleReason = "token-expired"
)

// Verdict is the outcome of a session check. Reason is empty when Valid.
type Verdict struct {
	Valid  bool
	Reason StaleReason
}

// SessionSource yields the live session. *session.Store implements it.
type SessionSource interface {
	Snapshot(ctx context.Context) (session.Snapshot, error)
}

// CheckSession decides whether rec may be used given the live session snap.
// Password records are never stale. A session-bound record needs a token
// and a profile for the same account, and the token must not be a JWT
// that has already expired.
func CheckSession(rec *CredentialRecord, snap session.Snapshot, now time.Time) Verdict {
	if !rec.SessionBound() {
		return Verdict{Valid: true}
	}
	if snap.Token == "" {
		return Verdict{Reason: ReasonNoSession}
	}
	if snap.User == nil || snap.User.Email == "" {
		return Verdict{Reason: ReasonNoProfile}
	}
	if !strings.EqualFold(snap.User.Email, rec.Email) {
		return Verdict{Reason: ReasonAccountMismatch}
	}
	if session.TokenExpired(snap.Token, now) {
		return Verdict{Reason: ReasonTokenExpired}
	}
	return Verdict{Valid: true}
}

type Validator struct {
	sessions SessionSource
	clock    clockwork.Clock
}

func NewValidator(sessions SessionSource, clock clockwork.Clock) *Validator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Validator{sessions: sessions, clock: clock}
}

// Validate loads the live session and applies CheckSession. The session is
// not read for password records. A nil source reads as signed out.
func (v *Validator) Validate(ctx context.Context, rec *CredentialRecord) (Verdict, error) {
	if !rec.SessionBound() {
		return Verdict{Valid: true}, nil
	}
	if v.sessions == nil {
		return CheckSession(rec, session.Snapshot{}, v.clock.Now()), nil
	}

	snap, err := v.sessions.Snapshot(ctx)
	if err != nil {
		return Verdict{}, err
	}
	return CheckSession(rec, snap, v.clock.Now()), nil
}
