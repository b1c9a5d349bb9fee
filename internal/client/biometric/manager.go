package biometric

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const enabledValue = "true"

// UserContext carries what Enable needs. Either Password is set (password
// setup), or SessionToken is set together with AuthMethodSession.
type UserContext struct {
	Email        string
	Password     string
	SessionToken string
	AuthMethod   AuthMethod
	Profile      *ProfileInput
}

// ProfileInput is the user data copied into the record's LocalProfile.
type ProfileInput struct {
	ID          int64
	Email       string
	DisplayName string
}

type RefreshOutcome int

const (
	RefreshSkipped RefreshOutcome = iota
	RefreshUpdated
)

func (o RefreshOutcome) String() string {
	if o == RefreshUpdated {
		return "updated"
	}
	return "skipped"
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithCancelLabel sets the cancel button text of the platform prompt.
func WithCancelLabel(label string) Option {
	return func(m *Manager) { m.cancelLabel = label }
}

// WithDeviceFallback lets the platform offer the device passcode.
func WithDeviceFallback(allow bool) Option {
	return func(m *Manager) { m.deviceFallback = allow }
}

// Manager creates, refreshes, validates and destroys the biometric
// credential record.
type Manager struct {
	store    securestore.Store
	prompt   Prompt
	sessions SessionSource

	probe     *Probe
	validator *Validator

	log            logging.Logger
	clock          clockwork.Clock
	cancelLabel    string
	deviceFallback bool
}

func NewManager(store securestore.Store, hw Hardware, prompt Prompt, sessions SessionSource, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		prompt:      prompt,
		sessions:    sessions,
		log:         logging.Nop(),
		clock:       clockwork.NewRealClock(),
		cancelLabel: "Use password",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.probe = NewProbe(hw, m.log)
	m.validator = NewValidator(sessions, m.clock)
	return m
}

func (m *Manager) IsAvailable(ctx context.Context) Availability {
	return m.probe.Availability(ctx)
}

func (m *Manager) DisplayName(ctx context.Context) string {
	return m.probe.DisplayName(ctx)
}

// IsEnabled reports whether the enabled flag is set and a record is stored.
// Read failures count as disabled.
func (m *Manager) IsEnabled(ctx context.Context) bool {
	flag, _, err := m.store.Get(ctx, common.BiometricEnabledKey)
	if err != nil {
		m.log.Warn(ctx, "read biometric flag", "error", err)
		return false
	}
	if flag != enabledValue {
		return false
	}

	_, ok, err := m.store.Get(ctx, common.BiometricCredentialsKey)
	if err != nil {
		m.log.Warn(ctx, "read biometric record", "error", err)
		return false
	}
	return ok
}

// Enable prompts the user and, on success, stores a new record and sets the
// enabled flag. An existing record is replaced.
func (m *Manager) Enable(ctx context.Context, uc UserContext) (*CredentialRecord, error) {
	fail := func(kind, cause error) (*CredentialRecord, error) {
		return nil, &Error{Op: "enable", Kind: kind, Err: cause}
	}

	avail := m.probe.Availability(ctx)
	if !avail.HardwarePresent {
		return fail(ErrNotAvailable, nil)
	}
	if !avail.Enrolled {
		return fail(ErrNotEnrolled, nil)
	}

	rec, err := m.buildRecord(ctx, uc)
	if err != nil {
		return fail(ErrMissingCredentials, err)
	}
	// Validate before bothering the user with a prompt.
	if _, err := Encode(rec); err != nil {
		return fail(ErrMissingCredentials, err)
	}

	res, err := m.showPrompt(ctx, fmt.Sprintf("Confirm to enable %s sign-in", m.probe.DisplayName(ctx)))
	if err != nil {
		return fail(ErrPromptFailed, err)
	}
	if !res.Success {
		return fail(setupFailureKind(res.ErrorCode), promptCodeError(res.ErrorCode))
	}

	if err := m.write(ctx, rec); err != nil {
		return fail(ErrStorage, err)
	}
	if err := m.store.Set(ctx, common.BiometricEnabledKey, enabledValue); err != nil {
		if delErr := m.store.Delete(ctx, common.BiometricCredentialsKey); delErr != nil {
			m.log.Warn(ctx, "remove orphaned biometric record", "error", delErr)
		}
		return fail(ErrStorage, err)
	}

	m.log.Info(ctx, "biometric login enabled", "method", rec.Method())
	return rec, nil
}

func (m *Manager) buildRecord(ctx context.Context, uc UserContext) (*CredentialRecord, error) {
	email := strings.TrimSpace(uc.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	rec := &CredentialRecord{Email: email}

	switch uc.AuthMethod {
	case AuthMethodSession:
		if uc.SessionToken == "" {
			return nil, errors.New("session setup needs a session token")
		}
		rec.Credential = SessionCredential{Token: uc.SessionToken}
	case AuthMethodPassword, "":
		if uc.Password == "" {
			return nil, errors.New("password setup needs a password")
		}
		rec.Credential = PasswordCredential{Password: uc.Password}
	default:
		return nil, fmt.Errorf("unknown auth method %q", uc.AuthMethod)
	}

	now := m.clock.Now().UTC()
	rec.Profile = &LocalProfile{Email: email, SetupAt: now, LastUsedAt: now}

	switch {
	case uc.Profile != nil:
		rec.Profile.ID = uc.Profile.ID
		rec.Profile.DisplayName = uc.Profile.DisplayName
		if uc.Profile.Email != "" {
			rec.Profile.Email = uc.Profile.Email
		}
	case m.sessions != nil:
		snap, err := m.sessions.Snapshot(ctx)
		if err != nil {
			m.log.Warn(ctx, "read session for biometric profile", "error", err)
			break
		}
		if snap.User != nil && strings.EqualFold(snap.User.Email, email) {
			rec.Profile.ID = snap.User.ID
			rec.Profile.DisplayName = snap.User.DisplayName
		}
	}
	return rec, nil
}

// RefreshSessionToken copies a new session token into a session-bound
// record for the same account. It never prompts and never fails: anything
// that prevents the update yields RefreshSkipped.
func (m *Manager) RefreshSessionToken(ctx context.Context, token, email string) RefreshOutcome {
	if token == "" || !m.IsEnabled(ctx) {
		return RefreshSkipped
	}

	rec, err := m.load(ctx)
	if err != nil {
		m.log.Warn(ctx, "biometric refresh skipped", "error", err)
		return RefreshSkipped
	}
	if rec == nil || !rec.SessionBound() || !strings.EqualFold(rec.Email, strings.TrimSpace(email)) {
		return RefreshSkipped
	}

	rec.Credential = SessionCredential{Token: token}
	rec.Profile.LastUsedAt = m.clock.Now().UTC()

	if err := m.write(ctx, rec); err != nil {
		m.log.Warn(ctx, "biometric refresh write failed", "error", err)
		return RefreshSkipped
	}
	return RefreshUpdated
}

// Disable removes the enabled flag and the record. Calling it again is a
// no-op.
func (m *Manager) Disable(ctx context.Context) error {
	flagErr := m.store.Delete(ctx, common.BiometricEnabledKey)
	recErr := m.store.Delete(ctx, common.BiometricCredentialsKey)
	if err := errors.Join(flagErr, recErr); err != nil {
		return &Error{Op: "disable", Kind: ErrStorage, Err: err}
	}
	return nil
}

// Authenticate prompts the user and returns the stored record if it is
// still usable. A session-bound record whose session is gone is purged and
// reported as ErrSessionExpired. Every error asks for the password path.
func (m *Manager) Authenticate(ctx context.Context, promptMessage string) (*CredentialRecord, error) {
	log := m.log.With("attempt_id", uuid.NewString())

	fail := func(kind, cause error) (*CredentialRecord, error) {
		log.Info(ctx, "biometric login failed", "kind", kind.Error())
		return nil, &Error{Op: "authenticate", Kind: kind, Err: cause, Fallback: true}
	}

	if !m.probe.Availability(ctx).Available {
		return fail(ErrNotAvailable, nil)
	}

	res, err := m.showPrompt(ctx, promptMessage)
	if err != nil {
		return fail(ErrUnknown, err)
	}
	if !res.Success {
		return fail(authFailureKind(res.ErrorCode), promptCodeError(res.ErrorCode))
	}

	rec, err := m.load(ctx)
	if err != nil {
		return fail(ErrNoStoredCredentials, err)
	}
	if rec == nil {
		return fail(ErrNoStoredCredentials, nil)
	}

	verdict, err := m.validator.Validate(ctx, rec)
	if err != nil {
		return fail(ErrStorage, err)
	}
	if !verdict.Valid {
		if err := m.Disable(ctx); err != nil {
			log.Error(ctx, "purge stale biometric record", "error", err)
		} else {
			log.Info(ctx, "stale biometric record purged", "reason", string(verdict.Reason))
		}
		return fail(ErrSessionExpired, &StaleSessionError{Reason: verdict.Reason})
	}

	rec.Profile.LastUsedAt = m.clock.Now().UTC()
	if err := m.write(ctx, rec); err != nil {
		log.Warn(ctx, "update biometric last-used time", "error", err)
	}

	log.Debug(ctx, "biometric login succeeded", "method", rec.Method())
	return rec, nil
}

func (m *Manager) showPrompt(ctx context.Context, msg string) (PromptResult, error) {
	if m.prompt == nil {
		return PromptResult{}, errors.New("no biometric prompt configured")
	}
	return query(func() (PromptResult, error) {
		return m.prompt.Authenticate(ctx, PromptRequest{
			Message:             msg,
			CancelLabel:         m.cancelLabel,
			AllowDeviceFallback: m.deviceFallback,
		})
	})
}

// load returns (nil, nil) when no record is stored. A record that does not
// decode or lacks its profile is an error.
func (m *Manager) load(ctx context.Context) (*CredentialRecord, error) {
	raw, ok, err := m.store.Get(ctx, common.BiometricCredentialsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rec, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if !rec.wellFormed() {
		return nil, &DecodingError{Reason: "record without local profile"}
	}
	return rec, nil
}

func (m *Manager) write(ctx context.Context, rec *CredentialRecord) error {
	raw, err := Encode(rec)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, common.BiometricCredentialsKey, raw)
}

func promptCodeError(code string) error {
	if code == "" {
		code = CodeUnknown
	}
	return fmt.Errorf("platform error code %q", code)
}
