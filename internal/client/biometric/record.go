package biometric

import "time"

type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodSession  AuthMethod = "authenticated-session"
)

// SessionMarker is stored as the secret of session-bound records.
const SessionMarker = "session-based"

// Credential is either a PasswordCredential or a SessionCredential.
type Credential interface {
	Method() AuthMethod
	isCredential()
}

// PasswordCredential keeps the account password for re-login against the
// backend.
type PasswordCredential struct {
	Password string
}

func (PasswordCredential) Method() AuthMethod { return AuthMethodPassword }
func (PasswordCredential) isCredential()      {}

// SessionCredential piggybacks on a live login session.
type SessionCredential struct {
	Token string
}

func (SessionCredential) Method() AuthMethod { return AuthMethodSession }
func (SessionCredential) isCredential()      {}

// LocalProfile lets sign-in complete without a network round trip.
type LocalProfile struct {
	ID          int64
	Email       string
	DisplayName string
	LastUsedAt  time.Time
	SetupAt     time.Time
}

// CredentialRecord is the single persisted biometric credential.
type CredentialRecord struct {
	Email      string
	Credential Credential
	Profile    *LocalProfile
}

func (r *CredentialRecord) Method() AuthMethod {
	if r.Credential == nil {
		return ""
	}
	return r.Credential.Method()
}

func (r *CredentialRecord) SessionBound() bool {
	_, ok := r.Credential.(SessionCredential)
	return ok
}

// Secret is the password for password records and SessionMarker otherwise.
func (r *CredentialRecord) Secret() string {
	switch c := r.Credential.(type) {
	case PasswordCredential:
		return c.Password
	case SessionCredential:
		return SessionMarker
	default:
		return ""
	}
}

// SessionToken is "" for password records.
func (r *CredentialRecord) SessionToken() string {
	if c, ok := r.Credential.(SessionCredential); ok {
		return c.Token
	}
	return ""
}

// wellFormed is the shape required while biometric login is enabled.
func (r *CredentialRecord) wellFormed() bool {
	return r.Email != "" && r.Credential != nil && r.Profile != nil && r.Profile.Email != ""
}
