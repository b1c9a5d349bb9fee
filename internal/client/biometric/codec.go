package biometric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// EncodingError means a record cannot be written as-is.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode credential record: %s: %s", e.Field, e.Reason)
}

// DecodingError means the stored string is not a usable record.
type DecodingError struct {
	Reason string
	Err    error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode credential record: %s: %v", e.Reason, e.Err)
	}
	return "decode credential record: " + e.Reason
}

func (e *DecodingError) Unwrap() error { return e.Err }

type wireProfile struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
	SetupAt     time.Time `json:"setupAt"`
}

type wireRecord struct {
	Email        string       `json:"email"`
	Secret       string       `json:"secret"`
	AuthMethod   AuthMethod   `json:"authMethod"`
	SessionBound bool         `json:"sessionBound"`
	SessionToken *string      `json:"sessionToken"`
	LocalProfile *wireProfile `json:"localProfile"`
}

// wireRecordIn mirrors wireRecord but keeps sessionBound raw so its JSON
// type can be checked.
type wireRecordIn struct {
	Email        string          `json:"email"`
	Secret       string          `json:"secret"`
	AuthMethod   AuthMethod      `json:"authMethod"`
	SessionBound json.RawMessage `json:"sessionBound"`
	SessionToken *string         `json:"sessionToken"`
	LocalProfile *wireProfile    `json:"localProfile"`
}

func checkText(field, s string) error {
	if !utf8.ValidString(s) {
		return &EncodingError{Field: field, Reason: "not valid UTF-8"}
	}
	return nil
}

// Encode renders r as the JSON string kept in the secure store. sessionBound
// is derived from the credential type and timestamps are written in UTC.
func Encode(r *CredentialRecord) (string, error) {
	if r == nil {
		return "", &EncodingError{Field: "record", Reason: "nil"}
	}
	if r.Email == "" {
		return "", &EncodingError{Field: "email", Reason: "empty"}
	}
	if err := checkText("email", r.Email); err != nil {
		return "", err
	}

	w := wireRecord{Email: r.Email}

	switch c := r.Credential.(type) {
	case PasswordCredential:
		if c.Password == "" {
			return "", &EncodingError{Field: "secret", Reason: "empty password"}
		}
		if err := checkText("secret", c.Password); err != nil {
			return "", err
		}
		w.Secret = c.Password
		w.AuthMethod = AuthMethodPassword
	case SessionCredential:
		if c.Token == "" {
			return "", &EncodingError{Field: "sessionToken", Reason: "empty"}
		}
		if err := checkText("sessionToken", c.Token); err != nil {
			return "", err
		}
		token := c.Token
		w.Secret = SessionMarker
		w.AuthMethod = AuthMethodSession
		w.SessionBound = true
		w.SessionToken = &token
	default:
		return "", &EncodingError{Field: "credential", Reason: fmt.Sprintf("unsupported type %T", r.Credential)}
	}

	if p := r.Profile; p != nil {
		if err := checkText("localProfile.email", p.Email); err != nil {
			return "", err
		}
		if err := checkText("localProfile.displayName", p.DisplayName); err != nil {
			return "", err
		}
		if p.SetupAt.IsZero() {
			return "", &EncodingError{Field: "localProfile.setupAt", Reason: "not set"}
		}
		if p.LastUsedAt.IsZero() {
			return "", &EncodingError{Field: "localProfile.lastUsedAt", Reason: "not set"}
		}
		w.LocalProfile = &wireProfile{
			ID:          p.ID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			LastUsedAt:  p.LastUsedAt.UTC(),
			SetupAt:     p.SetupAt.UTC(),
		}
	}

	b, err := json.Marshal(w)
	if err != nil {
		return "", &EncodingError{Field: "record", Reason: err.Error()}
	}
	return string(b), nil
}

// Decode parses a stored record. It rejects a sessionBound that is not a
// JSON boolean or that disagrees with authMethod.
func Decode(raw string) (*CredentialRecord, error) {
	var w wireRecordIn
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, &DecodingError{Reason: "malformed JSON", Err: err}
	}
	if w.Email == "" {
		return nil, &DecodingError{Reason: "missing email"}
	}
	if w.AuthMethod == "" {
		return nil, &DecodingError{Reason: "missing authMethod"}
	}

	bound, err := decodeSessionBound(w.SessionBound, w.AuthMethod)
	if err != nil {
		return nil, err
	}

	r := &CredentialRecord{Email: w.Email}

	switch w.AuthMethod {
	case AuthMethodPassword:
		if bound {
			return nil, &DecodingError{Reason: "password record marked session-bound"}
		}
		if w.Secret == "" {
			return nil, &DecodingError{Reason: "password record without secret"}
		}
		r.Credential = PasswordCredential{Password: w.Secret}
	case AuthMethodSession:
		if !bound {
			return nil, &DecodingError{Reason: "session record not marked session-bound"}
		}
		if w.SessionToken == nil || *w.SessionToken == "" {
			return nil, &DecodingError{Reason: "session record without sessionToken"}
		}
		r.Credential = SessionCredential{Token: *w.SessionToken}
	default:
		return nil, &DecodingError{Reason: fmt.Sprintf("unknown authMethod %q", w.AuthMethod)}
	}

	if p := w.LocalProfile; p != nil {
		r.Profile = &LocalProfile{
			ID:          p.ID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			LastUsedAt:  p.LastUsedAt,
			SetupAt:     p.SetupAt,
		}
	}
	return r, nil
}

// decodeSessionBound accepts only the JSON literals true and false. A
// missing field is derived from the auth method.
func decodeSessionBound(raw json.RawMessage, method AuthMethod) (bool, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return method == AuthMethodSession, nil
	case bytes.Equal(raw, []byte("true")):
		return true, nil
	case bytes.Equal(raw, []byte("false")):
		return false, nil
	default:
		return false, &DecodingError{Reason: fmt.Sprintf("sessionBound must be a boolean, got %s", raw)}
	}
}
