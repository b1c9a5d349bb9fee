package biometric

import (
	"errors"
	"fmt"
)

// Capability errors.
var (
	ErrNotAvailable = errors.New("biometric authentication not available")
	ErrNotEnrolled  = errors.New("no biometrics enrolled")
)

// Setup errors.
var (
	ErrMissingCredentials = errors.New("missing credentials for biometric setup")
	ErrPromptCancelled    = errors.New("biometric setup cancelled")
	ErrPromptFailed       = errors.New("biometric setup prompt failed")
)

// Authentication errors.
var (
	ErrUserCancelled       = errors.New("biometric prompt cancelled")
	ErrUserChoseFallback   = errors.New("user chose password login")
	ErrUnknown             = errors.New("biometric authentication failed")
	ErrNoStoredCredentials = errors.New("no stored biometric credentials")
	ErrSessionExpired      = errors.New("session expired, password login required")
)

// ErrStorage covers secure store read/write failures.
var ErrStorage = errors.New("biometric storage failure")

// Error is returned by every Manager operation that fails.
type Error struct {
	// Op is the operation: "enable", "disable" or "authenticate".
	Op string
	// Kind is one of the Err* sentinels above.
	Kind error
	// Err is the underlying cause, if any.
	Err error
	// Fallback tells the caller to offer the password form instead.
	Fallback bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("biometric %s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("biometric %s: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FallbackToPassword reports whether err tells the caller to use the
// password path.
func FallbackToPassword(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Fallback
}

// StaleSessionError explains why a session-bound record was purged.
type StaleSessionError struct {
	Reason StaleReason
}

func (e *StaleSessionError) Error() string {
	return "stale session: " + string(e.Reason)
}
