// Package services contains application services for the wallet client.
// This file defines the authentication service: password and biometric
// login, biometric setup, logout and the backend liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
)

// BiometricStatus summarises capability and setup state for display.
type BiometricStatus struct {
	HardwarePresent bool
	Enrolled        bool
	Available       bool
	Enabled         bool
	DisplayName     string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - BiometricLogin: unlock the stored biometric credential and sign in
//     with it. Errors for which biometric.FallbackToPassword is true mean
//     the password form should be shown.
//   - EnableBiometric: store a credential for the logged-in account. A
//     non-empty password selects password mode, otherwise the live session
//     is used.
//   - Logout: end the session remotely (best effort) and locally, and
//     remove the biometric credential.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*session.User, error)
	BiometricLogin(ctx context.Context, message string) (*session.User, error)
	EnableBiometric(ctx context.Context, password []byte) (*biometric.CredentialRecord, error)
	DisableBiometric(ctx context.Context) error
	BiometricStatus(ctx context.Context) BiometricStatus
	CurrentUser(ctx context.Context) (*session.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions *session.Store
	bio      *biometric.Manager
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store and biometric manager.
func NewAuthService(c client.Client, sessions *session.Store, bio *biometric.Manager, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, sessions: sessions, bio: bio, log: log}
}

// Login authenticates against the server, saves the session and hands the
// new token to a session-bound biometric credential of the same account.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*session.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("login error: %w", client.ErrUnauthorized)
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.startSession(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *authService) startSession(ctx context.Context, res *client.LoginResult) error {
	if err := a.sessions.Save(ctx, res.Token, res.User); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	outcome := a.bio.RefreshSessionToken(ctx, res.Token, res.User.Email)
	a.log.Debug(ctx, "biometric token refresh", "outcome", outcome.String())
	return nil
}

func (a *authService) BiometricLogin(ctx context.Context, message string) (*session.User, error) {
	rec, err := a.bio.Authenticate(ctx, message)
	if err != nil {
		return nil, err
	}

	if rec.SessionBound() {
		snap, err := a.sessions.Snapshot(ctx)
		if err == nil && snap.User != nil {
			return snap.User, nil
		}
		return profileUser(rec), nil
	}

	res, err := a.client.Login(ctx, rec.Email, []byte(rec.Secret()))
	if errors.Is(err, client.ErrUnauthorized) {
		a.log.Info(ctx, "stored password rejected, removing biometric credential")
		if derr := a.bio.Disable(ctx); derr != nil {
			a.log.Error(ctx, "disable biometric", "error", derr)
		}
		return nil, &biometric.Error{Op: "authenticate", Kind: biometric.ErrNoStoredCredentials, Err: err, Fallback: true}
	}
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.startSession(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func profileUser(rec *biometric.CredentialRecord) *session.User {
	u := &session.User{Email: rec.Email}
	if p := rec.Profile; p != nil {
		u.ID = p.ID
		u.DisplayName = p.DisplayName
	}
	return u
}

// EnableBiometric requires a live session. In password mode the password is
// checked against the server before it is stored.
func (a *authService) EnableBiometric(ctx context.Context, password []byte) (*biometric.CredentialRecord, error) {
	snap, err := a.sessions.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !snap.Active() {
		return nil, common.ErrorNotLoggedIn
	}

	uc := biometric.UserContext{
		Email: snap.User.Email,
		Profile: &biometric.ProfileInput{
			ID:          snap.User.ID,
			Email:       snap.User.Email,
			DisplayName: snap.User.DisplayName,
		},
	}

	if len(password) > 0 {
		res, err := a.client.Login(ctx, snap.User.Email, password)
		if err != nil {
			return nil, fmt.Errorf("password check: %w", err)
		}
		if err := a.sessions.Save(ctx, res.Token, res.User); err != nil {
			return nil, fmt.Errorf("session saving error: %w", err)
		}
		uc.AuthMethod = biometric.AuthMethodPassword
		uc.Password = string(password)
	} else {
		uc.AuthMethod = biometric.AuthMethodSession
		uc.SessionToken = snap.Token
	}

	return a.bio.Enable(ctx, uc)
}

func (a *authService) DisableBiometric(ctx context.Context) error {
	return a.bio.Disable(ctx)
}

func (a *authService) BiometricStatus(ctx context.Context) BiometricStatus {
	avail := a.bio.IsAvailable(ctx)
	return BiometricStatus{
		HardwarePresent: avail.HardwarePresent,
		Enrolled:        avail.Enrolled,
		Available:       avail.Available,
		Enabled:         a.bio.IsEnabled(ctx),
		DisplayName:     a.bio.DisplayName(ctx),
	}
}

// CurrentUser returns the logged-in user or common.ErrorNotLoggedIn.
func (a *authService) CurrentUser(ctx context.Context) (*session.User, error) {
	snap, err := a.sessions.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Active() {
		return nil, common.ErrorNotLoggedIn
	}
	return snap.User, nil
}

// Logout tells the server the token is no longer used, then clears the
// local session and the biometric credential. A server failure is logged
// and does not stop the local cleanup.
func (a *authService) Logout(ctx context.Context) error {
	snap, err := a.sessions.Snapshot(ctx)
	if err != nil {
		a.log.Warn(ctx, "read session before logout", "error", err)
	}
	if snap.Token != "" {
		if err := a.client.Logout(ctx, snap.Token); err != nil {
			a.log.Warn(ctx, "remote logout failed", "error", err)
		}
	}

	return errors.Join(a.sessions.Clear(ctx), a.bio.Disable(ctx))
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
