package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

const signInMessage = "Sign in to your wallet"

// Login prompts for email and password and authenticates online.
//
// On success it records the user and switches to ModeOnline. If the server
// cannot be reached the App goes to ModeOffline; other failures leave the
// mode unchanged. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrUnavailable):
			a.log.Warn(ctx, "Server unavailable, login not possible")
			a.setMode(ModeOffline)
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "Invalid email or password")
		default:
			a.log.Error(ctx, "Login unsuccessful", "error", err)
		}
		return err
	}

	a.setUser(user)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

// BiometricLogin unlocks the stored biometric credential. A returned error
// for which biometric.FallbackToPassword is true means the caller should
// offer the password form.
func (a *App) BiometricLogin(ctx context.Context) error {
	user, err := a.authService.BiometricLogin(ctx, signInMessage)
	if err != nil {
		switch {
		case errors.Is(err, biometric.ErrSessionExpired):
			fmt.Fprintln(a.out, "Your session has expired. Please sign in with your password.")
		case errors.Is(err, biometric.ErrUserCancelled), errors.Is(err, biometric.ErrUserChoseFallback):
		case errors.Is(err, biometric.ErrNotAvailable):
			fmt.Fprintln(a.out, "Biometric login is not available on this device")
		case biometric.FallbackToPassword(err):
			fmt.Fprintln(a.out, "Biometric login failed")
		default:
			a.log.Error(ctx, "biometric login failed", "error", err)
		}
		return err
	}

	a.setUser(user)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

// BiometricStatus prints capability and setup state.
func (a *App) BiometricStatus(ctx context.Context) error {
	st := a.authService.BiometricStatus(ctx)

	state := "disabled"
	if st.Enabled {
		state = "enabled"
	}
	fmt.Fprintf(a.out, "%s: %s\n", st.DisplayName, state)
	switch {
	case !st.HardwarePresent:
		fmt.Fprintln(a.out, "No biometric hardware found")
	case !st.Enrolled:
		fmt.Fprintln(a.out, "No biometrics enrolled on this device")
	}
	return nil
}

// EnableBiometric sets up biometric login for the current user. With the
// "password" argument the password is stored; otherwise the live session is
// reused and the credential lasts as long as the session.
func (a *App) EnableBiometric(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return common.ErrorNotLoggedIn
	}

	var password []byte
	if len(args) > 0 && strings.EqualFold(args[0], "password") {
		ok, err := getConfirmation(a.reader, "Your password will be stored on this device. Continue?", a.out)
		if err != nil || !ok {
			return err
		}
		password, err = getPassword(a.reader, "Enter password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)
	}

	rec, err := a.authService.EnableBiometric(ctx, password)
	if err != nil {
		switch {
		case errors.Is(err, biometric.ErrPromptCancelled):
			fmt.Fprintln(a.out, "Setup cancelled")
		case errors.Is(err, biometric.ErrNotEnrolled):
			fmt.Fprintln(a.out, "Enroll a fingerprint or face in your device settings first")
		case errors.Is(err, biometric.ErrNotAvailable):
			fmt.Fprintln(a.out, "Biometric login is not available on this device")
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "Invalid password")
		default:
			a.log.Error(ctx, "biometric setup failed", "error", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Biometric login enabled for %s (%s)\n", rec.Email, rec.Method())
	return nil
}

func (a *App) DisableBiometric(ctx context.Context) error {
	if err := a.authService.DisableBiometric(ctx); err != nil {
		a.log.Error(ctx, "disable biometric login", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Biometric login disabled")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Not logged in")
		return err
	}
	if u.DisplayName != "" {
		fmt.Fprintf(a.out, "%s <%s> (id %d)\n", u.DisplayName, u.Email, u.ID)
	} else {
		fmt.Fprintf(a.out, "%s (id %d)\n", u.Email, u.ID)
	}
	return nil
}

// Logout ends the session and removes the biometric credential.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		return err
	}
	a.setUser(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
