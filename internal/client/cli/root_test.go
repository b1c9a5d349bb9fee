package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
)

// ---- getStatus ----

func TestGetStatus_Empty(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())
}

func TestGetStatus_WithUserAndMode(t *testing.T) {
	a := &App{}
	a.setUser(alice)
	assert.Equal(t, "(alice@example.org )", a.getStatus())

	a.Mode = ModeOnline
	assert.Equal(t, "(alice@example.org online)", a.getStatus())
}

// ---- signIn ----

func TestSignIn_BiometricFirst(t *testing.T) {
	stubInputs(t, "alice@example.org", []byte("secret"))

	f := &fakeAuth{status: services.BiometricStatus{Enabled: true}, bioLoginRet: alice}
	a, _ := newTestApp(f)
	a.signIn(context.Background())

	assert.Equal(t, 1, f.bioLoginCalls)
	assert.Empty(t, f.loginUser, "password form not shown")
	assert.True(t, a.isLoggedIn())
}

func TestSignIn_FallsBackToPassword(t *testing.T) {
	stubInputs(t, "alice@example.org", []byte("secret"))

	f := &fakeAuth{
		status:      services.BiometricStatus{Enabled: true},
		bioLoginErr: &biometric.Error{Op: "authenticate", Kind: biometric.ErrUserChoseFallback, Fallback: true},
		loginRet:    alice,
	}
	a, _ := newTestApp(f)
	a.signIn(context.Background())

	assert.Equal(t, 1, f.bioLoginCalls)
	assert.Equal(t, "alice@example.org", f.loginUser)
	assert.True(t, a.isLoggedIn())
}

func TestSignIn_NoFallbackOnServerError(t *testing.T) {
	stubInputs(t, "alice@example.org", []byte("secret"))

	f := &fakeAuth{status: services.BiometricStatus{Enabled: true}, bioLoginErr: client.ErrUnavailable}
	a, _ := newTestApp(f)
	a.signIn(context.Background())

	assert.Empty(t, f.loginUser)
	assert.False(t, a.isLoggedIn())
}

func TestSignIn_PasswordWhenDisabled(t *testing.T) {
	stubInputs(t, "alice@example.org", []byte("secret"))

	f := &fakeAuth{loginRet: alice}
	a, _ := newTestApp(f)
	a.signIn(context.Background())

	assert.Equal(t, 0, f.bioLoginCalls)
	assert.Equal(t, "alice@example.org", f.loginUser)
}
