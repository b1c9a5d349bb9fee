package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeClient struct {
	LoginRet  *client.LoginResult
	LoginErr  error
	LogoutErr error
	PingErr   error
	CloseErr  error

	LoginCalls     int
	LastLoginEmail string
	LastLoginPass  []byte
	LastLogout     string
}

func (f *fakeClient) Login(_ context.Context, email string, password []byte) (*client.LoginResult, error) {
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPass = append([]byte(nil), password...)
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	res := *f.LoginRet
	return &res, nil
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.LastLogout = token
	return f.LogoutErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }
func (f *fakeClient) Close() error               { return f.CloseErr }

type fakeHardware struct{ ready bool }

func (h fakeHardware) HasHardware(context.Context) (bool, error) { return h.ready, nil }
func (h fakeHardware) IsEnrolled(context.Context) (bool, error)  { return h.ready, nil }
func (h fakeHardware) SupportedModalities(context.Context) ([]string, error) {
	return []string{"fingerprint"}, nil
}

type fakePrompt struct {
	result biometric.PromptResult
	calls  int
}

func (p *fakePrompt) Authenticate(context.Context, biometric.PromptRequest) (biometric.PromptResult, error) {
	p.calls++
	return p.result, nil
}

// ---- helpers ----

type fixture struct {
	client   *fakeClient
	store    *securestore.MemoryStore
	sessions *session.Store
	prompt   *fakePrompt
	bio      *biometric.Manager
	svc      AuthService
}

var alice = session.User{ID: 42, Email: "a@b.com", DisplayName: "Alice"}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client: &fakeClient{LoginRet: &client.LoginResult{Token: "T1", User: alice}},
		store:  securestore.NewMemoryStore(),
		prompt: &fakePrompt{result: biometric.PromptResult{Success: true}},
	}
	f.sessions = session.NewStore(f.store)
	f.bio = biometric.NewManager(f.store, fakeHardware{ready: true}, f.prompt, f.sessions,
		biometric.WithClock(clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	f.svc = NewAuthService(f.client, f.sessions, f.bio, nil)
	return f
}

func (f *fixture) loggedIn(t *testing.T) {
	t.Helper()
	_, err := f.svc.Login(context.Background(), "a@b.com", []byte("pw"))
	require.NoError(t, err)
}

// ---- TESTS ----

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.svc.Login(ctx, " a@b.com ", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, &alice, u)
	assert.Equal(t, "a@b.com", f.client.LastLoginEmail)
	assert.Equal(t, []byte("pw"), f.client.LastLoginPass)

	snap, err := f.sessions.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", snap.Token)

	cur, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", cur.Email)
}

func TestLogin_Errors(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	_, err := f.svc.Login(ctx, "", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 0, f.client.LoginCalls)

	f.client.LoginErr = client.ErrUnavailable
	_, err = f.svc.Login(ctx, "a@b.com", []byte("pw"))
	require.ErrorIs(t, err, client.ErrUnavailable)

	_, err = f.svc.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrorNotLoggedIn)
}

func TestLogin_RefreshesSessionBoundCredential(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)

	rec, err := f.svc.EnableBiometric(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "T1", rec.SessionToken())

	f.client.LoginRet = &client.LoginResult{Token: "T2", User: alice}
	_, err = f.svc.Login(ctx, "a@b.com", []byte("pw"))
	require.NoError(t, err)

	u, err := f.svc.BiometricLogin(ctx, "Sign in")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	raw, ok, err := f.store.Get(ctx, common.BiometricCredentialsKey)
	require.NoError(t, err)
	require.True(t, ok)
	stored, err := biometric.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "T2", stored.SessionToken())
}

func TestEnableBiometric_RequiresSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.EnableBiometric(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrorNotLoggedIn)
	assert.Equal(t, 0, f.prompt.calls)
}

func TestEnableBiometric_PasswordMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)

	rec, err := f.svc.EnableBiometric(ctx, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, biometric.AuthMethodPassword, rec.Method())
	assert.Equal(t, "pw", rec.Secret())
	assert.Equal(t, int64(42), rec.Profile.ID)
	assert.Equal(t, 2, f.client.LoginCalls, "password is checked against the server")

	f.client.LoginErr = client.ErrUnauthorized
	_, err = f.svc.EnableBiometric(ctx, []byte("wrong"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, f.svc.BiometricStatus(ctx).Enabled, "failed re-setup keeps the old credential")
}

func TestBiometricLogin_PasswordRecordLogsIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)
	_, err := f.svc.EnableBiometric(ctx, []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.sessions.Clear(ctx))

	f.client.LoginRet = &client.LoginResult{Token: "T9", User: alice}
	u, err := f.svc.BiometricLogin(ctx, "Sign in")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, []byte("pw"), f.client.LastLoginPass)

	snap, err := f.sessions.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T9", snap.Token)
}

func TestBiometricLogin_RejectedPasswordPurges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)
	_, err := f.svc.EnableBiometric(ctx, []byte("pw"))
	require.NoError(t, err)

	f.client.LoginErr = client.ErrUnauthorized
	_, err = f.svc.BiometricLogin(ctx, "Sign in")
	require.ErrorIs(t, err, biometric.ErrNoStoredCredentials)
	assert.True(t, biometric.FallbackToPassword(err))
	assert.False(t, f.svc.BiometricStatus(ctx).Enabled)
}

func TestBiometricLogin_ServerDownIsNotFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)
	_, err := f.svc.EnableBiometric(ctx, []byte("pw"))
	require.NoError(t, err)

	f.client.LoginErr = client.ErrUnavailable
	_, err = f.svc.BiometricLogin(ctx, "Sign in")
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, biometric.FallbackToPassword(err))
	assert.True(t, f.svc.BiometricStatus(ctx).Enabled)
}

func TestBiometricLogin_CancelFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)
	_, err := f.svc.EnableBiometric(ctx, nil)
	require.NoError(t, err)

	f.prompt.result = biometric.PromptResult{ErrorCode: biometric.CodeUserCancel}
	_, err = f.svc.BiometricLogin(ctx, "Sign in")
	require.ErrorIs(t, err, biometric.ErrUserCancelled)
	assert.True(t, biometric.FallbackToPassword(err))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loggedIn(t)
	_, err := f.svc.EnableBiometric(ctx, []byte("pw"))
	require.NoError(t, err)

	f.client.LogoutErr = errors.New("network down")
	require.NoError(t, f.svc.Logout(ctx))
	assert.Equal(t, "T1", f.client.LastLogout)
	assert.Equal(t, 0, f.store.Len())
	assert.False(t, f.svc.BiometricStatus(ctx).Enabled)

	_, err = f.svc.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrorNotLoggedIn)

	f.client.LastLogout = ""
	require.NoError(t, f.svc.Logout(ctx))
	assert.Empty(t, f.client.LastLogout, "no token, no remote call")
}

func TestBiometricStatus(t *testing.T) {
	f := newFixture(t)
	st := f.svc.BiometricStatus(context.Background())
	assert.Equal(t, BiometricStatus{HardwarePresent: true, Enrolled: true, Available: true, DisplayName: "Fingerprint"}, st)
}

func TestPingAndClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.Ping(ctx))

	f.client.PingErr = client.ErrUnavailable
	require.ErrorIs(t, f.svc.Ping(ctx), client.ErrUnavailable)

	f.client.CloseErr = errors.New("close")
	require.Error(t, f.svc.Close(ctx))
}
