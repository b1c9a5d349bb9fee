package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
	"github.com/dmitrijs2005/walletkeeper/internal/client/config"
	"github.com/dmitrijs2005/walletkeeper/internal/client/platform"
	"github.com/dmitrijs2005/walletkeeper/internal/client/services"
	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	user *session.User
	Mode Mode

	closeStore func() error
}

// NewApp wires the application from cfg: logger, secure store, session
// store, biometric manager and REST client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(os.Stdin)

	store, closeStore, err := openStore(ctx, c, reader, os.Stdout)
	if err != nil {
		log.Error(ctx, "error opening secure store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	sessions := session.NewStore(store)
	hw := &platform.SimulatedHardware{
		Present:    c.BiometricHardware,
		Enrolled:   c.BiometricEnrolled,
		Modalities: c.BiometricModalities,
	}
	prompt := platform.NewTerminalPrompt(reader, os.Stdout)

	bio := biometric.NewManager(store, hw, prompt, sessions,
		biometric.WithLogger(log.With("component", "biometric")),
		biometric.WithCancelLabel(c.PromptCancelLabel),
		biometric.WithDeviceFallback(c.AllowDeviceFallback),
	)

	apiClient := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient, sessions, bio, log.With("component", "auth"))

	return &App{
		config:      c,
		authService: as,
		log:         log,
		reader:      reader,
		out:         os.Stdout,
		closeStore:  closeStore,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) setUser(u *session.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

// Run blocks in the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			a.log.Warn(ctx, "close api client", "error", err)
		}
		if a.closeStore != nil {
			if err := a.closeStore(); err != nil {
				a.log.Warn(ctx, "close secure store", "error", err)
			}
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the backend every interval and switches
// between online and offline mode until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	timeout := 3 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 {
		timeout = a.config.RequestTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		if a.mode() == ModeOnline {
			a.setMode(ModeOffline)
		}
		return
	}
	if a.mode() != ModeOnline {
		a.setMode(ModeOnline)
	}
}
