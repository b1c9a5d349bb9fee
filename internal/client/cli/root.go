package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.user != nil {
		s = a.user.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// signIn runs the startup login: biometric first when it is enabled, then
// the password form if biometric login asks for it.
func (a *App) signIn(ctx context.Context) {
	if a.authService.BiometricStatus(ctx).Enabled {
		err := a.BiometricLogin(ctx)
		if err == nil || !biometric.FallbackToPassword(err) {
			return
		}
	}
	_ = a.Login(ctx)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the wallet CLI (type 'help' for commands)")

	a.signIn(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
