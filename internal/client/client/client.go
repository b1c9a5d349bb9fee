package client

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
)

// LoginResult is what the backend returns for a successful login.
type LoginResult struct {
	Token string
	User  session.User
}

// Client is the remote wallet auth API consumed by the client.
type Client interface {
	Login(ctx context.Context, email string, password []byte) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}
