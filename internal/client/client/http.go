package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/session"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

const (
	loginPath  = "/api/auth/login"
	logoutPath = "/api/auth/logout"
	healthPath = "/api/health"
)

// HTTPClient talks to the wallet backend over its REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for baseURL (e.g. "https://api.example.com").
// timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*LoginResult, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrBadResponse)
	}
	return &LoginResult{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, logoutPath, token, nil, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, "", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s; body: %s", ErrBadResponse, resp.Status, strings.TrimSpace(string(b)))
	}
}
