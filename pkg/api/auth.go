package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// Login exchanges credentials for a token pair and stores it. A 400/401
// answer is reported as *AuthError; the session stays signed out.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login/", req, &pair); err != nil {
		return nil, classifyAuthErr("login", err)
	}
	c.tokens.SetTokens(pair.Access, pair.Refresh)
	return &pair, nil
}

// Register creates an account and stores the issued token pair. The backend
// receives the password twice (password1/password2), as its registration
// contract requires.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenPair, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/registration/", req, &pair); err != nil {
		return nil, err
	}
	c.tokens.SetTokens(pair.Access, pair.Refresh)
	return &pair, nil
}

// Logout invalidates the refresh token server-side. The local token pair is
// cleared unconditionally: signing out locally must never be blocked by a
// network failure.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout/", nil, nil)
	c.tokens.ClearTokens()
	return err
}

// CurrentUser fetches the account the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword updates the current user's password.
func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/password/change/", req, nil)
}

// classifyAuthErr maps credential rejections to *AuthError, leaving other
// failures (network, 5xx) untouched.
func classifyAuthErr(op string, err error) error {
	var he *HTTPError
	if errors.As(err, &he) && (he.StatusCode == http.StatusBadRequest || he.StatusCode == http.StatusUnauthorized) {
		return &AuthError{Op: op, Err: err}
	}
	return err
}
