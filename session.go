package gitforum

import (
	"context"
	"sync"

	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/logger"
	"github.com/gitforum/gitforum.go/pkg/models"
)

// Session owns the current-user state and drives the authentication
// lifecycle against the backend.
//
// A Session starts in the loading state until Restore has decided whether
// persisted tokens still identify a user. "Authenticated" is defined as
// exactly "a user object is loaded": tokens alone do not count, because only
// a successful current-user fetch proves they are usable.
//
// All methods are safe for concurrent use. Every path that sets the loading
// flag releases it before returning, including error paths, so no caller can
// observe a session stuck loading.
type Session struct {
	client *api.Client
	log    logger.Logger

	mu      sync.Mutex
	user    *models.User
	loading bool
}

// NewSession creates a session over client. The session is in the loading
// state until Restore runs.
func NewSession(client *api.Client) *Session {
	return &Session{
		client:  client,
		log:     logger.Nop{},
		loading: true,
	}
}

// SetLogger installs a logger for session diagnostics.
func (s *Session) SetLogger(l logger.Logger) *Session {
	s.log = l
	return s
}

// Client exposes the underlying API client.
func (s *Session) Client() *api.Client {
	return s.client
}

// Restore resolves the session from persisted tokens at startup. With no
// stored access token the session settles anonymous immediately; otherwise
// the current user is fetched once, and a failure clears the stored tokens
// and settles anonymous. Restore never fails the caller: an unusable stored
// session is an anonymous start, not an error.
func (s *Session) Restore(ctx context.Context) error {
	defer s.setLoading(false)

	if s.client.Tokens().AccessToken() == "" {
		return nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("restoring session failed, signing out", "error", err)
		s.client.Tokens().ClearTokens()
		s.setUser(nil)
		return nil
	}
	s.setUser(user)
	return nil
}

// Login signs in with credentials and loads the current user. On a
// credential rejection the error is *api.AuthError and the session stays
// anonymous.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.client.Login(ctx, models.LoginRequest{Email: email, Password: password}); err != nil {
		return err
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// Register creates an account and signs it in. The password is submitted in
// both confirmation fields, as the backend's registration contract expects.
// Errors are returned untouched so the caller can extract field-level
// validation messages from an *api.HTTPError body.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	_, err := s.client.Register(ctx, models.RegisterRequest{
		Username:  username,
		Email:     email,
		Password1: password,
		Password2: password,
	})
	if err != nil {
		return err
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// Logout invalidates the refresh token server-side and clears local state.
// The local sign-out happens even when the server call fails: a network
// problem must never trap the user in a session.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("server-side logout failed", "error", err)
	}
	s.setUser(nil)
}

// RefreshUser re-fetches the current user's profile, for surfaces that want
// fresh counters. It silently does nothing when signed out or on failure;
// it is not a session validity check and never signs the user out.
func (s *Session) RefreshUser(ctx context.Context) {
	if s.client.Tokens().AccessToken() == "" {
		return
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Debug("refreshing user failed", "error", err)
		return
	}
	s.setUser(user)
}

// SetTokensAndLoad installs externally obtained tokens (the OAuth callback
// flow) and loads the user they belong to. If the user fetch fails the
// tokens are discarded and the session resets to anonymous.
func (s *Session) SetTokensAndLoad(ctx context.Context, access, refresh string) error {
	s.client.Tokens().SetTokens(access, refresh)
	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("loading user after token hand-off failed", "error", err)
		s.client.Tokens().ClearTokens()
		s.setUser(nil)
		return err
	}
	s.setUser(user)
	return nil
}

// CurrentUser returns the loaded user, or nil when anonymous.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a user is loaded.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// IsLoading reports whether a session-resolving operation is in flight.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
