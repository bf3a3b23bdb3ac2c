// Package tokens holds the access/refresh token pair for an authenticated
// session.
//
// The store keeps both tokens in memory and mirrors every change into a
// storage.Storage so the session survives process restarts. Unlike its
// single-threaded browser counterpart, the store is mutex-guarded: multiple
// goroutines may issue API calls concurrently, and a refresh must not race a
// read.
package tokens

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gitforum/gitforum.go/pkg/storage"
)

// Fixed storage keys, kept identical to the web client so a shared state
// directory interoperates.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// Store owns the token pair. The zero value is not usable; construct with
// NewStore.
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string
	storage storage.Storage
}

// NewStore creates a Store backed by st and synchronously loads any persisted
// pair, mirroring the web client's startup read of localStorage.
func NewStore(st storage.Storage) *Store {
	s := &Store{storage: st}
	if v, err := st.Get(accessTokenKey); err == nil {
		s.access = v
	}
	if v, err := st.Get(refreshTokenKey); err == nil {
		s.refresh = v
	}
	return s
}

// SetTokens stores both tokens in memory and in persistent storage. Token
// shape is not validated; the backend is the authority on what is accepted.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	_ = s.storage.Set(accessTokenKey, access)
	_ = s.storage.Set(refreshTokenKey, refresh)
}

// SetAccessToken replaces only the access token, keeping the refresh token.
// Used after a successful refresh, which issues a new access token only.
func (s *Store) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	_ = s.storage.Set(accessTokenKey, access)
}

// ClearTokens removes both tokens from memory and persistent storage.
func (s *Store) ClearTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	_ = s.storage.Delete(accessTokenKey)
	_ = s.storage.Delete(refreshTokenKey)
}

// AccessToken returns the current access token, or "" when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the current refresh token, or "" when signed out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// ErrNoToken is returned by AccessTokenExpiresAt when no access token is
// held or the token carries no parsable expiry claim.
var ErrNoToken = errors.New("tokens: no usable access token")

// AccessTokenExpiresAt reports the expiry encoded in the access token's JWT
// claims. The token is parsed without signature verification: the client
// holds no signing key and only uses the claim as a hint for proactive
// refresh. Server-driven 401 responses remain the source of truth.
func (s *Store) AccessTokenExpiresAt() (time.Time, error) {
	s.mu.RLock()
	raw := s.access
	s.mu.RUnlock()
	if raw == "" {
		return time.Time{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, ErrNoToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrNoToken
	}
	return exp.Time, nil
}
