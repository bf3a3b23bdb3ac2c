package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforum/gitforum.go/pkg/storage"
)

func TestSetAndClearTokens(t *testing.T) {
	st := storage.NewMemory()
	s := NewStore(st)

	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())

	s.SetTokens("acc-1", "ref-1")
	assert.Equal(t, "acc-1", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())

	s.ClearTokens()
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
	_, err := st.Get("access_token")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetAccessTokenKeepsRefreshToken(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.SetTokens("acc-1", "ref-1")

	s.SetAccessToken("acc-2")

	assert.Equal(t, "acc-2", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())
}

func TestNewStoreLoadsPersistedPair(t *testing.T) {
	st := storage.NewMemory()
	require.NoError(t, st.Set("access_token", "acc-1"))
	require.NoError(t, st.Set("refresh_token", "ref-1"))

	s := NewStore(st)

	assert.Equal(t, "acc-1", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())
}

func TestTokensSurviveRestart(t *testing.T) {
	path := t.TempDir() + "/state.json"
	st, err := storage.NewFile(path)
	require.NoError(t, err)
	NewStore(st).SetTokens("acc-1", "ref-1")

	st2, err := storage.NewFile(path)
	require.NoError(t, err)
	s := NewStore(st2)

	assert.Equal(t, "acc-1", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())
}

func TestAccessTokenExpiresAt(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	s := NewStore(storage.NewMemory())
	s.SetTokens(signed, "ref-1")

	got, err := s.AccessTokenExpiresAt()
	require.NoError(t, err)
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)
}

func TestAccessTokenExpiresAtWithoutToken(t *testing.T) {
	s := NewStore(storage.NewMemory())

	_, err := s.AccessTokenExpiresAt()
	assert.ErrorIs(t, err, ErrNoToken)

	// opaque (non-JWT) tokens carry no expiry hint
	s.SetTokens("not-a-jwt", "ref-1")
	_, err = s.AccessTokenExpiresAt()
	assert.ErrorIs(t, err, ErrNoToken)
}
