package gitforum_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitforum "github.com/gitforum/gitforum.go"
	"github.com/gitforum/gitforum.go/internal/fakeforum"
	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/storage"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

func newTestSession(t *testing.T) (*gitforum.Session, *fakeforum.Server) {
	t.Helper()
	srv := fakeforum.New()
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL(), tokens.NewStore(storage.NewMemory()))
	return gitforum.NewSession(client), srv
}

func TestSessionStartsLoading(t *testing.T) {
	session, _ := newTestSession(t)

	assert.True(t, session.IsLoading())
	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())
}

func TestLoginLoadsUser(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	err := session.Login(context.Background(), "dev@example.com", "Secret123")

	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.False(t, session.IsLoading(), "loading must be released after login")
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, "dev", session.CurrentUser().Username)
}

func TestLoginFailureStaysAnonymousAndReleasesLoading(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	err := session.Login(context.Background(), "dev@example.com", "wrong")

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, session.IsAuthenticated())
	assert.False(t, session.IsLoading())
}

func TestRestoreWithoutTokensSettlesAnonymous(t *testing.T) {
	session, _ := newTestSession(t)

	require.NoError(t, session.Restore(context.Background()))

	assert.False(t, session.IsLoading())
	assert.False(t, session.IsAuthenticated())
}

func TestRestoreWithValidTokens(t *testing.T) {
	srv := fakeforum.New()
	t.Cleanup(srv.Close)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	store := storage.NewMemory()

	// first process: sign in, tokens land in storage
	first := api.NewClient(srv.URL(), tokens.NewStore(store))
	require.NoError(t, gitforum.NewSession(first).Login(context.Background(), "dev@example.com", "Secret123"))

	// second process: same storage, fresh session
	second := gitforum.NewSession(api.NewClient(srv.URL(), tokens.NewStore(store)))
	require.NoError(t, second.Restore(context.Background()))

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "dev", second.CurrentUser().Username)
}

func TestRestoreWithStaleTokensSignsOut(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	require.NoError(t, session.Login(context.Background(), "dev@example.com", "Secret123"))

	srv.ExpireAccessTokens()
	srv.RevokeRefreshTokens()

	fresh := gitforum.NewSession(session.Client())
	require.NoError(t, fresh.Restore(context.Background()), "an unusable stored session is not an error")

	assert.False(t, fresh.IsAuthenticated())
	assert.False(t, fresh.IsLoading())
	assert.Empty(t, session.Client().Tokens().AccessToken())
}

func TestRegisterSignsIn(t *testing.T) {
	session, _ := newTestSession(t)

	err := session.Register(context.Background(), "newdev", "new@example.com", "Secret123")

	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "newdev", session.CurrentUser().Username)
}

func TestRegisterDuplicateEmailSurfacesBackendBody(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	err := session.Register(context.Background(), "dev2", "dev@example.com", "Secret123")

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr, "registration errors pass through for field parsing")
	assert.Contains(t, httpErr.Body, "email")
	assert.False(t, session.IsAuthenticated())
	assert.False(t, session.IsLoading())
}

func TestLogoutClearsStateEvenWhenServerUnreachable(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	require.NoError(t, session.Login(context.Background(), "dev@example.com", "Secret123"))

	srv.Close()
	session.Logout(context.Background())

	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, session.Client().Tokens().AccessToken())
}

func TestSetTokensAndLoad(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	// obtain a pair out of band, the shape of an OAuth callback hand-off
	other := api.NewClient(srv.URL(), tokens.NewStore(storage.NewMemory()))
	pair, err := other.Login(context.Background(), models.LoginRequest{
		Email:    "dev@example.com",
		Password: "Secret123",
	})
	require.NoError(t, err)

	require.NoError(t, session.SetTokensAndLoad(context.Background(), pair.Access, pair.Refresh))
	assert.True(t, session.IsAuthenticated())
}

func TestSetTokensAndLoadRejectsUnusableTokens(t *testing.T) {
	session, _ := newTestSession(t)

	err := session.SetTokensAndLoad(context.Background(), "bogus", "bogus")

	require.Error(t, err)
	assert.False(t, session.IsAuthenticated())
	assert.False(t, session.IsLoading())
	assert.Empty(t, session.Client().Tokens().AccessToken(), "unusable tokens are discarded")
}
