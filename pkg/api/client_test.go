package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforum/gitforum.go/internal/fakeforum"
	"github.com/gitforum/gitforum.go/pkg/api"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/storage"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

func newTestClient(t *testing.T) (*api.Client, *fakeforum.Server) {
	t.Helper()
	srv := fakeforum.New()
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL(), tokens.NewStore(storage.NewMemory()))
	return client, srv
}

func login(t *testing.T, client *api.Client, srv *fakeforum.Server) models.User {
	t.Helper()
	user := srv.AddUser("dev", "dev@example.com", "Secret123")
	_, err := client.Login(context.Background(), models.LoginRequest{
		Email:    "dev@example.com",
		Password: "Secret123",
	})
	require.NoError(t, err)
	return user
}

func TestLoginStoresTokenPair(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	pair, err := client.Login(context.Background(), models.LoginRequest{
		Email:    "dev@example.com",
		Password: "Secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.Equal(t, pair.Access, client.Tokens().AccessToken())
	assert.Equal(t, pair.Refresh, client.Tokens().RefreshToken())

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev", user.Username)
}

func TestLoginRejectedCredentials(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")

	_, err := client.Login(context.Background(), models.LoginRequest{
		Email:    "dev@example.com",
		Password: "wrong",
	})

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login", authErr.Op)
	assert.True(t, api.IsUnauthorized(err))
	assert.Empty(t, client.Tokens().AccessToken(), "a rejected login must not leave tokens behind")
}

func TestLoginValidationNeverHitsNetwork(t *testing.T) {
	client, srv := newTestClient(t)

	_, err := client.Login(context.Background(), models.LoginRequest{
		Email:    "not-an-email",
		Password: "",
	})

	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Email")
	assert.Contains(t, verr.Fields, "Password")
	assert.Zero(t, srv.RequestCount("POST", "/api/auth/login/"))
}

func TestExpiredAccessTokenRefreshesAndRetriesOnce(t *testing.T) {
	client, srv := newTestClient(t)
	login(t, client, srv)
	oldAccess := client.Tokens().AccessToken()

	srv.ExpireAccessTokens()

	user, err := client.CurrentUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "dev", user.Username)
	assert.Equal(t, 1, srv.RequestCount("POST", "/api/auth/token/refresh/"))
	assert.Equal(t, 2, srv.RequestCount("GET", "/api/auth/user/"), "original attempt plus exactly one retry")
	assert.NotEqual(t, oldAccess, client.Tokens().AccessToken())
	assert.NotEmpty(t, client.Tokens().RefreshToken(), "refresh token survives a refresh")
}

func TestFailedRefreshClearsTokensAndSurfacesOriginal401(t *testing.T) {
	client, srv := newTestClient(t)
	login(t, client, srv)

	srv.ExpireAccessTokens()
	srv.RevokeRefreshTokens()

	_, err := client.CurrentUser(context.Background())

	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, httpErr.Body, "credentials", "the original 401 body is surfaced, not the refresh failure")
	assert.Equal(t, 1, srv.RequestCount("POST", "/api/auth/token/refresh/"))
	assert.Equal(t, 1, srv.RequestCount("GET", "/api/auth/user/"), "no retry without a fresh token")
	assert.Empty(t, client.Tokens().AccessToken())
	assert.Empty(t, client.Tokens().RefreshToken())
}

func TestAnonymous401DoesNotAttemptRefresh(t *testing.T) {
	client, srv := newTestClient(t)

	_, err := client.CurrentUser(context.Background())

	assert.True(t, api.IsUnauthorized(err))
	assert.Zero(t, srv.RequestCount("POST", "/api/auth/token/refresh/"))
}

// abortingInterceptor cuts the retry path off entirely, recording the
// rejections it saw.
type abortingInterceptor struct {
	paths []string
}

func (a *abortingInterceptor) OnUnauthorized(ctx context.Context, method, path string) api.RetryDecision {
	a.paths = append(a.paths, path)
	return api.Abort
}

func TestCustomAuthInterceptorReplacesRefreshPolicy(t *testing.T) {
	client, srv := newTestClient(t)
	login(t, client, srv)
	srv.ExpireAccessTokens()

	interceptor := &abortingInterceptor{}
	client.SetAuthInterceptor(interceptor)

	_, err := client.CurrentUser(context.Background())

	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, []string{"/auth/user/"}, interceptor.paths)
	assert.Zero(t, srv.RequestCount("POST", "/api/auth/token/refresh/"), "the substituted policy never refreshes")
	assert.NotEmpty(t, client.Tokens().RefreshToken(), "and never touches the token store")
}

func TestLogoutClearsTokensDespiteNetworkFailure(t *testing.T) {
	client, srv := newTestClient(t)
	login(t, client, srv)
	srv.Close()

	err := client.Logout(context.Background())

	assert.Error(t, err)
	assert.Empty(t, client.Tokens().AccessToken())
	assert.Empty(t, client.Tokens().RefreshToken())
}

func TestListPostsPagination(t *testing.T) {
	client, srv := newTestClient(t)
	author := srv.AddUser("dev", "dev@example.com", "Secret123")
	for i := 0; i < 5; i++ {
		srv.AddPost(author, "snippet", "go")
	}
	ctx := context.Background()

	first, err := client.ListPosts(ctx, api.PostFilters{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Count)
	assert.Len(t, first.Results, fakeforum.PageSize)
	assert.True(t, first.HasMore())

	last, err := client.ListPosts(ctx, api.PostFilters{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Results, 1)
	assert.False(t, last.HasMore())
	assert.Nil(t, last.Next)
}

func TestListPostsLanguageFilter(t *testing.T) {
	client, srv := newTestClient(t)
	author := srv.AddUser("dev", "dev@example.com", "Secret123")
	srv.AddPost(author, "a", "go")
	srv.AddPost(author, "b", "rust")

	page, err := client.ListPosts(context.Background(), api.PostFilters{Language: "rust"})

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "b", page.Results[0].Title)
	assert.False(t, page.HasMore())
}

func TestCommentRoundTrip(t *testing.T) {
	client, srv := newTestClient(t)
	author := login(t, client, srv)
	post := srv.AddPost(author, "snippet", "go")
	ctx := context.Background()

	top, err := client.AddComment(ctx, post.ID, "nice one", nil)
	require.NoError(t, err)
	reply, err := client.AddComment(ctx, post.ID, "agreed", &top.ID)
	require.NoError(t, err)

	page, err := client.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Len(t, page.Results[0].Replies, 1)
	assert.Equal(t, reply.ID, page.Results[0].Replies[0].ID)
	assert.Equal(t, &top.ID, reply.Parent)

	require.NoError(t, client.DeleteComment(ctx, top.ID))
	page, err = client.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Results, "deleting a comment cascades to its replies")
}

func TestTrendingDefaultsToWeek(t *testing.T) {
	client, srv := newTestClient(t)
	author := srv.AddUser("dev", "dev@example.com", "Secret123")
	srv.AddPost(author, "snippet", "go")

	posts, err := client.Trending(context.Background(), "", false)

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, srv.RequestCount("GET", "/api/trending/"))
}

func TestLikeToggle(t *testing.T) {
	client, srv := newTestClient(t)
	author := login(t, client, srv)
	post := srv.AddPost(author, "snippet", "go")
	ctx := context.Background()

	liked, err := client.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, 1, liked.LikesCount)

	unliked, err := client.UnlikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, 0, unliked.LikesCount)
}
