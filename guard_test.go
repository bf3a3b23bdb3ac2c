package gitforum_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitforum "github.com/gitforum/gitforum.go"
)

func TestAuthGuardWhileSessionLoading(t *testing.T) {
	session, _ := newTestSession(t)
	guard := gitforum.NewAuthGuard(session, "")

	decision := guard.Check()

	assert.Equal(t, gitforum.GuardPending, decision.Result)
	assert.Empty(t, decision.Target, "no routing decision while the session resolves")
}

func TestAuthGuardRedirectsAnonymousVisitor(t *testing.T) {
	session, _ := newTestSession(t)
	require.NoError(t, session.Restore(context.Background()))

	decision := gitforum.NewAuthGuard(session, "").Check()

	assert.Equal(t, gitforum.GuardRedirect, decision.Result)
	assert.Equal(t, gitforum.DefaultLoginRoute, decision.Target)
}

func TestAuthGuardAllowsSignedInUser(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	require.NoError(t, session.Login(context.Background(), "dev@example.com", "Secret123"))

	decision := gitforum.NewAuthGuard(session, "").Check()

	assert.Equal(t, gitforum.GuardAllow, decision.Result)
}

func TestGuestGuardRedirectsSignedInUser(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	require.NoError(t, session.Login(context.Background(), "dev@example.com", "Secret123"))

	decision := gitforum.NewGuestGuard(session, "").Check()

	assert.Equal(t, gitforum.GuardRedirect, decision.Result)
	assert.Equal(t, gitforum.DefaultLandingRoute, decision.Target)
}

func TestGuestGuardAllowsAnonymousVisitor(t *testing.T) {
	session, _ := newTestSession(t)
	require.NoError(t, session.Restore(context.Background()))

	decision := gitforum.NewGuestGuard(session, "").Check()

	assert.Equal(t, gitforum.GuardAllow, decision.Result)
}

func TestGuardCustomRedirectTarget(t *testing.T) {
	session, _ := newTestSession(t)
	require.NoError(t, session.Restore(context.Background()))

	decision := gitforum.NewAuthGuard(session, "/welcome").Check()

	assert.Equal(t, gitforum.GuardRedirect, decision.Result)
	assert.Equal(t, "/welcome", decision.Target)
}

func TestGuardTracksSessionChanges(t *testing.T) {
	session, srv := newTestSession(t)
	srv.AddUser("dev", "dev@example.com", "Secret123")
	guard := gitforum.NewAuthGuard(session, "")

	require.NoError(t, session.Restore(context.Background()))
	assert.Equal(t, gitforum.GuardRedirect, guard.Check().Result)

	require.NoError(t, session.Login(context.Background(), "dev@example.com", "Secret123"))
	assert.Equal(t, gitforum.GuardAllow, guard.Check().Result)

	session.Logout(context.Background())
	assert.Equal(t, gitforum.GuardRedirect, guard.Check().Result)
}
