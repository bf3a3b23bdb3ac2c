package live_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforum/gitforum.go/internal/fakeforum"
	"github.com/gitforum/gitforum.go/pkg/live"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/storage"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

func receive(t *testing.T, ch <-chan models.Notification) models.Notification {
	t.Helper()
	select {
	case n, ok := <-ch:
		require.True(t, ok, "channel closed before a notification arrived")
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a notification")
		return models.Notification{}
	}
}

func TestStreamDeliversNotifications(t *testing.T) {
	srv := fakeforum.New()
	t.Cleanup(srv.Close)
	sender := srv.AddUser("dev", "dev@example.com", "Secret123")

	stream := live.NewStream(srv.WSEndpoint(), tokens.NewStore(storage.NewMemory()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := stream.Subscribe(ctx)
	require.NoError(t, err)

	srv.PushLive(models.Notification{
		ID:      "n1",
		Sender:  sender,
		Type:    models.NotificationLike,
		Message: "dev liked your post",
	})

	got := receive(t, ch)
	assert.Equal(t, "n1", got.ID)
	assert.Equal(t, models.NotificationLike, got.Type)
	assert.Equal(t, "dev", got.Sender.Username)
}

func TestStreamChannelClosesOnCancel(t *testing.T) {
	srv := fakeforum.New()
	t.Cleanup(srv.Close)

	stream := live.NewStream(srv.WSEndpoint(), tokens.NewStore(storage.NewMemory()), nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := stream.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel must close after cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	srv := fakeforum.New()
	t.Cleanup(srv.Close)

	stream := live.NewStream(srv.WSEndpoint(), tokens.NewStore(storage.NewMemory()), nil)
	stream.Close()

	_, err := stream.Subscribe(context.Background())
	assert.ErrorIs(t, err, live.ErrClosed)
}
