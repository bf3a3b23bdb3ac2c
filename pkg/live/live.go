// Package live streams notifications from the backend's websocket endpoint.
//
// The Stream dials the notification socket with the current access token,
// decodes JSON notification frames, and delivers them on a channel. A
// dropped connection is redialed after a check interval until the context is
// cancelled or Close is called; frames arriving between drops are lost,
// which is acceptable because the REST inbox remains the source of truth.
package live

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gitforum/gitforum.go/pkg/logger"
	"github.com/gitforum/gitforum.go/pkg/models"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

const defaultCheckInterval = 5 * time.Second

// Stream is a reconnecting subscription to the notification socket.
type Stream struct {
	endpoint string
	tokens   *tokens.Store
	log      logger.Logger

	// CheckInterval is the pause between redial attempts after a drop.
	CheckInterval time.Duration

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// NewStream prepares a subscription against the websocket endpoint, e.g.
// "ws://localhost:8000/ws/notifications/". Tokens are read at dial time so a
// refreshed access token is picked up on the next reconnect.
func NewStream(endpoint string, ts *tokens.Store, log logger.Logger) *Stream {
	if log == nil {
		log = logger.Nop{}
	}
	return &Stream{
		endpoint:      endpoint,
		tokens:        ts,
		log:           log,
		CheckInterval: defaultCheckInterval,
	}
}

// Subscribe opens the stream and returns the notification channel. The
// channel closes when ctx is cancelled or Close is called; it is never
// closed because of a connection drop.
func (s *Stream) Subscribe(ctx context.Context) (<-chan models.Notification, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	out := make(chan models.Notification)
	go s.run(ctx, out)
	return out, nil
}

// Close stops the stream and closes the notification channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

// run owns the dial/read/redial loop.
func (s *Stream) run(ctx context.Context, out chan<- models.Notification) {
	defer close(out)

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.dial(ctx)
		if err != nil {
			s.log.Warn("notification socket dial failed", "error", err)
			if !sleepCtx(ctx, s.CheckInterval) {
				return
			}
			continue
		}
		s.log.Debug("notification socket connected")

		s.readLoop(ctx, conn, out)
		_ = conn.Close()

		if !sleepCtx(ctx, s.CheckInterval) {
			return
		}
	}
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, err
	}
	if token := s.tokens.AccessToken(); token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// readLoop decodes frames until the connection drops or ctx ends.
func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- models.Notification) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		var n models.Notification
		if err := conn.ReadJSON(&n); err != nil {
			if ctx.Err() == nil {
				s.log.Warn("notification socket read failed", "error", err)
			}
			return
		}
		select {
		case out <- n:
		case <-ctx.Done():
			return
		}
	}
}

// sleepCtx pauses for d, returning false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
