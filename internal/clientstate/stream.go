package clientstate

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/ws"
)

// Message is one item from a Stream: either a pushed event or a resync
// marker, sent after every successful (re)connect.
type Message struct {
	Resync bool
	Event  ws.Event
}

// Stream subscribes to the server push channel and reconnects with
// exponential backoff when the connection drops.
type Stream struct {
	url    string
	dialer *websocket.Dialer
	logger *zap.Logger

	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewStream creates a stream for the websocket endpoint at wsURL
// (e.g. "ws://host:8081/api/ws"), authenticating with token.
func NewStream(wsURL, token string, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	u := wsURL
	if token != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "token=" + url.QueryEscape(token)
	}
	return &Stream{
		url:             u,
		dialer:          &websocket.Dialer{HandshakeTimeout: RequestTimeout},
		logger:          logger,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     30 * time.Second,
	}
}

// Run delivers messages to handle until ctx is done. handle runs on the
// Run goroutine; a slow handler delays reads, not other connections.
func (s *Stream) Run(ctx context.Context, handle func(Message)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = s.maxInterval
	b.MaxElapsedTime = 0

	for {
		connected, err := s.session(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		s.logger.Warn("push channel lost; reconnecting", zap.Error(err), zap.Duration("in", wait))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// session runs one connection. connected reports whether the dial
// succeeded, which resets the backoff.
func (s *Stream) session(ctx context.Context, handle func(Message)) (connected bool, err error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Unblock ReadJSON when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	handle(Message{Resync: true})

	for {
		var ev ws.Event
		if err := conn.ReadJSON(&ev); err != nil {
			return true, err
		}
		handle(Message{Event: ev})
	}
}

// Follow keeps store current from stream until ctx is done: a resync marker
// re-fetches every view and events refresh the views they affect. Refresh
// failures are logged; the next event or resync retries.
func Follow(ctx context.Context, stream *Stream, store *Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return stream.Run(ctx, func(msg Message) {
		var err error
		if msg.Resync {
			err = store.Resync(ctx)
		} else {
			err = store.Apply(ctx, msg.Event)
		}
		if err != nil && ctx.Err() == nil {
			logger.Warn("refresh after push failed", zap.Error(err))
		}
	})
}
