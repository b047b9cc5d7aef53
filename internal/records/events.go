package records

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/urls"
)

const (
	// feedInitialInterval is the first reconnect delay
	feedInitialInterval = 500 * time.Millisecond

	// feedMaxInterval caps the reconnect delay
	feedMaxInterval = 30 * time.Second

	// feedBuffer is how many undelivered events the subscription holds
	feedBuffer = 16
)

// ErrFeedUnsupported is returned when the server has no change feed endpoint
var ErrFeedUnsupported = errors.New("server does not provide a change feed")

// Subscription is a live connection to the server's change feed.
// Events is closed once the subscription stops.
type Subscription struct {
	Events <-chan Event

	done chan struct{}
	err  error
}

// Done is closed when the subscription has stopped for good
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns why the subscription stopped. Valid after Done is closed.
func (s *Subscription) Err() error {
	<-s.done
	return s.err
}

// Subscribe opens the change feed and keeps it open until ctx is cancelled.
//
// Dropped connections are re-dialled with exponential backoff. A server that
// answers the handshake with 404 has no feed; the subscription then stops
// with ErrFeedUnsupported.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	wsURL, err := urls.WebSocketURL(c.BaseURL, c.BasePath)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	events := make(chan Event, feedBuffer)
	sub := &Subscription{Events: events, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(events)
		sub.err = c.runFeed(ctx, wsURL, events)
	}()

	return sub, nil
}

func (c *Client) runFeed(ctx context.Context, wsURL string, events chan<- Event) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = feedInitialInterval
	policy.MaxInterval = feedMaxInterval
	policy.MaxElapsedTime = 0

	header := http.Header{}
	if c.UserAgent != "" {
		header.Set("User-Agent", c.UserAgent)
	}

	dialer := *websocket.DefaultDialer
	if c.HTTPClient != nil && c.HTTPClient.Timeout > 0 {
		dialer.HandshakeTimeout = c.HTTPClient.Timeout
	}

	operation := func() error {
		conn, resp, err := dialer.DialContext(ctx, wsURL, header)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return backoff.Permanent(ErrFeedUnsupported)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return NewNetworkError("change feed dial failed", err)
		}

		logging.LogConnection(wsURL, "feed connected")
		policy.Reset()

		err = readFeed(ctx, conn, events)
		logging.LogConnection(wsURL, "feed disconnected")
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logging.Warn("Change feed unavailable, reconnecting",
			zap.String("url", wsURL),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readFeed pumps events from conn until it fails or ctx is done
func readFeed(ctx context.Context, conn *websocket.Conn, events chan<- Event) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer func() { _ = conn.Close() }()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return NewNetworkError("change feed closed by server", err)
			}
			return NewNetworkError("change feed read failed", err)
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
