package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/samber/lo"
)

// FeedHandler receives change feed activity from Follow.
type FeedHandler interface {
	// Connected is called each time the feed is (re)established. Events
	// missed while it was down are not replayed.
	Connected()
	Event(e event.ChangeEvent)
	Dropped(err error)
}

// Follow keeps the change feed connected until ctx is done, waiting retry
// between attempts.
func (c *Client) Follow(ctx context.Context, retry time.Duration, h FeedHandler) {
	for {
		err := c.subscribe(ctx, h.Connected, h.Event)
		if ctx.Err() != nil {
			return
		}
		h.Dropped(err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

// Subscribe streams change events to fn until ctx is done or the connection
// drops. The server sends events in batches; duplicates within a batch are
// delivered once.
func (c *Client) Subscribe(ctx context.Context, fn func(event.ChangeEvent)) error {
	return c.subscribe(ctx, nil, fn)
}

func (c *Client) subscribe(ctx context.Context, connected func(), fn func(event.ChangeEvent)) error {
	wsURL, err := eventsURL(c.baseURL)
	if err != nil {
		return &board.RemoteError{Op: "subscribe", Err: err}
	}

	header := http.Header{}
	header.Set("User-Agent", UserAgent)
	if c.clientID != "" {
		header.Set(HeaderClientID, c.clientID)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return &board.RemoteError{Op: "subscribe", Err: err}
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if connected != nil {
		connected()
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &board.RemoteError{Op: "read change feed", Err: err}
		}

		var batch []event.ChangeEvent
		if err := json.Unmarshal(data, &batch); err != nil {
			return &board.RemoteError{Op: "decode change feed", Err: err}
		}
		for _, e := range lo.Uniq(batch) {
			fn(e)
		}
	}
}

func eventsURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = u.Path + "/ws/events"
	return u.String(), nil
}
