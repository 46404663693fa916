package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, ClientID: "board-1"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListTickets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tickets/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "5", r.URL.Query().Get("project_id"))
		assert.Equal(t, "board-1", r.Header.Get(HeaderClientID))
		writeJSON(w, http.StatusOK, []ticket.Ticket{{ID: 1, ProjectID: 5, Status: ticket.StatusInReview}})
	})
	c := newTestClient(t, mux)

	scope := uint(5)
	got, err := c.ListTickets(context.Background(), &scope)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ticket.StatusInReview, got[0].Status)
}

func TestUpdateTicketSendsOnlyStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tickets/42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "In Progress"}, body)
		writeJSON(w, http.StatusOK, ticket.Ticket{ID: 42, Status: ticket.StatusInProgress})
	})
	c := newTestClient(t, mux)

	got, err := c.UpdateTicket(context.Background(), 42, ticket.StatusOnly(ticket.StatusInProgress))
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusInProgress, got.Status)
}

func TestFailuresAreRemoteUnavailable(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/tickets/9", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
		})
		c := newTestClient(t, mux)

		_, err := c.GetTicket(context.Background(), 9)
		require.ErrorIs(t, err, board.ErrRemoteUnavailable)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.Code)
		assert.Equal(t, "ticket not found", se.Message)
	})

	t.Run("undecodable body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"not":"a list"`))
		})
		c := newTestClient(t, mux)

		_, err := c.ListUsers(context.Background())
		assert.ErrorIs(t, err, board.ErrRemoteUnavailable)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := New(Config{BaseURL: url, Timeout: time.Second})
		err := c.DeleteTicket(context.Background(), 1)
		assert.ErrorIs(t, err, board.ErrRemoteUnavailable)
	})
}

func TestSubscribe(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "board-1", r.Header.Get(HeaderClientID))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		batch := []event.ChangeEvent{
			{Kind: event.TicketUpdated, TicketID: 1, ProjectID: 2, Origin: "other"},
			{Kind: event.TicketUpdated, TicketID: 1, ProjectID: 2, Origin: "other"},
			{Kind: event.CommentCreated, TicketID: 1},
		}
		_ = conn.WriteJSON(batch)
		// hold the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	})
	c := newTestClient(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []event.ChangeEvent
	err := c.Subscribe(ctx, func(e event.ChangeEvent) {
		got = append(got, e)
		if len(got) == 2 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 2)
	assert.Equal(t, event.TicketUpdated, got[0].Kind)
	assert.Equal(t, event.CommentCreated, got[1].Kind)
}

type feedLog struct {
	calls  []string
	cancel context.CancelFunc
}

func (f *feedLog) Connected() { f.calls = append(f.calls, "connected") }
func (f *feedLog) Dropped(error) { f.calls = append(f.calls, "dropped") }
func (f *feedLog) Event(e event.ChangeEvent) {
	f.calls = append(f.calls, string(e.Kind))
	f.cancel()
}

func TestFollowReconnects(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var attempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		if attempts.Add(1) == 1 {
			return
		}
		_ = conn.WriteJSON([]event.ChangeEvent{{Kind: event.TicketDeleted, TicketID: 3}})
		_, _, _ = conn.ReadMessage()
	})
	c := newTestClient(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log := &feedLog{cancel: cancel}

	c.Follow(ctx, 10*time.Millisecond, log)

	assert.Equal(t, []string{"connected", "dropped", "connected", string(event.TicketDeleted)}, log.calls)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestEventsURL(t *testing.T) {
	u, err := eventsURL("https://board.example.com/base")
	require.NoError(t, err)
	assert.Equal(t, "wss://board.example.com/base/ws/events", u)

	_, err = eventsURL("ftp://x")
	assert.Error(t, err)
}
