package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/taskflow/internal/events"
	"github.com/linskybing/taskflow/pkg/response"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum number of events to buffer before forcing a send.
	batchSize = 50

	// Maximum time to wait before sending buffered events.
	flushFrequency = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventsHandler struct {
	hub *events.Hub
	log *zap.SugaredLogger
}

func NewEventsHandler(hub *events.Hub, log *zap.SugaredLogger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// Watch godoc
// @Summary Change feed
// @Description Streams batches of change events as JSON arrays over a websocket.
// @Tags events
// @Success 101 {array} event.ChangeEvent
// @Router /ws/events [get]
func (h *EventsHandler) Watch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "websocket upgrade failed: " + err.Error()})
		return
	}

	feed, cancel := h.hub.Subscribe()
	defer cancel()

	conn.SetReadLimit(512 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.writeLoop(conn, feed, cancel)

	// The reader only drives pong handling and notices the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warnw("websocket closed", "error", err)
			}
			return
		}
	}
}

func (h *EventsHandler) writeLoop(conn *websocket.Conn, feed <-chan []byte, cancel func()) {
	defer func() { _ = conn.Close() }()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	flushTicker := time.NewTicker(flushFrequency)
	defer flushTicker.Stop()

	var buffer []json.RawMessage
	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		batch, err := json.Marshal(buffer)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, batch); err != nil {
			return err
		}
		buffer = buffer[:0]
		return nil
	}

	for {
		select {
		case msg, ok := <-feed:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			buffer = append(buffer, json.RawMessage(msg))
			if len(buffer) >= batchSize {
				if err := flush(); err != nil {
					cancel()
					return
				}
			}

		case <-flushTicker.C:
			if err := flush(); err != nil {
				cancel()
				return
			}

		case <-pingTicker.C:
			// latest updates go out before the ping
			if err := flush(); err != nil {
				cancel()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cancel()
				return
			}
		}
	}
}
