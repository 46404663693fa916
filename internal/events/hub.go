package events

import (
	"encoding/json"
	"sync"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/metrics"
	"go.uber.org/zap"
)

const subscriberBuffer = 200

// Hub fans change events out to websocket subscribers. A subscriber whose
// buffer is full misses the event rather than blocking the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
	log  *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		subs: make(map[chan []byte]struct{}),
		log:  log,
	}
}

func (h *Hub) Publish(e event.ChangeEvent) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Errorw("marshal change event", "kind", e.Kind, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.log.Warnw("dropping change event for slow subscriber", "kind", e.Kind, "ticket_id", e.TicketID)
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func closes the
// channel and must be called exactly once.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	metrics.SetEventSubscribers(n)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			n := len(h.subs)
			h.mu.Unlock()
			metrics.SetEventSubscribers(n)
		})
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
