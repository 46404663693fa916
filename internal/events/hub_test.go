package events

import (
	"encoding/json"
	"testing"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	h := NewHub(logger.Nop())
	ch, cancel := h.Subscribe()
	assert.Equal(t, 1, h.Len())

	h.Publish(event.ChangeEvent{Kind: event.TicketUpdated, TicketID: 42, ProjectID: 5, Origin: "a"})

	var got event.ChangeEvent
	require.NoError(t, json.Unmarshal(<-ch, &got))
	assert.Equal(t, uint(42), got.TicketID)
	assert.Equal(t, "a", got.Origin)

	cancel()
	cancel()
	assert.Equal(t, 0, h.Len())
	_, open := <-ch
	assert.False(t, open)
}

func TestHubDropsForFullSubscriber(t *testing.T) {
	h := NewHub(logger.Nop())
	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(event.ChangeEvent{Kind: event.TicketCreated, TicketID: uint(i)})
	}
	assert.Len(t, ch, subscriberBuffer)
}
