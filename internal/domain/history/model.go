package history

import (
	"encoding/json"
	"time"

	"github.com/linskybing/taskflow/internal/domain/ticket"
	"gorm.io/datatypes"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// TicketEvent is one entry of a ticket's change log. Changes maps a field
// name to its {old, new} pair.
type TicketEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TicketID  uint           `json:"ticket_id" gorm:"not null;index"`
	Action    Action         `json:"action" gorm:"size:10;not null"`
	Changes   datatypes.JSON `json:"changes" swaggertype:"object"`
	CreatedAt time.Time      `json:"created_at"`
}

func (TicketEvent) TableName() string {
	return "ticket_events"
}

func NewTicketEvent(ticketID uint, action Action, changes []ticket.Change) (*TicketEvent, error) {
	m := make(map[string]ticket.Change, len(changes))
	for _, c := range changes {
		m[c.Field] = c
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return &TicketEvent{TicketID: ticketID, Action: action, Changes: datatypes.JSON(raw)}, nil
}
