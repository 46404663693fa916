package ticket

import (
	"errors"
	"strings"
)

var ErrEmptyTitle = errors.New("title must not be empty")

type CreateTicketDTO struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Type        Type     `json:"type,omitempty"`
	ProjectID   uint     `json:"project_id" binding:"required"`
	AssigneeID  *uint    `json:"assignee_id,omitempty"`
}

// Ticket builds a new ticket with defaults filled in for omitted enums.
func (d CreateTicketDTO) Ticket() Ticket {
	t := Ticket{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Type:        d.Type,
		ProjectID:   d.ProjectID,
		AssigneeID:  d.AssigneeID,
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Type == "" {
		t.Type = TypeTask
	}
	return t
}

// UpdateTicketDTO is a partial update. An AssigneeID of 0 clears the assignee.
// There is no project field: tickets never change project.
type UpdateTicketDTO struct {
	Title       *string   `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Type        *Type     `json:"type,omitempty"`
	AssigneeID  *uint     `json:"assignee_id,omitempty"`
}

func (d UpdateTicketDTO) Validate() error {
	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// StatusOnly is the payload issued for a board move.
func StatusOnly(s Status) UpdateTicketDTO {
	return UpdateTicketDTO{Status: &s}
}

// Apply merges the set fields into t and reports what actually changed.
func (d UpdateTicketDTO) Apply(t *Ticket) []Change {
	var changes []Change
	if d.Title != nil && *d.Title != t.Title {
		changes = append(changes, Change{Field: "title", Old: t.Title, New: *d.Title})
		t.Title = *d.Title
	}
	if d.Description != nil && (t.Description == nil || *d.Description != *t.Description) {
		changes = append(changes, Change{Field: "description", Old: deref(t.Description), New: *d.Description})
		desc := *d.Description
		t.Description = &desc
	}
	if d.Status != nil && *d.Status != t.Status {
		changes = append(changes, Change{Field: "status", Old: t.Status, New: *d.Status})
		t.Status = *d.Status
	}
	if d.Priority != nil && *d.Priority != t.Priority {
		changes = append(changes, Change{Field: "priority", Old: t.Priority, New: *d.Priority})
		t.Priority = *d.Priority
	}
	if d.Type != nil && *d.Type != t.Type {
		changes = append(changes, Change{Field: "type", Old: t.Type, New: *d.Type})
		t.Type = *d.Type
	}
	if d.AssigneeID != nil {
		switch {
		case *d.AssigneeID == 0 && t.AssigneeID != nil:
			changes = append(changes, Change{Field: "assignee_id", Old: *t.AssigneeID, New: nil})
			t.AssigneeID = nil
		case *d.AssigneeID != 0 && (t.AssigneeID == nil || *t.AssigneeID != *d.AssigneeID):
			var old any
			if t.AssigneeID != nil {
				old = *t.AssigneeID
			}
			changes = append(changes, Change{Field: "assignee_id", Old: old, New: *d.AssigneeID})
			id := *d.AssigneeID
			t.AssigneeID = &id
		}
	}
	return changes
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
