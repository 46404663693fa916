package ticket

import (
	"encoding/json"
	"fmt"
)

// Status is the board column a ticket sits in.
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusDone       Status = "Done"
)

// Statuses lists every status in column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type Type string

const (
	TypeBug     Type = "Bug"
	TypeFeature Type = "Feature"
	TypeTask    Type = "Task"
	TypeStory   Type = "Story"
)

var Types = []Type{TypeBug, TypeFeature, TypeTask, TypeStory}

func (s Status) Valid() bool   { return oneOf(s, Statuses) }
func (p Priority) Valid() bool { return oneOf(p, Priorities) }
func (t Type) Valid() bool     { return oneOf(t, Types) }

func (s *Status) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, s, Statuses, "status")
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, p, Priorities, "priority")
}

func (t *Type) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, t, Types, "type")
}

// ParseStatus accepts only the display strings used on the wire.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", v)
	}
	return s, nil
}

func oneOf[T ~string](v T, set []T) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func decodeEnum[T ~string](b []byte, dst *T, set []T, kind string) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	v := T(raw)
	if !oneOf(v, set) {
		return fmt.Errorf("invalid %s %q", kind, raw)
	}
	*dst = v
	return nil
}
