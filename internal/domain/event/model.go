package event

type Kind string

const (
	TicketCreated  Kind = "ticket.created"
	TicketUpdated  Kind = "ticket.updated"
	TicketDeleted  Kind = "ticket.deleted"
	CommentCreated Kind = "comment.created"
	ProjectCreated Kind = "project.created"
	ProjectUpdated Kind = "project.updated"
	ProjectDeleted Kind = "project.deleted"
	UserChanged    Kind = "user.changed"
)

// ChangeEvent is pushed to subscribers after a successful write. Origin is
// the X-Client-ID of the request that caused it.
type ChangeEvent struct {
	Kind      Kind   `json:"kind"`
	TicketID  uint   `json:"ticket_id,omitempty"`
	ProjectID uint   `json:"project_id,omitempty"`
	Origin    string `json:"origin,omitempty"`
}
