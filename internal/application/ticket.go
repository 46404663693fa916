package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/history"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/repository"
	"github.com/samber/lo"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidTicket  = errors.New("invalid ticket")
)

type TicketService struct {
	Repos  *repository.Repos
	events EventPublisher
}

func NewTicketService(repos *repository.Repos, events EventPublisher) *TicketService {
	if events == nil {
		events = nopPublisher{}
	}
	return &TicketService{
		Repos:  repos,
		events: events,
	}
}

func (s *TicketService) ListTickets(ctx context.Context, projectID *uint) ([]ticket.Ticket, error) {
	tickets, err := s.Repos.Ticket.ListTickets(projectID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uint) (*ticket.Ticket, error) {
	t, err := s.Repos.Ticket.GetTicketByID(id)
	if err != nil {
		return nil, notFound(err, ErrTicketNotFound)
	}
	return &t, nil
}

func (s *TicketService) CreateTicket(ctx context.Context, input ticket.CreateTicketDTO) (*ticket.Ticket, error) {
	t := input.Ticket()
	if t.Title == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicket, ticket.ErrEmptyTitle)
	}
	if !t.Status.Valid() || !t.Priority.Valid() || !t.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown status, priority or type", ErrInvalidTicket)
	}
	if _, err := s.Repos.Project.GetProjectByID(t.ProjectID); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	if err := s.checkAssignee(t.AssigneeID); err != nil {
		return nil, err
	}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Ticket.CreateTicket(&t); err != nil {
			return err
		}
		return recordEvent(tx, t.ID, history.ActionCreate, creationChanges(t))
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	publish(ctx, s.events, event.TicketCreated, t.ID, t.ProjectID)
	return &t, nil
}

// UpdateTicket applies a partial update. The row is locked while the update
// is applied and only the changed columns are written, so concurrent edits of
// different fields both survive. An update that changes nothing is not
// written, so updated_at stays put.
func (s *TicketService) UpdateTicket(ctx context.Context, id uint, input ticket.UpdateTicketDTO) (*ticket.Ticket, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	if input.AssigneeID != nil && *input.AssigneeID != 0 {
		if err := s.checkAssignee(input.AssigneeID); err != nil {
			return nil, err
		}
	}

	var (
		t       ticket.Ticket
		changes []ticket.Change
	)
	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		var err error
		t, err = tx.Ticket.GetTicketForUpdate(id)
		if err != nil {
			return notFound(err, ErrTicketNotFound)
		}
		changes = input.Apply(&t)
		if len(changes) == 0 {
			return nil
		}
		columns := lo.Map(changes, func(c ticket.Change, _ int) string { return c.Field })
		if err := tx.Ticket.UpdateTicket(&t, columns); err != nil {
			return err
		}
		return recordEvent(tx, t.ID, history.ActionUpdate, changes)
	})
	if errors.Is(err, ErrTicketNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update ticket %d: %w", id, err)
	}

	if len(changes) > 0 {
		publish(ctx, s.events, event.TicketUpdated, t.ID, t.ProjectID)
	}
	return &t, nil
}

// DeleteTicket removes the ticket and its comments.
func (s *TicketService) DeleteTicket(ctx context.Context, id uint) error {
	t, err := s.Repos.Ticket.GetTicketByID(id)
	if err != nil {
		return notFound(err, ErrTicketNotFound)
	}

	err = s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Comment.DeleteCommentsByTickets([]uint{id}); err != nil {
			return err
		}
		if err := tx.Ticket.DeleteTicket(id); err != nil {
			return err
		}
		return recordEvent(tx, id, history.ActionDelete, nil)
	})
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}

	publish(ctx, s.events, event.TicketDeleted, id, t.ProjectID)
	return nil
}

// ListHistory returns the change log of a ticket, including deleted ones.
func (s *TicketService) ListHistory(ctx context.Context, params repository.HistoryQueryParams) ([]history.TicketEvent, error) {
	events, err := s.Repos.History.ListTicketEvents(params)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return events, nil
}

// PruneHistory drops change log entries older than retentionDays.
func (s *TicketService) PruneHistory(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.Repos.History.DeleteTicketEventsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return n, nil
}

func (s *TicketService) checkAssignee(id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.Repos.User.GetUserByID(*id); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	return nil
}

func recordEvent(tx *repository.Repos, ticketID uint, action history.Action, changes []ticket.Change) error {
	ev, err := history.NewTicketEvent(ticketID, action, changes)
	if err != nil {
		return err
	}
	return tx.History.CreateTicketEvent(ev)
}

func creationChanges(t ticket.Ticket) []ticket.Change {
	changes := []ticket.Change{
		{Field: "title", New: t.Title},
		{Field: "status", New: t.Status},
		{Field: "priority", New: t.Priority},
		{Field: "type", New: t.Type},
		{Field: "project_id", New: t.ProjectID},
	}
	if t.AssigneeID != nil {
		changes = append(changes, ticket.Change{Field: "assignee_id", New: *t.AssigneeID})
	}
	return changes
}
