package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/repository"
)

var ErrEmptyComment = errors.New("comment content must not be empty")

type CommentService struct {
	Repos  *repository.Repos
	events EventPublisher
}

func NewCommentService(repos *repository.Repos, events EventPublisher) *CommentService {
	if events == nil {
		events = nopPublisher{}
	}
	return &CommentService{
		Repos:  repos,
		events: events,
	}
}

func (s *CommentService) ListComments(ctx context.Context, ticketID uint) ([]comment.Comment, error) {
	if _, err := s.Repos.Ticket.GetTicketByID(ticketID); err != nil {
		return nil, notFound(err, ErrTicketNotFound)
	}
	comments, err := s.Repos.Comment.ListCommentsByTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) CreateComment(ctx context.Context, input comment.CreateCommentDTO) (*comment.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	t, err := s.Repos.Ticket.GetTicketByID(input.TicketID)
	if err != nil {
		return nil, notFound(err, ErrTicketNotFound)
	}
	if _, err := s.Repos.User.GetUserByID(input.AuthorID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	c := &comment.Comment{
		Content:  content,
		TicketID: input.TicketID,
		AuthorID: input.AuthorID,
	}
	if err := s.Repos.Comment.CreateComment(c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	created, err := s.Repos.Comment.GetCommentByID(c.ID)
	if err == nil {
		c = &created
	}

	publish(ctx, s.events, event.CommentCreated, t.ID, t.ProjectID)
	return c, nil
}
