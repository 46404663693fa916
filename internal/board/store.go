package board

import (
	"context"

	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/domain/user"
)

// Store is the remote source of truth the board reads from and writes to.
type Store interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, id uint) (*project.Project, error)
	CreateProject(ctx context.Context, input project.CreateProjectDTO) (*project.Project, error)

	ListTickets(ctx context.Context, projectID *uint) ([]ticket.Ticket, error)
	GetTicket(ctx context.Context, id uint) (*ticket.Ticket, error)
	CreateTicket(ctx context.Context, input ticket.CreateTicketDTO) (*ticket.Ticket, error)
	UpdateTicket(ctx context.Context, id uint, input ticket.UpdateTicketDTO) (*ticket.Ticket, error)
	DeleteTicket(ctx context.Context, id uint) error

	ListUsers(ctx context.Context) ([]user.User, error)
	CreateUser(ctx context.Context, input user.CreateUserDTO) (*user.User, error)
	UpdateUser(ctx context.Context, id uint, input user.UpdateUserDTO) (*user.User, error)

	ListComments(ctx context.Context, ticketID uint) ([]comment.Comment, error)
	CreateComment(ctx context.Context, input comment.CreateCommentDTO) (*comment.Comment, error)
}
