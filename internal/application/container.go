package application

import (
	"github.com/linskybing/taskflow/internal/repository"
)

type Services struct {
	Project *ProjectService
	Ticket  *TicketService
	Comment *CommentService
	User    *UserService
}

func New(repos *repository.Repos, events EventPublisher, avatars AvatarStore) *Services {
	return &Services{
		Project: NewProjectService(repos, events),
		Ticket:  NewTicketService(repos, events),
		Comment: NewCommentService(repos, events),
		User:    NewUserService(repos, events, avatars),
	}
}
