package handlers

import (
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/events"
	"go.uber.org/zap"
)

type Handlers struct {
	Project *ProjectHandler
	Ticket  *TicketHandler
	Comment *CommentHandler
	User    *UserHandler
	Events  *EventsHandler
}

func New(svc *application.Services, hub *events.Hub, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		Project: NewProjectHandler(svc.Project),
		Ticket:  NewTicketHandler(svc.Ticket, svc.Comment),
		Comment: NewCommentHandler(svc.Comment),
		User:    NewUserHandler(svc.User),
		Events:  NewEventsHandler(hub, log),
	}
}
