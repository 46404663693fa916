package application

import (
	"context"

	"github.com/linskybing/taskflow/internal/domain/event"
)

// EventPublisher fans change events out to subscribers.
type EventPublisher interface {
	Publish(e event.ChangeEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(event.ChangeEvent) {}

type originKey struct{}

// WithOrigin tags ctx with the id of the client issuing the request.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

func OriginFrom(ctx context.Context) string {
	origin, _ := ctx.Value(originKey{}).(string)
	return origin
}

func publish(ctx context.Context, p EventPublisher, kind event.Kind, ticketID, projectID uint) {
	p.Publish(event.ChangeEvent{
		Kind:      kind,
		TicketID:  ticketID,
		ProjectID: projectID,
		Origin:    OriginFrom(ctx),
	})
}
