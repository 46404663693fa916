package application_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateComment reloads author", func(t *testing.T) {
		repos, m := newRepoMocks(t)
		pub := &recordingPublisher{}
		svc := application.NewCommentService(repos, pub)

		m.ticket.EXPECT().GetTicketByID(uint(42)).Return(ticket.Ticket{ID: 42, ProjectID: 2}, nil)
		m.user.EXPECT().GetUserByID(uint(1)).Return(user.User{ID: 1}, nil)
		m.comment.EXPECT().CreateComment(gomock.Any()).Do(func(c *comment.Comment) {
			assert.Equal(t, "looks good", c.Content)
			c.ID = 9
		}).Return(nil)
		m.comment.EXPECT().GetCommentByID(uint(9)).Return(comment.Comment{
			ID: 9, Content: "looks good", TicketID: 42, AuthorID: 1, Author: &user.User{ID: 1, Username: "ann"},
		}, nil)

		c, err := svc.CreateComment(ctx, comment.CreateCommentDTO{Content: " looks good ", TicketID: 42, AuthorID: 1})
		require.NoError(t, err)
		require.NotNil(t, c.Author)
		assert.Equal(t, "ann", c.Author.Username)
		require.Len(t, pub.events, 1)
		assert.Equal(t, event.CommentCreated, pub.events[0].Kind)
	})

	t.Run("CreateComment empty content", func(t *testing.T) {
		repos, _ := newRepoMocks(t)
		svc := application.NewCommentService(repos, nil)

		_, err := svc.CreateComment(ctx, comment.CreateCommentDTO{Content: "  ", TicketID: 42, AuthorID: 1})
		assert.ErrorIs(t, err, application.ErrEmptyComment)
	})

	t.Run("CreateComment unknown ticket", func(t *testing.T) {
		repos, m := newRepoMocks(t)
		svc := application.NewCommentService(repos, nil)
		m.ticket.EXPECT().GetTicketByID(uint(42)).Return(ticket.Ticket{}, gorm.ErrRecordNotFound)

		_, err := svc.CreateComment(ctx, comment.CreateCommentDTO{Content: "hi", TicketID: 42, AuthorID: 1})
		assert.ErrorIs(t, err, application.ErrTicketNotFound)
	})

	t.Run("ListComments", func(t *testing.T) {
		repos, m := newRepoMocks(t)
		svc := application.NewCommentService(repos, nil)
		m.ticket.EXPECT().GetTicketByID(uint(42)).Return(ticket.Ticket{ID: 42}, nil)
		m.comment.EXPECT().ListCommentsByTicket(uint(42)).Return([]comment.Comment{{ID: 1}, {ID: 2}}, nil)

		comments, err := svc.ListComments(ctx, 42)
		require.NoError(t, err)
		assert.Len(t, comments, 2)
	})
}
