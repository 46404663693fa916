package board_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/board/mock"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func tk(id, projectID uint, status ticket.Status) ticket.Ticket {
	return ticket.Ticket{
		ID:        id,
		Title:     "ticket",
		Status:    status,
		Priority:  ticket.PriorityMedium,
		Type:      ticket.TypeTask,
		ProjectID: projectID,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

func ids(seq iter.Seq[ticket.Ticket]) []uint {
	var out []uint
	for t := range seq {
		out = append(out, t.ID)
	}
	return out
}

func uintPtr(v uint) *uint { return &v }

func newStore(t *testing.T) *mock.MockStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	return mock.NewMockStore(ctrl)
}

func TestCollectionLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces contents", func(t *testing.T) {
		store := newStore(t)
		store.EXPECT().ListTickets(gomock.Any(), gomock.Nil()).Return([]ticket.Ticket{
			tk(1, 1, ticket.StatusTodo),
			tk(2, 1, ticket.StatusDone),
			tk(3, 2, ticket.StatusTodo),
		}, nil)

		c := board.NewCollection()
		require.NoError(t, c.Load(ctx, store, nil))
		assert.Equal(t, 3, c.Len())
		assert.Equal(t, []uint{1, 3}, ids(c.ByStatus(ticket.StatusTodo)))
		assert.Nil(t, c.Scope())
	})

	t.Run("failure keeps previous collection", func(t *testing.T) {
		store := newStore(t)
		gomock.InOrder(
			store.EXPECT().ListTickets(gomock.Any(), gomock.Nil()).Return([]ticket.Ticket{tk(1, 1, ticket.StatusTodo)}, nil),
			store.EXPECT().ListTickets(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")),
		)

		c := board.NewCollection()
		require.NoError(t, c.Load(ctx, store, nil))
		err := c.Load(ctx, store, uintPtr(7))

		assert.ErrorIs(t, err, board.ErrRemoteUnavailable)
		assert.Equal(t, []uint{1}, ids(c.All()))
		assert.Nil(t, c.Scope(), "scope only changes on success")
	})

	t.Run("scope reload consistency", func(t *testing.T) {
		store := newStore(t)
		// a store that ignores the filter still yields only scoped tickets
		store.EXPECT().ListTickets(gomock.Any(), gomock.Any()).Return([]ticket.Ticket{
			tk(1, 5, ticket.StatusTodo),
			tk(2, 6, ticket.StatusTodo),
			tk(3, 5, ticket.StatusInReview),
		}, nil)

		c := board.NewCollection()
		require.NoError(t, c.Load(ctx, store, uintPtr(5)))
		for _, s := range ticket.Statuses {
			for tt := range c.ByStatus(s) {
				assert.Equal(t, uint(5), tt.ProjectID)
			}
		}
		assert.Equal(t, 2, c.Len())
		require.NotNil(t, c.Scope())
		assert.Equal(t, uint(5), *c.Scope())
	})
}

func TestCollectionByStatusIsRestartable(t *testing.T) {
	c := board.NewCollection()
	c.Replace(nil, []ticket.Ticket{
		tk(4, 1, ticket.StatusTodo),
		tk(2, 1, ticket.StatusTodo),
		tk(9, 1, ticket.StatusDone),
	})

	seq := c.ByStatus(ticket.StatusTodo)
	assert.Equal(t, []uint{4, 2}, ids(seq))
	assert.Equal(t, []uint{4, 2}, ids(seq))

	c.Patch(2, ticket.StatusOnly(ticket.StatusDone))
	assert.Equal(t, []uint{4}, ids(seq))
	assert.Equal(t, []uint{2, 9}, slices.Sorted(slices.Values(ids(c.ByStatus(ticket.StatusDone)))))
}

func TestCollectionPatch(t *testing.T) {
	c := board.NewCollection()
	c.Replace(nil, []ticket.Ticket{tk(1, 1, ticket.StatusTodo)})

	assert.False(t, c.Patch(99, ticket.StatusOnly(ticket.StatusDone)))
	assert.Equal(t, 1, c.Len())

	title := "Renamed"
	assert.True(t, c.Patch(1, ticket.UpdateTicketDTO{Title: &title}))
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, ticket.StatusTodo, got.Status)
}

func TestCollectionDuplicateIDs(t *testing.T) {
	c := board.NewCollection()
	first := tk(1, 1, ticket.StatusTodo)
	second := tk(1, 1, ticket.StatusDone)
	c.Replace(nil, []ticket.Ticket{first, tk(2, 1, ticket.StatusTodo), second})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []uint{1, 2}, ids(c.All()))
	got, _ := c.Get(1)
	assert.Equal(t, ticket.StatusDone, got.Status)
}
