package board_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/board/mock"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inColumn(c *board.Collection, s ticket.Status, id uint) bool {
	return slices.Contains(ids(c.ByStatus(s)), id)
}

func columnsOf(c *board.Collection, id uint) []ticket.Status {
	var out []ticket.Status
	for _, s := range ticket.Statuses {
		if inColumn(c, s, id) {
			out = append(out, s)
		}
	}
	return out
}

func setupSync(t *testing.T, tickets ...ticket.Ticket) (*board.Synchronizer, *board.Collection, *mock.MockStore) {
	store := newStore(t)
	c := board.NewCollection()
	c.Replace(nil, tickets)
	return board.NewSynchronizer(c, store), c, store
}

func TestSynchronizerNoOp(t *testing.T) {
	s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

	// no UpdateTicket expectation: any remote call fails the test
	_, outcome := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusTodo})
	assert.Equal(t, board.OutcomeNoOp, outcome)

	_, outcome = s.Request(board.MoveRequested{TicketID: 404, Target: ticket.StatusDone})
	assert.Equal(t, board.OutcomeNoOp, outcome)

	got, _ := c.Get(1)
	assert.Equal(t, stamp, got.UpdatedAt)
	assert.Equal(t, ticket.StatusTodo, got.Status)
	assert.False(t, s.Pending(1))
}

func TestSynchronizerOptimisticVisibility(t *testing.T) {
	s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

	m, outcome := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusInReview})
	require.Equal(t, board.OutcomeRequested, outcome)

	// nothing has been sent yet
	assert.True(t, inColumn(c, ticket.StatusInReview, 1))
	assert.False(t, inColumn(c, ticket.StatusTodo, 1))
	assert.True(t, s.Pending(1))
	assert.Equal(t, ticket.StatusTodo, m.From)
	assert.Equal(t, ticket.StatusInReview, m.To)
}

func TestSynchronizerCommit(t *testing.T) {
	s, c, store := setupSync(t, tk(1, 1, ticket.StatusTodo))
	store.EXPECT().UpdateTicket(gomock.Any(), uint(1), ticket.StatusOnly(ticket.StatusDone)).
		Return(&ticket.Ticket{ID: 1, Status: ticket.StatusDone}, nil)

	m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
	res := s.Resolve(m, s.Send(context.Background(), m))

	assert.Equal(t, board.OutcomeCommitted, res.Outcome)
	assert.Empty(t, res.Notice)
	assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	assert.False(t, s.Pending(1))
}

func TestSynchronizerRollback(t *testing.T) {
	s, c, store := setupSync(t, tk(1, 1, ticket.StatusTodo))
	store.EXPECT().UpdateTicket(gomock.Any(), uint(1), gomock.Any()).Return(nil, errors.New("503 Service Unavailable"))

	m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
	err := s.Send(context.Background(), m)
	require.ErrorIs(t, err, board.ErrRemoteUnavailable)

	res := s.Resolve(m, err)
	assert.Equal(t, board.OutcomeRolledBack, res.Outcome)
	assert.NotEmpty(t, res.Notice)
	assert.Equal(t, []ticket.Status{ticket.StatusTodo}, columnsOf(c, 1))
}

func TestSynchronizerStaleResponse(t *testing.T) {
	t.Run("older success does not revert newer move", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m1, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusInProgress})
		m2, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		assert.Greater(t, m2.Gen, m1.Gen)

		res := s.Resolve(m1, nil)
		assert.Equal(t, board.OutcomeStale, res.Outcome)
		assert.Empty(t, res.Notice)
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))

		res = s.Resolve(m2, nil)
		assert.Equal(t, board.OutcomeCommitted, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	})

	t.Run("older failure does not roll back newer move", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m1, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusInProgress})
		s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})

		res := s.Resolve(m1, errors.New("timeout"))
		assert.Equal(t, board.OutcomeStale, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	})

	t.Run("newer failure rolls back to what the store holds", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m1, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusInProgress})
		m2, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		s.Resolve(m1, nil)

		res := s.Resolve(m2, errors.New("timeout"))
		assert.Equal(t, board.OutcomeRolledBack, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusInProgress}, columnsOf(c, 1))
	})

	t.Run("newer failure before older answer rolls back to loaded status", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusInProgress})
		m2, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})

		res := s.Resolve(m2, errors.New("timeout"))
		assert.Equal(t, board.OutcomeRolledBack, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusTodo}, columnsOf(c, 1))
	})

}

func TestSynchronizerRebase(t *testing.T) {
	t.Run("in-flight move survives a reload that missed it", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		c.Replace(nil, []ticket.Ticket{tk(1, 1, ticket.StatusTodo)})
		s.Rebase()

		assert.True(t, s.Pending(1))
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))

		res := s.Resolve(m, nil)
		assert.Equal(t, board.OutcomeCommitted, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	})

	t.Run("failure rolls back to the reloaded status", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		c.Replace(nil, []ticket.Ticket{tk(1, 1, ticket.StatusInReview)})
		s.Rebase()

		res := s.Resolve(m, errors.New("timeout"))
		assert.Equal(t, board.OutcomeRolledBack, res.Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusInReview}, columnsOf(c, 1))
	})

	t.Run("moves of tickets gone from the reload become stale", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo), tk(2, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		c.Replace(nil, []ticket.Ticket{tk(2, 1, ticket.StatusTodo)})
		s.Rebase()

		assert.False(t, s.Pending(1))
		assert.Equal(t, board.OutcomeStale, s.Resolve(m, errors.New("404")).Outcome)
		assert.Equal(t, 1, c.Len())
	})
}

func TestSynchronizerIndependentTickets(t *testing.T) {
	s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo), tk(2, 1, ticket.StatusTodo))

	m1, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
	m2, _ := s.Request(board.MoveRequested{TicketID: 2, Target: ticket.StatusInProgress})

	assert.Equal(t, board.OutcomeRolledBack, s.Resolve(m2, errors.New("boom")).Outcome)
	assert.Equal(t, board.OutcomeCommitted, s.Resolve(m1, nil).Outcome)
	assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	assert.Equal(t, []ticket.Status{ticket.StatusTodo}, columnsOf(c, 2))
}

func TestSynchronizerConfirm(t *testing.T) {
	t.Run("status edit supersedes move", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		assert.True(t, s.Confirm(tk(1, 1, ticket.StatusInReview), true))

		assert.False(t, s.Pending(1))
		assert.Equal(t, board.OutcomeStale, s.Resolve(m, errors.New("boom")).Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusInReview}, columnsOf(c, 1))
	})

	t.Run("other field edit keeps move on view", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		saved := tk(1, 1, ticket.StatusTodo)
		saved.Priority = ticket.PriorityHigh
		s.Confirm(saved, false)

		got, _ := c.Get(1)
		assert.Equal(t, ticket.StatusDone, got.Status)
		assert.Equal(t, ticket.PriorityHigh, got.Priority)
		assert.True(t, s.Pending(1))

		assert.Equal(t, board.OutcomeCommitted, s.Resolve(m, nil).Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusDone}, columnsOf(c, 1))
	})

	t.Run("move failing after other field edit rolls back to saved status", func(t *testing.T) {
		s, c, _ := setupSync(t, tk(1, 1, ticket.StatusTodo))

		m, _ := s.Request(board.MoveRequested{TicketID: 1, Target: ticket.StatusDone})
		s.Confirm(tk(1, 1, ticket.StatusInProgress), false)

		assert.Equal(t, board.OutcomeRolledBack, s.Resolve(m, errors.New("boom")).Outcome)
		assert.Equal(t, []ticket.Status{ticket.StatusInProgress}, columnsOf(c, 1))
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "rolled_back", board.OutcomeRolledBack.String())
	assert.Equal(t, "stale", board.OutcomeStale.String())
}
