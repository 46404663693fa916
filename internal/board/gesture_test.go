package board_test

import (
	"testing"

	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two columns side by side, each 20 cells wide.
func newTracker() *board.Tracker {
	tr := board.NewTracker(0)
	tr.SetDropTargets([]board.DropTarget{
		{Status: ticket.StatusTodo, Bounds: board.Rect{X: 0, Y: 0, W: 20, H: 40}},
		{Status: ticket.StatusInProgress, Bounds: board.Rect{X: 20, Y: 0, W: 20, H: 40}},
	})
	return tr
}

func TestTrackerActivationThreshold(t *testing.T) {
	tr := newTracker()
	tr.PointerDown(1, 42, board.Point{X: 5, Y: 5})

	_, hovering := tr.PointerMove(1, board.Point{X: 10, Y: 5})
	assert.False(t, hovering)
	_, active := tr.Active()
	assert.False(t, active, "5 cells is below the default distance")

	status, hovering := tr.PointerMove(1, board.Point{X: 25, Y: 5})
	require.True(t, hovering)
	assert.Equal(t, ticket.StatusInProgress, status)
	id, active := tr.Active()
	assert.True(t, active)
	assert.Equal(t, uint(42), id)

	intent := tr.PointerUp(1, board.Point{X: 25, Y: 6})
	assert.Equal(t, board.MoveRequested{TicketID: 42, Target: ticket.StatusInProgress}, intent)
	_, active = tr.Active()
	assert.False(t, active)
}

func TestTrackerClickOpensDetail(t *testing.T) {
	tr := newTracker()
	tr.PointerDown(1, 7, board.Point{X: 5, Y: 5})
	tr.PointerMove(1, board.Point{X: 7, Y: 6})

	intent := tr.PointerUp(1, board.Point{X: 7, Y: 6})
	assert.Equal(t, board.OpenDetail{TicketID: 7}, intent)
}

func TestTrackerAbandonOutsideColumns(t *testing.T) {
	tr := newTracker()
	tr.PointerDown(1, 3, board.Point{X: 5, Y: 5})
	tr.PointerMove(1, board.Point{X: 5, Y: 30})

	intent := tr.PointerUp(1, board.Point{X: 100, Y: 100})
	assert.Nil(t, intent)
	_, active := tr.Active()
	assert.False(t, active)
}

func TestTrackerSingleActiveGesture(t *testing.T) {
	tr := newTracker()
	require.True(t, tr.Start(1, 10))
	assert.False(t, tr.Start(2, 11))

	// a second pointer is ignored while the first drag is active
	tr.PointerDown(2, 11, board.Point{X: 0, Y: 0})
	_, ok := tr.Move(2, board.Point{X: 25, Y: 1})
	assert.False(t, ok)
	_, ok = tr.End(2, nil)
	assert.False(t, ok)

	target := ticket.StatusTodo
	req, ok := tr.End(1, &target)
	require.True(t, ok)
	assert.Equal(t, uint(10), req.TicketID)
}

func TestTrackerMoveIsAdvisory(t *testing.T) {
	tr := newTracker()
	tr.Start(1, 5)

	status, ok := tr.Move(1, board.Point{X: 3, Y: 3})
	require.True(t, ok)
	assert.Equal(t, ticket.StatusTodo, status)
	hover, ok := tr.Hover()
	require.True(t, ok)
	assert.Equal(t, ticket.StatusTodo, hover)

	_, ok = tr.Move(1, board.Point{X: 60, Y: 3})
	assert.False(t, ok)
	_, ok = tr.Hover()
	assert.False(t, ok)

	tr.Cancel()
	_, active := tr.Active()
	assert.False(t, active)
}

func TestTrackerCustomDistance(t *testing.T) {
	tr := board.NewTracker(2)
	tr.PointerDown(1, 1, board.Point{X: 0, Y: 0})
	tr.PointerMove(1, board.Point{X: 2, Y: 0})
	_, active := tr.Active()
	assert.True(t, active, "reaching the distance activates")
}
