package board

import (
	"math"

	"github.com/linskybing/taskflow/internal/domain/ticket"
)

// DefaultActivationDistance is how far the pointer must travel before a press
// on a card turns into a drag.
const DefaultActivationDistance = 8

type Point struct {
	X, Y int
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// DropTarget is a column's hit area as laid out by the renderer.
type DropTarget struct {
	Status ticket.Status
	Bounds Rect
}

// MoveRequested is emitted when a drag ends over a column.
type MoveRequested struct {
	TicketID uint
	Target   ticket.Status
}

// OpenDetail is emitted when a card is pressed and released without
// travelling far enough to start a drag.
type OpenDetail struct {
	TicketID uint
}

// Intent is what a finished pointer interaction asks the board to do:
// MoveRequested, OpenDetail, or nil when the gesture was abandoned.
type Intent interface {
	isIntent()
}

func (MoveRequested) isIntent() {}
func (OpenDetail) isIntent()    {}

type press struct {
	pointerID int
	ticketID  uint
	origin    Point
}

type gesture struct {
	pointerID int
	ticketID  uint
	hover     *ticket.Status
}

// Tracker turns raw pointer input into gestures. It never decides what a
// move means for the board; that is left to the Synchronizer.
type Tracker struct {
	distance float64
	targets  []DropTarget
	pressed  *press
	active   *gesture
}

func NewTracker(activationDistance float64) *Tracker {
	if activationDistance <= 0 {
		activationDistance = DefaultActivationDistance
	}
	return &Tracker{distance: activationDistance}
}

// SetDropTargets replaces the column hit areas after a layout pass.
func (t *Tracker) SetDropTargets(targets []DropTarget) {
	t.targets = append(t.targets[:0], targets...)
}

// TargetAt hit-tests p against the drop targets.
func (t *Tracker) TargetAt(p Point) *ticket.Status {
	for _, dt := range t.targets {
		if dt.Bounds.Contains(p) {
			s := dt.Status
			return &s
		}
	}
	return nil
}

// PointerDown records a press on a card. It is ignored while another press or
// drag is in progress.
func (t *Tracker) PointerDown(pointerID int, ticketID uint, at Point) {
	if t.pressed != nil || t.active != nil {
		return
	}
	t.pressed = &press{pointerID: pointerID, ticketID: ticketID, origin: at}
}

// PointerMove starts the drag once the press has travelled the activation
// distance and afterwards reports the column under the pointer.
func (t *Tracker) PointerMove(pointerID int, at Point) (ticket.Status, bool) {
	if p := t.pressed; p != nil && p.pointerID == pointerID && t.active == nil {
		dx := float64(at.X - p.origin.X)
		dy := float64(at.Y - p.origin.Y)
		if math.Hypot(dx, dy) < t.distance {
			return "", false
		}
		t.pressed = nil
		t.Start(pointerID, p.ticketID)
	}
	return t.Move(pointerID, at)
}

// PointerUp ends whatever the pointer was doing and reports the intent.
func (t *Tracker) PointerUp(pointerID int, at Point) Intent {
	if g := t.active; g != nil && g.pointerID == pointerID {
		if req, ok := t.End(pointerID, t.TargetAt(at)); ok {
			return req
		}
		return nil
	}
	if p := t.pressed; p != nil && p.pointerID == pointerID {
		t.pressed = nil
		return OpenDetail{TicketID: p.ticketID}
	}
	return nil
}

// Start lifts ticketID. Only one gesture can be active; a second start is
// ignored and reported as false.
func (t *Tracker) Start(pointerID int, ticketID uint) bool {
	if t.active != nil {
		return false
	}
	t.active = &gesture{pointerID: pointerID, ticketID: ticketID}
	return true
}

// Move reports the column under the pointer for highlighting. It changes
// nothing on the board.
func (t *Tracker) Move(pointerID int, at Point) (ticket.Status, bool) {
	g := t.active
	if g == nil || g.pointerID != pointerID {
		return "", false
	}
	g.hover = t.TargetAt(at)
	if g.hover == nil {
		return "", false
	}
	return *g.hover, true
}

// End finishes the active gesture. Without a target the gesture is
// abandoned; either way the lifted ticket is released.
func (t *Tracker) End(pointerID int, target *ticket.Status) (MoveRequested, bool) {
	g := t.active
	if g == nil || g.pointerID != pointerID {
		return MoveRequested{}, false
	}
	t.active = nil
	if target == nil {
		return MoveRequested{}, false
	}
	return MoveRequested{TicketID: g.ticketID, Target: *target}, true
}

// Cancel abandons any press or drag in progress.
func (t *Tracker) Cancel() {
	t.pressed = nil
	t.active = nil
}

// Active returns the lifted ticket, if any.
func (t *Tracker) Active() (uint, bool) {
	if t.active == nil {
		return 0, false
	}
	return t.active.ticketID, true
}

// Hover returns the column currently under the dragged card.
func (t *Tracker) Hover() (ticket.Status, bool) {
	if t.active == nil || t.active.hover == nil {
		return "", false
	}
	return *t.active.hover, true
}
