package board

import (
	"context"
	"fmt"

	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/metrics"
)

// Outcome tags what happened to a move request.
type Outcome int

const (
	OutcomeNoOp Outcome = iota
	OutcomeRequested
	OutcomeCommitted
	OutcomeRolledBack
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoOp:
		return "noop"
	case OutcomeRequested:
		return "requested"
	case OutcomeCommitted:
		return "committed"
	case OutcomeRolledBack:
		return "rolled_back"
	case OutcomeStale:
		return "stale"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Move is one in-flight status change. Gen orders moves of the same ticket.
type Move struct {
	TicketID uint
	From     ticket.Status
	To       ticket.Status
	Gen      uint64
}

type Result struct {
	Move    Move
	Outcome Outcome
	// Notice is set when the user should be told about a failure.
	Notice string
	Err    error
}

// Synchronizer applies moves optimistically and reconciles them with the
// store. It must only be driven from the board's event loop, except Send.
type Synchronizer struct {
	tickets *Collection
	store   Store

	next uint64
	// latest generation issued per ticket and its target, while in flight
	gens    map[uint]uint64
	targets map[uint]ticket.Status
	// last status the store is known to hold, for tickets moved since load
	confirmed    map[uint]ticket.Status
	confirmedGen map[uint]uint64
}

func NewSynchronizer(tickets *Collection, store Store) *Synchronizer {
	return &Synchronizer{
		tickets:      tickets,
		store:        store,
		gens:         make(map[uint]uint64),
		targets:      make(map[uint]ticket.Status),
		confirmed:    make(map[uint]ticket.Status),
		confirmedGen: make(map[uint]uint64),
	}
}

// Request decides whether req is a move and, if so, patches the collection
// before anything is sent. Missing tickets and same-column drops are no-ops.
func (s *Synchronizer) Request(req MoveRequested) (Move, Outcome) {
	t, ok := s.tickets.Get(req.TicketID)
	if !ok || t.Status == req.Target {
		metrics.RecordMove(OutcomeNoOp.String())
		return Move{}, OutcomeNoOp
	}

	if _, ok := s.confirmed[t.ID]; !ok {
		s.confirmed[t.ID] = t.Status
	}
	s.next++
	s.gens[t.ID] = s.next
	s.targets[t.ID] = req.Target

	m := Move{TicketID: t.ID, From: t.Status, To: req.Target, Gen: s.next}
	s.tickets.Patch(t.ID, ticket.StatusOnly(req.Target))
	metrics.RecordMove(OutcomeRequested.String())
	return m, OutcomeRequested
}

// Send issues the remote update for m. It reads no local state and may run
// off the event loop.
func (s *Synchronizer) Send(ctx context.Context, m Move) error {
	_, err := s.store.UpdateTicket(ctx, m.TicketID, ticket.StatusOnly(m.To))
	return remoteErr(fmt.Sprintf("update ticket %d", m.TicketID), err)
}

// Resolve reconciles the store's answer for m. Answers for a superseded
// generation never touch the view.
func (s *Synchronizer) Resolve(m Move, err error) Result {
	res := Result{Move: m, Err: err}

	if s.gens[m.TicketID] != m.Gen {
		// A superseded move that did land is still what the store holds
		// until a newer one lands, so later rollbacks return to it.
		if err == nil && m.Gen > s.confirmedGen[m.TicketID] {
			if _, tracked := s.confirmed[m.TicketID]; tracked {
				s.confirm(m)
			}
		}
		res.Outcome = OutcomeStale
		metrics.RecordMove(res.Outcome.String())
		return res
	}

	s.settle(m.TicketID)
	if err == nil {
		s.confirm(m)
		res.Outcome = OutcomeCommitted
		metrics.RecordMove(res.Outcome.String())
		return res
	}

	prior, ok := s.confirmed[m.TicketID]
	if !ok {
		prior = m.From
	}
	s.tickets.Patch(m.TicketID, ticket.StatusOnly(prior))
	res.Outcome = OutcomeRolledBack
	res.Notice = fmt.Sprintf("Could not move ticket #%d to %s; it is back in %s.", m.TicketID, m.To, prior)
	metrics.RecordMove(res.Outcome.String())
	return res
}

// Confirm applies a ticket the store returned from a detail edit. An edit
// that set the status supersedes any move of the ticket still in flight.
// Otherwise a pending move keeps its target on view and the returned status
// becomes what a failure of that move rolls back to.
func (s *Synchronizer) Confirm(t ticket.Ticket, statusEdited bool) bool {
	if statusEdited {
		s.settle(t.ID)
	}
	s.next++
	s.confirmed[t.ID] = t.Status
	s.confirmedGen[t.ID] = s.next
	if to, ok := s.targets[t.ID]; ok {
		t.Status = to
	}
	return s.tickets.Set(t)
}

// Rebase makes a freshly loaded collection the new baseline. The load may
// have read the store before a move landed, so moves still in flight stay
// pending: their targets are applied again over the loaded tickets and the
// loaded status is what a failure rolls back to. Moves of tickets the load
// no longer holds are dropped and their answers become stale.
func (s *Synchronizer) Rebase() {
	clear(s.confirmed)
	clear(s.confirmedGen)
	for id := range s.gens {
		t, ok := s.tickets.Get(id)
		if !ok {
			s.settle(id)
			continue
		}
		s.confirmed[id] = t.Status
		s.tickets.Patch(id, ticket.StatusOnly(s.targets[id]))
	}
}

// Pending reports whether a move of ticket id is awaiting its answer.
func (s *Synchronizer) Pending(id uint) bool {
	_, ok := s.gens[id]
	return ok
}

func (s *Synchronizer) settle(id uint) {
	delete(s.gens, id)
	delete(s.targets, id)
}

func (s *Synchronizer) confirm(m Move) {
	s.confirmed[m.TicketID] = m.To
	s.confirmedGen[m.TicketID] = m.Gen
}
