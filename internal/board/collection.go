package board

import (
	"context"
	"iter"

	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/samber/lo"
)

// Collection is the client-side view of the tickets in scope. Column
// contents are always derived from it with ByStatus.
type Collection struct {
	order []uint
	byID  map[uint]*ticket.Ticket
	scope *uint
}

func NewCollection() *Collection {
	return &Collection{byID: make(map[uint]*ticket.Ticket)}
}

// Load replaces the collection with the store's tickets for scope. On
// failure the previous contents are kept.
func (c *Collection) Load(ctx context.Context, store Store, scope *uint) error {
	tickets, err := store.ListTickets(ctx, scope)
	if err != nil {
		return remoteErr("list tickets", err)
	}
	c.Replace(scope, tickets)
	return nil
}

// Replace swaps in a freshly fetched ticket list. Tickets outside a non-nil
// scope are dropped; a repeated id keeps its first position and last value.
func (c *Collection) Replace(scope *uint, tickets []ticket.Ticket) {
	if scope != nil {
		tickets = lo.Filter(tickets, func(t ticket.Ticket, _ int) bool {
			return t.ProjectID == *scope
		})
	}

	order := make([]uint, 0, len(tickets))
	byID := make(map[uint]*ticket.Ticket, len(tickets))
	for i := range tickets {
		t := tickets[i]
		if _, seen := byID[t.ID]; !seen {
			order = append(order, t.ID)
		}
		byID[t.ID] = &t
	}

	c.order = order
	c.byID = byID
	c.scope = copyScope(scope)
}

// ByStatus yields the tickets in status s in collection order. The sequence
// reads live state, so ranging it again after a patch sees the patch.
func (c *Collection) ByStatus(s ticket.Status) iter.Seq[ticket.Ticket] {
	return func(yield func(ticket.Ticket) bool) {
		for _, id := range c.order {
			t := c.byID[id]
			if t.Status != s {
				continue
			}
			if !yield(*t) {
				return
			}
		}
	}
}

func (c *Collection) All() iter.Seq[ticket.Ticket] {
	return func(yield func(ticket.Ticket) bool) {
		for _, id := range c.order {
			if !yield(*c.byID[id]) {
				return
			}
		}
	}
}

// Patch merges the set fields into ticket id. It reports false when the
// ticket is not in the collection.
func (c *Collection) Patch(id uint, fields ticket.UpdateTicketDTO) bool {
	t, ok := c.byID[id]
	if !ok {
		return false
	}
	fields.Apply(t)
	return true
}

// Set overwrites a ticket already in the collection with a confirmed copy.
func (c *Collection) Set(t ticket.Ticket) bool {
	if _, ok := c.byID[t.ID]; !ok {
		return false
	}
	c.byID[t.ID] = &t
	return true
}

func (c *Collection) Get(id uint) (ticket.Ticket, bool) {
	t, ok := c.byID[id]
	if !ok {
		return ticket.Ticket{}, false
	}
	return *t, true
}

func (c *Collection) Len() int {
	return len(c.order)
}

// Scope is the project filter of the last successful load, nil for all.
func (c *Collection) Scope() *uint {
	return copyScope(c.scope)
}

func copyScope(scope *uint) *uint {
	if scope == nil {
		return nil
	}
	v := *scope
	return &v
}
