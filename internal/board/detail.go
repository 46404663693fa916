package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/ticket"
)

// Detail is the open ticket view with its comments. Edits made from it are
// not optimistic: Busy is set while a request is in flight.
type Detail struct {
	TicketID uint
	Comments []comment.Comment
	Loaded   bool
	Busy     bool
}

// OpenDetail opens ticketID and fetches its comments.
func (b *Board) OpenDetail(ticketID uint) Task {
	if _, ok := b.Tickets.Get(ticketID); !ok {
		return nil
	}
	b.detail = &Detail{TicketID: ticketID}
	return b.loadComments(ticketID)
}

func (b *Board) CloseDetail() {
	b.detail = nil
}

type commentsResult struct {
	ticketID uint
	comments []comment.Comment
	err      error
}

func (b *Board) loadComments(ticketID uint) Task {
	store := b.store
	return func(ctx context.Context) Completion {
		comments, err := store.ListComments(ctx, ticketID)
		return &commentsResult{ticketID: ticketID, comments: comments, err: remoteErr("list comments", err)}
	}
}

func (r *commentsResult) complete(b *Board) Report {
	d := b.detail
	if d == nil || d.TicketID != r.ticketID {
		return Report{}
	}
	if r.err != nil {
		b.log.Warnw("loading comments failed", "ticket_id", r.ticketID, "error", r.err)
		return Report{Notice: "Could not load comments."}
	}
	d.Comments = r.comments
	d.Loaded = true
	return Report{}
}

type commentPosted struct {
	ticketID uint
	err      error
}

// PostComment adds a comment to the open ticket as the acting user. The
// list is reloaded on success instead of inserting the comment locally.
func (b *Board) PostComment(content string) (Report, Task) {
	d := b.detail
	if d == nil {
		return Report{}, nil
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Report{Notice: "Comment is empty."}, nil
	}
	if b.actor == 0 {
		return Report{Notice: "No acting user configured; comments need an author."}, nil
	}

	store := b.store
	input := comment.CreateCommentDTO{Content: content, TicketID: d.TicketID, AuthorID: b.actor}
	return Report{}, func(ctx context.Context) Completion {
		_, err := store.CreateComment(ctx, input)
		return &commentPosted{ticketID: input.TicketID, err: remoteErr("create comment", err)}
	}
}

func (r *commentPosted) complete(b *Board) Report {
	if r.err != nil {
		b.log.Warnw("posting comment failed", "ticket_id", r.ticketID, "error", r.err)
		return Report{Notice: "Could not post the comment."}
	}
	if b.detail == nil || b.detail.TicketID != r.ticketID {
		return Report{}
	}
	return Report{Next: b.loadComments(r.ticketID)}
}

type ticketSaved struct {
	ticketID     uint
	statusEdited bool
	ticket       *ticket.Ticket
	err          error
}

// SaveTicket sends an edit of the open ticket. The detail stays busy until
// the store answers and closes only when the edit is confirmed.
func (b *Board) SaveTicket(input ticket.UpdateTicketDTO) (Report, Task) {
	d := b.detail
	if d == nil || d.Busy {
		return Report{}, nil
	}
	if err := input.Validate(); err != nil {
		return Report{Notice: err.Error()}, nil
	}
	d.Busy = true

	store := b.store
	id := d.TicketID
	statusEdited := input.Status != nil
	return Report{}, func(ctx context.Context) Completion {
		t, err := store.UpdateTicket(ctx, id, input)
		return &ticketSaved{
			ticketID:     id,
			statusEdited: statusEdited,
			ticket:       t,
			err:          remoteErr(fmt.Sprintf("update ticket %d", id), err),
		}
	}
}

func (r *ticketSaved) complete(b *Board) Report {
	d := b.detail
	if d != nil && d.TicketID == r.ticketID {
		d.Busy = false
	}
	if r.err != nil {
		b.log.Warnw("saving ticket failed", "ticket_id", r.ticketID, "error", r.err)
		return Report{Notice: "Could not save the ticket."}
	}
	if r.ticket != nil {
		b.Sync.Confirm(*r.ticket, r.statusEdited)
	}
	if d != nil && d.TicketID == r.ticketID {
		b.detail = nil
	}
	return Report{}
}

type ticketDeleted struct {
	ticketID uint
	err      error
}

// DeleteTicket removes the open ticket and reloads the board on success.
func (b *Board) DeleteTicket() (Report, Task) {
	d := b.detail
	if d == nil || d.Busy {
		return Report{}, nil
	}
	d.Busy = true

	store := b.store
	id := d.TicketID
	return Report{}, func(ctx context.Context) Completion {
		err := store.DeleteTicket(ctx, id)
		return &ticketDeleted{ticketID: id, err: remoteErr(fmt.Sprintf("delete ticket %d", id), err)}
	}
}

func (r *ticketDeleted) complete(b *Board) Report {
	d := b.detail
	if d != nil && d.TicketID == r.ticketID {
		d.Busy = false
	}
	if r.err != nil {
		b.log.Warnw("deleting ticket failed", "ticket_id", r.ticketID, "error", r.err)
		return Report{Notice: "Could not delete the ticket."}
	}
	if d != nil && d.TicketID == r.ticketID {
		b.detail = nil
	}
	return Report{Next: b.Reload()}
}
