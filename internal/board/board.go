package board

import (
	"context"
	"strings"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/domain/user"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task is the remote half of a board operation. It may run on any goroutine
// and must not touch board state; its Completion is handed back to the loop.
type Task func(ctx context.Context) Completion

// Completion is a finished Task waiting to be applied by Board.Complete.
type Completion interface {
	complete(b *Board) Report
}

// Report is what applying a Completion produced. Next, when set, is a
// follow-up Task such as the reload after a delete.
type Report struct {
	Outcome Outcome
	Notice  string
	Next    Task
}

type Options struct {
	// ActivationDistance is the drag threshold in cells.
	ActivationDistance float64
	// Actor is the user comments are attributed to.
	Actor uint
	// ClientID identifies this board in change events so its own writes
	// don't trigger reloads.
	ClientID string
	Log      *zap.SugaredLogger
}

// Board owns the collection, gesture tracker and synchronizer. All methods
// must be called from a single event loop.
type Board struct {
	store    Store
	log      *zap.SugaredLogger
	actor    uint
	clientID string

	Tickets  *Collection
	Gestures *Tracker
	Sync     *Synchronizer

	users    user.Directory
	projects []project.Project
	detail   *Detail
	loaded   bool
}

func New(store Store, opts Options) *Board {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	tickets := NewCollection()
	return &Board{
		store:    store,
		log:      log,
		actor:    opts.Actor,
		clientID: opts.ClientID,
		Tickets:  tickets,
		Gestures: NewTracker(opts.ActivationDistance),
		Sync:     NewSynchronizer(tickets, store),
		users:    user.Directory{},
	}
}

// Complete applies c on the loop.
func (b *Board) Complete(c Completion) Report {
	return c.complete(b)
}

func (b *Board) Users() user.Directory { return b.users }

func (b *Board) Projects() []project.Project { return b.projects }

// Detail is the open ticket view, nil when none is open.
func (b *Board) Detail() *Detail { return b.detail }

// Loaded reports whether a load has ever succeeded.
func (b *Board) Loaded() bool { return b.loaded }

// Actor is the user comments are attributed to.
func (b *Board) Actor() (user.User, bool) {
	u, ok := b.users[b.actor]
	return u, ok
}

func (b *Board) Assignee(t ticket.Ticket) (user.User, bool) {
	if t.AssigneeID == nil {
		return user.User{}, false
	}
	u, ok := b.users[*t.AssigneeID]
	return u, ok
}

type loadResult struct {
	scope    *uint
	tickets  []ticket.Ticket
	users    []user.User
	projects []project.Project
	err      error
}

// Load fetches tickets for scope together with users and projects. The
// board only changes if all three succeed.
func (b *Board) Load(scope *uint) Task {
	store := b.store
	scope = copyScope(scope)
	return func(ctx context.Context) Completion {
		res := &loadResult{scope: scope}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			res.tickets, err = store.ListTickets(gctx, scope)
			return remoteErr("list tickets", err)
		})
		g.Go(func() error {
			var err error
			res.users, err = store.ListUsers(gctx)
			return remoteErr("list users", err)
		})
		g.Go(func() error {
			var err error
			res.projects, err = store.ListProjects(gctx)
			return remoteErr("list projects", err)
		})
		res.err = g.Wait()
		return res
	}
}

// Reload loads the current scope again.
func (b *Board) Reload() Task {
	return b.Load(b.Tickets.Scope())
}

func (r *loadResult) complete(b *Board) Report {
	if r.err != nil {
		b.log.Warnw("board load failed", "error", r.err)
		return Report{Notice: "Could not load the board. Press r to retry."}
	}
	b.Tickets.Replace(r.scope, r.tickets)
	b.Sync.Rebase()
	b.users = user.NewDirectory(r.users)
	b.projects = r.projects
	b.loaded = true
	if b.detail != nil {
		if _, ok := b.Tickets.Get(b.detail.TicketID); !ok {
			b.detail = nil
		}
	}
	return Report{}
}

type moveResult struct {
	move Move
	err  error
}

// Drop hands a finished drag to the synchronizer. The collection is already
// patched when Drop returns; the Task carries the remote update.
func (b *Board) Drop(req MoveRequested) (Report, Task) {
	m, outcome := b.Sync.Request(req)
	if outcome != OutcomeRequested {
		return Report{Outcome: outcome}, nil
	}
	sync := b.Sync
	return Report{Outcome: outcome}, func(ctx context.Context) Completion {
		return &moveResult{move: m, err: sync.Send(ctx, m)}
	}
}

func (r *moveResult) complete(b *Board) Report {
	res := b.Sync.Resolve(r.move, r.err)
	switch res.Outcome {
	case OutcomeRolledBack:
		b.log.Warnw("ticket move rolled back", "ticket_id", r.move.TicketID, "to", r.move.To, "error", r.err)
	case OutcomeStale:
		b.log.Debugw("discarding stale move answer", "ticket_id", r.move.TicketID, "gen", r.move.Gen)
	}
	return Report{Outcome: res.Outcome, Notice: res.Notice}
}

type createResult struct {
	what string
	err  error
}

func (r *createResult) complete(b *Board) Report {
	if r.err != nil {
		b.log.Warnw("create failed", "what", r.what, "error", r.err)
		return Report{Notice: "Could not create " + r.what + "."}
	}
	return Report{Next: b.Reload()}
}

// CreateTicket creates a ticket and reloads the board on success.
func (b *Board) CreateTicket(input ticket.CreateTicketDTO) Task {
	store := b.store
	return func(ctx context.Context) Completion {
		_, err := store.CreateTicket(ctx, input)
		return &createResult{what: "ticket", err: remoteErr("create ticket", err)}
	}
}

// CreateProject creates a project and reloads the board on success.
func (b *Board) CreateProject(input project.CreateProjectDTO) Task {
	store := b.store
	return func(ctx context.Context) Completion {
		_, err := store.CreateProject(ctx, input)
		return &createResult{what: "project", err: remoteErr("create project", err)}
	}
}

// Remote reacts to a change made by another client. Changes this board made
// itself are already reflected locally.
func (b *Board) Remote(e event.ChangeEvent) Task {
	if e.Origin != "" && e.Origin == b.clientID {
		return nil
	}
	switch e.Kind {
	case event.CommentCreated:
		if b.detail != nil && b.detail.TicketID == e.TicketID {
			return b.loadComments(e.TicketID)
		}
		return nil
	case event.TicketCreated, event.TicketUpdated, event.TicketDeleted:
		if scope := b.Tickets.Scope(); scope != nil && e.ProjectID != 0 && e.ProjectID != *scope {
			return nil
		}
		return b.Reload()
	case event.ProjectCreated, event.ProjectUpdated, event.ProjectDeleted, event.UserChanged:
		return b.Reload()
	}
	return nil
}

// ProjectName resolves a project id for display.
func (b *Board) ProjectName(id uint) string {
	for _, p := range b.projects {
		if p.ID == id {
			return strings.TrimSpace(p.Key + " " + p.Name)
		}
	}
	return ""
}
