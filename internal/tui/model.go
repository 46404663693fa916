// Package tui renders the board in a terminal. The bubbletea update loop is
// the board's event loop: board Tasks run as commands and their completions
// come back as messages.
package tui

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"go.uber.org/zap"
)

// Screen geometry. Rows are counted from the top of the terminal.
const (
	titleRow     = 2
	firstCardY   = 4
	cardHeight   = 3
	footerHeight = 2

	defaultWidth  = 100
	defaultHeight = 30

	// Terminals report a single mouse.
	mousePointer = 0

	noticeFeedDown = "Live updates disconnected; reconnecting."
)

type completionMsg struct {
	completion board.Completion
}

type remoteEventMsg struct {
	event event.ChangeEvent
}

type feedErrorMsg struct {
	err error
}

type feedConnectedMsg struct{}

// RemoteEvent wraps a change-feed event for tea.Program.Send.
func RemoteEvent(e event.ChangeEvent) tea.Msg {
	return remoteEventMsg{event: e}
}

// FeedError reports that the change feed dropped.
func FeedError(err error) tea.Msg {
	return feedErrorMsg{err: err}
}

// FeedConnected reports that the change feed is (re)established.
func FeedConnected() tea.Msg {
	return feedConnectedMsg{}
}

type promptKind int

const (
	promptComment promptKind = iota
	promptTicket
	promptProject
	promptTitle
	promptDescription
)

type prompt struct {
	kind  promptKind
	label string
	value []rune
}

type cardBox struct {
	ticketID uint
	bounds   board.Rect
}

type Options struct {
	Scope *uint
	Log   *zap.SugaredLogger
}

type Model struct {
	ctx   context.Context
	board *board.Board
	scope *uint
	log   *zap.SugaredLogger

	width  int
	height int
	cards  []cardBox
	notice string
	input  *prompt
	// the change feed dropped and events may have been missed
	feedDown bool
}

func New(ctx context.Context, b *board.Board, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return Model{ctx: ctx, board: b, scope: opts.Scope, log: log}
}

func (m Model) Init() tea.Cmd {
	return m.run(m.board.Load(m.scope))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case completionMsg:
		rep := m.board.Complete(msg.completion)
		return m, m.report(rep)

	case remoteEventMsg:
		return m, m.run(m.board.Remote(msg.event))

	case feedErrorMsg:
		m.log.Warnw("change feed dropped", "error", msg.err)
		m.feedDown = true
		m.notice = noticeFeedDown
		return m, nil

	case feedConnectedMsg:
		if !m.feedDown {
			return m, nil
		}
		m.feedDown = false
		if m.notice == noticeFeedDown {
			m.notice = ""
		}
		return m, m.reload()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.input != nil {
			return m, m.handlePromptKey(msg)
		}
		m.notice = ""
		if m.board.Detail() != nil {
			return m, m.handleDetailKey(msg)
		}
		return m, m.handleBoardKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

// run turns a board Task into a command. The Task's remote phase runs on
// bubbletea's command goroutine; its completion is applied in Update.
func (m Model) run(task board.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return completionMsg{completion: task(ctx)}
	}
}

// reload loads the board's scope again, or the requested scope while no load
// has succeeded yet.
func (m Model) reload() tea.Cmd {
	if m.board.Loaded() {
		return m.run(m.board.Reload())
	}
	return m.run(m.board.Load(m.scope))
}

func (m *Model) report(rep board.Report) tea.Cmd {
	if rep.Notice != "" {
		m.notice = rep.Notice
	}
	return m.run(rep.Next)
}

func (m *Model) handleBoardKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "r":
		return m.reload()
	case "p":
		m.scope = m.nextScope()
		return m.run(m.board.Load(m.scope))
	case "esc":
		m.board.Gestures.Cancel()
	case "n":
		if _, ok := m.targetProject(); !ok {
			m.notice = "Create a project first (N)."
			return nil
		}
		m.input = &prompt{kind: promptTicket, label: "New ticket title"}
	case "N":
		m.input = &prompt{kind: promptProject, label: "New project name"}
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	d := m.board.Detail()
	t, ok := m.board.Tickets.Get(d.TicketID)
	if !ok {
		m.board.CloseDetail()
		return nil
	}

	switch msg.String() {
	case "esc", "q":
		m.board.CloseDetail()
	case "r":
		return m.run(m.board.Reload())
	case "c":
		m.input = &prompt{kind: promptComment, label: "Comment"}
	case "e":
		m.input = &prompt{kind: promptTitle, label: "Title", value: []rune(t.Title)}
	case "d":
		var desc string
		if t.Description != nil {
			desc = *t.Description
		}
		m.input = &prompt{kind: promptDescription, label: "Description", value: []rune(desc)}
	case "a":
		assignee := next(m.assigneeChoices(), assigneeOf(t))
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{AssigneeID: &assignee}))
	case "p":
		prio := next(ticket.Priorities, t.Priority)
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{Priority: &prio}))
	case "s":
		status := next(ticket.Statuses, t.Status)
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{Status: &status}))
	case "t":
		typ := next(ticket.Types, t.Type)
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{Type: &typ}))
	case "x":
		return m.do(m.board.DeleteTicket())
	}
	return nil
}

func (m *Model) do(rep board.Report, task board.Task) tea.Cmd {
	return tea.Batch(m.report(rep), m.run(task))
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	p := m.input
	switch msg.Type {
	case tea.KeyEsc:
		m.input = nil
	case tea.KeyBackspace:
		if len(p.value) > 0 {
			p.value = p.value[:len(p.value)-1]
		}
	case tea.KeySpace:
		p.value = append(p.value, ' ')
	case tea.KeyRunes:
		p.value = append(p.value, msg.Runes...)
	case tea.KeyEnter:
		m.input = nil
		return m.submit(p.kind, strings.TrimSpace(string(p.value)))
	}
	return nil
}

func (m *Model) submit(kind promptKind, text string) tea.Cmd {
	switch kind {
	case promptComment:
		return m.do(m.board.PostComment(text))
	case promptTicket:
		if text == "" {
			m.notice = ticket.ErrEmptyTitle.Error()
			return nil
		}
		pid, ok := m.targetProject()
		if !ok {
			return nil
		}
		return m.run(m.board.CreateTicket(ticket.CreateTicketDTO{Title: text, ProjectID: pid}))
	case promptProject:
		if text == "" {
			return nil
		}
		return m.run(m.board.CreateProject(project.CreateProjectDTO{Name: text}))
	case promptTitle:
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{Title: &text}))
	case promptDescription:
		return m.do(m.board.SaveTicket(ticket.UpdateTicketDTO{Description: &text}))
	}
	return nil
}

// nextScope cycles through all projects, then each project in turn.
func (m Model) nextScope() *uint {
	choices := []uint{0}
	for _, p := range m.board.Projects() {
		choices = append(choices, p.ID)
	}
	var cur uint
	if s := m.board.Tickets.Scope(); s != nil {
		cur = *s
	}
	id := next(choices, cur)
	if id == 0 {
		return nil
	}
	return &id
}

// assigneeChoices is unassigned (0) followed by every user id in order.
func (m Model) assigneeChoices() []uint {
	return append([]uint{0}, slices.Sorted(maps.Keys(m.board.Users()))...)
}

func assigneeOf(t ticket.Ticket) uint {
	if t.AssigneeID == nil {
		return 0
	}
	return *t.AssigneeID
}

// targetProject is where new tickets go: the scoped project, or the first
// one when the board shows every project.
func (m Model) targetProject() (uint, bool) {
	if scope := m.board.Tickets.Scope(); scope != nil {
		return *scope, true
	}
	if m.scope != nil {
		return *m.scope, true
	}
	if projects := m.board.Projects(); len(projects) > 0 {
		return projects[0].ID, true
	}
	return 0, false
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.board.Detail() != nil || m.input != nil {
		return nil
	}
	m.layout()
	at := board.Point{X: msg.X, Y: msg.Y}
	gestures := m.board.Gestures

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if id, ok := m.cardAt(at); ok {
			m.notice = ""
			gestures.PointerDown(mousePointer, id, at)
		}
	case tea.MouseActionMotion:
		gestures.PointerMove(mousePointer, at)
	case tea.MouseActionRelease:
		switch intent := gestures.PointerUp(mousePointer, at).(type) {
		case board.MoveRequested:
			return m.do(m.board.Drop(intent))
		case board.OpenDetail:
			return m.run(m.board.OpenDetail(intent.TicketID))
		}
	}
	return nil
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) columnWidth() int {
	w, _ := m.size()
	return w / len(ticket.Statuses)
}

func (m Model) columnHeight() int {
	_, h := m.size()
	return max(h-titleRow-footerHeight, 1)
}

// visible returns the cards that fit in column s and how many did not.
func (m Model) visible(s ticket.Status) ([]ticket.Ticket, int) {
	all := slices.Collect(m.board.Tickets.ByStatus(s))
	capacity := max((m.columnHeight()-(firstCardY-titleRow))/cardHeight, 1)
	if len(all) <= capacity {
		return all, 0
	}
	shown := all[:capacity-1]
	return shown, len(all) - len(shown)
}

// layout recomputes card hit boxes and column drop targets. It must agree
// with renderColumns.
func (m *Model) layout() {
	colW := m.columnWidth()
	targets := make([]board.DropTarget, 0, len(ticket.Statuses))
	m.cards = m.cards[:0]
	for i, s := range ticket.Statuses {
		x := i * colW
		targets = append(targets, board.DropTarget{
			Status: s,
			Bounds: board.Rect{X: x, Y: titleRow, W: colW, H: m.columnHeight()},
		})
		shown, _ := m.visible(s)
		for j, t := range shown {
			m.cards = append(m.cards, cardBox{
				ticketID: t.ID,
				bounds:   board.Rect{X: x, Y: firstCardY + j*cardHeight, W: colW, H: cardHeight - 1},
			})
		}
	}
	m.board.Gestures.SetDropTargets(targets)
}

func (m Model) cardAt(p board.Point) (uint, bool) {
	for _, c := range m.cards {
		if c.bounds.Contains(p) {
			return c.ticketID, true
		}
	}
	return 0, false
}

func (m Model) View() string {
	w, _ := m.size()

	var body string
	switch d := m.board.Detail(); {
	case d != nil:
		body = m.renderDetail(d, w)
	case !m.board.Loaded():
		body = lipgloss.NewStyle().Height(m.columnHeight()).Render(mutedStyle.Render(" Loading board…"))
	default:
		body = m.renderColumns()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(w), "", body, m.renderFooter(w))
}

func (m Model) renderHeader(w int) string {
	scope := "All projects"
	if s := m.board.Tickets.Scope(); s != nil {
		if name := m.board.ProjectName(*s); name != "" {
			scope = name
		}
	}
	line := fmt.Sprintf(" Taskflow · %s · %d tickets", scope, m.board.Tickets.Len())
	return headerStyle.Render(ansi.Truncate(line, w, "…"))
}

func (m Model) renderColumns() string {
	colW := m.columnWidth()
	inner := max(colW-2, 1)
	lifted, dragging := m.board.Gestures.Active()
	hover, hovering := m.board.Gestures.Hover()

	cols := make([]string, 0, len(ticket.Statuses))
	for _, s := range ticket.Statuses {
		shown, hidden := m.visible(s)

		titleStyle := columnTitleStyle
		if hovering && hover == s {
			titleStyle = hoverTitleStyle
		}
		title := fmt.Sprintf("%s (%d)", columnTitles[s], len(shown)+hidden)
		lines := []string{
			" " + titleStyle.Render(ansi.Truncate(title, inner, "…")),
			" " + mutedStyle.Render(strings.Repeat("─", inner)),
		}
		for _, t := range shown {
			top, bottom := m.renderCard(t, inner, dragging && t.ID == lifted)
			lines = append(lines, " "+top, " "+bottom, "")
		}
		if hidden > 0 {
			lines = append(lines, " "+mutedStyle.Render(fmt.Sprintf("+%d more", hidden)))
		}

		col := lipgloss.NewStyle().
			Width(colW).
			Height(m.columnHeight()).
			MaxHeight(m.columnHeight()).
			Render(strings.Join(lines, "\n"))
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderCard(t ticket.Ticket, width int, lifted bool) (string, string) {
	td := describeType(t.Type)
	who := "unassigned"
	if u, ok := m.board.Assignee(t); ok {
		who = u.Username
	}
	title := fmt.Sprintf("#%d %s", t.ID, t.Title)

	if lifted {
		return liftedStyle.Render(ansi.Truncate(td.Icon+" "+title, width, "…")),
			liftedStyle.Render(ansi.Truncate(string(t.Priority)+" · "+who, width, "…"))
	}
	top := lipgloss.NewStyle().Foreground(td.Color).Render(td.Icon) + " " + title
	bottom := lipgloss.NewStyle().Foreground(priorityColor(t.Priority)).Render(string(t.Priority)) +
		mutedStyle.Render(" · "+who)
	return ansi.Truncate(top, width, "…"), ansi.Truncate(bottom, width, "…")
}

func (m Model) renderDetail(d *board.Detail, w int) string {
	t, ok := m.board.Tickets.Get(d.TicketID)
	if !ok {
		return ""
	}
	td := describeType(t.Type)

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d %s\n", lipgloss.NewStyle().Foreground(td.Color).Render(td.Icon), t.ID, headerStyle.Render(t.Title))
	fmt.Fprintf(&b, "%s · %s · %s\n",
		t.Type,
		lipgloss.NewStyle().Foreground(priorityColor(t.Priority)).Render(string(t.Priority)),
		t.Status)

	assignee := "unassigned"
	if u, ok := m.board.Assignee(t); ok {
		assignee = u.DisplayName()
	}
	fmt.Fprintf(&b, "Project: %s   Assignee: %s\n", m.board.ProjectName(t.ProjectID), assignee)
	if t.Description != nil && *t.Description != "" {
		b.WriteString("\n" + *t.Description + "\n")
	}

	b.WriteString("\n")
	switch {
	case !d.Loaded:
		b.WriteString(mutedStyle.Render("Loading comments…"))
	case len(d.Comments) == 0:
		b.WriteString(mutedStyle.Render("No comments yet."))
	default:
		fmt.Fprintf(&b, "Comments (%d)\n", len(d.Comments))
		users := m.board.Users()
		for _, c := range d.Comments {
			author := fmt.Sprintf("user %d", c.AuthorID)
			if u, ok := users[c.AuthorID]; ok {
				author = u.Username
			}
			fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(author+":"), c.Content)
		}
	}
	if d.Busy {
		b.WriteString("\n" + noticeStyle.Render("Saving…"))
	}

	return detailStyle.
		Width(max(w-4, 10)).
		Height(max(m.columnHeight()-2, 1)).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderFooter(w int) string {
	var status string
	switch {
	case m.input != nil:
		status = fmt.Sprintf(" %s: %s█", m.input.label, string(m.input.value))
	case m.notice != "":
		status = " " + noticeStyle.Render(m.notice)
	}

	help := " drag cards between columns · click to open · p switch project · n new ticket · N new project · r reload · q quit"
	if m.board.Detail() != nil {
		help = " e title · d description · a assignee · s status · p priority · t type · c comment · x delete · esc close"
	}
	return ansi.Truncate(status, w, "…") + "\n" + mutedStyle.Render(ansi.Truncate(help, w, "…"))
}
