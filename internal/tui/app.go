package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/state"
)

// Service is the remote record store. *records.Client satisfies it.
type Service interface {
	FetchPage(ctx context.Context, page, size int) (*records.Page, error)
	Search(ctx context.Context, query string, page, size int) (*records.Page, error)
	Create(ctx context.Context, in records.Input) (*records.Record, error)
	Update(ctx context.Context, id int64, in records.Input) (*records.Record, error)
	Delete(ctx context.Context, id int64) (*records.Record, error)
}

// Subscriber is implemented by services that offer a change feed
type Subscriber interface {
	Subscribe(ctx context.Context) (*records.Subscription, error)
}

// Options configures a session
type Options struct {
	// Server is shown in the header
	Server string

	RowsPerPage       int
	SearchRowsPerPage int

	// RequestTimeout bounds every call. Zero means no extra bound.
	RequestTimeout time.Duration

	// DateLayout is a Go time layout for the date column
	DateLayout string

	// LiveRefresh follows the server's change feed when there is one
	LiveRefresh bool
}

// Result messages delivered by commands
type (
	pageLoadedMsg struct {
		fetch state.Fetch
		page  *records.Page
	}

	searchLoadedMsg struct {
		fetch state.SearchFetch
		page  *records.Page
	}

	createdMsg struct {
		record records.Record
	}

	updatedMsg struct {
		previous records.Record
		record   records.Record
	}

	deletedMsg struct {
		record records.Record
	}

	errMsg struct {
		op  string
		err error
	}

	subscribedMsg struct {
		sub *records.Subscription
	}

	feedEventMsg struct {
		event records.Event
	}

	feedClosedMsg struct {
		err error
	}
)

// Model is the application shell. It owns the state container, issues every
// network call as a command and applies results through state transitions.
type Model struct {
	svc   Service
	opts  Options
	state *state.State
	panel Panel

	spinner spinner.Model
	pending int

	status    string
	statusErr bool

	ctx    context.Context
	cancel context.CancelFunc
	sub    *records.Subscription

	Width    int
	Height   int
	quitting bool
}

// New creates the shell for svc. Call Close when the program exits.
func New(svc Service, opts Options) Model {
	if opts.DateLayout == "" {
		opts.DateLayout = records.DateLayout
	}

	st := state.New(opts.RowsPerPage, opts.SearchRowsPerPage)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		svc:     svc,
		opts:    opts,
		state:   st,
		panel:   NewPanel(st.RowsPerPage, opts.DateLayout),
		spinner: s,
		pending: 1, // the fetch issued by Init
		ctx:     ctx,
		cancel:  cancel,
	}
}

// State exposes the state container
func (m Model) State() *state.State {
	return m.state
}

// Close stops the change feed subscription
func (m Model) Close() {
	m.cancel()
}

// Init fetches page 1 and, when enabled, subscribes to the change feed
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchPageCmd(m.state.Initial())}
	if m.opts.LiveRefresh {
		if sub, ok := m.svc.(Subscriber); ok {
			cmds = append(cmds, subscribeCmd(m.ctx, sub))
		}
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the panel and applies command results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.panel.SetWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case searchRequestedMsg:
		f := m.state.SearchStarted(msg.query)
		return m, m.search(f)

	case pageLoadedMsg:
		m.done()
		if next := m.state.FetchSucceeded(msg.fetch.Page, msg.page); next != nil {
			logging.Debug("Page out of range, clamping",
				zap.Int("requested", msg.fetch.Page),
				zap.Int("total_pages", m.state.TotalPages))
			m.panel.SetRecords(m.state.Records)
			return m, m.fetchPage(*next)
		}
		m.panel.SetRecords(m.state.Records)
		return m, nil

	case searchLoadedMsg:
		m.done()
		if !m.state.SearchSucceeded(msg.fetch, msg.page) {
			logging.Debug("Dropping stale search result",
				zap.String("query", msg.fetch.Query),
				zap.Int("page", msg.fetch.Page))
		}
		return m, nil

	case createdMsg:
		m.done()
		m.setStatus("Added "+msg.record.Summary(), false)
		return m, m.fetchPage(m.state.CreateSucceeded(msg.record))

	case updatedMsg:
		m.done()
		if m.state.UpdateSucceeded(msg.record) {
			m.panel.SetRecords(m.state.Records)
		}
		m.setStatus("Updated "+msg.record.Summary(), false)
		return m, nil

	case deletedMsg:
		m.done()
		m.setStatus("Deleted "+msg.record.Summary(), false)
		return m, m.fetchPage(m.state.DeleteSucceeded(msg.record))

	case errMsg:
		m.done()
		logging.Error("Operation failed", zap.String("operation", msg.op), zap.Error(msg.err))
		m.setStatus(fmt.Sprintf("%s failed: %s", msg.op, records.GetShortErrorMessage(msg.err)), true)
		return m, nil

	case subscribedMsg:
		m.sub = msg.sub
		logging.Info("Following change feed")
		return m, waitForEvent(msg.sub)

	case feedEventMsg:
		logging.Debug("Change feed event",
			zap.String("type", string(msg.event.Type)),
			zap.Int64("id", msg.event.ID))
		return m, tea.Batch(m.fetchPage(m.state.Refresh()), waitForEvent(m.sub))

	case feedClosedMsg:
		m.sub = nil
		switch {
		case msg.err == nil, errors.Is(msg.err, context.Canceled):
		case errors.Is(msg.err, records.ErrFeedUnsupported):
			logging.Info("Server has no change feed, live refresh off")
		default:
			logging.Warn("Change feed stopped", zap.Error(msg.err))
			m.setStatus("Live refresh stopped: "+records.GetShortErrorMessage(msg.err), true)
		}
		return m, nil
	}

	panel, req, cmd := m.panel.Update(msg, m.state)
	m.panel = panel
	return m.handleRequest(req, cmd)
}

// handleRequest turns a panel request into a state transition and the
// command it needs
func (m Model) handleRequest(req request, panelCmd tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch req.kind {
	case reqQuit:
		return m.quit()

	case reqPage:
		if f, ok := m.state.RequestPage(req.page); ok {
			cmd = m.fetchPage(f)
		}

	case reqRefresh:
		cmd = m.fetchPage(m.state.Refresh())

	case reqCreate:
		cmd = m.create(req.input)

	case reqUpdate:
		cmd = m.update(req.record, req.input)

	case reqDelete:
		cmd = m.remove(req.record)

	case reqSearchPage:
		if f, ok := m.state.RequestSearchPage(req.page); ok {
			cmd = m.search(f)
		}

	case reqSearchClose:
		m.state.SearchClosed()
	}

	return m, tea.Batch(panelCmd, cmd)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// done marks one call as finished. Responses are applied in arrival order.
func (m *Model) done() {
	if m.pending > 0 {
		m.pending--
	}
}

// requestContext bounds a call by the session and the request timeout
func (m Model) requestContext() (context.Context, context.CancelFunc) {
	if m.opts.RequestTimeout > 0 {
		return context.WithTimeout(m.ctx, m.opts.RequestTimeout)
	}
	return context.WithCancel(m.ctx)
}

func (m *Model) fetchPage(f state.Fetch) tea.Cmd {
	m.pending++
	return m.fetchPageCmd(f)
}

func (m Model) fetchPageCmd(f state.Fetch) tea.Cmd {
	svc := m.svc
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		page, err := svc.FetchPage(ctx, f.Index(), f.Size)
		if err != nil {
			return errMsg{op: "Load page", err: err}
		}
		return pageLoadedMsg{fetch: f, page: page}
	}
}

func (m *Model) search(f state.SearchFetch) tea.Cmd {
	m.pending++
	svc := m.svc
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		page, err := svc.Search(ctx, f.Query, f.Index(), f.Size)
		if err != nil {
			return errMsg{op: "Search", err: err}
		}
		return searchLoadedMsg{fetch: f, page: page}
	}
}

func (m *Model) create(in records.Input) tea.Cmd {
	m.pending++
	svc := m.svc
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		rec, err := svc.Create(ctx, in)
		if err != nil {
			return errMsg{op: "Add", err: err}
		}
		return createdMsg{record: *rec}
	}
}

func (m *Model) update(previous records.Record, in records.Input) tea.Cmd {
	m.pending++
	svc := m.svc
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		rec, err := svc.Update(ctx, previous.ID, in)
		if err != nil {
			return errMsg{op: "Update", err: err}
		}
		return updatedMsg{previous: previous, record: *rec}
	}
}

func (m *Model) remove(target records.Record) tea.Cmd {
	m.pending++
	svc := m.svc
	ctx, cancel := m.requestContext()
	return func() tea.Msg {
		defer cancel()
		rec, err := svc.Delete(ctx, target.ID)
		if err != nil {
			return errMsg{op: "Delete", err: err}
		}
		if rec == nil {
			rec = &target
		}
		return deletedMsg{record: *rec}
	}
}

func subscribeCmd(ctx context.Context, s Subscriber) tea.Cmd {
	return func() tea.Msg {
		sub, err := s.Subscribe(ctx)
		if err != nil {
			return feedClosedMsg{err: err}
		}
		return subscribedMsg{sub: sub}
	}
}

// waitForEvent blocks on the next change feed event
func waitForEvent(sub *records.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-sub.Events
		if !ok {
			return feedClosedMsg{err: sub.Err()}
		}
		return feedEventMsg{event: ev}
	}
}

// View renders the screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.panel.mode == modeConfirmDelete {
		return RenderModal(m.panel.ConfirmView(), m.Width, m.Height)
	}

	var b strings.Builder
	b.WriteString(m.panel.View(m.state))
	b.WriteString("\n")
	b.WriteString(m.statusLine())

	return RenderApplicationContainer(b.String(), m.panel.HelpView(), m.opts.Server, m.Width, m.Height)
}

func (m Model) statusLine() string {
	var parts []string
	if m.pending > 0 {
		parts = append(parts, m.spinner.View()+" Loading...")
	}
	if m.sub != nil {
		parts = append(parts, StatusSuccessStyle.Render("● live"))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, StatusErrorStyle.Render("✗ "+m.status))
		} else {
			parts = append(parts, StatusStyle.Render(m.status))
		}
	}
	return strings.Join(parts, "  ")
}

// Run starts the interactive program and blocks until the user quits
func Run(svc Service, opts Options) error {
	m := New(svc, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
