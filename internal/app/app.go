package app

import (
	"context"
	"log"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/padview/padview/internal/config"
	"github.com/padview/padview/internal/conn"
	"github.com/padview/padview/internal/effect"
	"github.com/padview/padview/internal/session"
	"github.com/padview/padview/internal/theme"
	"github.com/padview/padview/internal/views/debug"
	"github.com/padview/padview/internal/views/help"
	"github.com/padview/padview/internal/views/pad"
	"github.com/padview/padview/internal/views/status"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
	OverlayHelp
)

// Model is the root Bubble Tea model. It owns the session and feeds every
// event through the coordinator, so Update is the only place the session
// changes.
type Model struct {
	coord  *effect.Coordinator
	ctx    context.Context
	cancel context.CancelFunc

	keys        KeyMap
	width       int
	height      int
	autoConnect bool

	session session.Session

	// Counters for the status bar.
	received int
	rejected int

	overlay Overlay

	// Sub-views.
	input     textinput.Model
	spinner   spinner.Model
	shortHelp bhelp.Model
	statusBar status.Model
	pad       pad.Model
	events    debug.Model
	manual    help.Model
}

// New creates the root model. Its commands stop waiting once ctx is done.
// The address input starts with cfg.URL; when autoConnect is set and the
// address is not empty, Init connects right away.
func New(ctx context.Context, mgr *conn.Manager, cfg config.ViewerConfig, autoConnect bool) Model {
	ctx, cancel := context.WithCancel(ctx)
	keys := DefaultKeyMap()

	ti := textinput.New()
	ti.Placeholder = config.DefaultAddress
	ti.Prompt = "address ❯ "
	ti.CharLimit = 2048
	ti.Width = 60
	ti.SetValue(cfg.URL)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorAwaiting)

	s := session.Transition(session.New(), session.AddressChanged{Text: cfg.URL})

	m := Model{
		coord:       effect.New(ctx, mgr),
		ctx:         ctx,
		cancel:      cancel,
		keys:        keys,
		autoConnect: autoConnect,
		session:     s,
		input:       ti,
		spinner:     sp,
		shortHelp:   bhelp.New(),
		statusBar:   status.New(),
		pad:         pad.New(cfg.Smoothing.FPS, cfg.Smoothing.Frequency, cfg.Smoothing.Damping),
		events:      debug.New(),
		manual:      help.New("dark", keys.HelpRows()),
	}
	m.syncStatus()
	return m
}

// Init starts the cursor blink and, if requested, the first connection.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.autoConnect && m.session.Address != "" {
		cmds = append(cmds, func() tea.Msg {
			return effect.EventMsg{Event: session.ConnectRequested{}}
		})
	}
	return tea.Batch(cmds...)
}

// Session returns the current session.
func (m Model) Session() session.Session { return m.session }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.pad.Width = msg.Width
		m.shortHelp.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 20)
		m.manual.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case effect.EventMsg:
		return m.dispatch(msg.Event)

	case effect.NotificationMsg:
		if msg.Note.Kind == conn.Opened {
			m.events.Add(debug.KindConn, "opened %s", msg.Handle)
		}
		ev, cmd := m.coord.Notify(m.session, msg)
		if ev == nil {
			return m, cmd
		}
		next, evCmd := m.dispatch(ev)
		return next, tea.Batch(cmd, evCmd)

	case spinner.TickMsg:
		if _, ok := m.session.Phase.(session.Awaiting); !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.syncStatus()
		return m, cmd

	case pad.FrameMsg:
		var cmd tea.Cmd
		m.pad, cmd = m.pad.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch applies e to the session and records what happened.
func (m Model) dispatch(e session.Event) (Model, tea.Cmd) {
	prev := m.session
	next, effectCmd := m.coord.Apply(prev, e)
	m.session = next
	cmds := []tea.Cmd{effectCmd}

	switch e := e.(type) {
	case session.PayloadReceived:
		if e.Err != nil {
			m.rejected++
			log.Printf("decode error: %v", e.Err)
			m.events.Add(debug.KindDecode, "%v", e.Err)
		} else {
			m.received++
			cmds = append(cmds, m.pad.SetSnapshot(next.Snapshot))
		}
	case session.AddressChanged:
	default:
		if !session.Accepted(prev, next, e) {
			m.events.Add(debug.KindIgnored, "%s ignored while %s", session.EventName(e), prev.Phase.Kind())
		}
	}

	if !session.SamePhase(prev.Phase, next.Phase) {
		m.events.Add(debug.KindPhase, "%s -> %s", prev.Phase.Kind(), next.Phase.Kind())
		switch p := next.Phase.(type) {
		case session.Awaiting:
			cmds = append(cmds, m.spinner.Tick)
		case session.Failed:
			m.events.Add(debug.KindError, "%s", p.Reason)
		}
	}

	m.syncStatus()
	return m, tea.Batch(cmds...)
}

func (m *Model) syncStatus() {
	m.statusBar.Phase = m.session.Phase.Kind().String()
	m.statusBar.Address = m.session.Address
	if h := session.HandleOf(m.session.Phase); h != nil {
		m.statusBar.Address = h.Address()
	}
	m.statusBar.Reason = ""
	if f, ok := m.session.Phase.(session.Failed); ok {
		m.statusBar.Reason = f.Reason
	}
	m.statusBar.Spinner = m.spinner.View()
	m.statusBar.SetCounts(m.received, m.rejected)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, m.coord.Quit(m.session)
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Help):
			m.overlay = toggle(m.overlay, OverlayHelp)
		case key.Matches(msg, m.keys.Debug):
			m.overlay = toggle(m.overlay, OverlayDebug)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.ScrollUp):
			m.events.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.ScrollDown):
			m.events.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Connect):
		return m.dispatch(session.ConnectRequested{})

	case key.Matches(msg, m.keys.Disconnect):
		return m.dispatch(session.DisconnectRequested{})

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		next, evCmd := m.dispatch(session.AddressChanged{Text: after})
		return next, tea.Batch(cmd, evCmd)
	}
	return m, cmd
}

func toggle(current, target Overlay) Overlay {
	if current == target {
		return OverlayNone
	}
	return target
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayDebug:
		return m.events.View(m.width, m.height)
	case OverlayHelp:
		return m.manual.View(m.width)
	}

	sections := []string{
		m.statusBar.View(),
		" " + m.input.View(),
		"",
		m.pad.View(),
		"",
		" " + m.shortHelp.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
