// Package effect bridges the pure session model to the connection manager.
// It looks at each transition, and only when the phase actually changed does
// it return the Bubble Tea commands that open, listen on or close the
// connection. Command results come back into the program as messages.
package effect

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/padview/padview/internal/conn"
	"github.com/padview/padview/internal/controller"
	"github.com/padview/padview/internal/session"
)

// --- Bubble Tea messages ---

// EventMsg delivers a session event produced by a command.
type EventMsg struct{ Event session.Event }

// NotificationMsg delivers one notification read from a handle.
type NotificationMsg struct {
	Handle *conn.Handle
	Note   conn.Notification
}

// Coordinator owns the manager on behalf of the session. All of its calls
// into the manager happen inside commands, never inline in Update.
type Coordinator struct {
	ctx context.Context
	mgr *conn.Manager
}

// New creates a coordinator. ctx bounds every dial and read it starts.
func New(ctx context.Context, mgr *conn.Manager) *Coordinator {
	return &Coordinator{ctx: ctx, mgr: mgr}
}

// Apply runs the transition for e and returns the new session together with
// whatever command the phase change requires.
func (c *Coordinator) Apply(s session.Session, e session.Event) (session.Session, tea.Cmd) {
	next := session.Transition(s, e)
	return next, c.React(s, next, e)
}

// React compares the phase before and after e and returns the side effect
// for the phase that was entered. Nothing is returned when the phase did not
// change.
func (c *Coordinator) React(prev, next session.Session, e session.Event) tea.Cmd {
	var cmds []tea.Cmd

	// A success the machine ignored still owns a live socket; close it so
	// it is never leaked.
	if ok, isSucc := e.(session.ConnectSucceeded); isSucc {
		if !session.SamePhase(next.Phase, session.Open{Handle: ok.Handle}) {
			if h := asConn(ok.Handle); h != nil && !sameConn(session.HandleOf(next.Phase), h) {
				log.Printf("effect: discarding stale connection %s", h)
				cmds = append(cmds, c.release(h))
			}
		}
	}

	if session.SamePhase(prev.Phase, next.Phase) {
		return tea.Batch(cmds...)
	}

	switch p := next.Phase.(type) {
	case session.Awaiting:
		cmds = append(cmds, c.open(next.Address))
	case session.Open:
		if h := asConn(p.Handle); h != nil {
			cmds = append(cmds, c.Listen(h))
		}
	case session.Closing:
		if h := asConn(p.Handle); h != nil {
			cmds = append(cmds, c.close(h))
		}
	case session.Idle, session.Failed:
		// Open → Failed happens when the peer went away; the registration
		// still has to be released.
		if prevOpen, ok := prev.Phase.(session.Open); ok {
			if h := asConn(prevOpen.Handle); h != nil {
				cmds = append(cmds, c.release(h))
			}
		}
	}
	return tea.Batch(cmds...)
}

// Notify turns a handle notification into the session event it implies, if
// any, and re-arms the listener while the handle is still the open one.
func (c *Coordinator) Notify(s session.Session, msg NotificationMsg) (session.Event, tea.Cmd) {
	current := session.HandleOf(s.Phase)
	if !sameConn(current, msg.Handle) {
		return nil, nil
	}
	_, open := s.Phase.(session.Open)
	_, closing := s.Phase.(session.Closing)

	switch msg.Note.Kind {
	case conn.Opened:
		log.Printf("ws opened: %s", msg.Handle.Address())
		if open {
			return nil, c.Listen(msg.Handle)
		}
		return nil, nil

	case conn.Message:
		if !open {
			return nil, nil
		}
		snap, err := controller.DecodeJSON(msg.Note.Data)
		return session.PayloadReceived{Snapshot: snap, Err: err}, c.Listen(msg.Handle)

	case conn.Closed:
		// While closing, the close command reports completion once Done fires.
		if closing {
			log.Printf("ws closed locally: %s", msg.Handle.Address())
			return nil, nil
		}
		log.Printf("ws closed: %s (code %d)", msg.Handle.Address(), msg.Note.Code)
		return session.ConnectionLost{
			Handle: msg.Handle,
			Reason: fmt.Sprintf("connection closed (code %d)", msg.Note.Code),
		}, nil

	case conn.Errored:
		log.Printf("ws read error: %v", msg.Note.Err)
		if closing {
			return nil, nil
		}
		return session.ConnectionLost{Handle: msg.Handle, Reason: msg.Note.Err.Error()}, nil
	}
	return nil, nil
}

// Listen returns a command that waits for the next notification on h.
func (c *Coordinator) Listen(h *conn.Handle) tea.Cmd {
	return func() tea.Msg {
		n, err := h.Next(c.ctx)
		if err != nil {
			if errors.Is(err, conn.ErrClosed) {
				return NotificationMsg{Handle: h, Note: conn.Notification{Kind: conn.Closed, Code: conn.CodeNoStatus}}
			}
			return nil
		}
		return NotificationMsg{Handle: h, Note: n}
	}
}

// Quit returns a command that closes the connection s holds, if any, and
// then quits the program, so the peer gets a close frame before exit.
func (c *Coordinator) Quit(s session.Session) tea.Cmd {
	h := asConn(session.HandleOf(s.Phase))
	return func() tea.Msg {
		if h != nil {
			c.mgr.Close(h)
		}
		return tea.QuitMsg{}
	}
}

func (c *Coordinator) open(address string) tea.Cmd {
	return func() tea.Msg {
		h, err := c.mgr.Open(c.ctx, address)
		if err != nil {
			log.Printf("ws dial error: %v", err)
			return EventMsg{Event: session.ConnectFailed{Reason: err.Error()}}
		}
		return EventMsg{Event: session.ConnectSucceeded{Handle: h}}
	}
}

func (c *Coordinator) close(h *conn.Handle) tea.Cmd {
	return func() tea.Msg {
		c.mgr.Close(h)
		select {
		case <-h.Done():
		case <-c.ctx.Done():
			return nil
		}
		return EventMsg{Event: session.CloseCompleted{Handle: h}}
	}
}

// release closes h without reporting back; the session has already moved
// past it.
func (c *Coordinator) release(h *conn.Handle) tea.Cmd {
	return func() tea.Msg {
		c.mgr.Close(h)
		return nil
	}
}

func asConn(h session.Handle) *conn.Handle {
	ch, _ := h.(*conn.Handle)
	return ch
}

func sameConn(h session.Handle, ch *conn.Handle) bool {
	if h == nil || ch == nil {
		return false
	}
	return h.ID() == ch.ID()
}
