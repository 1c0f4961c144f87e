package session

import "github.com/padview/padview/internal/controller"

// Session is the authoritative viewer state.
type Session struct {
	Address  string
	Phase    Phase
	Snapshot controller.Snapshot
}

// New returns the startup session: Idle, no address, neutral snapshot.
func New() Session {
	return Session{
		Phase:    Idle{},
		Snapshot: controller.Initial(),
	}
}

// Transition computes the session that follows s after e. It is total and
// pure: events that are not valid in the current phase return s unchanged.
func Transition(s Session, e Event) Session {
	switch e := e.(type) {
	case AddressChanged:
		s.Address = e.Text

	case ConnectRequested:
		switch s.Phase.(type) {
		case Idle, Failed:
			s.Phase = Awaiting{}
		}

	case ConnectSucceeded:
		if _, ok := s.Phase.(Awaiting); ok && e.Handle != nil {
			s.Phase = Open{Handle: e.Handle}
		}

	case ConnectFailed:
		if _, ok := s.Phase.(Awaiting); ok {
			s.Phase = Failed{Reason: e.Reason}
		}

	case DisconnectRequested:
		if p, ok := s.Phase.(Open); ok {
			s.Phase = Closing{Handle: p.Handle}
		}

	case CloseCompleted:
		if p, ok := s.Phase.(Closing); ok {
			if e.Handle == nil || sameHandle(e.Handle, p.Handle) {
				s.Phase = Idle{}
			}
		}

	case ConnectionLost:
		switch p := s.Phase.(type) {
		case Open:
			if sameHandle(e.Handle, p.Handle) {
				s.Phase = Failed{Reason: e.Reason}
			}
		case Closing:
			if sameHandle(e.Handle, p.Handle) {
				s.Phase = Idle{}
			}
		}

	case PayloadReceived:
		if e.Err == nil {
			s.Snapshot = e.Snapshot
		}
	}
	return s
}

// Accepted reports whether e changed anything when moving from prev to next.
// The shell uses it to log stale events.
func Accepted(prev, next Session, e Event) bool {
	switch e := e.(type) {
	case AddressChanged:
		return true
	case PayloadReceived:
		return e.Err == nil
	default:
		return !SamePhase(prev.Phase, next.Phase)
	}
}
