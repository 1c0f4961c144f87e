// Package session is the pure model of one viewer session: the target
// address, the connection phase and the last good controller snapshot.
// Nothing in this package performs I/O.
package session

// Handle is the session's view of a live connection. The session only keeps
// a reference so that it can later ask for the connection to be closed.
type Handle interface {
	ID() string
	Address() string
}

// PhaseKind tags a Phase for rendering and comparisons.
type PhaseKind int

const (
	KindIdle PhaseKind = iota
	KindAwaiting
	KindOpen
	KindClosing
	KindFailed
)

var kindNames = map[PhaseKind]string{
	KindIdle:     "idle",
	KindAwaiting: "awaiting",
	KindOpen:     "open",
	KindClosing:  "closing",
	KindFailed:   "failed",
}

func (k PhaseKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Phase is the connection lifecycle state. It is a closed set: Idle,
// Awaiting, Open, Closing and Failed are the only implementations.
type Phase interface {
	Kind() PhaseKind
	phase()
}

// Idle means no attempt is in progress and no connection is held.
type Idle struct{}

// Awaiting means a connection attempt was requested and has not resolved.
type Awaiting struct{}

// Open holds the live connection.
type Open struct{ Handle Handle }

// Closing holds the connection until its close completes.
type Closing struct{ Handle Handle }

// Failed records why the last attempt failed.
type Failed struct{ Reason string }

func (Idle) Kind() PhaseKind     { return KindIdle }
func (Awaiting) Kind() PhaseKind { return KindAwaiting }
func (Open) Kind() PhaseKind     { return KindOpen }
func (Closing) Kind() PhaseKind  { return KindClosing }
func (Failed) Kind() PhaseKind   { return KindFailed }

func (Idle) phase()     {}
func (Awaiting) phase() {}
func (Open) phase()     {}
func (Closing) phase()  {}
func (Failed) phase()   {}

// HandleOf returns the handle carried by p, or nil when p carries none.
func HandleOf(p Phase) Handle {
	switch p := p.(type) {
	case Open:
		return p.Handle
	case Closing:
		return p.Handle
	default:
		return nil
	}
}

// SamePhase reports whether a and b are the same variant with the same
// payload. Handles compare by identity.
func SamePhase(a, b Phase) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Open, Closing:
		return sameHandle(HandleOf(a), HandleOf(b))
	case Failed:
		return a.Reason == b.(Failed).Reason
	default:
		return true
	}
}

func sameHandle(a, b Handle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}
