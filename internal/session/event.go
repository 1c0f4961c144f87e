package session

import "github.com/padview/padview/internal/controller"

// Event is an input to Transition. User intents and transport results are
// both events; the set is closed.
type Event interface {
	event()
}

// AddressChanged carries the edited target address.
type AddressChanged struct{ Text string }

// ConnectRequested is the user asking to connect.
type ConnectRequested struct{}

// ConnectSucceeded carries the handle of a transport that became live.
type ConnectSucceeded struct{ Handle Handle }

// ConnectFailed carries a human-readable reason for a failed attempt.
type ConnectFailed struct{ Reason string }

// DisconnectRequested is the user asking to disconnect.
type DisconnectRequested struct{}

// CloseCompleted confirms that a transport terminated after a close request.
// A nil Handle matches whatever connection is closing.
type CloseCompleted struct{ Handle Handle }

// ConnectionLost reports that the peer closed or the socket failed without a
// local close request.
type ConnectionLost struct {
	Handle Handle
	Reason string
}

// PayloadReceived carries the decoder's verdict on one inbound frame.
type PayloadReceived struct {
	Snapshot controller.Snapshot
	Err      error
}

func (AddressChanged) event()      {}
func (ConnectRequested) event()    {}
func (ConnectSucceeded) event()    {}
func (ConnectFailed) event()       {}
func (DisconnectRequested) event() {}
func (CloseCompleted) event()      {}
func (ConnectionLost) event()      {}
func (PayloadReceived) event()     {}

// EventName returns a short label for logs.
func EventName(e Event) string {
	switch e.(type) {
	case AddressChanged:
		return "address_changed"
	case ConnectRequested:
		return "connect_requested"
	case ConnectSucceeded:
		return "connect_succeeded"
	case ConnectFailed:
		return "connect_failed"
	case DisconnectRequested:
		return "disconnect_requested"
	case CloseCompleted:
		return "close_completed"
	case ConnectionLost:
		return "connection_lost"
	case PayloadReceived:
		return "payload_received"
	default:
		return "unknown"
	}
}
