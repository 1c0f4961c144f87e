package conn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// closeGrace is how long a locally closed handle waits for the peer's close
// frame before the socket is torn down.
const closeGrace = 2 * time.Second

const notificationBuffer = 64

// ErrClosed is returned by Next once the handle has delivered its final
// notification.
var ErrClosed = errors.New("connection closed")

// Kind identifies a transport notification.
type Kind int

const (
	Opened Kind = iota
	Message
	Closed
	Errored
)

func (k Kind) String() string {
	switch k {
	case Opened:
		return "opened"
	case Message:
		return "message"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Notification is one lifecycle event delivered by a live handle.
type Notification struct {
	Kind Kind
	Data []byte // Message only
	Code int    // Closed only
	Err  error  // Errored only
}

// Handle is an opaque reference to one live transport. Its identity is the
// ID; two handles are the same connection only if they are the same pointer.
type Handle struct {
	id        string
	address   string
	transport Transport

	notes chan Notification
	stop  chan struct{}
	done  chan struct{}

	closing   atomic.Bool
	closeOnce sync.Once
}

func newHandle(address string, t Transport) *Handle {
	h := &Handle{
		id:        uuid.NewString(),
		address:   address,
		transport: t,
		notes:     make(chan Notification, notificationBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go h.readPump()
	return h
}

// ID returns the handle's unique identity.
func (h *Handle) ID() string { return h.id }

// Address returns the address the handle was dialed with.
func (h *Handle) Address() string { return h.address }

// Done is closed once the transport has terminated and the final
// notification has been queued.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) String() string {
	return fmt.Sprintf("%s@%s", h.id[:8], h.address)
}

// Next blocks until the next notification, the end of the stream, or ctx is
// done.
func (h *Handle) Next(ctx context.Context) (Notification, error) {
	select {
	case n, ok := <-h.notes:
		if !ok {
			return Notification{}, ErrClosed
		}
		return n, nil
	case <-ctx.Done():
		return Notification{}, ctx.Err()
	}
}

// live reports whether the handle can still be handed out for reuse.
func (h *Handle) live() bool {
	if h.closing.Load() {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *Handle) emit(n Notification) {
	select {
	case h.notes <- n:
	case <-h.stop:
	}
}

func (h *Handle) readPump() {
	defer close(h.done)
	defer close(h.notes)
	defer h.transport.Close()

	h.emit(Notification{Kind: Opened})
	for {
		data, err := h.transport.ReadMessage()
		if err != nil {
			h.finish(err)
			return
		}
		h.emit(Notification{Kind: Message, Data: data})
	}
}

func (h *Handle) finish(err error) {
	var pc *PeerClosedError
	switch {
	case errors.As(err, &pc):
		h.final(Notification{Kind: Closed, Code: pc.Code})
	case h.closing.Load():
		h.final(Notification{Kind: Closed, Code: CodeNormalClosure})
	default:
		h.final(Notification{Kind: Errored, Err: err})
	}
}

// final queues the last notification without blocking the pump forever on a
// consumer that has gone away.
func (h *Handle) final(n Notification) {
	select {
	case h.notes <- n:
	default:
	}
}

// close requests termination: a close frame is sent and the socket is torn
// down after closeGrace if the peer does not answer.
func (h *Handle) close() {
	h.closeOnce.Do(func() {
		h.closing.Store(true)
		close(h.stop)
		if err := h.transport.WriteClose(CodeNormalClosure, ""); err != nil {
			h.transport.Close()
			return
		}
		time.AfterFunc(closeGrace, func() { h.transport.Close() })
	})
}
