// Package conn owns the single live telemetry connection. The Manager maps
// one address to at most one handle; opening the same address again while
// the handle is live returns that handle instead of dialing twice.
package conn

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// ConnectError reports a failed attempt to create a transport.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Manager holds the address→handle registration.
type Manager struct {
	dialer Dialer

	mu      sync.Mutex
	address string
	current *Handle
	pending *dial
}

// dial is an attempt in progress. Callers opening the same address wait on
// done and share its result.
type dial struct {
	address string
	done    chan struct{}
	h       *Handle
	err     error
}

// NewManager creates a manager that dials through d.
func NewManager(d Dialer) *Manager {
	return &Manager{dialer: d}
}

// Open returns the registered handle when address matches it and it is still
// live. Otherwise the old registration is dropped (the caller stays
// responsible for closing that handle) and a new transport is dialed. On
// failure nothing is registered.
//
// The lock is not held while dialing. A dial overtaken by an Open for another
// address still returns its handle, but that handle is never registered.
func (m *Manager) Open(ctx context.Context, address string) (*Handle, error) {
	m.mu.Lock()
	if m.current != nil && m.address == address && m.current.live() {
		h := m.current
		m.mu.Unlock()
		return h, nil
	}
	if p := m.pending; p != nil && p.address == address {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.h, p.err
		case <-ctx.Done():
			return nil, &ConnectError{Address: address, Err: ctx.Err()}
		}
	}
	m.current, m.address = nil, ""
	p := &dial{address: address, done: make(chan struct{})}
	m.pending = p
	m.mu.Unlock()

	t, err := m.dialer.Dial(ctx, address)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer close(p.done)
	superseded := m.pending != p
	if !superseded {
		m.pending = nil
	}
	if err != nil {
		p.err = &ConnectError{Address: address, Err: err}
		return nil, p.err
	}

	p.h = newHandle(address, t)
	if superseded {
		log.Printf("conn: %s dialed after being replaced, not registering", p.h)
		return p.h, nil
	}
	m.current, m.address = p.h, address
	log.Printf("conn: registered %s", p.h)
	return p.h, nil
}

// Close asks the handle's transport to terminate and releases its
// registration. It does not wait; Handle.Done signals completion.
func (m *Manager) Close(h *Handle) {
	if h == nil {
		return
	}
	m.mu.Lock()
	if m.current == h {
		m.current, m.address = nil, ""
	}
	m.mu.Unlock()

	h.close()
}

// Registered returns the currently registered address and handle, if any.
func (m *Manager) Registered() (string, *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.address, m.current
}
