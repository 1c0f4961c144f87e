package conn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout     = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	defaultReadLimit = 1 << 20
)

// Close codes used on the wire.
const (
	CodeNormalClosure = websocket.CloseNormalClosure
	CodeNoStatus      = websocket.CloseNoStatusReceived
	CodeAbnormal      = websocket.CloseAbnormalClosure
)

// Transport is one live socket. ReadMessage is called from a single
// goroutine; WriteClose and Close may be called concurrently with it.
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteClose(code int, text string) error
	Close() error
}

// Dialer creates transports. It is the only way the manager reaches the
// network.
type Dialer interface {
	Dial(ctx context.Context, address string) (Transport, error)
}

// PeerClosedError is returned by ReadMessage when the peer sent a close frame.
type PeerClosedError struct {
	Code int
	Text string
}

func (e *PeerClosedError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("closed by peer (%d)", e.Code)
	}
	return fmt.Sprintf("closed by peer (%d): %s", e.Code, e.Text)
}

// WebSocketDialer dials ws:// and wss:// addresses with gorilla/websocket.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
	ReadLimit        int64
}

// Dial validates the address and performs the WebSocket handshake.
func (d WebSocketDialer) Dial(ctx context.Context, address string) (Transport, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = handshakeTimeout
	}
	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: timeout,
	}

	c, resp, err := dialer.DialContext(ctx, address, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake failed (%s): %w", resp.Status, err)
		}
		return nil, err
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	c.SetReadLimit(limit)

	return &wsTransport{conn: c}, nil
}

// ValidateAddress checks that address is an absolute ws:// or wss:// URL.
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("empty address")
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("malformed address: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported scheme %q (want ws or wss)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("address has no host")
	}
	return nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return nil, &PeerClosedError{Code: ce.Code, Text: ce.Text}
		}
		return nil, err
	}
	return data, nil
}

func (t *wsTransport) WriteClose(code int, text string) error {
	msg := websocket.FormatCloseMessage(code, text)
	return t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
