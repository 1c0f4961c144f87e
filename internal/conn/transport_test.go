package conn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newEchoServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for _, f := range frames {
			if err := c.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Drain until the client closes; gorilla answers the close frame.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketDialerRoundTrip(t *testing.T) {
	srv := newEchoServer(t, `{"buttons":[],"sticks":[]}`)
	m := NewManager(WebSocketDialer{HandshakeTimeout: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, err := m.Open(ctx, wsURL(srv))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	n, err := h.Next(ctx)
	if err != nil || n.Kind != Opened {
		t.Fatalf("expected Opened, got %v / %v", n.Kind, err)
	}
	n, err = h.Next(ctx)
	if err != nil || n.Kind != Message {
		t.Fatalf("expected Message, got %v / %v", n.Kind, err)
	}
	if string(n.Data) != `{"buttons":[],"sticks":[]}` {
		t.Errorf("unexpected payload %q", n.Data)
	}

	m.Close(h)
	waitDone(t, h)
}

func TestWebSocketDialerRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := wsURL(srv)
	srv.Close()

	m := NewManager(WebSocketDialer{HandshakeTimeout: time.Second})
	_, err := m.Open(context.Background(), addr)
	if err == nil {
		t.Fatal("expected dial error")
	}
	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *ConnectError", err)
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"ws://127.0.0.1:8765", false},
		{"wss://homework.rain.gg:8765", false},
		{"", true},
		{"http://example.com", true},
		{"ws://", true},
		{"not a url", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		err := ValidateAddress(tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
		}
	}
}
