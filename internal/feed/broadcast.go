package feed

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	// Channel closed: say goodbye politely.
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"),
		time.Now().Add(writeWait))
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans frames out to every connected viewer.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

// NewBroadcaster creates a broadcaster with no clients.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*client]bool)}
}

// AddClient registers conn and starts its write pump. Pass the returned
// client to RemoveClient once the viewer goes away.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()
	return c
}

// RemoveClient unregisters c and stops its write pump. Removing a client
// twice is a no-op.
func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// Broadcast queues data for every client. Clients that cannot keep up are
// disconnected.
func (b *Broadcaster) Broadcast(data []byte) {
	// Sends never block, so they happen under the read lock; that keeps
	// RemoveClient from closing a channel mid-send.
	var slow []*client
	b.mu.RLock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	b.mu.RUnlock()

	for _, c := range slow {
		log.Printf("feed client %s too slow, disconnecting", c.id[:8])
		b.RemoveClient(c)
	}
}

// CloseAll disconnects every client.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
}

// ClientCount returns the number of connected viewers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
