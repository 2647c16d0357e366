package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactor/pkg/dom"
)

// Message types.
const (
	TypeHello     = "hello"
	TypeMutations = "mutations"
	TypeEvent     = "event"
	TypeError     = "error"
)

// Message is the JSON frame exchanged over /ws.
type Message struct {
	Type      string         `json:"type"`
	Client    string         `json:"client,omitempty"`
	Mutations []dom.Mutation `json:"mutations,omitempty"`
	HTML      string         `json:"html,omitempty"`
	Target    uint64         `json:"target,omitempty"`
	Event     string         `json:"event,omitempty"`
	Value     string         `json:"value,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// client is one WebSocket connection. Only writePump writes to conn.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// hub tracks connected clients and fans batches out to them.
type hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool

	writeTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics
}

func newHub(writeTimeout time.Duration, logger *slog.Logger, m *metrics) *hub {
	return &hub{
		clients:      make(map[uuid.UUID]*client),
		writeTimeout: writeTimeout,
		logger:       logger,
		metrics:      m,
	}
}

// add registers c and starts its writer. It reports false after close.
func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	h.metrics.clientAdded()
	go h.writePump(c)
	return true
}

// remove unregisters the client and closes its queue. Safe to call twice.
func (h *hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *hub) removeLocked(id uuid.UUID) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
	h.metrics.clientRemoved()
}

// Len returns the number of connected clients.
func (h *hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues msg for every client. Clients that cannot keep up are
// disconnected rather than blocking the update path.
func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode broadcast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("client too slow, disconnecting", "client", id)
			h.metrics.droppedClient()
			h.removeLocked(id)
		}
	}
	h.metrics.batch()
}

// sendTo queues msg for a single client.
func (h *hub) sendTo(id uuid.UUID, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.metrics.wsError("write")
			h.logger.Debug("websocket write failed", "client", c.id, "error", err)
			h.remove(c.id)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// close disconnects every client and rejects new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id := range h.clients {
		h.removeLocked(id)
	}
}
