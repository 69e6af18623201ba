package hub

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
)

const (
	sendBufferSize      = 16
	broadcastBufferSize = 256
)

var (
	tracer = otel.Tracer("hub")

	ErrHubClosed = errors.New("hub is closed")
)

// outbound is a message for the clients of one session. A nil client means
// every client of the session.
type outbound struct {
	sessionID string
	client    *Client
	data      []byte
	close     bool
}

// Hub fans session events out to the WebSocket clients watching them.
// Only the Run goroutine touches the client sets and writes to Client.Send.
type Hub struct {
	sessions   map[string]map[*Client]struct{}
	register   chan *registration
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]struct{}),
		register:   make(chan *registration),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Run starts the hub. It returns once ctx is cancelled, after closing every
// client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	slog.InfoContext(ctx, "Hub started")

	for {
		select {
		case <-ctx.Done():
			for sessionID := range h.sessions {
				h.closeSession(sessionID)
			}
			slog.Info("Hub stopped")
			return

		case reg := <-h.register:
			h.handleRegister(reg)

		case c := <-h.unregister:
			h.removeClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg outbound) {
	clients := h.sessions[msg.sessionID]
	if msg.client != nil {
		if _, ok := clients[msg.client]; ok {
			h.trySend(msg.client, msg.data)
		}
		return
	}

	if msg.data != nil {
		for c := range clients {
			h.trySend(c, msg.data)
		}
	}
	if msg.close {
		h.closeSession(msg.sessionID)
	}
}

// trySend queues data for c, dropping the client when its buffer is full.
func (h *Hub) trySend(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		slog.Warn("Client send buffer full, dropping client", "client.id", c.ID, "session.id", c.SessionID)
		h.removeClient(c)
	}
}

func (h *Hub) removeClient(c *Client) {
	clients, ok := h.sessions[c.SessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.sessions, c.SessionID)
	}
	slog.Debug("Client removed", "client.id", c.ID, "session.id", c.SessionID)
}

func (h *Hub) closeSession(sessionID string) {
	for c := range h.sessions[sessionID] {
		close(c.Send)
	}
	delete(h.sessions, sessionID)
}
