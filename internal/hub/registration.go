package hub

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type registration struct {
	client  *Client
	initial []byte
}

// Register adds c to its session. initial, when not nil, is queued to c
// before any later broadcast.
func (h *Hub) Register(ctx context.Context, c *Client, initial []byte) error {
	_, span := tracer.Start(ctx, "hub.Register", trace.WithAttributes(
		attribute.String("client.id", c.ID),
		attribute.String("session.id", c.SessionID),
	))
	defer span.End()

	select {
	case h.register <- &registration{client: c, initial: initial}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister removes c and closes its Send channel. It is safe to call more
// than once and after the hub stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(reg *registration) {
	c := reg.client
	clients, ok := h.sessions[c.SessionID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.sessions[c.SessionID] = clients
	}
	clients[c] = struct{}{}
	slog.Info("Client registered", "client.id", c.ID, "session.id", c.SessionID, "session.clients", len(clients))

	if reg.initial != nil {
		h.trySend(c, reg.initial)
	}
}
