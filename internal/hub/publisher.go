package hub

import (
	"context"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ events.Publisher = (*Hub)(nil)

// Publish pushes a session event to the session's clients. State changes
// become a state message. A deleted session disconnects its clients.
func (h *Hub) Publish(ctx context.Context, evt events.Event) error {
	ctx, span := tracer.Start(ctx, "hub.Publish", trace.WithAttributes(
		attribute.String("event.type", evt.Type),
		attribute.String("session.id", evt.SessionID),
	))
	defer span.End()

	if h.stopped() {
		return ErrHubClosed
	}

	msg := outbound{sessionID: evt.SessionID}
	switch evt.Type {
	case events.StateChanged, events.ModeChanged:
		var state game.State
		if err := json.Unmarshal(evt.Payload, &state); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not unmarshal state payload")
			return fmt.Errorf("failed to unmarshal %s payload: %w", evt.Type, err)
		}
		data, err := json.Marshal(proto.NewStateMessage(state))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not marshal state message")
			return fmt.Errorf("failed to marshal state message: %w", err)
		}
		msg.data = data

	case events.SessionDeleted:
		msg.close = true

	default:
		return nil
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendTo queues data for a single client, e.g. an error reply.
func (h *Hub) SendTo(ctx context.Context, c *Client, data []byte) error {
	if h.stopped() {
		return ErrHubClosed
	}
	select {
	case h.broadcast <- outbound{sessionID: c.SessionID, client: c, data: data}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
