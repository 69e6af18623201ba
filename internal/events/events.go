package events

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"errors"
	"fmt"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	SessionCreated = "session_created"
	StateChanged   = "state_changed"
	ModeChanged    = "mode_changed"
	RoundFinished  = "round_finished"
	SessionDeleted = "session_deleted"
)

// Event represents a change to one session.
type Event struct {
	Type      string          `json:"event"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// RoundFinishedPayload is the payload for the "round_finished" event.
type RoundFinishedPayload struct {
	Status game.Status     `json:"status"`
	Winner game.PlayerMark `json:"winner,omitempty"`
	Line   []int           `json:"line,omitempty"`
	Score  game.Score      `json:"score"`
	Mode   game.Mode       `json:"mode"`
}

// New builds an event with a JSON encoded payload.
func New(eventType, sessionID string, payload any) (Event, error) {
	evt := Event{Type: eventType, SessionID: sessionID}
	if payload == nil {
		return evt, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	evt.Payload = raw
	return evt, nil
}

//go:generate mockgen -source=events.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher delivers session events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// MultiPublisher dispatches events to several publishers.
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

// Publish sends evt to every publisher, even when an earlier one fails.
func (m *MultiPublisher) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
