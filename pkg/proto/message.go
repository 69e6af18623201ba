package proto

import "ctchen222/tictactoe/internal/game"

// Client message types
const (
	TypeMove         = "move"
	TypeComputerMove = "computer_move"
	TypeReset        = "reset"
	TypeMode         = "mode"
)

// Server message types
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type string `json:"type" validate:"required,oneof=move computer_move reset mode"`
	Cell *int   `json:"cell,omitempty" validate:"required_if=Type move"`
	Mode string `json:"mode,omitempty" validate:"required_if=Type mode"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string      `json:"type" validate:"required"`
	Reason string      `json:"reason,omitempty"`
	State  *game.State `json:"state,omitempty"`
}

// NewStateMessage wraps a snapshot for the client.
func NewStateMessage(state game.State) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeState, State: &state}
}

// NewErrorMessage reports a rejected request to its sender.
func NewErrorMessage(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}
