package models

import "ctchen222/tictactoe/internal/game"

// MoveRequest defines the structure for a move request.
type MoveRequest struct {
	Cell *int `json:"cell" binding:"required"`
}

// ModeRequest defines the structure for a mode change request.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// CreateSessionResponse is returned when a new session starts. Token
// authorizes every later request on the session.
type CreateSessionResponse struct {
	SessionID string     `json:"session_id"`
	Token     string     `json:"token"`
	State     game.State `json:"state"`
}
