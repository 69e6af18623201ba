package game

import (
	"errors"
	"fmt"
)

// Mode selects who plays O.
type Mode string

// Status is the state of the current round.
type Status string

const (
	ModeMultiplayer  Mode = "multiplayer"
	ModeSinglePlayer Mode = "single_player"

	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

// ErrInvalidMode is returned for mode names other than multiplayer and single_player.
var ErrInvalidMode = errors.New("invalid game mode")

// ParseMode maps the selector values to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMultiplayer, ModeSinglePlayer:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// IsTerminal reports whether the round has ended.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

// Score counts rounds won by each side for the lifetime of an engine.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}
