package game

import "math/rand/v2"

// Engine owns the board, turn, round status, score and mode of one table.
// It is not safe for concurrent use.
type Engine struct {
	board       Board
	turn        PlayerMark
	status      Status
	winner      PlayerMark
	winningLine [3]int
	score       Score
	mode        Mode

	intN             func(n int) int
	autoComputerMove bool
}

// State is a read-only copy of the engine for rendering.
type State struct {
	Board            Board      `json:"board"`
	Turn             PlayerMark `json:"turn"`
	Status           Status     `json:"status"`
	Winner           PlayerMark `json:"winner,omitempty"`
	WinningLine      []int      `json:"winning_line,omitempty"`
	Score            Score      `json:"score"`
	Mode             Mode       `json:"mode"`
	AwaitingComputer bool       `json:"awaiting_computer"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand makes the computer opponent draw from r.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.intN = r.IntN
	}
}

// WithMode sets the mode of the first round.
func WithMode(m Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithAutoComputerMove controls whether AttemptMove answers for O in
// single-player mode. Disable it when the caller paces the reply itself.
func WithAutoComputerMove(enabled bool) Option {
	return func(e *Engine) {
		e.autoComputerMove = enabled
	}
}

// NewEngine creates an engine in multiplayer mode with X to move.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mode:             ModeMultiplayer,
		intN:             rand.IntN,
		autoComputerMove: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// AttemptMove places the current turn's mark on cell.
// Moves on an occupied cell or after the round ended are ignored and report false.
func (e *Engine) AttemptMove(cell int) (bool, error) {
	if err := ValidateIndex(cell); err != nil {
		return false, err
	}
	if e.status != StatusInProgress || e.board[cell] != None {
		return false, nil
	}

	mark := e.turn
	e.board[cell] = mark

	if line, ok := CheckWinner(e.board, mark); ok {
		e.status = StatusWon
		e.winner = mark
		e.winningLine = line
		if mark == PlayerX {
			e.score.X++
		} else {
			e.score.O++
		}
		return true, nil
	}

	if IsBoardFull(e.board) {
		e.status = StatusDraw
		return true, nil
	}

	e.turn = mark.Opponent()

	if e.autoComputerMove && e.AwaitingComputer() {
		e.ComputerMove()
	}
	return true, nil
}

// ComputerMove plays O on a uniformly random empty cell. It does nothing
// unless the engine is in single-player mode and waiting for O.
func (e *Engine) ComputerMove() (int, bool) {
	if !e.AwaitingComputer() {
		return -1, false
	}
	cell, ok := RandomMove(e.board, e.intN)
	if !ok {
		return -1, false
	}
	applied, err := e.AttemptMove(cell)
	if err != nil || !applied {
		return -1, false
	}
	return cell, true
}

// Reset clears the board for a new round. Score and mode are kept.
func (e *Engine) Reset() {
	e.board = Board{}
	e.turn = PlayerX
	e.status = StatusInProgress
	e.winner = None
	e.winningLine = [3]int{}
}

// SetMode switches the mode and always starts a new round.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
	e.Reset()
}

// AwaitingComputer reports whether the computer opponent is due to move.
func (e *Engine) AwaitingComputer() bool {
	return e.mode == ModeSinglePlayer && e.turn == PlayerO && e.status == StatusInProgress
}

func (e *Engine) Board() Board       { return e.board }
func (e *Engine) Turn() PlayerMark   { return e.turn }
func (e *Engine) Status() Status     { return e.status }
func (e *Engine) Winner() PlayerMark { return e.winner }
func (e *Engine) Score() Score       { return e.score }
func (e *Engine) Mode() Mode         { return e.mode }

// WinningLine returns the completed line while the round is won.
func (e *Engine) WinningLine() ([3]int, bool) {
	if e.status != StatusWon {
		return [3]int{}, false
	}
	return e.winningLine, true
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	s := State{
		Board:            e.board,
		Turn:             e.turn,
		Status:           e.status,
		Winner:           e.winner,
		Score:            e.score,
		Mode:             e.mode,
		AwaitingComputer: e.AwaitingComputer(),
	}
	if line, ok := e.WinningLine(); ok {
		s.WinningLine = line[:]
	}
	return s
}
