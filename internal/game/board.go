package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// BoardSize is the number of cells on the board.
	BoardSize = 9
)

// ErrInvalidIndex is returned when a cell index falls outside [0, BoardSize).
var ErrInvalidIndex = errors.New("invalid cell index")

// WinCombos lists the eight lines that win the round, in evaluation order.
var WinCombos = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Board is the 3x3 grid stored row by row: row = i / 3, column = i % 3.
type Board [BoardSize]PlayerMark

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// ValidateIndex reports ErrInvalidIndex for cells outside the board.
func ValidateIndex(cell int) error {
	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidIndex, cell)
	}
	return nil
}

// CheckWinner returns the first line fully occupied by mark.
func CheckWinner(board Board, mark PlayerMark) ([3]int, bool) {
	if mark == None {
		return [3]int{}, false
	}
	for _, combo := range WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return combo, true
		}
	}
	return [3]int{}, false
}

// IsBoardFull checks if every cell is occupied.
func IsBoardFull(board Board) bool {
	for _, cell := range board {
		if cell == None {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of the unoccupied cells in ascending order.
func EmptyCells(board Board) []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}
