package game

import "math/rand/v2"

// RandomMove picks an empty cell uniformly at random.
// It returns -1 and false when the board is full.
func RandomMove(board Board, intN func(n int) int) (int, bool) {
	availableMoves := EmptyCells(board)
	if len(availableMoves) == 0 {
		return -1, false
	}
	if intN == nil {
		intN = rand.IntN
	}
	return availableMoves[intN(len(availableMoves))], true
}
