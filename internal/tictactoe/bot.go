package tictactoe

import "github.com/rocketscienceinc/tictactoe/internal/entity"

const centerCell = 4

var cornerCells = [4]int{0, 2, 6, 8}

// ChooseCell picks the AI's next cell with a fixed rule order:
// win, block, center, first free corner, first free cell.
// It returns false only when the board is full.
func ChooseCell(board entity.Board, ai entity.Player) (int, bool) {
	if cell, ok := findWinningMove(board, ai); ok {
		return cell, true
	}

	if cell, ok := findWinningMove(board, ai.Opponent()); ok {
		return cell, true
	}

	if board[centerCell].IsEmpty() {
		return centerCell, true
	}

	for _, cell := range cornerCells {
		if board[cell].IsEmpty() {
			return cell, true
		}
	}

	for cell, mark := range board {
		if mark.IsEmpty() {
			return cell, true
		}
	}

	return 0, false
}

// findWinningMove - returns the free cell of the first line where player already holds the other two.
func findWinningMove(board entity.Board, player entity.Player) (int, bool) {
	for _, line := range entity.Lines {
		owned, free := 0, -1

		for _, cell := range line {
			switch board[cell] {
			case player:
				owned++
			case entity.EmptyCell:
				free = cell
			}
		}

		if owned == 2 && free >= 0 {
			return free, true
		}
	}

	return 0, false
}
