package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusWinX       Status = "WIN_X"
	StatusWinO       Status = "WIN_O"
	StatusDraw       Status = "DRAW"
)

func (that Status) IsTerminal() bool {
	return that != StatusInProgress
}

type Mode string

const (
	ModePVP  Mode = "PVP"
	ModePVAI Mode = "PVAI"
)

func (that Mode) IsValid() bool {
	return that == ModePVP || that == ModePVAI
}

// ParseMode accepts a mode name in any letter case.
func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToUpper(strings.TrimSpace(value)))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, value)
	}
	return mode, nil
}

const BoardSize = 9

// Board is laid out row-major: 0,1,2 / 3,4,5 / 6,7,8.
type Board [BoardSize]Player

// Line is an index triple that wins when all three cells hold the same mark.
type Line [3]int

// Lines are scanned in this order; the first complete line is reported as the winner.
var Lines = [8]Line{
	// rows
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	// columns
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	// diagonals
	{0, 4, 8},
	{2, 4, 6},
}

// IsFull reports whether no empty cell is left.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

// Result returns the terminal status of the board and the winning line, if any.
// A nil line with StatusInProgress means the game goes on.
func (that Board) Result() (Status, *Line) {
	for _, line := range Lines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if !a.IsEmpty() && a == b && b == c {
			winning := line
			return a.winStatus(), &winning
		}
	}

	if that.IsFull() {
		return StatusDraw, nil
	}

	return StatusInProgress, nil
}

// IsValidCell reports whether index addresses a cell on the board.
func IsValidCell(index int) bool {
	return index >= 0 && index < BoardSize
}

// ParseCell converts user input into a cell index, rejecting non-integers and
// values outside the board.
func ParseCell(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidCell, value)
	}

	if !IsValidCell(index) {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidCell, index)
	}

	return index, nil
}

// GameState is a point-in-time copy of a game.
type GameState struct {
	Board         Board  `json:"board"`
	CurrentPlayer Player `json:"currentPlayer"`
	Status        Status `json:"status"`
	WinningLine   *Line  `json:"winningLine"`
	Mode          Mode   `json:"mode"`
}

// AsMap renders the state as loosely typed key-value data, the shape audit
// entries carry.
func (that GameState) AsMap() map[string]any {
	board := make([]string, len(that.Board))
	for i, cell := range that.Board {
		board[i] = string(cell)
	}

	var line []int
	if that.WinningLine != nil {
		line = []int{that.WinningLine[0], that.WinningLine[1], that.WinningLine[2]}
	}

	return map[string]any{
		"board":         board,
		"currentPlayer": string(that.CurrentPlayer),
		"status":        string(that.Status),
		"winningLine":   line,
		"mode":          string(that.Mode),
	}
}
