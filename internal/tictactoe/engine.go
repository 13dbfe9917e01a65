package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// aiPlayer is the mark the computer plays in PVAI mode.
const aiPlayer = entity.PlayerO

// Engine owns the state of a single game. Every exported method runs under one
// lock, so a move together with the AI reply is applied atomically.
type Engine struct {
	mu sync.Mutex

	board         entity.Board
	currentPlayer entity.Player
	status        entity.Status
	winningLine   *entity.Line
	mode          entity.Mode
}

func NewEngine(mode entity.Mode) (*Engine, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	engine := &Engine{mode: mode}
	engine.reset()

	return engine, nil
}

// ValidateMove - checks if the current player may take the cell. It never changes state.
func (that *Engine) ValidateMove(cell int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.validateMove(cell)
}

// MakeMove - places the current player's mark, evaluates the board and, in
// PVAI mode, lets the AI answer as O. It returns the player who made the
// requested move; the AI reply is visible only through the board.
func (that *Engine) MakeMove(cell int) (entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.validateMove(cell); err != nil {
		return "", err
	}

	previous := that.currentPlayer
	if that.applyMove(cell) {
		return previous, nil
	}

	if that.mode == entity.ModePVAI && that.currentPlayer == aiPlayer {
		if aiCell, ok := ChooseCell(that.board, aiPlayer); ok {
			that.applyMove(aiCell)
		}
	}

	return previous, nil
}

// Reset - starts a new game in the current mode.
func (that *Engine) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()
}

// SetMode - switches the mode and always starts a new game.
func (that *Engine) SetMode(next entity.Mode) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !next.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMode, next)
	}

	that.mode = next
	that.reset()

	return nil
}

// State returns a copy of the game that shares nothing with the engine.
func (that *Engine) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.GameState{
		Board:         that.board,
		CurrentPlayer: that.currentPlayer,
		Status:        that.status,
		WinningLine:   copyLine(that.winningLine),
		Mode:          that.mode,
	}
}

func (that *Engine) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

func (that *Engine) CurrentPlayer() entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.currentPlayer
}

func (that *Engine) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Engine) WinningLine() *entity.Line {
	that.mu.Lock()
	defer that.mu.Unlock()

	return copyLine(that.winningLine)
}

func (that *Engine) Mode() entity.Mode {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mode
}

// validateMove - checks if the move is valid.
func (that *Engine) validateMove(cell int) error {
	if that.status.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidCell, cell)
	}

	if !that.board[cell].IsEmpty() {
		return fmt.Errorf("%w: %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// applyMove - marks the cell for the current player and reports whether the game ended.
func (that *Engine) applyMove(cell int) bool {
	that.board[cell] = that.currentPlayer

	if that.updateGameStatus() {
		return true
	}

	that.currentPlayer = that.currentPlayer.Opponent()

	return false
}

// updateGameStatus - checks the game status after a move.
func (that *Engine) updateGameStatus() bool {
	status, line := that.board.Result()
	if !status.IsTerminal() {
		return false
	}

	that.status = status
	that.winningLine = line

	return true
}

func (that *Engine) reset() {
	that.board = entity.Board{}
	that.currentPlayer = entity.PlayerX
	that.status = entity.StatusInProgress
	that.winningLine = nil
}

func copyLine(line *entity.Line) *entity.Line {
	if line == nil {
		return nil
	}

	copied := *line
	return &copied
}
