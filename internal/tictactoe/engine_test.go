package tictactoe

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, mode entity.Mode) *Engine {
	t.Helper()

	engine, err := NewEngine(mode)
	require.NoError(t, err)

	return engine
}

func playMoves(t *testing.T, engine *Engine, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		_, err := engine.MakeMove(cell)
		require.NoError(t, err, "move %d", cell)
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("Starts an empty game with X to move", func(t *testing.T) {
		// When: a new engine is created
		engine := newTestEngine(t, entity.ModePVP)

		// Then: the state matches the initial state
		expected := entity.GameState{
			Board:         entity.Board{},
			CurrentPlayer: entity.PlayerX,
			Status:        entity.StatusInProgress,
			WinningLine:   nil,
			Mode:          entity.ModePVP,
		}

		require.Equal(t, expected, engine.State())
	})

	t.Run("Rejects an unknown mode", func(t *testing.T) {
		// When: an engine is created with an unknown mode
		engine, err := NewEngine("HARD")

		// Then: a range error is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMode)
		require.ErrorIs(t, err, apperror.ErrOutOfRange)
		assert.Nil(t, engine)
	})
}

func TestEngine_MakeMove(t *testing.T) {
	t.Run("Places the mark and passes the turn", func(t *testing.T) {
		// Given: a new PVP game
		engine := newTestEngine(t, entity.ModePVP)

		// When: X plays the first cell
		previous, err := engine.MakeMove(0)
		require.NoError(t, err)

		// Then: X is reported and it is O's turn
		assert.Equal(t, entity.PlayerX, previous)
		assert.Equal(t, entity.Board{x, e, e, e, e, e, e, e, e}, engine.Board())
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
		assert.Equal(t, entity.StatusInProgress, engine.Status())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X has taken cell 0
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0)
		before := engine.State()

		// When: O tries the same cell
		_, err := engine.MakeMove(0)

		// Then: ErrCellOccupied is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.Equal(t, before, engine.State())
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		for _, cell := range []int{-1, 9, 20} {
			// Given: a new game
			engine := newTestEngine(t, entity.ModePVP)
			before := engine.State()

			// When: a cell outside the board is played
			_, err := engine.MakeMove(cell)

			// Then: a range error is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrInvalidCell)
			require.ErrorIs(t, err, apperror.ErrOutOfRange)
			require.Equal(t, before, engine.State())
		}
	})

	t.Run("Detects a win in the first column", func(t *testing.T) {
		// Given: a new PVP game
		engine := newTestEngine(t, entity.ModePVP)

		// When: X completes column 0
		playMoves(t, engine, 0, 1, 3, 2, 6)

		// Then: X wins with line 0,3,6 and the turn is not passed
		assert.Equal(t, entity.StatusWinX, engine.Status())
		require.NotNil(t, engine.WinningLine())
		assert.Equal(t, entity.Line{0, 3, 6}, *engine.WinningLine())
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	})

	t.Run("Detects a draw", func(t *testing.T) {
		// Given: a new PVP game
		engine := newTestEngine(t, entity.ModePVP)

		// When: the board fills as X O X / X X O / O X O
		playMoves(t, engine, 0, 1, 2, 5, 3, 6, 4, 8, 7)

		// Then: the game is a draw without a winning line
		assert.Equal(t, entity.StatusDraw, engine.Status())
		assert.Nil(t, engine.WinningLine())
		assert.Equal(t, entity.Board{x, o, x, x, x, o, o, x, o}, engine.Board())
	})

	t.Run("Move After Game Finished", func(t *testing.T) {
		// Given: X has won
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0, 1, 3, 2, 6)
		before := engine.State()

		// When: another move is attempted, even on a valid free cell
		_, err := engine.MakeMove(4)

		// Then: ErrGameFinished is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		require.Equal(t, before, engine.State())
	})

	t.Run("Finished game is checked before the cell", func(t *testing.T) {
		// Given: a drawn game
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0, 1, 2, 5, 3, 6, 4, 8, 7)

		// When: an out of range cell is played
		_, err := engine.MakeMove(42)

		// Then: the finished state wins over the range check
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestEngine_MakeMoveAgainstAI(t *testing.T) {
	t.Run("AI answers as O", func(t *testing.T) {
		// Given: a PVAI game
		engine := newTestEngine(t, entity.ModePVAI)

		// When: X plays a corner
		previous, err := engine.MakeMove(0)
		require.NoError(t, err)

		// Then: X is reported, the AI took the center and it is X's turn again
		assert.Equal(t, entity.PlayerX, previous)
		assert.Equal(t, entity.Board{x, e, e, e, o, e, e, e, e}, engine.Board())
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	})

	t.Run("AI wins and keeps the turn", func(t *testing.T) {
		// Given: a PVAI game
		engine := newTestEngine(t, entity.ModePVAI)

		// When: X plays 0, 8, 1 and the AI answers 4, 2, then completes the diagonal
		playMoves(t, engine, 0, 8, 1)

		// Then: O wins on 2,4,6
		assert.Equal(t, entity.StatusWinO, engine.Status())
		require.NotNil(t, engine.WinningLine())
		assert.Equal(t, entity.Line{2, 4, 6}, *engine.WinningLine())
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
	})

	t.Run("AI does not move once X has won", func(t *testing.T) {
		// Given: a PVAI game where X builds a fork
		engine := newTestEngine(t, entity.ModePVAI)
		playMoves(t, engine, 0, 8, 6)
		require.Equal(t, entity.Board{x, e, o, e, o, e, x, o, x}, engine.Board())

		// When: X completes the first column
		playMoves(t, engine, 3)

		// Then: X wins and no extra O appears
		assert.Equal(t, entity.StatusWinX, engine.Status())
		assert.Equal(t, entity.Line{0, 3, 6}, *engine.WinningLine())
		assert.Equal(t, entity.Board{x, e, o, x, o, e, x, o, x}, engine.Board())
	})

	t.Run("AI never moves in PVP", func(t *testing.T) {
		// Given: a PVP game
		engine := newTestEngine(t, entity.ModePVP)

		// When: X plays
		playMoves(t, engine, 0)

		// Then: no O is placed
		assert.Equal(t, entity.Board{x, e, e, e, e, e, e, e, e}, engine.Board())
	})
}

func TestEngine_ValidateMove(t *testing.T) {
	// Given: a game with cell 4 taken
	engine := newTestEngine(t, entity.ModePVP)
	playMoves(t, engine, 4)
	before := engine.State()

	// Then: validation reports each problem and never changes the game
	require.NoError(t, engine.ValidateMove(0))
	require.ErrorIs(t, engine.ValidateMove(4), apperror.ErrCellOccupied)
	require.ErrorIs(t, engine.ValidateMove(9), apperror.ErrInvalidCell)
	require.Equal(t, before, engine.State())
}

func TestEngine_Reset(t *testing.T) {
	// Given: a finished PVAI game
	engine := newTestEngine(t, entity.ModePVAI)
	playMoves(t, engine, 0, 8, 1)
	require.True(t, engine.Status().IsTerminal())

	// When: the game is reset
	engine.Reset()

	// Then: the initial state is restored and the mode is kept
	expected := entity.GameState{
		Board:         entity.Board{},
		CurrentPlayer: entity.PlayerX,
		Status:        entity.StatusInProgress,
		WinningLine:   nil,
		Mode:          entity.ModePVAI,
	}

	require.Equal(t, expected, engine.State())
}

func TestEngine_SetMode(t *testing.T) {
	t.Run("Switching mode starts a new game", func(t *testing.T) {
		// Given: a PVP game in progress
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0, 1)

		// When: the mode is switched to PVAI
		require.NoError(t, engine.SetMode(entity.ModePVAI))

		// Then: the board is cleared
		assert.Equal(t, entity.ModePVAI, engine.Mode())
		assert.Equal(t, entity.Board{}, engine.Board())
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	})

	t.Run("Setting the same mode also resets", func(t *testing.T) {
		// Given: a PVP game in progress
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0)

		// When: PVP is set again
		require.NoError(t, engine.SetMode(entity.ModePVP))

		// Then: the board is cleared
		assert.Equal(t, entity.Board{}, engine.Board())
	})

	t.Run("Unknown mode leaves the game untouched", func(t *testing.T) {
		// Given: a PVP game in progress
		engine := newTestEngine(t, entity.ModePVP)
		playMoves(t, engine, 0)
		before := engine.State()

		// When: an unknown mode is set
		err := engine.SetMode("pvai")

		// Then: a range error is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrInvalidMode)
		require.Equal(t, before, engine.State())
	})
}

func TestEngine_StateIsACopy(t *testing.T) {
	// Given: a game with a winner
	engine := newTestEngine(t, entity.ModePVP)
	playMoves(t, engine, 0, 1, 3, 2, 6)

	// When: the snapshot is modified
	state := engine.State()
	state.Board[8] = entity.PlayerO
	state.WinningLine[0] = 8

	// Then: the engine is not affected
	assert.Equal(t, e, engine.Board()[8])
	assert.Equal(t, entity.Line{0, 3, 6}, *engine.WinningLine())
}

// assertConsistent checks the status and winning line invariants for a snapshot.
func assertConsistent(t *testing.T, state entity.GameState) {
	t.Helper()

	switch state.Status {
	case entity.StatusWinX, entity.StatusWinO:
		require.NotNil(t, state.WinningLine)

		mark := entity.PlayerX
		if state.Status == entity.StatusWinO {
			mark = entity.PlayerO
		}

		require.Contains(t, entity.Lines[:], *state.WinningLine)
		for _, cell := range state.WinningLine {
			require.Equal(t, mark, state.Board[cell])
		}
	case entity.StatusDraw:
		require.Nil(t, state.WinningLine)
		require.True(t, state.Board.IsFull())
	case entity.StatusInProgress:
		require.Nil(t, state.WinningLine)
	default:
		t.Fatalf("unexpected status %q", state.Status)
	}
}

func TestEngine_RandomPlayoutsKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42)) //nolint: gosec // deterministic playouts

	for _, mode := range []entity.Mode{entity.ModePVP, entity.ModePVAI} {
		engine := newTestEngine(t, mode)

		for game := 0; game < 200; game++ {
			engine.Reset()

			for !engine.Status().IsTerminal() {
				board := engine.Board()
				before := engine.State()

				cell := rnd.Intn(entity.BoardSize)
				_, err := engine.MakeMove(cell)

				if !board[cell].IsEmpty() {
					require.ErrorIs(t, err, apperror.ErrCellOccupied)
					require.Equal(t, before, engine.State())
					continue
				}

				require.NoError(t, err)

				// occupied cells are never cleared
				after := engine.Board()
				for i, mark := range board {
					if !mark.IsEmpty() {
						require.Equal(t, mark, after[i])
					}
				}

				assertConsistent(t, engine.State())
			}

			_, err := engine.MakeMove(rnd.Intn(entity.BoardSize))
			require.ErrorIs(t, err, apperror.ErrGameFinished)
		}
	}
}

func TestEngine_ConcurrentMoves(t *testing.T) {
	// Given: a PVAI game shared by several goroutines
	engine := newTestEngine(t, entity.ModePVAI)

	// When: every cell is played at the same time
	var wg sync.WaitGroup
	for cell := 0; cell < entity.BoardSize; cell++ {
		wg.Add(1)
		go func(cell int) {
			defer wg.Done()
			_, _ = engine.MakeMove(cell)
		}(cell)
	}
	wg.Wait()

	// Then: the final state is still consistent and X never has fewer marks than O
	state := engine.State()
	assertConsistent(t, state)

	var xCount, oCount int
	for _, mark := range state.Board {
		switch mark {
		case entity.PlayerX:
			xCount++
		case entity.PlayerO:
			oCount++
		}
	}
	assert.True(t, xCount == oCount || xCount == oCount+1, "x=%d o=%d", xCount, oCount)
}
