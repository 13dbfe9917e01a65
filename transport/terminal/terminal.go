package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe/internal/audit"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const helpText = `commands:
  0-8          place your mark on a cell
  reset        start a new game
  mode pvp     two players on this terminal
  mode pvai    play X against the computer
  audit        show the audit log, newest first
  audit clear  empty the audit log
  help         show this help
  quit         leave the game`

type gameUseCase interface {
	State(ctx context.Context) entity.GameState
	MakeMove(ctx context.Context, cell int) (*usecase.MoveResult, error)
	Reset(ctx context.Context) entity.GameState
	SetMode(ctx context.Context, value string) (entity.GameState, error)
	AuditEntries(ctx context.Context) []audit.Entry
	ClearAudit(ctx context.Context)
}

// Terminal plays one game over a line-oriented text stream.
type Terminal struct {
	logger *slog.Logger
	game   gameUseCase

	in  io.Reader
	out io.Writer
}

func New(logger *slog.Logger, game gameUseCase, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		logger: logger.With("component", "terminal"),
		game:   game,

		in:  in,
		out: out,
	}
}

// Run - reads commands until quit, end of input or ctx cancellation. A read
// already blocked on the input is abandoned, not interrupted.
func (that *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := that.readLines(ctx)

	that.printf("tic-tac-toe, type help for commands\n")
	that.printState(that.game.State(ctx))

	for {
		that.printf("> ")

		select {
		case <-ctx.Done():
			that.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				that.printf("\n")
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			if quit := that.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// readLines - feeds input lines to the returned channel until the input ends
// or ctx is done; the channel is closed after the error, if any, is sent.
func (that *Terminal) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}

		readErr <- scanner.Err()
	}()

	return lines, readErr
}

// handle - executes one command line and reports whether the session should end.
func (that *Terminal) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		that.printf("bye\n")
		return true
	case "help":
		that.printf("%s\n", helpText)
	case "reset":
		that.printState(that.game.Reset(ctx))
	case "mode":
		if len(fields) != 2 {
			that.printf("usage: mode pvp|pvai\n")
			return false
		}

		state, err := that.game.SetMode(ctx, fields[1])
		if err != nil {
			that.printError(err)
			return false
		}

		that.printf("mode: %s\n", state.Mode)
		that.printState(state)
	case "audit":
		if len(fields) == 2 && fields[1] == "clear" {
			that.game.ClearAudit(ctx)
			that.printf("audit log cleared\n")
			return false
		}

		that.printAudit(that.game.AuditEntries(ctx))
	default:
		that.move(ctx, fields[0])
	}

	return false
}

func (that *Terminal) move(ctx context.Context, value string) {
	cell, err := entity.ParseCell(value)
	if err != nil {
		that.printError(err)
		return
	}

	result, err := that.game.MakeMove(ctx, cell)
	if err != nil {
		that.printError(err)
		return
	}

	if result.AICell != nil {
		that.printf("computer plays %d\n", *result.AICell)
	}

	that.printState(result.State)
}

func (that *Terminal) printState(state entity.GameState) {
	that.printf("%s", renderBoard(state.Board))

	switch state.Status {
	case entity.StatusWinX, entity.StatusWinO:
		line := state.WinningLine
		that.printf("%s wins on %d-%d-%d\n", state.Board[line[0]], line[0], line[1], line[2])
	case entity.StatusDraw:
		that.printf("draw\n")
	default:
		that.printf("%s to move\n", state.CurrentPlayer)
	}
}

func (that *Terminal) printAudit(entries []audit.Entry) {
	if len(entries) == 0 {
		that.printf("audit log is empty\n")
		return
	}

	for _, entry := range entries {
		that.printf("%s %-6s %s", entry.Timestamp, entry.Action, entry.ActorUserID)
		if entry.Reason != "" {
			that.printf(" %s", entry.Reason)
		}
		that.printf("\n")
	}
}

func (that *Terminal) printError(err error) {
	that.logger.Debug("command failed", "error", err)
	that.printf("error: %v\n", err)
}

func (that *Terminal) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// renderBoard - draws the grid; free cells show their index.
func renderBoard(board entity.Board) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := 0; col < 3; col++ {
			cell := row*3 + col
			if col > 0 {
				sb.WriteString("|")
			}

			mark := string(board[cell])
			if board[cell].IsEmpty() {
				mark = fmt.Sprint(cell)
			}

			sb.WriteString(" " + mark + " ")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
