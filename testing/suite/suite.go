package suite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/audit"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const (
	ActorUserID = "test-player"

	maxWaitDuration = 10 * time.Second
)

// Now is the instant every audit entry in a suite is stamped with.
var Now = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Engine  *tictactoe.Engine
	Trail   *audit.Trail
	UseCase *usecase.GameUseCase
}

// New - wires a fresh engine, audit trail and use case for one test.
func New(t *testing.T, mode entity.Mode) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine, err := tictactoe.NewEngine(mode)
	if err != nil {
		t.Fatalf("could not create engine: %v", err)
	}

	trail := audit.NewTrail(func() time.Time { return Now })

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Engine:  engine,
		Trail:   trail,
		UseCase: usecase.NewGameUseCase(logger, engine, trail, ActorUserID),
	}
}
