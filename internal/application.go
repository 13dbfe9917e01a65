package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe/internal/audit"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/pkg"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/rest"
	"github.com/rocketscienceinc/tictactoe/transport/terminal"
)

// RunApp - serves the game over HTTP until a termination signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	gameUseCase, err := newGameUseCase(logger, conf)
	if err != nil {
		return err
	}

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "actor", gameUseCase.ActorID())

	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameUseCase)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunTerminal - plays the game on the given streams until the player quits.
func RunTerminal(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	gameUseCase, err := newGameUseCase(logger, conf)
	if err != nil {
		return err
	}

	if err = terminal.New(logger, gameUseCase, in, out).Run(ctx); err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}

	return nil
}

func newGameUseCase(logger *slog.Logger, conf *config.Config) (*usecase.GameUseCase, error) {
	mode, err := entity.ParseMode(conf.Mode)
	if err != nil {
		return nil, fmt.Errorf("could not read game mode: %w", err)
	}

	engine, err := tictactoe.NewEngine(mode)
	if err != nil {
		return nil, fmt.Errorf("could not create game engine: %w", err)
	}

	actorID := conf.ActorUserID
	if actorID == "" {
		actorID = pkg.GenerateNewSessionID()
	}

	return usecase.NewGameUseCase(logger, engine, audit.NewTrail(nil), actorID), nil
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}
