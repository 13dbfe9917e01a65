package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/audit"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/metrics"
)

type gameEngine interface {
	State() entity.GameState
	MakeMove(cell int) (entity.Player, error)
	Reset()
	SetMode(next entity.Mode) error
}

type auditTrail interface {
	Log(record audit.Record) audit.Entry
	Clear()
	Entries() []audit.Entry
}

// MoveResult describes a successful move. AICell is set when the AI answered.
type MoveResult struct {
	PreviousPlayer entity.Player    `json:"previousPlayer"`
	AICell         *int             `json:"aiCell,omitempty"`
	State          entity.GameState `json:"state"`
}

// GameUseCase drives the engine on behalf of a player and records every
// state-changing call in the audit trail. mu spans the before snapshot, the
// engine call, the after snapshot and the audit record of one action.
type GameUseCase struct {
	logger *slog.Logger

	mu sync.Mutex

	engine  gameEngine
	trail   auditTrail
	actorID string
}

func NewGameUseCase(logger *slog.Logger, engine gameEngine, trail auditTrail, actorID string) *GameUseCase {
	return &GameUseCase{
		logger: logger.With("component", "game"),

		engine:  engine,
		trail:   trail,
		actorID: actorID,
	}
}

func (that *GameUseCase) ActorID() string {
	return that.actorID
}

func (that *GameUseCase) State(_ context.Context) entity.GameState {
	return that.engine.State()
}

func (that *GameUseCase) MakeMove(ctx context.Context, cell int) (*MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeMove", "cell", cell)

	before := that.engine.State()

	previous, err := that.engine.MakeMove(cell)
	if err != nil {
		that.reject(ctx, log, err, before, map[string]any{"cell": cell})

		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	after := that.engine.State()
	result := &MoveResult{
		PreviousPlayer: previous,
		AICell:         findAICell(before.Board, after.Board, cell),
		State:          after,
	}

	metadata := map[string]any{"cell": cell, "player": string(previous)}
	metrics.MovesTotal.WithLabelValues(string(previous), metrics.SourceHuman).Inc()

	if result.AICell != nil {
		metadata["aiCell"] = *result.AICell
		metrics.MovesTotal.WithLabelValues(string(after.Board[*result.AICell]), metrics.SourceAI).Inc()
	}

	if after.Status.IsTerminal() {
		metrics.GamesFinishedTotal.WithLabelValues(string(after.Status)).Inc()
		log.InfoContext(ctx, "game finished", "status", after.Status)
	}

	that.record(audit.Record{
		Action:      audit.ActionUpdate,
		Reason:      "move",
		BeforeState: before.AsMap(),
		AfterState:  after.AsMap(),
		Metadata:    metadata,
	})

	log.DebugContext(ctx, "move applied", "player", previous, "status", after.Status)

	return result, nil
}

func (that *GameUseCase) Reset(ctx context.Context) entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Reset")

	before := that.engine.State()
	that.engine.Reset()
	after := that.engine.State()

	that.record(audit.Record{
		Action:      audit.ActionCreate,
		Reason:      "reset",
		BeforeState: before.AsMap(),
		AfterState:  after.AsMap(),
	})

	log.InfoContext(ctx, "new game started", "mode", after.Mode)

	return after
}

// SetMode - parses the requested mode and switches to it; a switch always starts a new game.
func (that *GameUseCase) SetMode(ctx context.Context, value string) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "SetMode", "mode", value)

	before := that.engine.State()

	mode, err := entity.ParseMode(value)
	if err == nil {
		err = that.engine.SetMode(mode)
	}

	if err != nil {
		that.reject(ctx, log, err, before, map[string]any{"mode": value})

		return before, fmt.Errorf("failed to set mode: %w", err)
	}

	after := that.engine.State()

	that.record(audit.Record{
		Action:      audit.ActionUpdate,
		Reason:      "mode change",
		BeforeState: before.AsMap(),
		AfterState:  after.AsMap(),
		Metadata:    map[string]any{"mode": string(mode)},
	})

	log.InfoContext(ctx, "mode changed", "from", before.Mode, "to", after.Mode)

	return after, nil
}

func (that *GameUseCase) AuditEntries(_ context.Context) []audit.Entry {
	return that.trail.Entries()
}

func (that *GameUseCase) ClearAudit(ctx context.Context) {
	that.trail.Clear()

	that.logger.InfoContext(ctx, "audit trail cleared", "method", "ClearAudit")
}

// reject - records a refused action; the game state is unchanged, so before and after are equal.
func (that *GameUseCase) reject(ctx context.Context, log *slog.Logger, err error, state entity.GameState, metadata map[string]any) {
	metrics.RejectedActionsTotal.WithLabelValues(rejectReason(err)).Inc()

	snapshot := state.AsMap()
	that.record(audit.Record{
		Action:      audit.ActionError,
		Reason:      err.Error(),
		BeforeState: snapshot,
		AfterState:  snapshot,
		Metadata:    metadata,
	})

	log.WarnContext(ctx, "action rejected", "error", err)
}

func (that *GameUseCase) record(record audit.Record) {
	record.ActorUserID = that.actorID
	that.trail.Log(record)

	metrics.AuditEntriesTotal.WithLabelValues(string(record.Action)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, apperror.ErrOutOfRange):
		return "out_of_range"
	default:
		return "unknown"
	}
}

// findAICell - returns the cell filled by the AI, i.e. the one that changed besides the player's cell.
func findAICell(before, after entity.Board, playerCell int) *int {
	for cell := range after {
		if cell != playerCell && before[cell] != after[cell] {
			return &cell
		}
	}

	return nil
}
