package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceHuman = "human"
	SourceAI    = "ai"
)

var (
	// MovesTotal counts marks placed on the board.
	MovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_moves_total",
			Help: "Marks placed on the board",
		},
		[]string{"player", "source"},
	)

	// GamesFinishedTotal counts games that reached a terminal status.
	GamesFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_games_finished_total",
			Help: "Games that ended in a win or a draw",
		},
		[]string{"status"},
	)

	// RejectedActionsTotal counts moves and mode changes refused by the engine.
	RejectedActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_rejected_actions_total",
			Help: "Moves and mode changes refused by the engine",
		},
		[]string{"reason"},
	)

	// AuditEntriesTotal counts entries appended to the audit trail.
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_audit_entries_total",
			Help: "Entries appended to the audit trail",
		},
		[]string{"action"},
	)
)
