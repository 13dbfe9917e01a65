package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/audit"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

type gameUseCase interface {
	State(ctx context.Context) entity.GameState
	MakeMove(ctx context.Context, cell int) (*usecase.MoveResult, error)
	Reset(ctx context.Context) entity.GameState
	SetMode(ctx context.Context, value string) (entity.GameState, error)
	AuditEntries(ctx context.Context) []audit.Entry
	ClearAudit(ctx context.Context)
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type Handlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewHandlers(logger *slog.Logger, game gameUseCase) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

func (that *Handlers) GetGame(c *gin.Context) {
	c.JSON(http.StatusOK, that.game.State(c.Request.Context()))
}

func (that *Handlers) MakeMove(c *gin.Context) {
	var request moveRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Cell == nil {
		that.respondWithError(c, fmt.Errorf("%w: cell is required", apperror.ErrInvalidCell))
		return
	}

	result, err := that.game.MakeMove(c.Request.Context(), *request.Cell)
	if err != nil {
		that.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (that *Handlers) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, that.game.Reset(c.Request.Context()))
}

func (that *Handlers) SetMode(c *gin.Context) {
	var request modeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		that.respondWithError(c, fmt.Errorf("%w: mode is required", apperror.ErrInvalidMode))
		return
	}

	state, err := that.game.SetMode(c.Request.Context(), request.Mode)
	if err != nil {
		that.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (that *Handlers) GetAudit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": that.game.AuditEntries(c.Request.Context())})
}

func (that *Handlers) ClearAudit(c *gin.Context) {
	that.game.ClearAudit(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// respondWithError - maps engine errors to status codes; anything else is an internal error.
func (that *Handlers) respondWithError(c *gin.Context, err error) {
	var status int

	switch {
	case errors.Is(err, apperror.ErrGameFinished), errors.Is(err, apperror.ErrCellOccupied):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrOutOfRange):
		status = http.StatusBadRequest
	default:
		that.logger.Error("unexpected error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func newRequestID() string {
	return uuid.NewString()
}
