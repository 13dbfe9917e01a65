package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrOutOfRange   = errors.New("value out of range")

	ErrInvalidCell = fmt.Errorf("%w: cell index must be an integer between 0 and 8", ErrOutOfRange)
	ErrInvalidMode = fmt.Errorf("%w: invalid mode", ErrOutOfRange)
)
