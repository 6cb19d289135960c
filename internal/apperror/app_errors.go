package apperror

import "errors"

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidSize     = errors.New("invalid board size")
	ErrCorruptSnapshot = errors.New("corrupt game snapshot")
	ErrNotFound        = errors.New("not found")
)
