package apperror

import "errors"

var (
	ErrGameNotFound     = errors.New("no game with that id")
	ErrOutOfBounds      = errors.New("coordinate is outside the board")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrMalformedBoard   = errors.New("malformed board string")
	ErrSessionFull      = errors.New("session already has two players")
	ErrInvalidBoardSize = errors.New("unsupported board size")
)
