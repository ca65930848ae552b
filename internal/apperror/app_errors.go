package apperror

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrPersistence     = errors.New("persistence failure")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("concurrent update conflict")

	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrMatchIsFull      = errors.New("match already has two players")
	ErrPlayerNotInMatch = errors.New("player is not part of this match")
	ErrMatchNotFinished = errors.New("match is not finished")
)
