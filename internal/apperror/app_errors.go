package apperror

import "errors"

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTile  = errors.New("not your tile")
	ErrNotFound     = errors.New("not found")
)
