package engine

import "errors"

var (
	ErrGameOver         = errors.New("game is already over")
	ErrActionOutOfRange = errors.New("card slot out of range")
	ErrNoHintTokens     = errors.New("no hint tokens left")
	ErrInvalidTarget    = errors.New("invalid hint target")
	ErrHintNoMatch      = errors.New("hint touches no card")
	ErrUnknownAction    = errors.New("unknown action type")
)
