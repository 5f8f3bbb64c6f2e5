package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrAlreadyDrawn     = errors.New("week already drawn")
	ErrInsufficientPool = errors.New("insufficient eligible members")
)
