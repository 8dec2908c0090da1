package service

import "errors"

// Sentinel errors returned by Submit.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrDuplicateGame = errors.New("game already submitted")
	ErrBackpressure  = errors.New("conversion queue is full")
	ErrInvalidJob    = errors.New("invalid job")
)
