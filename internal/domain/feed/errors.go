package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrDecode        = errors.New("decode game feed")
	ErrInvalidGameID = errors.New("invalid game id")
)
