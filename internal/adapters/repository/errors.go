package repository

import "errors"

// Sentinel errors for result lookups.
var (
	ErrNotFound  = errors.New("not found")
	ErrNilResult = errors.New("nil result")
)
