package pitchfx

import "errors"

// ErrMissingIdentifier is returned when a top-level game identifier is
// absent and the game cannot be converted.
var ErrMissingIdentifier = errors.New("missing game identifier")
