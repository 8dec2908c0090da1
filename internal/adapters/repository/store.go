// Package repository keeps converted games, addressable by game and by
// (game, pitcher).
package repository

import (
	"context"

	"github.com/okian/pitchfx/internal/domain/pitchfx"
)

// Key addresses one pitch application.
type Key struct {
	GameID    string
	PitcherID int
}

// Store provides read/write access to converted games.
type Store interface {
	// Put stores every application and log of res, replacing an earlier
	// result for the same game.
	Put(ctx context.Context, res *pitchfx.Result) error

	// Game returns the full result for gameID.
	Game(ctx context.Context, gameID string) (*pitchfx.Result, error)

	// Application and Log return one pitcher's outputs for one game.
	// Both return ErrNotFound for an unknown key.
	Application(ctx context.Context, k Key) (pitchfx.PitchApplication, error)
	Log(ctx context.Context, k Key) (pitchfx.PitchFxLog, error)

	// GameIDs lists stored games in ascending order.
	GameIDs(ctx context.Context) []string

	// Count returns the number of stored games.
	Count(ctx context.Context) int
}
