// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
)

// Job is one game queued for conversion.
type Job struct {
	GameID   string         // bbref-style game id, also the idempotency key
	GameDate time.Time      // scheduled date of the game
	Feed     *feed.GameFeed // already-retrieved feed, never mutated
	Source   string         // where the feed came from, e.g. a file path
}

// Outcome is what a worker produced for one Job.
type Outcome struct {
	Job      Job
	Result   *pitchfx.Result
	Err      error
	Duration time.Duration
}

// OK reports whether the job converted.
func (o Outcome) OK() bool { return o.Err == nil && o.Result != nil }
