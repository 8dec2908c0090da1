package feedgen

import "time"

// Config controls one generated game.
type Config struct {
	GameID       string // bbref-style id; its home code and date drive the feed
	AwayTeam     string
	GamePk       int
	Seed         uint64
	Innings      int
	MissingPlays float64 // share of pitches emitted without a play id
	StartHourET  int     // scheduled first pitch, Eastern time
}

// Option applies a configuration option to a Config.
type Option func(*Config)

// WithAwayTeam sets the visiting team code.
func WithAwayTeam(code string) Option {
	return func(c *Config) {
		if code != "" {
			c.AwayTeam = code
		}
	}
}

// WithGamePk sets the feed's game pk. The default is derived from the seed.
func WithGamePk(pk int) Option {
	return func(c *Config) {
		if pk > 0 {
			c.GamePk = pk
		}
	}
}

// WithSeed sets the random seed; equal seeds yield identical feeds.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithInnings sets the number of innings played.
func WithInnings(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Innings = n
		}
	}
}

// WithMissingPlayIDs drops the play id from roughly share of all pitches.
func WithMissingPlayIDs(share float64) Option {
	return func(c *Config) {
		if share >= 0 && share <= 1 {
			c.MissingPlays = share
		}
	}
}

// WithStartHour sets the scheduled start hour in Eastern time.
func WithStartHour(hour int) Option {
	return func(c *Config) {
		if hour >= 0 && hour < 24 {
			c.StartHourET = hour
		}
	}
}

const (
	defaultInnings   = 9
	defaultStartHour = 19
	defaultAwayTeam  = "nya"
	pitchInterval    = 22 * time.Second
	maxBattersInHalf = 9
	relieverInning   = 7
)
