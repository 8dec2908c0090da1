// Package pitchfx converts one game's play-by-play feed into per-pitcher
// pitch applications and pitch logs.
//
// Conversion is a synchronous single pass. At-bats are walked strictly in
// feed order because the game-global pitch index and every per-pitcher
// aggregate depend on encounter order. All lookup state lives in a
// per-call conversion value, so distinct games may be converted in
// parallel with one Converter.
package pitchfx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/pkg/logger"
	"github.com/okian/pitchfx/pkg/metrics"
)

// DefaultTimeZone is the reference zone for every converted timestamp.
const DefaultTimeZone = "America/New_York"

// Option applies a configuration option to the Converter.
type Option func(*Converter)

// WithLocation sets the reference time zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Converter) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLogger sets a custom logger for the converter.
func WithLogger(l logger.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// Converter turns game feeds into pitch applications and pitch logs. It
// holds configuration only and is safe for concurrent use.
type Converter struct {
	loc    *time.Location
	logger logger.Logger
}

// NewConverter creates a Converter. Without WithLocation it uses
// DefaultTimeZone, falling back to UTC if the zone database is missing.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.loc == nil {
		loc, err := time.LoadLocation(DefaultTimeZone)
		if err != nil {
			loc = time.UTC
		}
		c.loc = loc
	}
	if c.logger == nil {
		c.logger = logger.Default().Named("converter")
	}
	return c
}

// Location returns the reference time zone.
func (c *Converter) Location() *time.Location { return c.loc }

// conversion is the call-scoped state of one Convert.
type conversion struct {
	c        *Converter
	feed     *feed.GameFeed
	gameID   string
	gameDate time.Time
	bbGameID string
	home     string
	away     string
	mlbID    int

	gameStart    time.Time
	hasGameStart bool

	pitchCount   int
	order        []int
	logs         map[int][]PitchRecord
	pitcherNames map[int]string
	playerTeams  map[int]string
	skipped      []SkippedAtBat
}

// Convert converts f. gameDate is the scheduled date of the game and gameID
// its bbref-style identifier. It fails only when a top-level identifier is
// missing; gaps below that level degrade to defaults.
func (c *Converter) Convert(ctx context.Context, f *feed.GameFeed, gameDate time.Time, gameID string) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil feed", ErrMissingIdentifier)
	}
	cv := &conversion{
		c:            c,
		feed:         f,
		gameID:       strings.TrimSpace(gameID),
		gameDate:     gameDate,
		home:         f.HomeTeamID(),
		away:         f.AwayTeamID(),
		mlbID:        f.MLBGameID(),
		logs:         make(map[int][]PitchRecord),
		pitcherNames: make(map[int]string),
		playerTeams:  make(map[int]string),
	}
	if err := cv.validate(); err != nil {
		return nil, err
	}

	cv.bbGameID = bbGameID(gameDate, f)
	if start, ok := f.StartTime(); ok {
		cv.gameStart = start.In(c.loc)
		cv.hasGameStart = true
	}

	for i := range f.AtBats() {
		cv.walkAtBat(ctx, &f.LiveData.Plays.AllPlays[i])
	}

	res := cv.assemble()
	c.logger.Debug(ctx, "converted game",
		logger.String("game_id", cv.gameID),
		logger.Int("pitches", res.PitchCount),
		logger.Int("pitch_apps", len(res.Applications)),
		logger.Int("skipped_at_bats", len(res.Skipped)),
	)
	return res, nil
}

func (cv *conversion) validate() error {
	var missing []string
	if cv.gameID == "" {
		missing = append(missing, "game id")
	}
	if cv.mlbID == 0 {
		missing = append(missing, "gamePk")
	}
	if cv.home == "" {
		missing = append(missing, "home team code")
	}
	if cv.away == "" {
		missing = append(missing, "away team code")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingIdentifier, strings.Join(missing, ", "))
	}
	return nil
}

// walkAtBat resolves identity for one at-bat and classifies its pitches.
func (cv *conversion) walkAtBat(ctx context.Context, ab *feed.AtBat) {
	pitches := ab.PitchEvents()

	pitcherID, okPitcher := ab.PitcherID()
	batterID, okBatter := ab.BatterID()
	half := strings.ToLower(strings.TrimSpace(ab.About.HalfInning))

	var reason string
	switch {
	case !okPitcher:
		reason = SkipMissingPitcher
	case !okBatter:
		reason = SkipMissingBatter
	}
	if reason != "" {
		cv.skipped = append(cv.skipped, SkippedAtBat{
			AtBatIndex:  ab.About.AtBatIndex,
			Inning:      ab.About.Inning,
			Reason:      reason,
			PitchEvents: len(pitches),
		})
		metrics.RecordAtBatSkipped(reason)
		cv.c.logger.Warn(ctx, "skipping at-bat",
			logger.String("game_id", cv.gameID),
			logger.Int("at_bat_index", ab.About.AtBatIndex),
			logger.String("reason", reason),
			logger.Int("pitch_events", len(pitches)),
		)
		return
	}

	// The home team pitches in the top half; any other value counts as the bottom.
	pitcherTeam, opponentTeam := cv.away, cv.home
	if half == feed.HalfTop {
		pitcherTeam, opponentTeam = cv.home, cv.away
	}

	if _, seen := cv.pitcherNames[pitcherID]; !seen {
		cv.order = append(cv.order, pitcherID)
	}
	cv.pitcherNames[pitcherID] = ab.PitcherName()
	cv.playerTeams[pitcherID] = pitcherTeam
	cv.playerTeams[batterID] = opponentTeam

	actx := atBatContext{
		ab:             ab,
		pitcherID:      pitcherID,
		batterID:       batterID,
		half:           half,
		pitcherTeam:    pitcherTeam,
		opponentTeam:   opponentTeam,
		pitchAppID:     pitchAppID(cv.gameID, pitcherID),
		pitchesInAtBat: len(pitches),
	}
	for i := range pitches {
		rec := cv.classify(&pitches[i], i, actx)
		cv.logs[pitcherID] = append(cv.logs[pitcherID], rec)
		cv.pitchCount++
	}
}
