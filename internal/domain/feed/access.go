package feed

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Value dereferences p, returning T's zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// HomeTeamID is the upper-cased home team code, or "" when absent.
func (f *GameFeed) HomeTeamID() string {
	return strings.ToUpper(strings.TrimSpace(f.GameData.Teams.Home.TeamCode))
}

// AwayTeamID is the upper-cased away team code, or "" when absent.
func (f *GameFeed) AwayTeamID() string {
	return strings.ToUpper(strings.TrimSpace(f.GameData.Teams.Away.TeamCode))
}

// MLBGameID prefers the top-level gamePk and falls back to gameData.game.pk.
func (f *GameFeed) MLBGameID() int {
	if f.GamePk != 0 {
		return f.GamePk
	}
	return f.GameData.Game.Pk
}

// AtBats returns the at-bats in feed order.
func (f *GameFeed) AtBats() []AtBat {
	return f.LiveData.Plays.AllPlays
}

// StartTime parses the scheduled start. ok is false when absent or malformed.
func (f *GameFeed) StartTime() (time.Time, bool) {
	return ParseTimestamp(f.GameData.Datetime.DateTime)
}

// ParseTimestamp parses an RFC 3339 feed timestamp; fractional seconds are optional.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PitcherID returns the pitcher id when the matchup names one.
func (ab *AtBat) PitcherID() (int, bool) {
	if ab.Matchup.Pitcher == nil || ab.Matchup.Pitcher.ID == nil {
		return 0, false
	}
	return *ab.Matchup.Pitcher.ID, true
}

// PitcherName returns the pitcher's display name.
func (ab *AtBat) PitcherName() string {
	if ab.Matchup.Pitcher == nil {
		return ""
	}
	return ab.Matchup.Pitcher.FullName
}

// BatterID returns the batter id when the matchup names one.
func (ab *AtBat) BatterID() (int, bool) {
	if ab.Matchup.Batter == nil || ab.Matchup.Batter.ID == nil {
		return 0, false
	}
	return *ab.Matchup.Batter.ID, true
}

// PitchEvents keeps the sub-events flagged as pitches. When the at-bat
// carries a pitch index, an event must also be listed there.
func (ab *AtBat) PitchEvents() []PlayEvent {
	out := make([]PlayEvent, 0, len(ab.PlayEvents))
	for _, e := range ab.PlayEvents {
		if !e.IsPitch {
			continue
		}
		if len(ab.PitchIndex) > 0 && !slices.Contains(ab.PitchIndex, e.Index) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Pitch returns the tracking payload, or an empty one when absent.
func (e *PlayEvent) Pitch() PitchData {
	if e.PitchData == nil {
		return PitchData{}
	}
	return *e.PitchData
}

// Hit returns the batted-ball payload, or an empty one when absent.
func (e *PlayEvent) Hit() HitData {
	if e.HitData == nil {
		return HitData{}
	}
	return *e.HitData
}

// PitchTypeCode is the pitch classification code, "UN" when unclassified.
func (e *PlayEvent) PitchTypeCode() string {
	if e.Details.Type == nil || e.Details.Type.Code == "" {
		return "UN"
	}
	return e.Details.Type.Code
}

// LocationNumber is the fielder position number of a batted ball, 0 when absent.
func (h HitData) LocationNumber() int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Location))
	if err != nil {
		return 0
	}
	return n
}
