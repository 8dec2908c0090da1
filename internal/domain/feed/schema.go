// Package feed describes the play-by-play game feed consumed by the
// converter.
//
// The feed is deeply nested and many leaves are optional. Optional scalars
// are pointers so "absent" and "zero" stay distinguishable at the boundary;
// the accessors in access.go collapse them to type defaults. Nested blocks
// that may be missing entirely are pointers too and have nil-safe getters.
package feed

// GameFeed is one game's complete live feed. It is read, never mutated.
type GameFeed struct {
	GamePk   int      `json:"gamePk"`
	GameData GameData `json:"gameData"`
	LiveData LiveData `json:"liveData"`
}

// GameData holds game-level metadata.
type GameData struct {
	Game     GameInfo `json:"game"`
	Datetime Datetime `json:"datetime"`
	Teams    Teams    `json:"teams"`
}

// GameInfo identifies the game within its date.
type GameInfo struct {
	Pk         int    `json:"pk"`
	ID         string `json:"id"`
	GameNumber int    `json:"gameNumber"`
}

// Datetime carries the scheduled start as an RFC 3339 UTC timestamp.
type Datetime struct {
	DateTime string `json:"dateTime"`
}

// Teams pairs the two clubs.
type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Team is one club. TeamCode is the short code used in every identifier.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamCode     string `json:"teamCode"`
	Abbreviation string `json:"abbreviation"`
}

// LiveData wraps the play list.
type LiveData struct {
	Plays Plays `json:"plays"`
}

// Plays holds every at-bat in feed order.
type Plays struct {
	AllPlays []AtBat `json:"allPlays"`
}

// AtBat is one plate appearance.
type AtBat struct {
	Result     AtBatResult `json:"result"`
	About      About       `json:"about"`
	Matchup    Matchup     `json:"matchup"`
	PitchIndex []int       `json:"pitchIndex"`
	PlayEvents []PlayEvent `json:"playEvents"`
}

// AtBatResult is the plate-appearance outcome.
type AtBatResult struct {
	Event       string `json:"event"`
	EventType   string `json:"eventType"`
	Description string `json:"description"`
}

// About positions the at-bat in the game.
type About struct {
	AtBatIndex int    `json:"atBatIndex"`
	HalfInning string `json:"halfInning"`
	Inning     int    `json:"inning"`
}

// Half-inning values.
const (
	HalfTop    = "top"
	HalfBottom = "bottom"
)

// Matchup names the pitcher and batter.
type Matchup struct {
	Batter    *Person `json:"batter"`
	Pitcher   *Person `json:"pitcher"`
	BatSide   Code    `json:"batSide"`
	PitchHand Code    `json:"pitchHand"`
}

// Person is a player reference.
type Person struct {
	ID       *int   `json:"id"`
	FullName string `json:"fullName"`
}

// Code is a {code, description} pair.
type Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// PlayEvent is one sub-event of an at-bat. Only events flagged IsPitch are
// pitches; the rest are mound visits, pickoffs, substitutions and the like.
type PlayEvent struct {
	Index       int        `json:"index"`
	PlayID      *string    `json:"playId"`
	PitchNumber int        `json:"pitchNumber"`
	StartTime   string     `json:"startTime"`
	IsPitch     bool       `json:"isPitch"`
	Details     Details    `json:"details"`
	Count       Count      `json:"count"`
	PitchData   *PitchData `json:"pitchData"`
	HitData     *HitData   `json:"hitData"`
}

// Details describes the pitch outcome.
type Details struct {
	Description string `json:"description"`
	IsInPlay    bool   `json:"isInPlay"`
	IsStrike    bool   `json:"isStrike"`
	IsBall      bool   `json:"isBall"`
	Type        *Code  `json:"type"`
}

// Count is the ball/strike count after the pitch.
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
	Outs    int `json:"outs"`
}

// PitchData is the tracking payload of a pitch.
type PitchData struct {
	StartSpeed       *float64    `json:"startSpeed"`
	EndSpeed         *float64    `json:"endSpeed"`
	StrikeZoneTop    *float64    `json:"strikeZoneTop"`
	StrikeZoneBottom *float64    `json:"strikeZoneBottom"`
	Zone             *int        `json:"zone"`
	PlateTime        *float64    `json:"plateTime"`
	Extension        *float64    `json:"extension"`
	Coordinates      Coordinates `json:"coordinates"`
	Breaks           Breaks      `json:"breaks"`
}

// Coordinates are release, movement and plate-crossing values.
type Coordinates struct {
	PfxX *float64 `json:"pfxX"`
	PfxZ *float64 `json:"pfxZ"`
	PX   *float64 `json:"pX"`
	PZ   *float64 `json:"pZ"`
	X0   *float64 `json:"x0"`
	Y0   *float64 `json:"y0"`
	Z0   *float64 `json:"z0"`
	VX0  *float64 `json:"vX0"`
	VY0  *float64 `json:"vY0"`
	VZ0  *float64 `json:"vZ0"`
	AX   *float64 `json:"aX"`
	AY   *float64 `json:"aY"`
	AZ   *float64 `json:"aZ"`
}

// Breaks are spin and break measurements.
type Breaks struct {
	BreakAngle    *float64 `json:"breakAngle"`
	BreakLength   *float64 `json:"breakLength"`
	BreakY        *float64 `json:"breakY"`
	SpinRate      *float64 `json:"spinRate"`
	SpinDirection *float64 `json:"spinDirection"`
}

// HitData is present on batted balls.
type HitData struct {
	LaunchSpeed   *float64       `json:"launchSpeed"`
	LaunchAngle   *float64       `json:"launchAngle"`
	TotalDistance *float64       `json:"totalDistance"`
	Trajectory    string         `json:"trajectory"`
	Hardness      string         `json:"hardness"`
	Location      string         `json:"location"`
	Coordinates   HitCoordinates `json:"coordinates"`
}

// HitCoordinates is where the ball was fielded on the spray chart.
type HitCoordinates struct {
	CoordX *float64 `json:"coordX"`
	CoordY *float64 `json:"coordY"`
}
