// Package feedgen builds synthetic but structurally faithful game feeds.
//
// Output is fully determined by the Config: the same seed always produces
// the same feed, play ids included.
package feedgen

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchfx/internal/domain/classify"
	"github.com/okian/pitchfx/internal/domain/feed"
)

type pitchKind struct {
	code  string
	speed float64
	spin  float64
}

var arsenal = []pitchKind{
	{"FF", 94.5, 2300},
	{"SL", 85.0, 2450},
	{"CH", 86.5, 1750},
	{"CU", 78.0, 2600},
	{"SI", 93.0, 2150},
}

var (
	trajectories = []string{"ground_ball", "fly_ball", "line_drive", "popup", "bunt_grounder"}
	hardness     = []string{"soft", "medium", "hard"}
)

type generator struct {
	cfg    Config
	src    *rand.ChaCha8
	rng    *rand.Rand
	home   string
	away   string
	clock  time.Time
	index  int
	outs   int
	lineup map[string]int
}

// Generate builds one game feed for gameID.
func Generate(gameID string, opts ...Option) (*feed.GameFeed, error) {
	id, err := feed.ParseGameID(gameID)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", gameID, err)
	}
	cfg := Config{
		GameID:      gameID,
		AwayTeam:    defaultAwayTeam,
		Innings:     defaultInnings,
		StartHourET: defaultStartHour,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	copy(seed[8:], gameID)
	src := rand.NewChaCha8(seed)

	g := &generator{
		cfg:    cfg,
		src:    src,
		rng:    rand.New(src),
		home:   strings.ToLower(id.HomeTeam),
		away:   strings.ToLower(cfg.AwayTeam),
		lineup: make(map[string]int),
	}
	if cfg.GamePk == 0 {
		cfg.GamePk = 500000 + g.rng.IntN(200000)
		g.cfg.GamePk = cfg.GamePk
	}

	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", gameID, err)
	}
	start := time.Date(id.Date.Year(), id.Date.Month(), id.Date.Day(), cfg.StartHourET, 5, 0, 0, et).UTC()
	g.clock = start

	f := &feed.GameFeed{GamePk: cfg.GamePk}
	f.GameData.Game = feed.GameInfo{Pk: cfg.GamePk, ID: gameID, GameNumber: max(id.GameNumber, 1)}
	f.GameData.Datetime.DateTime = start.Format(time.RFC3339)
	f.GameData.Teams.Home = feed.Team{ID: 100 + g.rng.IntN(50), TeamCode: g.home, Abbreviation: strings.ToUpper(g.home)}
	f.GameData.Teams.Away = feed.Team{ID: 150 + g.rng.IntN(50), TeamCode: g.away, Abbreviation: strings.ToUpper(g.away)}

	for inning := 1; inning <= cfg.Innings; inning++ {
		for _, half := range []string{feed.HalfTop, feed.HalfBottom} {
			f.LiveData.Plays.AllPlays = append(f.LiveData.Plays.AllPlays, g.halfInning(inning, half)...)
		}
	}
	return f, nil
}

// playerID is stable per team and slot.
func playerID(team string, slot int) int {
	h := 0
	for _, c := range team {
		h = h*31 + int(c)
	}
	return 400000 + (h%1000)*100 + slot
}

func (g *generator) halfInning(inning int, half string) []feed.AtBat {
	// Home pitches the top half.
	pitchingTeam, battingTeam := g.away, g.home
	if half == feed.HalfTop {
		pitchingTeam, battingTeam = g.home, g.away
	}
	pitcherSlot := 90
	if inning >= relieverInning {
		pitcherSlot = 91 + (inning-relieverInning)%2
	}
	pitcher := playerID(pitchingTeam, pitcherSlot)
	hand := "R"
	if pitcher%2 == 0 {
		hand = "L"
	}

	g.outs = 0
	var abs []feed.AtBat
	for n := 0; g.outs < 3 && n < maxBattersInHalf; n++ {
		slot := g.lineup[battingTeam] % 9
		g.lineup[battingTeam]++
		batter := playerID(battingTeam, slot+1)
		ab := g.atBat(inning, half, pitcher, batter, hand)
		abs = append(abs, ab)
	}
	return abs
}

func (g *generator) atBat(inning int, half string, pitcher, batter int, hand string) feed.AtBat {
	stand := "R"
	if batter%3 == 0 {
		stand = "L"
	}
	ab := feed.AtBat{
		About: feed.About{AtBatIndex: g.index, HalfInning: half, Inning: inning},
		Matchup: feed.Matchup{
			Pitcher:   &feed.Person{ID: ptr(pitcher), FullName: fmt.Sprintf("Pitcher %d", pitcher)},
			Batter:    &feed.Person{ID: ptr(batter), FullName: fmt.Sprintf("Batter %d", batter)},
			BatSide:   feed.Code{Code: stand},
			PitchHand: feed.Code{Code: hand},
		},
	}
	g.index++

	balls, strikes, eventIdx, pitchNo := 0, 0, 0, 0
	for {
		if g.rng.Float64() < 0.04 {
			ab.PlayEvents = append(ab.PlayEvents, feed.PlayEvent{
				Index:     eventIdx,
				StartTime: g.clock.Format(time.RFC3339),
				Details:   feed.Details{Description: "Mound Visit"},
			})
			eventIdx++
		}

		pitchNo++
		des, inPlay := g.outcome()
		e := g.pitch(eventIdx, pitchNo, des, inPlay)
		switch {
		case inPlay:
		case des == classify.DesBall:
			balls++
		case des == classify.DesFoul:
			if strikes < 2 {
				strikes++
			}
		default:
			strikes++
		}
		e.Count = feed.Count{Balls: balls, Strikes: strikes, Outs: g.outs}
		ab.PitchIndex = append(ab.PitchIndex, eventIdx)
		ab.PlayEvents = append(ab.PlayEvents, e)
		eventIdx++

		switch {
		case inPlay:
			if g.rng.Float64() < 0.68 {
				g.outs++
				ab.Result = feed.AtBatResult{Event: "Field Out", EventType: "field_out"}
			} else {
				ab.Result = feed.AtBatResult{Event: "Single", EventType: "single"}
			}
			return ab
		case balls == 4:
			ab.Result = feed.AtBatResult{Event: "Walk", EventType: "walk"}
			return ab
		case strikes == 3:
			g.outs++
			ab.Result = feed.AtBatResult{Event: "Strikeout", EventType: "strikeout"}
			return ab
		}
	}
}

func (g *generator) outcome() (string, bool) {
	r := g.rng.Float64()
	switch {
	case r < 0.36:
		return classify.DesBall, false
	case r < 0.53:
		return classify.DesCalledStrike, false
	case r < 0.64:
		return classify.DesSwingingStrike, false
	case r < 0.82:
		return classify.DesFoul, false
	default:
		return [...]string{classify.DesInPlayOuts, classify.DesInPlayNoOut, classify.DesInPlayRuns}[g.rng.IntN(3)], true
	}
}

func (g *generator) pitch(eventIdx, pitchNo int, des string, inPlay bool) feed.PlayEvent {
	kind := arsenal[g.rng.IntN(len(arsenal))]
	top := round(3.3+g.rng.Float64()*0.35, 3)
	bot := round(1.5+g.rng.Float64()*0.2, 3)
	px := round(g.rng.NormFloat64()*0.85, 3)
	pz := round(2.5+g.rng.NormFloat64()*0.85, 3)

	e := feed.PlayEvent{
		Index:       eventIdx,
		PitchNumber: pitchNo,
		StartTime:   g.clock.Format("2006-01-02T15:04:05.000Z07:00"),
		IsPitch:     true,
		Details: feed.Details{
			Description: des,
			IsInPlay:    inPlay,
			IsStrike:    !inPlay && des != classify.DesBall,
			IsBall:      des == classify.DesBall,
			Type:        &feed.Code{Code: kind.code},
		},
		PitchData: &feed.PitchData{
			StartSpeed:       ptr(round(kind.speed+g.rng.NormFloat64()*1.2, 1)),
			EndSpeed:         ptr(round(kind.speed*0.91, 1)),
			StrikeZoneTop:    ptr(top),
			StrikeZoneBottom: ptr(bot),
			Zone:             ptr(zone(px, pz, top, bot)),
			PlateTime:        ptr(round(0.38+g.rng.Float64()*0.08, 3)),
			Extension:        ptr(round(6.0+g.rng.Float64(), 2)),
			Coordinates: feed.Coordinates{
				PfxX: ptr(round(g.rng.NormFloat64()*6, 2)),
				PfxZ: ptr(round(g.rng.NormFloat64()*6, 2)),
				PX:   ptr(px),
				PZ:   ptr(pz),
				X0:   ptr(round(-1.5+g.rng.Float64()*3, 2)),
				Y0:   ptr(50.0),
				Z0:   ptr(round(5.5+g.rng.Float64()*0.8, 2)),
				VX0:  ptr(round(g.rng.NormFloat64()*5, 2)),
				VY0:  ptr(round(-kind.speed*1.45, 2)),
				VZ0:  ptr(round(-4+g.rng.NormFloat64()*2, 2)),
				AX:   ptr(round(g.rng.NormFloat64()*10, 2)),
				AY:   ptr(round(25+g.rng.Float64()*8, 2)),
				AZ:   ptr(round(-30+g.rng.NormFloat64()*8, 2)),
			},
			Breaks: feed.Breaks{
				BreakAngle:    ptr(round(g.rng.NormFloat64()*20, 1)),
				BreakLength:   ptr(round(4+g.rng.Float64()*8, 1)),
				BreakY:        ptr(24.0),
				SpinRate:      ptr(math.Round(kind.spin + g.rng.NormFloat64()*90)),
				SpinDirection: ptr(math.Round(g.rng.Float64() * 360)),
			},
		},
	}
	if g.rng.Float64() >= g.cfg.MissingPlays {
		u, err := uuid.NewRandomFromReader(g.src)
		if err == nil {
			e.PlayID = ptr(u.String())
		}
	}
	if inPlay {
		e.HitData = &feed.HitData{
			LaunchSpeed:   ptr(round(70+g.rng.Float64()*45, 1)),
			LaunchAngle:   ptr(round(-20+g.rng.Float64()*70, 1)),
			TotalDistance: ptr(round(20+g.rng.Float64()*400, 0)),
			Trajectory:    trajectories[g.rng.IntN(len(trajectories))],
			Hardness:      hardness[g.rng.IntN(len(hardness))],
			Location:      strconv.Itoa(1 + g.rng.IntN(9)),
			Coordinates: feed.HitCoordinates{
				CoordX: ptr(round(20+g.rng.Float64()*210, 2)),
				CoordY: ptr(round(20+g.rng.Float64()*190, 2)),
			},
		}
	}
	g.clock = g.clock.Add(pitchInterval)
	return e
}

// zone numbers the 3x3 grid 1..9 and the four outside quadrants 11..14.
func zone(px, pz, top, bot float64) int {
	const half = classify.ZoneHalfWidth
	if classify.InsideStrikeZone(px, pz, top, bot) {
		col := int((px + half) / (2 * half / 3))
		row := int((top - pz) / ((top - bot) / 3))
		return row*3 + min(col, 2) + 1
	}
	mid := (top + bot) / 2
	switch {
	case px < 0 && pz >= mid:
		return 11
	case px >= 0 && pz >= mid:
		return 12
	case px < 0:
		return 13
	default:
		return 14
	}
}

func ptr[T any](v T) *T { return &v }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
