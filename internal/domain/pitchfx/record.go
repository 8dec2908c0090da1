package pitchfx

import (
	"time"

	"github.com/okian/pitchfx/internal/domain/classify"
	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/pkg/metrics"
)

// atBatContext is what every pitch of one at-bat shares.
type atBatContext struct {
	ab             *feed.AtBat
	pitcherID      int
	batterID       int
	half           string
	pitcherTeam    string
	opponentTeam   string
	pitchAppID     string
	pitchesInAtBat int
}

// classify builds one PitchRecord. Absent fields resolve to zero values;
// nothing here fails.
func (cv *conversion) classify(e *feed.PlayEvent, pitchIndex int, actx atBatContext) PitchRecord {
	ab := actx.ab
	pd := e.Pitch()
	co := pd.Coordinates
	br := pd.Breaks
	des := e.Details.Description

	rec := PitchRecord{
		ID:             cv.pitchCount,
		PitchAppID:     actx.pitchAppID,
		BBGameID:       cv.bbGameID,
		BBRefGameID:    cv.gameID,
		MLBGameID:      cv.mlbID,
		PitcherID:      actx.pitcherID,
		PitcherName:    ab.PitcherName(),
		BatterID:       actx.batterID,
		PitcherTeamID:  actx.pitcherTeam,
		OpponentTeamID: actx.opponentTeam,

		Inning:      ab.About.Inning,
		HalfInning:  actx.half,
		AtBatID:     ab.About.AtBatIndex,
		AtBatTotal:  actx.pitchesInAtBat,
		AtBatCount:  e.PitchNumber,
		AtBatResult: ab.Result.Event,
		Stand:       ab.Matchup.BatSide.Code,
		PThrows:     ab.Matchup.PitchHand.Code,
		Balls:       e.Count.Balls,
		Strikes:     e.Count.Strikes,

		Type:        classify.TypeCode(e.Details.IsInPlay, e.Details.IsStrike, e.Details.IsBall),
		Description: des,
		PitchType:   e.PitchTypeCode(),

		StartSpeed:    feed.Value(pd.StartSpeed),
		SzTop:         feed.Value(pd.StrikeZoneTop),
		SzBot:         feed.Value(pd.StrikeZoneBottom),
		PfxX:          feed.Value(co.PfxX),
		PfxZ:          feed.Value(co.PfxZ),
		PX:            feed.Value(co.PX),
		PZ:            feed.Value(co.PZ),
		X0:            feed.Value(co.X0),
		Y0:            feed.Value(co.Y0),
		Z0:            feed.Value(co.Z0),
		VX0:           feed.Value(co.VX0),
		VY0:           feed.Value(co.VY0),
		VZ0:           feed.Value(co.VZ0),
		AX:            feed.Value(co.AX),
		AY:            feed.Value(co.AY),
		AZ:            feed.Value(co.AZ),
		PlateTime:     feed.Value(pd.PlateTime),
		Extension:     feed.Value(pd.Extension),
		BreakAngle:    feed.Value(br.BreakAngle),
		BreakLength:   feed.Value(br.BreakLength),
		BreakY:        feed.Value(br.BreakY),
		SpinRate:      feed.Value(br.SpinRate),
		SpinDirection: feed.Value(br.SpinDirection),
		ZoneLocation:  feed.Value(pd.Zone),

		HasZoneLocation:  pd.Zone != nil,
		IsFinalPitchOfAB: pitchIndex == actx.pitchesInAtBat-1,
	}

	if e.PlayID != nil && *e.PlayID != "" {
		rec.PlayGUID = *e.PlayID
	} else {
		rec.PlayGUID = fallbackPlayID(cv.gameID, ab.About.AtBatIndex, pitchIndex)
		metrics.RecordFallbackPlayID()
	}

	cv.stampTimes(&rec, e)
	classifyZone(&rec, pd)
	if e.Details.IsInPlay {
		classifyBattedBall(&rec, e.Hit())
	}
	return rec
}

func (cv *conversion) stampTimes(rec *PitchRecord, e *feed.PlayEvent) {
	if cv.hasGameStart {
		rec.GameStartTime = cv.gameStart
	}
	thrown, ok := feed.ParseTimestamp(e.StartTime)
	if !ok {
		return
	}
	thrown = thrown.In(cv.c.loc)
	rec.TimePitchThrown = thrown
	rec.ParkSvID = parkSvID(thrown, cv.home)
	if cv.hasGameStart {
		rec.SecondsSinceGameStart = int(thrown.Sub(cv.gameStart) / time.Second)
	}
}

// classifyZone sets the zone, swing and contact flags. A pitch without
// complete plate geometry is never inside the zone.
func classifyZone(rec *PitchRecord, pd feed.PitchData) {
	co := pd.Coordinates
	rec.HasPitchLocation = co.PX != nil && co.PZ != nil && pd.StrikeZoneTop != nil && pd.StrikeZoneBottom != nil

	inside := rec.HasPitchLocation && classify.InsideStrikeZone(rec.PX, rec.PZ, rec.SzTop, rec.SzBot)
	swing := classify.DidSwing(rec.Description)
	contact := classify.MadeContact(rec.Description)

	rec.BatterDidSwing = swing
	rec.BatterMadeContact = contact
	rec.CalledStrike = classify.CalledStrike(rec.Description)
	rec.SwingingStrike = classify.SwingingStrike(rec.Description)
	rec.InsideStrikeZone = inside
	rec.OutsideStrikeZone = !inside
	rec.SwingInsideZone = swing && inside
	rec.SwingOutsideZone = swing && !inside
	rec.NoSwingInsideZone = !swing && inside
	rec.NoSwingOutsideZone = !swing && !inside
	rec.ContactInsideZone = contact && inside
	rec.ContactOutsideZone = contact && !inside
	rec.NoContactInsideZone = !contact && inside
	rec.NoContactOutsideZone = !contact && !inside
}

func classifyBattedBall(rec *PitchRecord, h feed.HitData) {
	rec.IsInPlay = true
	rec.LaunchSpeed = feed.Value(h.LaunchSpeed)
	rec.LaunchAngle = feed.Value(h.LaunchAngle)
	rec.TotalDistance = feed.Value(h.TotalDistance)
	rec.Location = h.LocationNumber()
	rec.CoordX = feed.Value(h.Coordinates.CoordX)
	rec.CoordY = feed.Value(h.Coordinates.CoordY)

	traj, ok := classify.ParseTrajectory(h.Trajectory)
	if !ok && h.Trajectory != "" {
		metrics.RecordUnknownVocabulary("trajectory")
	}
	rec.Trajectory = traj
	rec.RawTrajectory = h.Trajectory
	rec.IsGroundBall = traj == classify.TrajectoryGroundBall
	rec.IsFlyBall = traj == classify.TrajectoryFlyBall
	rec.IsLineDrive = traj == classify.TrajectoryLineDrive
	rec.IsPopup = traj == classify.TrajectoryPopup

	hard, ok := classify.ParseHardness(h.Hardness)
	if !ok && h.Hardness != "" {
		metrics.RecordUnknownVocabulary("hardness")
	}
	rec.Hardness = hard
	rec.RawHardness = h.Hardness
	rec.IsHardHit = hard == classify.HardnessHard
	rec.IsMediumHit = hard == classify.HardnessMedium
	rec.IsSoftHit = hard == classify.HardnessSoft

	if h.LaunchSpeed != nil && h.LaunchAngle != nil {
		rec.IsBarreled = classify.Barrel(rec.LaunchSpeed, rec.LaunchAngle)
	}
}
