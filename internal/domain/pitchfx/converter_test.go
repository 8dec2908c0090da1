package pitchfx_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pitchfx/internal/domain/classify"
	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	testGameID  = "BOS201904010"
	testGamePk  = 565432
	homePitcher = 100
	awayPitcher = 200
	homeBatter  = 300
	awayBatter  = 400
)

var testGameDate = time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newFeed(atBats ...feed.AtBat) *feed.GameFeed {
	f := &feed.GameFeed{GamePk: testGamePk}
	f.GameData.Game.GameNumber = 1
	f.GameData.Datetime.DateTime = "2019-04-01T17:05:00Z"
	f.GameData.Teams.Home.TeamCode = "bos"
	f.GameData.Teams.Away.TeamCode = "nya"
	f.LiveData.Plays.AllPlays = atBats
	return f
}

func atBat(index, inning int, half string, pitcher, batter int, events ...feed.PlayEvent) feed.AtBat {
	ab := feed.AtBat{
		About: feed.About{AtBatIndex: index, HalfInning: half, Inning: inning},
		Matchup: feed.Matchup{
			Pitcher:   &feed.Person{ID: ptr(pitcher), FullName: "Pitcher " + strconv.Itoa(pitcher)},
			Batter:    &feed.Person{ID: ptr(batter)},
			BatSide:   feed.Code{Code: "R"},
			PitchHand: feed.Code{Code: "L"},
		},
		Result:     feed.AtBatResult{Event: "Strikeout"},
		PlayEvents: events,
	}
	for _, e := range events {
		if e.IsPitch {
			ab.PitchIndex = append(ab.PitchIndex, e.Index)
		}
	}
	return ab
}

func pitch(index int, description string, px, pz float64) feed.PlayEvent {
	return feed.PlayEvent{
		Index:       index,
		PlayID:      ptr("play-" + strconv.Itoa(index)),
		PitchNumber: index + 1,
		StartTime:   "2019-04-01T17:10:30Z",
		IsPitch:     true,
		Details: feed.Details{
			Description: description,
			IsStrike:    description != classify.DesBall,
			IsBall:      description == classify.DesBall,
			Type:        &feed.Code{Code: "FF"},
		},
		PitchData: &feed.PitchData{
			StartSpeed:       ptr(94.1),
			StrikeZoneTop:    ptr(3.5),
			StrikeZoneBottom: ptr(1.5),
			Zone:             ptr(5),
			Coordinates:      feed.Coordinates{PX: ptr(px), PZ: ptr(pz)},
			Breaks:           feed.Breaks{SpinRate: ptr(2300.0)},
		},
	}
}

func threePitchAtBat(index, inning int, half string, pitcher, batter int) feed.AtBat {
	return atBat(index, inning, half, pitcher, batter,
		pitch(0, classify.DesCalledStrike, 0, 2.5),
		pitch(1, classify.DesSwingingStrike, 1.2, 2.5),
		feed.PlayEvent{Index: 2, IsPitch: false, Details: feed.Details{Description: "Mound Visit"}},
		pitch(3, classify.DesFoul, 0.3, 3.0),
	)
}

func convert(f *feed.GameFeed) (*pitchfx.Result, error) {
	return pitchfx.NewConverter().Convert(context.Background(), f, testGameDate, testGameID)
}

func TestConvertEndToEnd(t *testing.T) {
	Convey("Given two three-pitch at-bats by one pitcher in inning 1", t, func() {
		f := newFeed(
			threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter),
			threePitchAtBat(1, 1, feed.HalfTop, homePitcher, awayBatter),
		)

		res, err := convert(f)
		So(err, ShouldBeNil)

		Convey("It produces one application with total 6 in inning 1", func() {
			So(res.PitchCount, ShouldEqual, 6)
			So(res.Applications, ShouldHaveLength, 1)
			app := res.Applications[0]
			So(app.TotalPitchCount, ShouldEqual, 6)
			So(app.PitchCountByInning.Map(), ShouldResemble, map[int]int{1: 6})
			So(app.PitchAppID, ShouldEqual, "BOS201904010_100")
			So(app.PitcherTeamID, ShouldEqual, "BOS")
			So(app.OpponentTeamID, ShouldEqual, "NYA")

			raw, err := json.Marshal(app.PitchCountByInning)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"1":6}`)
		})

		Convey("It produces one log whose indices are 0..5 in encounter order", func() {
			So(res.Logs, ShouldHaveLength, 1)
			log := res.Logs[0]
			So(log.Pitches, ShouldHaveLength, 6)
			for i, rec := range log.Pitches {
				So(rec.ID, ShouldEqual, i)
			}
			So(log.TotalPitchCount, ShouldEqual, len(log.Pitches))
		})

		Convey("Game-level identifiers are derived", func() {
			So(res.BBGameID, ShouldEqual, "gid_2019_04_01_nyamlb_bosmlb_1")
			So(res.MLBGameID, ShouldEqual, testGamePk)
			app := res.Applications[0]
			So(app.GameDateYear, ShouldEqual, 2019)
			So(app.GameDateMonth, ShouldEqual, 4)
			So(app.GameDateDay, ShouldEqual, 1)
			So(app.GameTimeHour, ShouldEqual, 13)
			So(app.GameTimeMinute, ShouldEqual, 5)
			So(app.TimeZoneName, ShouldEqual, "America/New_York")
			So(app.PitchFxURL, ShouldContainSubstring, "pitchSel=100&game=565432")
			So(app.PitchLogURL, ShouldContainSubstring, "year=2019&month=04&day=01")
		})
	})
}

func TestConvertPitchRecord(t *testing.T) {
	Convey("Given a single at-bat", t, func() {
		res, err := convert(newFeed(threePitchAtBat(7, 2, feed.HalfBottom, awayPitcher, homeBatter)))
		So(err, ShouldBeNil)
		recs := res.Logs[0].Pitches
		So(recs, ShouldHaveLength, 3)

		Convey("Non-pitch events are filtered out", func() {
			So(recs[2].Description, ShouldEqual, classify.DesFoul)
		})

		Convey("The bottom half is pitched by the away team", func() {
			So(recs[0].PitcherTeamID, ShouldEqual, "NYA")
			So(recs[0].OpponentTeamID, ShouldEqual, "BOS")
			So(recs[0].HalfInning, ShouldEqual, feed.HalfBottom)
		})

		Convey("Times are normalized into the reference zone", func() {
			rec := recs[0]
			So(rec.TimePitchThrown.Location().String(), ShouldEqual, "America/New_York")
			So(rec.TimePitchThrown.Hour(), ShouldEqual, 13)
			So(rec.SecondsSinceGameStart, ShouldEqual, 330)
			So(rec.ParkSvID, ShouldEqual, "190401_131030bos")
		})

		Convey("Type, zone and swing flags are derived", func() {
			called := recs[0]
			So(called.Type, ShouldEqual, classify.TypeStrike)
			So(called.CalledStrike, ShouldBeTrue)
			So(called.InsideStrikeZone, ShouldBeTrue)
			So(called.NoSwingInsideZone, ShouldBeTrue)
			So(called.NoContactInsideZone, ShouldBeTrue)

			chase := recs[1]
			So(chase.SwingingStrike, ShouldBeTrue)
			So(chase.BatterDidSwing, ShouldBeTrue)
			So(chase.OutsideStrikeZone, ShouldBeTrue)
			So(chase.SwingOutsideZone, ShouldBeTrue)
			So(chase.NoContactOutsideZone, ShouldBeTrue)

			foul := recs[2]
			So(foul.BatterMadeContact, ShouldBeTrue)
			So(foul.ContactInsideZone, ShouldBeTrue)
			So(foul.IsFinalPitchOfAB, ShouldBeTrue)
			So(recs[0].IsFinalPitchOfAB, ShouldBeFalse)
		})

		Convey("At-bat fields are copied", func() {
			So(recs[0].AtBatID, ShouldEqual, 7)
			So(recs[0].AtBatTotal, ShouldEqual, 3)
			So(recs[2].AtBatCount, ShouldEqual, 4)
			So(recs[0].Inning, ShouldEqual, 2)
			So(recs[0].Stand, ShouldEqual, "R")
			So(recs[0].PThrows, ShouldEqual, "L")
			So(recs[0].PitchType, ShouldEqual, "FF")
			So(recs[0].HasZoneLocation, ShouldBeTrue)
			So(recs[0].ZoneLocation, ShouldEqual, 5)
		})

		Convey("Hit fields stay empty for pitches not in play", func() {
			for _, rec := range recs {
				So(rec.IsInPlay, ShouldBeFalse)
				So(rec.Trajectory, ShouldEqual, classify.Trajectory(""))
				So(rec.Hardness, ShouldEqual, classify.Hardness(""))
				So(rec.LaunchSpeed, ShouldEqual, 0)
				So(rec.IsBarreled, ShouldBeFalse)
			}
		})
	})
}

func TestConvertBattedBall(t *testing.T) {
	Convey("Given a ball put in play", t, func() {
		inPlay := pitch(0, classify.DesInPlayRuns, 0, 2.5)
		inPlay.Details.IsInPlay = true
		inPlay.HitData = &feed.HitData{
			LaunchSpeed:   ptr(100.4),
			LaunchAngle:   ptr(24.0),
			TotalDistance: ptr(402.0),
			Trajectory:    "fly_ball",
			Hardness:      "hard",
			Location:      "8",
			Coordinates:   feed.HitCoordinates{CoordX: ptr(120.5), CoordY: ptr(40.1)},
		}
		odd := pitch(1, classify.DesInPlayOuts, 0, 2.5)
		odd.Details.IsInPlay = true
		odd.HitData = &feed.HitData{Trajectory: "fly_ball_deep", Hardness: "hardish"}

		res, err := convert(newFeed(atBat(0, 1, feed.HalfTop, homePitcher, awayBatter, inPlay, odd)))
		So(err, ShouldBeNil)
		recs := res.Logs[0].Pitches

		Convey("Hit fields are populated", func() {
			rec := recs[0]
			So(rec.Type, ShouldEqual, classify.TypeInPlay)
			So(rec.IsInPlay, ShouldBeTrue)
			So(rec.LaunchSpeed, ShouldEqual, 100.4)
			So(rec.TotalDistance, ShouldEqual, 402.0)
			So(rec.Location, ShouldEqual, 8)
			So(rec.CoordX, ShouldEqual, 120.5)
			So(rec.Trajectory, ShouldEqual, classify.TrajectoryFlyBall)
			So(rec.RawTrajectory, ShouldEqual, "fly_ball")
			So(rec.RawHardness, ShouldEqual, "hard")
			So(rec.IsFlyBall, ShouldBeTrue)
			So(rec.IsGroundBall, ShouldBeFalse)
			So(rec.IsHardHit, ShouldBeTrue)
			So(rec.IsBarreled, ShouldBeTrue)
		})

		Convey("Unrecognized vocabulary maps to unknown", func() {
			rec := recs[1]
			So(rec.Trajectory, ShouldEqual, classify.TrajectoryUnknown)
			So(rec.Hardness, ShouldEqual, classify.HardnessUnknown)
			So(rec.RawTrajectory, ShouldEqual, "fly_ball_deep")
			So(rec.RawHardness, ShouldEqual, "hardish")
			So(rec.IsFlyBall, ShouldBeFalse)
			So(rec.IsHardHit, ShouldBeFalse)
			So(rec.IsBarreled, ShouldBeFalse)
		})
	})
}

func TestConvertGlobalIndex(t *testing.T) {
	Convey("Given at-bats alternating between pitchers and out-of-order innings", t, func() {
		f := newFeed(
			threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter),
			threePitchAtBat(1, 1, feed.HalfBottom, awayPitcher, homeBatter),
			threePitchAtBat(2, 3, feed.HalfTop, homePitcher, awayBatter),
			threePitchAtBat(3, 2, feed.HalfTop, homePitcher, awayBatter),
		)
		res, err := convert(f)
		So(err, ShouldBeNil)

		Convey("Pitchers appear in first-seen order", func() {
			So(res.Applications, ShouldHaveLength, 2)
			So(res.Applications[0].PitcherID, ShouldEqual, homePitcher)
			So(res.Applications[1].PitcherID, ShouldEqual, awayPitcher)
			So(res.Logs[0].PitcherID, ShouldEqual, homePitcher)
		})

		Convey("The pitch index is shared across the game", func() {
			var ids []int
			for _, rec := range res.Logs[0].Pitches {
				ids = append(ids, rec.ID)
			}
			So(ids, ShouldResemble, []int{0, 1, 2, 6, 7, 8, 9, 10, 11})
			var other []int
			for _, rec := range res.Logs[1].Pitches {
				other = append(other, rec.ID)
			}
			So(other, ShouldResemble, []int{3, 4, 5})
		})

		Convey("Totals agree with the logs and innings ascend", func() {
			sum := 0
			for i, app := range res.Applications {
				So(app.TotalPitchCount, ShouldEqual, len(res.Logs[i].Pitches))
				So(app.TotalPitchCount, ShouldEqual, app.PitchCountByInning.Total())
				sum += app.TotalPitchCount
			}
			So(sum, ShouldEqual, res.PitchCount)
			So(sum, ShouldEqual, 12)

			raw, err := json.Marshal(res.Applications[0].PitchCountByInning)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"1":3,"2":3,"3":3}`)
		})

		Convey("The pitch mix summarizes each pitch type", func() {
			mix := res.Logs[0].PitchMix
			So(mix, ShouldHaveLength, 1)
			So(mix[0].PitchType, ShouldEqual, "FF")
			So(mix[0].Count, ShouldEqual, 9)
			So(mix[0].Percent, ShouldEqual, 100.0)
			So(mix[0].MeanStartSpeed, ShouldEqual, 94.1)
			So(mix[0].StdDevStartSpeed, ShouldEqual, 0)
			So(mix[0].MeanSpinRate, ShouldEqual, 2300.0)
		})
	})
}

func TestConvertDegradedInput(t *testing.T) {
	Convey("Given at-bats that cannot be attributed", t, func() {
		noPitcher := threePitchAtBat(1, 1, feed.HalfTop, homePitcher, awayBatter)
		noPitcher.Matchup.Pitcher = nil
		noBatter := threePitchAtBat(2, 1, feed.HalfTop, homePitcher, awayBatter)
		noBatter.Matchup.Batter.ID = nil

		f := newFeed(
			threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter),
			noPitcher, noBatter,
		)
		res, err := convert(f)

		Convey("The game still converts and the skips are recorded", func() {
			So(err, ShouldBeNil)
			So(res.PitchCount, ShouldEqual, 3)
			So(res.Skipped, ShouldHaveLength, 2)
			So(res.Skipped[0].Reason, ShouldEqual, pitchfx.SkipMissingPitcher)
			So(res.Skipped[1].Reason, ShouldEqual, pitchfx.SkipMissingBatter)
			So(res.Skipped[1].PitchEvents, ShouldEqual, 3)
		})
	})

	Convey("Given at-bats with a blank or unusual half-inning", t, func() {
		f := newFeed(
			threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter),
			threePitchAtBat(1, 1, "", awayPitcher, homeBatter),
			threePitchAtBat(2, 2, " Middle ", awayPitcher, homeBatter),
		)
		res, err := convert(f)
		So(err, ShouldBeNil)

		Convey("No pitches are dropped", func() {
			So(res.Skipped, ShouldBeEmpty)
			So(res.PitchCount, ShouldEqual, 9)
			total := 0
			for _, app := range res.Applications {
				total += app.TotalPitchCount
			}
			So(total, ShouldEqual, res.PitchCount)
		})

		Convey("The away team is credited with the pitches", func() {
			So(res.Logs, ShouldHaveLength, 2)
			recs := res.Logs[1].Pitches
			So(recs, ShouldHaveLength, 6)
			So(recs[0].PitcherTeamID, ShouldEqual, "NYA")
			So(recs[0].OpponentTeamID, ShouldEqual, "BOS")
			So(recs[0].HalfInning, ShouldEqual, "")
			So(recs[3].HalfInning, ShouldEqual, "middle")
			So(res.Applications[1].PitchCountByInning.Map(), ShouldResemble, map[int]int{1: 3, 2: 3})
		})
	})

	Convey("Given a pitch with no tracking payload", t, func() {
		bare := feed.PlayEvent{Index: 0, IsPitch: true, Details: feed.Details{Description: classify.DesBall, IsBall: true}}
		res, err := convert(newFeed(atBat(0, 1, feed.HalfTop, homePitcher, awayBatter, bare)))
		So(err, ShouldBeNil)
		rec := res.Logs[0].Pitches[0]

		Convey("Every field resolves to a default", func() {
			So(rec.Type, ShouldEqual, classify.TypeBall)
			So(rec.PitchType, ShouldEqual, "UN")
			So(rec.StartSpeed, ShouldEqual, 0)
			So(rec.HasZoneLocation, ShouldBeFalse)
			So(rec.HasPitchLocation, ShouldBeFalse)
			So(rec.InsideStrikeZone, ShouldBeFalse)
			So(rec.OutsideStrikeZone, ShouldBeTrue)
			So(rec.ParkSvID, ShouldEqual, "")
			So(rec.TimePitchThrown.IsZero(), ShouldBeTrue)
			So(rec.SecondsSinceGameStart, ShouldEqual, 0)
		})

		Convey("A stable play id is derived", func() {
			So(rec.PlayGUID, ShouldNotBeEmpty)
			again, err := convert(newFeed(atBat(0, 1, feed.HalfTop, homePitcher, awayBatter, bare)))
			So(err, ShouldBeNil)
			So(again.Logs[0].Pitches[0].PlayGUID, ShouldEqual, rec.PlayGUID)
		})
	})
}

func TestConvertFatal(t *testing.T) {
	Convey("Given feeds missing top-level identifiers", t, func() {
		ctx := context.Background()
		c := pitchfx.NewConverter()

		Convey("A nil feed fails", func() {
			res, err := c.Convert(ctx, nil, testGameDate, testGameID)
			So(res, ShouldBeNil)
			So(errors.Is(err, pitchfx.ErrMissingIdentifier), ShouldBeTrue)
		})

		Convey("A missing team code fails", func() {
			f := newFeed(threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter))
			f.GameData.Teams.Away.TeamCode = " "
			res, err := c.Convert(ctx, f, testGameDate, testGameID)
			So(res, ShouldBeNil)
			So(errors.Is(err, pitchfx.ErrMissingIdentifier), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "away team code")
		})

		Convey("A missing game id fails", func() {
			f := newFeed()
			res, err := c.Convert(ctx, f, testGameDate, "")
			So(res, ShouldBeNil)
			So(errors.Is(err, pitchfx.ErrMissingIdentifier), ShouldBeTrue)
		})

		Convey("A missing gamePk falls back to the game block", func() {
			f := newFeed()
			f.GamePk = 0
			_, err := c.Convert(ctx, f, testGameDate, testGameID)
			So(errors.Is(err, pitchfx.ErrMissingIdentifier), ShouldBeTrue)

			f.GameData.Game.Pk = 42
			res, err := c.Convert(ctx, f, testGameDate, testGameID)
			So(err, ShouldBeNil)
			So(res.MLBGameID, ShouldEqual, 42)
			So(res.Applications, ShouldBeEmpty)
		})
	})
}

func TestConvertIdempotent(t *testing.T) {
	f := newFeed(
		threePitchAtBat(0, 1, feed.HalfTop, homePitcher, awayBatter),
		threePitchAtBat(1, 1, feed.HalfBottom, awayPitcher, homeBatter),
	)
	first, err := convert(f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := convert(f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("conversion is not deterministic (-first +second):\n%s", diff)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("encoded output differs between runs")
	}
}
