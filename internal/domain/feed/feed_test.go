package feed_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/pitchfx/internal/domain/feed"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleFeed = `{
  "gamePk": 566083,
  "gameData": {
    "game": {"pk": 566083, "id": "2019/04/01/nyamlb-bosmlb-1", "gameNumber": 1},
    "datetime": {"dateTime": "2019-04-01T17:05:00Z"},
    "teams": {
      "home": {"id": 111, "name": "Boston Red Sox", "teamCode": "bos"},
      "away": {"id": 147, "name": "New York Yankees", "teamCode": " nya "}
    }
  },
  "liveData": {"plays": {"allPlays": [{
    "result": {"event": "Single", "eventType": "single"},
    "about": {"atBatIndex": 0, "halfInning": "top", "inning": 1},
    "matchup": {
      "batter": {"id": 592450, "fullName": "Aaron Judge"},
      "pitcher": {"id": 519242, "fullName": "Chris Sale"},
      "batSide": {"code": "R"},
      "pitchHand": {"code": "L"}
    },
    "pitchIndex": [0, 2],
    "playEvents": [
      {"index": 0, "isPitch": true, "playId": "a1", "details": {"description": "Ball", "type": {"code": "FF"}},
       "pitchData": {"startSpeed": 95.1, "coordinates": {"pX": 0.2, "pZ": 2.5}}},
      {"index": 1, "isPitch": false, "details": {"description": "Mound Visit."}},
      {"index": 2, "isPitch": true, "details": {"description": "In play, no out", "isInPlay": true},
       "hitData": {"launchSpeed": 101.2, "launchAngle": 12, "location": "8", "trajectory": "line_drive"}},
      {"index": 3, "isPitch": true, "details": {"description": "Ball"}}
    ]
  }]}}
}`

func TestDecode(t *testing.T) {
	Convey("Given a sample feed document", t, func() {
		f, err := feed.Decode(strings.NewReader(sampleFeed))
		So(err, ShouldBeNil)

		Convey("Then game identifiers are normalized", func() {
			So(f.MLBGameID(), ShouldEqual, 566083)
			So(f.HomeTeamID(), ShouldEqual, "BOS")
			So(f.AwayTeamID(), ShouldEqual, "NYA")
		})

		Convey("Then the start time parses as UTC", func() {
			start, ok := f.StartTime()
			So(ok, ShouldBeTrue)
			So(start.Equal(time.Date(2019, time.April, 1, 17, 5, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Then the matchup resolves", func() {
			ab := &f.AtBats()[0]
			pid, ok := ab.PitcherID()
			So(ok, ShouldBeTrue)
			So(pid, ShouldEqual, 519242)
			So(ab.PitcherName(), ShouldEqual, "Chris Sale")
			bid, ok := ab.BatterID()
			So(ok, ShouldBeTrue)
			So(bid, ShouldEqual, 592450)
		})

		Convey("Then only indexed pitch events are kept", func() {
			events := f.AtBats()[0].PitchEvents()
			So(len(events), ShouldEqual, 2)
			So(events[0].Index, ShouldEqual, 0)
			So(events[1].Index, ShouldEqual, 2)
		})

		Convey("Then optional payloads collapse to defaults", func() {
			events := f.AtBats()[0].PitchEvents()
			So(feed.Value(events[0].Pitch().StartSpeed), ShouldEqual, 95.1)
			So(feed.Value(events[0].Pitch().StrikeZoneTop), ShouldEqual, 0)
			So(events[0].PitchTypeCode(), ShouldEqual, "FF")
			So(events[1].PitchTypeCode(), ShouldEqual, "UN")
			So(events[1].Pitch().StartSpeed, ShouldBeNil)
			So(events[1].Hit().LocationNumber(), ShouldEqual, 8)
			So(events[0].Hit().LocationNumber(), ShouldEqual, 0)
			So(events[0].PlayID, ShouldNotBeNil)
			So(events[1].PlayID, ShouldBeNil)
		})
	})

	Convey("Given malformed input", t, func() {
		_, err := feed.Decode(strings.NewReader(`{"gamePk": "x"`))

		Convey("Then Decode reports ErrDecode", func() {
			So(errors.Is(err, feed.ErrDecode), ShouldBeTrue)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := feed.DecodeFile(filepath.Join(t.TempDir(), "absent.json"))

		Convey("Then DecodeFile reports ErrDecode", func() {
			So(errors.Is(err, feed.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestAccessorsOnEmptyFeed(t *testing.T) {
	Convey("Given a feed with no identifiers", t, func() {
		f := &feed.GameFeed{}

		Convey("Then accessors return zero values", func() {
			So(f.MLBGameID(), ShouldEqual, 0)
			So(f.HomeTeamID(), ShouldEqual, "")
			So(f.AtBats(), ShouldBeEmpty)
			_, ok := f.StartTime()
			So(ok, ShouldBeFalse)
		})

		Convey("Then the nested game pk is used as a fallback", func() {
			f.GameData.Game.Pk = 42
			So(f.MLBGameID(), ShouldEqual, 42)
		})

		Convey("Then an at-bat without a matchup has no pitcher or batter", func() {
			ab := &feed.AtBat{}
			_, ok := ab.PitcherID()
			So(ok, ShouldBeFalse)
			_, ok = ab.BatterID()
			So(ok, ShouldBeFalse)
			So(ab.PitcherName(), ShouldEqual, "")
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2019-04-01T17:10:30.123Z", true},
		{"2019-04-01T17:10:30Z", true},
		{"  ", false},
		{"04/01/2019", false},
	}
	for _, tc := range cases {
		if _, ok := feed.ParseTimestamp(tc.in); ok != tc.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestParseGameID(t *testing.T) {
	Convey("Given bbref-style game ids", t, func() {
		Convey("When the id is a single game", func() {
			id, err := feed.ParseGameID("BOS201904010")

			Convey("Then home team, date and game number are extracted", func() {
				So(err, ShouldBeNil)
				So(id.HomeTeam, ShouldEqual, "BOS")
				So(id.Date.Equal(time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(id.GameNumber, ShouldEqual, 0)
				So(id.Raw, ShouldEqual, "BOS201904010")
			})
		})

		Convey("When the id is the second game of a doubleheader", func() {
			id, err := feed.ParseGameID("NYA201907042")
			So(err, ShouldBeNil)
			So(id.GameNumber, ShouldEqual, 2)
		})

		Convey("When the id is malformed", func() {
			for _, bad := range []string{"", "bos201904010", "BOS20190401", "BOS201913010", "BOS2019040100"} {
				_, err := feed.ParseGameID(bad)
				So(errors.Is(err, feed.ErrInvalidGameID), ShouldBeTrue)
			}
		})
	})
}
