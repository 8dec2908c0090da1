package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/pitchfx/internal/adapters/feedsource"
	"github.com/okian/pitchfx/internal/feedgen"
	"github.com/okian/pitchfx/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGameIDs(t *testing.T) {
	Convey("Given a first slate date", t, func() {
		first := time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)

		Convey("When more games are requested than there are home teams", func() {
			ids := gameIDs(first, len(homeTeams)+2)

			Convey("Then the overflow rolls onto the next day", func() {
				So(len(ids), ShouldEqual, len(homeTeams)+2)
				So(ids[0], ShouldEqual, "BOS201904010")
				So(ids[len(homeTeams)], ShouldEqual, "BOS201904020")
				So(ids[len(homeTeams)+1], ShouldEqual, "NYA201904020")
			})
		})

		Convey("Then no team ever visits itself", func() {
			for i := range homeTeams {
				So(visitor(i), ShouldNotEqual, homeTeams[i])
			}
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := filepath.Join(t.TempDir(), "feeds")
		first := time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)

		Convey("When generating three games", func() {
			m, err := generate(dir, first, 3, 7, "", 0)

			Convey("Then feeds and a matching manifest are written", func() {
				So(err, ShouldBeNil)
				So(len(m.Games), ShouldEqual, 3)
				So(m.Games[1].Seed, ShouldEqual, 8)

				back, err := feedgen.ReadManifest(filepath.Join(dir, manifestName))
				So(err, ShouldBeNil)
				So(back, ShouldResemble, m)

				files, err := feedsource.NewDir(dir).Files()
				So(err, ShouldBeNil)
				So(len(files), ShouldEqual, 3)
			})
		})

		Convey("When the game count is not positive", func() {
			_, err := generate(dir, first, 0, 1, "", 0)

			Convey("Then generation fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
