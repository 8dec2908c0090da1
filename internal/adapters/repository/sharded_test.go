package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/pitchfx/internal/adapters/repository"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	. "github.com/smartystreets/goconvey/convey"
)

func result(gameID string, pitchers ...int) *pitchfx.Result {
	res := &pitchfx.Result{GameID: gameID}
	for _, id := range pitchers {
		app := pitchfx.Appearance{PitcherID: id, BBRefGameID: gameID, TotalPitchCount: id % 100}
		res.Applications = append(res.Applications, pitchfx.PitchApplication{Appearance: app})
		res.Logs = append(res.Logs, pitchfx.PitchFxLog{Appearance: app})
		res.PitchCount += app.TotalPitchCount
	}
	return res
}

func TestShardedStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewShardedStore(repository.WithShardCount(4))

		So(s.Count(ctx), ShouldEqual, 0)
		So(s.GameIDs(ctx), ShouldBeEmpty)

		Convey("When a game is stored", func() {
			So(s.Put(ctx, result("BOS201904010", 101, 202)), ShouldBeNil)

			Convey("Then it can be read back whole", func() {
				res, err := s.Game(ctx, "BOS201904010")
				So(err, ShouldBeNil)
				So(res.Applications, ShouldHaveLength, 2)
				So(s.Count(ctx), ShouldEqual, 1)
				So(s.ApplicationCount(), ShouldEqual, 2)
			})

			Convey("Then each pitcher is addressable by (game, pitcher)", func() {
				app, err := s.Application(ctx, repository.Key{GameID: "BOS201904010", PitcherID: 202})
				So(err, ShouldBeNil)
				So(app.PitcherID, ShouldEqual, 202)

				log, err := s.Log(ctx, repository.Key{GameID: "BOS201904010", PitcherID: 101})
				So(err, ShouldBeNil)
				So(log.PitcherID, ShouldEqual, 101)
			})

			Convey("Then unknown keys are not found", func() {
				_, err := s.Application(ctx, repository.Key{GameID: "BOS201904010", PitcherID: 999})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				_, err = s.Log(ctx, repository.Key{GameID: "NYA201904010", PitcherID: 101})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				_, err = s.Game(ctx, "NYA201904010")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the game is stored again with fewer pitchers", func() {
				So(s.Put(ctx, result("BOS201904010", 101)), ShouldBeNil)

				Convey("Then it replaces the earlier result", func() {
					So(s.Count(ctx), ShouldEqual, 1)
					So(s.ApplicationCount(), ShouldEqual, 1)
					_, err := s.Application(ctx, repository.Key{GameID: "BOS201904010", PitcherID: 202})
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})
			})
		})

		Convey("When several games are stored", func() {
			for _, id := range []string{"SFN201907040", "ATL201905120", "BOS201904010"} {
				So(s.Put(ctx, result(id, 1)), ShouldBeNil)
			}

			Convey("Then ids and results are listed in order", func() {
				So(s.GameIDs(ctx), ShouldResemble, []string{"ATL201905120", "BOS201904010", "SFN201907040"})
				results := s.Results(ctx)
				So(results, ShouldHaveLength, 3)
				So(results[0].GameID, ShouldEqual, "ATL201905120")
			})
		})

		Convey("When a nil result is stored", func() {
			err := s.Put(ctx, nil)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrNilResult), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 0)
			})
		})
	})

	Convey("Given concurrent writers", t, func() {
		s := repository.NewShardedStore()
		const writers, perWriter = 8, 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					_ = s.Put(ctx, result(fmt.Sprintf("G%02d%04d", w, i), 1, 2))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every game and application is counted", func() {
			So(s.Count(ctx), ShouldEqual, writers*perWriter)
			So(s.ApplicationCount(), ShouldEqual, 2*writers*perWriter)
			So(s.GameIDs(ctx), ShouldHaveLength, writers*perWriter)
		})
	})
}
