package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pucklab/puckrank/internal/adapters/repository"
	"github.com/pucklab/puckrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(runID string, teams ...string) repository.Snapshot {
	scores := make([]model.TeamScore, len(teams))
	for i, team := range teams {
		scores[i] = model.TeamScore{
			Rank:   i + 1,
			TeamID: team,
			Score:  100 - float64(i)*10,
		}
	}
	return repository.Snapshot{RunID: runID, Scores: scores}
}

func TestParseVariant(t *testing.T) {
	Convey("Given variant names", t, func() {
		Convey("Then known names resolve", func() {
			v, err := repository.ParseVariant("baseline")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, repository.VariantBaseline)

			v, err = repository.ParseVariant("improved")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, repository.VariantImproved)
		})

		Convey("Then empty defaults to baseline", func() {
			v, err := repository.ParseVariant("")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, repository.VariantBaseline)
		})

		Convey("Then anything else is rejected", func() {
			_, err := repository.ParseVariant("elite")
			So(errors.Is(err, repository.ErrUnknownVariant), ShouldBeTrue)
		})
	})
}

func TestMemStore(t *testing.T) {
	Convey("Given an empty snapshot store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("Then reads report no snapshot", func() {
			_, err := store.Latest(ctx, repository.VariantBaseline)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)

			_, err = store.Previous(ctx, repository.VariantBaseline)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)

			_, err = store.TeamRank(ctx, repository.VariantBaseline, "BOS")
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)

			So(store.Count(ctx, repository.VariantBaseline), ShouldEqual, 0)
		})

		Convey("Then an empty snapshot is rejected", func() {
			err := store.SetRankings(ctx, repository.VariantBaseline, repository.Snapshot{RunID: "r0"})
			So(errors.Is(err, repository.ErrEmptySnapshot), ShouldBeTrue)
		})

		Convey("When the first snapshot is installed", func() {
			err := store.SetRankings(ctx, repository.VariantBaseline, snapshot("r1", "BOS", "COL", "DAL"))
			So(err, ShouldBeNil)

			Convey("Then it becomes the latest", func() {
				latest, err := store.Latest(ctx, repository.VariantBaseline)
				So(err, ShouldBeNil)
				So(latest.RunID, ShouldEqual, "r1")
				So(len(latest.Scores), ShouldEqual, 3)
				So(store.Count(ctx, repository.VariantBaseline), ShouldEqual, 3)
			})

			Convey("Then there is still no previous snapshot", func() {
				_, err := store.Previous(ctx, repository.VariantBaseline)
				So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			})

			Convey("Then team lookups hit the latest snapshot", func() {
				row, err := store.TeamRank(ctx, repository.VariantBaseline, "COL")
				So(err, ShouldBeNil)
				So(row.Rank, ShouldEqual, 2)

				_, err = store.TeamRank(ctx, repository.VariantBaseline, "VGK")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then other variants remain empty", func() {
				So(store.Count(ctx, repository.VariantImproved), ShouldEqual, 0)
			})

			Convey("And a second snapshot demotes the first", func() {
				err := store.SetRankings(ctx, repository.VariantBaseline, snapshot("r2", "COL", "BOS", "DAL"))
				So(err, ShouldBeNil)

				latest, err := store.Latest(ctx, repository.VariantBaseline)
				So(err, ShouldBeNil)
				So(latest.RunID, ShouldEqual, "r2")

				previous, err := store.Previous(ctx, repository.VariantBaseline)
				So(err, ShouldBeNil)
				So(previous.RunID, ShouldEqual, "r1")

				Convey("And a third snapshot drops the oldest", func() {
					err := store.SetRankings(ctx, repository.VariantBaseline, snapshot("r3", "DAL", "COL", "BOS"))
					So(err, ShouldBeNil)

					previous, err := store.Previous(ctx, repository.VariantBaseline)
					So(err, ShouldBeNil)
					So(previous.RunID, ShouldEqual, "r2")
				})
			})
		})

		Convey("When a snapshot has no timestamp", func() {
			fixed := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
			clocked := repository.NewMemStore(repository.WithClock(func() time.Time { return fixed }))

			err := clocked.SetRankings(ctx, repository.VariantImproved, snapshot("r1", "BOS"))
			So(err, ShouldBeNil)

			latest, err := clocked.Latest(ctx, repository.VariantImproved)
			So(err, ShouldBeNil)
			So(latest.ComputedAt, ShouldEqual, fixed)
		})

		Convey("When callers mutate a returned snapshot", func() {
			So(store.SetRankings(ctx, repository.VariantBaseline, snapshot("r1", "BOS", "COL")), ShouldBeNil)

			latest, _ := store.Latest(ctx, repository.VariantBaseline)
			latest.Scores[0].TeamID = "HACKED"

			again, _ := store.Latest(ctx, repository.VariantBaseline)
			So(again.Scores[0].TeamID, ShouldEqual, "BOS")
		})

		Convey("When accessed concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					for j := 0; j < 50; j++ {
						_ = store.SetRankings(ctx, repository.VariantBaseline, snapshot("run", "BOS", "COL"))
						_, _ = store.Latest(ctx, repository.VariantBaseline)
						_, _ = store.TeamRank(ctx, repository.VariantBaseline, "BOS")
					}
				}(i)
			}
			wg.Wait()

			So(store.Count(ctx, repository.VariantBaseline), ShouldEqual, 2)
		})
	})
}
