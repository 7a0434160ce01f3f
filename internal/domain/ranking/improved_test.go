package ranking_test

import (
	"context"
	"testing"

	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// streakSnapshot builds a snapshot whose only difference is the active win streak.
func streakSnapshot(teamID string, streak int) model.TeamSnapshot {
	season := contender(teamID)
	season.StreakType = "W"
	season.StreakCount = streak
	return model.TeamSnapshot{
		TeamID: teamID,
		Season: season,
		Recent: winStreakGames(teamID, 3, 4),
	}
}

func improvedScore(ctx context.Context, engine *ranking.Engine, snap model.TeamSnapshot) float64 {
	scores, err := engine.ComputeImproved(ctx, []model.TeamSnapshot{snap})
	So(err, ShouldBeNil)
	return scores[0].Score
}

func TestComputeImproved(t *testing.T) {
	Convey("Given a ranking engine with default improved weights", t, func() {
		engine := ranking.New()
		ctx := context.Background()

		Convey("When the snapshot is empty", func() {
			_, err := engine.ComputeImproved(ctx, nil)
			So(err, ShouldEqual, ranking.ErrNoData)
		})

		Convey("When teams differ only in win streak length", func() {
			s2 := improvedScore(ctx, engine, streakSnapshot("TOR", 2))
			s3 := improvedScore(ctx, engine, streakSnapshot("TOR", 3))
			s5 := improvedScore(ctx, engine, streakSnapshot("TOR", 5))
			s10 := improvedScore(ctx, engine, streakSnapshot("TOR", 10))
			s20 := improvedScore(ctx, engine, streakSnapshot("TOR", 20))

			Convey("Then streaks below the minimum earn no bonus", func() {
				s0 := improvedScore(ctx, engine, streakSnapshot("TOR", 0))
				So(s2, ShouldEqual, s0)
			})

			Convey("Then the bonus grows with streak length", func() {
				So(s3, ShouldBeGreaterThan, s2)
				So(s5, ShouldBeGreaterThan, s3)
				So(s10, ShouldBeGreaterThan, s5)
			})

			Convey("Then the bonus saturates at the cap", func() {
				So(s20, ShouldEqual, s10)
				So(s10-s2, ShouldAlmostEqual, 4.0, 1e-9)
			})

			Convey("Then an active 5-game streak beats a 2-game one", func() {
				So(s5-s2, ShouldAlmostEqual, 1.5, 1e-9)
			})
		})

		Convey("When the season streak is a losing one, no bonus applies", func() {
			losing := streakSnapshot("MTL", 6)
			losing.Season.StreakType = "L"
			withL := improvedScore(ctx, engine, losing)

			winning := streakSnapshot("MTL", 6)
			withW := improvedScore(ctx, engine, winning)

			So(withW-withL, ShouldAlmostEqual, 2.0, 1e-9)
		})

		Convey("When ranking multiple teams", func() {
			scores, err := engine.ComputeImproved(ctx, []model.TeamSnapshot{
				streakSnapshot("FLA", 8),
				{TeamID: "BUF", Season: strugglers("BUF"), Recent: winStreakGames("BUF", 1, 6)},
				streakSnapshot("WPG", 0),
			})
			So(err, ShouldBeNil)

			Convey("Then ranks are contiguous and ordered", func() {
				So(len(scores), ShouldEqual, 3)
				for i, s := range scores {
					So(s.Rank, ShouldEqual, i+1)
				}
				So(scores[0].TeamID, ShouldEqual, "FLA")
				So(scores[2].TeamID, ShouldEqual, "BUF")
			})
		})

		Convey("When a team has no season stats", func() {
			scores, err := engine.ComputeImproved(ctx, []model.TeamSnapshot{
				{TeamID: "SEA", Recent: winStreakGames("SEA", 4, 3)},
			})
			So(err, ShouldBeNil)
			So(scores[0].Partial, ShouldBeTrue)
			So(scores[0].Score, ShouldBeGreaterThanOrEqualTo, 0)
		})
	})

	Convey("Given an engine with custom streak bonus settings", t, func() {
		engine := ranking.New(ranking.WithStreakBonus(2, 1.0, 2.0))
		ctx := context.Background()

		Convey("Then the custom minimum, increment and cap apply", func() {
			s1 := improvedScore(ctx, engine, streakSnapshot("OTT", 1))
			s2 := improvedScore(ctx, engine, streakSnapshot("OTT", 2))
			s3 := improvedScore(ctx, engine, streakSnapshot("OTT", 3))
			s9 := improvedScore(ctx, engine, streakSnapshot("OTT", 9))

			So(s2-s1, ShouldAlmostEqual, 1.0, 1e-9)
			So(s3-s1, ShouldAlmostEqual, 2.0, 1e-9)
			So(s9, ShouldEqual, s3)
		})
	})
}
