package ranking_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// contender returns season stats for a strong team.
func contender(teamID string) *model.TeamSeasonStats {
	return &model.TeamSeasonStats{
		TeamID:         teamID,
		GamesPlayed:    82,
		Wins:           52,
		Losses:         22,
		OTLosses:       8,
		Points:         112,
		PointsPct:      68.3,
		RegulationWins: 40,
		OvertimeWins:   8,
		ShootoutWins:   4,
		GoalsFor:       280,
		GoalsAgainst:   220,
		ShotsFor:       2700,
		ShotsAgainst:   2450,
		PowerPlayPct:   24.5,
		PenaltyKillPct: 83.0,
		SavePct:        91.2,
		ShootingPct:    10.8,
	}
}

// strugglers returns season stats for a weak team.
func strugglers(teamID string) *model.TeamSeasonStats {
	return &model.TeamSeasonStats{
		TeamID:         teamID,
		GamesPlayed:    82,
		Wins:           28,
		Losses:         44,
		OTLosses:       10,
		Points:         66,
		PointsPct:      40.2,
		RegulationWins: 20,
		OvertimeWins:   5,
		ShootoutWins:   3,
		GoalsFor:       210,
		GoalsAgainst:   275,
		ShotsFor:       2400,
		ShotsAgainst:   2650,
		PowerPlayPct:   15.0,
		PenaltyKillPct: 75.0,
		SavePct:        88.5,
		ShootingPct:    8.2,
	}
}

// winStreakGames builds a window of wins followed by losses, most recent first.
func winStreakGames(teamID string, wins, losses int) []model.RecentGameResult {
	games := make([]model.RecentGameResult, 0, wins+losses)
	day := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < wins; i++ {
		games = append(games, model.RecentGameResult{
			TeamID: teamID, GameID: 1000 + i, Date: day.AddDate(0, 0, -i),
			Outcome: model.OutcomeWin, GoalsFor: 4, GoalsAgainst: 2,
			ShotsFor: 32, ShotsAgainst: 28, Home: i%2 == 0, ScoredFirst: true,
		})
	}
	for i := 0; i < losses; i++ {
		games = append(games, model.RecentGameResult{
			TeamID: teamID, GameID: 2000 + i, Date: day.AddDate(0, 0, -(wins + i)),
			Outcome: model.OutcomeLoss, GoalsFor: 1, GoalsAgainst: 4,
			ShotsFor: 26, ShotsAgainst: 33, Home: i%2 == 1,
		})
	}
	return games
}

func TestComputeRankings(t *testing.T) {
	Convey("Given a ranking engine", t, func() {
		engine := ranking.New()
		ctx := context.Background()

		Convey("When the snapshot is empty", func() {
			_, err := engine.ComputeRankings(ctx, nil)
			So(err, ShouldEqual, ranking.ErrNoData)

			_, err = engine.ComputeRankings(ctx, []model.TeamSnapshot{})
			So(err, ShouldEqual, ranking.ErrNoData)
		})

		Convey("When ranking a full snapshot", func() {
			snapshot := []model.TeamSnapshot{
				{TeamID: "BOS", Season: contender("BOS"), Recent: winStreakGames("BOS", 5, 2)},
				{TeamID: "CHI", Season: strugglers("CHI"), Recent: winStreakGames("CHI", 1, 6)},
				{TeamID: "COL", Season: contender("COL"), Recent: winStreakGames("COL", 4, 3)},
				{TeamID: "SJS", Season: strugglers("SJS"), Recent: winStreakGames("SJS", 2, 5)},
			}

			scores, err := engine.ComputeRankings(ctx, snapshot)
			So(err, ShouldBeNil)

			Convey("Then every input team appears exactly once", func() {
				So(len(scores), ShouldEqual, len(snapshot))
				seen := map[string]int{}
				for _, s := range scores {
					seen[s.TeamID]++
				}
				for _, team := range snapshot {
					So(seen[team.TeamID], ShouldEqual, 1)
				}
			})

			Convey("Then ranks form a contiguous 1..T permutation", func() {
				ranks := map[int]bool{}
				for _, s := range scores {
					ranks[s.Rank] = true
				}
				for r := 1; r <= len(snapshot); r++ {
					So(ranks[r], ShouldBeTrue)
				}
			})

			Convey("Then the output is ordered descending by score", func() {
				for i := 1; i < len(scores); i++ {
					So(scores[i-1].Score, ShouldBeGreaterThanOrEqualTo, scores[i].Score)
					So(scores[i].Rank, ShouldEqual, scores[i-1].Rank+1)
				}
			})

			Convey("Then no component exceeds its cap or goes negative", func() {
				for _, s := range scores {
					So(s.Components.Recent, ShouldBeBetweenOrEqual, 0, 75)
					So(s.Components.Season, ShouldBeBetweenOrEqual, 0, 25)
					So(s.Components.Performance, ShouldBeBetweenOrEqual, 0, 50)
					So(s.Components.SpecialTeams, ShouldBeBetweenOrEqual, 0, 30)
					So(s.Components.QualityWins, ShouldBeBetweenOrEqual, 0, 20)
				}
			})
		})

		Convey("When ties occur, input order is retained", func() {
			empty := []model.TeamSnapshot{
				{TeamID: "AAA"},
				{TeamID: "BBB"},
				{TeamID: "CCC"},
			}
			scores, err := engine.ComputeRankings(ctx, empty)
			So(err, ShouldBeNil)
			So(scores[0].TeamID, ShouldEqual, "AAA")
			So(scores[1].TeamID, ShouldEqual, "BBB")
			So(scores[2].TeamID, ShouldEqual, "CCC")
		})

		Convey("When games played is zero", func() {
			season := contender("UTA")
			season.GamesPlayed = 0
			scores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{
				{TeamID: "UTA", Season: season},
			})
			So(err, ShouldBeNil)
			So(math.IsNaN(scores[0].Score), ShouldBeFalse)
			So(math.IsInf(scores[0].Score, 0), ShouldBeFalse)
			So(scores[0].Components.Season, ShouldEqual, 0)
			So(scores[0].Components.Performance, ShouldEqual, 0)
			So(scores[0].Partial, ShouldBeTrue)
		})

		Convey("When a team has no season stats at all", func() {
			scores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{
				{TeamID: "VGK", Recent: winStreakGames("VGK", 3, 2)},
				{TeamID: "DAL", Season: contender("DAL"), Recent: winStreakGames("DAL", 3, 2)},
			})
			So(err, ShouldBeNil)

			var partial model.TeamScore
			for _, s := range scores {
				if s.TeamID == "VGK" {
					partial = s
				}
			}
			So(partial.Partial, ShouldBeTrue)
			So(partial.Components.Season, ShouldEqual, 0)
			So(partial.Components.Performance, ShouldEqual, 0)
			So(partial.Components.SpecialTeams, ShouldEqual, 0)
			So(partial.Components.Recent, ShouldBeGreaterThan, 0)
		})

		Convey("When a team dominates every signal, it outranks a mediocre one", func() {
			// Perfect trailing window with no road games, strong season,
			// PP 25 / PK 85, save 92, shooting 11.
			hot := contender("CAR")
			hot.Points = 110
			hot.PowerPlayPct = 25
			hot.PenaltyKillPct = 85
			hot.SavePct = 92
			hot.ShootingPct = 11

			hotGames := make([]model.RecentGameResult, 7)
			for i := range hotGames {
				hotGames[i] = model.RecentGameResult{
					TeamID: "CAR", GameID: 3000 + i,
					Outcome: model.OutcomeWin, GoalsFor: 3, GoalsAgainst: 1,
					ShotsFor: 33, ShotsAgainst: 27, Home: true, ScoredFirst: true,
				}
			}

			cold := strugglers("ANA")
			cold.Points = 70
			cold.PowerPlayPct = 15
			cold.PenaltyKillPct = 75

			// 40% trailing points percentage: 2 wins, 3 losses.
			coldGames := winStreakGames("ANA", 2, 3)

			scores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{
				{TeamID: "ANA", Season: cold, Recent: coldGames},
				{TeamID: "CAR", Season: hot, Recent: hotGames},
			})
			So(err, ShouldBeNil)
			So(scores[0].TeamID, ShouldEqual, "CAR")
			So(scores[0].Rank, ShouldEqual, 1)
			So(scores[1].TeamID, ShouldEqual, "ANA")
		})

		Convey("When a single raw input increases, the score never decreases", func() {
			base := model.TeamSnapshot{
				TeamID: "NYR", Season: strugglers("NYR"), Recent: winStreakGames("NYR", 3, 4),
			}
			baseScores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{base})
			So(err, ShouldBeNil)

			bump := func(mutate func(*model.TeamSeasonStats)) float64 {
				season := *base.Season
				mutate(&season)
				scores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{
					{TeamID: "NYR", Season: &season, Recent: base.Recent},
				})
				So(err, ShouldBeNil)
				return scores[0].Score
			}

			So(bump(func(s *model.TeamSeasonStats) { s.PowerPlayPct += 5 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
			So(bump(func(s *model.TeamSeasonStats) { s.PenaltyKillPct += 5 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
			So(bump(func(s *model.TeamSeasonStats) { s.SavePct += 2 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
			So(bump(func(s *model.TeamSeasonStats) { s.ShootingPct += 2 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
			So(bump(func(s *model.TeamSeasonStats) { s.GoalsFor += 20 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
			So(bump(func(s *model.TeamSeasonStats) { s.RegulationWins += 4 }), ShouldBeGreaterThanOrEqualTo, baseScores[0].Score)
		})

		Convey("When inputs are absurdly large, components stay at their caps", func() {
			season := contender("EDM")
			season.GoalsFor = 10000
			season.ShotsFor = 100000
			season.RegulationWins = 82
			season.PowerPlayPct = 100
			season.PenaltyKillPct = 100

			wins := make([]model.RecentGameResult, 14)
			for i := range wins {
				wins[i] = model.RecentGameResult{
					TeamID: "EDM", GameID: 4000 + i,
					Outcome: model.OutcomeWin, GoalsFor: 3, GoalsAgainst: 2,
					ShotsFor: 40, ShotsAgainst: 20, Home: false, ScoredFirst: true,
				}
			}

			scores, err := engine.ComputeRankings(ctx, []model.TeamSnapshot{
				{TeamID: "EDM", Season: season, Recent: wins},
			})
			So(err, ShouldBeNil)
			c := scores[0].Components
			So(c.Recent, ShouldBeLessThanOrEqualTo, 75)
			So(c.Season, ShouldBeLessThanOrEqualTo, 25)
			So(c.Performance, ShouldBeLessThanOrEqualTo, 50)
			So(c.SpecialTeams, ShouldBeLessThanOrEqualTo, 30)
			So(c.QualityWins, ShouldBeLessThanOrEqualTo, 20)
			So(scores[0].Score, ShouldBeLessThanOrEqualTo, 75+25+50+30+20)
		})
	})
}
