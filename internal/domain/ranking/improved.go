package ranking

import (
	"context"
	"math"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// ComputeImproved computes the improved-variant ranking over a snapshot.
//
// The total blends three components: the baseline recent-performance
// calculation over the last ten games (45%), a season component mixing
// points percentage, normalized goal differential and last-ten points
// percentage (30%), and a special-teams component averaging PP% and PK%
// (25%). Teams on a win streak of at least three games earn an additive
// bonus of (streak - 2) x increment, capped so long streaks cannot run
// away with the ranking.
func (e *Engine) ComputeImproved(ctx context.Context, snapshot []model.TeamSnapshot) ([]model.TeamScore, error) {
	if len(snapshot) == 0 {
		return nil, ErrNoData
	}

	scores := make([]model.TeamScore, 0, len(snapshot))
	for _, team := range snapshot {
		scores = append(scores, e.scoreImproved(team))
	}

	rankScores(scores)
	return scores, nil
}

func (e *Engine) scoreImproved(team model.TeamSnapshot) model.TeamScore {
	window := lastN(team.Recent, e.recentGames)

	recent := clamp(recentPerformance(window), capRecent)
	season := e.seasonBlend(team.Season, window)
	special := improvedSpecialTeams(team.Season)

	total := recent*e.recentWeight +
		season*e.seasonWeight +
		special*e.specialTeamsWeight +
		e.streakBonus(team)

	return model.TeamScore{
		TeamID: team.TeamID,
		Score:  finite(total),
		Components: model.ComponentScores{
			Recent:       recent,
			Season:       season,
			SpecialTeams: special,
		},
		Partial: isPartial(team),
	}
}

// seasonBlend mixes season points percentage, normalized goal differential
// and the last-ten points percentage. The result is clamped non-negative so
// a deeply underwater goal differential contributes zero rather than
// dragging the component below the floor.
func (e *Engine) seasonBlend(season *model.TeamSeasonStats, window []model.RecentGameResult) float64 {
	if season == nil {
		return 0
	}

	diff := float64(season.GoalsFor - season.GoalsAgainst)
	normDiff := math.Max(-goalDiffNormLimit, math.Min(goalDiffNormLimit, diff)) /
		goalDiffNormLimit * goalDiffNormScale

	lastTenPct := 0.0
	if len(window) > 0 {
		points := 0
		for _, g := range window {
			points += g.Points()
		}
		lastTenPct = float64(points) / float64(len(window)*2) * 100
	}

	blend := season.PointsPct*seasonPointsPctWeight +
		normDiff*seasonGoalDiffWeight +
		lastTenPct*seasonLastTenWeight

	return math.Max(0, blend)
}

// improvedSpecialTeams averages PP% and PK%.
func improvedSpecialTeams(season *model.TeamSeasonStats) float64 {
	if season == nil {
		return 0
	}
	return season.PowerPlayPct*0.5 + season.PenaltyKillPct*0.5
}

// streakBonus returns the win-streak bonus. The streak is taken from the
// standings feed when available, otherwise counted off the recent games.
// Bonuses start at the configured minimum streak length and grow linearly
// until the cap.
func (e *Engine) streakBonus(team model.TeamSnapshot) float64 {
	streak := 0
	if team.Season != nil && team.Season.StreakType == "W" {
		streak = team.Season.StreakCount
	} else if team.Season == nil {
		streak = currentWinStreak(team.Recent)
	}

	if streak < e.streakMinLength {
		return 0
	}

	bonus := float64(streak-e.streakMinLength+1) * e.streakIncrement
	return math.Min(e.streakBonusCap, bonus)
}

// currentWinStreak counts consecutive wins from the most recent game.
func currentWinStreak(games []model.RecentGameResult) int {
	streak := 0
	for _, g := range games {
		if g.Outcome != model.OutcomeWin {
			break
		}
		streak++
	}
	return streak
}

// lastN returns the first n elements of games (games are ordered most
// recent first), or all of them when fewer are available.
func lastN(games []model.RecentGameResult, n int) []model.RecentGameResult {
	if n <= 0 || len(games) <= n {
		return games
	}
	return games[:n]
}
