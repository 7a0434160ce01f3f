// Package ranking computes weighted power-ranking scores for NHL teams.
//
// Two variants are provided. The baseline ranking blends five independently
// capped components computed from a trailing window of games plus
// season-to-date standings. The improved ranking reweights recent form
// against full-season results and adds a capped win-streak bonus.
//
// All computations are pure: the engine holds configuration only, never
// state, so a single Engine is safe for concurrent use.
package ranking

import (
	"context"
	"math"
	"sort"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// Component caps. Each sub-score is clamped to [0, cap] before summation.
const (
	capRecent       = 75.0
	capSeason       = 25.0
	capPerformance  = 50.0
	capSpecialTeams = 30.0
	capQualityWins  = 20.0
)

// Baseline scoring constants.
//
// The trailing points percentage maps onto 0-65 so a perfect window plus a
// perfect road record tops out exactly at the recent cap. Season impact
// follows the standings convention of discounting non-regulation wins.
// Percentage-style inputs (PP%, PK%, close-game%, first-goal%) all use the
// same rule: percentage / 100 x share-of-cap.
const (
	recentPointsShare = 0.65 // points % -> 0-65
	roadBonusMax      = 10.0 // road win ratio -> 0-10

	regulationWinWeight = 2.0
	overtimeWinWeight   = 1.5
	shootoutWinWeight   = 1.0
	seasonScale         = 12.5 // weighted wins per game -> 0-25

	goalDiffWeight   = 2.0 // points per goal differential per game
	shotDiffWeight   = 1.0 // points per shot differential per game
	savePctFloor     = 85.0
	shootingPctFloor = 8.0
	pctExcessWeight  = 2.0 // points per percentage point above a floor

	specialTeamsShare = 0.15 // each of PP% and PK% -> half of the cap

	closeWinShare   = 0.08 // close-game win % -> 0-8
	comebackWinUnit = 1.5  // per comeback win
	maxComebackWins = 4    // comeback share tops out at 6
	firstGoalShare  = 0.06 // first-goal % -> 0-6
)

// Default window sizes.
const (
	defaultRecentGames = 10 // improved-variant trailing window
)

// Default improved-variant blend weights and streak bonus parameters.
const (
	defaultRecentWeight       = 0.45
	defaultSeasonWeight       = 0.30
	defaultSpecialTeamsWeight = 0.25

	defaultStreakMinLength = 3
	defaultStreakIncrement = 0.5
	defaultStreakBonusCap  = 4.0

	goalDiffNormLimit = 30.0 // season goal differential clamp
	goalDiffNormScale = 50.0 // +/-30 goals -> +/-50 on the percentage scale

	seasonPointsPctWeight = 0.6
	seasonGoalDiffWeight  = 0.2
	seasonLastTenWeight   = 0.2
)

// Engine computes rankings. Construct with New and configure via options.
type Engine struct {
	recentGames int

	recentWeight       float64
	seasonWeight       float64
	specialTeamsWeight float64

	streakMinLength int
	streakIncrement float64
	streakBonusCap  float64
}

// New creates an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		recentGames:        defaultRecentGames,
		recentWeight:       defaultRecentWeight,
		seasonWeight:       defaultSeasonWeight,
		specialTeamsWeight: defaultSpecialTeamsWeight,
		streakMinLength:    defaultStreakMinLength,
		streakIncrement:    defaultStreakIncrement,
		streakBonusCap:     defaultStreakBonusCap,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ComputeRankings computes the baseline ranking over a snapshot.
// Every team in the snapshot appears exactly once in the output; teams with
// missing data are scored from the components that remain and flagged
// partial. An empty snapshot returns ErrNoData.
func (e *Engine) ComputeRankings(ctx context.Context, snapshot []model.TeamSnapshot) ([]model.TeamScore, error) {
	if len(snapshot) == 0 {
		return nil, ErrNoData
	}

	scores := make([]model.TeamScore, 0, len(snapshot))
	for _, team := range snapshot {
		scores = append(scores, e.scoreTeam(team))
	}

	rankScores(scores)
	return scores, nil
}

// scoreTeam computes the baseline components for a single team.
func (e *Engine) scoreTeam(team model.TeamSnapshot) model.TeamScore {
	components := model.ComponentScores{
		Recent:       clamp(recentPerformance(team.Recent), capRecent),
		Season:       clamp(seasonImpact(team.Season), capSeason),
		Performance:  clamp(performanceMetrics(team.Season), capPerformance),
		SpecialTeams: clamp(specialTeams(team.Season), capSpecialTeams),
		QualityWins:  clamp(qualityWins(team.Recent), capQualityWins),
	}

	total := components.Recent + components.Season + components.Performance +
		components.SpecialTeams + components.QualityWins

	return model.TeamScore{
		TeamID:     team.TeamID,
		Score:      finite(total),
		Components: components,
		Partial:    isPartial(team),
	}
}

// recentPerformance maps the trailing-window points percentage onto 0-65
// and adds up to 10 points for the road-win ratio in that window.
func recentPerformance(games []model.RecentGameResult) float64 {
	if len(games) == 0 {
		return 0
	}

	points := 0
	roadGames := 0
	roadWins := 0
	for _, g := range games {
		points += g.Points()
		if !g.Home {
			roadGames++
			if g.Outcome == model.OutcomeWin {
				roadWins++
			}
		}
	}

	pointsPct := float64(points) / float64(len(games)*2) * 100

	roadBonus := 0.0
	if roadGames > 0 {
		roadBonus = roadBonusMax * float64(roadWins) / float64(roadGames)
	}

	return pointsPct*recentPointsShare + roadBonus
}

// seasonImpact weights regulation wins over overtime and shootout wins and
// normalizes by games played.
func seasonImpact(season *model.TeamSeasonStats) float64 {
	if season == nil || season.GamesPlayed <= 0 {
		return 0
	}

	weighted := float64(season.RegulationWins)*regulationWinWeight +
		float64(season.OvertimeWins)*overtimeWinWeight +
		float64(season.ShootoutWins)*shootoutWinWeight

	return weighted / float64(season.GamesPlayed) * seasonScale
}

// performanceMetrics scores per-game goal and shot differentials plus the
// excess of save and shooting percentages above their league floors.
func performanceMetrics(season *model.TeamSeasonStats) float64 {
	if season == nil || season.GamesPlayed <= 0 {
		return 0
	}

	gp := float64(season.GamesPlayed)
	goalDiff := float64(season.GoalsFor-season.GoalsAgainst) / gp
	shotDiff := float64(season.ShotsFor-season.ShotsAgainst) / gp

	return goalDiff*goalDiffWeight +
		shotDiff*shotDiffWeight +
		math.Max(0, season.SavePct-savePctFloor)*pctExcessWeight +
		math.Max(0, season.ShootingPct-shootingPctFloor)*pctExcessWeight
}

// specialTeams scales PP% and PK% into half the cap each.
func specialTeams(season *model.TeamSeasonStats) float64 {
	if season == nil {
		return 0
	}
	return season.PowerPlayPct*specialTeamsShare + season.PenaltyKillPct*specialTeamsShare
}

// qualityWins rewards winning close games, comeback wins and scoring first.
func qualityWins(games []model.RecentGameResult) float64 {
	if len(games) == 0 {
		return 0
	}

	closeGames := 0
	closeWins := 0
	comebacks := 0
	scoredFirst := 0
	for _, g := range games {
		if g.CloseGame() {
			closeGames++
			if g.Outcome == model.OutcomeWin {
				closeWins++
			}
		}
		if g.ComebackWin() {
			comebacks++
		}
		if g.ScoredFirst {
			scoredFirst++
		}
	}

	closeWinPct := 0.0
	if closeGames > 0 {
		closeWinPct = float64(closeWins) / float64(closeGames) * 100
	}
	firstGoalPct := float64(scoredFirst) / float64(len(games)) * 100

	if comebacks > maxComebackWins {
		comebacks = maxComebackWins
	}

	return closeWinPct*closeWinShare +
		float64(comebacks)*comebackWinUnit +
		firstGoalPct*firstGoalShare
}

// isPartial reports whether a team was scored from incomplete data.
func isPartial(team model.TeamSnapshot) bool {
	return team.Season == nil || team.Season.GamesPlayed <= 0 || len(team.Recent) == 0
}

// rankScores orders scores descending and assigns 1-based ranks.
// The sort is stable so ties retain input order.
func rankScores(scores []model.TeamScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
}

// clamp restricts v to [0, limit] and squashes NaN to zero.
func clamp(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// finite squashes NaN and infinities to zero so a bad input can never
// poison a whole ranking.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
