package nhl

import (
	"math"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// localizedName is the API's {"default": "..."} wrapper.
type localizedName struct {
	Default string `json:"default"`
}

type standingsResponse struct {
	Standings []standingsRow `json:"standings"`
}

// standingsRow mirrors one row of /v1/standings/now. Only the fields the
// ranking engine consumes are decoded.
type standingsRow struct {
	TeamAbbrev           localizedName `json:"teamAbbrev"`
	GamesPlayed          int           `json:"gamesPlayed"`
	Wins                 int           `json:"wins"`
	Losses               int           `json:"losses"`
	OTLosses             int           `json:"otLosses"`
	Points               int           `json:"points"`
	PointPctg            float64       `json:"pointPctg"`
	RegulationWins       int           `json:"regulationWins"`
	RegulationPlusOTWins int           `json:"regulationPlusOtWins"`
	ShootoutWins         int           `json:"shootoutWins"`
	GoalsFor             int           `json:"goalFor"`
	GoalsAgainst         int           `json:"goalAgainst"`
	ShotsForPerGame      float64       `json:"shotsForPerGame"`
	ShotsAgainstPerGame  float64       `json:"shotsAgainstPerGame"`
	PPGoals              float64       `json:"ppGoals"`
	PPOpportunities      float64       `json:"ppOpportunities"`
	PKGoalsAgainst       float64       `json:"pkGoalsAgainst"`
	TimesShorthanded     float64       `json:"timesShorthanded"`
	StreakCode           string        `json:"streakCode"`
	StreakCount          int           `json:"streakCount"`
}

// toSeasonStats converts a standings row into domain season stats.
//
// Normalization: the feed reports pointPctg on a 0-1 scale; it is scaled
// here to 0-100 so every percentage the engine sees shares one scale.
func (r standingsRow) toSeasonStats() model.TeamSeasonStats {
	shotsFor := int(math.Round(r.ShotsForPerGame * float64(r.GamesPlayed)))
	shotsAgainst := int(math.Round(r.ShotsAgainstPerGame * float64(r.GamesPlayed)))

	ppPct := 0.0
	if r.PPOpportunities > 0 {
		ppPct = r.PPGoals / r.PPOpportunities * 100
	}
	pkPct := 0.0
	if r.TimesShorthanded > 0 {
		pkPct = (r.TimesShorthanded - r.PKGoalsAgainst) / r.TimesShorthanded * 100
	}

	shootingPct := 0.0
	if shotsFor > 0 {
		shootingPct = float64(r.GoalsFor) / float64(shotsFor) * 100
	}
	savePct := 0.0
	if shotsAgainst > 0 {
		savePct = (1 - float64(r.GoalsAgainst)/float64(shotsAgainst)) * 100
	}

	overtimeWins := r.RegulationPlusOTWins - r.RegulationWins
	if overtimeWins < 0 {
		overtimeWins = 0
	}

	return model.TeamSeasonStats{
		TeamID:         r.TeamAbbrev.Default,
		GamesPlayed:    r.GamesPlayed,
		Wins:           r.Wins,
		Losses:         r.Losses,
		OTLosses:       r.OTLosses,
		Points:         r.Points,
		PointsPct:      r.PointPctg * 100,
		RegulationWins: r.RegulationWins,
		OvertimeWins:   overtimeWins,
		ShootoutWins:   r.ShootoutWins,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		ShotsFor:       shotsFor,
		ShotsAgainst:   shotsAgainst,
		PowerPlayPct:   ppPct,
		PenaltyKillPct: pkPct,
		SavePct:        savePct,
		ShootingPct:    shootingPct,
		StreakType:     r.StreakCode,
		StreakCount:    r.StreakCount,
	}
}

type scheduleResponse struct {
	Games         []scheduleGame `json:"games"`
	NextStartDate string         `json:"nextStartDate"`
}

type scheduleGame struct {
	ID        int    `json:"id"`
	GameDate  string `json:"gameDate"`
	GameType  int    `json:"gameType"`
	GameState string `json:"gameState"`
}

// completed reports whether the game has finished.
func (g scheduleGame) completed() bool {
	return g.GameState == "OFF" || g.GameState == "FINAL"
}

type boxscoreResponse struct {
	ID               int              `json:"id"`
	GameDate         string           `json:"gameDate"`
	GameState        string           `json:"gameState"`
	PeriodDescriptor periodDescriptor `json:"periodDescriptor"`
	HomeTeam         boxscoreTeam     `json:"homeTeam"`
	AwayTeam         boxscoreTeam     `json:"awayTeam"`
	Summary          boxscoreSummary  `json:"summary"`
}

type periodDescriptor struct {
	PeriodType string `json:"periodType"`
}

type boxscoreTeam struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
	SOG    int    `json:"sog"`
}

type boxscoreSummary struct {
	Scoring []goalEvent `json:"scoring"`
}

type goalEvent struct {
	TeamAbbrev localizedName `json:"teamAbbrev"`
	EmptyNet   bool          `json:"emptyNet"`
}
