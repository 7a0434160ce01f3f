package simulate

import (
	"log"
	"math/rand"
	"time"

	"github.com/pucklab/puckrank/internal/domain/directory"
	"github.com/pucklab/puckrank/internal/domain/model"
)

// archetype describes the statistical profile a simulated team is drawn
// from. Probabilities are per game; rates are per-game averages.
type archetype struct {
	name        string
	winProb     float64
	goalsFor    float64
	goalsAgnst  float64
	shotsFor    float64
	shotsAgnst  float64
	ppPct       float64
	pkPct       float64
	scoredFirst float64
}

// League archetypes, cycled across the 32 teams.
var archetypes = []archetype{
	{name: "contender", winProb: 0.68, goalsFor: 3.6, goalsAgnst: 2.5, shotsFor: 33, shotsAgnst: 27, ppPct: 26, pkPct: 84, scoredFirst: 0.62},
	{name: "playoff", winProb: 0.58, goalsFor: 3.2, goalsAgnst: 2.8, shotsFor: 31, shotsAgnst: 29, ppPct: 22, pkPct: 81, scoredFirst: 0.55},
	{name: "bubble", winProb: 0.50, goalsFor: 3.0, goalsAgnst: 3.0, shotsFor: 30, shotsAgnst: 30, ppPct: 20, pkPct: 79, scoredFirst: 0.50},
	{name: "fading", winProb: 0.42, goalsFor: 2.8, goalsAgnst: 3.2, shotsFor: 29, shotsAgnst: 31, ppPct: 18, pkPct: 77, scoredFirst: 0.46},
	{name: "rebuilding", winProb: 0.34, goalsFor: 2.5, goalsAgnst: 3.5, shotsFor: 27, shotsAgnst: 33, ppPct: 15, pkPct: 74, scoredFirst: 0.40},
}

// generator produces internally consistent team snapshots.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

// snapshots builds one snapshot per league team, cycling archetypes so
// the table spans the full competitive range. Every failureEvery-th
// team loses its season stats to exercise the partial-data path.
func (g *generator) snapshots(config *Config) []model.TeamSnapshot {
	teams := directory.All()
	out := make([]model.TeamSnapshot, 0, len(teams))

	for i, team := range teams {
		a := archetypes[i%len(archetypes)]
		if config.Verbose {
			log.Printf("%s drawn from archetype %q", team.Code, a.name)
		}
		snap := model.TeamSnapshot{
			TeamID: team.Code,
			Season: g.season(team.Code, a, config.GamesPlayed),
			Recent: g.recent(team.Code, a, config.RecentGames),
		}
		if config.FailureEvery > 0 && (i+1)%config.FailureEvery == 0 {
			snap.Season = nil
		}
		out = append(out, snap)
	}
	return out
}

// season builds a season-to-date stat line consistent with the
// archetype: points follow from simulated outcomes, totals from rates.
func (g *generator) season(teamID string, a archetype, gamesPlayed int) *model.TeamSeasonStats {
	var wins, otLosses, regWins, otWins, soWins int
	won := make([]bool, gamesPlayed)

	for i := 0; i < gamesPlayed; i++ {
		if g.rng.Float64() < a.winProb {
			wins++
			won[i] = true
			switch {
			case g.rng.Float64() < 0.70:
				regWins++
			case g.rng.Float64() < 0.60:
				otWins++
			default:
				soWins++
			}
		} else if g.rng.Float64() < 0.25 {
			otLosses++
		}
	}

	// Current streak runs backwards from the most recent game.
	streak := 0
	for i := gamesPlayed - 1; i >= 0 && won[i]; i-- {
		streak++
	}

	losses := gamesPlayed - wins - otLosses
	points := 2*wins + otLosses
	pointsPct := 0.0
	if gamesPlayed > 0 {
		pointsPct = float64(points) / float64(2*gamesPlayed) * 100
	}

	goalsFor := int(a.goalsFor*float64(gamesPlayed) + g.rng.Float64()*6)
	goalsAgainst := int(a.goalsAgnst*float64(gamesPlayed) + g.rng.Float64()*6)
	shotsFor := int(a.shotsFor * float64(gamesPlayed))
	shotsAgainst := int(a.shotsAgnst * float64(gamesPlayed))

	savePct := 100.0
	if shotsAgainst > 0 {
		savePct = (1 - float64(goalsAgainst)/float64(shotsAgainst)) * 100
	}
	shootingPct := 0.0
	if shotsFor > 0 {
		shootingPct = float64(goalsFor) / float64(shotsFor) * 100
	}

	streakType := "L"
	if streak > 0 {
		streakType = "W"
	} else {
		streak = 1 + g.rng.Intn(3)
	}

	return &model.TeamSeasonStats{
		TeamID:         teamID,
		GamesPlayed:    gamesPlayed,
		Wins:           wins,
		Losses:         losses,
		OTLosses:       otLosses,
		Points:         points,
		PointsPct:      pointsPct,
		RegulationWins: regWins,
		OvertimeWins:   otWins,
		ShootoutWins:   soWins,
		GoalsFor:       goalsFor,
		GoalsAgainst:   goalsAgainst,
		ShotsFor:       shotsFor,
		ShotsAgainst:   shotsAgainst,
		PowerPlayPct:   a.ppPct + g.rng.Float64()*4 - 2,
		PenaltyKillPct: a.pkPct + g.rng.Float64()*4 - 2,
		SavePct:        savePct,
		ShootingPct:    shootingPct,
		StreakType:     streakType,
		StreakCount:    streak,
	}
}

// recent builds the trailing game window, most recent first.
func (g *generator) recent(teamID string, a archetype, n int) []model.RecentGameResult {
	games := make([]model.RecentGameResult, 0, n)
	day := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < n; i++ {
		won := g.rng.Float64() < a.winProb
		gf := g.poissonish(a.goalsFor)
		ga := g.poissonish(a.goalsAgnst)

		var outcome model.GameOutcome
		if won {
			outcome = model.OutcomeWin
			if gf <= ga {
				gf = ga + 1
			}
		} else {
			if ga <= gf {
				ga = gf + 1
			}
			outcome = model.OutcomeLoss
			if g.rng.Float64() < 0.25 {
				outcome = model.OutcomeOTLoss
			}
		}

		emptyNet := 0
		if won && gf-ga >= 2 && g.rng.Float64() < 0.4 {
			emptyNet = 1
		}

		games = append(games, model.RecentGameResult{
			TeamID:        teamID,
			GameID:        2025020000 + g.rng.Intn(1300),
			Date:          day.AddDate(0, 0, -2*i),
			Outcome:       outcome,
			GoalsFor:      gf,
			GoalsAgainst:  ga,
			ShotsFor:      int(a.shotsFor) + g.rng.Intn(9) - 4,
			ShotsAgainst:  int(a.shotsAgnst) + g.rng.Intn(9) - 4,
			Home:          i%2 == 0,
			ScoredFirst:   g.rng.Float64() < a.scoredFirst,
			EmptyNetGoals: emptyNet,
		})
	}
	return games
}

// poissonish returns a small non-negative count around the given rate.
func (g *generator) poissonish(rate float64) int {
	v := int(rate + g.rng.NormFloat64()*1.3)
	if v < 0 {
		return 0
	}
	return v
}
