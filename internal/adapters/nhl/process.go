package nhl

import (
	"fmt"
	"strings"
	"time"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// processBoxscore converts a boxscore into one team's game result.
//
// Overtime and shootout losses are detected from the period descriptor
// with the game state as a fallback, matching how the feed marks games
// that go past regulation.
func processBoxscore(box *boxscoreResponse, teamID string) (model.RecentGameResult, error) {
	var team, opponent boxscoreTeam
	var home bool

	switch teamID {
	case box.HomeTeam.Abbrev:
		team, opponent, home = box.HomeTeam, box.AwayTeam, true
	case box.AwayTeam.Abbrev:
		team, opponent, home = box.AwayTeam, box.HomeTeam, false
	default:
		return model.RecentGameResult{}, fmt.Errorf("%w: team %s not in game %d",
			ErrBadPayload, teamID, box.ID)
	}

	outcome := model.OutcomeLoss
	switch {
	case team.Score > opponent.Score:
		outcome = model.OutcomeWin
	case team.Score < opponent.Score && pastRegulation(box):
		outcome = model.OutcomeOTLoss
	}

	emptyNet := 0
	scoredFirst := false
	for i, goal := range box.Summary.Scoring {
		if i == 0 {
			scoredFirst = goal.TeamAbbrev.Default == teamID
		}
		if goal.EmptyNet {
			emptyNet++
		}
	}

	date, err := time.Parse("2006-01-02", box.GameDate)
	if err != nil {
		return model.RecentGameResult{}, fmt.Errorf("%w: game %d has bad date %q",
			ErrBadPayload, box.ID, box.GameDate)
	}

	return model.RecentGameResult{
		TeamID:        teamID,
		GameID:        box.ID,
		Date:          date,
		Outcome:       outcome,
		GoalsFor:      team.Score,
		GoalsAgainst:  opponent.Score,
		ShotsFor:      team.SOG,
		ShotsAgainst:  opponent.SOG,
		Home:          home,
		ScoredFirst:   scoredFirst,
		EmptyNetGoals: emptyNet,
	}, nil
}

func pastRegulation(box *boxscoreResponse) bool {
	pt := box.PeriodDescriptor.PeriodType
	if pt == "OT" || pt == "SO" {
		return true
	}
	return strings.Contains(box.GameState, "OT") || strings.Contains(box.GameState, "SO")
}
