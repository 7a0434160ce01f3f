package nhl_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pucklab/puckrank/internal/adapters/nhl"
	"github.com/pucklab/puckrank/internal/domain/gamecache"
	"github.com/pucklab/puckrank/internal/domain/model"
	"github.com/pucklab/puckrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const standingsBody = `{
	"standings": [
		{
			"teamAbbrev": {"default": "BOS"},
			"gamesPlayed": 50,
			"wins": 30,
			"losses": 15,
			"otLosses": 5,
			"points": 65,
			"pointPctg": 0.65,
			"regulationWins": 22,
			"regulationPlusOtWins": 27,
			"shootoutWins": 3,
			"goalFor": 170,
			"goalAgainst": 140,
			"shotsForPerGame": 32.0,
			"shotsAgainstPerGame": 28.0,
			"ppGoals": 40,
			"ppOpportunities": 160,
			"pkGoalsAgainst": 30,
			"timesShorthanded": 150,
			"streakCode": "W",
			"streakCount": 4
		},
		{
			"teamAbbrev": {"default": "SJS"},
			"gamesPlayed": 0,
			"pointPctg": 0,
			"streakCode": "L",
			"streakCount": 1
		}
	]
}`

func scheduleBody(games string, next string) string {
	nextField := ""
	if next != "" {
		nextField = fmt.Sprintf(`, "nextStartDate": %q`, next)
	}
	return fmt.Sprintf(`{"games": [%s]%s}`, games, nextField)
}

func boxscoreBody(id int, home, away string, homeScore, awayScore int, periodType string, scoring string) string {
	return fmt.Sprintf(`{
		"id": %d,
		"gameDate": "2026-01-10",
		"gameState": "OFF",
		"periodDescriptor": {"periodType": %q},
		"homeTeam": {"abbrev": %q, "score": %d, "sog": 30},
		"awayTeam": {"abbrev": %q, "score": %d, "sog": 25},
		"summary": {"scoring": [%s]}
	}`, id, periodType, home, homeScore, away, awayScore, scoring)
}

func TestStandings(t *testing.T) {
	Convey("Given a standings feed", t, func() {
		ctx := context.Background()

		Convey("When the feed is healthy", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Path, ShouldEqual, "/v1/standings/now")
				c.So(r.Header.Get("User-Agent"), ShouldNotBeEmpty)
				_, _ = w.Write([]byte(standingsBody))
			}))
			defer srv.Close()

			provider := nhl.New(nhl.WithBaseURL(srv.URL), nhl.WithMaxRetries(1))
			stats, err := provider.Standings(ctx)
			So(err, ShouldBeNil)
			So(len(stats), ShouldEqual, 2)

			bos := stats[0]
			Convey("Then counting stats are carried straight through", func() {
				So(bos.TeamID, ShouldEqual, "BOS")
				So(bos.GamesPlayed, ShouldEqual, 50)
				So(bos.Points, ShouldEqual, 65)
				So(bos.StreakType, ShouldEqual, "W")
				So(bos.StreakCount, ShouldEqual, 4)
			})

			Convey("Then points percentage is scaled to 0-100", func() {
				So(bos.PointsPct, ShouldAlmostEqual, 65.0, 1e-9)
			})

			Convey("Then special teams percentages derive from raw counts", func() {
				So(bos.PowerPlayPct, ShouldAlmostEqual, 25.0, 1e-9)   // 40/160
				So(bos.PenaltyKillPct, ShouldAlmostEqual, 80.0, 1e-9) // (150-30)/150
			})

			Convey("Then shot totals and derived percentages follow games played", func() {
				So(bos.ShotsFor, ShouldEqual, 1600)
				So(bos.ShotsAgainst, ShouldEqual, 1400)
				So(bos.ShootingPct, ShouldAlmostEqual, 170.0/1600*100, 1e-9)
				So(bos.SavePct, ShouldAlmostEqual, (1-140.0/1400)*100, 1e-9)
			})

			Convey("Then overtime wins are the regulation-plus-OT remainder", func() {
				So(bos.OvertimeWins, ShouldEqual, 5)
			})

			Convey("Then a zero-games team yields zeros, not NaN", func() {
				sjs := stats[1]
				So(sjs.TeamID, ShouldEqual, "SJS")
				So(sjs.PowerPlayPct, ShouldEqual, 0)
				So(sjs.SavePct, ShouldEqual, 0)
				So(sjs.ShootingPct, ShouldEqual, 0)
			})
		})

		Convey("When the feed returns no teams", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"standings": []}`))
			}))
			defer srv.Close()

			provider := nhl.New(nhl.WithBaseURL(srv.URL), nhl.WithMaxRetries(1))
			_, err := provider.Standings(ctx)
			So(errors.Is(err, nhl.ErrBadPayload), ShouldBeTrue)
		})

		Convey("When the feed errors on every attempt", func() {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			provider := nhl.New(nhl.WithBaseURL(srv.URL), nhl.WithMaxRetries(2))
			_, err := provider.Standings(ctx)
			So(errors.Is(err, nhl.ErrRequestFailed), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 2)
		})

		Convey("When the feed recovers after a transient failure", func() {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if hits.Add(1) == 1 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				_, _ = w.Write([]byte(standingsBody))
			}))
			defer srv.Close()

			provider := nhl.New(nhl.WithBaseURL(srv.URL), nhl.WithMaxRetries(3))
			stats, err := provider.Standings(ctx)
			So(err, ShouldBeNil)
			So(len(stats), ShouldEqual, 2)
			So(hits.Load(), ShouldEqual, 2)
		})
	})
}

func TestRecentGames(t *testing.T) {
	Convey("Given a schedule and boxscore feed", t, func() {
		ctx := context.Background()
		from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

		games := `
			{"id": 11, "gameDate": "2026-01-06", "gameType": 2, "gameState": "OFF"},
			{"id": 12, "gameDate": "2026-01-08", "gameType": 2, "gameState": "FUT"},
			{"id": 13, "gameDate": "2026-01-09", "gameType": 1, "gameState": "OFF"}`
		nextGames := `
			{"id": 14, "gameDate": "2026-01-13", "gameType": 2, "gameState": "OFF"},
			{"id": 15, "gameDate": "2026-01-25", "gameType": 2, "gameState": "OFF"}`

		var boxscoreHits atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/club-schedule/BOS/week/2026-01-05", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(scheduleBody(games, "2026-01-12")))
		})
		mux.HandleFunc("/v1/club-schedule/BOS/week/2026-01-12", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(scheduleBody(nextGames, "2026-01-19")))
		})
		mux.HandleFunc("/v1/gamecenter/11/boxscore", func(w http.ResponseWriter, r *http.Request) {
			boxscoreHits.Add(1)
			scoring := `{"teamAbbrev": {"default": "BOS"}, "emptyNet": false},
				{"teamAbbrev": {"default": "MTL"}, "emptyNet": false},
				{"teamAbbrev": {"default": "BOS"}, "emptyNet": true}`
			_, _ = w.Write([]byte(boxscoreBody(11, "BOS", "MTL", 2, 1, "REG", scoring)))
		})
		mux.HandleFunc("/v1/gamecenter/14/boxscore", func(w http.ResponseWriter, r *http.Request) {
			boxscoreHits.Add(1)
			scoring := `{"teamAbbrev": {"default": "TOR"}, "emptyNet": false}`
			_, _ = w.Write([]byte(boxscoreBody(14, "TOR", "BOS", 3, 2, "OT", scoring)))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cache := gamecache.New()
		provider := nhl.New(
			nhl.WithBaseURL(srv.URL),
			nhl.WithMaxRetries(1),
			nhl.WithGameCache(cache),
		)

		Convey("When fetching a team's recent games", func() {
			results, err := provider.RecentGames(ctx, "BOS", from, to)
			So(err, ShouldBeNil)

			Convey("Then only completed regular-season games in range survive", func() {
				So(len(results), ShouldEqual, 2)
			})

			Convey("Then results come back most recent first", func() {
				So(results[0].GameID, ShouldEqual, 14)
				So(results[1].GameID, ShouldEqual, 11)
			})

			Convey("Then a home regulation win is processed fully", func() {
				win := results[1]
				So(win.Outcome, ShouldEqual, model.OutcomeWin)
				So(win.Home, ShouldBeTrue)
				So(win.GoalsFor, ShouldEqual, 2)
				So(win.GoalsAgainst, ShouldEqual, 1)
				So(win.ScoredFirst, ShouldBeTrue)
				So(win.EmptyNetGoals, ShouldEqual, 1)
			})

			Convey("Then an away overtime loss is detected", func() {
				otl := results[0]
				So(otl.Outcome, ShouldEqual, model.OutcomeOTLoss)
				So(otl.Home, ShouldBeFalse)
				So(otl.ScoredFirst, ShouldBeFalse)
			})

			Convey("And fetching again uses the cache", func() {
				before := boxscoreHits.Load()
				again, err := provider.RecentGames(ctx, "BOS", from, to)
				So(err, ShouldBeNil)
				So(len(again), ShouldEqual, 2)
				So(boxscoreHits.Load(), ShouldEqual, before)
			})
		})
	})

	Convey("Given a feed where one boxscore is broken", t, func() {
		ctx := context.Background()
		from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

		mux := http.NewServeMux()
		mux.HandleFunc("/v1/club-schedule/COL/week/2026-01-05", func(w http.ResponseWriter, r *http.Request) {
			games := `
				{"id": 21, "gameDate": "2026-01-06", "gameType": 2, "gameState": "OFF"},
				{"id": 22, "gameDate": "2026-01-07", "gameType": 2, "gameState": "OFF"}`
			_, _ = w.Write([]byte(scheduleBody(games, "")))
		})
		mux.HandleFunc("/v1/gamecenter/21/boxscore", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		mux.HandleFunc("/v1/gamecenter/22/boxscore", func(w http.ResponseWriter, r *http.Request) {
			scoring := `{"teamAbbrev": {"default": "COL"}, "emptyNet": false}`
			_, _ = w.Write([]byte(boxscoreBody(22, "COL", "STL", 4, 0, "REG", scoring)))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		provider := nhl.New(nhl.WithBaseURL(srv.URL), nhl.WithMaxRetries(1))

		Convey("When fetching recent games", func() {
			results, err := provider.RecentGames(ctx, "COL", from, to)

			Convey("Then the broken game is skipped, not fatal", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 1)
				So(results[0].GameID, ShouldEqual, 22)
			})
		})
	})
}
