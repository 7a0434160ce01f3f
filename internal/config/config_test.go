package config_test

import (
	"testing"

	"github.com/pucklab/puckrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
			convey.So(cfg.Season, convey.ShouldEqual, "20252026")
			convey.So(cfg.StatsBaseURL, convey.ShouldEqual, "https://api-web.nhle.com")
			convey.So(cfg.RecentDays, convey.ShouldEqual, 14)
			convey.So(cfg.MaxRetries, convey.ShouldEqual, 3)
			convey.So(cfg.RefreshIntervalMinutes, convey.ShouldEqual, 30)
			convey.So(cfg.RecentGamesWindow, convey.ShouldEqual, 10)
			convey.So(cfg.MaxRankingsLimit, convey.ShouldEqual, 32)
			convey.So(cfg.ImprovedRecentWeight, convey.ShouldAlmostEqual, 0.45)
			convey.So(cfg.StreakMinLength, convey.ShouldEqual, 3)
			convey.So(cfg.StreakBonusCap, convey.ShouldAlmostEqual, 4.0)
		})
	})
}
