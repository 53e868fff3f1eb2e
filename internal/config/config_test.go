package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/offseason/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.DraftTeams, convey.ShouldHaveLength, 32)
			convey.So(cfg.DraftRounds, convey.ShouldEqual, 3)
			convey.So(cfg.DraftMaxRounds, convey.ShouldEqual, 7)
			convey.So(cfg.DraftMaxTeams, convey.ShouldEqual, 32)
			convey.So(cfg.CommitScore, convey.ShouldEqual, 70)
			convey.So(cfg.RenegotiationScore, convey.ShouldEqual, 90)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default teams are not shared", func() {
			cfg.DraftTeams[0] = "XXX"
			convey.So(config.DefaultTeams[0], convey.ShouldEqual, "ARI")
		})
	})

	convey.Convey("Given invalid configs", t, func() {
		mutations := []func(c *config.Config){
			func(c *config.Config) { c.Addr = "" },
			func(c *config.Config) { c.WorkerCount = 0 },
			func(c *config.Config) { c.DraftTeams = []string{"ARI"} },
			func(c *config.Config) { c.DraftRounds = 0 },
			func(c *config.Config) { c.DraftProspectPool = 10 },
			func(c *config.Config) { c.DraftRounds = 8 },
			func(c *config.Config) { c.DraftTeams = append(c.DraftTeams, "LON") },
			func(c *config.Config) { c.DraftProspectPool = 4096 },
			func(c *config.Config) { c.DraftMaxRounds = 2 },
			func(c *config.Config) { c.RenegotiationScore = 101 },
			func(c *config.Config) { c.StoreDriver = "mongo" },
			func(c *config.Config) { c.StoreDriver = config.StoreSQLite },
		}
		for _, mutate := range mutations {
			cfg := config.New()
			mutate(cfg)
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})
}
