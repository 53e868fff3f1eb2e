package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/offseason/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.NATSURL, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("OFFSEASON_ADDR", ":8080")
			_ = os.Setenv("OFFSEASON_QUEUE_SIZE", "500")
			_ = os.Setenv("OFFSEASON_WORKER_COUNT", "3")
			_ = os.Setenv("OFFSEASON_STORE_DRIVER", "sqlite")
			_ = os.Setenv("OFFSEASON_STORE_DSN", "file:offseason.db")
			_ = os.Setenv("OFFSEASON_RENEGOTIATION_MIN_SCORE", "85")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.StoreDSN, convey.ShouldEqual, "file:offseason.db")
				convey.So(cfg.RenegotiationScore, convey.ShouldEqual, 85)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
draft_rounds: 2
draft_teams: ["NYJ", "BUF", "MIA", "NE"]
draft_prospect_pool: 16
nats_url: "nats://127.0.0.1:4222"
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OFFSEASON_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DraftRounds, convey.ShouldEqual, 2)
				convey.So(cfg.DraftTeams, convey.ShouldResemble, []string{"NYJ", "BUF", "MIA", "NE"})
				convey.So(cfg.NATSURL, convey.ShouldEqual, "nats://127.0.0.1:4222")
				convey.So(cfg.NATSSubject, convey.ShouldEqual, "offseason.events")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 2\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OFFSEASON_CONFIG", tmpFile)
			_ = os.Setenv("OFFSEASON_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with a missing file", func() {
			_ = os.Setenv("OFFSEASON_CONFIG", "/nonexistent/offseason.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			tmpFile := createTempConfigFile("addr: [unclosed\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OFFSEASON_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a non-numeric queue size", func() {
			_ = os.Setenv("OFFSEASON_QUEUE_SIZE", "lots")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a database driver has no DSN", func() {
			_ = os.Setenv("OFFSEASON_STORE_DRIVER", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"OFFSEASON_CONFIG",
		"OFFSEASON_ADDR",
		"OFFSEASON_QUEUE_SIZE",
		"OFFSEASON_WORKER_COUNT",
		"OFFSEASON_STORE_DRIVER",
		"OFFSEASON_STORE_DSN",
		"OFFSEASON_RENEGOTIATION_MIN_SCORE",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "offseason-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
