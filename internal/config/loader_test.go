package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/madness/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FeedRequestsPerMinute, convey.ShouldEqual, 60)
				convey.So(cfg.Ranking.WeightHomeWin, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MADNESS_ADDR", ":8080")
			_ = os.Setenv("MADNESS_ALGORITHM", "massey")
			_ = os.Setenv("MADNESS_FEED_TIMEOUT_MS", "2500")
			_ = os.Setenv("MADNESS_RANKING_WEIGHT_HOME_WIN", "0.8")
			_ = os.Setenv("MADNESS_RANKING_USE_TIME_WEIGHTS", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Algorithm, convey.ShouldEqual, "massey")
				convey.So(cfg.FeedTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.Ranking.WeightHomeWin, convey.ShouldEqual, 0.8)
				convey.So(cfg.Ranking.UseTimeWeights, convey.ShouldBeFalse)
				convey.So(cfg.Ranking.WeightAwayWin, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
games_url: "http://feed.local/games.csv"
cache_ttl_seconds: 30
ranking:
  weight_away_win: 1.4
  segment_weights: [0.5, 1, 2]
semifinals:
  - [East, West]
  - [South, Midwest]
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("MADNESS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep defaults elsewhere", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.GamesURL, convey.ShouldEqual, "http://feed.local/games.csv")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.Ranking.WeightAwayWin, convey.ShouldEqual, 1.4)
				convey.So(cfg.Ranking.WeightHomeWin, convey.ShouldEqual, 1)
				convey.So(cfg.Ranking.SegmentWeights, convey.ShouldResemble, []float64{0.5, 1, 2})
				convey.So(cfg.SemifinalPairs(), convey.ShouldResemble, [][2]string{{"East", "West"}, {"South", "Midwest"}})
				convey.So(cfg.FeedTimeoutMS, convey.ShouldEqual, 10_000)
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("MADNESS_ADDR", ":8081")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("MADNESS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			_ = os.Setenv("MADNESS_CONFIG", "/nonexistent/madness.yaml")

			cfg, err := config.Load(ctx)

			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MADNESS_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When the algorithm is unknown", func() {
			_ = os.Setenv("MADNESS_ALGORITHM", "elo")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "elo")
		})

		convey.Convey("When a ranking weight is negative", func() {
			_ = os.Setenv("MADNESS_RANKING_WEIGHT_NEUTRAL_WIN", "-1")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "weight_neutral_win")
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MADNESS_FEED_TIMEOUT_MS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"MADNESS_CONFIG",
		"MADNESS_ADDR",
		"MADNESS_ALGORITHM",
		"MADNESS_FEED_TIMEOUT_MS",
		"MADNESS_RANKING_WEIGHT_HOME_WIN",
		"MADNESS_RANKING_WEIGHT_NEUTRAL_WIN",
		"MADNESS_RANKING_USE_TIME_WEIGHTS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "madness-config-*.yaml")
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
