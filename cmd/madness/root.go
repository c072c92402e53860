package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/madness/internal/adapters/bracketsrc"
	"github.com/okian/madness/internal/adapters/feed"
	service "github.com/okian/madness/internal/app"
	"github.com/okian/madness/internal/config"
	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/pkg/logger"
)

// cli holds the loaded configuration and the flags shared by every command.
type cli struct {
	cfg *config.Config
	log logger.Logger

	gamesFile     string
	teamsFile     string
	bracketFile   string
	algorithm     string
	home          float64
	away          float64
	neutral       float64
	noTimeWeights bool
	segments      []float64
	logLevel      string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "madness",
		Short:         "Season ratings and bracket simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.gamesFile, "games-file", "", "Read games from a local CSV file instead of games_url")
	f.StringVar(&c.teamsFile, "teams-file", "", "Read teams from a local CSV file instead of teams_url")
	f.StringVar(&c.bracketFile, "bracket-file", "", "Read the bracket from a JSON file")
	f.StringVar(&c.algorithm, "algorithm", "", "Rating method: colley or massey")
	f.Float64Var(&c.home, "home", 1, "Weight of games won by the home team")
	f.Float64Var(&c.away, "away", 1, "Weight of games won by the visiting team")
	f.Float64Var(&c.neutral, "neutral", 1, "Weight of neutral-site games")
	f.BoolVar(&c.noTimeWeights, "no-time-weights", false, "Ignore segment weights")
	f.Float64SliceVar(&c.segments, "segments", nil, "Comma separated segment weights, earliest first")
	f.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(c.ratingsCmd())
	root.AddCommand(c.simulateCmd())
	root.AddCommand(c.segmentsCmd())
	root.AddCommand(c.serveCmd())
	return root
}

// load reads configuration and applies explicitly set flags on top.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("algorithm") {
		cfg.Algorithm = c.algorithm
	}
	if f.Changed("home") {
		cfg.Ranking.WeightHomeWin = c.home
	}
	if f.Changed("away") {
		cfg.Ranking.WeightAwayWin = c.away
	}
	if f.Changed("neutral") {
		cfg.Ranking.WeightNeutralWin = c.neutral
	}
	if f.Changed("no-time-weights") {
		cfg.Ranking.UseTimeWeights = !c.noTimeWeights
	}
	if f.Changed("segments") {
		cfg.Ranking.SegmentWeights = append([]float64(nil), c.segments...)
	}
	if f.Changed("bracket-file") {
		cfg.BracketFile = c.bracketFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.Named("madness")
	return nil
}

// source returns the local CSV files when both are given and the HTTP feed
// otherwise.
func (c *cli) source() (service.Source, error) {
	switch {
	case c.gamesFile != "" && c.teamsFile != "":
		return feed.FileSource{TeamsPath: c.teamsFile, GamesPath: c.gamesFile}, nil
	case c.gamesFile != "" || c.teamsFile != "":
		return nil, fmt.Errorf("--games-file and --teams-file must be given together")
	}
	return feed.NewClient(c.cfg.TeamsURL, c.cfg.GamesURL,
		feed.WithTimeout(c.cfg.FeedTimeout()),
		feed.WithRequestsPerMinute(c.cfg.FeedRequestsPerMinute),
		feed.WithLogger(c.log.Named("feed")),
	), nil
}

// service builds the rating service from the loaded configuration.
func (c *cli) service() (*service.Service, error) {
	src, err := c.source()
	if err != nil {
		return nil, err
	}
	alg, err := model.ParseAlgorithm(c.cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	opts := []service.Option{
		service.WithLogger(c.log.Named("service")),
		service.WithAlgorithm(alg),
		service.WithRankingOptions(c.cfg.Ranking),
		service.WithCacheTTL(c.cfg.CacheTTL()),
	}
	if c.cfg.BracketFile != "" || c.cfg.BracketURL != "" {
		opts = append(opts, service.WithBracketSource(c.bracketLoader()))
	}
	return service.New(src, opts...), nil
}

// bracketLoader reads the bracket from the configured file or page. Page
// fetches share the feed timeout.
func (c *cli) bracketLoader() bracketsrc.Loader {
	return bracketsrc.Loader{
		File:       c.cfg.BracketFile,
		URL:        c.cfg.BracketURL,
		Semifinals: c.cfg.SemifinalPairs(),
		HTTPClient: &http.Client{Timeout: c.cfg.FeedTimeout()},
	}
}
