// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/madness/internal/adapters/cache"
	"github.com/okian/madness/internal/domain/bracket"
	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/rating"
	"github.com/okian/madness/internal/domain/types"
	"github.com/okian/madness/internal/domain/weighting"
	"github.com/okian/madness/pkg/logger"
	"github.com/okian/madness/pkg/metrics"
)

// Source supplies the season's teams and games.
type Source interface {
	Teams(ctx context.Context) ([]model.Team, error)
	Games(ctx context.Context) ([]model.Game, error)
}

// BracketSource supplies an unresolved bracket table.
type BracketSource interface {
	Bracket(ctx context.Context) ([]bracket.Game, error)
}

const (
	keyTeams   = "teams"
	keyGames   = "games"
	keyBracket = "bracket"
)

// Service computes ratings and simulates brackets over a cached season.
type Service struct {
	mu sync.RWMutex

	source   Source
	brackets BracketSource

	// Defaults
	algorithm model.Algorithm
	options   weighting.Options
	cacheTTL  time.Duration

	// Caches
	teams   *cache.Cache[[]model.Team]
	games   *cache.Cache[[]model.Game]
	ratings *cache.Cache[rating.Table]
	bracket *cache.Cache[[]bracket.Game]

	// State
	started     bool
	simulations int
	lastRefresh time.Time
	newRunID    func() string
	clock       func() time.Time

	logger logger.Logger
}

// New constructs a Service reading the season from source.
func New(source Source, opts ...Option) *Service {
	s := &Service{
		source:    source,
		algorithm: model.Colley,
		options:   weighting.DefaultOptions(),
		cacheTTL:  cache.DefaultTTL,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.New(logger.WithOutput(io.Discard))
	}

	copts := []cache.Option{cache.WithTTL(s.cacheTTL)}
	if s.clock != nil {
		copts = append(copts, cache.WithClock(s.clock))
	}
	s.teams = cache.New[[]model.Team]("teams", copts...)
	s.games = cache.New[[]model.Game]("games", copts...)
	s.ratings = cache.New[rating.Table]("ratings", copts...)
	s.bracket = cache.New[[]bracket.Game]("bracket", copts...)
	return s
}

// Start loads the season once so the first request is served warm. A feed
// failure is logged and retried on the next request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting rating service",
		logger.String("algorithm", string(s.algorithm)),
		logger.Duration("cache_ttl", s.cacheTTL),
		logger.Bool("bracket", s.brackets != nil),
	)

	teams, games, err := s.season(ctx)
	if err != nil {
		s.logger.Warn(ctx, "initial season load failed", logger.Error(err))
		return nil
	}
	s.markRefreshed()
	s.logger.Info(ctx, "season loaded",
		logger.Int("teams", len(teams)),
		logger.Int("games", len(games)),
	)
	return nil
}

// Stop drops cached state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.purge()
	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// Ratings computes, or returns the cached, ratings table for req.
func (s *Service) Ratings(ctx context.Context, req types.RatingsRequest) (types.RatingsResult, error) {
	alg, opts, err := s.resolve(req.Algorithm, req.Options)
	if err != nil {
		return types.RatingsResult{}, err
	}
	if req.Limit < 0 {
		return types.RatingsResult{}, fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}

	teams, games, err := s.season(ctx)
	if err != nil {
		return types.RatingsResult{}, err
	}

	table, err := s.ratings.Get(ctx, ratingsKey(alg, opts), func(ctx context.Context) (rating.Table, error) {
		start := time.Now()
		t, err := rating.Compute(ctx, games, teams, opts, alg)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		metrics.RecordRatingsComputed(string(alg), float64(elapsed.Microseconds())/1000, len(teams), len(games))
		s.logger.Debug(ctx, "ratings computed",
			logger.String("algorithm", string(alg)),
			logger.Int("teams", len(teams)),
			logger.Int("games", len(games)),
			logger.Duration("elapsed", elapsed),
		)
		return t, nil
	})
	if err != nil {
		metrics.RecordRatingError(string(alg), errorKind(err))
		s.logger.Error(ctx, "ratings failed",
			logger.String("algorithm", string(alg)),
			logger.Error(err),
		)
		return types.RatingsResult{}, err
	}

	return types.RatingsResult{
		Algorithm:   alg,
		Options:     opts,
		Teams:       len(teams),
		Games:       len(games),
		Ratings:     slices.Clone(table.Top(req.Limit)),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// SimulateBracket resolves the configured bracket with the requested decider.
func (s *Service) SimulateBracket(ctx context.Context, req types.SimulationRequest) (types.SimulationResult, error) {
	if s.brackets == nil {
		return types.SimulationResult{}, ErrNoBracket
	}
	decider := strings.ToLower(strings.TrimSpace(req.Decider))
	if decider == "" {
		decider = types.DeciderSeed
	}

	res := types.SimulationResult{RunID: s.newRunID(), Decider: decider}
	var d bracket.Decider
	switch decider {
	case types.DeciderSeed:
		var rng *rand.Rand
		if req.Seed != nil {
			rng = rand.New(rand.NewSource(*req.Seed)) //nolint:gosec // reproducible coin flips
		}
		d = bracket.NewBySeed(rng)
	case types.DeciderRating:
		table, err := s.Ratings(ctx, types.RatingsRequest{Algorithm: req.Algorithm, Options: req.Options})
		if err != nil {
			return types.SimulationResult{}, err
		}
		res.Algorithm = table.Algorithm
		d = bracket.NewByRating(table.Ratings)
	default:
		return types.SimulationResult{}, fmt.Errorf("%w: unknown decider %q", ErrInvalidRequest, req.Decider)
	}

	games, err := s.bracket.Get(ctx, keyBracket, s.brackets.Bracket)
	if err != nil {
		metrics.RecordBracketError(decider)
		return types.SimulationResult{}, fmt.Errorf("load bracket: %w", err)
	}

	out, err := bracket.Simulate(ctx, games, d)
	if err == nil {
		res.ChampionSeed, res.Champion, err = bracket.Champion(out)
	}
	if err != nil {
		metrics.RecordBracketError(decider)
		s.logger.Error(ctx, "bracket simulation failed",
			logger.String("run_id", res.RunID),
			logger.String("decider", decider),
			logger.Error(err),
		)
		return types.SimulationResult{}, err
	}
	res.Games = out

	s.mu.Lock()
	s.simulations++
	s.mu.Unlock()
	metrics.RecordBracketSimulation(decider)
	s.logger.Info(ctx, "bracket simulated",
		logger.String("run_id", res.RunID),
		logger.String("decider", decider),
		logger.String("champion", res.Champion),
	)
	return res, nil
}

// Segments reports the calendar window of each time segment for opts.
func (s *Service) Segments(ctx context.Context, opts *weighting.Options) (types.SegmentsResult, error) {
	_, o, err := s.resolve(s.algorithm, opts)
	if err != nil {
		return types.SegmentsResult{}, err
	}
	games, err := s.games.Get(ctx, keyGames, s.loadGames)
	if err != nil {
		return types.SegmentsResult{}, err
	}
	policy, err := weighting.NewPolicy(games, o)
	if err != nil {
		return types.SegmentsResult{}, err
	}
	return types.SegmentsResult{Options: o, Segments: policy.Segments()}, nil
}

// Refresh drops every cached table and reloads the season.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.purge()
	s.mu.Unlock()

	teams, games, err := s.season(ctx)
	if err != nil {
		s.logger.Error(ctx, "refresh failed", logger.Error(err))
		return err
	}
	s.markRefreshed()
	s.logger.Info(ctx, "season refreshed",
		logger.Int("teams", len(teams)),
		logger.Int("games", len(games)),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"algorithm":   string(s.algorithm),
		"cacheTTL":    s.cacheTTL.String(),
		"simulations": s.simulations,
		"bracket":     s.brackets != nil,
		"caches": []cache.Stats{
			s.teams.Stats(),
			s.games.Stats(),
			s.ratings.Stats(),
			s.bracket.Stats(),
		},
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.Format(time.RFC3339)
	}
	return stats
}

func (s *Service) season(ctx context.Context) ([]model.Team, []model.Game, error) {
	teams, err := s.teams.Get(ctx, keyTeams, s.source.Teams)
	if err != nil {
		return nil, nil, fmt.Errorf("load teams: %w", err)
	}
	games, err := s.games.Get(ctx, keyGames, s.loadGames)
	if err != nil {
		return nil, nil, fmt.Errorf("load games: %w", err)
	}
	return teams, games, nil
}

// loadGames fetches the games and drops every ratings table computed from
// the previous load.
func (s *Service) loadGames(ctx context.Context) ([]model.Game, error) {
	games, err := s.source.Games(ctx)
	if err != nil {
		return nil, err
	}
	s.ratings.Purge()
	return games, nil
}

func (s *Service) resolve(alg model.Algorithm, opts *weighting.Options) (model.Algorithm, weighting.Options, error) {
	if alg == "" {
		alg = s.algorithm
	}
	a, err := model.ParseAlgorithm(string(alg))
	if err != nil {
		return "", weighting.Options{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	o := s.options.Clone()
	if opts != nil {
		o = opts.Clone()
	}
	if err := o.Validate(); err != nil {
		return "", weighting.Options{}, err
	}
	return a, o, nil
}

// purge requires s.mu held.
func (s *Service) purge() {
	s.teams.Purge()
	s.games.Purge()
	s.ratings.Purge()
	s.bracket.Purge()
}

func (s *Service) markRefreshed() {
	s.mu.Lock()
	s.lastRefresh = time.Now().UTC()
	s.mu.Unlock()
}

func ratingsKey(alg model.Algorithm, o weighting.Options) string {
	var b strings.Builder
	b.WriteString(string(alg))
	for _, w := range []float64{o.WeightHomeWin, o.WeightAwayWin, o.WeightNeutralWin} {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(o.UseTimeWeights))
	for _, w := range o.SegmentWeights {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
	}
	return b.String()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, rating.ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, weighting.ErrConfiguration):
		return "configuration"
	case errors.Is(err, rating.ErrSolve):
		return "solve"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
