// Package feed fetches the season's teams and games from a CSV results feed.
//
// The feed serves two headerless tables. Teams are "id,name" rows and games
// are eight integer-ish columns with a YYYYMMDD date in the second column.
// Requests are throttled with a token bucket limiter.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/pkg/logger"
	"github.com/okian/madness/pkg/metrics"
)

const (
	tableTeams = "teams"
	tableGames = "games"

	maxErrorBody = 200
)

// Client reads the results feed over HTTP.
type Client struct {
	httpClient        *http.Client
	teamsURL          string
	gamesURL          string
	requestsPerMinute int
	limiter           *rate.Limiter
	log               logger.Logger
}

// NewClient creates a rate limited feed client.
func NewClient(teamsURL, gamesURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		teamsURL:          teamsURL,
		gamesURL:          gamesURL,
		requestsPerMinute: 60,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New(logger.WithOutput(io.Discard))
	}
	rps := float64(c.requestsPerMinute) / 60.0
	c.limiter = rate.NewLimiter(rate.Limit(rps), 2)
	return c
}

// Teams fetches and parses the teams table.
func (c *Client) Teams(ctx context.Context) ([]model.Team, error) {
	body, err := c.get(ctx, tableTeams, c.teamsURL)
	if err != nil {
		return nil, err
	}
	teams, err := ParseTeams(bytes.NewReader(body))
	if err != nil {
		metrics.RecordFeedError(tableTeams)
		return nil, err
	}
	return teams, nil
}

// Games fetches and parses the games table.
func (c *Client) Games(ctx context.Context) ([]model.Game, error) {
	body, err := c.get(ctx, tableGames, c.gamesURL)
	if err != nil {
		return nil, err
	}
	games, err := ParseGames(bytes.NewReader(body))
	if err != nil {
		metrics.RecordFeedError(tableGames)
		return nil, err
	}
	return games, nil
}

func (c *Client) get(ctx context.Context, table, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoURL, table)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	body, err := c.do(ctx, url)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordFeedError(table)
		c.log.Warn(ctx, "feed request failed",
			logger.String("table", table),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, table, err)
	}

	metrics.RecordFeedFetch(table, float64(elapsed.Milliseconds()))
	c.log.Debug(ctx, "feed table fetched",
		logger.String("table", table),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", elapsed),
	)
	return body, nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, maxErrorBody))
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
