package feed

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/madness/internal/domain/model"
)

// FileSource reads the feed tables from local CSV files.
type FileSource struct {
	TeamsPath string
	GamesPath string
}

// Teams parses TeamsPath.
func (f FileSource) Teams(_ context.Context) ([]model.Team, error) {
	fh, err := open(f.TeamsPath, tableTeams)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ParseTeams(fh)
}

// Games parses GamesPath.
func (f FileSource) Games(_ context.Context) ([]model.Game, error) {
	fh, err := open(f.GamesPath, tableGames)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ParseGames(fh)
}

func open(path, table string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoURL, table)
	}
	fh, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", table, err)
	}
	return fh, nil
}
