package rating

import (
	"context"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
)

// Colley rates teams from wins and losses only. Every team starts with the
// prior of one win and one loss, which keeps the system non-singular.
type Colley struct{}

// Rank implements Ranker.
func (Colley) Rank(ctx context.Context, games []model.Game, teams []model.Team, opts weighting.Options) (Table, error) {
	s, err := prepare(games, teams, opts)
	if err != nil {
		return nil, err
	}
	return solve(ctx, BuildColley(s.games, len(s.names), s.policy), s.names)
}

// BuildColley assembles the Colley system for n teams. games must already be
// validated against the team table.
func BuildColley(games []model.Game, n int, policy *weighting.Policy) *System {
	s := newSystem(n)
	for i := 0; i < n; i++ {
		s.A.Set(i, i, 2)
		s.B.SetVec(i, 1)
	}
	for _, g := range games {
		w := policy.Weight(g)
		s.addGame(g.Team1ID-1, g.Team2ID-1, w)
		s.credit(g, w)
	}
	return s
}
