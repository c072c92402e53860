package rating

import (
	"context"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
)

// Massey rates teams from weighted point differentials.
type Massey struct{}

// Rank implements Ranker.
func (Massey) Rank(ctx context.Context, games []model.Game, teams []model.Team, opts weighting.Options) (Table, error) {
	s, err := prepare(games, teams, opts)
	if err != nil {
		return nil, err
	}
	return solve(ctx, BuildMassey(s.games, len(s.names), s.policy), s.names)
}

// BuildMassey assembles the Massey system for n teams. The Laplacian is
// singular, so the last row is always replaced by the constraint that the
// ratings sum to zero.
func BuildMassey(games []model.Game, n int, policy *weighting.Policy) *System {
	s := newSystem(n)
	for _, g := range games {
		w := policy.Weight(g)
		s.addGame(g.Team1ID-1, g.Team2ID-1, w)
		s.credit(g, w*float64(g.Margin()))
	}
	last := n - 1
	for j := 0; j < n; j++ {
		s.A.Set(last, j, 1)
	}
	s.B.SetVec(last, 0)
	return s
}
