// Package rating builds and solves the Colley and Massey linear systems for a
// season of games.
package rating

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
	"gonum.org/v1/gonum/mat"
)

// Ranker rates every team of a season. Implementations are pure: the same
// inputs always produce the same table.
type Ranker interface {
	Rank(ctx context.Context, games []model.Game, teams []model.Team, opts weighting.Options) (Table, error)
}

// New returns the ranker for algorithm.
func New(algorithm model.Algorithm) (Ranker, error) {
	switch algorithm {
	case model.Colley:
		return Colley{}, nil
	case model.Massey:
		return Massey{}, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
}

// Compute rates the season with the selected algorithm.
func Compute(ctx context.Context, games []model.Game, teams []model.Team, opts weighting.Options, algorithm model.Algorithm) (Table, error) {
	r, err := New(algorithm)
	if err != nil {
		return nil, err
	}
	return r.Rank(ctx, games, teams, opts)
}

// System is the dense linear system A·r = b for one season. Each call to a
// builder allocates its own System.
type System struct {
	A *mat.Dense
	B *mat.VecDense
}

func newSystem(n int) *System {
	return &System{
		A: mat.NewDense(n, n, nil),
		B: mat.NewVecDense(n, nil),
	}
}

// addGame applies the weighted matrix terms shared by both methods.
func (s *System) addGame(i, j int, w float64) {
	s.A.Set(i, i, s.A.At(i, i)+w)
	s.A.Set(j, j, s.A.At(j, j)+w)
	s.A.Set(i, j, s.A.At(i, j)-w)
	s.A.Set(j, i, s.A.At(j, i)-w)
}

// credit moves v from the loser's entry of b to the winner's.
func (s *System) credit(g model.Game, v float64) {
	win, lose := g.Team1ID-1, g.Team2ID-1
	if g.Winner() == 2 {
		win, lose = lose, win
	}
	s.B.SetVec(win, s.B.AtVec(win)+v)
	s.B.SetVec(lose, s.B.AtVec(lose)-v)
}

// Solve returns the rating vector.
func (s *System) Solve() ([]float64, error) {
	var lu mat.LU
	lu.Factorize(s.A)
	if c := lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) {
		return nil, fmt.Errorf("%w: matrix is singular", ErrSolve)
	}
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, s.B); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolve, err)
	}
	r := make([]float64, x.Len())
	for i := range r {
		r[i] = x.AtVec(i)
		if math.IsNaN(r[i]) || math.IsInf(r[i], 0) {
			return nil, fmt.Errorf("%w: rating %d is not finite", ErrSolve, i+1)
		}
	}
	return r, nil
}

// season is a validated input set ready for matrix construction.
type season struct {
	games  []model.Game
	names  []string // indexed by team id - 1
	policy *weighting.Policy
}

// prepare validates the tables and options before any matrix is allocated.
func prepare(games []model.Game, teams []model.Team, opts weighting.Options) (*season, error) {
	names, err := teamNames(teams)
	if err != nil {
		return nil, err
	}
	if err := checkGames(games, len(names)); err != nil {
		return nil, err
	}
	policy, err := weighting.NewPolicy(games, opts)
	if err != nil {
		return nil, err
	}
	return &season{games: games, names: names, policy: policy}, nil
}

// teamNames checks that ids are unique and contiguous over [1, N].
func teamNames(teams []model.Team) ([]string, error) {
	n := len(teams)
	if n == 0 {
		return nil, fmt.Errorf("%w: no teams", ErrDataIntegrity)
	}
	names := make([]string, n)
	seen := make([]bool, n)
	for _, t := range teams {
		if t.ID < 1 || t.ID > n {
			return nil, fmt.Errorf("%w: team id %d outside 1..%d", ErrDataIntegrity, t.ID, n)
		}
		if seen[t.ID-1] {
			return nil, fmt.Errorf("%w: duplicate team id %d", ErrDataIntegrity, t.ID)
		}
		seen[t.ID-1] = true
		names[t.ID-1] = t.Name
	}
	return names, nil
}

func checkGames(games []model.Game, n int) error {
	for i, g := range games {
		switch {
		case g.Team1ID < 1 || g.Team1ID > n:
			return fmt.Errorf("%w: game %d references unknown team id %d", ErrDataIntegrity, i, g.Team1ID)
		case g.Team2ID < 1 || g.Team2ID > n:
			return fmt.Errorf("%w: game %d references unknown team id %d", ErrDataIntegrity, i, g.Team2ID)
		case g.Team1ID == g.Team2ID:
			return fmt.Errorf("%w: game %d pits team %d against itself", ErrDataIntegrity, i, g.Team1ID)
		case g.Team1Score < 0 || g.Team2Score < 0:
			return fmt.Errorf("%w: game %d has a negative score", ErrDataIntegrity, i)
		case g.Team1Score == g.Team2Score:
			return fmt.Errorf("%w: game %d is tied %d-%d", ErrDataIntegrity, i, g.Team1Score, g.Team2Score)
		case i > 0 && g.Day < games[i-1].Day:
			return fmt.Errorf("%w: game %d on day %d is out of order", ErrDataIntegrity, i, g.Day)
		}
	}
	return nil
}

// solve runs the system and ranks the result.
func solve(ctx context.Context, s *System, names []string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := s.Solve()
	if err != nil {
		return nil, err
	}
	return rank(r, names), nil
}

// rank orders teams by descending rating. Equal ratings keep id order.
func rank(r []float64, names []string) Table {
	order := make([]int, len(r))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(r[b], r[a])
	})
	out := make(Table, len(order))
	for pos, idx := range order {
		out[pos] = model.Rating{Rank: pos + 1, Team: names[idx], Rating: r[idx]}
	}
	return out
}
