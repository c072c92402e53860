package rating

import "github.com/okian/madness/internal/domain/model"

// Table is a ranked list of ratings, best first.
type Table []model.Rating

// Lookup finds a team's row by name.
func (t Table) Lookup(team string) (model.Rating, bool) {
	for _, r := range t {
		if r.Team == team {
			return r, true
		}
	}
	return model.Rating{}, false
}

// Top returns at most n rows. n <= 0 returns the whole table.
func (t Table) Top(n int) Table {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// ByTeam indexes the table by team name.
func (t Table) ByTeam() map[string]float64 {
	m := make(map[string]float64, len(t))
	for _, r := range t {
		m[r.Team] = r.Rating
	}
	return m
}
