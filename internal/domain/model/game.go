// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Homefield describes where a team played a game.
type Homefield int

// Homefield values. The numeric values match the results feed encoding.
const (
	Neutral Homefield = 0
	Home    Homefield = 1
	Away    Homefield = -1
)

// String implements fmt.Stringer.
func (h Homefield) String() string {
	switch h {
	case Home:
		return "home"
	case Away:
		return "away"
	case Neutral:
		return "neutral"
	default:
		return fmt.Sprintf("homefield(%d)", int(h))
	}
}

// ParseHomefield converts the feed encoding (1, -1, 0) into a Homefield.
func ParseHomefield(v int) (Homefield, error) {
	switch Homefield(v) {
	case Home, Away, Neutral:
		return Homefield(v), nil
	default:
		return Neutral, fmt.Errorf("unknown homefield value %d", v)
	}
}

// Team is a participant in the season. IDs are dense and 1-based.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Index returns the team's position in a rating vector.
func (t Team) Index() int { return t.ID - 1 }

// Game is a single completed game of the season.
type Game struct {
	Day            int       `json:"day"` // days since the feed's epoch
	Date           time.Time `json:"date"`
	Team1ID        int       `json:"team_1_id"`
	Team1Homefield Homefield `json:"team_1_homefield"`
	Team1Score     int       `json:"team_1_score"`
	Team2ID        int       `json:"team_2_id"`
	Team2Homefield Homefield `json:"team_2_homefield"`
	Team2Score     int       `json:"team_2_score"`
}

// Winner returns 1 when team 1 outscored team 2 and 2 otherwise.
func (g Game) Winner() int {
	if g.Team1Score > g.Team2Score {
		return 1
	}
	return 2
}

// WinnerHomefield returns the homefield flag of the winning team.
func (g Game) WinnerHomefield() Homefield {
	if g.Winner() == 1 {
		return g.Team1Homefield
	}
	return g.Team2Homefield
}

// Margin returns the absolute point differential.
func (g Game) Margin() int {
	if d := g.Team1Score - g.Team2Score; d >= 0 {
		return d
	}
	return g.Team2Score - g.Team1Score
}

// Algorithm selects a rating method.
type Algorithm string

// Supported rating methods.
const (
	Colley Algorithm = "colley"
	Massey Algorithm = "massey"
)

// ParseAlgorithm parses an algorithm name case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case Colley:
		return Colley, nil
	case Massey:
		return Massey, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", s)
	}
}

// Rating is one row of a ranked table. Rank 1 is the highest rating.
type Rating struct {
	Rank   int     `json:"rank"`
	Team   string  `json:"team"`
	Rating float64 `json:"rating"`
}
