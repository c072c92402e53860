// Package bracket simulates a single-elimination tournament by resolving each
// game with a pluggable decision rule and advancing the winner.
package bracket

import "fmt"

// Slot identifies one side of a bracket game.
type Slot int

// Slot values. SlotNone on a Game's NextSlot means the successor slot is
// derived from the round game number.
const (
	SlotNone Slot = 0
	Slot1    Slot = 1
	Slot2    Slot = 2
)

// Game is one row of the bracket table. Team and win fields are nil until
// known; later-round teams are filled in by propagation only.
type Game struct {
	ID              int     `json:"id"`
	Region          string  `json:"region"`
	Round           int     `json:"round"`
	RoundGameNumber int     `json:"round_game_number"`
	Team1Seed       *int    `json:"team_1_seed"`
	Team1Name       *string `json:"team_1_name"`
	Team2Seed       *int    `json:"team_2_seed"`
	Team2Name       *string `json:"team_2_name"`
	Team1Win        *bool   `json:"team_1_win"`
	Team2Win        *bool   `json:"team_2_win"`
	NextRound       *int    `json:"next_round"`
	NextGameIndex   *int    `json:"next_game_index"`
	NextSlot        Slot    `json:"next_slot,omitempty"`
}

// Seed returns the seed in slot, or nil.
func (g Game) Seed(s Slot) *int {
	if s == Slot2 {
		return g.Team2Seed
	}
	return g.Team1Seed
}

// Name returns the team name in slot, or nil.
func (g Game) Name(s Slot) *string {
	if s == Slot2 {
		return g.Team2Name
	}
	return g.Team1Name
}

// Winner reports the winning slot once the game is resolved.
func (g Game) Winner() (Slot, bool) {
	switch {
	case g.Team1Win != nil && *g.Team1Win:
		return Slot1, true
	case g.Team2Win != nil && *g.Team2Win:
		return Slot2, true
	}
	return SlotNone, false
}

// IsFinal reports whether g feeds no other game.
func (g Game) IsFinal() bool { return g.NextGameIndex == nil }

// TargetSlot returns the slot of the next game this game's winner fills.
func (g Game) TargetSlot() Slot {
	if g.NextSlot == Slot1 || g.NextSlot == Slot2 {
		return g.NextSlot
	}
	if g.RoundGameNumber%2 == 1 {
		return Slot1
	}
	return Slot2
}

// Matchup renders the game for logs, e.g. "(1) Gonzaga vs (16) Georgia State".
func (g Game) Matchup() string {
	return fmt.Sprintf("%s vs %s", describe(g.Team1Seed, g.Team1Name), describe(g.Team2Seed, g.Team2Name))
}

func (g *Game) setTeam(s Slot, seed *int, name *string) {
	if s == Slot2 {
		g.Team2Seed, g.Team2Name = seed, name
		return
	}
	g.Team1Seed, g.Team1Name = seed, name
}

func (g *Game) clearResult() {
	g.Team1Win, g.Team2Win = nil, nil
}

func (g Game) clone() Game {
	c := g
	c.Team1Seed = clonePtr(g.Team1Seed)
	c.Team1Name = clonePtr(g.Team1Name)
	c.Team2Seed = clonePtr(g.Team2Seed)
	c.Team2Name = clonePtr(g.Team2Name)
	c.Team1Win = clonePtr(g.Team1Win)
	c.Team2Win = clonePtr(g.Team2Win)
	c.NextRound = clonePtr(g.NextRound)
	c.NextGameIndex = clonePtr(g.NextGameIndex)
	return c
}

func describe(seed *int, name *string) string {
	switch {
	case name == nil:
		return "TBD"
	case seed == nil:
		return *name
	}
	return fmt.Sprintf("(%d) %s", *seed, *name)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }
