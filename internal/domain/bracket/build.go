package bracket

import (
	"fmt"
	"math/bits"
)

// FinalRoundsRegion labels games played after the regions merge.
const FinalRoundsRegion = "Final Four"

// Matchup is a known first-round pairing.
type Matchup struct {
	Team1Seed int    `json:"team_1_seed"`
	Team1Name string `json:"team_1_name"`
	Team2Seed int    `json:"team_2_seed"`
	Team2Name string `json:"team_2_name"`
}

// Region is one quarter (or other part) of the draw with its first-round games
// in bracket order.
type Region struct {
	Name  string    `json:"name"`
	Games []Matchup `json:"games"`
}

// Build lays out a complete bracket table from first-round matchups.
//
// Regions play down to a single regional champion. semifinals names which
// regions meet once the regions merge; the first region of a pair fills slot
// 1 and the second slot 2. With no pairs, regions are paired in order.
// The table is round-major, then region-major, then by round game number.
func Build(regions []Region, semifinals [][2]string) ([]Game, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrMalformedBracket)
	}
	size := len(regions[0].Games)
	names := make(map[string]bool, len(regions))
	for _, r := range regions {
		if names[r.Name] {
			return nil, fmt.Errorf("%w: duplicate region %q", ErrMalformedBracket, r.Name)
		}
		names[r.Name] = true
		if len(r.Games) != size {
			return nil, fmt.Errorf("%w: region %q has %d games, expected %d", ErrMalformedBracket, r.Name, len(r.Games), size)
		}
	}
	if size == 0 || bits.OnesCount(uint(size)) != 1 {
		return nil, fmt.Errorf("%w: regions need a power of two first-round games, got %d", ErrMalformedBracket, size)
	}
	pairs, err := pairRegions(regions, semifinals)
	if err != nil {
		return nil, err
	}

	b := &builder{}
	prev := make([][]int, len(regions))
	for ri, r := range regions {
		for k, m := range r.Games {
			prev[ri] = append(prev[ri], b.add(Game{
				Region:          r.Name,
				Round:           1,
				RoundGameNumber: k + 1,
				Team1Seed:       ptr(m.Team1Seed),
				Team1Name:       ptr(m.Team1Name),
				Team2Seed:       ptr(m.Team2Seed),
				Team2Name:       ptr(m.Team2Name),
			}))
		}
	}

	round := 1
	for len(prev[0]) > 1 {
		round++
		for ri, r := range regions {
			prev[ri] = b.advance(prev[ri], r.Name, round)
		}
	}
	if len(regions) == 1 {
		return b.games, nil
	}

	round++
	index := make(map[string]int, len(regions))
	for ri, r := range regions {
		index[r.Name] = ri
	}
	var national []int
	for q, p := range pairs {
		idx := b.add(Game{Region: FinalRoundsRegion, Round: round, RoundGameNumber: q + 1})
		b.link(prev[index[p[0]]][0], idx, Slot1)
		b.link(prev[index[p[1]]][0], idx, Slot2)
		national = append(national, idx)
	}
	for len(national) > 1 {
		if len(national)%2 != 0 {
			return nil, fmt.Errorf("%w: %d games in round %d cannot be paired", ErrMalformedBracket, len(national), round)
		}
		round++
		national = b.advance(national, FinalRoundsRegion, round)
	}
	return b.games, nil
}

type builder struct {
	games []Game
}

func (b *builder) add(g Game) int {
	g.ID = len(b.games) + 1
	b.games = append(b.games, g)
	return len(b.games) - 1
}

func (b *builder) link(from, to int, slot Slot) {
	b.games[from].NextGameIndex = ptr(to)
	b.games[from].NextRound = ptr(b.games[to].Round)
	b.games[from].NextSlot = slot
}

// advance adds the next round fed pairwise by feeders.
func (b *builder) advance(feeders []int, region string, round int) []int {
	next := make([]int, 0, len(feeders)/2)
	for k := 0; k+1 < len(feeders); k += 2 {
		idx := b.add(Game{Region: region, Round: round, RoundGameNumber: k/2 + 1})
		b.link(feeders[k], idx, SlotNone)
		b.link(feeders[k+1], idx, SlotNone)
		next = append(next, idx)
	}
	return next
}

func pairRegions(regions []Region, semifinals [][2]string) ([][2]string, error) {
	if len(regions) == 1 {
		return nil, nil
	}
	if len(semifinals) == 0 {
		if len(regions)%2 != 0 {
			return nil, fmt.Errorf("%w: cannot pair %d regions", ErrMalformedBracket, len(regions))
		}
		for i := 0; i < len(regions); i += 2 {
			semifinals = append(semifinals, [2]string{regions[i].Name, regions[i+1].Name})
		}
		return semifinals, nil
	}
	known := make(map[string]bool, len(regions))
	for _, r := range regions {
		known[r.Name] = false
	}
	for _, p := range semifinals {
		for _, name := range p {
			used, ok := known[name]
			switch {
			case !ok:
				return nil, fmt.Errorf("%w: semifinal names unknown region %q", ErrMalformedBracket, name)
			case used:
				return nil, fmt.Errorf("%w: region %q is paired twice", ErrMalformedBracket, name)
			}
			known[name] = true
		}
	}
	for name, used := range known {
		if !used {
			return nil, fmt.Errorf("%w: region %q is not paired", ErrMalformedBracket, name)
		}
	}
	return semifinals, nil
}
