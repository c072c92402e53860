package bracket

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/okian/madness/internal/domain/model"
)

// PlayInSeparator joins the two names of an unresolved play-in slot.
const PlayInSeparator = "/"

// Decider picks the winning slot of a game whose two teams are known.
type Decider interface {
	Decide(g Game) (Slot, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(g Game) (Slot, error)

// Decide implements Decider.
func (f DeciderFunc) Decide(g Game) (Slot, error) { return f(g) }

// BySeed advances the lower numeric seed. Equal seeds go to Tiebreak.
type BySeed struct {
	Tiebreak func() Slot
}

// NewBySeed breaks seed ties with a coin flip from rng. A nil rng uses a
// time-seeded source, so pass one when results must be reproducible.
func NewBySeed(rng *rand.Rand) BySeed {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // coin flip, not security sensitive
	}
	return BySeed{Tiebreak: func() Slot {
		if rng.Intn(2) == 0 {
			return Slot1
		}
		return Slot2
	}}
}

// Decide implements Decider.
func (d BySeed) Decide(g Game) (Slot, error) {
	if g.Team1Seed == nil || g.Team2Seed == nil {
		return SlotNone, fmt.Errorf("%w: game %d is missing a seed", ErrMalformedBracket, g.ID)
	}
	switch s1, s2 := *g.Team1Seed, *g.Team2Seed; {
	case s1 < s2:
		return Slot1, nil
	case s2 < s1:
		return Slot2, nil
	}
	if d.Tiebreak == nil {
		return Slot1, nil
	}
	return d.Tiebreak(), nil
}

// ByRating advances the team with the higher computed rating. An exact tie
// goes to slot 1.
type ByRating struct {
	ratings map[string]float64
}

// NewByRating indexes a ranked table by team name.
func NewByRating(ratings []model.Rating) ByRating {
	m := make(map[string]float64, len(ratings))
	for _, r := range ratings {
		m[r.Team] = r.Rating
	}
	return ByRating{ratings: m}
}

// Rating returns the rating used for a bracket slot name. For a play-in slot
// only the first listed team is looked up.
func (d ByRating) Rating(name string) (float64, error) {
	key := name
	if first, _, ok := strings.Cut(name, PlayInSeparator); ok {
		key = first
	}
	key = strings.TrimSpace(key)
	r, ok := d.ratings[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrLookup, key)
	}
	return r, nil
}

// Decide implements Decider.
func (d ByRating) Decide(g Game) (Slot, error) {
	if g.Team1Name == nil || g.Team2Name == nil {
		return SlotNone, fmt.Errorf("%w: game %d is missing a team", ErrMalformedBracket, g.ID)
	}
	r1, err := d.Rating(*g.Team1Name)
	if err != nil {
		return SlotNone, err
	}
	r2, err := d.Rating(*g.Team2Name)
	if err != nil {
		return SlotNone, err
	}
	if r2 > r1 {
		return Slot2, nil
	}
	return Slot1, nil
}
