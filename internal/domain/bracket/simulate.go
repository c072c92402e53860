package bracket

import (
	"context"
	"fmt"
)

// ClearLaterRounds drops every result and empties the slots of games beyond
// round 1. Only first-round matchups are known before the tournament starts.
func ClearLaterRounds(games []Game) {
	for i := range games {
		games[i].clearResult()
		if games[i].Round > 1 {
			games[i].setTeam(Slot1, nil, nil)
			games[i].setTeam(Slot2, nil, nil)
		}
	}
}

// Simulate resolves every game in table order and writes each winner into
// the slot of the game it feeds. The input is not modified; the returned
// table holds the results with the champion in the final game.
//
// Table order must place every game after the games that feed it, which
// holds for round-major tables.
func Simulate(ctx context.Context, games []Game, d Decider) ([]Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: no decider", ErrMalformedBracket)
	}
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = g.clone()
	}
	ClearLaterRounds(out)

	finals := 0
	for i := range out {
		g := &out[i]
		if g.Team1Name == nil || g.Team2Name == nil {
			return nil, fmt.Errorf("%w: game %d (round %d) has an empty slot", ErrMalformedBracket, g.ID, g.Round)
		}
		win, err := d.Decide(*g)
		if err != nil {
			return nil, fmt.Errorf("game %d %s: %w", g.ID, g.Matchup(), err)
		}
		if win != Slot1 && win != Slot2 {
			return nil, fmt.Errorf("%w: decider returned slot %d for game %d", ErrMalformedBracket, win, g.ID)
		}
		g.Team1Win, g.Team2Win = ptr(win == Slot1), ptr(win == Slot2)

		if g.IsFinal() {
			finals++
			continue
		}
		next := *g.NextGameIndex
		if next <= i || next >= len(out) {
			return nil, fmt.Errorf("%w: game %d feeds index %d", ErrMalformedBracket, g.ID, next)
		}
		out[next].setTeam(g.TargetSlot(), clonePtr(g.Seed(win)), clonePtr(g.Name(win)))
	}
	if len(out) > 0 && finals != 1 {
		return nil, fmt.Errorf("%w: expected one final game, found %d", ErrMalformedBracket, finals)
	}
	return out, nil
}

// Champion returns the seed and name of the final game's winner.
func Champion(games []Game) (int, string, error) {
	for _, g := range games {
		if !g.IsFinal() {
			continue
		}
		win, ok := g.Winner()
		if !ok || g.Name(win) == nil {
			return 0, "", fmt.Errorf("%w: final game %d is unresolved", ErrMalformedBracket, g.ID)
		}
		seed := 0
		if s := g.Seed(win); s != nil {
			seed = *s
		}
		return seed, *g.Name(win), nil
	}
	return 0, "", fmt.Errorf("%w: no final game", ErrMalformedBracket)
}
