package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// SelectTarget picks the next cell the AI fires at. Queued follow-ups
// from a previous hit are served first in FIFO order; with an empty
// queue the AI hunts uniformly at random among unresolved cells.
func (gs GameState) SelectTarget(grid Grid, rng Rand) (GameState, Coordinates, error) {
	next := gs.Clone()

	for len(next.AiTargets) > 0 {
		target := next.AiTargets[0]
		next.AiTargets = next.AiTargets[1:]
		// Entries resolved since they were queued are dropped.
		if grid.InBounds(target.Row, target.Col) && !grid.At(target.Row, target.Col).IsResolved() {
			return next, target, nil
		}
	}

	next.AiMode = AiModeHunt
	candidates := grid.Unresolved()
	if len(candidates) == 0 {
		return gs, Coordinates{}, cerr.ErrNoTargetsAvailable
	}
	return next, candidates[rng.IntN(len(candidates))], nil
}

// observe moves the AI between hunt and target mode after one of its
// attacks was resolved on grid.
func (gs GameState) observe(grid Grid, outcome AttackOutcome) GameState {
	next := gs.Clone()

	switch outcome.Result {
	case AttackResultHit:
		hit := NewCoordinates(outcome.Row, outcome.Col)
		next.AiMode = AiModeTarget
		next.AiLastHit = &hit
		next.enqueueNeighbours(grid, hit)

	case AttackResultSunk:
		next.AiMode = AiModeHunt
		next.AiLastHit = nil
		next.AiTargets = []Coordinates{}

	case AttackResultMiss:
		if len(next.AiTargets) == 0 {
			next.AiMode = AiModeHunt
		}
	}
	return next
}

var orthogonal = [...]Coordinates{{Row: -1, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: 0, Col: 1}}

func (gs *GameState) enqueueNeighbours(grid Grid, hit Coordinates) {
	for _, d := range orthogonal {
		n := NewCoordinates(hit.Row+d.Row, hit.Col+d.Col)
		if !grid.InBounds(n.Row, n.Col) || grid.At(n.Row, n.Col).IsResolved() {
			continue
		}
		if gs.isQueued(n) {
			continue
		}
		gs.AiTargets = append(gs.AiTargets, n)
	}
}

func (gs GameState) isQueued(c Coordinates) bool {
	for _, q := range gs.AiTargets {
		if q == c {
			return true
		}
	}
	return false
}
