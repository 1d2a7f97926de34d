package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Match is everything created at game-init: the player's committed
// layout, the PC's fleet and the turn state.
type Match struct {
	PlayerGrid  Grid         `json:"player_grid"`
	PlayerShips []PlacedShip `json:"player_ships"`
	PcGrid      Grid         `json:"pc_grid"`
	PcShips     PcShips      `json:"pc_ships"`
	State       GameState    `json:"game_state"`
}

// StartMatch freezes a complete planning layout and builds the PC side
// on a grid of the same size.
func StartMatch(planning PlanningState, rng Rand) (Match, error) {
	if !planning.IsComplete() {
		return Match{}, cerr.ErrPlanningIncomplete
	}

	pcShips, pcGrid, err := GeneratePCShips(planning.PlayerGrid.GridSize, rng)
	if err != nil {
		return Match{}, err
	}

	playerShips := append([]PlacedShip{}, planning.PlacedShips...)
	return Match{
		PlayerGrid:  planning.PlayerGrid.Clone(),
		PlayerShips: playerShips,
		PcGrid:      pcGrid,
		PcShips:     pcShips,
		State:       NewGameState(playerShips, pcShips.Ships),
	}, nil
}

func (m Match) Clone() Match {
	return Match{
		PlayerGrid:  m.PlayerGrid.Clone(),
		PlayerShips: append([]PlacedShip{}, m.PlayerShips...),
		PcGrid:      m.PcGrid.Clone(),
		PcShips:     PcShips{GridSize: m.PcShips.GridSize, Ships: append([]PlacedShip{}, m.PcShips.Ships...)},
		State:       m.State.Clone(),
	}
}

func (m Match) PlayerAttack(row, col int) (Match, AttackOutcome, error) {
	state, grid, outcome, err := m.State.PlayerAttack(m.PcGrid, row, col)
	if err != nil {
		return m, AttackOutcome{}, err
	}

	next := m.Clone()
	next.State = state
	next.PcGrid = grid
	return next, outcome, nil
}

func (m Match) PcAttack(rng Rand) (Match, AttackOutcome, error) {
	state, grid, outcome, err := m.State.PcAttack(m.PlayerGrid, rng)
	if err != nil {
		return m, AttackOutcome{}, err
	}

	next := m.Clone()
	next.State = state
	next.PlayerGrid = grid
	return next, outcome, nil
}

// OpponentView is the PC grid as the player is allowed to see it: only
// hits and misses, ships hidden as empty water.
func (m Match) OpponentView() Grid {
	view := m.PcGrid.Clone()
	for i := range view.Tiles {
		for j := range view.Tiles[i] {
			if view.Tiles[i][j].IsShip() {
				view.Tiles[i][j] = CellEmpty
			}
		}
	}
	return view
}
