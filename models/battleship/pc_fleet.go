package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const maxPlacementAttempts = 100

// Rand is the source of randomness for the PC fleet and the AI.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// PcShips is the computer's roster.
type PcShips struct {
	GridSize int          `json:"gridSize"`
	Ships    []PlacedShip `json:"ships"`
}

// GeneratePCShips places pc_ship1..pc_ship5 at random on an empty grid
// of the given size. Each ship gets up to 100 random samples; if one
// runs out, the ships placed so far are returned with an error wrapping
// ErrPlacementFailed.
func GeneratePCShips(gridSize int, rng Rand) (PcShips, Grid, error) {
	grid := NewGrid(gridSize)
	roster := PcShips{GridSize: gridSize, Ships: make([]PlacedShip, 0, len(fleetSizes))}

	for _, ship := range newFleet("pc_", "pc_ship") {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			row, col := rng.IntN(gridSize), rng.IntN(gridSize)
			rotation := RotationHorizontal
			if rng.IntN(2) == 1 {
				rotation = RotationVertical
			}

			if !grid.CanPlace(row, col, ship.Size, rotation) {
				continue
			}

			ship.Rotation = rotation
			grid.fill(row, col, ship.Size, rotation, CellState(ship.Name))
			roster.Ships = append(roster.Ships, NewPlacedShip(ship, row, col))
			placed = true
			break
		}

		if !placed {
			return roster, grid, cerr.ErrPcShipPlacement(ship.Name, maxPlacementAttempts)
		}
	}

	return roster, grid, nil
}
