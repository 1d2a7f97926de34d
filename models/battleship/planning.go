package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// PlanningState is the player's ship placement screen. A ship id lives
// in exactly one of AvailableShips or PlacedShips; ActiveShip, when set,
// is a copy of one of the placed ships.
//
// Every operation returns a new PlanningState and leaves the receiver
// untouched, including on error.
type PlanningState struct {
	PlayerGrid     Grid         `json:"player_grid"`
	AllShips       []Ship       `json:"all_ships"`
	AvailableShips []Ship       `json:"available_ships"`
	PlacedShips    []PlacedShip `json:"placed_ships"`
	ActiveShip     *PlacedShip  `json:"active_ship"`
}

func NewPlanningState(gridSize int, catalog []Ship) PlanningState {
	p := PlanningState{
		PlayerGrid: NewGrid(gridSize),
		AllShips:   append([]Ship{}, catalog...),
	}
	p.AvailableShips = p.inventoryFromCatalog()
	p.PlacedShips = []PlacedShip{}
	return p
}

func (p PlanningState) Clone() PlanningState {
	next := PlanningState{
		PlayerGrid:     p.PlayerGrid.Clone(),
		AllShips:       append([]Ship{}, p.AllShips...),
		AvailableShips: append([]Ship{}, p.AvailableShips...),
		PlacedShips:    append([]PlacedShip{}, p.PlacedShips...),
	}
	if p.ActiveShip != nil {
		active := *p.ActiveShip
		next.ActiveShip = &active
	}
	return next
}

func (p PlanningState) inventoryFromCatalog() []Ship {
	ships := make([]Ship, len(p.AllShips))
	for i, s := range p.AllShips {
		s.Rotation = RotationHorizontal
		ships[i] = s
	}
	return ships
}

func (p PlanningState) findAvailable(shipId string) int {
	for i, s := range p.AvailableShips {
		if s.Id == shipId {
			return i
		}
	}
	return -1
}

func (p PlanningState) findPlacedByName(name string) int {
	for i, s := range p.PlacedShips {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Place moves an available ship onto the grid, anchored at (row, col)
// with the rotation it currently has in the inventory.
func (p PlanningState) Place(shipId string, row, col int) (PlanningState, error) {
	idx := p.findAvailable(shipId)
	if idx == -1 {
		return p, cerr.ErrShipNotFound(shipId)
	}
	ship := p.AvailableShips[idx]

	if err := p.PlayerGrid.checkFootprint(row, col, ship.Size, ship.Rotation, ""); err != nil {
		return p, err
	}

	next := p.Clone()
	next.PlayerGrid.fill(row, col, ship.Size, ship.Rotation, CellState(ship.Name))
	next.AvailableShips = append(next.AvailableShips[:idx], next.AvailableShips[idx+1:]...)
	next.PlacedShips = append(next.PlacedShips, NewPlacedShip(ship, row, col))
	return next, nil
}

// RotateAvailable toggles the rotation a ship will be placed with.
func (p PlanningState) RotateAvailable(shipId string) (PlanningState, error) {
	idx := p.findAvailable(shipId)
	if idx == -1 {
		return p, cerr.ErrShipNotFound(shipId)
	}

	next := p.Clone()
	next.AvailableShips[idx].Rotation = next.AvailableShips[idx].Rotation.Toggle()
	return next, nil
}

// HandleActiveShip toggles the selection of the ship at (row, col).
// Clicking empty water changes nothing. The resulting active ship is
// returned either way.
func (p PlanningState) HandleActiveShip(row, col int) (PlanningState, *PlacedShip, error) {
	if !p.PlayerGrid.InBounds(row, col) {
		return p, p.ActiveShip, cerr.ErrXorYOutOfGridBound(row, col)
	}

	next := p.Clone()
	cell := next.PlayerGrid.At(row, col)
	if !cell.IsShip() {
		return next, next.ActiveShip, nil
	}

	if next.ActiveShip != nil && next.ActiveShip.Name == string(cell) {
		next.ActiveShip = nil
		return next, nil, nil
	}

	idx := next.findPlacedByName(string(cell))
	if idx == -1 {
		return p, p.ActiveShip, cerr.ErrShipNotFound(string(cell))
	}
	active := next.PlacedShips[idx]
	next.ActiveShip = &active
	return next, next.ActiveShip, nil
}

// RemoveActive lifts the active ship off the grid and returns it to the
// inventory with rotation 0.
func (p PlanningState) RemoveActive() (PlanningState, error) {
	if p.ActiveShip == nil {
		return p, cerr.ErrNoActiveShip
	}

	idx := p.findPlacedByName(p.ActiveShip.Name)
	if idx == -1 {
		return p, cerr.ErrShipNotFound(p.ActiveShip.Id)
	}

	next := p.Clone()
	placed := next.PlacedShips[idx]
	next.PlayerGrid.fill(placed.Row, placed.Col, placed.Size, placed.Rotation, CellEmpty)
	next.PlacedShips = append(next.PlacedShips[:idx], next.PlacedShips[idx+1:]...)
	next.AvailableShips = append(next.AvailableShips, placed.Unplaced())
	next.ActiveShip = nil
	return next, nil
}

// RotateActive turns the active ship around its anchor cell. Its own
// cells do not block the rotation, any other ship does.
func (p PlanningState) RotateActive() (PlanningState, error) {
	if p.ActiveShip == nil {
		return p, cerr.ErrNoActiveShip
	}

	idx := p.findPlacedByName(p.ActiveShip.Name)
	if idx == -1 {
		return p, cerr.ErrShipNotFound(p.ActiveShip.Id)
	}

	placed := p.PlacedShips[idx]
	target := placed.Rotation.Toggle()
	if err := p.PlayerGrid.checkFootprint(placed.Row, placed.Col, placed.Size, target, CellState(placed.Name)); err != nil {
		return p, err
	}

	next := p.Clone()
	next.PlayerGrid.fill(placed.Row, placed.Col, placed.Size, placed.Rotation, CellEmpty)
	next.PlayerGrid.fill(placed.Row, placed.Col, placed.Size, target, CellState(placed.Name))
	next.PlacedShips[idx].Rotation = target
	active := next.PlacedShips[idx]
	next.ActiveShip = &active
	return next, nil
}

// ClearGrid empties the grid and moves every placed ship back to the
// inventory.
func (p PlanningState) ClearGrid() PlanningState {
	next := p.Clone()
	next.PlayerGrid.clear()
	for _, s := range next.PlacedShips {
		next.AvailableShips = append(next.AvailableShips, s.Unplaced())
	}
	next.PlacedShips = []PlacedShip{}
	next.ActiveShip = nil
	return next
}

// ResetPlanning empties the grid and rebuilds the inventory from the
// catalog.
func (p PlanningState) ResetPlanning() PlanningState {
	next := p.Clone()
	next.PlayerGrid.clear()
	next.AvailableShips = next.inventoryFromCatalog()
	next.PlacedShips = []PlacedShip{}
	next.ActiveShip = nil
	return next
}

// Colors maps ship names to their catalog colors.
func (p PlanningState) Colors() map[string]string {
	colors := make(map[string]string, len(p.AllShips))
	for _, s := range p.AllShips {
		colors[s.Name] = s.Color
	}
	return colors
}

// IsComplete reports whether the whole catalog is on the grid.
func (p PlanningState) IsComplete() bool {
	return len(p.AvailableShips) == 0 && len(p.PlacedShips) > 0
}
