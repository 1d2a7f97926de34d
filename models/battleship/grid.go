package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	GridSizeSmall   int = 7
	GridSizeDefault int = 10
)

// CellState is either one of the constants below or the name of the
// ship occupying the cell.
type CellState string

const (
	CellEmpty CellState = "empty"
	CellHit   CellState = "hit"
	CellMiss  CellState = "miss"
)

// IsResolved reports whether the cell was already attacked.
func (c CellState) IsResolved() bool {
	return c == CellHit || c == CellMiss
}

// IsShip reports whether a ship occupies the cell.
func (c CellState) IsShip() bool {
	return c != CellEmpty && !c.IsResolved()
}

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

type Grid struct {
	GridSize int           `json:"gridSize"`
	Tiles    [][]CellState `json:"tiles"`
}

// Creates a new default grid
// All tiles are CellEmpty
func NewGrid(gridSize int) Grid {
	tiles := make([][]CellState, gridSize)
	for i := range tiles {
		tiles[i] = make([]CellState, gridSize)
		for j := range tiles[i] {
			tiles[i][j] = CellEmpty
		}
	}
	return Grid{GridSize: gridSize, Tiles: tiles}
}

func (g Grid) Clone() Grid {
	tiles := make([][]CellState, len(g.Tiles))
	for i := range g.Tiles {
		tiles[i] = append([]CellState(nil), g.Tiles[i]...)
	}
	return Grid{GridSize: g.GridSize, Tiles: tiles}
}

func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.GridSize && col >= 0 && col < g.GridSize
}

func (g Grid) At(row, col int) CellState {
	return g.Tiles[row][col]
}

// Unresolved returns every cell that was neither hit nor missed, row by row.
func (g Grid) Unresolved() []Coordinates {
	coords := make([]Coordinates, 0, g.GridSize*g.GridSize)
	for r := 0; r < g.GridSize; r++ {
		for c := 0; c < g.GridSize; c++ {
			if !g.Tiles[r][c].IsResolved() {
				coords = append(coords, NewCoordinates(r, c))
			}
		}
	}
	return coords
}

// Footprint lists the cells a ship anchored at (row, col) occupies.
// Rotation 0 grows along the row, 90 grows down the column.
func Footprint(row, col, size int, rotation Rotation) []Coordinates {
	coords := make([]Coordinates, size)
	for i := 0; i < size; i++ {
		if rotation == RotationVertical {
			coords[i] = NewCoordinates(row+i, col)
		} else {
			coords[i] = NewCoordinates(row, col+i)
		}
	}
	return coords
}

// CanPlace reports whether a ship of the given size fits at (row, col)
// without leaving the grid or touching an occupied cell.
func (g Grid) CanPlace(row, col, size int, rotation Rotation) bool {
	return g.checkFootprint(row, col, size, rotation, "") == nil
}

// checkFootprint validates a footprint. Cells holding `passable` are
// treated as empty, which lets a ship be checked against its own cells.
func (g Grid) checkFootprint(row, col, size int, rotation Rotation, passable CellState) error {
	if size < 1 || !g.InBounds(row, col) {
		return cerr.ErrFootprintOutOfBounds(row, col, size, int(rotation))
	}
	end := Footprint(row, col, size, rotation)[size-1]
	if !g.InBounds(end.Row, end.Col) {
		return cerr.ErrFootprintOutOfBounds(row, col, size, int(rotation))
	}

	for _, c := range Footprint(row, col, size, rotation) {
		cell := g.Tiles[c.Row][c.Col]
		if cell == CellEmpty {
			continue
		}
		if passable != "" && cell == passable {
			continue
		}
		if passable != "" {
			return cerr.ErrRotationCollision(c.Row, c.Col, string(cell))
		}
		return cerr.ErrFootprintOverlap(c.Row, c.Col, string(cell))
	}
	return nil
}

func (g Grid) fill(row, col, size int, rotation Rotation, state CellState) {
	for _, c := range Footprint(row, col, size, rotation) {
		g.Tiles[c.Row][c.Col] = state
	}
}

func (g Grid) clear() {
	for i := range g.Tiles {
		for j := range g.Tiles[i] {
			g.Tiles[i][j] = CellEmpty
		}
	}
}
