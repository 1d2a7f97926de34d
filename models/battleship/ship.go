package battleship

import "fmt"

type Rotation int

const (
	RotationHorizontal Rotation = 0
	RotationVertical   Rotation = 90
)

func (r Rotation) Toggle() Rotation {
	if r == RotationVertical {
		return RotationHorizontal
	}
	return RotationVertical
}

// Ship is used both as the immutable catalog definition (all_ships)
// and as an inventory instance waiting to be placed (available_ships).
type Ship struct {
	Id       string   `json:"id"`
	Size     int      `json:"size"`
	Color    string   `json:"color"`
	Rotation Rotation `json:"rotation"`
	Name     string   `json:"name"`
}

// PlacedShip is a ship anchored on the grid at (Row, Col).
type PlacedShip struct {
	Ship
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewPlacedShip(ship Ship, row, col int) PlacedShip {
	return PlacedShip{Ship: ship, Row: row, Col: col}
}

func (ps PlacedShip) Footprint() []Coordinates {
	return Footprint(ps.Row, ps.Col, ps.Size, ps.Rotation)
}

// Unplaced drops the anchor and resets the rotation, which is the
// shape a ship takes when it returns to the inventory.
func (ps PlacedShip) Unplaced() Ship {
	ship := ps.Ship
	ship.Rotation = RotationHorizontal
	return ship
}

var (
	fleetSizes  = [...]int{2, 2, 3, 3, 4}
	fleetColors = [...]string{"purple", "orange", "green", "blue", "grey"}
)

// DefaultCatalog returns the player's five ships: ship1..ship5.
func DefaultCatalog() []Ship {
	return newFleet("", "ship")
}

func newFleet(idPrefix, namePrefix string) []Ship {
	ships := make([]Ship, len(fleetSizes))
	for i := range fleetSizes {
		ships[i] = Ship{
			Id:       fmt.Sprintf("%s%d", idPrefix, i+1),
			Size:     fleetSizes[i],
			Color:    fleetColors[i],
			Rotation: RotationHorizontal,
			Name:     fmt.Sprintf("%s%d", namePrefix, i+1),
		}
	}
	return ships
}

// healthOf maps every ship name to its size.
func healthOf(ships []PlacedShip) map[string]int {
	health := make(map[string]int, len(ships))
	for _, s := range ships {
		health[s.Name] = s.Size
	}
	return health
}
