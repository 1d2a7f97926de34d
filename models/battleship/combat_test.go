package battleship

import (
	"errors"
	"reflect"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// newTestBoard returns a 10x10 grid holding the given ships.
func newTestBoard(ships ...PlacedShip) Grid {
	grid := NewGrid(GridSizeDefault)
	for _, s := range ships {
		grid.fill(s.Row, s.Col, s.Size, s.Rotation, CellState(s.Name))
	}
	return grid
}

func testShip(name string, size, row, col int, rotation Rotation) PlacedShip {
	return NewPlacedShip(Ship{Id: name, Size: size, Name: name, Rotation: rotation}, row, col)
}

func TestResolveAttack(t *testing.T) {
	ship := testShip("ship1", 2, 0, 0, RotationHorizontal)
	grid := newTestBoard(ship)
	health := map[string]int{"ship1": 2}

	tests := []struct {
		name       string
		grid       Grid
		health     map[string]int
		row, col   int
		result     AttackResult
		sunk       string
		cell       CellState
		shipHealth int
	}{
		{name: "miss", grid: grid, health: health, row: 5, col: 5, result: AttackResultMiss, cell: CellMiss, shipHealth: 2},
		{name: "hit", grid: grid, health: health, row: 0, col: 1, result: AttackResultHit, cell: CellHit, shipHealth: 1},
		{name: "sunk", grid: grid, health: map[string]int{"ship1": 1}, row: 0, col: 0, result: AttackResultSunk, sunk: "ship1", cell: CellHit, shipHealth: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gridBefore := test.grid.Clone()

			nextGrid, nextHealth, outcome, err := ResolveAttack(test.grid, test.health, test.row, test.col)
			if err != nil {
				t.Fatal(err)
			}
			if outcome.Result != test.result || outcome.ShipSunk != test.sunk {
				t.Fatalf("expected %s/%q\tgot: %s/%q", test.result, test.sunk, outcome.Result, outcome.ShipSunk)
			}
			if outcome.Row != test.row || outcome.Col != test.col {
				t.Fatalf("outcome coordinates mismatch: %+v", outcome)
			}
			if nextGrid.At(test.row, test.col) != test.cell {
				t.Fatalf("expected cell %s, got: %s", test.cell, nextGrid.At(test.row, test.col))
			}
			if nextHealth["ship1"] != test.shipHealth {
				t.Fatalf("expected health %d, got: %d", test.shipHealth, nextHealth["ship1"])
			}
			if !reflect.DeepEqual(test.grid, gridBefore) {
				t.Fatal("resolve attack mutated its input grid")
			}
		})
	}
}

func TestResolveAttackTwice(t *testing.T) {
	grid := newTestBoard(testShip("ship3", 3, 4, 4, RotationVertical))
	health := map[string]int{"ship3": 3}

	grid, health, _, err := ResolveAttack(grid, health, 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	again, againHealth, _, err := ResolveAttack(grid, health, 4, 4)
	if !errors.Is(err, cerr.ErrAlreadyAttacked) {
		t.Fatalf("expected already attacked, got: %v", err)
	}
	if againHealth["ship3"] != 2 || !reflect.DeepEqual(again, grid) {
		t.Fatal("second attack on the same cell changed state")
	}

	grid, _, _, err = ResolveAttack(grid, health, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := ResolveAttack(grid, health, 0, 0); !errors.Is(err, cerr.ErrAlreadyAttacked) {
		t.Fatalf("expected already attacked on a miss, got: %v", err)
	}
	if _, _, _, err := ResolveAttack(grid, health, 10, 0); !errors.Is(err, cerr.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got: %v", err)
	}
}

func TestPlayerAttackSinksPcShip(t *testing.T) {
	pcShips := []PlacedShip{
		testShip("pc_ship1", 2, 0, 0, RotationHorizontal),
		testShip("pc_ship2", 2, 5, 5, RotationVertical),
	}
	pcGrid := newTestBoard(pcShips...)
	pcGrid.Tiles[0][1] = CellHit

	gs := NewGameState(pcShips, pcShips)
	gs.PcShipHealth["pc_ship1"] = 1

	next, grid, outcome, err := gs.PlayerAttack(pcGrid, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result != AttackResultSunk || outcome.ShipSunk != "pc_ship1" {
		t.Fatalf("expected pc_ship1 sunk, got: %+v", outcome)
	}
	if next.PcShipsRemaining != gs.PcShipsRemaining-1 {
		t.Fatalf("expected pc ships remaining %d, got: %d", gs.PcShipsRemaining-1, next.PcShipsRemaining)
	}
	if next.IsPlayerTurn {
		t.Fatal("turn must pass to the pc")
	}
	if next.GameOver {
		t.Fatal("game cannot be over with a pc ship afloat")
	}
	if grid.At(0, 0) != CellHit {
		t.Fatal("attacked cell not marked hit")
	}
	if gs.PcShipHealth["pc_ship1"] != 1 || !gs.IsPlayerTurn {
		t.Fatal("player attack mutated its input state")
	}
}

func TestTurnAndGameOver(t *testing.T) {
	ships := []PlacedShip{testShip("ship1", 2, 0, 0, RotationHorizontal)}
	grid := newTestBoard(ships...)
	gs := NewGameState(ships, ships)

	if _, _, _, err := gs.PcAttack(grid, newScriptedRand(0)); !errors.Is(err, cerr.ErrNotYourTurn) {
		t.Fatalf("expected not your turn, got: %v", err)
	}

	gs, grid, outcome, err := gs.PlayerAttack(grid, 9, 9)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result != AttackResultMiss || gs.IsPlayerTurn {
		t.Fatalf("expected a miss and the pc's turn, got: %+v turn %t", outcome, gs.IsPlayerTurn)
	}

	if _, _, _, err := gs.PlayerAttack(grid, 0, 0); !errors.Is(err, cerr.ErrNotYourTurn) {
		t.Fatalf("expected not your turn, got: %v", err)
	}

	gs.IsPlayerTurn = true
	gs, grid, _, err = gs.PlayerAttack(grid, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	gs.IsPlayerTurn = true
	gs, grid, outcome, err = gs.PlayerAttack(grid, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result != AttackResultSunk {
		t.Fatalf("expected sunk, got: %s", outcome.Result)
	}
	if !gs.GameOver || gs.Winner == nil || *gs.Winner != SidePlayer {
		t.Fatalf("expected player to win, got: over %t winner %v", gs.GameOver, gs.Winner)
	}
	if gs.PcShipsRemaining != 0 {
		t.Fatalf("expected no pc ships left, got: %d", gs.PcShipsRemaining)
	}

	if _, _, _, err := gs.PcAttack(grid, newScriptedRand(0)); !errors.Is(err, cerr.ErrGameOver) {
		t.Fatalf("expected game over, got: %v", err)
	}
	if _, _, _, err := gs.PlayerAttack(grid, 5, 5); !errors.Is(err, cerr.ErrGameOver) {
		t.Fatalf("expected game over, got: %v", err)
	}
}

func TestPcWins(t *testing.T) {
	ships := []PlacedShip{testShip("ship1", 2, 0, 0, RotationHorizontal)}
	grid := newTestBoard(ships...)
	gs := NewGameState(ships, ships)
	gs.IsPlayerTurn = false
	gs.PlayerShipHealth["ship1"] = 1
	gs.AiTargets = []Coordinates{{Row: 0, Col: 1}}

	next, _, outcome, err := gs.PcAttack(grid, newScriptedRand(0))
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result != AttackResultSunk || outcome.ShipSunk != "ship1" {
		t.Fatalf("expected ship1 sunk, got: %+v", outcome)
	}
	if !next.GameOver || next.Winner == nil || *next.Winner != SidePC || next.PlayerShipsRemaining != 0 {
		t.Fatalf("expected pc to win, got: %+v", next)
	}
}
