package battleship

import (
	"errors"
	"math/rand/v2"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func startedSnapshot(t *testing.T) Snapshot {
	t.Helper()
	s := NewSnapshot("abc123")
	s, err := s.WithPlanning(placeFleet(t, s.Planning))
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.StartMatch(newTestRand())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot("abc123")
	if s.GameUuid != "abc123" || s.Screen != ScreenMenu || s.Match != nil {
		t.Fatalf("unexpected new snapshot: %+v", s)
	}
	if s.Settings.SelectedBoard != BoardDefault || s.Planning.PlayerGrid.GridSize != GridSizeDefault {
		t.Fatalf("expected default board, got: %s %d", s.Settings.SelectedBoard, s.Planning.PlayerGrid.GridSize)
	}
}

func TestUpdateSettings(t *testing.T) {
	s := NewSnapshot("abc123")
	placed, err := s.Planning.Place("1", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, _ = s.WithPlanning(placed)

	same, err := s.UpdateSettings(BoardDefault)
	if err != nil {
		t.Fatal(err)
	}
	if len(same.Planning.PlacedShips) != 1 {
		t.Fatal("keeping the board size must keep the layout")
	}

	small, err := s.UpdateSettings(BoardSmall)
	if err != nil {
		t.Fatal(err)
	}
	if small.Planning.PlayerGrid.GridSize != GridSizeSmall || len(small.Planning.PlacedShips) != 0 {
		t.Fatalf("expected an empty 7x7 planning grid, got: %d with %d placed", small.Planning.PlayerGrid.GridSize, len(small.Planning.PlacedShips))
	}
	if len(small.Planning.AvailableShips) != len(DefaultCatalog()) {
		t.Fatal("switching board must return every ship to the inventory")
	}

	if _, err := s.UpdateSettings("8x8"); !errors.Is(err, cerr.ErrInvalidSetting) {
		t.Fatalf("expected invalid setting, got: %v", err)
	}
}

func TestUpdateScreen(t *testing.T) {
	s := NewSnapshot("abc123")

	next, err := s.UpdateScreen("planning")
	if err != nil {
		t.Fatal(err)
	}
	if next.Screen != ScreenPlanning || s.Screen != ScreenMenu {
		t.Fatalf("expected planning on the copy only, got: %s / %s", next.Screen, s.Screen)
	}

	if _, err := s.UpdateScreen("lobby"); !errors.Is(err, cerr.ErrInvalidSetting) {
		t.Fatalf("expected invalid setting, got: %v", err)
	}
}

func TestStartMatch(t *testing.T) {
	s := NewSnapshot("abc123")
	if _, err := s.StartMatch(newTestRand()); !errors.Is(err, cerr.ErrPlanningIncomplete) {
		t.Fatalf("expected planning incomplete, got: %v", err)
	}

	s = startedSnapshot(t)
	if s.Screen != ScreenGame || s.Match == nil {
		t.Fatalf("expected a running match on the game screen, got: %s %v", s.Screen, s.Match)
	}

	m := s.Match
	if m.PcGrid.GridSize != m.PlayerGrid.GridSize || m.PcShips.GridSize != GridSizeDefault {
		t.Fatal("pc grid must match the player's grid size")
	}
	if len(m.PcShips.Ships) != len(fleetSizes) || m.State.PcShipsRemaining != len(fleetSizes) {
		t.Fatalf("expected %d pc ships, got: %d", len(fleetSizes), len(m.PcShips.Ships))
	}
	if m.State.PlayerShipsRemaining != len(fleetSizes) || !m.State.IsPlayerTurn || m.State.AiMode != AiModeHunt {
		t.Fatalf("unexpected initial game state: %+v", m.State)
	}

	if _, err := s.StartMatch(newTestRand()); !errors.Is(err, cerr.ErrGameInProgress) {
		t.Fatalf("expected game in progress, got: %v", err)
	}
	if _, err := s.UpdateSettings(BoardSmall); !errors.Is(err, cerr.ErrGameInProgress) {
		t.Fatalf("expected game in progress, got: %v", err)
	}
	if _, err := s.WithPlanning(s.Planning.ClearGrid()); !errors.Is(err, cerr.ErrGameInProgress) {
		t.Fatalf("expected game in progress, got: %v", err)
	}
}

func TestStartMatchSmallBoard(t *testing.T) {
	s, err := NewSnapshot("abc123").UpdateSettings(BoardSmall)
	if err != nil {
		t.Fatal(err)
	}
	// Rows 0, 2, 4, 6 hold ships 1..4; ship5 goes to row 1.
	p := s.Planning
	for i, id := range []string{"1", "2", "3", "4"} {
		if p, err = p.Place(id, i*2, 0); err != nil {
			t.Fatal(err)
		}
	}
	if p, err = p.Place("5", 1, 0); err != nil {
		t.Fatal(err)
	}
	s, _ = s.WithPlanning(p)

	s, err = s.StartMatch(newTestRand())
	if err != nil {
		t.Fatal(err)
	}
	if s.Match.PcGrid.GridSize != GridSizeSmall {
		t.Fatalf("expected a 7x7 pc grid, got: %d", s.Match.PcGrid.GridSize)
	}
}

func TestSnapshotAttacks(t *testing.T) {
	fresh := NewSnapshot("abc123")
	if _, _, err := fresh.PlayerAttack(0, 0); !errors.Is(err, cerr.ErrGameNotStarted) {
		t.Fatalf("expected game not started, got: %v", err)
	}
	if _, _, err := fresh.PcAttack(newTestRand()); !errors.Is(err, cerr.ErrGameNotStarted) {
		t.Fatalf("expected game not started, got: %v", err)
	}

	s := startedSnapshot(t)
	if _, _, err := s.PcAttack(newTestRand()); !errors.Is(err, cerr.ErrNotYourTurn) {
		t.Fatalf("expected not your turn, got: %v", err)
	}

	afterPlayer, outcome, err := s.PlayerAttack(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if afterPlayer.Match.PcGrid.At(0, 0) != CellHit && afterPlayer.Match.PcGrid.At(0, 0) != CellMiss {
		t.Fatalf("expected (0,0) resolved, got: %s", afterPlayer.Match.PcGrid.At(0, 0))
	}
	if outcome.Row != 0 || outcome.Col != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if s.Match.PcGrid.At(0, 0).IsResolved() {
		t.Fatal("player attack mutated the original snapshot")
	}

	afterPc, outcome, err := afterPlayer.PcAttack(newTestRand())
	if err != nil {
		t.Fatal(err)
	}
	if !afterPc.Match.PlayerGrid.At(outcome.Row, outcome.Col).IsResolved() {
		t.Fatalf("expected pc target (%d,%d) resolved", outcome.Row, outcome.Col)
	}
	if !afterPc.Match.State.IsPlayerTurn {
		t.Fatal("turn must return to the player")
	}
}

func TestOpponentViewHidesShips(t *testing.T) {
	s := startedSnapshot(t)
	s, _, err := s.PlayerAttack(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	view := s.Match.OpponentView()
	for i, row := range view.Tiles {
		for j, cell := range row {
			if cell.IsShip() {
				t.Fatalf("ship visible at (%d,%d): %s", i, j, cell)
			}
		}
	}
	if !view.At(0, 0).IsResolved() {
		t.Fatal("resolved cells must stay visible")
	}
}

func TestNewRound(t *testing.T) {
	s := startedSnapshot(t)
	next := s.NewRound()

	if next.Match != nil || next.Screen != ScreenPlanning {
		t.Fatalf("expected planning without a match, got: %s %v", next.Screen, next.Match)
	}
	if len(next.Planning.PlacedShips) != 0 || len(next.Planning.AvailableShips) != len(DefaultCatalog()) {
		t.Fatal("new round must reset planning")
	}
	if s.Match == nil {
		t.Fatal("new round mutated the original snapshot")
	}
}
