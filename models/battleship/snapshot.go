package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Screen string

const (
	ScreenMenu     Screen = "menu"
	ScreenPlanning Screen = "planning"
	ScreenGame     Screen = "game"
)

const (
	BoardSmall   = "7x7"
	BoardDefault = "10x10"
)

var boardGridSizes = map[string]int{
	BoardSmall:   GridSizeSmall,
	BoardDefault: GridSizeDefault,
}

type Settings struct {
	SelectedBoard string `json:"selectedBoard"`
}

func (s Settings) GridSize() (int, error) {
	size, prs := boardGridSizes[s.SelectedBoard]
	if !prs {
		return 0, cerr.ErrInvalidBoard(s.SelectedBoard)
	}
	return size, nil
}

// Snapshot is the complete state of one game session. It is what the
// storage layer persists and what every request reads and replaces.
type Snapshot struct {
	GameUuid string        `json:"game_uuid"`
	Settings Settings      `json:"settings"`
	Screen   Screen        `json:"current_screen"`
	Planning PlanningState `json:"planning"`
	Match    *Match        `json:"match"`
}

func NewSnapshot(gameUuid string) Snapshot {
	return Snapshot{
		GameUuid: gameUuid,
		Settings: Settings{SelectedBoard: BoardDefault},
		Screen:   ScreenMenu,
		Planning: NewPlanningState(GridSizeDefault, DefaultCatalog()),
	}
}

func (s Snapshot) Clone() Snapshot {
	next := s
	next.Planning = s.Planning.Clone()
	if s.Match != nil {
		m := s.Match.Clone()
		next.Match = &m
	}
	return next
}

// UpdateSettings switches the board and starts planning over on a grid
// of the new size. Not allowed while a match exists.
func (s Snapshot) UpdateSettings(board string) (Snapshot, error) {
	settings := Settings{SelectedBoard: board}
	size, err := settings.GridSize()
	if err != nil {
		return s, err
	}
	if s.Match != nil {
		return s, cerr.ErrGameInProgress
	}

	next := s.Clone()
	next.Settings = settings
	if next.Planning.PlayerGrid.GridSize != size {
		next.Planning = NewPlanningState(size, next.Planning.AllShips)
	}
	return next, nil
}

func (s Snapshot) UpdateScreen(screen string) (Snapshot, error) {
	switch Screen(screen) {
	case ScreenMenu, ScreenPlanning, ScreenGame:
	default:
		return s, cerr.ErrInvalidScreen(screen)
	}

	next := s.Clone()
	next.Screen = Screen(screen)
	return next, nil
}

// WithPlanning replaces the planning state. The layout is frozen once a
// match has started.
func (s Snapshot) WithPlanning(planning PlanningState) (Snapshot, error) {
	if s.Match != nil {
		return s, cerr.ErrGameInProgress
	}

	next := s.Clone()
	next.Planning = planning
	return next, nil
}

func (s Snapshot) StartMatch(rng Rand) (Snapshot, error) {
	if s.Match != nil {
		return s, cerr.ErrGameInProgress
	}

	match, err := StartMatch(s.Planning, rng)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	next.Match = &match
	next.Screen = ScreenGame
	return next, nil
}

func (s Snapshot) PlayerAttack(row, col int) (Snapshot, AttackOutcome, error) {
	if s.Match == nil {
		return s, AttackOutcome{}, cerr.ErrGameNotStarted
	}

	match, outcome, err := s.Match.PlayerAttack(row, col)
	if err != nil {
		return s, AttackOutcome{}, err
	}

	next := s.Clone()
	next.Match = &match
	return next, outcome, nil
}

func (s Snapshot) PcAttack(rng Rand) (Snapshot, AttackOutcome, error) {
	if s.Match == nil {
		return s, AttackOutcome{}, cerr.ErrGameNotStarted
	}

	match, outcome, err := s.Match.PcAttack(rng)
	if err != nil {
		return s, AttackOutcome{}, err
	}

	next := s.Clone()
	next.Match = &match
	return next, outcome, nil
}

// NewRound drops the current match and brings the player back to an
// empty planning grid.
func (s Snapshot) NewRound() Snapshot {
	next := s.Clone()
	next.Match = nil
	next.Planning = next.Planning.ResetPlanning()
	next.Screen = ScreenPlanning
	return next
}
