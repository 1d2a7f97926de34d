package battleship

import (
	"maps"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Side string

const (
	SidePlayer Side = "player"
	SidePC     Side = "pc"
)

type AiMode string

const (
	AiModeHunt   AiMode = "hunt"
	AiModeTarget AiMode = "target"
)

type AttackResult string

const (
	AttackResultMiss AttackResult = "miss"
	AttackResultHit  AttackResult = "hit"
	AttackResultSunk AttackResult = "sunk"
)

type AttackOutcome struct {
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	Result   AttackResult `json:"result"`
	ShipSunk string       `json:"shipSunk,omitempty"`
}

type GameState struct {
	PlayerShipsRemaining int            `json:"playerShipsRemaining"`
	PcShipsRemaining     int            `json:"pcShipsRemaining"`
	IsPlayerTurn         bool           `json:"isPlayerTurn"`
	GameOver             bool           `json:"gameOver"`
	Winner               *Side          `json:"winner"`
	AiMode               AiMode         `json:"aiMode"`
	AiLastHit            *Coordinates   `json:"aiLastHit"`
	AiTargets            []Coordinates  `json:"aiTargets"`
	PlayerShipHealth     map[string]int `json:"playerShipHealth"`
	PcShipHealth         map[string]int `json:"pcShipHealth"`
}

func NewGameState(playerShips, pcShips []PlacedShip) GameState {
	return GameState{
		PlayerShipsRemaining: len(playerShips),
		PcShipsRemaining:     len(pcShips),
		IsPlayerTurn:         true,
		AiMode:               AiModeHunt,
		AiTargets:            []Coordinates{},
		PlayerShipHealth:     healthOf(playerShips),
		PcShipHealth:         healthOf(pcShips),
	}
}

func (gs GameState) Clone() GameState {
	next := gs
	if gs.Winner != nil {
		w := *gs.Winner
		next.Winner = &w
	}
	if gs.AiLastHit != nil {
		c := *gs.AiLastHit
		next.AiLastHit = &c
	}
	next.AiTargets = append([]Coordinates{}, gs.AiTargets...)
	next.PlayerShipHealth = maps.Clone(gs.PlayerShipHealth)
	next.PcShipHealth = maps.Clone(gs.PcShipHealth)
	return next
}

// ResolveAttack fires at (row, col) of grid. Empty water becomes a miss,
// a ship cell becomes a hit and loses one point of health; a ship at
// zero health is reported as sunk. The inputs are not modified.
func ResolveAttack(grid Grid, health map[string]int, row, col int) (Grid, map[string]int, AttackOutcome, error) {
	if !grid.InBounds(row, col) {
		return grid, health, AttackOutcome{}, cerr.ErrXorYOutOfGridBound(row, col)
	}

	cell := grid.At(row, col)
	if cell.IsResolved() {
		return grid, health, AttackOutcome{}, cerr.ErrAttackPositionAlreadyFilled(row, col)
	}

	nextGrid := grid.Clone()
	nextHealth := maps.Clone(health)
	if nextHealth == nil {
		nextHealth = make(map[string]int)
	}
	outcome := AttackOutcome{Row: row, Col: col}

	if cell == CellEmpty {
		nextGrid.Tiles[row][col] = CellMiss
		outcome.Result = AttackResultMiss
		return nextGrid, nextHealth, outcome, nil
	}

	nextGrid.Tiles[row][col] = CellHit
	name := string(cell)
	nextHealth[name]--
	if nextHealth[name] <= 0 {
		nextHealth[name] = 0
		outcome.Result = AttackResultSunk
		outcome.ShipSunk = name
	} else {
		outcome.Result = AttackResultHit
	}
	return nextGrid, nextHealth, outcome, nil
}

func (gs GameState) checkTurn(attacker Side) error {
	if gs.GameOver {
		return cerr.ErrGameOver
	}
	if gs.IsPlayerTurn != (attacker == SidePlayer) {
		return cerr.ErrNotYourTurn
	}
	return nil
}

// PlayerAttack resolves the player's shot on the PC grid.
func (gs GameState) PlayerAttack(pcGrid Grid, row, col int) (GameState, Grid, AttackOutcome, error) {
	if err := gs.checkTurn(SidePlayer); err != nil {
		return gs, pcGrid, AttackOutcome{}, err
	}

	nextGrid, health, outcome, err := ResolveAttack(pcGrid, gs.PcShipHealth, row, col)
	if err != nil {
		return gs, pcGrid, AttackOutcome{}, err
	}

	next := gs.Clone()
	next.PcShipHealth = health
	if outcome.Result == AttackResultSunk {
		next.PcShipsRemaining--
	}
	next.finishTurn(SidePlayer, next.PcShipsRemaining)
	return next, nextGrid, outcome, nil
}

// PcAttack lets the AI pick a target on the player's grid and fire.
func (gs GameState) PcAttack(playerGrid Grid, rng Rand) (GameState, Grid, AttackOutcome, error) {
	if err := gs.checkTurn(SidePC); err != nil {
		return gs, playerGrid, AttackOutcome{}, err
	}

	next, target, err := gs.SelectTarget(playerGrid, rng)
	if err != nil {
		return gs, playerGrid, AttackOutcome{}, err
	}

	nextGrid, health, outcome, err := ResolveAttack(playerGrid, next.PlayerShipHealth, target.Row, target.Col)
	if err != nil {
		return gs, playerGrid, AttackOutcome{}, err
	}

	next.PlayerShipHealth = health
	if outcome.Result == AttackResultSunk {
		next.PlayerShipsRemaining--
	}
	next = next.observe(nextGrid, outcome)
	next.finishTurn(SidePC, next.PlayerShipsRemaining)
	return next, nextGrid, outcome, nil
}

func (gs *GameState) finishTurn(attacker Side, defenderShipsRemaining int) {
	if defenderShipsRemaining <= 0 {
		gs.GameOver = true
		winner := attacker
		gs.Winner = &winner
	}
	gs.IsPlayerTurn = attacker != SidePlayer
}
