package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

// RespSnapshot is the snapshot as the client may see it. The PC grid is
// masked and the PC fleet positions are left out.
type RespSnapshot struct {
	GameUuid      string            `json:"game_uuid"`
	Settings      mb.Settings       `json:"settings"`
	CurrentScreen mb.Screen         `json:"current_screen"`
	Planning      mb.PlanningState  `json:"planning"`
	Game          *RespGameProgress `json:"game,omitempty"`
}

type RespGameProgress struct {
	PlayerGrid mb.Grid      `json:"player_grid"`
	PcGrid     mb.Grid      `json:"pc_grid"`
	State      mb.GameState `json:"game_state"`
}

func NewRespSnapshot(s mb.Snapshot) RespSnapshot {
	resp := RespSnapshot{
		GameUuid:      s.GameUuid,
		Settings:      s.Settings,
		CurrentScreen: s.Screen,
		Planning:      s.Planning,
	}
	if s.Match != nil {
		resp.Game = &RespGameProgress{
			PlayerGrid: s.Match.PlayerGrid,
			PcGrid:     s.Match.OpponentView(),
			State:      s.Match.State,
		}
	}
	return resp
}

type RespActiveShip struct {
	Planning   mb.PlanningState `json:"planning"`
	ActiveShip *mb.PlacedShip   `json:"active_ship"`
}

type RespShipColors struct {
	Colors map[string]string `json:"colors"`
}

type RespAttack struct {
	Outcome         mb.AttackOutcome `json:"outcome"`
	IsPlayerTurn    bool             `json:"is_player_turn"`
	PlayerShipsLeft int              `json:"player_ships_left"`
	PcShipsLeft     int              `json:"pc_ships_left"`
}

func NewRespAttack(outcome mb.AttackOutcome, state mb.GameState) RespAttack {
	return RespAttack{
		Outcome:         outcome,
		IsPlayerTurn:    state.IsPlayerTurn,
		PlayerShipsLeft: state.PlayerShipsRemaining,
		PcShipsLeft:     state.PcShipsRemaining,
	}
}

type RespEndGame struct {
	Winner mb.Side `json:"winner"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
