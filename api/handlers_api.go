package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const errDetailsInvalidPayload = "InvalidPayload"

// Every incoming valid request will have this structure.
// The request is then handled against the session's game.
type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) Request {
	if len(payload) > 1 {
		log.Println("cannot accept more than one payload")
		return Request{}
	}

	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func errorDetails(err error) string {
	if errors.Is(err, cerr.ErrGameNotFound) {
		return "GameNotFound"
	}
	return cerr.Kind(err)
}

func respond[T any](code uint8, payload T, err error) mc.Message[T] {
	resp := mc.NewMessage[T](code)
	if err != nil {
		resp.AddError(errorDetails(err), err.Error())
		return resp
	}
	resp.AddPayload(payload)
	return resp
}

// decode unmarshals the request payload into a Message[T]. On failure
// the returned response already carries the error for code.
func decode[T any, K any](r Request, code uint8) (T, *mc.Message[K]) {
	var req mc.Message[T]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp := mc.NewMessage[K](code)
		resp.AddError(errDetailsInvalidPayload, err.Error())
		return req.Payload, &resp
	}
	return req.Payload, nil
}

func (r Request) HandleCreateGame(ctx context.Context, gm mb.GameManager) (mb.Snapshot, mc.Message[mc.RespSnapshot]) {
	snapshot, err := gm.CreateGame(ctx)
	return snapshot, respond(mc.CodeCreateGame, mc.NewRespSnapshot(snapshot), err)
}

func (r Request) HandleGetSnapshot(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespSnapshot] {
	snapshot, err := gm.GetGame(ctx, gameUuid)
	return respond(mc.CodeGetSnapshot, mc.NewRespSnapshot(snapshot), err)
}

// HandleResumeGame attaches the session to a game it did not create.
func (r Request) HandleResumeGame(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespSnapshot] {
	snapshot, err := gm.AttachGame(ctx, gameUuid)
	return respond(mc.CodeGetSnapshot, mc.NewRespSnapshot(snapshot), err)
}

func (r Request) HandleUpdateSettings(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespSnapshot] {
	req, errResp := decode[mc.ReqUpdateSettings, mc.RespSnapshot](r, mc.CodeUpdateSettings)
	if errResp != nil {
		return *errResp
	}

	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		return s.UpdateSettings(req.SelectedBoard)
	})
	return respond(mc.CodeUpdateSettings, mc.NewRespSnapshot(snapshot), err)
}

func (r Request) HandleUpdateScreen(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespSnapshot] {
	req, errResp := decode[mc.ReqUpdateScreen, mc.RespSnapshot](r, mc.CodeUpdateScreen)
	if errResp != nil {
		return *errResp
	}

	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		return s.UpdateScreen(req.Screen)
	})
	return respond(mc.CodeUpdateScreen, mc.NewRespSnapshot(snapshot), err)
}

func updatePlanning(ctx context.Context, gm mb.GameManager, gameUuid string, op func(mb.PlanningState) (mb.PlanningState, error)) (mb.PlanningState, error) {
	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		planning, err := op(s.Planning)
		if err != nil {
			return s, err
		}
		return s.WithPlanning(planning)
	})
	return snapshot.Planning, err
}

func (r Request) HandlePlaceShip(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	req, errResp := decode[mc.ReqPlaceShip, mb.PlanningState](r, mc.CodePlaceShip)
	if errResp != nil {
		return *errResp
	}

	planning, err := updatePlanning(ctx, gm, gameUuid, func(p mb.PlanningState) (mb.PlanningState, error) {
		return p.Place(req.ShipId, req.Row, req.Col)
	})
	return respond(mc.CodePlaceShip, planning, err)
}

func (r Request) HandleRotateAvailableShip(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	req, errResp := decode[mc.ReqRotateAvailableShip, mb.PlanningState](r, mc.CodeRotateAvailableShip)
	if errResp != nil {
		return *errResp
	}

	planning, err := updatePlanning(ctx, gm, gameUuid, func(p mb.PlanningState) (mb.PlanningState, error) {
		return p.RotateAvailable(req.ShipId)
	})
	return respond(mc.CodeRotateAvailableShip, planning, err)
}

func (r Request) HandleActiveShip(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespActiveShip] {
	req, errResp := decode[mc.ReqHandleActiveShip, mc.RespActiveShip](r, mc.CodeHandleActiveShip)
	if errResp != nil {
		return *errResp
	}

	var active *mb.PlacedShip
	planning, err := updatePlanning(ctx, gm, gameUuid, func(p mb.PlanningState) (mb.PlanningState, error) {
		next, ship, err := p.HandleActiveShip(req.Row, req.Col)
		active = ship
		return next, err
	})
	return respond(mc.CodeHandleActiveShip, mc.RespActiveShip{Planning: planning, ActiveShip: active}, err)
}

func (r Request) HandleRemoveActiveShip(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	planning, err := updatePlanning(ctx, gm, gameUuid, mb.PlanningState.RemoveActive)
	return respond(mc.CodeRemoveActiveShip, planning, err)
}

func (r Request) HandleRotateActiveShip(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	planning, err := updatePlanning(ctx, gm, gameUuid, mb.PlanningState.RotateActive)
	return respond(mc.CodeRotateActiveShip, planning, err)
}

func (r Request) HandleClearGrid(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	planning, err := updatePlanning(ctx, gm, gameUuid, func(p mb.PlanningState) (mb.PlanningState, error) {
		return p.ClearGrid(), nil
	})
	return respond(mc.CodeClearGrid, planning, err)
}

func (r Request) HandleResetPlanning(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mb.PlanningState] {
	planning, err := updatePlanning(ctx, gm, gameUuid, func(p mb.PlanningState) (mb.PlanningState, error) {
		return p.ResetPlanning(), nil
	})
	return respond(mc.CodeResetPlanning, planning, err)
}

func (r Request) HandleShipColors(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespShipColors] {
	snapshot, err := gm.GetGame(ctx, gameUuid)
	return respond(mc.CodeShipColors, mc.RespShipColors{Colors: snapshot.Planning.Colors()}, err)
}

func (r Request) HandleStartGame(ctx context.Context, gm mb.GameManager, gameUuid string, rng mb.Rand) mc.Message[mc.RespSnapshot] {
	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		return s.StartMatch(rng)
	})
	return respond(mc.CodeStartGame, mc.NewRespSnapshot(snapshot), err)
}

// HandleAttack fires the player's shot. The returned snapshot tells the
// caller whether the PC gets to play next.
func (r Request) HandleAttack(ctx context.Context, gm mb.GameManager, gameUuid string) (mb.Snapshot, mc.Message[mc.RespAttack]) {
	req, errResp := decode[mc.ReqAttack, mc.RespAttack](r, mc.CodeAttack)
	if errResp != nil {
		return mb.Snapshot{}, *errResp
	}

	var outcome mb.AttackOutcome
	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		next, o, err := s.PlayerAttack(req.Row, req.Col)
		outcome = o
		return next, err
	})
	if err != nil {
		return snapshot, respond(mc.CodeAttack, mc.RespAttack{}, err)
	}
	return snapshot, respond(mc.CodeAttack, mc.NewRespAttack(outcome, snapshot.Match.State), nil)
}

func (r Request) HandlePcAttack(ctx context.Context, gm mb.GameManager, gameUuid string, rng mb.Rand) (mb.Snapshot, mc.Message[mc.RespAttack]) {
	var outcome mb.AttackOutcome
	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		next, o, err := s.PcAttack(rng)
		outcome = o
		return next, err
	})
	if err != nil {
		return snapshot, respond(mc.CodePcAttack, mc.RespAttack{}, err)
	}
	return snapshot, respond(mc.CodePcAttack, mc.NewRespAttack(outcome, snapshot.Match.State), nil)
}

func (r Request) HandleNewRound(ctx context.Context, gm mb.GameManager, gameUuid string) mc.Message[mc.RespSnapshot] {
	snapshot, err := gm.Update(ctx, gameUuid, func(s mb.Snapshot) (mb.Snapshot, error) {
		return s.NewRound(), nil
	})
	return respond(mc.CodeNewRound, mc.NewRespSnapshot(snapshot), err)
}
