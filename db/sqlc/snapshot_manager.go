package sqlc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sqlc-dev/pqtype"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// SnapshotManager persists the game snapshots, one row per game. The
// match column is NULL until the game is started.
type SnapshotManager struct {
	queries Querier
}

var _ mb.SnapshotStore = (*SnapshotManager)(nil)

func NewSnapshotManager(queries Querier) *SnapshotManager {
	return &SnapshotManager{queries: queries}
}

func (sm *SnapshotManager) SaveSnapshot(ctx context.Context, snapshot mb.Snapshot) error {
	settings, err := json.Marshal(snapshot.Settings)
	if err != nil {
		return err
	}
	planning, err := json.Marshal(snapshot.Planning)
	if err != nil {
		return err
	}

	var match pqtype.NullRawMessage
	if snapshot.Match != nil {
		raw, err := json.Marshal(snapshot.Match)
		if err != nil {
			return err
		}
		match = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	if err := sm.queries.UpsertGameSnapshot(ctx, UpsertGameSnapshotParams{
		GameUuid:      snapshot.GameUuid,
		Settings:      settings,
		CurrentScreen: string(snapshot.Screen),
		Planning:      planning,
		MatchState:    match,
	}); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.GameUuid, err)
	}
	return nil
}

func (sm *SnapshotManager) LoadSnapshot(ctx context.Context, gameUuid string) (mb.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	row, err := sm.queries.GetGameSnapshot(ctx, gameUuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mb.Snapshot{}, cerr.ErrGameNotExists(gameUuid)
		}
		return mb.Snapshot{}, fmt.Errorf("load snapshot %s: %w", gameUuid, err)
	}

	snapshot := mb.Snapshot{
		GameUuid: row.GameUuid,
		Screen:   mb.Screen(row.CurrentScreen),
	}
	if err := json.Unmarshal(row.Settings, &snapshot.Settings); err != nil {
		return mb.Snapshot{}, err
	}
	if err := json.Unmarshal(row.Planning, &snapshot.Planning); err != nil {
		return mb.Snapshot{}, err
	}
	if row.MatchState.Valid {
		var match mb.Match
		if err := json.Unmarshal(row.MatchState.RawMessage, &match); err != nil {
			return mb.Snapshot{}, err
		}
		snapshot.Match = &match
	}
	return snapshot, nil
}
