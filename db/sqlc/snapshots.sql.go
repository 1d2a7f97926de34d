package sqlc

import (
	"context"
	"encoding/json"

	"github.com/sqlc-dev/pqtype"
)

const getGameSnapshot = `-- name: GetGameSnapshot :one
SELECT game_uuid, settings, current_screen, planning, match_state
FROM game_snapshots
WHERE game_uuid = $1
`

func (q *Queries) GetGameSnapshot(ctx context.Context, gameUuid string) (GameSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getGameSnapshot, gameUuid)
	var i GameSnapshot
	err := row.Scan(
		&i.GameUuid,
		&i.Settings,
		&i.CurrentScreen,
		&i.Planning,
		&i.MatchState,
	)
	return i, err
}

const upsertGameSnapshot = `-- name: UpsertGameSnapshot :exec
INSERT INTO game_snapshots (game_uuid, settings, current_screen, planning, match_state)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (game_uuid) DO UPDATE SET
    settings = EXCLUDED.settings,
    current_screen = EXCLUDED.current_screen,
    planning = EXCLUDED.planning,
    match_state = EXCLUDED.match_state,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertGameSnapshotParams struct {
	GameUuid      string                `json:"game_uuid"`
	Settings      json.RawMessage       `json:"settings"`
	CurrentScreen string                `json:"current_screen"`
	Planning      json.RawMessage       `json:"planning"`
	MatchState    pqtype.NullRawMessage `json:"match_state"`
}

func (q *Queries) UpsertGameSnapshot(ctx context.Context, arg UpsertGameSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, upsertGameSnapshot,
		arg.GameUuid,
		arg.Settings,
		arg.CurrentScreen,
		arg.Planning,
		arg.MatchState,
	)
	return err
}
