package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	GetGameSnapshot(ctx context.Context, gameUuid string) (GameSnapshot, error)
	UpsertGameSnapshot(ctx context.Context, arg UpsertGameSnapshotParams) error

	GetGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	GetGamesFinishedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	IncrementGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementGamesFinishedCount(ctx context.Context, serverIp pqtype.Inet) error
}

var _ Querier = (*Queries)(nil)
