package sqlc

import (
	"github.com/sqlc-dev/pqtype"
)

type GameSnapshot struct {
	GameUuid      string                `json:"game_uuid"`
	Settings      []byte                `json:"settings"`
	CurrentScreen string                `json:"current_screen"`
	Planning      []byte                `json:"planning"`
	MatchState    pqtype.NullRawMessage `json:"match_state"`
}
