package battleship

import (
	"context"
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// SnapshotStore makes snapshots durable. Implemented by db/sqlc.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	LoadSnapshot(ctx context.Context, gameUuid string) (Snapshot, error)
}

type GameManager interface {
	CreateGame(ctx context.Context) (Snapshot, error)
	GetGame(ctx context.Context, gameUuid string) (Snapshot, error)
	AttachGame(ctx context.Context, gameUuid string) (Snapshot, error)
	Update(ctx context.Context, gameUuid string, fn func(Snapshot) (Snapshot, error)) (Snapshot, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

// Game guards one session's snapshot. Holding mu for the whole
// read-modify-write is what keeps two requests against the same
// session from losing each other's update.
type Game struct {
	mu       sync.Mutex
	snapshot Snapshot

	// sessions holding the game, guarded by BattleshipGameManager.mu
	refs int
}

type BattleshipGameManager struct {
	games map[string]*Game
	store SnapshotStore
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

// NewBattleshipGameManager caches games in memory. A nil store keeps
// everything in memory only.
func NewBattleshipGameManager(store SnapshotStore) *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
		store: store,
	}
}

func (bgm *BattleshipGameManager) CreateGame(ctx context.Context) (Snapshot, error) {
	snapshot := NewSnapshot(uuid.NewString()[:6])

	if bgm.store != nil {
		if err := bgm.store.SaveSnapshot(ctx, snapshot); err != nil {
			return Snapshot{}, err
		}
	}

	bgm.mu.Lock()
	bgm.games[snapshot.GameUuid] = &Game{snapshot: snapshot, refs: 1}
	bgm.mu.Unlock()

	return snapshot.Clone(), nil
}

func (bgm *BattleshipGameManager) GetGame(ctx context.Context, gameUuid string) (Snapshot, error) {
	game, err := bgm.loadGame(ctx, gameUuid)
	if err != nil {
		return Snapshot{}, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()
	return game.snapshot.Clone(), nil
}

// AttachGame hands the game to one more session. Every attach must be
// paired with a TerminateGame.
func (bgm *BattleshipGameManager) AttachGame(ctx context.Context, gameUuid string) (Snapshot, error) {
	game, err := bgm.loadGame(ctx, gameUuid)
	if err != nil {
		return Snapshot{}, err
	}

	bgm.mu.Lock()
	// A concurrent terminate may have evicted it between load and attach.
	if cached, prs := bgm.games[gameUuid]; prs {
		game = cached
	} else {
		bgm.games[gameUuid] = game
	}
	game.refs++
	bgm.mu.Unlock()

	game.mu.Lock()
	defer game.mu.Unlock()
	return game.snapshot.Clone(), nil
}

// Update runs fn on a copy of the game's snapshot while holding the
// game lock. The result replaces the snapshot only if fn succeeds and
// the store accepted it.
func (bgm *BattleshipGameManager) Update(ctx context.Context, gameUuid string, fn func(Snapshot) (Snapshot, error)) (Snapshot, error) {
	game, err := bgm.loadGame(ctx, gameUuid)
	if err != nil {
		return Snapshot{}, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	next, err := fn(game.snapshot.Clone())
	if err != nil {
		return game.snapshot.Clone(), err
	}

	if bgm.store != nil {
		if err := bgm.store.SaveSnapshot(ctx, next); err != nil {
			return game.snapshot.Clone(), err
		}
	}

	game.snapshot = next
	return next.Clone(), nil
}

// TerminateGame releases one session's hold on the game and evicts it
// from memory once no session holds it. A persisted snapshot stays in
// the store and can be resumed later.
func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	game, prs := bgm.games[gameUuid]
	if !prs {
		return
	}
	game.refs--
	if game.refs <= 0 {
		delete(bgm.games, gameUuid)
	}
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}

func (bgm *BattleshipGameManager) loadGame(ctx context.Context, gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if prs {
		return game, nil
	}

	if bgm.store == nil {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	snapshot, err := bgm.store.LoadSnapshot(ctx, gameUuid)
	if err != nil {
		return nil, err
	}

	bgm.mu.Lock()
	defer bgm.mu.Unlock()
	// Another request may have loaded it meanwhile.
	if game, prs := bgm.games[gameUuid]; prs {
		return game, nil
	}
	game = &Game{snapshot: snapshot}
	bgm.games[gameUuid] = game
	return game, nil
}
