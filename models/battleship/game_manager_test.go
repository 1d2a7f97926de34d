package battleship

import (
	"context"
	"errors"
	"sync"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type memoryStore struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
	saves     int
	failSave  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: make(map[string]Snapshot)}
}

func (ms *memoryStore) SaveSnapshot(_ context.Context, snapshot Snapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failSave != nil {
		return ms.failSave
	}
	ms.saves++
	ms.snapshots[snapshot.GameUuid] = snapshot.Clone()
	return nil
}

func (ms *memoryStore) LoadSnapshot(_ context.Context, gameUuid string) (Snapshot, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	snapshot, prs := ms.snapshots[gameUuid]
	if !prs {
		return Snapshot{}, cerr.ErrGameNotExists(gameUuid)
	}
	return snapshot.Clone(), nil
}

func TestCreateAndGetGame(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bgm := NewBattleshipGameManager(store)

	snapshot, err := bgm.CreateGame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.GameUuid) != 6 {
		t.Fatalf("expected a 6 char game uuid, got: %q", snapshot.GameUuid)
	}
	if bgm.CountGames() != 1 || store.saves != 1 {
		t.Fatalf("expected 1 game and 1 save, got: %d games %d saves", bgm.CountGames(), store.saves)
	}

	got, err := bgm.GetGame(ctx, snapshot.GameUuid)
	if err != nil {
		t.Fatal(err)
	}
	got.Planning.PlayerGrid.Tiles[0][0] = CellHit

	again, _ := bgm.GetGame(ctx, snapshot.GameUuid)
	if again.Planning.PlayerGrid.Tiles[0][0] != CellEmpty {
		t.Fatal("get game must return a copy")
	}

	if _, err := bgm.GetGame(ctx, "nope"); !errors.Is(err, cerr.ErrGameNotFound) {
		t.Fatalf("expected game not found, got: %v", err)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bgm := NewBattleshipGameManager(store)
	snapshot, _ := bgm.CreateGame(ctx)

	_, err := bgm.Update(ctx, snapshot.GameUuid, func(s Snapshot) (Snapshot, error) {
		p, err := s.Planning.Place("5", 0, 8)
		if err != nil {
			return s, err
		}
		return s.WithPlanning(p)
	})
	if !errors.Is(err, cerr.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got: %v", err)
	}

	store.failSave = errors.New("disk full")
	_, err = bgm.Update(ctx, snapshot.GameUuid, func(s Snapshot) (Snapshot, error) {
		p, err := s.Planning.Place("1", 0, 0)
		if err != nil {
			return s, err
		}
		return s.WithPlanning(p)
	})
	if err == nil {
		t.Fatal("expected the store error")
	}

	got, _ := bgm.GetGame(ctx, snapshot.GameUuid)
	if len(got.Planning.PlacedShips) != 0 {
		t.Fatal("failed updates must not change the snapshot")
	}
	if store.saves != 1 {
		t.Fatalf("expected only the create save, got: %d", store.saves)
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	bgm := NewBattleshipGameManager(newMemoryStore())
	snapshot, _ := bgm.CreateGame(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, len(DefaultCatalog()))
	for i, ship := range DefaultCatalog() {
		wg.Add(1)
		go func(id string, row int) {
			defer wg.Done()
			_, err := bgm.Update(ctx, snapshot.GameUuid, func(s Snapshot) (Snapshot, error) {
				p, err := s.Planning.Place(id, row, 0)
				if err != nil {
					return s, err
				}
				return s.WithPlanning(p)
			})
			errs <- err
		}(ship.Id, i*2)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	got, _ := bgm.GetGame(ctx, snapshot.GameUuid)
	if len(got.Planning.PlacedShips) != len(DefaultCatalog()) || !got.Planning.IsComplete() {
		t.Fatalf("expected every ship placed, got: %d", len(got.Planning.PlacedShips))
	}
}

func TestTerminateGameResumesFromStore(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bgm := NewBattleshipGameManager(store)
	snapshot, _ := bgm.CreateGame(ctx)

	_, err := bgm.Update(ctx, snapshot.GameUuid, func(s Snapshot) (Snapshot, error) {
		return s.UpdateSettings(BoardSmall)
	})
	if err != nil {
		t.Fatal(err)
	}

	bgm.TerminateGame(snapshot.GameUuid)
	if bgm.CountGames() != 0 {
		t.Fatalf("expected no cached games, got: %d", bgm.CountGames())
	}

	got, err := bgm.GetGame(ctx, snapshot.GameUuid)
	if err != nil {
		t.Fatal(err)
	}
	if got.Settings.SelectedBoard != BoardSmall {
		t.Fatalf("expected resumed 7x7 board, got: %s", got.Settings.SelectedBoard)
	}
	if bgm.CountGames() != 1 {
		t.Fatal("resumed game must be cached again")
	}
}

func TestMemoryOnlyManager(t *testing.T) {
	ctx := context.Background()
	bgm := NewBattleshipGameManager(nil)
	snapshot, err := bgm.CreateGame(ctx)
	if err != nil {
		t.Fatal(err)
	}

	bgm.TerminateGame(snapshot.GameUuid)
	if _, err := bgm.GetGame(ctx, snapshot.GameUuid); !errors.Is(err, cerr.ErrGameNotFound) {
		t.Fatalf("expected game not found, got: %v", err)
	}
}

func TestSharedGameOutlivesOneSession(t *testing.T) {
	ctx := context.Background()
	bgm := NewBattleshipGameManager(newMemoryStore())
	snapshot, _ := bgm.CreateGame(ctx)
	original := bgm.games[snapshot.GameUuid]

	attached, err := bgm.AttachGame(ctx, snapshot.GameUuid)
	if err != nil {
		t.Fatal(err)
	}
	if attached.GameUuid != snapshot.GameUuid {
		t.Fatalf("expected game: %s\tgot: %s", snapshot.GameUuid, attached.GameUuid)
	}

	bgm.TerminateGame(snapshot.GameUuid)
	if bgm.CountGames() != 1 || bgm.games[snapshot.GameUuid] != original {
		t.Fatal("game must stay cached while another session holds it")
	}

	bgm.TerminateGame(snapshot.GameUuid)
	if bgm.CountGames() != 0 {
		t.Fatalf("expected no cached games, got: %d", bgm.CountGames())
	}

	// releasing an evicted game is a no-op
	bgm.TerminateGame(snapshot.GameUuid)
}

func TestAttachMissingGame(t *testing.T) {
	bgm := NewBattleshipGameManager(nil)
	if _, err := bgm.AttachGame(context.Background(), "absent"); !errors.Is(err, cerr.ErrGameNotFound) {
		t.Fatalf("expected game not found, got: %v", err)
	}
	if bgm.CountGames() != 0 {
		t.Fatalf("expected no cached games, got: %d", bgm.CountGames())
	}
}
