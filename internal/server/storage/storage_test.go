package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})
	return store
}

func openSession(t *testing.T, store *Store) *Session {
	t.Helper()
	sess := store.Session()
	t.Cleanup(func() {
		if err := sess.Close(); err != nil {
			t.Errorf("Failed to close session: %v", err)
		}
	})
	return sess
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestInitDBIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	for i := 0; i < 3; i++ {
		if err := store.InitDB(); err != nil {
			t.Fatalf("InitDB() call %d error = %v", i+2, err)
		}
	}
}

func TestInitDBPreservesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	sess := store.Session()
	if _, err := sess.InsertGame(ctx, GameRecord{Name: "Azul", MaxPlayers: 4, AverageDuration: 45, Category: "Abstract"}); err != nil {
		t.Fatalf("InsertGame() error = %v", err)
	}
	sess.Close()
	store.Close()

	store, err = NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore() reopen error = %v", err)
	}
	defer store.Close()
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB() on existing database error = %v", err)
	}

	sess = store.Session()
	defer sess.Close()
	n, err := sess.CountGames(ctx)
	if err != nil {
		t.Fatalf("CountGames() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountGames() after reopen = %d, want 1", n)
	}
}

func TestGameRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	sess := openSession(t, store)
	ctx := context.Background()

	want := GameRecord{Name: "Catan", MaxPlayers: 4, AverageDuration: 90, Category: "Strategy"}
	id, err := sess.InsertGame(ctx, want)
	if err != nil {
		t.Fatalf("InsertGame() error = %v", err)
	}
	if id != 1 {
		t.Errorf("InsertGame() id = %d, want 1", id)
	}
	want.ID = id

	got, err := sess.GetGame(ctx, id)
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("GetGame() = %+v, want %+v", *got, want)
	}

	games, err := sess.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 1 || !reflect.DeepEqual(games[0], want) {
		t.Errorf("ListGames() = %+v, want [%+v]", games, want)
	}
}

func TestGetGameNotFound(t *testing.T) {
	store := setupTestStore(t)
	sess := openSession(t, store)

	_, err := sess.GetGame(context.Background(), 999)
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame() for missing id, err = %v, want ErrGameNotFound", err)
	}
}

func TestListGamesOrderedByID(t *testing.T) {
	store := setupTestStore(t)
	sess := openSession(t, store)
	ctx := context.Background()

	names := []string{"Zombicide", "Agricola", "Munchkin"}
	for _, name := range names {
		if _, err := sess.InsertGame(ctx, GameRecord{Name: name, Category: "Misc"}); err != nil {
			t.Fatalf("InsertGame(%s) error = %v", name, err)
		}
	}

	games, err := sess.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != len(names) {
		t.Fatalf("ListGames() count = %d, want %d", len(games), len(names))
	}
	for i, g := range games {
		if g.Name != names[i] {
			t.Errorf("ListGames()[%d].Name = %s, want %s", i, g.Name, names[i])
		}
		if i > 0 && g.ID <= games[i-1].ID {
			t.Errorf("ListGames() ids not ascending at %d: %d after %d", i, g.ID, games[i-1].ID)
		}
	}
}

func TestListMatchesNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	sess := openSession(t, store)
	ctx := context.Background()

	gameID, err := sess.InsertGame(ctx, GameRecord{Name: "Carcassonne", MaxPlayers: 5, AverageDuration: 35, Category: "Tile"})
	if err != nil {
		t.Fatalf("InsertGame() error = %v", err)
	}
	otherID, err := sess.InsertGame(ctx, GameRecord{Name: "Dixit", MaxPlayers: 6, AverageDuration: 30, Category: "Party"})
	if err != nil {
		t.Fatalf("InsertGame() error = %v", err)
	}

	inserts := []MatchRecord{
		{GameID: gameID, Date: mustDate(t, "2024-01-01"), Winner: "Alice", WinningScore: 15},
		{GameID: gameID, Date: mustDate(t, "2024-03-10"), Winner: "Bob", WinningScore: 22},
		{GameID: otherID, Date: mustDate(t, "2024-05-05"), Winner: "Carol", WinningScore: 30},
		{GameID: gameID, Date: mustDate(t, "2023-12-24"), Winner: "Dan", WinningScore: 0},
	}
	for _, m := range inserts {
		if _, err := sess.InsertMatch(ctx, m); err != nil {
			t.Fatalf("InsertMatch(%+v) error = %v", m, err)
		}
	}

	matches, err := sess.ListMatches(ctx, gameID)
	if err != nil {
		t.Fatalf("ListMatches() error = %v", err)
	}

	wantWinners := []string{"Bob", "Alice", "Dan"}
	if len(matches) != len(wantWinners) {
		t.Fatalf("ListMatches() count = %d, want %d", len(matches), len(wantWinners))
	}
	for i, m := range matches {
		if m.Winner != wantWinners[i] {
			t.Errorf("ListMatches()[%d].Winner = %s, want %s", i, m.Winner, wantWinners[i])
		}
		if m.GameID != gameID {
			t.Errorf("ListMatches()[%d].GameID = %d, want %d", i, m.GameID, gameID)
		}
	}
	if got := matches[1].Date.Format(DateLayout); got != "2024-01-01" {
		t.Errorf("ListMatches()[1].Date = %s, want 2024-01-01", got)
	}
	if matches[1].WinningScore != 15 {
		t.Errorf("ListMatches()[1].WinningScore = %d, want 15", matches[1].WinningScore)
	}
}

func TestInsertMatchUnknownGame(t *testing.T) {
	store := setupTestStore(t)
	sess := openSession(t, store)
	ctx := context.Background()

	_, err := sess.InsertMatch(ctx, MatchRecord{GameID: 42, Date: mustDate(t, "2024-01-01"), Winner: "Alice"})
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("InsertMatch() for missing game, err = %v, want ErrGameNotFound", err)
	}

	n, err := sess.CountMatches(ctx)
	if err != nil {
		t.Fatalf("CountMatches() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountMatches() = %d, want 0 after rejected insert", n)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("lazy acquisition", func(t *testing.T) {
		sess := store.Session()
		if sess.Acquired() {
			t.Errorf("Acquired() = true before first query")
		}
		if _, err := sess.ListGames(ctx); err != nil {
			t.Fatalf("ListGames() error = %v", err)
		}
		if !sess.Acquired() {
			t.Errorf("Acquired() = false after query")
		}
		if err := sess.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if sess.Acquired() {
			t.Errorf("Acquired() = true after Close")
		}
	})

	t.Run("close without use", func(t *testing.T) {
		sess := store.Session()
		if err := sess.Close(); err != nil {
			t.Errorf("Close() on unused session error = %v", err)
		}
		if err := sess.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})

	t.Run("query after close", func(t *testing.T) {
		sess := store.Session()
		sess.Close()
		if _, err := sess.ListGames(ctx); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("ListGames() after Close err = %v, want ErrSessionClosed", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		sess := store.Session()
		defer sess.Close()
		if _, err := sess.ListGames(cctx); err == nil {
			t.Errorf("ListGames() with cancelled context returned nil error")
		}
	})
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delete.db")
	store, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	if err := store.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present after DeleteDB, stat err = %v", err)
	}
}
