package testsupport

import (
	"context"
	"testing"

	"tdpool/internal/config"
	"tdpool/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedGame inserts a game for tests using the provided store.
func SeedGame(t testing.TB, st *store.Store, game *store.Game) *store.Game {
	t.Helper()

	saved, err := st.UpsertGame(context.Background(), game)
	if err != nil {
		t.Fatalf("store.UpsertGame: %v", err)
	}
	return saved
}

// SeedScorers replaces the scorer list of a game for tests.
func SeedScorers(t testing.TB, st *store.Store, gameID string, scorers []*store.ScorerRecord) {
	t.Helper()

	if err := st.ReplaceScorers(context.Background(), gameID, scorers); err != nil {
		t.Fatalf("store.ReplaceScorers: %v", err)
	}
}

// SeedPick inserts a pick for tests using the provided store.
func SeedPick(t testing.TB, st *store.Store, pick *store.Pick) *store.Pick {
	t.Helper()

	saved, err := st.InsertPick(context.Background(), pick)
	if err != nil {
		t.Fatalf("store.InsertPick: %v", err)
	}
	return saved
}
