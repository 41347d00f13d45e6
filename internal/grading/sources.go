package grading

import (
	"context"

	"tdpool/internal/store"
)

// GameSource supplies the games to grade.
type GameSource interface {
	GamesForWeek(ctx context.Context, season, week int) ([]*store.Game, error)
	WeeksForSeason(ctx context.Context, season int) ([]int, error)
}

// ScorerSource supplies the touchdown scorers credited in a game.
type ScorerSource interface {
	ScorersForGame(ctx context.Context, gameID string) ([]*store.ScorerRecord, error)
}

// PickSource supplies the picks placed on a game and the set of picks whose
// earlier decisions still await review.
type PickSource interface {
	PicksForGame(ctx context.Context, gameID string) ([]*store.Pick, error)
	PickIDsWithOpenDecisions(ctx context.Context) (map[int64]struct{}, error)
}

// Persister commits a run's buffered mutations atomically.
type Persister interface {
	ApplyBatch(ctx context.Context, batch *store.Batch) error
}

// Sources bundles the collaborators a run reads from and writes to. The
// store satisfies all four.
type Sources struct {
	Games     GameSource
	Scorers   ScorerSource
	Picks     PickSource
	Persister Persister
}

// StoreSources wires every collaborator to the same store.
func StoreSources(st *store.Store) Sources {
	return Sources{Games: st, Scorers: st, Picks: st, Persister: st}
}
