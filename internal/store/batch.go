package store

import (
	"context"
	"time"

	"tdpool/internal/services"
)

// Batch buffers pick, game, and decision mutations so a grading or review
// pass commits atomically. Nothing touches the database until ApplyBatch.
type Batch struct {
	pickUpdates     []*Pick
	gameUpdates     []*Game
	newDecisions    []*MatchDecision
	decisionUpdates []*MatchDecision
}

// NewBatch returns an empty mutation batch.
func NewBatch() *Batch {
	return &Batch{}
}

// UpdatePick queues an outcome update for an existing pick.
func (b *Batch) UpdatePick(pick *Pick) {
	b.pickUpdates = append(b.pickUpdates, pick)
}

// UpdateGame queues a game update, typically the first-scorer annotation.
func (b *Batch) UpdateGame(game *Game) {
	b.gameUpdates = append(b.gameUpdates, game)
}

// AddDecision queues a new match decision. The decision's ID is filled in
// after a successful ApplyBatch.
func (b *Batch) AddDecision(decision *MatchDecision) {
	b.newDecisions = append(b.newDecisions, decision)
}

// UpdateDecision queues a review-state update for an existing decision.
func (b *Batch) UpdateDecision(decision *MatchDecision) {
	b.decisionUpdates = append(b.decisionUpdates, decision)
}

// Empty reports whether the batch holds no mutations.
func (b *Batch) Empty() bool {
	return len(b.pickUpdates) == 0 && len(b.gameUpdates) == 0 &&
		len(b.newDecisions) == 0 && len(b.decisionUpdates) == 0
}

// ApplyBatch commits every buffered mutation in a single transaction. On any
// failure the transaction rolls back and no mutation is visible.
func (s *Store) ApplyBatch(ctx context.Context, batch *Batch) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "apply batch", "begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, pick := range batch.pickUpdates {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE picks SET outcome = ?, payout = ?, graded_at = ?, updated_at = ? WHERE id = ?`,
			pick.Outcome,
			pick.Payout,
			nullableTime(pick.GradedAt),
			now,
			pick.ID,
		)
		if err != nil {
			return services.Wrap(services.ErrPersistence, "store", "apply batch", "update pick", err)
		}
	}

	for _, game := range batch.gameUpdates {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE games SET first_scorer_name = ?, first_scorer_team = ?, final = ?, updated_at = ?
            WHERE game_id = ?`,
			nullableString(game.FirstScorerName),
			nullableString(game.FirstScorerTeam),
			boolToInt(game.Final),
			now,
			game.GameID,
		)
		if err != nil {
			return services.Wrap(services.ErrPersistence, "store", "apply batch", "update game", err)
		}
	}

	insertedIDs := make([]int64, len(batch.newDecisions))
	for i, decision := range batch.newDecisions {
		createdAt := decision.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO match_decisions (
                pick_id, pick_name, scorer_name, score, confidence, reason,
                auto_accepted, needs_review, manual_decision, reviewed_by,
                created_at, reviewed_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			decision.PickID,
			decision.PickName,
			decision.ScorerName,
			decision.Score,
			decision.Confidence,
			nullableString(decision.Reason),
			boolToInt(decision.AutoAccepted),
			boolToInt(decision.NeedsReview),
			nullableString(string(decision.Manual)),
			nullableString(decision.ReviewedBy),
			createdAt.Format(time.RFC3339Nano),
			nullableTime(decision.ReviewedAt),
		)
		if err != nil {
			return services.Wrap(services.ErrPersistence, "store", "apply batch", "insert decision", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return services.Wrap(services.ErrPersistence, "store", "apply batch", "last insert id", err)
		}
		insertedIDs[i] = id
	}

	for _, decision := range batch.decisionUpdates {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE match_decisions
            SET needs_review = ?, manual_decision = ?, reviewed_by = ?, reviewed_at = ?
            WHERE id = ?`,
			boolToInt(decision.NeedsReview),
			nullableString(string(decision.Manual)),
			nullableString(decision.ReviewedBy),
			nullableTime(decision.ReviewedAt),
			decision.ID,
		)
		if err != nil {
			return services.Wrap(services.ErrPersistence, "store", "apply batch", "update decision", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrPersistence, "store", "apply batch", "commit", err)
	}

	for i, decision := range batch.newDecisions {
		decision.ID = insertedIDs[i]
	}
	return nil
}
