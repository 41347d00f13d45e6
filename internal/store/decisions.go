package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const decisionColumns = "id, pick_id, pick_name, scorer_name, score, confidence, reason, auto_accepted, needs_review, manual_decision, reviewed_by, created_at, reviewed_at"

// GetDecision fetches a match decision by identifier. A missing decision
// returns nil without error.
func (s *Store) GetDecision(ctx context.Context, id int64) (*MatchDecision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+decisionColumns+` FROM match_decisions WHERE id = ?`, id)
	decision, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return decision, nil
}

// DecisionForPick returns the most recent decision attached to a pick.
func (s *Store) DecisionForPick(ctx context.Context, pickID int64) (*MatchDecision, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+decisionColumns+` FROM match_decisions WHERE pick_id = ? ORDER BY id DESC LIMIT 1`,
		pickID,
	)
	decision, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decision for pick: %w", err)
	}
	return decision, nil
}

// DecisionsNeedingReview returns the open decisions awaiting an operator
// ruling, oldest first.
func (s *Store) DecisionsNeedingReview(ctx context.Context) ([]*MatchDecision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+decisionColumns+` FROM match_decisions
        WHERE needs_review = 1 AND (manual_decision IS NULL OR manual_decision = '')
        ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions needing review: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

// DecisionsByManual returns decisions carrying a particular manual ruling.
func (s *Store) DecisionsByManual(ctx context.Context, manual ManualDecision) ([]*MatchDecision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+decisionColumns+` FROM match_decisions WHERE manual_decision = ? ORDER BY reviewed_at, id`,
		string(manual),
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions by ruling: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

// AllDecisions returns every match decision ordered by creation.
func (s *Store) AllDecisions(ctx context.Context) ([]*MatchDecision, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+decisionColumns+` FROM match_decisions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query all decisions: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

func collectDecisions(rows *sql.Rows) ([]*MatchDecision, error) {
	var decisions []*MatchDecision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}
	return decisions, rows.Err()
}

func scanDecision(scanner interface{ Scan(dest ...any) error }) (*MatchDecision, error) {
	var (
		id           int64
		pickID       int64
		pickName     string
		scorerName   string
		score        float64
		confidence   string
		reason       sql.NullString
		autoAccepted sql.NullInt64
		needsReview  sql.NullInt64
		manual       sql.NullString
		reviewedBy   sql.NullString
		createdRaw   sql.NullString
		reviewedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&pickID,
		&pickName,
		&scorerName,
		&score,
		&confidence,
		&reason,
		&autoAccepted,
		&needsReview,
		&manual,
		&reviewedBy,
		&createdRaw,
		&reviewedRaw,
	); err != nil {
		return nil, err
	}

	decision := &MatchDecision{
		ID:         id,
		PickID:     pickID,
		PickName:   pickName,
		ScorerName: scorerName,
		Score:      score,
		Confidence: confidence,
		Reason:     reason.String,
		Manual:     ManualDecision(manual.String),
		ReviewedBy: reviewedBy.String,
	}
	if autoAccepted.Valid {
		decision.AutoAccepted = autoAccepted.Int64 != 0
	}
	if needsReview.Valid {
		decision.NeedsReview = needsReview.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		decision.CreatedAt = created
	}
	if reviewedRaw.Valid {
		if reviewed, err := parseTimeString(reviewedRaw.String); err == nil {
			decision.ReviewedAt = &reviewed
		}
	}
	return decision, nil
}
