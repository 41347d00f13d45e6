package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const pickColumns = "id, owner, game_id, kind, player_name, odds, stake, outcome, payout, graded_at, created_at, updated_at"

// InsertPick records a new pool entry. Kind must be a known bet type and the
// referenced game must exist.
func (s *Store) InsertPick(ctx context.Context, pick *Pick) (*Pick, error) {
	if pick == nil {
		return nil, errors.New("pick is nil")
	}
	if !ValidKind(pick.Kind) {
		return nil, fmt.Errorf("unknown pick kind %q", pick.Kind)
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	outcome := pick.Outcome
	if outcome == "" {
		outcome = OutcomePending
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO picks (
            owner, game_id, kind, player_name, odds, stake,
            outcome, payout, graded_at, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pick.Owner,
		pick.GameID,
		pick.Kind,
		pick.PlayerName,
		pick.Odds,
		pick.Stake,
		outcome,
		pick.Payout,
		nullableTime(pick.GradedAt),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pick: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetPick(ctx, id)
}

// GetPick fetches a pick by identifier. A missing pick returns nil without
// error.
func (s *Store) GetPick(ctx context.Context, id int64) (*Pick, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pickColumns+` FROM picks WHERE id = ?`, id)
	pick, err := scanPick(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pick: %w", err)
	}
	return pick, nil
}

// PicksForGame returns the picks placed on a game ordered by insertion.
func (s *Store) PicksForGame(ctx context.Context, gameID string) ([]*Pick, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+pickColumns+` FROM picks WHERE game_id = ? ORDER BY id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query picks for game: %w", err)
	}
	defer rows.Close()
	return collectPicks(rows)
}

// PicksForWeek returns picks on games in a season week ordered by game then
// insertion.
func (s *Store) PicksForWeek(ctx context.Context, season, week int) ([]*Pick, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT p.id, p.owner, p.game_id, p.kind, p.player_name, p.odds, p.stake,
            p.outcome, p.payout, p.graded_at, p.created_at, p.updated_at
        FROM picks p
        JOIN games g ON g.game_id = p.game_id
        WHERE g.season = ? AND g.week = ?
        ORDER BY p.game_id, p.id`,
		season, week,
	)
	if err != nil {
		return nil, fmt.Errorf("query picks for week: %w", err)
	}
	defer rows.Close()
	return collectPicks(rows)
}

// ListPicks returns picks filtered by outcome set (or all picks when no
// outcome is provided).
func (s *Store) ListPicks(ctx context.Context, outcomes ...Outcome) ([]*Pick, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + pickColumns + ` FROM picks`
	orderClause := ` ORDER BY id`

	if len(outcomes) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(outcomes))
		args := make([]any, len(outcomes))
		for i, outcome := range outcomes {
			args[i] = outcome
		}
		query := baseQuery + ` WHERE outcome IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	defer rows.Close()
	return collectPicks(rows)
}

// PickIDsWithOpenDecisions returns the identifiers of picks whose match
// decisions still await review.
func (s *Store) PickIDsWithOpenDecisions(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT pick_id FROM match_decisions
        WHERE needs_review = 1 AND (manual_decision IS NULL OR manual_decision = '')`,
	)
	if err != nil {
		return nil, fmt.Errorf("query open decisions: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func collectPicks(rows *sql.Rows) ([]*Pick, error) {
	var picks []*Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}

func scanPick(scanner interface{ Scan(dest ...any) error }) (*Pick, error) {
	var (
		id         int64
		owner      string
		gameID     string
		kind       string
		playerName string
		odds       int
		stake      float64
		outcome    string
		payout     float64
		gradedRaw  sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&owner,
		&gameID,
		&kind,
		&playerName,
		&odds,
		&stake,
		&outcome,
		&payout,
		&gradedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	pick := &Pick{
		ID:         id,
		Owner:      owner,
		GameID:     gameID,
		Kind:       PickKind(kind),
		PlayerName: playerName,
		Odds:       odds,
		Stake:      stake,
		Outcome:    Outcome(outcome),
		Payout:     payout,
	}
	if gradedRaw.Valid {
		if graded, err := parseTimeString(gradedRaw.String); err == nil {
			pick.GradedAt = &graded
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		pick.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		pick.UpdatedAt = updated
	}
	return pick, nil
}
