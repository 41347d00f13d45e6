package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const gameColumns = "id, game_id, season, week, home_team, away_team, first_scorer_name, first_scorer_team, final, created_at, updated_at"

// UpsertGame inserts a game or updates the existing row with the same
// external game identifier.
func (s *Store) UpsertGame(ctx context.Context, game *Game) (*Game, error) {
	if game == nil {
		return nil, errors.New("game is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO games (
            game_id, season, week, home_team, away_team,
            first_scorer_name, first_scorer_team, final, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(game_id) DO UPDATE SET
            season = excluded.season,
            week = excluded.week,
            home_team = excluded.home_team,
            away_team = excluded.away_team,
            first_scorer_name = excluded.first_scorer_name,
            first_scorer_team = excluded.first_scorer_team,
            final = excluded.final,
            updated_at = excluded.updated_at`,
		game.GameID,
		game.Season,
		game.Week,
		game.HomeTeam,
		game.AwayTeam,
		nullableString(game.FirstScorerName),
		nullableString(game.FirstScorerTeam),
		boolToInt(game.Final),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert game: %w", err)
	}
	return s.GetGame(ctx, game.GameID)
}

// GetGame fetches a game by its external identifier. A missing game returns
// nil without error.
func (s *Store) GetGame(ctx context.Context, gameID string) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = ?`, gameID)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// GamesForWeek returns the games in a season week ordered by identifier.
func (s *Store) GamesForWeek(ctx context.Context, season, week int) ([]*Game, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameColumns+` FROM games WHERE season = ? AND week = ? ORDER BY game_id`,
		season, week,
	)
	if err != nil {
		return nil, fmt.Errorf("query games for week: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// WeeksForSeason returns the distinct week numbers present in a season,
// ascending.
func (s *Store) WeeksForSeason(ctx context.Context, season int) ([]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT week FROM games WHERE season = ? ORDER BY week`,
		season,
	)
	if err != nil {
		return nil, fmt.Errorf("query weeks for season: %w", err)
	}
	defer rows.Close()

	var weeks []int
	for rows.Next() {
		var week int
		if err := rows.Scan(&week); err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

// ReplaceScorers replaces the scorer list for a game in one transaction.
func (s *Store) ReplaceScorers(ctx context.Context, gameID string, scorers []*ScorerRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scorers tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scorers WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("clear scorers: %w", err)
	}
	for _, scorer := range scorers {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO scorers (game_id, player_name, team, player_id, first)
            VALUES (?, ?, ?, ?, ?)`,
			gameID,
			scorer.PlayerName,
			nullableString(scorer.Team),
			nullableString(scorer.PlayerID),
			boolToInt(scorer.First),
		)
		if err != nil {
			return fmt.Errorf("insert scorer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scorers: %w", err)
	}
	return nil
}

// ScorersForGame returns the touchdown scorers credited in a game, the
// first-touchdown scorer leading.
func (s *Store) ScorersForGame(ctx context.Context, gameID string) ([]*ScorerRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, game_id, player_name, team, player_id, first
        FROM scorers WHERE game_id = ? ORDER BY first DESC, id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query scorers: %w", err)
	}
	defer rows.Close()

	var scorers []*ScorerRecord
	for rows.Next() {
		scorer, err := scanScorer(rows)
		if err != nil {
			return nil, err
		}
		scorers = append(scorers, scorer)
	}
	return scorers, rows.Err()
}

func scanGame(scanner interface{ Scan(dest ...any) error }) (*Game, error) {
	var (
		id              int64
		gameID          string
		season          int
		week            int
		homeTeam        string
		awayTeam        string
		firstScorerName sql.NullString
		firstScorerTeam sql.NullString
		final           sql.NullInt64
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&gameID,
		&season,
		&week,
		&homeTeam,
		&awayTeam,
		&firstScorerName,
		&firstScorerTeam,
		&final,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	game := &Game{
		ID:              id,
		GameID:          gameID,
		Season:          season,
		Week:            week,
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		FirstScorerName: firstScorerName.String,
		FirstScorerTeam: firstScorerTeam.String,
	}
	if final.Valid {
		game.Final = final.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		game.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		game.UpdatedAt = updated
	}
	return game, nil
}

func scanScorer(scanner interface{ Scan(dest ...any) error }) (*ScorerRecord, error) {
	var (
		id         int64
		gameID     string
		playerName string
		team       sql.NullString
		playerID   sql.NullString
		first      sql.NullInt64
	)

	if err := scanner.Scan(&id, &gameID, &playerName, &team, &playerID, &first); err != nil {
		return nil, err
	}

	scorer := &ScorerRecord{
		ID:         id,
		GameID:     gameID,
		PlayerName: playerName,
		Team:       team.String,
		PlayerID:   playerID.String,
	}
	if first.Valid {
		scorer.First = first.Int64 != 0
	}
	return scorer, nil
}
