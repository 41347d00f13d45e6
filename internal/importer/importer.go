// Package importer loads games, scorers, and picks from CSV files so a pool
// can be graded without any upstream feed.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"tdpool/internal/logging"
	"tdpool/internal/services"
	"tdpool/internal/store"
)

// Importer reads CSV rows into the store.
type Importer struct {
	store        *store.Store
	defaultStake float64
	logger       *slog.Logger
}

// New wraps a store in an Importer. defaultStake fills pick rows that leave
// the stake column blank.
func New(st *store.Store, defaultStake float64, logger *slog.Logger) *Importer {
	return &Importer{
		store:        st,
		defaultStake: defaultStake,
		logger:       logging.NewComponentLogger(logger, "importer"),
	}
}

type row struct {
	line   int
	fields []string
}

// ImportGames reads game rows (game_id,season,week,home,away) and upserts
// each. The first row is a header. Returns how many games were written.
func (i *Importer) ImportGames(ctx context.Context, r io.Reader) (int, error) {
	rows, err := readRows(r, 5, "games")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		season, err := parseInt(row.fields[1], row.line, "season")
		if err != nil {
			return count, err
		}
		week, err := parseInt(row.fields[2], row.line, "week")
		if err != nil {
			return count, err
		}
		game := &store.Game{
			GameID:   strings.TrimSpace(row.fields[0]),
			Season:   season,
			Week:     week,
			HomeTeam: strings.TrimSpace(row.fields[3]),
			AwayTeam: strings.TrimSpace(row.fields[4]),
		}
		if game.GameID == "" {
			return count, rowError(row.line, "games", "game_id is empty")
		}
		if _, err := i.store.UpsertGame(ctx, game); err != nil {
			return count, err
		}
		count++
	}
	i.logger.Info("games imported", logging.Int("count", count))
	return count, nil
}

// ImportScorers reads scorer rows (game_id,player,team,player_id,first) and
// replaces each referenced game's scorer list. Returns how many scorer rows
// were written.
func (i *Importer) ImportScorers(ctx context.Context, r io.Reader) (int, error) {
	rows, err := readRows(r, 5, "scorers")
	if err != nil {
		return 0, err
	}

	byGame := make(map[string][]*store.ScorerRecord)
	var order []string
	for _, row := range rows {
		gameID := strings.TrimSpace(row.fields[0])
		player := strings.TrimSpace(row.fields[1])
		if gameID == "" || player == "" {
			return 0, rowError(row.line, "scorers", "game_id and player are required")
		}
		first, err := parseBool(row.fields[4], row.line, "first")
		if err != nil {
			return 0, err
		}
		if _, seen := byGame[gameID]; !seen {
			order = append(order, gameID)
		}
		byGame[gameID] = append(byGame[gameID], &store.ScorerRecord{
			GameID:     gameID,
			PlayerName: player,
			Team:       strings.TrimSpace(row.fields[2]),
			PlayerID:   strings.TrimSpace(row.fields[3]),
			First:      first,
		})
	}

	count := 0
	for _, gameID := range order {
		game, err := i.store.GetGame(ctx, gameID)
		if err != nil {
			return count, err
		}
		if game == nil {
			return count, services.Wrap(services.ErrValidation, "importer", "import scorers",
				fmt.Sprintf("game %q is not recorded, import games first", gameID), nil)
		}
		if err := i.store.ReplaceScorers(ctx, gameID, byGame[gameID]); err != nil {
			return count, err
		}
		count += len(byGame[gameID])
	}
	i.logger.Info("scorers imported",
		logging.Int("count", count),
		logging.Int("games", len(order)),
	)
	return count, nil
}

// ImportPicks reads pick rows (game_id,owner,kind,player,odds,stake) and
// inserts each. Returns how many picks were written.
func (i *Importer) ImportPicks(ctx context.Context, r io.Reader) (int, error) {
	rows, err := readRows(r, 6, "picks")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		gameID := strings.TrimSpace(row.fields[0])
		game, err := i.store.GetGame(ctx, gameID)
		if err != nil {
			return count, err
		}
		if game == nil {
			return count, services.Wrap(services.ErrValidation, "importer", "import picks",
				fmt.Sprintf("game %q is not recorded, import games first", gameID), nil)
		}

		kind := store.PickKind(strings.ToLower(strings.TrimSpace(row.fields[2])))
		if !store.ValidKind(kind) {
			return count, rowError(row.line, "picks", fmt.Sprintf("unknown kind %q", row.fields[2]))
		}
		odds, err := parseInt(row.fields[4], row.line, "odds")
		if err != nil {
			return count, err
		}
		stake := i.defaultStake
		if raw := strings.TrimSpace(row.fields[5]); raw != "" {
			stake, err = parseFloat(raw, row.line, "stake")
			if err != nil {
				return count, err
			}
		}
		if stake <= 0 {
			return count, rowError(row.line, "picks", "stake must be positive")
		}

		pick := &store.Pick{
			Owner:      strings.TrimSpace(row.fields[1]),
			GameID:     gameID,
			Kind:       kind,
			PlayerName: strings.TrimSpace(row.fields[3]),
			Odds:       odds,
			Stake:      stake,
		}
		if pick.Owner == "" || pick.PlayerName == "" {
			return count, rowError(row.line, "picks", "owner and player are required")
		}
		if _, err := i.store.InsertPick(ctx, pick); err != nil {
			return count, err
		}
		count++
	}
	i.logger.Info("picks imported", logging.Int("count", count))
	return count, nil
}

// readRows parses the CSV body after the header, keeping 1-based line
// numbers for error reporting.
func readRows(r io.Reader, fields int, what string) ([]row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var rows []row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "importer", "read csv",
				fmt.Sprintf("%s line %d: %v", what, line, err), nil)
		}
		if line == 1 {
			// Header row.
			continue
		}
		if len(record) != fields {
			return nil, rowError(line, what, fmt.Sprintf("expected %d fields, got %d", fields, len(record)))
		}
		rows = append(rows, row{line: line, fields: record})
	}
	return rows, nil
}

func rowError(line int, what, message string) error {
	return services.Wrap(services.ErrValidation, "importer", "import "+what,
		fmt.Sprintf("line %d: %s", line, message), nil)
}

func parseInt(value string, line int, field string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, rowError(line, field, fmt.Sprintf("%q is not an integer", value))
	}
	return parsed, nil
}

func parseFloat(value string, line int, field string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, rowError(line, field, fmt.Sprintf("%q is not a number", value))
	}
	return parsed, nil
}

func parseBool(value string, line int, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true, nil
	case "", "0", "false", "no", "n":
		return false, nil
	default:
		return false, rowError(line, field, fmt.Sprintf("%q is not a boolean", value))
	}
}
