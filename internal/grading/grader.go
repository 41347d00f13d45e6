package grading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tdpool/internal/logging"
	"tdpool/internal/namematch"
	"tdpool/internal/services"
	"tdpool/internal/store"
)

// Options adjusts orchestrator behavior.
type Options struct {
	// Force regrades picks that already carry a settled outcome.
	Force bool
}

// Orchestrator runs grading passes over stored games and picks.
type Orchestrator struct {
	sources  Sources
	resolver *namematch.Resolver
	logger   *slog.Logger
	opts     Options
}

// NewOrchestrator assembles a grading orchestrator.
func NewOrchestrator(sources Sources, resolver *namematch.Resolver, logger *slog.Logger, opts Options) (*Orchestrator, error) {
	if sources.Games == nil || sources.Scorers == nil || sources.Picks == nil || sources.Persister == nil {
		return nil, services.Wrap(services.ErrConfiguration, "grading", "new orchestrator",
			"all sources must be provided", nil)
	}
	if resolver == nil {
		return nil, services.Wrap(services.ErrConfiguration, "grading", "new orchestrator",
			"resolver must be provided", nil)
	}
	return &Orchestrator{
		sources:  sources,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "grading"),
		opts:     opts,
	}, nil
}

// GradeWeek grades every eligible pick in a season week. All mutations
// commit in one batch; a run that writes nothing leaves the database
// untouched. A week with no recorded games soft-fails in the result.
func (o *Orchestrator) GradeWeek(ctx context.Context, season, week int) (*GradeResult, error) {
	result := &GradeResult{
		RunID:  uuid.NewString(),
		Season: season,
		Week:   week,
	}
	log := o.logger.With(
		logging.String(logging.FieldRunID, result.RunID),
		logging.Int(logging.FieldSeason, season),
		logging.Int(logging.FieldWeek, week),
	)

	games, err := o.sources.Games.GamesForWeek(ctx, season, week)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "grading", "grade week", "load games", err)
	}
	if len(games) == 0 {
		result.Err = fmt.Sprintf("no games found for season %d week %d", season, week)
		log.Warn("nothing to grade", logging.String("reason", result.Err))
		return result, nil
	}

	openPicks, err := o.sources.Picks.PickIDsWithOpenDecisions(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "grading", "grade week", "load open decisions", err)
	}

	batch := store.NewBatch()
	scorerDataSeen := false
	for _, game := range games {
		scorers, err := o.sources.Scorers.ScorersForGame(ctx, game.GameID)
		if err != nil {
			return nil, services.Wrap(services.ErrPersistence, "grading", "grade week", "load scorers", err)
		}
		if len(scorers) == 0 {
			log.Warn("game has no scorer data",
				logging.String(logging.FieldGameID, game.GameID))
			continue
		}
		scorerDataSeen = true

		if err := o.gradeGame(ctx, log, game, scorers, openPicks, batch, result); err != nil {
			return nil, err
		}
		result.GamesGraded++
	}

	if !scorerDataSeen {
		result.Err = fmt.Sprintf("no scorer data recorded for season %d week %d", season, week)
		log.Warn("nothing to grade", logging.String("reason", result.Err))
		return result, nil
	}

	if err := o.sources.Persister.ApplyBatch(ctx, batch); err != nil {
		return nil, err
	}

	totals := result.Totals()
	log.Info("grading run complete",
		logging.Int("games", result.GamesGraded),
		logging.Int("graded", totals.Graded),
		logging.Int("won", totals.Won),
		logging.Int("lost", totals.Lost),
		logging.Int("needs_review", totals.NeedsReview),
		logging.Int("skipped", totals.Skipped),
	)
	return result, nil
}

// GradeSeason grades every week that has games recorded for the season,
// accumulating per-week tallies into one result.
func (o *Orchestrator) GradeSeason(ctx context.Context, season int) (*GradeResult, error) {
	weeks, err := o.sources.Games.WeeksForSeason(ctx, season)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "grading", "grade season", "load weeks", err)
	}

	result := &GradeResult{
		RunID:  uuid.NewString(),
		Season: season,
	}
	if len(weeks) == 0 {
		result.Err = fmt.Sprintf("no games found for season %d", season)
		return result, nil
	}

	for _, week := range weeks {
		weekResult, err := o.GradeWeek(ctx, season, week)
		if err != nil {
			return nil, err
		}
		result.GamesGraded += weekResult.GamesGraded
		result.FirstTD.add(weekResult.FirstTD)
		result.Anytime.add(weekResult.Anytime)
		if weekResult.Success() {
			result.WeeksGraded = append(result.WeeksGraded, week)
		}
	}
	if len(result.WeeksGraded) == 0 {
		result.Err = fmt.Sprintf("no scorer data recorded for season %d", season)
	}
	return result, nil
}

func (o *Orchestrator) gradeGame(
	ctx context.Context,
	log *slog.Logger,
	game *store.Game,
	scorers []*store.ScorerRecord,
	openPicks map[int64]struct{},
	batch *store.Batch,
	result *GradeResult,
) error {
	firstScorer := firstOf(scorers)
	if firstScorer != nil && (game.FirstScorerName != firstScorer.PlayerName || !game.Final) {
		game.FirstScorerName = firstScorer.PlayerName
		game.FirstScorerTeam = firstScorer.Team
		game.Final = true
		batch.UpdateGame(game)
	}

	allNames := make([]string, 0, len(scorers))
	for _, scorer := range scorers {
		allNames = append(allNames, scorer.PlayerName)
	}

	picks, err := o.sources.Picks.PicksForGame(ctx, game.GameID)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "grading", "grade week", "load picks", err)
	}

	medium := o.resolver.Scorer().Thresholds().Medium
	now := time.Now().UTC()

	for _, pick := range picks {
		counts := result.countsFor(pick.Kind)

		if pick.Graded() && !o.opts.Force {
			counts.Skipped++
			continue
		}
		if _, open := openPicks[pick.ID]; open {
			log.Info("pick has an open decision, leaving for review",
				logging.Int64(logging.FieldPickID, pick.ID))
			counts.Skipped++
			continue
		}

		candidates := allNames
		if pick.Kind == store.KindFirstTD {
			if firstScorer == nil {
				o.settle(pick, store.OutcomeLoss, now, batch)
				counts.Graded++
				counts.Lost++
				continue
			}
			candidates = []string{firstScorer.PlayerName}
		}

		match := o.resolver.FindBestMatch(pick.PlayerName, candidates, 0)
		if match == nil || match.Score < medium {
			o.settle(pick, store.OutcomeLoss, now, batch)
			counts.Graded++
			counts.Lost++
			continue
		}

		decision := &store.MatchDecision{
			PickID:       pick.ID,
			PickName:     pick.PlayerName,
			ScorerName:   match.MatchedName,
			Score:        match.Score,
			Confidence:   string(match.Confidence),
			Reason:       match.Reason,
			AutoAccepted: match.AutoAccept,
			NeedsReview:  !match.AutoAccept,
		}
		batch.AddDecision(decision)

		if match.AutoAccept {
			o.settle(pick, store.OutcomeWin, now, batch)
			counts.Graded++
			counts.Won++
			continue
		}

		log.Info("match needs review",
			logging.Int64(logging.FieldPickID, pick.ID),
			logging.String(logging.FieldConfidence, decision.Confidence),
			logging.Float64(logging.FieldScore, decision.Score),
		)
		counts.NeedsReview++
	}
	return nil
}

func (o *Orchestrator) settle(pick *store.Pick, outcome store.Outcome, at time.Time, batch *store.Batch) {
	pick.Outcome = outcome
	pick.Payout = Payout(outcome, pick.Odds, pick.Stake)
	gradedAt := at
	pick.GradedAt = &gradedAt
	batch.UpdatePick(pick)
}

func firstOf(scorers []*store.ScorerRecord) *store.ScorerRecord {
	for _, scorer := range scorers {
		if scorer.First {
			return scorer
		}
	}
	return nil
}
