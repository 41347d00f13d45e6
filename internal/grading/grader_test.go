package grading_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"tdpool/internal/grading"
	"tdpool/internal/logging"
	"tdpool/internal/namematch"
	"tdpool/internal/store"
	"tdpool/internal/testsupport"
)

func newOrchestrator(t *testing.T, st *store.Store, opts grading.Options) *grading.Orchestrator {
	t.Helper()

	scorer, err := namematch.NewScorer(namematch.DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	orch, err := grading.NewOrchestrator(grading.StoreSources(st), namematch.NewResolver(scorer), logging.NewNop(), opts)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return orch
}

func seedWeek(t *testing.T, st *store.Store) {
	t.Helper()

	testsupport.SeedGame(t, st, &store.Game{
		GameID: "g1", Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BUF", Final: true,
	})
	testsupport.SeedScorers(t, st, "g1", []*store.ScorerRecord{
		{GameID: "g1", PlayerName: "Isiah Pacheco", Team: "KC", First: true},
		{GameID: "g1", PlayerName: "Travis Kelce", Team: "KC"},
		{GameID: "g1", PlayerName: "Patrick Mahomes", Team: "KC"},
	})
}

func TestGradeWeekAutoAcceptedWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedWeek(t, st)

	ftd := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindFirstTD,
		PlayerName: "Pacheco", Odds: 900, Stake: 2,
	})
	atts := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "alex", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Travis Kelce", Odds: -110, Stake: 5,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if !result.Success() {
		t.Fatalf("unexpected soft failure: %s", result.Err)
	}
	if result.FirstTD.Won != 1 || result.Anytime.Won != 1 {
		t.Fatalf("unexpected counts: %+v / %+v", result.FirstTD, result.Anytime)
	}

	gradedFTD, err := st.GetPick(ctx, ftd.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if gradedFTD.Outcome != store.OutcomeWin || math.Abs(gradedFTD.Payout-18) > 1e-9 {
		t.Fatalf("unexpected first-TD pick: %#v", gradedFTD)
	}
	if gradedFTD.GradedAt == nil {
		t.Fatal("expected graded timestamp")
	}

	gradedATTS, err := st.GetPick(ctx, atts.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if gradedATTS.Outcome != store.OutcomeWin {
		t.Fatalf("unexpected anytime pick: %#v", gradedATTS)
	}

	decision, err := st.DecisionForPick(ctx, ftd.ID)
	if err != nil {
		t.Fatalf("DecisionForPick failed: %v", err)
	}
	if decision == nil || decision.State() != store.StateAutoAccepted {
		t.Fatalf("unexpected decision: %#v", decision)
	}
	if decision.ScorerName != "Isiah Pacheco" {
		t.Fatalf("decision matched %q", decision.ScorerName)
	}

	game, err := st.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if game.FirstScorerName != "Isiah Pacheco" || game.FirstScorerTeam != "KC" {
		t.Fatalf("first scorer not stamped: %#v", game)
	}
}

func TestGradeWeekLossWithoutDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedWeek(t, st)

	pick := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Justin Jefferson", Odds: 300, Stake: 4,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Anytime.Lost != 1 {
		t.Fatalf("unexpected counts: %+v", result.Anytime)
	}

	graded, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if graded.Outcome != store.OutcomeLoss || math.Abs(graded.Payout-(-4)) > 1e-9 {
		t.Fatalf("unexpected pick: %#v", graded)
	}

	decision, err := st.DecisionForPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("DecisionForPick failed: %v", err)
	}
	if decision != nil {
		t.Fatalf("loss must not record a decision: %#v", decision)
	}
}

func TestGradeWeekMediumMatchHoldsForReview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedWeek(t, st)

	pick := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Patrik Mahomes", Odds: 200, Stake: 5,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Anytime.NeedsReview != 1 || result.Anytime.Graded != 0 {
		t.Fatalf("unexpected counts: %+v", result.Anytime)
	}

	held, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if held.Outcome != store.OutcomePending || held.GradedAt != nil {
		t.Fatalf("pick must stay pending: %#v", held)
	}

	decision, err := st.DecisionForPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("DecisionForPick failed: %v", err)
	}
	if decision == nil || decision.State() != store.StateNeedsReview {
		t.Fatalf("unexpected decision: %#v", decision)
	}
	if decision.ScorerName != "Patrick Mahomes" || decision.Confidence != "medium" {
		t.Fatalf("unexpected decision: %#v", decision)
	}
}

func TestGradeWeekSkipsSettledAndOpenPicks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedWeek(t, st)

	settled := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Travis Kelce", Odds: -110, Stake: 5,
	})
	held := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "alex", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Patrik Mahomes", Odds: 200, Stake: 5,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	if _, err := orch.GradeWeek(ctx, 2025, 1); err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}

	// Second run: the settled win is skipped and the open decision keeps its
	// pick out of grading.
	result, err := orch.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Anytime.Skipped != 2 || result.Anytime.Graded != 0 || result.Anytime.NeedsReview != 0 {
		t.Fatalf("unexpected counts: %+v", result.Anytime)
	}

	first, err := st.GetPick(ctx, settled.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	second, err := st.GetPick(ctx, held.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if first.Outcome != store.OutcomeWin || second.Outcome != store.OutcomePending {
		t.Fatalf("idempotency broken: %#v / %#v", first, second)
	}

	decisions, err := st.AllDecisions(ctx)
	if err != nil {
		t.Fatalf("AllDecisions failed: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("rerun duplicated decisions: %d", len(decisions))
	}
}

func TestGradeWeekForceRegrades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedWeek(t, st)

	pick := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Travis Kelce", Odds: -110, Stake: 5,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	if _, err := orch.GradeWeek(ctx, 2025, 1); err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}

	forced := newOrchestrator(t, st, grading.Options{Force: true})
	result, err := forced.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Anytime.Graded != 1 || result.Anytime.Won != 1 {
		t.Fatalf("unexpected counts: %+v", result.Anytime)
	}

	graded, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if graded.Outcome != store.OutcomeWin {
		t.Fatalf("unexpected pick: %#v", graded)
	}
}

func TestGradeWeekSoftFailsWithoutGames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeWeek(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Success() || result.Err == "" {
		t.Fatalf("expected a soft failure, got %+v", result)
	}
}

func TestGradeWeekSoftFailsWithoutScorerData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedGame(t, st, &store.Game{
		GameID: "g1", Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BUF",
	})
	testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Travis Kelce", Odds: -110, Stake: 5,
	})

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeWeek(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}
	if result.Success() {
		t.Fatalf("expected a soft failure, got %+v", result)
	}

	picks, err := st.ListPicks(ctx, store.OutcomePending)
	if err != nil {
		t.Fatalf("ListPicks failed: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("picks must stay untouched: %#v", picks)
	}
}

func TestGradeSeasonAccumulatesWeeks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for week, game := range map[int]string{1: "g1", 2: "g2"} {
		testsupport.SeedGame(t, st, &store.Game{
			GameID: game, Season: 2025, Week: week, HomeTeam: "KC", AwayTeam: "BUF", Final: true,
		})
		testsupport.SeedScorers(t, st, game, []*store.ScorerRecord{
			{GameID: game, PlayerName: "Travis Kelce", Team: "KC", First: true},
		})
		testsupport.SeedPick(t, st, &store.Pick{
			Owner: "sam", GameID: game, Kind: store.KindAnytime,
			PlayerName: "Travis Kelce", Odds: -110, Stake: 5,
		})
	}

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeSeason(ctx, 2025)
	if err != nil {
		t.Fatalf("GradeSeason failed: %v", err)
	}
	if result.GamesGraded != 2 || result.Anytime.Won != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.WeeksGraded) != 2 {
		t.Fatalf("unexpected weeks: %v", result.WeeksGraded)
	}
}

func TestGradeSeasonSoftFailsWithoutScorerData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// Games exist in two weeks but no scorer rows anywhere in the season.
	for week, game := range map[int]string{1: "g1", 2: "g2"} {
		testsupport.SeedGame(t, st, &store.Game{
			GameID: game, Season: 2025, Week: week, HomeTeam: "KC", AwayTeam: "BUF",
		})
	}

	orch := newOrchestrator(t, st, grading.Options{})
	result, err := orch.GradeSeason(ctx, 2025)
	if err != nil {
		t.Fatalf("GradeSeason failed: %v", err)
	}
	if result.Success() || result.Err == "" {
		t.Fatalf("expected a soft failure, got %+v", result)
	}
	if len(result.WeeksGraded) != 0 || result.GamesGraded != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grading.lock")

	lock, err := grading.AcquireRunLock(path)
	if err != nil {
		t.Fatalf("AcquireRunLock failed: %v", err)
	}

	if _, err := grading.AcquireRunLock(path); !errors.Is(err, grading.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	again, err := grading.AcquireRunLock(path)
	if err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	_ = again.Release()
}
