package review_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"tdpool/internal/grading"
	"tdpool/internal/logging"
	"tdpool/internal/namematch"
	"tdpool/internal/review"
	"tdpool/internal/services"
	"tdpool/internal/store"
	"tdpool/internal/testsupport"
)

// seedHeldPick grades a medium-confidence pick so a needs_review decision
// exists, returning the pick and its decision.
func seedHeldPick(t *testing.T, st *store.Store) (*store.Pick, *store.MatchDecision) {
	t.Helper()
	ctx := context.Background()

	testsupport.SeedGame(t, st, &store.Game{
		GameID: "g1", Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BUF", Final: true,
	})
	testsupport.SeedScorers(t, st, "g1", []*store.ScorerRecord{
		{GameID: "g1", PlayerName: "Patrick Mahomes", Team: "KC", First: true},
	})
	pick := testsupport.SeedPick(t, st, &store.Pick{
		Owner: "sam", GameID: "g1", Kind: store.KindAnytime,
		PlayerName: "Patrik Mahomes", Odds: 200, Stake: 5,
	})

	scorer, err := namematch.NewScorer(namematch.DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	orch, err := grading.NewOrchestrator(grading.StoreSources(st), namematch.NewResolver(scorer), logging.NewNop(), grading.Options{})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	if _, err := orch.GradeWeek(ctx, 2025, 1); err != nil {
		t.Fatalf("GradeWeek failed: %v", err)
	}

	decision, err := st.DecisionForPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("DecisionForPick failed: %v", err)
	}
	if decision == nil || decision.State() != store.StateNeedsReview {
		t.Fatalf("fixture did not hold the pick: %#v", decision)
	}
	return pick, decision
}

func TestApproveSettlesWin(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	pick, decision := seedHeldPick(t, st)

	wf := review.NewWorkflow(st, logging.NewNop())
	if err := wf.Approve(ctx, decision.ID, "league-admin"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	settled, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if settled.Outcome != store.OutcomeWin || math.Abs(settled.Payout-10) > 1e-9 {
		t.Fatalf("unexpected pick: %#v", settled)
	}

	ruled, err := st.GetDecision(ctx, decision.ID)
	if err != nil {
		t.Fatalf("GetDecision failed: %v", err)
	}
	if ruled.State() != store.StateManuallyApproved || ruled.ReviewedBy != "league-admin" || ruled.ReviewedAt == nil {
		t.Fatalf("unexpected decision: %#v", ruled)
	}
}

func TestRejectSettlesLoss(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	pick, decision := seedHeldPick(t, st)

	wf := review.NewWorkflow(st, logging.NewNop())
	if err := wf.Reject(ctx, decision.ID, "league-admin"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	settled, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if settled.Outcome != store.OutcomeLoss || math.Abs(settled.Payout-(-5)) > 1e-9 {
		t.Fatalf("unexpected pick: %#v", settled)
	}
}

func TestRuleRequiresOpenDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	_, decision := seedHeldPick(t, st)

	wf := review.NewWorkflow(st, logging.NewNop())
	if err := wf.Approve(ctx, decision.ID, "league-admin"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	err := wf.Approve(ctx, decision.ID, "league-admin")
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if err := wf.Reject(ctx, decision.ID, "league-admin"); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRuleUnknownDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	wf := review.NewWorkflow(st, logging.NewNop())
	err := wf.Approve(context.Background(), 42, "league-admin")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRevertReopensDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	pick, decision := seedHeldPick(t, st)

	wf := review.NewWorkflow(st, logging.NewNop())

	// Revert before any ruling is invalid.
	if err := wf.Revert(ctx, decision.ID); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := wf.Approve(ctx, decision.ID, "league-admin"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if err := wf.Revert(ctx, decision.ID); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}

	reopened, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if reopened.Outcome != store.OutcomePending || reopened.Payout != 0 || reopened.GradedAt != nil {
		t.Fatalf("pick not restored: %#v", reopened)
	}

	restored, err := st.GetDecision(ctx, decision.ID)
	if err != nil {
		t.Fatalf("GetDecision failed: %v", err)
	}
	if restored.State() != store.StateNeedsReview || restored.ReviewedBy != "" || restored.ReviewedAt != nil {
		t.Fatalf("decision not restored: %#v", restored)
	}

	// A reverted decision accepts a fresh ruling with the same effect.
	if err := wf.Approve(ctx, decision.ID, "league-admin"); err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}
	settled, err := st.GetPick(ctx, pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if settled.Outcome != store.OutcomeWin || math.Abs(settled.Payout-10) > 1e-9 {
		t.Fatalf("re-approval drifted: %#v", settled)
	}
}

func TestBulkApproveAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedHeldPick(t, st)

	wf := review.NewWorkflow(st, logging.NewNop())

	pending, err := wf.Pending(ctx, review.SortByDate)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("unexpected pending: %#v", pending)
	}

	count, err := wf.BulkApprove(ctx, "league-admin")
	if err != nil {
		t.Fatalf("BulkApprove failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("approved %d decisions", count)
	}

	stats, err := wf.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 1 || stats.Approved != 1 || stats.NeedsReview != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByConfidence["medium"] != 1 {
		t.Fatalf("unexpected confidence breakdown: %+v", stats.ByConfidence)
	}

	reverted, err := wf.BulkRevertApproved(ctx)
	if err != nil {
		t.Fatalf("BulkRevertApproved failed: %v", err)
	}
	if reverted != 1 {
		t.Fatalf("reverted %d decisions", reverted)
	}

	stats, err = wf.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.NeedsReview != 1 || stats.Approved != 0 {
		t.Fatalf("unexpected stats after revert: %+v", stats)
	}
}
