package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tdpool/internal/grading"
	"tdpool/internal/logging"
	"tdpool/internal/services"
	"tdpool/internal/store"
)

// Workflow settles held picks from operator rulings.
type Workflow struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWorkflow wraps a store in a review workflow.
func NewWorkflow(st *store.Store, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:  st,
		logger: logging.NewComponentLogger(logger, "review"),
	}
}

// Approve accepts a held match and settles its pick as a win.
func (w *Workflow) Approve(ctx context.Context, decisionID int64, reviewer string) error {
	return w.rule(ctx, decisionID, reviewer, store.ManualApproved)
}

// Reject declines a held match and settles its pick as a loss.
func (w *Workflow) Reject(ctx context.Context, decisionID int64, reviewer string) error {
	return w.rule(ctx, decisionID, reviewer, store.ManualRejected)
}

func (w *Workflow) rule(ctx context.Context, decisionID int64, reviewer string, manual store.ManualDecision) error {
	decision, pick, err := w.load(ctx, decisionID)
	if err != nil {
		return err
	}
	if decision.State() != store.StateNeedsReview {
		return services.Wrap(services.ErrInvalidState, "review", "rule",
			fmt.Sprintf("decision %d is %s, only needs_review decisions accept a ruling",
				decisionID, decision.State()), nil)
	}

	now := time.Now().UTC()
	decision.Manual = manual
	decision.ReviewedBy = reviewer
	decision.ReviewedAt = &now
	decision.NeedsReview = false

	outcome := store.OutcomeWin
	if manual == store.ManualRejected {
		outcome = store.OutcomeLoss
	}
	pick.Outcome = outcome
	pick.Payout = grading.Payout(outcome, pick.Odds, pick.Stake)
	gradedAt := now
	pick.GradedAt = &gradedAt

	batch := store.NewBatch()
	batch.UpdateDecision(decision)
	batch.UpdatePick(pick)
	if err := w.store.ApplyBatch(ctx, batch); err != nil {
		return err
	}

	w.logger.Info("ruling applied",
		logging.Int64(logging.FieldDecisionID, decision.ID),
		logging.Int64(logging.FieldPickID, pick.ID),
		logging.String(logging.FieldDecisionType, string(manual)),
		logging.String("reviewer", reviewer),
	)
	return nil
}

// Revert undoes a manual ruling, returning the decision to review and the
// pick to pending. Only manually ruled decisions can revert.
func (w *Workflow) Revert(ctx context.Context, decisionID int64) error {
	decision, pick, err := w.load(ctx, decisionID)
	if err != nil {
		return err
	}
	state := decision.State()
	if state != store.StateManuallyApproved && state != store.StateManuallyRejected {
		return services.Wrap(services.ErrInvalidState, "review", "revert",
			fmt.Sprintf("decision %d is %s, only manual rulings revert", decisionID, state), nil)
	}

	decision.Manual = store.ManualNone
	decision.ReviewedBy = ""
	decision.ReviewedAt = nil
	decision.NeedsReview = true

	pick.Outcome = store.OutcomePending
	pick.Payout = 0
	pick.GradedAt = nil

	batch := store.NewBatch()
	batch.UpdateDecision(decision)
	batch.UpdatePick(pick)
	if err := w.store.ApplyBatch(ctx, batch); err != nil {
		return err
	}

	w.logger.Info("ruling reverted",
		logging.Int64(logging.FieldDecisionID, decision.ID),
		logging.Int64(logging.FieldPickID, pick.ID),
	)
	return nil
}

// BulkApprove applies one reviewer's approval to every open decision and
// returns how many were settled.
func (w *Workflow) BulkApprove(ctx context.Context, reviewer string) (int, error) {
	pending, err := w.store.DecisionsNeedingReview(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, decision := range pending {
		if err := w.Approve(ctx, decision.ID, reviewer); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// BulkReject applies one reviewer's rejection to every open decision and
// returns how many were settled.
func (w *Workflow) BulkReject(ctx context.Context, reviewer string) (int, error) {
	pending, err := w.store.DecisionsNeedingReview(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, decision := range pending {
		if err := w.Reject(ctx, decision.ID, reviewer); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// BulkRevertApproved reverts every manually approved decision, returning how
// many were reopened.
func (w *Workflow) BulkRevertApproved(ctx context.Context) (int, error) {
	approved, err := w.store.DecisionsByManual(ctx, store.ManualApproved)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, decision := range approved {
		if err := w.Revert(ctx, decision.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (w *Workflow) load(ctx context.Context, decisionID int64) (*store.MatchDecision, *store.Pick, error) {
	decision, err := w.store.GetDecision(ctx, decisionID)
	if err != nil {
		return nil, nil, err
	}
	if decision == nil {
		return nil, nil, services.Wrap(services.ErrNotFound, "review", "load",
			fmt.Sprintf("decision %d not found", decisionID), nil)
	}
	pick, err := w.store.GetPick(ctx, decision.PickID)
	if err != nil {
		return nil, nil, err
	}
	if pick == nil {
		return nil, nil, services.Wrap(services.ErrNotFound, "review", "load",
			fmt.Sprintf("pick %d for decision %d not found", decision.PickID, decisionID), nil)
	}
	return decision, pick, nil
}
