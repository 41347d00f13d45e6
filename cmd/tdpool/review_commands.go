package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tdpool/internal/config"
	"tdpool/internal/grading"
	"tdpool/internal/review"
	"tdpool/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and rule on held match decisions",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewRuleCommand(ctx, "approve", "Accept a held match and settle the pick as a win"))
	reviewCmd.AddCommand(newReviewRuleCommand(ctx, "reject", "Decline a held match and settle the pick as a loss"))
	reviewCmd.AddCommand(newReviewRevertCommand(ctx))
	reviewCmd.AddCommand(newReviewBulkCommand(ctx, "approve-all", "Approve every open decision"))
	reviewCmd.AddCommand(newReviewBulkCommand(ctx, "reject-all", "Reject every open decision"))
	reviewCmd.AddCommand(newReviewRevertApprovedCommand(ctx))
	reviewCmd.AddCommand(newReviewStatsCommand(ctx))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decisions awaiting review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				wf := review.NewWorkflow(st, ctx.logger())
				pending, err := wf.Pending(cmd.Context(), review.PendingSort(sortFlag))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(pending) == 0 {
					fmt.Fprintln(out, "No decisions awaiting review")
					return nil
				}

				rows := make([][]string, 0, len(pending))
				for _, decision := range pending {
					rows = append(rows, []string{
						strconv.FormatInt(decision.ID, 10),
						strconv.FormatInt(decision.PickID, 10),
						displayName(decision.PickName),
						displayName(decision.ScorerName),
						formatScore(decision.Score),
						decision.Confidence,
						decision.CreatedAt.UTC().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Pick", "Picked Name", "Matched Scorer", "Score", "Confidence", "Created"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "date", "Sort order: date, confidence, or score")
	return cmd
}

func newReviewRuleCommand(ctx *commandContext, use, short string) *cobra.Command {
	var reviewer string

	cmd := &cobra.Command{
		Use:   use + " <decision-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid decision id %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				wf := review.NewWorkflow(st, ctx.logger())
				if use == "approve" {
					err = wf.Approve(cmd.Context(), id, reviewer)
				} else {
					err = wf.Reject(cmd.Context(), id, reviewer)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Decision %d %sd\n", id, use)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewer, "reviewer", "cli", "Name recorded with the ruling")
	return cmd
}

func newReviewRevertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <decision-id>",
		Short: "Undo a manual ruling and reopen the decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid decision id %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				wf := review.NewWorkflow(st, ctx.logger())
				if err := wf.Revert(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Decision %d reopened for review\n", id)
				return nil
			})
		},
	}
}

func newReviewBulkCommand(ctx *commandContext, use, short string) *cobra.Command {
	var reviewer string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				lock, err := grading.AcquireRunLock(cfg.LockPath())
				if err != nil {
					return err
				}
				defer lock.Release()

				wf := review.NewWorkflow(st, ctx.logger())
				var count int
				if use == "approve-all" {
					count, err = wf.BulkApprove(cmd.Context(), reviewer)
				} else {
					count, err = wf.BulkReject(cmd.Context(), reviewer)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d decisions settled\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewer, "reviewer", "cli", "Name recorded with the rulings")
	return cmd
}

func newReviewRevertApprovedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revert-approved",
		Short: "Reopen every manually approved decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				lock, err := grading.AcquireRunLock(cfg.LockPath())
				if err != nil {
					return err
				}
				defer lock.Release()

				wf := review.NewWorkflow(st, ctx.logger())
				count, err := wf.BulkRevertApproved(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d decisions reopened\n", count)
				return nil
			})
		},
	}
}

func newReviewStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize decisions by state and confidence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				wf := review.NewWorkflow(st, ctx.logger())
				stats, err := wf.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Total decisions", strconv.Itoa(stats.Total)},
					{"Auto-accepted", strconv.Itoa(stats.AutoAccepted)},
					{"Needs review", strconv.Itoa(stats.NeedsReview)},
					{"Approved", strconv.Itoa(stats.Approved)},
					{"Rejected", strconv.Itoa(stats.Rejected)},
					{"Auto-accept rate", fmt.Sprintf("%.1f%%", stats.AutoAcceptRate*100)},
				}
				for _, tier := range []string{"exact", "high", "medium", "low"} {
					if count, ok := stats.ByConfidence[tier]; ok {
						rows = append(rows, []string{"Confidence " + tier, strconv.Itoa(count)})
					}
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
