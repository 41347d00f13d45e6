package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tdpool/internal/config"
	"tdpool/internal/grading"
	"tdpool/internal/store"
)

func newGradeCommand(ctx *commandContext) *cobra.Command {
	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade pool picks against recorded scorers",
	}

	gradeCmd.AddCommand(newGradeWeekCommand(ctx))
	gradeCmd.AddCommand(newGradeSeasonCommand(ctx))

	return gradeCmd
}

func newGradeWeekCommand(ctx *commandContext) *cobra.Command {
	var season int
	var force bool

	cmd := &cobra.Command{
		Use:   "week <week>",
		Short: "Grade every pick in one week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid week %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				orch, lock, err := buildOrchestrator(ctx, cfg, st, force)
				if err != nil {
					return err
				}
				defer lock.Release()

				result, err := orch.GradeWeek(cmd.Context(), resolveSeason(cfg, season), week)
				if err != nil {
					return err
				}
				printGradeResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season to grade (defaults to the configured season)")
	cmd.Flags().BoolVar(&force, "force", false, "Regrade picks that already have an outcome")
	return cmd
}

func newGradeSeasonCommand(ctx *commandContext) *cobra.Command {
	var season int
	var force bool

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Grade every week with recorded games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				orch, lock, err := buildOrchestrator(ctx, cfg, st, force)
				if err != nil {
					return err
				}
				defer lock.Release()

				result, err := orch.GradeSeason(cmd.Context(), resolveSeason(cfg, season))
				if err != nil {
					return err
				}
				printGradeResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season to grade (defaults to the configured season)")
	cmd.Flags().BoolVar(&force, "force", false, "Regrade picks that already have an outcome")
	return cmd
}

func buildOrchestrator(ctx *commandContext, cfg *config.Config, st *store.Store, force bool) (*grading.Orchestrator, *grading.RunLock, error) {
	resolver, err := ctx.resolver()
	if err != nil {
		return nil, nil, err
	}
	lock, err := grading.AcquireRunLock(cfg.LockPath())
	if err != nil {
		return nil, nil, err
	}
	orch, err := grading.NewOrchestrator(grading.StoreSources(st), resolver, ctx.logger(), grading.Options{Force: force})
	if err != nil {
		_ = lock.Release()
		return nil, nil, err
	}
	return orch, lock, nil
}

func resolveSeason(cfg *config.Config, flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Grading.Season
}

func printGradeResult(cmd *cobra.Command, result *grading.GradeResult) {
	out := cmd.OutOrStdout()

	if !result.Success() {
		fmt.Fprintf(out, "Nothing graded: %s\n", result.Err)
		return
	}

	rows := [][]string{
		gradeRow("First TD", result.FirstTD),
		gradeRow("Anytime TD", result.Anytime),
		gradeRow("Total", result.Totals()),
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Pool", "Graded", "Won", "Lost", "Review", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	scope := fmt.Sprintf("season %d week %d", result.Season, result.Week)
	if len(result.WeeksGraded) > 0 {
		scope = fmt.Sprintf("season %d, %d weeks", result.Season, len(result.WeeksGraded))
	}
	fmt.Fprintf(out, "Run %s graded %d games (%s)\n", result.RunID, result.GamesGraded, scope)
}

func gradeRow(label string, counts grading.KindCounts) []string {
	return []string{
		label,
		strconv.Itoa(counts.Graded),
		strconv.Itoa(counts.Won),
		strconv.Itoa(counts.Lost),
		strconv.Itoa(counts.NeedsReview),
		strconv.Itoa(counts.Skipped),
	}
}
