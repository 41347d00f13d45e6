package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tdpool/internal/config"
	"tdpool/internal/store"
)

func newPicksCommand(ctx *commandContext) *cobra.Command {
	picksCmd := &cobra.Command{
		Use:   "picks",
		Short: "Inspect pool picks",
	}

	picksCmd.AddCommand(newPicksListCommand(ctx))

	return picksCmd
}

func newPicksListCommand(ctx *commandContext) *cobra.Command {
	var season int
	var week int
	var outcomeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List picks with their graded outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var (
					picks []*store.Pick
					err   error
				)
				if week > 0 {
					picks, err = st.PicksForWeek(cmd.Context(), resolveSeason(cfg, season), week)
				} else if outcomeFlag != "" {
					picks, err = st.ListPicks(cmd.Context(), store.Outcome(outcomeFlag))
				} else {
					picks, err = st.ListPicks(cmd.Context())
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(picks) == 0 {
					fmt.Fprintln(out, "No picks found")
					return nil
				}

				rows := make([][]string, 0, len(picks))
				for _, pick := range picks {
					if outcomeFlag != "" && pick.Outcome != store.Outcome(outcomeFlag) {
						continue
					}
					rows = append(rows, []string{
						strconv.FormatInt(pick.ID, 10),
						displayName(pick.Owner),
						pick.GameID,
						kindLabel(pick.Kind),
						displayName(pick.PlayerName),
						formatOdds(pick.Odds),
						fmt.Sprintf("%.2f", pick.Stake),
						string(pick.Outcome),
						formatPayout(pick.Payout),
						formatTimestamp(pick.GradedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Owner", "Game", "Pool", "Player", "Odds", "Stake", "Outcome", "Payout", "Graded"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season filter (defaults to the configured season)")
	cmd.Flags().IntVar(&week, "week", 0, "Week filter")
	cmd.Flags().StringVar(&outcomeFlag, "outcome", "", "Outcome filter: pending, win, loss, or push")
	return cmd
}
