package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name> <candidate>...",
		Short: "Score a picked name against candidate scorers",
		Long: `Resolve scores a free-text player name against one or more candidate
scorer names using the configured thresholds, printing each candidate's
score and the winning match. Useful for checking how a pick would grade
before running a batch.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}

			pickName := args[0]
			candidates := args[1:]
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(candidates))
			for _, candidate := range candidates {
				score, reason := resolver.Scorer().Score(pickName, candidate)
				rows = append(rows, []string{
					displayName(candidate),
					formatScore(score),
					string(resolver.Scorer().Confidence(score)),
					yesNo(resolver.Scorer().AutoAccept(score)),
					reason,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Candidate", "Score", "Confidence", "Auto-Accept", "Reason"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))

			best := resolver.FindBestMatch(pickName, candidates, 0)
			if best == nil {
				fmt.Fprintf(out, "No candidate matched %q\n", pickName)
				return nil
			}
			fmt.Fprintf(out, "Best match for %q: %s (%s, score %s)\n",
				pickName, displayName(best.MatchedName), best.Confidence, formatScore(best.Score))
			return nil
		},
	}
}
