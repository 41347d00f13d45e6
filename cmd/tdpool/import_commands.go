package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tdpool/internal/config"
	"tdpool/internal/importer"
	"tdpool/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load games, scorers, and picks from CSV files",
	}

	importCmd.AddCommand(newImportFileCommand(ctx, "games",
		"Import games (game_id,season,week,home,away)",
		func(imp *importer.Importer, ctx context.Context, r io.Reader) (int, error) {
			return imp.ImportGames(ctx, r)
		}))
	importCmd.AddCommand(newImportFileCommand(ctx, "scorers",
		"Import touchdown scorers (game_id,player,team,player_id,first)",
		func(imp *importer.Importer, ctx context.Context, r io.Reader) (int, error) {
			return imp.ImportScorers(ctx, r)
		}))
	importCmd.AddCommand(newImportFileCommand(ctx, "picks",
		"Import picks (game_id,owner,kind,player,odds,stake)",
		func(imp *importer.Importer, ctx context.Context, r io.Reader) (int, error) {
			return imp.ImportPicks(ctx, r)
		}))

	return importCmd
}

func newImportFileCommand(
	cmdCtx *commandContext,
	what, short string,
	run func(*importer.Importer, context.Context, io.Reader) (int, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   what + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, st *store.Store) error {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer file.Close()

				imp := importer.New(st, cfg.Grading.DefaultStake, cmdCtx.logger())
				count, err := run(imp, cmd.Context(), file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s\n", count, what)
				return nil
			})
		},
	}
}
