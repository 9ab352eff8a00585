package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/e8yes/gomokubatch/internal/importer"
)

func importCmd(a *app) *cobra.Command {
	var chunkSize int

	var c = &cobra.Command{
		Use:   "import FILE",
		Short: "Load recorded actions from a JSON lines file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Store.Driver == "memory" {
				return fmt.Errorf("import needs a persistent store, not %q", a.cfg.Store.Driver)
			}
			var ctx = cmd.Context()
			sink, closeStore, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			a.logger.Info().Str("file", args[0]).Str("driver", a.cfg.Store.Driver).Msg("import started")
			stats, err := importer.Load(ctx, file, sink, chunkSize)
			if err != nil {
				return fmt.Errorf("import %v: %w", args[0], err)
			}
			a.logger.Info().Int("games", stats.Games).Int("actions", stats.Actions).Msg("import finished")
			fmt.Fprintf(cmd.OutOrStdout(), "games\t%v\nactions\t%v\n", stats.Games, stats.Actions)
			return nil
		},
	}
	c.Flags().IntVar(&chunkSize, "chunk", 1000, "Actions per insert")
	return c
}
