package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/e8yes/gomokubatch/internal/store"
)

func countCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the size of every partition for the configured purpose",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ctx = cmd.Context()
			source, closeStore, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			sel, err := a.cfg.Sampler.Selector()
			if err != nil {
				return err
			}
			var s = a.newSampler(source)
			for _, partition := range []store.Partition{store.PartitionAll, store.PartitionTraining, store.PartitionTesting} {
				sel.Partition = partition
				n, err := s.CountAvailable(ctx, sel)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v\t%v\n", partition, n)
			}
			return nil
		},
	}
}
