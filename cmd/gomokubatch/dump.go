package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/e8yes/gomokubatch/internal/augment"
	"github.com/e8yes/gomokubatch/internal/dataset"
	"github.com/e8yes/gomokubatch/internal/domain"
)

func dumpCmd(a *app) *cobra.Command {
	var batches int

	var c = &cobra.Command{
		Use:   "dump",
		Short: "Draw batches and print every example",
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
			var out = cmd.OutOrStdout()
			for b := 0; b < batches; b++ {
				batch, err := s.NextBatch(ctx, a.cfg.Sampler.BatchSize, sel, a.cfg.Sampler.Augment)
				if err != nil {
					return err
				}
				a.logger.Info().Int("batch", b).Int("examples", batch.Len()).Str("selector", sel.String()).Msg("dump")
				for i := 0; i < batch.Len(); i++ {
					var label = fmt.Sprintf("batch %v example %v", b, i)
					if a.cfg.Sampler.Augment {
						var v = augment.VariantOf(i, a.cfg.Sampler.BatchSize)
						label += fmt.Sprintf(" source %v symmetry %v inverted %v", v.Source, v.Symmetry, v.Inverted)
					}
					writeExample(out, label, batch.Example(i))
				}
			}
			return nil
		},
	}
	c.Flags().IntVarP(&batches, "batches", "n", 1, "Number of batches to print")
	return c
}

func writeExample(w io.Writer, label string, e dataset.Example) {
	fmt.Fprintln(w, label)
	fmt.Fprint(w, e.Board.String())
	fmt.Fprintf(w, "phase %v\n", e.Phase())
	fmt.Fprintf(w, "stone_type %v\n", e.StoneType.Get(0, 0))
	var a = e.Policy.ArgMax()
	if a < domain.BoardCells {
		fmt.Fprintf(w, "policy (%v, %v) %v\n", a%domain.BoardSize, a/domain.BoardSize, e.Policy[a])
	} else {
		fmt.Fprintf(w, "policy %v %v\n", policyAction(a), e.Policy[a])
	}
	fmt.Fprintf(w, "value %v\n\n", e.Value)
}

func policyAction(a int) string {
	switch a {
	case domain.Swap2ChooseWhite:
		return "swap2_choose_white"
	case domain.Swap2ChooseBlack:
		return "swap2_choose_black"
	case domain.Swap2ContinuePlacing:
		return "swap2_continue_placing"
	case domain.StoneChooseWhite:
		return "stone_choose_white"
	case domain.StoneChooseBlack:
		return "stone_choose_black"
	}
	return fmt.Sprintf("action %v", a)
}
