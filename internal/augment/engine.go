package augment

import (
	"context"
	"runtime"

	"github.com/e8yes/gomokubatch/internal/dataset"

	"golang.org/x/sync/errgroup"
)

// Engine spreads the expansion of a batch over several goroutines. Each input
// is expanded independently into its own slots of the output, so the result
// equals Augment.
type Engine struct {
	Workers int
}

func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{Workers: workers}
}

func (e *Engine) Augment(
	ctx context.Context,
	examples []dataset.Example,
	enabled bool,
) ([]dataset.Example, error) {
	if !enabled || e.Workers <= 1 {
		return Augment(examples, enabled), nil
	}

	var result = make([]dataset.Example, Factor*len(examples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for i := range examples {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			expand(examples, i, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a cancellation may have stopped the loop before any goroutine failed
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
