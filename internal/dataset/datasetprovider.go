package dataset

import (
	"context"
	"sync/atomic"

	"github.com/e8yes/gomokubatch/internal/domain"

	"golang.org/x/sync/errgroup"
)

// AssembleRows converts rows in order. The first row that fails aborts the
// whole call with a *domain.RowError, so a batch never silently shrinks.
func AssembleRows(
	ctx context.Context,
	rows []domain.RawRow,
	threads int,
) ([]Example, error) {
	var result = make([]Example, len(rows))
	if threads < 1 {
		threads = 1
	}

	g, ctx := errgroup.WithContext(ctx)

	var next int32 = -1
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			for {
				var i = int(atomic.AddInt32(&next, 1))
				if i >= len(rows) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				var row = &rows[i]
				example, err := Assemble(*row)
				if err != nil {
					return &domain.RowError{
						GameID:     row.GameID,
						StepNumber: row.StepNumber,
						Err:        err,
					}
				}
				result[i] = example
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
