// Package sampler walks a partition of recorded actions page by page and
// turns each page into a training batch.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/e8yes/gomokubatch/internal/augment"
	"github.com/e8yes/gomokubatch/internal/dataset"
	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/metrics"
	"github.com/e8yes/gomokubatch/internal/store"
)

// RowSource is the store a sampler reads from.
type RowSource interface {
	CountRows(ctx context.Context, q store.Query) (int, error)
	FetchRows(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error)
}

type Options struct {
	Seed       int64
	MostRecent int
	Workers    int
	Logger     zerolog.Logger
}

// Sampler keeps one read offset per selector. It is not safe for concurrent
// use.
type Sampler struct {
	source     RowSource
	seed       int64
	mostRecent int
	workers    int
	engine     *augment.Engine
	logger     zerolog.Logger
	offsets    map[store.Selector]int
}

func New(source RowSource, opts Options) *Sampler {
	var engine = augment.NewEngine(opts.Workers)
	return &Sampler{
		source:     source,
		seed:       opts.Seed,
		mostRecent: opts.MostRecent,
		workers:    engine.Workers,
		engine:     engine,
		logger:     opts.Logger,
		offsets:    make(map[store.Selector]int),
	}
}

func (s *Sampler) query(sel store.Selector) store.Query {
	return store.Query{Selector: sel, Seed: s.seed, MostRecent: s.mostRecent}
}

// CountAvailable returns the current size of the partition.
func (s *Sampler) CountAvailable(ctx context.Context, sel store.Selector) (int, error) {
	n, err := s.source.CountRows(ctx, s.query(sel))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrSampleFetch, err)
	}
	return n, nil
}

// Offset is the position the next batch for sel starts at.
func (s *Sampler) Offset(sel store.Selector) int {
	return s.offsets[sel]
}

// Reset starts every selector over from the first row.
func (s *Sampler) Reset() {
	clear(s.offsets)
}

// NextRows returns the next batchSize rows of the partition. A batch that runs
// past the end continues from the first row. The offset only moves when the
// whole batch was read.
func (s *Sampler) NextRows(ctx context.Context, batchSize int, sel store.Selector) ([]domain.RawRow, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d must be positive", batchSize)
	}
	var start = time.Now()
	var label = sel.String()
	var q = s.query(sel)

	size, err := s.source.CountRows(ctx, q)
	if err != nil {
		metrics.RecordFetchError(label, "count")
		return nil, fmt.Errorf("%w: count %v: %w", domain.ErrSampleFetch, sel, err)
	}
	if size == 0 || size < batchSize {
		metrics.RecordFetchError(label, "insufficient_data")
		return nil, fmt.Errorf("%w: %v has %d rows, batch needs %d",
			domain.ErrInsufficientData, sel, size, batchSize)
	}

	// the partition may have shrunk since the offset was stored
	var offset = s.offsets[sel] % size
	var head = min(batchSize, size-offset)

	rows, err := s.fetch(ctx, q, head, offset)
	if err != nil {
		metrics.RecordFetchError(label, "fetch")
		return nil, err
	}
	var wrapped = head < batchSize
	if wrapped {
		tail, err := s.fetch(ctx, q, batchSize-head, 0)
		if err != nil {
			metrics.RecordFetchError(label, "fetch")
			return nil, err
		}
		rows = append(rows, tail...)
	}

	s.offsets[sel] = (offset + batchSize) % size
	metrics.RecordFetch(label, size, len(rows), wrapped, time.Since(start))
	s.logger.Debug().
		Str("selector", label).
		Int("size", size).
		Int("offset", offset).
		Int("next", s.offsets[sel]).
		Bool("wrapped", wrapped).
		Msg("next rows")
	return rows, nil
}

var errShortPage = errors.New("short page")

func (s *Sampler) fetch(ctx context.Context, q store.Query, limit, offset int) ([]domain.RawRow, error) {
	rows, err := s.source.FetchRows(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %v at %d: %w", domain.ErrSampleFetch, q.Selector, offset, err)
	}
	if len(rows) != limit {
		return nil, fmt.Errorf("%w: fetch %v at %d: %w: got %d of %d rows",
			domain.ErrSampleFetch, q.Selector, offset, errShortPage, len(rows), limit)
	}
	return rows, nil
}

// NextBatch draws batchSize rows and assembles them into a batch, expanded
// sixteen times when augmented is set.
func (s *Sampler) NextBatch(
	ctx context.Context,
	batchSize int,
	sel store.Selector,
	augmented bool,
) (augment.Batch, error) {
	rows, err := s.NextRows(ctx, batchSize, sel)
	if err != nil {
		return augment.Batch{}, err
	}
	examples, err := dataset.AssembleRows(ctx, rows, s.workers)
	if err != nil {
		metrics.RecordFetchError(sel.String(), "assemble")
		return augment.Batch{}, err
	}
	examples, err = s.engine.Augment(ctx, examples, augmented)
	if err != nil {
		return augment.Batch{}, err
	}
	metrics.RecordExamples(sel.String(), augmented, len(examples))
	return augment.NewBatch(examples), nil
}
