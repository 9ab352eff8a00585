package augment

import (
	"fmt"

	"github.com/e8yes/gomokubatch/internal/dataset"
	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/tensor"
)

// Batch is the column layout handed to the network: one slice per input
// tensor, all indexed by example.
type Batch struct {
	Boards     []tensor.Plane
	Phases     [domain.NumPhases][]tensor.Plane
	StoneTypes []tensor.Plane
	Policies   []tensor.Policy
	Values     []float32
}

func NewBatch(examples []dataset.Example) Batch {
	var n = len(examples)
	var b = Batch{
		Boards:     make([]tensor.Plane, n),
		StoneTypes: make([]tensor.Plane, n),
		Policies:   make([]tensor.Policy, n),
		Values:     make([]float32, n),
	}
	for p := range b.Phases {
		b.Phases[p] = make([]tensor.Plane, n)
	}
	for i := range examples {
		var e = &examples[i]
		b.Boards[i] = e.Board
		b.StoneTypes[i] = e.StoneType
		b.Policies[i] = e.Policy
		b.Values[i] = e.Value
		for p := range b.Phases {
			b.Phases[p][i] = e.Phases[p]
		}
	}
	return b
}

func (b *Batch) Len() int {
	return len(b.Values)
}

// Validate checks that every column holds the same number of examples.
func (b *Batch) Validate() error {
	var n = len(b.Values)
	if len(b.Boards) != n || len(b.StoneTypes) != n || len(b.Policies) != n {
		return fmt.Errorf("batch columns differ: boards=%v stone_types=%v policies=%v values=%v: %w",
			len(b.Boards), len(b.StoneTypes), len(b.Policies), n, domain.ErrShape)
	}
	for p := range b.Phases {
		if len(b.Phases[p]) != n {
			return fmt.Errorf("phase %v has %v planes, want %v: %w",
				domain.GamePhase(p), len(b.Phases[p]), n, domain.ErrShape)
		}
	}
	return nil
}

func (b *Batch) Example(i int) dataset.Example {
	var e = dataset.Example{
		Board:     b.Boards[i],
		StoneType: b.StoneTypes[i],
		Policy:    b.Policies[i],
		Value:     b.Values[i],
	}
	for p := range b.Phases {
		e.Phases[p] = b.Phases[p][i]
	}
	return e
}

func (b *Batch) Examples() []dataset.Example {
	var result = make([]dataset.Example, b.Len())
	for i := range result {
		result[i] = b.Example(i)
	}
	return result
}

// FromTensors builds a batch from loosely shaped data, checking every plane
// is 11x11 and every policy has 126 logits.
func FromTensors(
	boards [][]float32,
	phases [domain.NumPhases][][]float32,
	stoneTypes [][]float32,
	policies [][]float32,
	values []float32,
) (Batch, error) {
	var n = len(values)
	if len(boards) != n || len(stoneTypes) != n || len(policies) != n {
		return Batch{}, fmt.Errorf("column lengths differ: %w", domain.ErrShape)
	}
	for p := range phases {
		if len(phases[p]) != n {
			return Batch{}, fmt.Errorf("phase %v column length differs: %w",
				domain.GamePhase(p), domain.ErrShape)
		}
	}

	var examples = make([]dataset.Example, n)
	for i := range examples {
		var e = &examples[i]
		var err error
		if e.Board, err = tensor.PlaneFromSlice(boards[i]); err != nil {
			return Batch{}, fmt.Errorf("board %v: %w", i, err)
		}
		if e.StoneType, err = tensor.PlaneFromSlice(stoneTypes[i]); err != nil {
			return Batch{}, fmt.Errorf("stone type %v: %w", i, err)
		}
		for p := range phases {
			if e.Phases[p], err = tensor.PlaneFromSlice(phases[p][i]); err != nil {
				return Batch{}, fmt.Errorf("phase %v plane %v: %w", domain.GamePhase(p), i, err)
			}
		}
		if e.Policy, err = tensor.PolicyFromSlice(policies[i]); err != nil {
			return Batch{}, fmt.Errorf("policy %v: %w", i, err)
		}
		e.Value = values[i]
	}
	return NewBatch(examples), nil
}

// AugmentBatch is Augment over the column layout.
func AugmentBatch(b Batch, enabled bool) (Batch, error) {
	if err := b.Validate(); err != nil {
		return Batch{}, err
	}
	return NewBatch(Augment(b.Examples(), enabled)), nil
}
