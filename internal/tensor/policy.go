package tensor

import (
	"fmt"

	"github.com/e8yes/gomokubatch/internal/domain"
)

// Policy holds 121 spatial logits followed by the 5 decision logits.
type Policy [domain.PolicySize]float32

type Aux [domain.AuxLogits]float32

func PolicyFromSlice(data []float32) (Policy, error) {
	var p Policy
	if len(data) != domain.PolicySize {
		return p, fmt.Errorf("got %v values: %w", len(data), domain.ErrPolicyLength)
	}
	copy(p[:], data)
	return p, nil
}

// ToGrid reshapes the spatial logits column-major, the same layout the board
// decoder uses: logit x+11*y lands on (x, y).
func ToGrid(p Policy) (Plane, Aux) {
	var grid Plane
	var aux Aux
	copy(grid.Data[:], p[:Cells])
	copy(aux[:], p[Cells:])
	return grid, aux
}

// FromGrid is the inverse of ToGrid.
func FromGrid(grid Plane, aux Aux) Policy {
	var p Policy
	copy(p[:Cells], grid.Data[:])
	copy(p[Cells:], aux[:])
	return p
}

// ArgMax returns the index of the largest logit, first one on ties.
func (p *Policy) ArgMax() int {
	var best = 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

func (p *Policy) Slice() []float32 {
	var result = make([]float32, len(p))
	copy(result, p[:])
	return result
}
