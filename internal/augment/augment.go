// Package augment expands training examples into the equivalent examples
// obtained from the 8 symmetries of the board and the two color polarities.
//
// An augmented batch of N inputs holds 16*N examples laid out as
//
//	index = polarity*8*N + symmetry*N + input
//
// so the example at position k of the first half (original colors) and the
// one at position k of the second half (inverted colors) are the same
// symmetry of the same input.
package augment

import (
	"github.com/e8yes/gomokubatch/internal/dataset"
	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/tensor"
)

const (
	NumSymmetries = len(tensor.Symmetries)
	NumPolarities = 2
	Factor        = NumSymmetries * NumPolarities
)

// Transform applies s to every spatial component of e. The decision logits,
// phase planes and value are carried over unchanged.
func Transform(e dataset.Example, s tensor.Symmetry) dataset.Example {
	var grid, aux = tensor.ToGrid(e.Policy)
	return dataset.Example{
		Board:     s.ApplyPlane(e.Board),
		Phases:    e.Phases,
		StoneType: s.ApplyPlane(e.StoneType),
		Policy:    tensor.FromGrid(s.ApplyPlane(grid), aux),
		Value:     e.Value,
	}
}

// InvertColor swaps own and opponent colors: the board and stone type planes
// are negated and each color-dependent pair of decision logits is swapped.
func InvertColor(e dataset.Example) dataset.Example {
	var result = dataset.Example{
		Board:     e.Board.Negated(),
		Phases:    e.Phases,
		StoneType: e.StoneType.Negated(),
		Policy:    e.Policy,
		Value:     e.Value,
	}
	var p = &result.Policy
	p[domain.Swap2ChooseWhite], p[domain.Swap2ChooseBlack] =
		p[domain.Swap2ChooseBlack], p[domain.Swap2ChooseWhite]
	p[domain.StoneChooseWhite], p[domain.StoneChooseBlack] =
		p[domain.StoneChooseBlack], p[domain.StoneChooseWhite]
	return result
}

// Variant describes how an augmented example was derived.
type Variant struct {
	Source   int
	Symmetry tensor.Symmetry
	Inverted bool
}

// VariantOf decodes an index of an augmented batch built from n inputs.
func VariantOf(index, n int) Variant {
	var half = NumSymmetries * n
	return Variant{
		Source:   index % n,
		Symmetry: tensor.Symmetries[(index%half)/n],
		Inverted: index >= half,
	}
}

func position(v Variant, n int) int {
	var index = v.Symmetry.Index()*n + v.Source
	if v.Inverted {
		index += NumSymmetries * n
	}
	return index
}

// expand writes the 16 variants of examples[i] into result.
func expand(examples []dataset.Example, i int, result []dataset.Example) {
	var n = len(examples)
	for _, s := range tensor.Symmetries {
		var t = Transform(examples[i], s)
		result[position(Variant{Source: i, Symmetry: s}, n)] = t
		result[position(Variant{Source: i, Symmetry: s, Inverted: true}, n)] = InvertColor(t)
	}
}

// Augment returns a copy of examples when enabled is false and the 16*N
// augmented batch otherwise. Inputs are never modified.
func Augment(examples []dataset.Example, enabled bool) []dataset.Example {
	if !enabled {
		var result = make([]dataset.Example, len(examples))
		copy(result, examples)
		return result
	}
	var result = make([]dataset.Example, Factor*len(examples))
	for i := range examples {
		expand(examples, i, result)
	}
	return result
}
