package dataset

import (
	"fmt"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/tensor"
)

// Example is one training instance in its store-independent form.
type Example struct {
	Board     tensor.Plane
	Phases    [domain.NumPhases]tensor.Plane
	StoneType tensor.Plane
	Policy    tensor.Policy
	Value     float32
}

// Phase returns the phase whose indicator plane is set, or -1 when no plane
// or more than one plane is set.
func (e *Example) Phase() domain.GamePhase {
	var result domain.GamePhase = -1
	for i := range e.Phases {
		if e.Phases[i].IsUniform(1) {
			if result >= 0 {
				return -1
			}
			result = domain.GamePhase(i)
		} else if !e.Phases[i].IsUniform(0) {
			return -1
		}
	}
	return result
}

func stoneTypeValue(s domain.StoneType) (float32, error) {
	switch s {
	case domain.StoneNone:
		return 0, nil
	case domain.StoneBlack:
		return -1, nil
	case domain.StoneWhite:
		return 1, nil
	}
	return 0, fmt.Errorf("unknown stone type %v", int32(s))
}

// Assemble builds the canonical example for one recorded row. Nothing is
// returned on error, a row is either fully converted or rejected.
func Assemble(row domain.RawRow) (Example, error) {
	board, err := DecodeBoard(row.SerializedBoard)
	if err != nil {
		return Example{}, err
	}
	stone, err := stoneTypeValue(row.StoneType)
	if err != nil {
		return Example{}, err
	}
	if !row.GamePhase.Valid() {
		return Example{}, fmt.Errorf("phase %v: %w", int32(row.GamePhase), domain.ErrUnknownPhase)
	}
	policy, err := tensor.PolicyFromSlice(row.Policy)
	if err != nil {
		return Example{}, err
	}

	var e = Example{
		Board:     board,
		StoneType: tensor.Uniform(stone),
		Policy:    policy,
		Value:     row.Value,
	}
	e.Phases[row.GamePhase].Fill(1)
	return e, nil
}
