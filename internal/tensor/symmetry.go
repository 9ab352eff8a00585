package tensor

import "fmt"

// Symmetry is an element of the dihedral group of the square: reflect
// (x -> 10-x) when Flip is set, then rotate by 90 degrees Rotations times,
// where one rotation maps (x, y) to (10-y, x).
type Symmetry struct {
	Flip      bool
	Rotations int
}

var (
	Identity = Symmetry{}
	Rotate90 = Symmetry{Rotations: 1}
	Reflect  = Symmetry{Flip: true}
)

// Symmetries in augmentation order: I, R, R2, R3, F, FR, FR2, FR3.
var Symmetries = [8]Symmetry{
	{false, 0}, {false, 1}, {false, 2}, {false, 3},
	{true, 0}, {true, 1}, {true, 2}, {true, 3},
}

func (s Symmetry) normalize() Symmetry {
	return Symmetry{Flip: s.Flip, Rotations: ((s.Rotations % 4) + 4) % 4}
}

// Index is the position of s in Symmetries.
func (s Symmetry) Index() int {
	s = s.normalize()
	if s.Flip {
		return 4 + s.Rotations
	}
	return s.Rotations
}

func (s Symmetry) Map(x, y int) (int, int) {
	s = s.normalize()
	if s.Flip {
		x = Size - 1 - x
	}
	for i := 0; i < s.Rotations; i++ {
		x, y = Size-1-y, x
	}
	return x, y
}

// Then returns the symmetry equal to applying s first and next second.
// A reflection conjugates rotations: F R^k = R^-k F.
func (s Symmetry) Then(next Symmetry) Symmetry {
	s = s.normalize()
	next = next.normalize()
	var rot = s.Rotations
	if next.Flip {
		rot = -rot
	}
	return Symmetry{
		Flip:      s.Flip != next.Flip,
		Rotations: next.Rotations + rot,
	}.normalize()
}

func (s Symmetry) Inverse() Symmetry {
	s = s.normalize()
	if s.Flip {
		return s
	}
	return Symmetry{Rotations: 4 - s.Rotations}.normalize()
}

// ApplyPlane returns a transformed copy of p.
func (s Symmetry) ApplyPlane(p Plane) Plane {
	var result Plane
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			var nx, ny = s.Map(x, y)
			result.Data[index(nx, ny)] = p.Data[index(x, y)]
		}
	}
	return result
}

func (s Symmetry) String() string {
	s = s.normalize()
	var name string
	if s.Flip {
		name = "F"
	}
	switch s.Rotations {
	case 0:
		if !s.Flip {
			name = "I"
		}
	case 1:
		name += "R"
	default:
		name += fmt.Sprintf("R%d", s.Rotations)
	}
	return name
}
