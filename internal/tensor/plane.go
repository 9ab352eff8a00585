package tensor

import (
	"fmt"

	"github.com/e8yes/gomokubatch/internal/domain"
)

const (
	Size  = domain.BoardSize
	Cells = domain.BoardCells
)

// Plane is an 11x11 matrix stored column-major: Data[x+Size*y] is (x, y).
type Plane struct {
	Data [Cells]float32
}

func index(x, y int) int {
	return x + Size*y
}

func (p *Plane) Get(x, y int) float32 {
	return p.Data[index(x, y)]
}

func (p *Plane) Set(x, y int, v float32) {
	p.Data[index(x, y)] = v
}

func (p *Plane) Fill(v float32) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

func Uniform(v float32) Plane {
	var p Plane
	p.Fill(v)
	return p
}

// Negated returns a copy with every cell negated.
func (p *Plane) Negated() Plane {
	var result Plane
	for i, v := range p.Data {
		result.Data[i] = -v
	}
	return result
}

// IsUniform reports whether all cells hold v.
func (p *Plane) IsUniform(v float32) bool {
	for _, x := range p.Data {
		if x != v {
			return false
		}
	}
	return true
}

func (p *Plane) Slice() []float32 {
	var result = make([]float32, Cells)
	copy(result, p.Data[:])
	return result
}

func PlaneFromSlice(data []float32) (Plane, error) {
	var p Plane
	if len(data) != Cells {
		return p, fmt.Errorf("got %v values: %w", len(data), domain.ErrShape)
	}
	copy(p.Data[:], data)
	return p, nil
}

// String renders the plane with x across and y down.
func (p *Plane) String() string {
	var buf = make([]byte, 0, Cells*3)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			var c byte
			switch v := p.Get(x, y); {
			case v > 0:
				c = 'x'
			case v < 0:
				c = 'o'
			default:
				c = '.'
			}
			buf = append(buf, c, ' ')
		}
		buf[len(buf)-1] = '\n'
	}
	return string(buf)
}
