package dataset

import (
	"fmt"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/tensor"
)

// DecodeBoard maps the recorded byte board onto a plane: byte x+11*y becomes
// (x, y), 2 -> +1, 1 -> -1, 0 -> 0. The mapping does not depend on the side
// to move.
func DecodeBoard(serialized []byte) (tensor.Plane, error) {
	var board tensor.Plane
	if len(serialized) != domain.BoardCells {
		return tensor.Plane{}, fmt.Errorf("board has %v bytes: %w",
			len(serialized), domain.ErrMalformedBoard)
	}
	for i, b := range serialized {
		switch b {
		case 0:
		case 1:
			board.Data[i] = -1
		case 2:
			board.Data[i] = 1
		default:
			return tensor.Plane{}, fmt.Errorf("board byte %v is %v: %w",
				i, b, domain.ErrMalformedBoard)
		}
	}
	return board, nil
}

// EncodeBoard is the inverse of DecodeBoard.
func EncodeBoard(board tensor.Plane) ([]byte, error) {
	var result = make([]byte, domain.BoardCells)
	for i, v := range board.Data {
		switch v {
		case 0:
		case -1:
			result[i] = 1
		case 1:
			result[i] = 2
		default:
			return nil, fmt.Errorf("cell %v is %v: %w", i, v, domain.ErrMalformedBoard)
		}
	}
	return result, nil
}
