package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
)

const boardSegments = 4 // id;size;cells;turn

// Encode - packs the observable game state into the ASCII safe wire form
// "<id>;<size>;<cells>;<turnChar>" with the cells in row-major order.
func Encode(game *Game) string {
	var out strings.Builder

	out.WriteString(game.ID)
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(game.Size))
	out.WriteByte(';')
	for _, cell := range game.Cells {
		out.WriteString(string(cell))
	}
	out.WriteByte(';')
	out.WriteString(string(game.Turn))

	return out.String()
}

// Decode - reads the wire form back into a game. It is the exact inverse of
// Encode for the id, size, cells and turn of any well-formed game. Connection
// flags and status do not travel on the wire.
func Decode(raw string) (*Game, error) {
	segments := strings.Split(strings.TrimSpace(raw), ";")
	if len(segments) != boardSegments {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", apperror.ErrMalformedBoard, boardSegments, len(segments))
	}

	size, err := strconv.Atoi(segments[1])
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: size %q", apperror.ErrMalformedBoard, segments[1])
	}

	if len(segments[2]) != size*size {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrMalformedBoard, size*size, len(segments[2]))
	}

	cells := make([]Stone, 0, size*size)
	for _, tile := range segments[2] {
		switch stone := Stone(tile); stone {
		case StoneEmpty, StoneBlack, StoneWhite:
			cells = append(cells, stone)
		default:
			return nil, fmt.Errorf("%w: cell %q", apperror.ErrMalformedBoard, string(tile))
		}
	}

	turn := Stone(segments[3])
	if turn != StoneBlack && turn != StoneWhite {
		return nil, fmt.Errorf("%w: turn %q", apperror.ErrMalformedBoard, segments[3])
	}

	return &Game{
		ID:    segments[0],
		Size:  size,
		Cells: cells,
		Turn:  turn,
	}, nil
}
