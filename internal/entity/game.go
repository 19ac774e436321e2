package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusOngoing = "ongoing"
)

// Stone is the content of a single board cell.
type Stone string

const (
	StoneEmpty Stone = "."
	StoneBlack Stone = "b"
	StoneWhite Stone = "w"
)

// boardSizes - the supported board edge lengths.
var boardSizes = map[int]struct{}{
	9:  {},
	13: {},
	17: {},
	19: {},
}

func (s Stone) Other() Stone {
	if s == StoneBlack {
		return StoneWhite
	}

	return StoneBlack
}

// MarshalJSON - stones travel as "Black"/"White" in request and response bodies.
func (s Stone) MarshalJSON() ([]byte, error) {
	switch s {
	case StoneBlack:
		return json.Marshal("Black")
	case StoneWhite:
		return json.Marshal("White")
	default:
		return nil, fmt.Errorf("stone %q has no wire name", string(s))
	}
}

func (s *Stone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("failed to unmarshal stone: %w", err)
	}

	switch name {
	case "Black":
		*s = StoneBlack
	case "White":
		*s = StoneWhite
	default:
		return fmt.Errorf("unknown stone %q", name)
	}

	return nil
}

type Game struct {
	ID             string
	Size           int
	Cells          []Stone
	Turn           Stone
	BlackConnected bool
	WhiteConnected bool
	Status         string
}

// NewGame - creates a waiting game with an empty board. The creator always
// holds black, so black counts as connected from the start.
func NewGame(id string, size int) (*Game, error) {
	if _, ok := boardSizes[size]; !ok {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, size)
	}

	cells := make([]Stone, size*size)
	for i := range cells {
		cells[i] = StoneEmpty
	}

	return &Game{
		ID:             id,
		Size:           size,
		Cells:          cells,
		Turn:           StoneBlack,
		BlackConnected: true,
		Status:         StatusWaiting,
	}, nil
}

// PlaceStone - puts a stone on an empty cell and passes the turn.
// The game state is untouched when any check fails.
func (that *Game) PlaceStone(x, y int, stone Stone) error {
	if stone != that.Turn {
		return apperror.ErrNotYourTurn
	}

	if x < 0 || x >= that.Size || y < 0 || y >= that.Size {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, x, y)
	}

	cell := y*that.Size + x
	if that.Cells[cell] != StoneEmpty {
		return apperror.ErrCellOccupied
	}

	that.Cells[cell] = stone
	that.Turn = that.Turn.Other()

	return nil
}

// ConnectOpponent - assigns the white slot to a second participant.
func (that *Game) ConnectOpponent() error {
	if that.WhiteConnected {
		return fmt.Errorf("%w: game %s", apperror.ErrSessionFull, that.ID)
	}

	that.WhiteConnected = true
	that.Status = StatusOngoing

	return nil
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}
