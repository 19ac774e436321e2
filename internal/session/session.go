package session

import (
	"sync"

	"github.com/rocketscienceinc/goban-backend/internal/entity"
)

// Session guards one game behind a lock so that near-simultaneous requests
// targeting the same game cannot lose updates. All mutations go through here.
type Session struct {
	mu   sync.Mutex
	game *entity.Game
}

func New(game *entity.Game) *Session {
	return &Session{game: game}
}

// PlaceStone - applies a move against the authoritative game state and
// returns the new encoding.
func (that *Session) PlaceStone(x, y int, stone entity.Stone) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.game.PlaceStone(x, y, stone); err != nil {
		return "", err
	}

	return entity.Encode(that.game), nil
}

// ConnectOpponent - assigns white to a second participant and returns the
// current encoding.
func (that *Session) ConnectOpponent() (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.game.ConnectOpponent(); err != nil {
		return "", err
	}

	return entity.Encode(that.game), nil
}

// Encoded - snapshots the current wire encoding.
func (that *Session) Encoded() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.Encode(that.game)
}

func (that *Session) ID() string {
	return that.game.ID
}

func (that *Session) Size() int {
	return that.game.Size
}

func (that *Session) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Status
}
