package session

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
	"github.com/rocketscienceinc/goban-backend/internal/entity"
	"github.com/rocketscienceinc/goban-backend/internal/pkg"
)

// Registry is the process-wide map of game ids to their sessions. Sessions
// are never evicted: the protocol defines no terminal game state, so the map
// grows for the life of the process. That is a stated limitation, not an
// accident.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create - allocates a new waiting game under a fresh id and stores its
// session. Ids are uuids and never reused.
func (that *Registry) Create(size int) (*Session, error) {
	game, err := entity.NewGame(pkg.GenerateGameID(), size)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	sess := New(game)

	that.mu.Lock()
	that.sessions[game.ID] = sess
	that.mu.Unlock()

	return sess, nil
}

// Get - resolves a game id to its session.
func (that *Registry) Get(id string) (*Session, error) {
	that.mu.RLock()
	sess, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return sess, nil
}
