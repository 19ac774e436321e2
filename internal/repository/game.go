package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
)

// GameRepository mirrors the latest encoded board of every session. The
// mirror is write-behind and best effort: authoritative state lives in the
// in-process registry, and the mirror is never read back to serve gameplay.
type GameRepository interface {
	SaveSnapshot(ctx context.Context, gameID, encoded string) error
	GetSnapshot(ctx context.Context, gameID string) (string, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) SaveSnapshot(ctx context.Context, gameID, encoded string) error {
	gameKey := "game:" + gameID

	if err := that.client.Set(ctx, gameKey, encoded, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game snapshot: %w", err)
	}

	return nil
}

func (that *dbGame) GetSnapshot(ctx context.Context, gameID string) (string, error) {
	gameKey := "game:" + gameID

	encoded, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	if err != nil {
		return "", fmt.Errorf("failed to get game snapshot: %w", err)
	}

	return encoded, nil
}
