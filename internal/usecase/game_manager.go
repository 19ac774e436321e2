package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
	"github.com/rocketscienceinc/goban-backend/internal/entity"
	"github.com/rocketscienceinc/goban-backend/internal/pubsub"
	"github.com/rocketscienceinc/goban-backend/internal/session"
)

type sessionRegistry interface {
	Create(size int) (*session.Session, error)
	Get(id string) (*session.Session, error)
}

type eventBroker interface {
	Publish(gameID string, event pubsub.Event)
}

type gameRepo interface {
	SaveSnapshot(ctx context.Context, gameID, encoded string) error
}

// GameManager orchestrates session mutations: it resolves the session,
// applies the change under the session lock, fans the result out to
// subscribers and mirrors the new encoding to storage.
type GameManager struct {
	logger   *slog.Logger
	registry sessionRegistry
	broker   eventBroker
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, registry sessionRegistry, broker eventBroker, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		registry: registry,
		broker:   broker,
		gameRepo: gameRepo,
	}
}

// CreateGame - allocates a waiting game of the requested size and returns its
// id and initial encoding.
func (that *GameManager) CreateGame(ctx context.Context, size int) (string, string, error) {
	sess, err := that.registry.Create(size)
	if err != nil {
		return "", "", fmt.Errorf("failed to create session: %w", err)
	}

	encoded := sess.Encoded()
	that.mirrorSnapshot(ctx, sess.ID(), encoded)

	that.logger.Info("game created", "gameID", sess.ID(), "size", size)

	return sess.ID(), encoded, nil
}

// PlaceStone - applies a move to the session named inside the candidate
// board. The candidate is decoded only to extract the game id: the move is
// recomputed against the server-held state, so a stale or forged client board
// can never be adopted.
func (that *GameManager) PlaceStone(ctx context.Context, candidateBoard string, x, y int, stone entity.Stone) (string, error) {
	candidate, err := entity.Decode(candidateBoard)
	if err != nil {
		return "", fmt.Errorf("failed to decode candidate board: %w", err)
	}

	sess, err := that.registry.Get(candidate.ID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	encoded, err := sess.PlaceStone(x, y, stone)
	if err != nil {
		return "", fmt.Errorf("failed to place stone: %w", err)
	}

	that.broker.Publish(sess.ID(), pubsub.NewUpdateEvent(encoded))
	that.mirrorSnapshot(ctx, sess.ID(), encoded)

	that.logger.Debug("stone placed", "gameID", sess.ID(), "x", x, "y", y, "stone", string(stone))

	return encoded, nil
}

// JoinGame - pairs a second participant to a waiting session and signals the
// waiting viewer with a Join event.
func (that *GameManager) JoinGame(ctx context.Context, gameID string, size int) (string, error) {
	sess, err := that.registry.Get(gameID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	if size != sess.Size() {
		return "", fmt.Errorf("%w: join requested size %d, session has %d", apperror.ErrInvalidBoardSize, size, sess.Size())
	}

	encoded, err := sess.ConnectOpponent()
	if err != nil {
		return "", fmt.Errorf("failed to connect opponent: %w", err)
	}

	that.broker.Publish(sess.ID(), pubsub.NewJoinEvent())
	that.mirrorSnapshot(ctx, sess.ID(), encoded)

	that.logger.Info("opponent joined", "gameID", sess.ID())

	return encoded, nil
}

// mirrorSnapshot - write-behind copy of the latest encoding. Failures are
// logged and never fail the request: the registry stays authoritative.
func (that *GameManager) mirrorSnapshot(ctx context.Context, gameID, encoded string) {
	if err := that.gameRepo.SaveSnapshot(ctx, gameID, encoded); err != nil {
		that.logger.Error("failed to mirror game snapshot", "gameID", gameID, "error", err)
	}
}
