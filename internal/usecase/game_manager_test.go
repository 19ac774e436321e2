package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
	"github.com/rocketscienceinc/goban-backend/internal/entity"
	"github.com/rocketscienceinc/goban-backend/internal/pubsub"
	"github.com/rocketscienceinc/goban-backend/internal/session"
)

type fakeGameRepo struct {
	mu        sync.Mutex
	snapshots map[string]string
	failWith  error
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{snapshots: make(map[string]string)}
}

func (that *fakeGameRepo) SaveSnapshot(_ context.Context, gameID, encoded string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.failWith != nil {
		return that.failWith
	}

	that.snapshots[gameID] = encoded
	return nil
}

func (that *fakeGameRepo) snapshot(gameID string) string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshots[gameID]
}

func newManager(t *testing.T) (*GameManager, *session.Registry, *pubsub.Broker, *fakeGameRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := session.NewRegistry()
	broker := pubsub.NewBroker(logger)
	repo := newFakeGameRepo()

	return NewGameManager(logger, registry, broker, repo), registry, broker, repo
}

func receiveEvent(t *testing.T, sub *pubsub.Subscriber) pubsub.Event {
	t.Helper()

	select {
	case event := <-sub.C():
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return pubsub.Event{}
	}
}

func requireNoEvent(t *testing.T, sub *pubsub.Subscriber) {
	t.Helper()

	select {
	case event := <-sub.C():
		t.Fatalf("unexpected event: %+v", event)
	default:
	}
}

func TestGameManager_CreateGame(t *testing.T) {
	// Given: a manager with no sessions
	manager, _, _, repo := newManager(t)

	// When: a nine line game is created
	gameID, board, err := manager.CreateGame(context.Background(), 9)
	require.NoError(t, err)

	// Then: the encoding is the empty board with black to move
	require.Equal(t, gameID+";9;"+strings.Repeat(".", 81)+";b", board)

	// Then: the snapshot mirror holds the same encoding
	require.Equal(t, board, repo.snapshot(gameID))
}

func TestGameManager_CreateGame_UnsupportedSize(t *testing.T) {
	manager, _, _, _ := newManager(t)

	_, _, err := manager.CreateGame(context.Background(), 10)
	require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
}

func TestGameManager_PlaceStone(t *testing.T) {
	t.Run("move is applied and broadcast", func(t *testing.T) {
		// Given: a created game with one subscriber
		manager, _, broker, repo := newManager(t)
		gameID, board, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)

		sub := broker.Subscribe(gameID)

		// When: black plays (0,0) submitting the current board
		newBoard, err := manager.PlaceStone(context.Background(), board, 0, 0, entity.StoneBlack)
		require.NoError(t, err)

		// Then: the server recomputed the expected encoding
		require.Equal(t, gameID+";9;b"+strings.Repeat(".", 80)+";w", newBoard)

		// Then: exactly one update event reached the subscriber
		event := receiveEvent(t, sub)
		require.Equal(t, pubsub.KindUpdate, event.Kind)
		require.Equal(t, newBoard, event.Board)
		requireNoEvent(t, sub)

		// Then: the mirror was refreshed
		require.Equal(t, newBoard, repo.snapshot(gameID))
	})

	t.Run("stale candidate board is not adopted", func(t *testing.T) {
		// Given: a game where black already played (0,0)
		manager, _, _, _ := newManager(t)
		gameID, board, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)
		_, err = manager.PlaceStone(context.Background(), board, 0, 0, entity.StoneBlack)
		require.NoError(t, err)

		// When: white submits a forged empty board claiming it is white's turn
		forged := gameID + ";9;" + strings.Repeat(".", 81) + ";w"
		newBoard, err := manager.PlaceStone(context.Background(), forged, 1, 0, entity.StoneWhite)
		require.NoError(t, err)

		// Then: the server state still contains black's stone
		require.Equal(t, gameID+";9;bw"+strings.Repeat(".", 79)+";b", newBoard)
	})

	t.Run("rejected move emits no event", func(t *testing.T) {
		// Given: a created game with one subscriber
		manager, _, broker, _ := newManager(t)
		gameID, board, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)

		sub := broker.Subscribe(gameID)

		// When: white tries to move out of turn
		_, err = manager.PlaceStone(context.Background(), board, 0, 0, entity.StoneWhite)

		// Then: the move is rejected and nothing is broadcast
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		requireNoEvent(t, sub)
	})

	t.Run("malformed candidate board", func(t *testing.T) {
		manager, _, _, _ := newManager(t)

		_, err := manager.PlaceStone(context.Background(), "not a board", 0, 0, entity.StoneBlack)
		require.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})

	t.Run("unknown game id", func(t *testing.T) {
		manager, _, _, _ := newManager(t)

		board := "missing;9;" + strings.Repeat(".", 81) + ";b"
		_, err := manager.PlaceStone(context.Background(), board, 0, 0, entity.StoneBlack)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("mirror failure does not fail the move", func(t *testing.T) {
		// Given: a game whose snapshot mirror is broken
		manager, _, _, repo := newManager(t)
		_, board, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)

		repo.failWith = errors.New("redis is down")

		// When: black plays
		_, err = manager.PlaceStone(context.Background(), board, 0, 0, entity.StoneBlack)

		// Then: the move still succeeds
		require.NoError(t, err)
	})
}

func TestGameManager_JoinGame(t *testing.T) {
	t.Run("second participant joins a waiting game", func(t *testing.T) {
		// Given: a waiting game with the creator subscribed
		manager, registry, broker, _ := newManager(t)
		gameID, _, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)

		creator := broker.Subscribe(gameID)

		// When: an opponent joins
		board, err := manager.JoinGame(context.Background(), gameID, 9)
		require.NoError(t, err)
		require.Equal(t, gameID+";9;"+strings.Repeat(".", 81)+";b", board)

		// Then: the session is ongoing
		sess, err := registry.Get(gameID)
		require.NoError(t, err)
		require.Equal(t, entity.StatusOngoing, sess.Status())

		// Then: exactly one join event reached the waiting viewer
		event := receiveEvent(t, creator)
		require.Equal(t, pubsub.KindJoin, event.Kind)
		requireNoEvent(t, creator)
	})

	t.Run("third participant is rejected", func(t *testing.T) {
		// Given: a game that is already ongoing
		manager, _, _, _ := newManager(t)
		gameID, _, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)
		_, err = manager.JoinGame(context.Background(), gameID, 9)
		require.NoError(t, err)

		// When: someone else tries to join
		_, err = manager.JoinGame(context.Background(), gameID, 9)

		// Then: the join is rejected
		require.ErrorIs(t, err, apperror.ErrSessionFull)
	})

	t.Run("unknown game id", func(t *testing.T) {
		manager, _, _, _ := newManager(t)

		_, err := manager.JoinGame(context.Background(), "missing", 9)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("size mismatch", func(t *testing.T) {
		// Given: a nine line game
		manager, _, _, _ := newManager(t)
		gameID, _, err := manager.CreateGame(context.Background(), 9)
		require.NoError(t, err)

		// When: the join request names a different size
		_, err = manager.JoinGame(context.Background(), gameID, 13)

		// Then: the join is rejected
		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})
}
