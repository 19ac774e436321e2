package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/goban-backend/internal/entity"
)

type gameManager interface {
	CreateGame(ctx context.Context, size int) (string, string, error)
	PlaceStone(ctx context.Context, candidateBoard string, x, y int, stone entity.Stone) (string, error)
	JoinGame(ctx context.Context, gameID string, size int) (string, error)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

// Handler - the full request surface, also mounted directly by tests.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /games", that.handleCreateGame)
	mux.HandleFunc("PUT /games", that.handlePlaceStone)
	mux.HandleFunc("PUT /players", that.handleJoin)
	mux.HandleFunc("GET /ping", that.handlePing)

	return mux
}

// Start - serves the API until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
