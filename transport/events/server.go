package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/goban-backend/internal/pubsub"
	"github.com/rocketscienceinc/goban-backend/internal/session"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

type sessionLookup interface {
	Get(id string) (*session.Session, error)
}

type eventBroker interface {
	Subscribe(gameID string) *pubsub.Subscriber
	Unsubscribe(sub *pubsub.Subscriber)
}

// Server pushes session events to browser viewers over an always-open
// websocket connection, one per viewer per game.
type Server struct {
	logger   *slog.Logger
	registry sessionLookup
	broker   eventBroker
}

func New(logger *slog.Logger, registry sessionLookup, broker eventBroker) *Server {
	return &Server{
		logger:   logger.With("component", "events"),
		registry: registry,
		broker:   broker,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", that.handleEvents)

	return mux
}

// Start - serves the event stream until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down events server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleEvents - upgrades the connection and relays events for one game
// until the viewer disconnects. A disconnect only removes this viewer's
// subscription; the game and other viewers are unaffected.
func (that *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleEvents")

	gameID := r.URL.Query().Get("id")
	if gameID == "" {
		http.Error(w, "game id is required", http.StatusBadRequest)
		return
	}

	if _, err := that.registry.Get(gameID); err != nil {
		http.Error(w, "no game with that id", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "gameID", gameID, "error", err)
		return
	}
	defer conn.Close()

	sub := that.broker.Subscribe(gameID)
	defer that.broker.Unsubscribe(sub)

	log.Info("viewer connected", "gameID", gameID)

	// viewers never send anything meaningful; the read loop only notices
	// the connection going away
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.C():
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				log.Debug("failed to write event, dropping viewer", "gameID", gameID, "error", err)
				return
			}
		case <-disconnected:
			log.Info("viewer disconnected", "gameID", gameID)
			return
		case <-r.Context().Done():
			return
		}
	}
}
