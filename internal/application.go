package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/goban-backend/internal/config"
	"github.com/rocketscienceinc/goban-backend/internal/pubsub"
	"github.com/rocketscienceinc/goban-backend/internal/repository"
	"github.com/rocketscienceinc/goban-backend/internal/repository/storage"
	"github.com/rocketscienceinc/goban-backend/internal/session"
	"github.com/rocketscienceinc/goban-backend/internal/usecase"
	"github.com/rocketscienceinc/goban-backend/transport/events"
	"github.com/rocketscienceinc/goban-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	registry := session.NewRegistry()
	broker := pubsub.NewBroker(logger)
	gameManager := usecase.NewGameManager(logger, registry, broker, gameRepo)

	// run HTTP API server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameManager)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run event stream server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting events server", "port", conf.SocketPort)
		eventsServer := events.New(logger, registry, broker)
		if wsErr := eventsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("events server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("events server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
