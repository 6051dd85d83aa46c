package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chat-relay/internal/config"
	"chat-relay/internal/history"
	"chat-relay/internal/relay"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	store, closeStore := buildStore(cfg, logger)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub(store, logger)
	go hub.Run(ctx)

	handler := relay.NewHandler(hub, logger, cfg.AllowedOrigins, cfg.MaxMessageSize)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/ws", handler.ServeWs)
	r.Get("/health", handler.Health)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("chat relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

// buildStore picks the history backend from configuration. Without one the
// relay keeps no log and every history request answers empty, which is the
// reference behavior.
func buildStore(cfg config.Config, logger zerolog.Logger) (history.Store, func()) {
	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("could not connect to Redis")
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("message history backed by Redis")
		return history.NewRedisStore(client, cfg.HistoryLimit), func() { client.Close() }

	case cfg.PostgresDSN != "":
		store, err := history.NewPostgresStore(cfg.PostgresDSN, cfg.HistoryLimit)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not connect to Postgres")
		}
		logger.Info().Msg("message history backed by Postgres")
		return store, func() { store.Close() }

	default:
		logger.Info().Msg("no history backend configured; previous-messages will be empty")
		return history.Empty{}, func() {}
	}
}
