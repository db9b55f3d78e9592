package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hoopstack/courtside/go/internal/gateway"
	"github.com/hoopstack/courtside/go/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := openStore(config.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open durable store")
	}

	services, err := setupServices(config, store, os.Getenv("CATALOG_API_KEY"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}
	if err := services.hydrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to hydrate persisted state")
	}

	handler := gateway.NewHandler(services.Catalog, services.Rosters, services.Players, services.Offers, services.Hub)
	server := gateway.NewServer(config.Server.Port, handler)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("gateway server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("gateway shutdown failed")
	}
	services.Hub.Close()
	if services.Stream != nil {
		if err := services.Stream.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event stream")
		}
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close durable store")
		}
	}
}

// openStore picks the storage backend: Badger at the configured path, or
// an in-process map when no path is set.
func openStore(path string) (storage.Store, error) {
	if path == "" {
		log.Warn().Msg("no storage path configured, state will not survive restarts")
		return storage.NewMemoryStore(), nil
	}
	return storage.OpenBadger(path)
}
