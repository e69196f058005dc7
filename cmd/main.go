package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/repositories"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("FLIX_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	configPath := "config.toml"
	if v := os.Getenv("FLIX_CONFIG"); v != "" {
		configPath = v
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	if err := config.ApplyEnv(".env"); err != nil {
		logger.Warn("failed to apply environment", "error", err)
	}

	backend := config.Storage.Backend
	kv, err := repositories.Open(config.Storage, logger)
	if err != nil {
		logger.Warn("storage unavailable, changes will not persist", "backend", backend, "error", err)
		kv, backend = repositories.NewMemoryStore(), repositories.BackendMemory
	}

	bus := events.NewBus()
	store := storage.New(kv, storage.Options{
		Bus:          bus,
		Logger:       logger,
		HistoryLimit: config.Storage.HistoryLimit,
	})

	tmdb := services.NewTMDBService(config.Credentials.TMDB,
		services.WithLogger(logger),
		services.WithLanguage(func() string {
			return store.Preferences().String("language", config.Credentials.TMDB.Language)
		}),
	)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    tmdb,
		Store:      store,
		Backend:    backend,
		Bus:        bus,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "flix",
		Usage:    "Browse movies and TV shows from TMDB in your terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if cerr := kv.Close(); cerr != nil {
		logger.Warn("failed to close storage", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else if services.IsMissingCredentials(err) {
			logger.Fatal("TMDB API key required", "hint", "run 'flix setup config' or set TMDB_API_KEY")
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
