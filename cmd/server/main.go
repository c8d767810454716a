// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/dailycard/docs" // swagger spec for /swagger/*
	"github.com/tomtom215/dailycard/internal/config"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggerConfig())

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("history_backend", cfg.History.Backend).
		Strs("cors_origins", cfg.Security.CORSOrigins).
		Msg("Configuration loaded")

	if cfg.Content.CatalogDir == "" {
		logging.Info().Msg("Using embedded preset catalog")
	}
	if cfg.History.Backend == "memory" {
		logging.Warn().Msg("History backend is memory; picks are forgotten on restart")
	}

	app, err := server.New(cfg, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	runErr := app.Run(ctx)
	stop()

	if err := app.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing resources")
	}
	if runErr != nil {
		logging.Error().Err(runErr).Msg("Supervisor tree error")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}
