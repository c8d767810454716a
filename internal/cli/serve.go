// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port int
}

// NewServeCommand runs the content proxy.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the content proxy",
		Long: `Run the HTTP content proxy until SIGINT or SIGTERM.

Examples:
  dailycard serve
  dailycard serve --port 9000
  HISTORY_BACKEND=sqlite HISTORY_PATH=./history.db dailycard serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Port, "port", 0, "listen port (overrides HTTP_PORT)")
	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := opts.Config
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}

	app, err := server.New(cfg, opts.Version)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing resources")
		}
	}()

	if err := app.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server stopped", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}
