// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package server assembles the content proxy from configuration and runs it
// under the supervisor tree.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tomtom215/dailycard/internal/api"
	"github.com/tomtom215/dailycard/internal/config"
	"github.com/tomtom215/dailycard/internal/events"
	"github.com/tomtom215/dailycard/internal/imagerelay"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/provider"
	"github.com/tomtom215/dailycard/internal/proxy"
	"github.com/tomtom215/dailycard/internal/ratelimit"
	"github.com/tomtom215/dailycard/internal/supervisor"
	"github.com/tomtom215/dailycard/internal/supervisor/services"
	ws "github.com/tomtom215/dailycard/internal/websocket"
)

const (
	shutdownTimeout = 10 * time.Second
	idleTimeout     = 60 * time.Second
	janitorInterval = time.Minute
)

// App is a fully wired content proxy.
type App struct {
	cfg      *config.Config
	local    *Local
	content  *proxy.Service
	limiter  *ratelimit.Limiter
	bus      *events.Bus
	recorder *events.Recorder
	hub      *ws.Hub
	feed     *ws.Forwarder
	handler  http.Handler
}

// New wires every component named by cfg. The returned App owns the history
// store and the event bus; call Close when done.
func New(cfg *config.Config, version string) (*App, error) {
	local, err := OpenLocal(cfg)
	if err != nil {
		return nil, err
	}

	var quotes proxy.QuoteSource
	if cfg.Providers.ExternalEnabled {
		quotes = provider.NewChain(provider.Config{
			HitokotoURL: cfg.Providers.HitokotoURL,
			QuotableURL: cfg.Providers.QuotableURL,
			Feeds:       cfg.Providers.Feeds,
			Timeout:     cfg.Providers.TextTimeout,
			MinInterval: cfg.Providers.MinInterval,
		})
	}

	content := proxy.New(proxy.Config{
		Locale:          cfg.Content.Locale,
		ExternalEnabled: cfg.Providers.ExternalEnabled,
		CacheTTL:        cfg.Content.ResponseCacheTTL,
	}, local.Engine, quotes)

	images := imagerelay.New(imagerelay.Config{
		PicsumURL:    cfg.Image.PicsumURL,
		UnsplashURL:  cfg.Image.UnsplashURL,
		Timeout:      cfg.Image.Timeout,
		MaxRedirects: cfg.Image.MaxRedirects,
	})

	app := &App{cfg: cfg, local: local, content: content}

	opts := []api.HandlerOption{api.WithVersion(version)}
	if cfg.Events.Enabled {
		app.bus = events.NewBus(logging.NewSlogLogger())
		app.recorder = events.NewRecorder(app.bus)
		content.WithPublisher(app.bus)
		app.hub = ws.NewHub()
		app.feed = ws.NewForwarder(app.bus, app.hub)
		opts = append(opts,
			api.WithPickStats(app.recorder),
			api.WithPickStream(app.hub, cfg.Security.CORSOrigins),
		)
	}

	if !cfg.Security.RateLimitDisabled {
		app.limiter = ratelimit.New(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	} else {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(content, images, local.Catalog, opts...)
	app.handler = api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: cfg.Security.CORSOrigins,
		TrustProxy:  cfg.Security.TrustProxy,
		Limiter:     app.limiter,
	}).SetupChi()

	return app, nil
}

// Handler returns the HTTP route tree.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Tree builds the supervisor tree for this app.
func (a *App) Tree(logger *slog.Logger) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	tree.AddMaintenanceService(services.NewJanitorService(janitorInterval, a.cleanupTasks()...))
	if a.recorder != nil {
		tree.AddEventService(a.recorder)
		tree.AddEventService(a.hub)
		tree.AddEventService(a.feed)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: a.cfg.Server.Timeout,
		ReadTimeout:       a.cfg.Server.Timeout,
		WriteTimeout:      a.cfg.Server.Timeout,
		IdleTimeout:       idleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, shutdownTimeout))
	return tree, nil
}

func (a *App) cleanupTasks() []services.CleanupTask {
	tasks := []services.CleanupTask{
		{Name: "response-cache", Run: a.content.CleanupCache},
	}
	if a.limiter != nil {
		tasks = append(tasks, services.CleanupTask{Name: "rate-limit", Run: a.limiter.Cleanup})
	}
	return tasks
}

// Run serves until ctx is canceled, then reports services that failed to
// stop in time.
func (a *App) Run(ctx context.Context) error {
	tree, err := a.Tree(logging.NewSlogLogger())
	if err != nil {
		return err
	}

	logging.Info().
		Str("addr", a.cfg.Server.Addr()).
		Str("history", a.cfg.History.Backend).
		Bool("external", a.cfg.Providers.ExternalEnabled).
		Bool("events", a.cfg.Events.Enabled).
		Msg("Starting supervisor tree")

	err = tree.Serve(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the event bus and the history store.
func (a *App) Close() error {
	var errs []error
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.local.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
