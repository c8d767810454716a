// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/dailycard/internal/middleware"
	"github.com/tomtom215/dailycard/internal/ratelimit"
)

// RouterConfig holds the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	CORSOrigins []string

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// Limiter is nil when rate limiting is disabled.
	Limiter *ratelimit.Limiter
}

type Router struct {
	handler *Handler
	config  RouterConfig
}

func NewRouter(handler *Handler, config RouterConfig) *Router {
	return &Router{handler: handler, config: config}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if router.config.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(router.config.CORSOrigins))
	r.Use(middleware.PrometheusMetrics)
	if router.config.Limiter != nil {
		r.Use(ratelimit.Middleware(
			router.config.Limiter,
			ratelimit.ClientKey(router.config.TrustProxy),
			router.handler.RateLimited,
		))
	}

	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(router.handler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders)
		r.Get("/content", router.handler.Content)
		r.With(middleware.Compression).Get("/image", router.handler.Image)
		r.Get("/health", router.handler.Health)
		if router.handler.HasPickStream() {
			r.Get("/picks/ws", router.handler.PickStream)
		}
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
