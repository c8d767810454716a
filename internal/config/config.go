// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package config loads the service and CLI configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (CONFIG_PATH, then config.yaml)
//  3. Environment Variables: explicit mapping table, highest priority
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/dailycard/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Content   ContentConfig   `koanf:"content"`
	History   HistoryConfig   `koanf:"history"`
	Providers ProvidersConfig `koanf:"providers"`
	Image     ImageConfig     `koanf:"image"`
	Events    EventsConfig    `koanf:"events"`
	Client    ClientConfig    `koanf:"client"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Only enable
	// behind a reverse proxy that sets them.
	TrustProxy bool `koanf:"trust_proxy"`
}

// ContentConfig selects the catalog and response cache behavior.
type ContentConfig struct {
	// CatalogDir holds <theme>.json|yaml files; empty uses the embedded presets.
	CatalogDir string `koanf:"catalog_dir"`

	// DefaultTheme is used by the CLI when no theme is given.
	DefaultTheme string `koanf:"default_theme"`

	// Locale is stamped on items synthesized from external quotes.
	Locale string `koanf:"locale"`

	// ResponseCacheTTL bounds proxy response cache entries; 0 keeps them
	// until restart.
	ResponseCacheTTL time.Duration `koanf:"response_cache_ttl"`
}

// HistoryConfig selects the used-id / daily-pick store.
type HistoryConfig struct {
	Backend string `koanf:"backend"` // badger, sqlite, memory
	Path    string `koanf:"path"`
}

// ProvidersConfig configures the external quote chain.
type ProvidersConfig struct {
	ExternalEnabled bool          `koanf:"external_enabled"`
	TextTimeout     time.Duration `koanf:"text_timeout"`
	HitokotoURL     string        `koanf:"hitokoto_url"`
	QuotableURL     string        `koanf:"quotable_url"`

	// Feeds maps a theme to RSS/Atom feed URLs tried after the quote APIs.
	Feeds map[string][]string `koanf:"feeds"`

	// MinInterval spaces outbound requests to each provider.
	MinInterval time.Duration `koanf:"min_interval"`
}

// ImageConfig configures the image relay.
type ImageConfig struct {
	Timeout      time.Duration `koanf:"timeout"`
	MaxRedirects int           `koanf:"max_redirects"`
	PicsumURL    string        `koanf:"picsum_url"`
	UnsplashURL  string        `koanf:"unsplash_url"`
}

// EventsConfig toggles in-process pick events.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// ClientConfig configures the CLI orchestrator.
type ClientConfig struct {
	// ProxyURL is the content proxy base URL; empty means local only.
	ProxyURL string        `koanf:"proxy_url"`
	Timeout  time.Duration `koanf:"timeout"`

	// External asks the proxy to try external quote providers first.
	External bool `koanf:"external"`

	// Images fetches an illustration through the proxy.
	Images bool `koanf:"images"`

	// HistoryPath replaces history.path for the CLI's device-local store;
	// empty shares history.path.
	HistoryPath string `koanf:"history_path"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}

// LoggerConfig converts to the logging package configuration.
func (l LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		Caller:    l.Caller,
		Timestamp: true,
	}
}
