// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/history"
	"github.com/tomtom215/dailycard/internal/imagerelay"
	"github.com/tomtom215/dailycard/internal/provider"
	"github.com/tomtom215/dailycard/internal/ratelimit"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dailycard/config.yaml",
	"/etc/dailycard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8787,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:5173"},
			RateLimitReqs:     ratelimit.DefaultLimit,
			RateLimitWindow:   ratelimit.DefaultWindow,
			RateLimitDisabled: false,
			TrustProxy:        false,
		},
		Content: ContentConfig{
			CatalogDir:       "",
			DefaultTheme:     string(catalog.DefaultTheme),
			Locale:           "zh",
			ResponseCacheTTL: 0,
		},
		History: HistoryConfig{
			Backend: string(history.BackendBadger),
			Path:    "data/history",
		},
		Providers: ProvidersConfig{
			ExternalEnabled: true,
			TextTimeout:     provider.DefaultTimeout,
			HitokotoURL:     provider.DefaultHitokotoURL,
			QuotableURL:     provider.DefaultQuotableURL,
			Feeds:           map[string][]string{},
			MinInterval:     provider.DefaultMinInterval,
		},
		Image: ImageConfig{
			Timeout:      imagerelay.DefaultTimeout,
			MaxRedirects: imagerelay.DefaultMaxRedirects,
			PicsumURL:    imagerelay.DefaultPicsumURL,
			UnsplashURL:  imagerelay.DefaultUnsplashURL,
		},
		Events: EventsConfig{
			Enabled: true,
		},
		Client: ClientConfig{
			ProxyURL:    "",
			Timeout:     10 * time.Second,
			External:    false,
			Images:      false,
			HistoryPath: "data/client-history",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads defaults, then the first config file found, then the
// environment, and validates the result.
func LoadWithKoanf() (*Config, error) {
	return LoadWithKoanfFile(findConfigFile())
}

// LoadWithKoanfFile is LoadWithKoanf with an explicit config file. An empty
// path skips the file layer; a path that does not exist is an error.
func LoadWithKoanfFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processFeedsField(k); err != nil {
		return nil, fmt.Errorf("failed to process feeds: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as
// strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		if err := k.Set(path, splitList(strVal, ",")); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// processFeedsField parses QUOTE_FEEDS, formatted as
// "theme=url|url;theme=url", into providers.feeds.
func processFeedsField(k *koanf.Koanf) error {
	const path = "providers.feeds"
	strVal, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	feeds := map[string][]string{}
	for _, entry := range splitList(strVal, ";") {
		theme, urls, found := strings.Cut(entry, "=")
		theme = strings.TrimSpace(theme)
		if !found || theme == "" {
			return fmt.Errorf("feed entry %q is not theme=url", entry)
		}
		feeds[theme] = append(feeds[theme], splitList(urls, "|")...)
	}

	// Delete first so the string value does not merge with the map.
	k.Delete(path)
	if err := k.Set(path, feeds); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envMappings maps environment variable names (lower-cased) to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"trust_proxy":         "security.trust_proxy",

	// Content
	"catalog_dir":        "content.catalog_dir",
	"default_theme":      "content.default_theme",
	"content_locale":     "content.locale",
	"response_cache_ttl": "content.response_cache_ttl",

	// History
	"history_backend": "history.backend",
	"history_path":    "history.path",

	// Providers
	"external_enabled":      "providers.external_enabled",
	"provider_timeout":      "providers.text_timeout",
	"hitokoto_url":          "providers.hitokoto_url",
	"quotable_url":          "providers.quotable_url",
	"quote_feeds":           "providers.feeds",
	"provider_min_interval": "providers.min_interval",

	// Image relay
	"image_timeout":       "image.timeout",
	"image_max_redirects": "image.max_redirects",
	"picsum_url":          "image.picsum_url",
	"unsplash_url":        "image.unsplash_url",

	// Events
	"events_enabled": "events.enabled",

	// Client
	"dailycard_proxy_url":    "client.proxy_url",
	"dailycard_timeout":      "client.timeout",
	"dailycard_external":     "client.external",
	"dailycard_images":       "client.images",
	"dailycard_history_path": "client.history_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path, or
// "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
