// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want 8787", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.RateLimitReqs != 100 || cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/1m", cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	}
	if cfg.Content.Locale != "zh" || cfg.Content.ResponseCacheTTL != 0 {
		t.Errorf("Content = %+v", cfg.Content)
	}
	if cfg.Providers.TextTimeout != 4*time.Second {
		t.Errorf("TextTimeout = %v, want 4s", cfg.Providers.TextTimeout)
	}
	if cfg.Image.Timeout != 5*time.Second || cfg.Image.MaxRedirects != 3 {
		t.Errorf("Image = %+v", cfg.Image)
	}
	if cfg.History.Backend != "badger" {
		t.Errorf("History.Backend = %q, want badger", cfg.History.Backend)
	}
	if cfg.Client.HistoryPath == "" || cfg.Client.HistoryPath == cfg.History.Path {
		t.Errorf("Client.HistoryPath = %q, want a path of its own", cfg.Client.HistoryPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadWithKoanfFileDefaultsOnly(t *testing.T) {
	cfg, err := LoadWithKoanfFile("")
	if err != nil {
		t.Fatalf("LoadWithKoanfFile: %v", err)
	}
	want := defaultConfig()
	if cfg.Server != want.Server {
		t.Errorf("Server = %+v, want %+v", cfg.Server, want.Server)
	}
	if cfg.History != want.History {
		t.Errorf("History = %+v, want %+v", cfg.History, want.History)
	}
	if cfg.Image != want.Image {
		t.Errorf("Image = %+v, want %+v", cfg.Image, want.Image)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want.Security.CORSOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want.Security.CORSOrigins)
	}
	if len(cfg.Providers.Feeds) != 0 {
		t.Errorf("Feeds = %v, want none", cfg.Providers.Feeds)
	}
}

func TestLoadWithKoanfFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
security:
  cors_origins:
    - https://card.example
  rate_limit_window: 30s
content:
  response_cache_ttl: 1h
history:
  backend: sqlite
  path: /tmp/history.db
providers:
  feeds:
    movies:
      - https://feeds.example/movies.xml
`)

	cfg, err := LoadWithKoanfFile(path)
	if err != nil {
		t.Fatalf("LoadWithKoanfFile: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://card.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.Security.RateLimitWindow)
	}
	if cfg.Content.ResponseCacheTTL != time.Hour {
		t.Errorf("ResponseCacheTTL = %v, want 1h", cfg.Content.ResponseCacheTTL)
	}
	if cfg.History.Backend != "sqlite" || cfg.History.Path != "/tmp/history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if got := cfg.Providers.Feeds["movies"]; !reflect.DeepEqual(got, []string{"https://feeds.example/movies.xml"}) {
		t.Errorf("Feeds[movies] = %v", got)
	}
	// Untouched values keep their defaults.
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("RateLimitReqs = %d, want default 100", cfg.Security.RateLimitReqs)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PROVIDER_TIMEOUT", "2s")
	t.Setenv("DISABLE_RATE_LIMIT", "true")
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("HISTORY_PATH", "")
	t.Setenv("QUOTE_FEEDS", "movies=https://a.example/rss|https://b.example/rss; literature=https://c.example/atom")
	t.Setenv("UNRELATED_VARIABLE", "ignored")
	t.Setenv("DAILYCARD_HISTORY_PATH", "/var/lib/dailycard/client")

	cfg, err := LoadWithKoanfFile(path)
	if err != nil {
		t.Fatalf("LoadWithKoanfFile: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Providers.TextTimeout != 2*time.Second {
		t.Errorf("TextTimeout = %v, want 2s", cfg.Providers.TextTimeout)
	}
	if !cfg.Security.RateLimitDisabled {
		t.Error("RateLimitDisabled = false, want true")
	}
	if cfg.History.Backend != "memory" {
		t.Errorf("History.Backend = %q, want memory", cfg.History.Backend)
	}
	if cfg.Client.HistoryPath != "/var/lib/dailycard/client" {
		t.Errorf("Client.HistoryPath = %q", cfg.Client.HistoryPath)
	}
	wantFeeds := map[string][]string{
		"movies":     {"https://a.example/rss", "https://b.example/rss"},
		"literature": {"https://c.example/atom"},
	}
	if !reflect.DeepEqual(cfg.Providers.Feeds, wantFeeds) {
		t.Errorf("Feeds = %v, want %v", cfg.Providers.Feeds, wantFeeds)
	}
}

func TestLoadWithKoanfConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9200\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want 9200", cfg.Server.Port)
	}
}

func TestLoadWithKoanfFileErrors(t *testing.T) {
	if _, err := LoadWithKoanfFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}

	bad := writeConfig(t, "server: [unterminated\n")
	if _, err := LoadWithKoanfFile(bad); err == nil {
		t.Error("malformed YAML: want error")
	}

	invalid := writeConfig(t, "server:\n  port: 70000\n")
	_, err := LoadWithKoanfFile(invalid)
	if err == nil || !strings.Contains(err.Error(), "HTTP_PORT") {
		t.Errorf("invalid port: err = %v, want HTTP_PORT validation error", err)
	}

	t.Setenv("QUOTE_FEEDS", "no-equals-sign")
	if _, err := LoadWithKoanfFile(""); err == nil {
		t.Error("malformed QUOTE_FEEDS: want error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HTTP_PORT":           "server.port",
		"LOG_LEVEL":           "logging.level",
		"HISTORY_BACKEND":     "history.backend",
		"DAILYCARD_PROXY_URL": "client.proxy_url",
		"PATH":                "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
