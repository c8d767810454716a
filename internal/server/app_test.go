// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/config"
	"github.com/tomtom215/dailycard/internal/history"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.History.Backend = "memory"
	cfg.History.Path = ""
	cfg.Providers.ExternalEnabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

type contentBody struct {
	Status string       `json:"status"`
	Data   catalog.Item `json:"data"`
}

func getContent(t *testing.T, h http.Handler, target string) (int, contentBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body contentBody
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
	}
	return rec.Code, body
}

func TestAppServesDeterministicContent(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	code, first := getContent(t, app.Handler(), "/api/content?theme=movies&date=2024-01-01")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if first.Status != "success" || first.Data.ID == "" {
		t.Fatalf("body = %+v", first)
	}

	_, again := getContent(t, app.Handler(), "/api/content?theme=%E7%94%B5%E5%BD%B1&date=2024-01-01")
	if again.Data.ID != first.Data.ID {
		t.Errorf("alias pick = %s, want %s", again.Data.ID, first.Data.ID)
	}
}

func TestAppRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimitReqs = 1
	app := newTestApp(t, cfg)

	if code, _ := getContent(t, app.Handler(), "/api/health"); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code, _ := getContent(t, app.Handler(), "/api/health"); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}
}

func TestAppRateLimitDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimitReqs = 1
	cfg.Security.RateLimitDisabled = true
	app := newTestApp(t, cfg)

	for i := 0; i < 3; i++ {
		if code, _ := getContent(t, app.Handler(), "/api/health"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, code)
		}
	}
	if app.limiter != nil {
		t.Error("limiter built while disabled")
	}
	if got := len(app.cleanupTasks()); got != 1 {
		t.Errorf("cleanup tasks = %d, want 1", got)
	}
}

func TestAppEventsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Enabled = false
	app := newTestApp(t, cfg)

	if app.bus != nil || app.recorder != nil || app.hub != nil {
		t.Error("event bus built while disabled")
	}
	if code, _ := getContent(t, app.Handler(), "/api/content?theme=literature"); code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if code, _ := getContent(t, app.Handler(), "/api/picks/ws"); code != http.StatusNotFound {
		t.Errorf("pick stream status = %d, want 404", code)
	}
}

func TestAppPickStreamRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/picks/ws", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("plain GET status = %d, want 400 from the upgrader", rec.Code)
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestOpenLocalDurableHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = "sqlite"
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	local, err := OpenLocal(cfg)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	first, ok := local.Engine.Select(context.Background(), day, "movies")
	if !ok {
		t.Fatal("Select reported no data")
	}
	if err := local.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	local, err = OpenLocal(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer local.Close()
	again, _ := local.Engine.Select(context.Background(), day, "movies")
	if again.ID != first.ID {
		t.Errorf("pick after reopen = %s, want cached %s", again.ID, first.ID)
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog(embedded): %v", err)
	}
	if len(cat.Items("movies")) == 0 {
		t.Error("embedded movies catalog is empty")
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("LoadCatalog(missing dir) succeeded, want error")
	}
}

func TestOpenLocalUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = "redis"
	if _, err := OpenLocal(cfg); !errors.Is(err, history.ErrUnknownBackend) {
		t.Errorf("OpenLocal(redis) error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenLocalLockedStoreFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	held, err := history.OpenBadgerStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer held.Close()

	cfg := testConfig(t)
	cfg.History.Backend = "badger"
	cfg.History.Path = dir

	local, err := OpenLocal(cfg)
	if err != nil {
		t.Fatalf("OpenLocal with a locked store: %v", err)
	}
	defer local.Close()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	first, ok := local.Engine.Select(context.Background(), day, "movies")
	if !ok {
		t.Fatal("Select reported no data")
	}
	again, _ := local.Engine.Select(context.Background(), day, "movies")
	if again.ID != first.ID {
		t.Errorf("second pick = %s, want %s from the in-memory history", again.ID, first.ID)
	}
}

func TestOpenClientLocalUsesClientPath(t *testing.T) {
	serverDir, clientDir := t.TempDir(), t.TempDir()
	held, err := history.OpenBadgerStore(serverDir)
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer held.Close()

	cfg := testConfig(t)
	cfg.History.Backend = "badger"
	cfg.History.Path = serverDir
	cfg.Client.HistoryPath = clientDir

	local, err := OpenClientLocal(cfg)
	if err != nil {
		t.Fatalf("OpenClientLocal: %v", err)
	}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	first, _ := local.Engine.Select(context.Background(), day, "literature")
	if err := local.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if cfg.History.Path != serverDir {
		t.Errorf("OpenClientLocal changed the caller's config: %s", cfg.History.Path)
	}

	// The client store is durable and separate from the held server store.
	local, err = OpenClientLocal(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer local.Close()
	if ids := local.History.UsedIDs(context.Background(), "literature"); len(ids) != 1 || ids[0] != first.ID {
		t.Errorf("client used ids = %v, want [%s]", ids, first.ID)
	}
}
