// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package server

import (
	"errors"
	"fmt"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/config"
	"github.com/tomtom215/dailycard/internal/history"
	"github.com/tomtom215/dailycard/internal/logging"
	"github.com/tomtom215/dailycard/internal/selection"
)

// Local is the catalog, history and selection engine shared by the proxy and
// the CLI.
type Local struct {
	Catalog *catalog.Catalog
	History *history.History
	Engine  *selection.Engine
}

// OpenLocal loads the catalog and opens the history backend named by cfg.
// A store that cannot be opened (locked, unwritable) is replaced by an
// in-memory one for the life of the process; only an unknown backend name is
// an error. The caller must Close the result.
func OpenLocal(cfg *config.Config) (*Local, error) {
	cat, err := LoadCatalog(cfg.Content.CatalogDir)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(history.Backend(cfg.History.Backend), cfg.History.Path)
	if errors.Is(err, history.ErrUnknownBackend) {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err != nil {
		logging.Warn().Err(err).
			Str("backend", cfg.History.Backend).
			Str("path", cfg.History.Path).
			Msg("History store unavailable, keeping history in memory")
		store = history.NewMemoryStore()
	}
	h := history.New(store)

	logging.Debug().
		Str("backend", cfg.History.Backend).
		Str("path", cfg.History.Path).
		Interface("catalog", cat.Sizes()).
		Msg("Local selection ready")

	return &Local{
		Catalog: cat,
		History: h,
		Engine:  selection.NewEngine(cat, h),
	}, nil
}

// OpenClientLocal is OpenLocal with the client's own store path, so the CLI
// and a server started from the same directory do not share one store.
func OpenClientLocal(cfg *config.Config) (*Local, error) {
	if cfg.Client.HistoryPath == "" {
		return OpenLocal(cfg)
	}
	clientCfg := *cfg
	clientCfg.History.Path = cfg.Client.HistoryPath
	return OpenLocal(&clientCfg)
}

// Close releases the history store.
func (l *Local) Close() error {
	return l.History.Close()
}

// LoadCatalog reads <theme>.json|yaml files from dir, or the embedded presets
// when dir is empty.
func LoadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		cat, err := catalog.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("load embedded catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", dir, err)
	}
	return cat, nil
}
