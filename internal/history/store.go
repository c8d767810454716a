// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

// Package history persists per-theme selection history: the ids already shown
// ("used:<theme>") and the cached pick of each day ("daily:<theme>:<date>").
//
// The raw key-value Store is pluggable (memory, BadgerDB, SQLite). History wraps
// it with the typed operations the selection engine needs and makes every one
// of them fail soft: read errors look like an empty history, write errors are
// logged and dropped. Storage problems never reach the caller.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Store.Get for a missing key.
var ErrNotFound = errors.New("history: key not found")

// Store is a minimal byte-oriented key-value namespace.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// ErrUnknownBackend is returned by Open for a backend name it does not know.
var ErrUnknownBackend = errors.New("unknown history backend")

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
)

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{BackendMemory, BackendBadger, BackendSQLite}
}

// Open creates the store for backend. path is a directory for badger and a
// file for sqlite; it is ignored for memory.
func Open(backend Backend, path string) (Store, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(path)
	case BackendSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
}
