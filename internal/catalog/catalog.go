// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/dailycard/internal/logging"
)

//go:embed presets/*.json
var presetFS embed.FS

// Catalog is an immutable theme -> items mapping.
type Catalog struct {
	themes map[Theme][]Item
}

// New builds a catalog from already-loaded items. Items are cleaned the same
// way file-loaded items are (blank IDs dropped, duplicate IDs keep the first).
func New(items map[Theme][]Item) *Catalog {
	c := &Catalog{themes: make(map[Theme][]Item, len(items))}
	for theme, list := range items {
		c.themes[theme] = clean(theme, list)
	}
	return c
}

// Items returns the catalog for raw theme input, falling back to DefaultTheme
// for unknown themes. The returned slice must not be modified.
func (c *Catalog) Items(raw string) []Item {
	theme, ok := Lookup(raw)
	if !ok {
		theme = DefaultTheme
	}
	return c.themes[theme]
}

// Sizes reports the item count of every known theme.
func (c *Catalog) Sizes() map[Theme]int {
	sizes := make(map[Theme]int, len(Themes()))
	for _, t := range Themes() {
		sizes[t] = len(c.themes[t])
	}
	return sizes
}

// LoadEmbedded returns the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(presetFS, "presets")
	if err != nil {
		return nil, fmt.Errorf("open embedded presets: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir loads per-theme documents from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads "<theme>.json", "<theme>.yaml" or "<theme>.yml" for every known
// theme from fsys. A theme whose file is missing or unreadable gets an empty
// catalog; selection then reports ErrNoData for it instead of failing startup.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	items := make(map[Theme][]Item, len(Themes()))
	for _, theme := range Themes() {
		doc, name, err := readDocument(fsys, theme)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logging.Warn().Str("theme", string(theme)).Msg("No catalog file for theme, using empty catalog")
			continue
		case err != nil:
			logging.Warn().Err(err).Str("theme", string(theme)).Str("file", name).
				Msg("Failed to read catalog file, using empty catalog")
			continue
		}
		items[theme] = doc.Items
		logging.Debug().Str("theme", string(theme)).Str("file", name).Int("items", len(doc.Items)).
			Msg("Loaded catalog")
	}
	return New(items), nil
}

// fileNames lists the candidate document names for a theme. The life-reflection
// theme also answers to the legacy "quotes" file name.
func fileNames(theme Theme) []string {
	bases := []string{string(theme)}
	if theme == ThemeLifeReflection {
		bases = append(bases, "quotes")
	}
	var names []string
	for _, b := range bases {
		names = append(names, b+".json", b+".yaml", b+".yml")
	}
	return names
}

func readDocument(fsys fs.FS, theme Theme) (Document, string, error) {
	for _, name := range fileNames(theme) {
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Document{}, name, err
		}
		doc, err := decode(name, data)
		return doc, name, err
	}
	return Document{}, "", fs.ErrNotExist
}

func decode(name string, data []byte) (Document, error) {
	var doc Document
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return doc, nil
}

// clean drops unusable entries and normalizes tags.
func clean(theme Theme, in []Item) []Item {
	out := make([]Item, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, it := range in {
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			logging.Warn().Str("theme", string(theme)).Msg("Skipping catalog item without id")
			continue
		}
		if _, dup := seen[it.ID]; dup {
			logging.Warn().Str("theme", string(theme)).Str("id", it.ID).Msg("Skipping duplicate catalog item")
			continue
		}
		seen[it.ID] = struct{}{}
		it.Tags = dedupeTags(it.Tags)
		out = append(out, it)
	}
	return out
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
