// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package orchestrator

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/history"
	"github.com/tomtom215/dailycard/internal/selection"
)

type stubRemote struct {
	item       catalog.Item
	contentErr error
	image      string
	imageErr   error

	contentCalls int
	imageCalls   int
	lastRefresh  bool
	lastExternal bool
	lastImage    ImageRequest
}

func (s *stubRemote) Content(_ context.Context, _, _ string, external, refresh bool) (catalog.Item, error) {
	s.contentCalls++
	s.lastExternal, s.lastRefresh = external, refresh
	return s.item, s.contentErr
}

func (s *stubRemote) Image(_ context.Context, req ImageRequest) (string, error) {
	s.imageCalls++
	s.lastImage = req
	return s.image, s.imageErr
}

var testDay = time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

func newLocal(items ...catalog.Item) *selection.Engine {
	cat := catalog.New(map[catalog.Theme][]catalog.Item{catalog.ThemeMovies: items})
	return selection.NewEngine(cat, history.New(history.NewMemoryStore()))
}

func localItems() []catalog.Item {
	return []catalog.Item{
		{ID: "a", Text: "first", Score: catalog.Float(0.9)},
		{ID: "b", Text: "second", Score: catalog.Float(0.5)},
	}
}

func TestCardLocalOnly(t *testing.T) {
	o := New(newLocal(localItems()...), nil).WithClock(func() time.Time { return testDay })

	card, err := o.Card(context.Background(), Options{Theme: "movies", Images: true})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if card.Item.ID != "a" || card.Origin != OriginLocal {
		t.Errorf("card = %+v, want local a", card)
	}
	if card.DateKey != "2024-01-01" {
		t.Errorf("DateKey = %q", card.DateKey)
	}
	if !card.Placeholder || card.ImageDataURL != Placeholder("movies") {
		t.Error("local-only card should carry the placeholder image")
	}
}

func TestCardRemoteFirst(t *testing.T) {
	remote := &stubRemote{
		item:  catalog.Item{ID: "ext-1", Text: "remote"},
		image: "data:image/jpeg;base64,AAAA",
	}
	o := New(newLocal(localItems()...), remote).WithClock(func() time.Time { return testDay })

	card, err := o.Card(context.Background(), Options{Theme: "movies", External: true, Images: true})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if card.Item.ID != "ext-1" || card.Origin != OriginRemote {
		t.Errorf("card = %+v, want remote ext-1", card)
	}
	if card.ImageDataURL != remote.image || card.Placeholder {
		t.Errorf("image = %q placeholder=%v", card.ImageDataURL, card.Placeholder)
	}
	if !remote.lastExternal {
		t.Error("external flag not forwarded")
	}
	if remote.lastImage.Width != ImageWidth || remote.lastImage.Height != ImageHeight || remote.lastImage.Seed == "" {
		t.Errorf("image request = %+v", remote.lastImage)
	}
}

func TestCardRemoteFailureFallsBackToLocal(t *testing.T) {
	remote := &stubRemote{contentErr: ErrContentUnavailable, imageErr: ErrImageFetchFailed}
	o := New(newLocal(localItems()...), remote).WithClock(func() time.Time { return testDay })

	card, err := o.Card(context.Background(), Options{Theme: "movies", Images: true})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if card.Item.ID != "a" || card.Origin != OriginLocal {
		t.Errorf("card = %+v, want local a", card)
	}
	if !card.Placeholder {
		t.Error("failed image fetch should fall back to the placeholder")
	}
}

func TestCardImagesDisabled(t *testing.T) {
	remote := &stubRemote{item: catalog.Item{ID: "x"}}
	o := New(newLocal(localItems()...), remote)

	card, err := o.Card(context.Background(), Options{Theme: "movies"})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if remote.imageCalls != 0 {
		t.Errorf("image fetched %d times with Images=false", remote.imageCalls)
	}
	if !card.Placeholder {
		t.Error("card without images should carry the placeholder")
	}
}

func TestCardRefresh(t *testing.T) {
	local := newLocal(localItems()...)
	o := New(local, nil).WithClock(func() time.Time { return testDay })
	ctx := context.Background()

	daily, _ := o.Card(ctx, Options{Theme: "movies"})
	refreshed, err := o.Card(ctx, Options{Theme: "movies", Refresh: true})
	if err != nil {
		t.Fatalf("Card(refresh): %v", err)
	}
	if refreshed.Item.ID == daily.Item.ID {
		t.Errorf("refresh returned the daily pick %s", daily.Item.ID)
	}
	again, _ := o.Card(ctx, Options{Theme: "movies"})
	if again.Item.ID != daily.Item.ID {
		t.Errorf("daily pick after refresh = %s, want %s", again.Item.ID, daily.Item.ID)
	}

	remote := &stubRemote{item: catalog.Item{ID: "r"}}
	_, _ = New(local, remote).Card(ctx, Options{Theme: "movies", Refresh: true})
	if !remote.lastRefresh {
		t.Error("refresh flag not forwarded to the proxy")
	}
}

func TestCardNoData(t *testing.T) {
	o := New(newLocal(), &stubRemote{contentErr: ErrContentUnavailable})

	_, err := o.Card(context.Background(), Options{Theme: "movies"})
	if !errors.Is(err, catalog.ErrNoData) {
		t.Errorf("err = %v, want catalog.ErrNoData", err)
	}
}

func TestCardDefaultTheme(t *testing.T) {
	o := New(newLocal(localItems()...), nil).WithDefaultTheme("movies").WithDefaultTheme("  ")

	card, err := o.Card(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if card.Theme != "movies" {
		t.Errorf("Theme = %q, want movies", card.Theme)
	}
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		theme  string
		colors [2]string
	}{
		{"movies", [2]string{"#1677ff", "#52c41a"}},
		{"文学", [2]string{"#722ed1", "#eb2f96"}},
		{"人生感悟", [2]string{"#fa8c16", "#f5222d"}},
		{"unknown", [2]string{"#1677ff", "#d81e06"}},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			got := Placeholder(tt.theme)
			const prefix = "data:image/svg+xml;base64,"
			if !strings.HasPrefix(got, prefix) {
				t.Fatalf("Placeholder = %q", got)
			}
			svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, prefix))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			for _, c := range tt.colors {
				if !strings.Contains(string(svg), `stop-color="`+c+`"`) {
					t.Errorf("svg missing color %s:\n%s", c, svg)
				}
			}
			if !strings.Contains(string(svg), `width="720" height="320"`) || !strings.Contains(string(svg), `offset="100%"`) {
				t.Errorf("unexpected svg:\n%s", svg)
			}
		})
	}
}

func TestRenderCard(t *testing.T) {
	out := RenderCard(Card{
		DateKey:     "2024-01-01",
		Theme:       "电影",
		Item:        catalog.Item{ID: "mv-001", Text: "Hope is a good thing", Source: "The Shawshank Redemption"},
		Origin:      OriginLocal,
		Placeholder: true,
	})
	for _, want := range []string{"2024-01-01", "movies", "Hope is a good thing", "Shawshank", "mv-001", "placeholder image"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered card missing %q:\n%s", want, out)
		}
	}
}
