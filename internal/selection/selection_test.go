// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package selection

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/history"
)

// ============================================================================
// Hash and noise
// ============================================================================

func TestHash(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		{"ba", 98*31 + 97},
		{"hello", 99162322},
		// Wraps past 2^31: the classic Java hashCode == Integer.MIN_VALUE case.
		{"polygenelubricants", 2147483648},
		// Non-BMP rune hashes as its two UTF-16 surrogates.
		{"😀", 0xD83D*31 + 0xDE00},
		{"电影", 0x7535*31 + 0x5F71},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hash(tt.in); got != tt.want {
				t.Errorf("Hash(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestHashOrderSensitive(t *testing.T) {
	if Hash("ab") == Hash("ba") {
		t.Error("Hash(ab) == Hash(ba), want different")
	}
	if Hash("2024-01-01movies") != Hash("2024-01-01movies") {
		t.Error("Hash is not deterministic")
	}
}

func TestStableNoise(t *testing.T) {
	tests := []struct {
		idHash, salt uint32
		want         float64
	}{
		{0, 0, 0},
		{97, 0, 0.097},
		{1999, 0, 0.999},
		{5, 5, 0},
		{0xFFFFFFFF, 0, 0.295}, // 4294967295 % 1000
	}
	for _, tt := range tests {
		got := StableNoise(tt.idHash, tt.salt)
		if got != tt.want {
			t.Errorf("StableNoise(%d, %d) = %v, want %v", tt.idHash, tt.salt, got, tt.want)
		}
		if got < 0 || got >= 1 {
			t.Errorf("StableNoise(%d, %d) = %v out of [0,1)", tt.idHash, tt.salt, got)
		}
	}
}

func TestSaltsDiffer(t *testing.T) {
	if DailySalt("2024-01-01", "movies") == RefreshSalt("2024-01-01", "movies") {
		t.Error("daily and refresh salts are equal")
	}
	if DailySalt("2024-01-01", "movies") != Hash("2024-01-01movies") {
		t.Error("DailySalt is not Hash(dateKey+theme)")
	}
	if RefreshSalt("2024-01-01", "movies") != Hash("2024-01-01movies|refresh") {
		t.Error("RefreshSalt is not Hash(dateKey+theme+\"|refresh\")")
	}
}

// ============================================================================
// DateKey
// ============================================================================

func TestDateKey(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero padded", time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), "2024-01-05"},
		{"local calendar day", time.Date(2024, 3, 1, 0, 30, 0, 0, shanghai), "2024-03-01"},
		{"same instant other zone", time.Date(2024, 2, 29, 16, 30, 0, 0, time.UTC), "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(tt.in); got != tt.want {
				t.Errorf("DateKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2024-01-01", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if DateKey(got) != "2024-01-01" {
		t.Errorf("round trip = %q, want 2024-01-01", DateKey(got))
	}
	for _, bad := range []string{"", "2024-1-1", "2024-13-01", "yesterday"} {
		if _, err := ParseDateKey(bad, time.UTC); err == nil {
			t.Errorf("ParseDateKey(%q) succeeded, want error", bad)
		}
	}
}

// ============================================================================
// Ranking
// ============================================================================

func TestRankOrdersByScore(t *testing.T) {
	items := []catalog.Item{
		{ID: "low", Score: catalog.Float(0.1)},
		{ID: "high", Score: catalog.Float(0.9)},
		{ID: "mid"}, // default 0.5
	}
	ranked := Rank(items, nil, 42)

	got := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank order = %v, want %v", got, want)
	}
	if items[0].ID != "low" {
		t.Error("Rank modified its input")
	}
}

func TestRankUsedPenalty(t *testing.T) {
	items := []catalog.Item{
		{ID: "a", Score: catalog.Float(0.6)},
		{ID: "b", Score: catalog.Float(0.5)},
	}
	// 0.6 - 0.2 = 0.4 plus at most 0.0999 noise stays below b's minimum 0.5.
	ranked := Rank(items, NewUsedSet([]string{"a"}), 7)
	if ranked[0].ID != "b" {
		t.Errorf("top = %s, want b", ranked[0].ID)
	}
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	// Hash("!J") = 1097 and Hash("a") = 97 give identical noise for salt 0.
	if Hash("!J")%1000 != Hash("a")%1000 {
		t.Fatal("fixture ids no longer collide")
	}
	x := catalog.Item{ID: "!J"}
	y := catalog.Item{ID: "a"}

	if got := Rank([]catalog.Item{x, y}, nil, 0); got[0].ID != "!J" {
		t.Errorf("tie order = %s first, want !J", got[0].ID)
	}
	if got := Rank([]catalog.Item{y, x}, nil, 0); got[0].ID != "a" {
		t.Errorf("tie order = %s first, want a", got[0].ID)
	}
}

func TestPickDaily(t *testing.T) {
	ranked := []catalog.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := PickDaily(ranked, NewUsedSet([]string{"a"})); got.ID != "b" {
		t.Errorf("PickDaily = %s, want b", got.ID)
	}
	if got := PickDaily(ranked, NewUsedSet([]string{"a", "b", "c"})); got.ID != "a" {
		t.Errorf("PickDaily all used = %s, want a", got.ID)
	}
}

func TestPickRefresh(t *testing.T) {
	ranked := []catalog.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	tests := []struct {
		name  string
		used  []string
		avoid string
		want  string
	}{
		{"unused and not daily", []string{"a"}, "b", "c"},
		{"all used, skip daily", []string{"a", "b", "c"}, "a", "b"},
		{"no daily", nil, "", "a"},
		{"only daily left", []string{"b", "c"}, "a", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickRefresh(ranked, NewUsedSet(tt.used), tt.avoid); got.ID != tt.want {
				t.Errorf("PickRefresh = %s, want %s", got.ID, tt.want)
			}
		})
	}

	single := []catalog.Item{{ID: "only"}}
	if got := PickRefresh(single, nil, "only"); got.ID != "only" {
		t.Errorf("PickRefresh single = %s, want only", got.ID)
	}
}

// ============================================================================
// Engine
// ============================================================================

type engineFixture struct {
	engine  *Engine
	store   *history.MemoryStore
	history *history.History
}

// newFixture builds an engine whose default-theme catalog holds items, so any
// unknown theme such as "T" resolves to it.
func newFixture(items ...catalog.Item) engineFixture {
	store := history.NewMemoryStore()
	h := history.New(store)
	c := catalog.New(map[catalog.Theme][]catalog.Item{catalog.DefaultTheme: items})
	return engineFixture{engine: NewEngine(c, h), store: store, history: h}
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(DateKeyLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestScenarioHighScoreWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(
		catalog.Item{ID: "a", Score: catalog.Float(0.9)},
		catalog.Item{ID: "b", Score: catalog.Float(0.5)},
	)

	got, ok := f.engine.Select(ctx, day("2024-01-01"), "T")
	if !ok || got.ID != "a" {
		t.Fatalf("Select = %q, %v; want a, true", got.ID, ok)
	}
	if used := f.history.UsedIDs(ctx, catalog.Key("T")); !reflect.DeepEqual(used, []string{"a"}) {
		t.Errorf("UsedIDs = %v, want [a]", used)
	}

	// Same day again: cached, history unchanged.
	again, ok := f.engine.Select(ctx, day("2024-01-01"), "T")
	if !ok || again.ID != "a" {
		t.Fatalf("second Select = %q, %v; want a, true", again.ID, ok)
	}
	if used := f.history.UsedIDs(ctx, catalog.Key("T")); !reflect.DeepEqual(used, []string{"a"}) {
		t.Errorf("UsedIDs after second Select = %v, want [a]", used)
	}
}

func TestScenarioEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	if got, ok := f.engine.Select(ctx, day("2024-01-01"), "T"); ok {
		t.Errorf("Select on empty catalog = %+v, want absent", got)
	}
	if got, ok := f.engine.Refresh(ctx, day("2024-01-01"), "T"); ok {
		t.Errorf("Refresh on empty catalog = %+v, want absent", got)
	}
	if n := f.store.Len(); n != 0 {
		t.Errorf("store has %d keys after empty selections, want 0", n)
	}
}

func manyItems(n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		items[i] = catalog.Item{ID: fmt.Sprintf("item-%02d", i)}
	}
	return items
}

func TestSelectDeterministic(t *testing.T) {
	ctx := context.Background()
	for _, date := range []string{"2024-01-01", "2024-06-15", "2025-12-31"} {
		a := newFixture(manyItems(8)...)
		b := newFixture(manyItems(8)...)

		x, _ := a.engine.Select(ctx, day(date), "movies")
		y, _ := b.engine.Select(ctx, day(date), "movies")
		if x.ID != y.ID {
			t.Errorf("%s: independent engines picked %s and %s", date, x.ID, y.ID)
		}
	}
}

func TestSelectAntiRepetition(t *testing.T) {
	ctx := context.Background()
	const n = 6
	f := newFixture(manyItems(n)...)

	seen := make(map[string]bool)
	start := day("2024-01-01")
	for i := 0; i < n; i++ {
		got, ok := f.engine.Select(ctx, start.AddDate(0, 0, i), "T")
		if !ok {
			t.Fatalf("day %d: Select returned absent", i)
		}
		if seen[got.ID] {
			t.Fatalf("day %d: repeated %s before exhausting the catalog", i, got.ID)
		}
		seen[got.ID] = true
	}
	if len(seen) != n {
		t.Errorf("covered %d items, want %d", len(seen), n)
	}

	// Once everything is used the engine still returns an item.
	if _, ok := f.engine.Select(ctx, start.AddDate(0, 0, n), "T"); !ok {
		t.Error("Select after exhausting catalog returned absent")
	}
}

func TestRefreshKeepsDailyPick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(manyItems(5)...)
	d := day("2024-01-01")

	daily, _ := f.engine.Select(ctx, d, "T")
	refreshed, ok := f.engine.Refresh(ctx, d, "T")
	if !ok {
		t.Fatal("Refresh returned absent")
	}
	if refreshed.ID == daily.ID {
		t.Errorf("Refresh returned the daily pick %s", daily.ID)
	}

	again, _ := f.engine.Select(ctx, d, "T")
	if again.ID != daily.ID {
		t.Errorf("Select after Refresh = %s, want original %s", again.ID, daily.ID)
	}

	used := f.history.UsedIDs(ctx, catalog.Key("T"))
	if !reflect.DeepEqual(used, []string{daily.ID, refreshed.ID}) {
		t.Errorf("UsedIDs = %v, want [%s %s]", used, daily.ID, refreshed.ID)
	}
}

func TestRefreshNeverRepeatsDailyPick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(manyItems(3)...)
	d := day("2024-02-02")

	daily, _ := f.engine.Select(ctx, d, "T")
	// Refresh past the point where every item is used.
	for i := 0; i < 6; i++ {
		got, ok := f.engine.Refresh(ctx, d, "T")
		if !ok {
			t.Fatalf("refresh %d returned absent", i)
		}
		if got.ID == daily.ID {
			t.Fatalf("refresh %d returned daily pick %s", i, got.ID)
		}
	}
}

func TestRefreshSingleItemCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(catalog.Item{ID: "only"})
	d := day("2024-01-01")

	f.engine.Select(ctx, d, "T")
	got, ok := f.engine.Refresh(ctx, d, "T")
	if !ok || got.ID != "only" {
		t.Errorf("Refresh = %q, %v; want only, true", got.ID, ok)
	}
}

func TestRefreshWithoutDailyPick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(manyItems(4)...)
	d := day("2024-01-01")

	if _, ok := f.engine.Refresh(ctx, d, "T"); !ok {
		t.Fatal("Refresh returned absent")
	}
	if _, ok := f.history.DailyPick(ctx, catalog.Key("T"), DateKey(d)); ok {
		t.Error("Refresh wrote a daily pick")
	}
}

func TestThemesHaveSeparateHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(manyItems(4)...)
	d := day("2024-01-01")

	f.engine.Select(ctx, d, "alpha")
	if used := f.history.UsedIDs(ctx, "beta"); len(used) != 0 {
		t.Errorf("beta history = %v, want empty", used)
	}
}

func TestAliasesShareHistory(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	h := history.New(store)
	c := catalog.New(map[catalog.Theme][]catalog.Item{catalog.ThemeMovies: manyItems(4)})
	e := NewEngine(c, h)
	d := day("2024-01-01")

	a, _ := e.Select(ctx, d, "电影")
	b, _ := e.Select(ctx, d, "movies")
	if a.ID != b.ID {
		t.Errorf("alias picks differ: %s vs %s", a.ID, b.ID)
	}
}

func TestAliasSaltedWithCanonicalKey(t *testing.T) {
	ctx := context.Background()
	items := manyItems(8)
	c := catalog.New(map[catalog.Theme][]catalog.Item{catalog.ThemeMovies: items})
	d := day("2024-01-01")

	got, _ := NewEngine(c, history.New(history.NewMemoryStore())).Select(ctx, d, "电影")

	used := NewUsedSet(nil)
	want := PickDaily(Rank(c.Items("movies"), used, DailySalt(DateKey(d), "movies")), used)
	if got.ID != want.ID {
		t.Errorf("alias pick = %s, want %s from the canonical salt", got.ID, want.ID)
	}
}

// failingHistory behaves like History over broken storage.
type failingHistory struct{}

func (failingHistory) UsedIDs(context.Context, string) []string { return nil }
func (failingHistory) AddUsedID(context.Context, string, string) {}
func (failingHistory) DailyPick(context.Context, string, string) (catalog.Item, bool) {
	return catalog.Item{}, false
}
func (failingHistory) SetDailyPick(context.Context, string, string, catalog.Item) {}

func TestSelectWithUnavailableStorage(t *testing.T) {
	ctx := context.Background()
	c := catalog.New(map[catalog.Theme][]catalog.Item{catalog.DefaultTheme: {
		{ID: "a", Score: catalog.Float(0.9)},
		{ID: "b", Score: catalog.Float(0.5)},
	}})
	e := NewEngine(c, failingHistory{})

	for i := 0; i < 2; i++ {
		got, ok := e.Select(ctx, day("2024-01-01"), "T")
		if !ok || got.ID != "a" {
			t.Errorf("Select %d = %q, %v; want a, true", i, got.ID, ok)
		}
	}
}
