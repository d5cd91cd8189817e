package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/profile"
)

type mockInteractions struct {
	rows    []interaction.Interaction
	records []interaction.SearchRecord
	rowErr  error
	calls   int
}

func (m *mockInteractions) Interactions(_ context.Context, _ string, _ int) ([]interaction.Interaction, error) {
	m.calls++
	return m.rows, m.rowErr
}

func (m *mockInteractions) Searches(_ context.Context, _ string, _ int) ([]interaction.SearchRecord, error) {
	return m.records, nil
}

type mockItems struct {
	items map[string]catalog.Item
	err   error
}

func (m *mockItems) Items(_ context.Context, ids []string) ([]catalog.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func makeItem(id, category string, price float64, tags ...string) catalog.Item {
	return catalog.New(
		id, "Item "+id, "", price, nil,
		catalog.NewSeller("s1", "Seller", "", 4.0),
		category, tags, "springfield", catalog.Available, time.Now(),
	)
}

func newBuilder(interactions *mockInteractions, items *mockItems) *Builder {
	return New(interactions, items, Config{}, nil, zap.NewNop())
}

func TestBuild_EmptyUserIsAnonymous(t *testing.T) {
	b := newBuilder(&mockInteractions{}, &mockItems{})

	p := b.Build(context.Background(), "")
	if p.HasHistory() {
		t.Error("anonymous profile must report no history")
	}
	pr := p.Preferences().PriceRange()
	if pr.Min() != profile.DefaultPriceMin || pr.Max() != profile.DefaultPriceMax {
		t.Errorf("price range = [%v, %v], want defaults", pr.Min(), pr.Max())
	}
}

func TestBuild_NoHistoryIsAnonymous(t *testing.T) {
	b := newBuilder(&mockInteractions{}, &mockItems{})

	p := b.Build(context.Background(), "u1")
	if p.UserID() != "u1" {
		t.Errorf("user id = %q, want u1", p.UserID())
	}
	if p.HasHistory() {
		t.Error("expected no history")
	}
	if len(p.Preferences().Categories()) != 0 {
		t.Errorf("categories = %v, want empty", p.Preferences().Categories())
	}
}

func TestBuild_StoreFailureDegradesToAnonymous(t *testing.T) {
	b := newBuilder(&mockInteractions{rowErr: errors.New("store down")}, &mockItems{})

	p := b.Build(context.Background(), "u1")
	if p.HasHistory() {
		t.Error("failed build must degrade to anonymous profile")
	}
}

func TestBuild_CategoryAffinity(t *testing.T) {
	now := time.Now()
	interactions := &mockInteractions{rows: []interaction.Interaction{
		interaction.New("u1", "a", interaction.View, now),
		interaction.New("u1", "b", interaction.View, now),
		interaction.New("u1", "c", interaction.Purchase, now),
		interaction.New("u1", "d", interaction.View, now),
	}}
	items := &mockItems{items: map[string]catalog.Item{
		"a": makeItem("a", "pottery", 20),
		"b": makeItem("b", "pottery", 25),
		"c": makeItem("c", "pottery", 30),
		"d": makeItem("d", "woodwork", 40),
	}}
	b := newBuilder(interactions, items)

	p := b.Build(context.Background(), "u1")
	got := p.Preferences().Categories()
	if len(got) != 2 || got[0] != "pottery" || got[1] != "woodwork" {
		t.Errorf("categories = %v, want [pottery woodwork]", got)
	}
	if len(p.Viewed()) != 3 {
		t.Errorf("viewed = %v, want 3 ids", p.Viewed())
	}
	if len(p.Purchased()) != 1 || p.Purchased()[0] != "c" {
		t.Errorf("purchased = %v, want [c]", p.Purchased())
	}
}

func TestBuild_PricePercentiles(t *testing.T) {
	now := time.Now()
	var rows []interaction.Interaction
	itemsByID := make(map[string]catalog.Item)
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i, id := range ids {
		rows = append(rows, interaction.New("u1", id, interaction.View, now))
		itemsByID[id] = makeItem(id, "pottery", float64((i+1)*10))
	}
	b := newBuilder(&mockInteractions{rows: rows}, &mockItems{items: itemsByID})

	pr := b.Build(context.Background(), "u1").Preferences().PriceRange()
	// 10 prices 10..100: index 1 -> 20, index 9 -> 100.
	if pr.Min() != 20 || pr.Max() != 100 {
		t.Errorf("price range = [%v, %v], want [20, 100]", pr.Min(), pr.Max())
	}
}

func TestBuild_SingleItemPriceBand(t *testing.T) {
	now := time.Now()
	b := newBuilder(
		&mockInteractions{rows: []interaction.Interaction{
			interaction.New("u1", "a", interaction.View, now),
		}},
		&mockItems{items: map[string]catalog.Item{"a": makeItem("a", "pottery", 42)}},
	)

	pr := b.Build(context.Background(), "u1").Preferences().PriceRange()
	if pr.Min() != 42 || pr.Max() != 42 {
		t.Errorf("price range = [%v, %v], want degenerate [42, 42]", pr.Min(), pr.Max())
	}
}

func TestBuild_TagBuckets(t *testing.T) {
	now := time.Now()
	b := newBuilder(
		&mockInteractions{rows: []interaction.Interaction{
			interaction.New("u1", "a", interaction.View, now),
			interaction.New("u1", "b", interaction.View, now),
		}},
		&mockItems{items: map[string]catalog.Item{
			"a": makeItem("a", "pottery", 20, "rustic", "blue", "ceramic"),
			"b": makeItem("b", "pottery", 25, "rustic", "giftable"),
		}},
	)

	prefs := b.Build(context.Background(), "u1").Preferences()
	if len(prefs.Styles()) != 1 || prefs.Styles()[0] != "rustic" {
		t.Errorf("styles = %v, want [rustic]", prefs.Styles())
	}
	if len(prefs.Colors()) != 1 || prefs.Colors()[0] != "blue" {
		t.Errorf("colors = %v, want [blue]", prefs.Colors())
	}
	if len(prefs.Materials()) != 1 || prefs.Materials()[0] != "ceramic" {
		t.Errorf("materials = %v, want [ceramic]", prefs.Materials())
	}
}

func TestBuild_TagCutBeforeBucketing(t *testing.T) {
	now := time.Now()
	// Ten non-vocabulary tags engaged twice each outrank "rustic" (engaged
	// once), so the top-10 cut consumes every slot before bucketing and the
	// style bucket stays empty.
	filler := []string{
		"handmade", "gift", "local", "custom", "unique",
		"artisan", "eco", "small-batch", "signed", "limited",
	}
	b := newBuilder(
		&mockInteractions{rows: []interaction.Interaction{
			interaction.New("u1", "a", interaction.View, now),
			interaction.New("u1", "b", interaction.View, now),
			interaction.New("u1", "c", interaction.View, now),
		}},
		&mockItems{items: map[string]catalog.Item{
			"a": makeItem("a", "pottery", 20, filler...),
			"b": makeItem("b", "pottery", 25, filler...),
			"c": makeItem("c", "pottery", 30, "rustic"),
		}},
	)

	prefs := b.Build(context.Background(), "u1").Preferences()
	if len(prefs.Styles()) != 0 {
		t.Errorf("styles = %v, want empty: rustic ranks 11th and must not survive the cut", prefs.Styles())
	}
	if len(prefs.Colors()) != 0 || len(prefs.Materials()) != 0 {
		t.Errorf("colors = %v, materials = %v, want both empty", prefs.Colors(), prefs.Materials())
	}
}

func TestBuild_CachedUntilInvalidated(t *testing.T) {
	now := time.Now()
	interactions := &mockInteractions{rows: []interaction.Interaction{
		interaction.New("u1", "a", interaction.View, now),
	}}
	b := newBuilder(interactions, &mockItems{items: map[string]catalog.Item{
		"a": makeItem("a", "pottery", 20),
	}})

	b.Build(context.Background(), "u1")
	b.Build(context.Background(), "u1")
	if interactions.calls != 1 {
		t.Errorf("history reads = %d, want 1 (second build cached)", interactions.calls)
	}

	b.Invalidate("u1")
	b.Build(context.Background(), "u1")
	if interactions.calls != 2 {
		t.Errorf("history reads = %d, want 2 after invalidation", interactions.calls)
	}
}

func TestBuild_SearchTermsCarried(t *testing.T) {
	now := time.Now()
	b := newBuilder(
		&mockInteractions{records: []interaction.SearchRecord{
			interaction.NewSearchRecord("u1", "blue mug", 4, now),
			interaction.NewSearchRecord("u1", "gift box", 9, now),
		}},
		&mockItems{},
	)

	p := b.Build(context.Background(), "u1")
	if len(p.Searches()) != 2 || p.Searches()[0] != "blue mug" {
		t.Errorf("searches = %v, want [blue mug gift box]", p.Searches())
	}
}
