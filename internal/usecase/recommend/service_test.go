package recommend

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain/analytics"
	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/profile"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/metrics"
)

// --- Mocks ---

type mockCatalog struct {
	byID       map[string]catalog.Item
	byCategory map[string][]catalog.Item
	bySeller   map[string][]catalog.Item
	trending   []catalog.Item
	lowCost    []catalog.Item

	trendingErr error
	categoryErr error
}

func (m *mockCatalog) Item(_ context.Context, id string) (catalog.Item, error) {
	it, ok := m.byID[id]
	if !ok {
		return catalog.Item{}, errors.New("not found")
	}
	return it, nil
}

func (m *mockCatalog) Items(_ context.Context, ids []string) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, id := range ids {
		if it, ok := m.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockCatalog) ByCategory(_ context.Context, category string, limit int) ([]catalog.Item, error) {
	if m.categoryErr != nil {
		return nil, m.categoryErr
	}
	items := m.byCategory[category]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockCatalog) BySeller(_ context.Context, sellerID string, limit int) ([]catalog.Item, error) {
	items := m.bySeller[sellerID]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockCatalog) Trending(_ context.Context, limit int) ([]catalog.Item, error) {
	if m.trendingErr != nil {
		return nil, m.trendingErr
	}
	items := m.trending
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockCatalog) LowCost(_ context.Context, maxPrice float64, limit int) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, it := range m.lowCost {
		if it.Price() <= maxPrice && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

type mockProfiles struct {
	prof profile.Profile
}

func (m *mockProfiles) Build(_ context.Context, _ string) profile.Profile {
	return m.prof
}

type mockInteractions struct {
	users     []string
	favorites map[string][]string
}

func (m *mockInteractions) UsersWithInteractions(_ context.Context, limit int) ([]string, error) {
	users := m.users
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *mockInteractions) Favorites(_ context.Context, userID string, _ int) ([]string, error) {
	return m.favorites[userID], nil
}

type mockSink struct {
	events []analytics.RecommendationEvent
}

func (m *mockSink) RecordRecommendation(_ context.Context, event analytics.RecommendationEvent) {
	m.events = append(m.events, event)
}

func makeItem(id, category string, price float64, tags ...string) catalog.Item {
	return catalog.New(
		id, "Item "+id, "", price, nil,
		catalog.NewSeller("s1", "The Kiln", "", 4.5),
		category, tags, "springfield", catalog.Available, time.Now(),
	)
}

func knownProfile() profile.Profile {
	return profile.New(
		"u1",
		profile.NewPreferences([]string{"pottery"}, query.NewPriceRange(10, 60), nil, nil, nil),
		[]string{"v1"}, nil, nil, time.Now(),
	)
}

func newComposer(cat *mockCatalog, profiles *mockProfiles, interactions *mockInteractions, sink *mockSink) *Composer {
	return New(cat, profiles, interactions, sink, Config{}, zap.NewNop())
}

// --- Tests ---

func TestRecommend_HomepageKnownUserBlendsStrategies(t *testing.T) {
	cat := &mockCatalog{
		byID: map[string]catalog.Item{
			"v1":  makeItem("v1", "pottery", 30, "rustic"),
			"fav": makeItem("fav", "pottery", 35),
		},
		byCategory: map[string][]catalog.Item{"pottery": {
			makeItem("p1", "pottery", 20), makeItem("p2", "pottery", 25),
			makeItem("v1", "pottery", 30, "rustic"),
		}},
		trending: []catalog.Item{makeItem("t1", "woodwork", 50)},
	}
	interactions := &mockInteractions{
		users:     []string{"u1", "u2"},
		favorites: map[string][]string{"u2": {"fav", "v1"}},
	}
	c := newComposer(cat, &mockProfiles{prof: knownProfile()}, interactions, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.Homepage, "", nil, nil, 10))

	ids := make(map[string]int)
	strategies := make(map[recommend.Strategy]bool)
	for _, rec := range resp.Recommendations {
		ids[rec.Item().ID()]++
		strategies[rec.Strategy()] = true
	}
	for id, n := range ids {
		if n > 1 {
			t.Errorf("item %s appears %d times, want deduplicated", id, n)
		}
	}
	// v1 was viewed already so the similar-user bucket must not resurface it,
	// but the category bucket may; fav must come through similar users.
	if ids["fav"] != 1 {
		t.Error("expected similar-user pick 'fav' in blend")
	}
	if !strategies[recommend.Personalized] || !strategies[recommend.SimilarUsers] || !strategies[recommend.Trending] {
		t.Errorf("strategies in blend = %v, want personalized+similar_users+trending", strategies)
	}
	for i := 1; i < len(resp.Recommendations); i++ {
		if resp.Recommendations[i].Score() > resp.Recommendations[i-1].Score() {
			t.Fatal("blend not sorted by score descending")
		}
	}
}

func TestRecommend_HomepageAnonymousFallsBackToTrending(t *testing.T) {
	cat := &mockCatalog{trending: []catalog.Item{
		makeItem("t1", "pottery", 20),
		makeItem("t2", "woodwork", 30),
		makeItem("t3", "pottery", 40),
	}}
	c := newComposer(cat, &mockProfiles{prof: profile.Anonymous("", time.Now())}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("", recommend.Homepage, "", nil, nil, 6))

	if len(resp.Recommendations) == 0 {
		t.Fatal("expected trending fallback for anonymous user")
	}
	for _, rec := range resp.Recommendations {
		if rec.Strategy() != recommend.Trending {
			t.Errorf("strategy = %s, want trending only for anonymous homepage", rec.Strategy())
		}
	}
}

func TestRecommend_ProductPageContentSimilarity(t *testing.T) {
	source := makeItem("src", "pottery", 30, "rustic", "blue")
	twin := makeItem("twin", "pottery", 30, "rustic", "blue")
	far := makeItem("far", "pottery", 300)
	cat := &mockCatalog{
		byID:       map[string]catalog.Item{"src": source},
		byCategory: map[string][]catalog.Item{"pottery": {source, far, twin}},
		bySeller:   map[string][]catalog.Item{"s1": {source, twin}},
	}
	c := newComposer(cat, &mockProfiles{}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.ProductPage, "src", nil, nil, 4))

	if len(resp.Recommendations) == 0 {
		t.Fatal("expected content-similar recommendations")
	}
	if got := resp.Recommendations[0].Item().ID(); got != "twin" {
		t.Errorf("top pick = %s, want twin (identical tags and price)", got)
	}
	for _, rec := range resp.Recommendations {
		if rec.Item().ID() == "src" {
			t.Error("source item must never recommend itself")
		}
	}
}

func TestRecommend_CheckoutExcludesCartItems(t *testing.T) {
	cat := &mockCatalog{lowCost: []catalog.Item{
		makeItem("x", "pottery", 15),
		makeItem("y", "pottery", 20),
		makeItem("z", "pottery", 90),
	}}
	c := newComposer(cat, &mockProfiles{}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.Checkout, "", nil, []string{"x"}, 10))

	for _, rec := range resp.Recommendations {
		if rec.Item().ID() == "x" {
			t.Error("excluded item 'x' appeared in response")
		}
		if rec.Item().Price() > 25 {
			t.Errorf("item %s at %.2f exceeds the add-on price ceiling", rec.Item().ID(), rec.Item().Price())
		}
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("recommendations = %d, want only 'y'", len(resp.Recommendations))
	}
}

func TestRecommend_CartComplementaryIsEmptyStub(t *testing.T) {
	c := newComposer(&mockCatalog{}, &mockProfiles{}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.Cart, "", []string{"a", "b"}, nil, 10))

	if len(resp.Recommendations) != 0 {
		t.Errorf("cart context = %d recommendations, want 0 until complementary lands", len(resp.Recommendations))
	}
	if resp.Event.Count != 0 {
		t.Errorf("audited count = %d, want 0", resp.Event.Count)
	}
}

func TestRecommend_UnbuiltBucketIsNotAStrategyError(t *testing.T) {
	source := makeItem("src", "pottery", 30)
	cat := &mockCatalog{
		byID:       map[string]catalog.Item{"src": source},
		byCategory: map[string][]catalog.Item{"pottery": {source}},
	}
	c := newComposer(cat, &mockProfiles{}, &mockInteractions{}, &mockSink{})

	errorsBefore := testutil.ToFloat64(
		metrics.StrategyErrorsTotal.WithLabelValues(string(recommend.Collaborative)))

	// The frequently-bought-together slot on a product page is unbuilt; the
	// blend skips it without charging a strategy error.
	c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.ProductPage, "src", nil, nil, 4))

	errorsAfter := testutil.ToFloat64(
		metrics.StrategyErrorsTotal.WithLabelValues(string(recommend.Collaborative)))
	if errorsAfter != errorsBefore {
		t.Errorf("strategy errors = %v, want unchanged %v for an unbuilt bucket", errorsAfter, errorsBefore)
	}
}

func TestRecommend_FailingBucketDegrades(t *testing.T) {
	cat := &mockCatalog{
		trendingErr: errors.New("store down"),
		byCategory: map[string][]catalog.Item{"pottery": {
			makeItem("p1", "pottery", 20),
		}},
		byID: map[string]catalog.Item{"v1": makeItem("v1", "pottery", 30)},
	}
	c := newComposer(cat, &mockProfiles{prof: knownProfile()}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.Homepage, "", nil, nil, 10))

	if len(resp.Recommendations) == 0 {
		t.Fatal("one failing bucket must not blank the response")
	}
	for _, rec := range resp.Recommendations {
		if rec.Strategy() == recommend.Trending {
			t.Error("trending bucket failed, its items should be absent")
		}
	}
}

func TestRecommend_TruncatesToLimit(t *testing.T) {
	var trending []catalog.Item
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		trending = append(trending, makeItem(id, "pottery", 20))
	}
	c := newComposer(&mockCatalog{trending: trending}, &mockProfiles{}, &mockInteractions{}, &mockSink{})

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("", recommend.SearchResults, "", nil, nil, 3))

	if len(resp.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want truncated to 3", len(resp.Recommendations))
	}
}

func TestRecommend_EmitsAnalytics(t *testing.T) {
	sink := &mockSink{}
	c := newComposer(&mockCatalog{trending: []catalog.Item{makeItem("a", "pottery", 20)}},
		&mockProfiles{}, &mockInteractions{}, sink)

	resp := c.Recommend(context.Background(),
		recommend.NewRequest("u1", recommend.SearchResults, "", nil, nil, 5))

	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want 1", len(sink.events))
	}
	event := sink.events[0]
	if event.Context != "search_results" || event.Count != len(resp.Recommendations) {
		t.Errorf("event = %+v, want search_results context with matching count", event)
	}
	if event.ID == "" {
		t.Error("event id must be set")
	}
}

func TestSimilarity(t *testing.T) {
	a := makeItem("a", "pottery", 30, "rustic", "blue")

	if got := similarity(a, makeItem("b", "pottery", 30, "rustic", "blue")); got != 1.0 {
		t.Errorf("identical items similarity = %v, want 1.0", got)
	}
	// Same category, no shared tags, identical price: 0.4 + 0 + 0.2.
	if got := similarity(a, makeItem("c", "pottery", 30, "modern")); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("similarity = %v, want 0.6", got)
	}
	if got := similarity(a, makeItem("d", "woodwork", 30)); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("cross-category similarity = %v, want 0.2", got)
	}
}

func TestPriceSimilarity(t *testing.T) {
	if got := priceSimilarity(30, 30); got != 1 {
		t.Errorf("equal prices = %v, want 1", got)
	}
	// |20-40|/30 = 2/3 away.
	if got := priceSimilarity(20, 40); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("priceSimilarity(20,40) = %v, want 1/3", got)
	}
	if got := priceSimilarity(1, 100); got != 0 {
		t.Errorf("far prices = %v, want clamped to 0", got)
	}
	if got := priceSimilarity(0, 0); got != 1 {
		t.Errorf("free items = %v, want 1", got)
	}
}

func TestTagOverlap(t *testing.T) {
	if got := tagOverlap([]string{"a", "b"}, []string{"a", "b", "c", "d"}); got != 0.5 {
		t.Errorf("overlap = %v, want 0.5 (shared over larger set)", got)
	}
	if got := tagOverlap(nil, []string{"a"}); got != 0 {
		t.Errorf("empty overlap = %v, want 0", got)
	}
}
