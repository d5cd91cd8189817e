package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/makersmarket/discovery/internal/domain"
	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/profile"
	"github.com/makersmarket/discovery/internal/domain/recommend"
)

// Base scores order strategies against each other inside a blend; items
// within a bucket decay by position so earlier picks win ties.
const (
	baseCategoryAffinity = 90
	baseCollaborative    = 85
	baseTrending         = 80
	baseSameSeller       = 70
	baseLowCost          = 60
)

// categoryAffinity pulls items from the user's top categories, round-robin
// until the bucket is full.
func (c *Composer) categoryAffinity(
	ctx context.Context, prof profile.Profile, n int,
) ([]recommend.Recommendation, error) {
	var out []recommend.Recommendation
	for _, category := range prof.Preferences().Categories() {
		if len(out) >= n {
			break
		}
		items, err := c.catalog.ByCategory(ctx, category, n-len(out))
		if err != nil {
			return nil, fmt.Errorf("category affinity %q: %w", category, err)
		}
		for _, it := range items {
			if len(out) >= n {
				break
			}
			out = append(out, recommend.New(
				it, baseCategoryAffinity-float64(len(out)),
				fmt.Sprintf("Because you browse %s", category),
				recommend.Personalized, 0.8,
			))
		}
	}
	return out, nil
}

// collaborative surfaces items favorited by similar users that the requester
// has not viewed. Similar-user discovery is a placeholder: any other user
// with interaction rows counts, capped. A real similarity computation is a
// product decision that has not been made yet.
func (c *Composer) collaborative(
	ctx context.Context, prof profile.Profile, n int,
) ([]recommend.Recommendation, error) {
	users, err := c.interactions.UsersWithInteractions(ctx, c.cfg.SimilarUserCap+1)
	if err != nil {
		return nil, fmt.Errorf("similar users: %w", err)
	}

	viewed := make(map[string]struct{}, len(prof.Viewed()))
	for _, id := range prof.Viewed() {
		viewed[id] = struct{}{}
	}

	var ids []string
	seen := make(map[string]struct{})
	taken := 0
	for _, user := range users {
		if user == prof.UserID() {
			continue
		}
		if taken >= c.cfg.SimilarUserCap {
			break
		}
		taken++
		favorites, err := c.interactions.Favorites(ctx, user, defaultFavoritesPull)
		if err != nil {
			return nil, fmt.Errorf("favorites of %s: %w", user, err)
		}
		for _, id := range favorites {
			if _, ok := viewed[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) >= n {
			break
		}
	}
	if len(ids) > n {
		ids = ids[:n]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := c.catalog.Items(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("collaborative items: %w", err)
	}
	out := make([]recommend.Recommendation, 0, len(items))
	for i, it := range items {
		out = append(out, recommend.New(
			it, baseCollaborative-float64(i),
			"Favorited by shoppers like you",
			recommend.SimilarUsers, 0.6,
		))
	}
	return out, nil
}

func (c *Composer) trending(ctx context.Context, n int) ([]recommend.Recommendation, error) {
	items, err := c.catalog.Trending(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	out := make([]recommend.Recommendation, 0, len(items))
	for i, it := range items {
		out = append(out, recommend.New(
			it, baseTrending-float64(i),
			"Trending now", recommend.Trending, 0.7,
		))
	}
	return out, nil
}

// popularByCategory is the anonymous-homepage counterpart of category
// affinity: take the best trending item per category until the bucket fills.
func (c *Composer) popularByCategory(ctx context.Context, n int) ([]recommend.Recommendation, error) {
	items, err := c.catalog.Trending(ctx, 3*n)
	if err != nil {
		return nil, fmt.Errorf("popular by category: %w", err)
	}
	seen := make(map[string]struct{})
	var out []recommend.Recommendation
	for _, it := range items {
		if len(out) >= n {
			break
		}
		if _, ok := seen[it.Category()]; ok {
			continue
		}
		seen[it.Category()] = struct{}{}
		out = append(out, recommend.New(
			it, baseTrending-float64(len(out)),
			fmt.Sprintf("Popular in %s", it.Category()),
			recommend.Trending, 0.7,
		))
	}
	return out, nil
}

// recentlyViewedSimilar anchors content similarity on the most recently
// viewed item. No views, no bucket.
func (c *Composer) recentlyViewedSimilar(
	ctx context.Context, prof profile.Profile, n int,
) ([]recommend.Recommendation, error) {
	if len(prof.Viewed()) == 0 {
		return nil, nil
	}
	return c.contentSimilar(ctx, prof.Viewed()[0], n)
}

// contentSimilar scores same-category candidates against the source item and
// takes the top n by similarity.
func (c *Composer) contentSimilar(
	ctx context.Context, sourceID string, n int,
) ([]recommend.Recommendation, error) {
	source, err := c.catalog.Item(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("content source %s: %w", sourceID, err)
	}
	candidates, err := c.catalog.ByCategory(ctx, source.Category(), contentCandidatePool)
	if err != nil {
		return nil, fmt.Errorf("content candidates: %w", err)
	}

	type scored struct {
		item catalog.Item
		sim  float64
	}
	pool := make([]scored, 0, len(candidates))
	for _, it := range candidates {
		if it.ID() == source.ID() {
			continue
		}
		pool = append(pool, scored{item: it, sim: similarity(source, it)})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].sim > pool[j].sim })
	if len(pool) > n {
		pool = pool[:n]
	}

	out := make([]recommend.Recommendation, 0, len(pool))
	for _, s := range pool {
		out = append(out, recommend.New(
			s.item, s.sim*100,
			fmt.Sprintf("Similar to %s", source.Title()),
			recommend.ContentBased, s.sim,
		))
	}
	return out, nil
}

func (c *Composer) sameSeller(ctx context.Context, sourceID string, n int) ([]recommend.Recommendation, error) {
	source, err := c.catalog.Item(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("seller source %s: %w", sourceID, err)
	}
	items, err := c.catalog.BySeller(ctx, source.Seller().ID(), n+1)
	if err != nil {
		return nil, fmt.Errorf("same seller: %w", err)
	}
	var out []recommend.Recommendation
	for _, it := range items {
		if it.ID() == source.ID() || len(out) >= n {
			continue
		}
		out = append(out, recommend.New(
			it, baseSameSeller-float64(len(out)),
			fmt.Sprintf("More from %s", source.Seller().Name()),
			recommend.ContentBased, 0.5,
		))
	}
	return out, nil
}

// frequentlyBoughtTogether is not implemented yet: there is no co-purchase
// aggregation in the store. It keeps its bucket slot so the blend math stays
// exercised; the blend skips the bucket without counting a strategy error.
func (c *Composer) frequentlyBoughtTogether(
	_ context.Context, itemID string, _ int,
) ([]recommend.Recommendation, error) {
	return nil, fmt.Errorf("frequently bought together for %s: %w", itemID, domain.ErrNotImplemented)
}

// complementary is not implemented yet, same standing as
// frequentlyBoughtTogether.
func (c *Composer) complementary(
	_ context.Context, itemID string, _ int,
) ([]recommend.Recommendation, error) {
	return nil, fmt.Errorf("complementary for %s: %w", itemID, domain.ErrNotImplemented)
}

// cartComplementary splits the bucket evenly across the cart line items.
func (c *Composer) cartComplementary(
	ctx context.Context, cartItemIDs []string, n int,
) ([]recommend.Recommendation, error) {
	if len(cartItemIDs) == 0 {
		return nil, nil
	}
	per := int(math.Ceil(float64(n) / float64(len(cartItemIDs))))
	var out []recommend.Recommendation
	for _, id := range cartItemIDs {
		recs, err := c.complementary(ctx, id, per)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func (c *Composer) lowCostAddOns(ctx context.Context, n int) ([]recommend.Recommendation, error) {
	items, err := c.catalog.LowCost(ctx, c.cfg.AddOnMaxPrice, n)
	if err != nil {
		return nil, fmt.Errorf("low-cost add-ons: %w", err)
	}
	out := make([]recommend.Recommendation, 0, len(items))
	for i, it := range items {
		out = append(out, recommend.New(
			it, baseLowCost-float64(i),
			"A little something extra", recommend.Trending, 0.5,
		))
	}
	return out, nil
}

// similarity blends category match, tag overlap, and price proximity.
func similarity(a, b catalog.Item) float64 {
	categoryMatch := 0.0
	if a.Category() != "" && a.Category() == b.Category() {
		categoryMatch = 1
	}
	return 0.4*categoryMatch + 0.4*tagOverlap(a.Tags(), b.Tags()) + 0.2*priceSimilarity(a.Price(), b.Price())
}

// tagOverlap is the shared-tag fraction relative to the larger tag set.
func tagOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	shared := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			shared++
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(shared) / float64(denom)
}

func priceSimilarity(a, b float64) float64 {
	avg := (a + b) / 2
	if avg == 0 {
		return 1
	}
	return math.Max(0, 1-math.Abs(a-b)/avg)
}
