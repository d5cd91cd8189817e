// Package profile derives user preference profiles from interaction history.
// A build is a full recomputation over a bounded history window; results are
// memoized per user in an expiring LRU so hot users do not hammer the store.
package profile

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/profile"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/vocab"
)

// Builder defaults.
const (
	DefaultTTL                = 10 * time.Minute
	DefaultCapacity           = 512
	defaultInteractionLimit   = 100
	defaultSearchHistoryLimit = 50

	maxCategories = 5
	maxTags       = 10

	priceLowPercentile  = 0.10
	priceHighPercentile = 0.90
)

// Config tunes the builder's history windows and cache.
type Config struct {
	TTL                time.Duration
	Capacity           int
	InteractionLimit   int
	SearchHistoryLimit int
}

// Builder recomputes and caches user profiles.
type Builder struct {
	interactions InteractionSource
	items        ItemSource
	cache        *expirable.LRU[string, profile.Profile]
	cacheTotal   *prometheus.CounterVec
	cfg          Config
	logger       *zap.Logger
}

// New creates a profile builder. cacheTotal may be nil.
func New(
	interactions InteractionSource, items ItemSource,
	cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger,
) *Builder {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.InteractionLimit <= 0 {
		cfg.InteractionLimit = defaultInteractionLimit
	}
	if cfg.SearchHistoryLimit <= 0 {
		cfg.SearchHistoryLimit = defaultSearchHistoryLimit
	}
	return &Builder{
		interactions: interactions,
		items:        items,
		cache:        expirable.NewLRU[string, profile.Profile](cfg.Capacity, nil, cfg.TTL),
		cacheTotal:   cacheTotal,
		cfg:          cfg,
		logger:       logger,
	}
}

// Build returns the profile for userID, recomputing it from the bounded
// history window on cache miss. An empty userID or any store failure yields
// the anonymous profile rather than an error: recommendation callers always
// get something to work with.
func (b *Builder) Build(ctx context.Context, userID string) profile.Profile {
	now := time.Now()
	if userID == "" {
		return profile.Anonymous("", now)
	}

	if cached, ok := b.cache.Get(userID); ok {
		b.count("hit")
		return cached
	}
	b.count("miss")

	rows, err := b.interactions.Interactions(ctx, userID, b.cfg.InteractionLimit)
	if err != nil {
		b.logger.Warn("profile: interaction history unavailable",
			zap.String("user_id", userID), zap.Error(err))
		return profile.Anonymous(userID, now)
	}

	records, err := b.interactions.Searches(ctx, userID, b.cfg.SearchHistoryLimit)
	if err != nil {
		b.logger.Warn("profile: search history unavailable",
			zap.String("user_id", userID), zap.Error(err))
		records = nil
	}

	if len(rows) == 0 && len(records) == 0 {
		p := profile.Anonymous(userID, now)
		b.cache.Add(userID, p)
		return p
	}

	viewed, purchased := partitionRows(rows)

	items, err := b.items.Items(ctx, viewed)
	if err != nil {
		b.logger.Warn("profile: engaged items unavailable",
			zap.String("user_id", userID), zap.Error(err))
		items = nil
	}

	styles, colors, materials := tagAffinities(items)
	prefs := profile.NewPreferences(
		topCategories(items),
		pricePercentiles(items),
		styles, colors, materials,
	)

	p := profile.New(userID, prefs, viewed, purchased, searchTerms(records), now)
	b.cache.Add(userID, p)
	return p
}

// Invalidate drops the cached profile for a user, forcing the next Build to
// recompute. Called after interaction writes.
func (b *Builder) Invalidate(userID string) {
	b.cache.Remove(userID)
}

func (b *Builder) count(result string) {
	if b.cacheTotal != nil {
		b.cacheTotal.WithLabelValues(result).Inc()
	}
}

// partitionRows splits interactions into deduplicated viewed and purchased id
// lists, most recent first, first occurrence wins. Preferences derive from the
// viewed list; the purchased list is carried for exclusion downstream.
func partitionRows(rows []interaction.Interaction) (viewed, purchased []string) {
	seenViewed := make(map[string]struct{})
	seenPurchased := make(map[string]struct{})
	for _, row := range rows {
		id := row.ItemID()
		switch row.Kind() {
		case interaction.View:
			if _, ok := seenViewed[id]; !ok {
				seenViewed[id] = struct{}{}
				viewed = append(viewed, id)
			}
		case interaction.Purchase:
			if _, ok := seenPurchased[id]; !ok {
				seenPurchased[id] = struct{}{}
				purchased = append(purchased, id)
			}
		}
	}
	return viewed, purchased
}

func searchTerms(records []interaction.SearchRecord) []string {
	terms := make([]string, 0, len(records))
	for _, r := range records {
		terms = append(terms, r.Term())
	}
	return terms
}

// topCategories returns up to five categories by engagement frequency.
// Ties break alphabetically so builds are deterministic.
func topCategories(items []catalog.Item) []string {
	counts := make(map[string]int)
	for _, it := range items {
		if c := it.Category(); c != "" {
			counts[c]++
		}
	}
	ranked := rankByCount(counts)
	if len(ranked) > maxCategories {
		ranked = ranked[:maxCategories]
	}
	return ranked
}

// pricePercentiles estimates the comfortable price band as the 10th and 90th
// percentile of engaged item prices. Index is floor(p*n) clamped to the last
// element, so small histories still produce a sane band.
func pricePercentiles(items []catalog.Item) query.PriceRange {
	if len(items) == 0 {
		return query.NewPriceRange(profile.DefaultPriceMin, profile.DefaultPriceMax)
	}
	prices := make([]float64, 0, len(items))
	for _, it := range items {
		prices = append(prices, it.Price())
	}
	sort.Float64s(prices)
	return query.NewPriceRange(
		prices[percentileIndex(priceLowPercentile, len(prices))],
		prices[percentileIndex(priceHighPercentile, len(prices))],
	)
}

func percentileIndex(p float64, n int) int {
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// tagAffinities frequency-ranks all engaged tags, takes the top ten, and
// partitions that slice into style, color, and material buckets. The cut
// happens before bucketing, so a frequent tag outside every vocabulary still
// consumes a slot. Each surviving tag lands in at most one bucket, checked in
// that order.
func tagAffinities(items []catalog.Item) (styles, colors, materials []string) {
	counts := make(map[string]int)
	for _, it := range items {
		for _, tag := range it.Tags() {
			counts[tag]++
		}
	}
	ranked := rankByCount(counts)
	if len(ranked) > maxTags {
		ranked = ranked[:maxTags]
	}
	for _, tag := range ranked {
		switch {
		case vocab.Styles.Has(tag):
			styles = append(styles, tag)
		case vocab.Colors.Has(tag):
			colors = append(colors, tag)
		case vocab.Materials.Has(tag):
			materials = append(materials, tag)
		}
	}
	return styles, colors, materials
}

func rankByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
