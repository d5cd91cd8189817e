// Package recommend blends per-context recommendation strategies into a
// single deduplicated, scored list. Every bucket degrades independently: a
// failing strategy is logged and skipped, never fatal to the call.
package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain"
	"github.com/makersmarket/discovery/internal/domain/analytics"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/metrics"
)

// Composer defaults.
const (
	defaultAddOnMaxPrice  = 25
	defaultSimilarUserCap = 20
	defaultFavoritesPull  = 10
	contentCandidatePool  = 50
)

// Config tunes the composer's strategy parameters.
type Config struct {
	AddOnMaxPrice  float64
	SimilarUserCap int
}

// Response is the outcome of a recommendation call.
type Response struct {
	Recommendations []recommend.Recommendation
	Event           analytics.RecommendationEvent
}

// Composer generates recommendation lists.
type Composer struct {
	catalog      CatalogSource
	profiles     ProfileSource
	interactions InteractionSource
	sink         AnalyticsSink
	cfg          Config
	logger       *zap.Logger
}

// New creates a recommendation composer.
func New(
	catalog CatalogSource, profiles ProfileSource,
	interactions InteractionSource, sink AnalyticsSink,
	cfg Config, logger *zap.Logger,
) *Composer {
	if cfg.AddOnMaxPrice <= 0 {
		cfg.AddOnMaxPrice = defaultAddOnMaxPrice
	}
	if cfg.SimilarUserCap <= 0 {
		cfg.SimilarUserCap = defaultSimilarUserCap
	}
	return &Composer{
		catalog: catalog, profiles: profiles,
		interactions: interactions, sink: sink,
		cfg: cfg, logger: logger,
	}
}

// bucket is one strategy's slot in a context mix.
type bucket struct {
	strategy recommend.Strategy
	fraction float64
	generate func(ctx context.Context, n int) ([]recommend.Recommendation, error)
}

// Recommend generates the recommendation list for a request. The call never
// fails outright: a broken strategy loses its bucket, a broken context loses
// everything but still produces an audited empty response.
func (c *Composer) Recommend(ctx context.Context, req recommend.Request) Response {
	started := time.Now()

	blended := c.blend(ctx, req, c.buckets(ctx, req))

	elapsed := time.Since(started)
	event := c.emit(ctx, req, blended, elapsed)
	metrics.RecommendationDuration.WithLabelValues(string(req.Context())).
		Observe(elapsed.Seconds())

	return Response{Recommendations: blended, Event: event}
}

// buckets selects the strategy mix for the request context. Fractions follow
// the product-surface weighting; each bucket size is the fraction of the
// requested limit rounded up, so bucket sums may exceed the limit before the
// final truncation.
func (c *Composer) buckets(ctx context.Context, req recommend.Request) []bucket {
	switch req.Context() {
	case recommend.Homepage:
		if req.UserID() == "" {
			return []bucket{
				{recommend.Trending, 0.6, c.trending},
				{recommend.Trending, 0.4, c.popularByCategory},
			}
		}
		prof := c.profiles.Build(ctx, req.UserID())
		return []bucket{
			{recommend.Personalized, 0.4, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.categoryAffinity(ctx, prof, n)
			}},
			{recommend.SimilarUsers, 0.3, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.collaborative(ctx, prof, n)
			}},
			{recommend.Trending, 0.2, c.trending},
			{recommend.ContentBased, 0.1, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.recentlyViewedSimilar(ctx, prof, n)
			}},
		}
	case recommend.ProductPage:
		return []bucket{
			{recommend.ContentBased, 0.5, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.contentSimilar(ctx, req.ItemID(), n)
			}},
			{recommend.Collaborative, 0.3, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.frequentlyBoughtTogether(ctx, req.ItemID(), n)
			}},
			{recommend.ContentBased, 0.2, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
				return c.sameSeller(ctx, req.ItemID(), n)
			}},
		}
	case recommend.SearchResults:
		return []bucket{{recommend.Trending, 1.0, c.trending}}
	case recommend.Cart:
		return []bucket{{recommend.ContentBased, 1.0, func(ctx context.Context, n int) ([]recommend.Recommendation, error) {
			return c.cartComplementary(ctx, req.CartItemIDs(), n)
		}}}
	case recommend.Checkout:
		return []bucket{{recommend.Trending, 1.0, c.lowCostAddOns}}
	default:
		c.logger.Warn("recommend: unknown context, returning empty",
			zap.String("context", string(req.Context())))
		return nil
	}
}

// blend runs each bucket, then deduplicates by item id (first occurrence
// wins), drops excluded ids, sorts by score descending, and truncates.
func (c *Composer) blend(
	ctx context.Context, req recommend.Request, buckets []bucket,
) []recommend.Recommendation {
	var pooled []recommend.Recommendation
	for _, b := range buckets {
		n := bucketSize(b.fraction, req.Limit())
		recs, err := b.generate(ctx, n)
		if errors.Is(err, domain.ErrNotImplemented) {
			// An unbuilt strategy is not a failure; its slot contributes
			// nothing.
			continue
		}
		if err != nil {
			metrics.StrategyErrorsTotal.WithLabelValues(string(b.strategy)).Inc()
			c.logger.Warn("recommend: strategy bucket failed, degrading",
				zap.String("strategy", string(b.strategy)),
				zap.String("context", string(req.Context())),
				zap.Error(err))
			continue
		}
		pooled = append(pooled, recs...)
	}

	excluded := make(map[string]struct{}, len(req.ExcludeItems()))
	for _, id := range req.ExcludeItems() {
		excluded[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(pooled))
	blended := make([]recommend.Recommendation, 0, len(pooled))
	for _, rec := range pooled {
		id := rec.Item().ID()
		if _, ok := excluded[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		blended = append(blended, rec)
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].Score() > blended[j].Score()
	})
	if len(blended) > req.Limit() {
		blended = blended[:req.Limit()]
	}
	return blended
}

func (c *Composer) emit(
	ctx context.Context, req recommend.Request,
	recs []recommend.Recommendation, elapsed time.Duration,
) analytics.RecommendationEvent {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.Item().ID())
	}
	event := analytics.RecommendationEvent{
		ID:       uuid.NewString(),
		UserID:   req.UserID(),
		Context:  string(req.Context()),
		ItemIDs:  ids,
		Count:    len(recs),
		Duration: elapsed,
		At:       time.Now(),
	}
	c.sink.RecordRecommendation(ctx, event)
	return event
}

func bucketSize(fraction float64, limit int) int {
	return int(math.Ceil(fraction * float64(limit)))
}
