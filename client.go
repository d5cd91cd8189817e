// Package discovery is the search and recommendation engine for the makers
// marketplace. The Client facade wires the store, repositories, and engine
// services behind a small public API; the HTTP daemon in cmd/discoveryd
// exposes the same engine over the wire.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/cache"
	"github.com/makersmarket/discovery/internal/db"
	dbredis "github.com/makersmarket/discovery/internal/db/redis"
	domcat "github.com/makersmarket/discovery/internal/domain/catalog"
	dominter "github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	analyticsrepo "github.com/makersmarket/discovery/internal/repository/analytics"
	catalogrepo "github.com/makersmarket/discovery/internal/repository/catalog"
	interactionrepo "github.com/makersmarket/discovery/internal/repository/interaction"
	suggestrepo "github.com/makersmarket/discovery/internal/repository/suggest"
	profileuc "github.com/makersmarket/discovery/internal/usecase/profile"
	recommenduc "github.com/makersmarket/discovery/internal/usecase/recommend"
	searchuc "github.com/makersmarket/discovery/internal/usecase/search"

	queryuc "github.com/makersmarket/discovery/internal/usecase/query"
	"github.com/makersmarket/discovery/internal/usecase/rank"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the discovery engine entry point for Go callers.
type Client struct {
	store        db.Store
	catalog      *catalogrepo.Repository
	interactions *interactionrepo.Repository
	profiles     *profileuc.Builder
	searchSvc    *searchuc.Service
	recommender  *recommenduc.Composer
}

// New creates a Client and connects to the store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("discovery: store address required (use WithRedis)")
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: create store: %w", err)
	}

	if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("discovery: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	logger := cfg.logger

	catalogRepo := catalogrepo.New(store)
	interactionRepo := interactionrepo.New(store)
	analyticsWriter := analyticsrepo.NewWriter(store, logger)
	suggestionSource := suggestrepo.New(interactionRepo, catalogRepo)

	resultCache := cache.NewResults(cfg.cacheCapacity, cfg.cacheTTL, nil)

	profiles := profileuc.New(interactionRepo, catalogRepo, profileuc.Config{
		TTL:      cfg.profileTTL,
		Capacity: cfg.profileCapacity,
	}, nil, logger)

	searchSvc := searchuc.New(
		queryuc.New(), rank.New(),
		catalogRepo, resultCache, suggestionSource, interactionRepo, analyticsWriter,
		searchuc.Config{
			MaxCandidates:   cfg.maxCandidates,
			SuggestionLimit: cfg.suggestionLimit,
		},
		logger,
	)

	recommender := recommenduc.New(
		catalogRepo, profiles, interactionRepo, analyticsWriter,
		recommenduc.Config{AddOnMaxPrice: cfg.addOnMaxPrice},
		logger,
	)

	return &Client{
		store:        store,
		catalog:      catalogRepo,
		interactions: interactionRepo,
		profiles:     profiles,
		searchSvc:    searchSvc,
		recommender:  recommender,
	}
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search executes a search call.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	filters, err := filtersToDomain(req.Filters)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("discovery: %w", err)
	}
	q := query.New(req.Query, filters, req.Limit, req.Offset, req.UserID, req.SessionID)

	resp, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("discovery: search: %w", err)
	}
	return SearchResponse{
		Results:     resultsFromDomain(resp.Results),
		TotalCount:  resp.TotalCount,
		Suggestions: resp.Suggestions,
	}, nil
}

// Recommend generates a recommendation list. A degraded store yields a
// shorter (possibly empty) list rather than an error.
func (c *Client) Recommend(ctx context.Context, req RecommendationRequest) ([]Recommendation, error) {
	recCtx, err := recommend.ParseContext(req.Context)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	resp := c.recommender.Recommend(ctx, recommend.NewRequest(
		req.UserID, recCtx, req.ItemID, req.CartItemIDs, req.ExcludeItems, req.Limit,
	))
	return recommendationsFromDomain(resp.Recommendations), nil
}

// Suggest returns typeahead suggestions for a partial query.
func (c *Client) Suggest(ctx context.Context, text string, limit int) []string {
	return c.searchSvc.Suggest(ctx, text, limit)
}

// RecordInteraction persists an engagement event and invalidates the user's
// cached profile.
func (c *Client) RecordInteraction(ctx context.Context, userID, itemID, kind string) error {
	parsed, err := dominter.ParseKind(kind)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	row := dominter.New(userID, itemID, parsed, time.Now())
	if err := c.interactions.Record(ctx, row); err != nil {
		return fmt.Errorf("discovery: record interaction: %w", err)
	}
	c.profiles.Invalidate(userID)
	return nil
}

// UpsertItems writes catalog rows to the store, pipelined.
func (c *Client) UpsertItems(ctx context.Context, items ...Item) error {
	rows := make([]domcat.Item, 0, len(items))
	for _, item := range items {
		row, err := itemToDomain(item)
		if err != nil {
			return fmt.Errorf("discovery: %w", err)
		}
		rows = append(rows, row)
	}
	if err := c.catalog.Save(ctx, rows...); err != nil {
		return fmt.Errorf("discovery: upsert items: %w", err)
	}
	return nil
}
