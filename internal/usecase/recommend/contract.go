package recommend

import (
	"context"

	"github.com/makersmarket/discovery/internal/domain/analytics"
	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/profile"
)

// CatalogSource reads candidate items from the external store.
type CatalogSource interface {
	Item(ctx context.Context, id string) (catalog.Item, error)
	Items(ctx context.Context, ids []string) ([]catalog.Item, error)
	ByCategory(ctx context.Context, category string, limit int) ([]catalog.Item, error)
	BySeller(ctx context.Context, sellerID string, limit int) ([]catalog.Item, error)
	Trending(ctx context.Context, limit int) ([]catalog.Item, error)
	LowCost(ctx context.Context, maxPrice float64, limit int) ([]catalog.Item, error)
}

// ProfileSource builds user preference profiles. Implementations never fail:
// a missing or broken history yields an anonymous profile.
type ProfileSource interface {
	Build(ctx context.Context, userID string) profile.Profile
}

// InteractionSource reads the cross-user engagement rows the collaborative
// strategy needs.
type InteractionSource interface {
	UsersWithInteractions(ctx context.Context, limit int) ([]string, error)
	Favorites(ctx context.Context, userID string, limit int) ([]string, error)
}

// AnalyticsSink records audit events, fire-and-forget.
type AnalyticsSink interface {
	RecordRecommendation(ctx context.Context, event analytics.RecommendationEvent)
}
