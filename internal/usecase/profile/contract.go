package profile

import (
	"context"

	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/interaction"
)

// InteractionSource reads bounded user history windows from the store.
type InteractionSource interface {
	Interactions(ctx context.Context, userID string, limit int) ([]interaction.Interaction, error)
	Searches(ctx context.Context, userID string, limit int) ([]interaction.SearchRecord, error)
}

// ItemSource resolves item snapshots for the items a user engaged with.
// Unknown ids are skipped, not errored.
type ItemSource interface {
	Items(ctx context.Context, ids []string) ([]catalog.Item, error)
}
