package search

import (
	"context"

	"github.com/makersmarket/discovery/internal/domain/analytics"
	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
)

// CandidateSource fetches filtered catalog candidates from the external store.
// terms is the expanded term bag from query processing; max bounds how many
// candidates are pulled for ranking.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, q query.Query, terms []string, max int) ([]catalog.Item, error)
}

// ResultCache memoizes ranked result sets per canonical query key.
type ResultCache interface {
	Get(q query.Query) ([]result.Result, bool)
	Put(q query.Query, results []result.Result)
}

// SuggestionSource provides typeahead candidates from prior search terms and
// catalog categories.
type SuggestionSource interface {
	SearchTerms(ctx context.Context, substr string, limit int) ([]string, error)
	Categories(ctx context.Context, substr string, limit int) ([]string, error)
}

// HistoryStore persists executed search terms into the per-user and global
// history lists that feed typeahead suggestions and profile building.
type HistoryStore interface {
	RecordSearch(ctx context.Context, row interaction.SearchRecord) error
}

// AnalyticsSink records audit events. Implementations are fire-and-forget:
// a sink failure must never fail the search.
type AnalyticsSink interface {
	RecordSearch(ctx context.Context, event analytics.SearchEvent)
}
