// Package search owns the end-to-end search call: cache lookup, query
// processing, candidate retrieval, ranking, suggestion generation, and
// analytics emission.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain/analytics"
	"github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
	"github.com/makersmarket/discovery/internal/metrics"
	queryuc "github.com/makersmarket/discovery/internal/usecase/query"
	"github.com/makersmarket/discovery/internal/usecase/rank"
)

// Config bounds the search pipeline.
type Config struct {
	MaxCandidates   int
	SuggestionLimit int
}

const (
	defaultMaxCandidates   = 200
	defaultSuggestionLimit = 8
)

// Response is the outcome of a single search call.
type Response struct {
	Results     []result.Result
	TotalCount  int
	Suggestions []string
	Event       analytics.SearchEvent
}

// Service orchestrates search calls.
type Service struct {
	processor   *queryuc.Processor
	ranker      *rank.Ranker
	source      CandidateSource
	cache       ResultCache
	suggestions SuggestionSource
	history     HistoryStore
	sink        AnalyticsSink
	cfg         Config
	logger      *zap.Logger
}

// New creates a search service.
func New(
	processor *queryuc.Processor,
	ranker *rank.Ranker,
	source CandidateSource,
	cache ResultCache,
	suggestions SuggestionSource,
	history HistoryStore,
	sink AnalyticsSink,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultMaxCandidates
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = defaultSuggestionLimit
	}
	return &Service{
		processor: processor, ranker: ranker, source: source,
		cache: cache, suggestions: suggestions, history: history,
		sink: sink, cfg: cfg, logger: logger,
	}
}

// Search executes a search call. A fresh cache entry short-circuits query
// processing, candidate retrieval, and ranking; suggestions are regenerated
// on every call regardless of cache state. A retrieval failure is logged,
// audited with a zero result count, and then surfaced to the caller.
func (s *Service) Search(ctx context.Context, q query.Query) (Response, error) {
	start := time.Now()

	if ranked, ok := s.cache.Get(q); ok {
		page := paginate(ranked, q.Offset(), q.Limit())
		resp := Response{
			Results:     page,
			TotalCount:  len(ranked),
			Suggestions: s.suggest(ctx, q.Text()),
		}
		resp.Event = s.emit(ctx, q, len(page), start)
		s.recordHistory(ctx, q, len(ranked))

		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		metrics.SearchResultsTotal.Observe(float64(len(page)))

		return resp, nil
	}

	pq := s.processor.Process(q.Text())

	candidates, err := s.source.FetchCandidates(ctx, q, pq.Terms(), s.cfg.MaxCandidates)
	if err != nil {
		s.logger.Error("Candidate retrieval failed",
			zap.String("query", q.Text()),
			zap.Error(err),
		)
		s.emit(ctx, q, 0, start)
		return Response{}, fmt.Errorf("fetch candidates: %w", err)
	}

	ranked := s.ranker.Rank(candidates, q)
	ranked = applySort(ranked, q.Filters().Sort())
	s.cache.Put(q, ranked)

	page := paginate(ranked, q.Offset(), q.Limit())
	resp := Response{
		Results:     page,
		TotalCount:  len(ranked),
		Suggestions: s.suggest(ctx, q.Text()),
	}
	resp.Event = s.emit(ctx, q, len(page), start)
	s.recordHistory(ctx, q, len(ranked))

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResultsTotal.Observe(float64(len(page)))

	return resp, nil
}

// Suggest returns typeahead suggestions for a partial query. A non-positive
// limit falls back to the configured suggestion cap.
func (s *Service) Suggest(ctx context.Context, text string, limit int) []string {
	if limit <= 0 || limit > s.cfg.SuggestionLimit {
		limit = s.cfg.SuggestionLimit
	}
	return s.suggestLimited(ctx, text, limit)
}

// suggest merges prior search terms and category names containing the input,
// deduplicated and capped. Suggestion source failures degrade to a shorter
// list, never to a failed search.
func (s *Service) suggest(ctx context.Context, text string) []string {
	return s.suggestLimited(ctx, text, s.cfg.SuggestionLimit)
}

func (s *Service) suggestLimited(ctx context.Context, text string, limit int) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	out := make([]string, 0, limit)
	seen := make(map[string]struct{})

	add := func(values []string) {
		for _, v := range values {
			if len(out) >= limit {
				return
			}
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	terms, err := s.suggestions.SearchTerms(ctx, text, limit)
	if err != nil {
		s.logger.Warn("Search term suggestions failed", zap.Error(err))
	}
	add(terms)

	categories, err := s.suggestions.Categories(ctx, text, limit)
	if err != nil {
		s.logger.Warn("Category suggestions failed", zap.Error(err))
	}
	add(categories)

	return out
}

// recordHistory appends the executed term to the search history lists so
// later calls can suggest it. Write failures are logged and dropped.
func (s *Service) recordHistory(ctx context.Context, q query.Query, totalCount int) {
	text := strings.TrimSpace(q.Text())
	if text == "" {
		return
	}
	row := interaction.NewSearchRecord(q.UserID(), text, totalCount, time.Now())
	if err := s.history.RecordSearch(ctx, row); err != nil {
		s.logger.Warn("Search history write failed",
			zap.String("query", text), zap.Error(err))
	}
}

func (s *Service) emit(ctx context.Context, q query.Query, resultsCount int, start time.Time) analytics.SearchEvent {
	event := analytics.SearchEvent{
		ID:           uuid.NewString(),
		Query:        q.Text(),
		UserID:       q.UserID(),
		SessionID:    q.SessionID(),
		ResultsCount: resultsCount,
		Duration:     time.Since(start),
		Filters:      q.Filters(),
		At:           time.Now(),
	}
	s.sink.RecordSearch(ctx, event)
	return event
}

// applySort re-orders a composite-ranked list when the caller asked for a
// non-relevance ordering. Ties keep the composite order.
func applySort(ranked []result.Result, opt query.SortOption) []result.Result {
	switch opt {
	case query.SortPriceAsc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Item().Price() < ranked[j].Item().Price()
		})
	case query.SortPriceDesc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Item().Price() > ranked[j].Item().Price()
		})
	case query.SortNewest:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Item().CreatedAt().After(ranked[j].Item().CreatedAt())
		})
	case query.SortRelevance:
	}
	return ranked
}

func paginate(ranked []result.Result, offset, limit int) []result.Result {
	if offset >= len(ranked) {
		return nil
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end]
}
