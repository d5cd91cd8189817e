// Package chi exposes the discovery engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/domain"
	dominter "github.com/makersmarket/discovery/internal/domain/interaction"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	healthuc "github.com/makersmarket/discovery/internal/usecase/health"
	recommenduc "github.com/makersmarket/discovery/internal/usecase/recommend"
	searchuc "github.com/makersmarket/discovery/internal/usecase/search"
)

// InteractionRecorder persists engagement events raised over the API.
type InteractionRecorder interface {
	Record(ctx context.Context, row dominter.Interaction) error
}

// ProfileInvalidator drops a user's cached profile after new engagement.
type ProfileInvalidator interface {
	Invalidate(userID string)
}

// Server handles the HTTP API.
type Server struct {
	search       *searchuc.Service
	recommender  *recommenduc.Composer
	interactions InteractionRecorder
	profiles     ProfileInvalidator
	health       *healthuc.Service
	maxPageSize  int
	logger       *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	recommender *recommenduc.Composer,
	interactions InteractionRecorder,
	profiles ProfileInvalidator,
	health *healthuc.Service,
	maxPageSize int,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:       search,
		recommender:  recommender,
		interactions: interactions,
		profiles:     profiles,
		health:       health,
		maxPageSize:  maxPageSize,
		logger:       logger,
	}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/recommendations", s.handleRecommendations)
	r.Get("/v1/suggest", s.handleSuggest)
	r.Post("/v1/interactions", s.handleInteraction)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	filters, err := filtersFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if s.maxPageSize > 0 && req.Limit > s.maxPageSize {
		req.Limit = s.maxPageSize
	}

	q := query.New(req.Query, filters, req.Limit, req.Offset, req.UserID, req.SessionID)
	resp, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeInternal, "search temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:     resultsToResponse(resp.Results),
		TotalCount:  resp.TotalCount,
		Suggestions: resp.Suggestions,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	context, err := recommend.ParseContext(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if context == recommend.ProductPage && req.ItemID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "item_id is required for product_page context")
		return
	}

	resp := s.recommender.Recommend(r.Context(), recommend.NewRequest(
		req.UserID, context, req.ItemID, req.CartItemIDs, req.ExcludeItems, req.Limit,
	))

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: recommendationsToResponse(resp.Recommendations),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
			return
		}
		limit = parsed
	}

	suggestions := s.search.Suggest(r.Context(), text, limit)
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id and item_id are required")
		return
	}
	kind, err := dominter.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	row := dominter.New(req.UserID, req.ItemID, kind, time.Now())
	if err := s.interactions.Record(r.Context(), row); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.profiles.Invalidate(req.UserID)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, codeItemNotFound, "item not found")
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
