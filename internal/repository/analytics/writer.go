// Package analytics appends audit events to the telemetry streams. Writes
// are fire-and-forget: a failed append is logged and dropped, never surfaced
// to the calling search or recommendation path.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/makersmarket/discovery/internal/db"
	"github.com/makersmarket/discovery/internal/domain"
	domana "github.com/makersmarket/discovery/internal/domain/analytics"
)

// Stream keys.
const (
	searchStreamKey         = domain.KeyPrefix + "analytics:search"
	recommendationStreamKey = domain.KeyPrefix + "analytics:recommendation"
)

// searchEventRow is the persisted JSON shape of a search audit event.
type searchEventRow struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	UserID       string    `json:"user_id,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	ResultsCount int       `json:"results_count"`
	DurationMS   int64     `json:"duration_ms"`
	Category     string    `json:"category,omitempty"`
	Locality     string    `json:"locality,omitempty"`
	At           time.Time `json:"at"`
}

// recommendationEventRow is the persisted JSON shape of a recommendation
// audit event.
type recommendationEventRow struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Context    string    `json:"context"`
	ItemIDs    []string  `json:"item_ids"`
	Count      int       `json:"count"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Writer appends audit events to the telemetry streams.
type Writer struct {
	lists  db.ListStore
	logger *zap.Logger
}

// NewWriter creates an analytics writer.
func NewWriter(lists db.ListStore, logger *zap.Logger) *Writer {
	return &Writer{lists: lists, logger: logger}
}

// RecordSearch appends a search audit event.
func (w *Writer) RecordSearch(ctx context.Context, event domana.SearchEvent) {
	row := searchEventRow{
		ID:           event.ID,
		Query:        event.Query,
		UserID:       event.UserID,
		SessionID:    event.SessionID,
		ResultsCount: event.ResultsCount,
		DurationMS:   event.Duration.Milliseconds(),
		Category:     event.Filters.Category(),
		Locality:     event.Filters.Locality(),
		At:           event.At,
	}
	w.append(ctx, searchStreamKey, row)
}

// RecordRecommendation appends a recommendation audit event.
func (w *Writer) RecordRecommendation(ctx context.Context, event domana.RecommendationEvent) {
	row := recommendationEventRow{
		ID:         event.ID,
		UserID:     event.UserID,
		Context:    event.Context,
		ItemIDs:    event.ItemIDs,
		Count:      event.Count,
		DurationMS: event.Duration.Milliseconds(),
		At:         event.At,
	}
	w.append(ctx, recommendationStreamKey, row)
}

func (w *Writer) append(ctx context.Context, key string, row any) {
	b, err := json.Marshal(row)
	if err != nil {
		w.logger.Warn("analytics: encode failed, dropping event",
			zap.String("stream", key), zap.Error(err))
		return
	}
	if err := w.lists.RPush(ctx, key, string(b)); err != nil {
		w.logger.Warn("analytics: append failed, dropping event",
			zap.String("stream", key), zap.Error(err))
	}
}
