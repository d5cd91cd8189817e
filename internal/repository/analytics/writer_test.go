package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domana "github.com/makersmarket/discovery/internal/domain/analytics"
)

type mockLists struct {
	pushed  map[string][]string
	pushErr error
}

func newMockLists() *mockLists {
	return &mockLists{pushed: make(map[string][]string)}
}

func (m *mockLists) LPush(_ context.Context, key string, values ...string) error { return nil }

func (m *mockLists) RPush(_ context.Context, key string, values ...string) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed[key] = append(m.pushed[key], values...)
	return nil
}

func (m *mockLists) LRange(_ context.Context, _ string, _, _ int64) ([]string, error) {
	return nil, nil
}

func (m *mockLists) LTrim(_ context.Context, _ string, _, _ int64) error { return nil }

func TestRecordSearch_AppendsJSON(t *testing.T) {
	lists := newMockLists()
	w := NewWriter(lists, zap.NewNop())

	w.RecordSearch(context.Background(), domana.SearchEvent{
		ID:           "evt-1",
		Query:        "blue pottery",
		UserID:       "u1",
		ResultsCount: 4,
		Duration:     12 * time.Millisecond,
		At:           time.Now(),
	})

	rows := lists.pushed[searchStreamKey]
	if len(rows) != 1 {
		t.Fatalf("appended rows = %d, want 1", len(rows))
	}
	var row searchEventRow
	if err := json.Unmarshal([]byte(rows[0]), &row); err != nil {
		t.Fatalf("row is not valid JSON: %v", err)
	}
	if row.ID != "evt-1" || row.Query != "blue pottery" || row.ResultsCount != 4 || row.DurationMS != 12 {
		t.Errorf("row = %+v, want the event fields carried over", row)
	}
}

func TestRecordRecommendation_AppendsJSON(t *testing.T) {
	lists := newMockLists()
	w := NewWriter(lists, zap.NewNop())

	w.RecordRecommendation(context.Background(), domana.RecommendationEvent{
		ID:      "evt-2",
		Context: "homepage",
		ItemIDs: []string{"a", "b"},
		Count:   2,
		At:      time.Now(),
	})

	rows := lists.pushed[recommendationStreamKey]
	if len(rows) != 1 {
		t.Fatalf("appended rows = %d, want 1", len(rows))
	}
	var row recommendationEventRow
	if err := json.Unmarshal([]byte(rows[0]), &row); err != nil {
		t.Fatalf("row is not valid JSON: %v", err)
	}
	if row.Context != "homepage" || row.Count != 2 || len(row.ItemIDs) != 2 {
		t.Errorf("row = %+v, want the event fields carried over", row)
	}
}

func TestRecord_PushFailureIsSwallowed(t *testing.T) {
	lists := newMockLists()
	lists.pushErr = errors.New("stream full")
	w := NewWriter(lists, zap.NewNop())

	// Must not panic and must not propagate anywhere.
	w.RecordSearch(context.Background(), domana.SearchEvent{ID: "evt-3"})
	w.RecordRecommendation(context.Background(), domana.RecommendationEvent{ID: "evt-4"})
}
