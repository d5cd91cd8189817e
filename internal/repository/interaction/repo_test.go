package interaction

import (
	"context"
	"strings"
	"testing"
	"time"

	dominter "github.com/makersmarket/discovery/internal/domain/interaction"
)

// memLists is an in-memory list store.
type memLists struct {
	lists map[string][]string
}

func newMemLists() *memLists {
	return &memLists{lists: make(map[string][]string)}
}

func (m *memLists) LPush(_ context.Context, key string, values ...string) error {
	for _, v := range values {
		m.lists[key] = append([]string{v}, m.lists[key]...)
	}
	return nil
}

func (m *memLists) RPush(_ context.Context, key string, values ...string) error {
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *memLists) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	list := m.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	if stop >= int64(len(list)) || stop < 0 {
		stop = int64(len(list)) - 1
	}
	return list[start : stop+1], nil
}

func (m *memLists) LTrim(_ context.Context, key string, start, stop int64) error {
	list := m.lists[key]
	if start >= int64(len(list)) {
		m.lists[key] = nil
		return nil
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	m.lists[key] = list[start : stop+1]
	return nil
}

func (m *memLists) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix, suffix, _ := strings.Cut(pattern, "*")
	var keys []string
	for key := range m.lists {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func TestRecordAndInteractions_RoundTrip(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	at := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	if err := repo.Record(ctx, dominter.New("u1", "mug", dominter.View, at)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.Record(ctx, dominter.New("u1", "vase", dominter.Purchase, at.Add(time.Minute))); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := repo.Interactions(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Most recent first.
	if rows[0].ItemID() != "vase" || rows[0].Kind() != dominter.Purchase {
		t.Errorf("first row = %s/%s, want vase/purchase", rows[0].ItemID(), rows[0].Kind())
	}
	if !rows[0].At().Equal(at.Add(time.Minute)) {
		t.Errorf("at = %v, want %v", rows[0].At(), at.Add(time.Minute))
	}
}

func TestInteractions_LimitBoundsRead(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := repo.Record(ctx, dominter.New("u1", "item", dominter.View, time.Now())); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rows, err := repo.Interactions(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want bounded to 3", len(rows))
	}
}

func TestRecord_TrimsHistory(t *testing.T) {
	store := newMemLists()
	repo := New(store)
	ctx := context.Background()
	for i := 0; i < maxInteractionRows+20; i++ {
		if err := repo.Record(ctx, dominter.New("u1", "item", dominter.View, time.Now())); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if got := len(store.lists[interactionsKey("u1")]); got != maxInteractionRows {
		t.Errorf("stored rows = %d, want trimmed to %d", got, maxInteractionRows)
	}
}

func TestFavorites_FiltersAndDedupes(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	now := time.Now()
	for _, row := range []dominter.Interaction{
		dominter.New("u1", "mug", dominter.Favorite, now),
		dominter.New("u1", "mug", dominter.Favorite, now),
		dominter.New("u1", "vase", dominter.View, now),
		dominter.New("u1", "bowl", dominter.Favorite, now),
	} {
		if err := repo.Record(ctx, row); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := repo.Favorites(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("favorites = %v, want 2 distinct favorited ids", got)
	}
}

func TestUsersWithInteractions(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	for _, user := range []string{"carol", "alice", "bob"} {
		if err := repo.Record(ctx, dominter.New(user, "item", dominter.View, time.Now())); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := repo.UsersWithInteractions(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "alice" || got[1] != "bob" {
		t.Fatalf("users = %v, want [alice bob]", got)
	}
}

func TestRecordSearch_FeedsUserAndGlobalHistory(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	now := time.Now()
	for _, row := range []dominter.SearchRecord{
		dominter.NewSearchRecord("u1", "blue pottery", 4, now),
		dominter.NewSearchRecord("u2", "pottery wheel", 2, now),
		dominter.NewSearchRecord("", "wooden bench", 7, now),
	} {
		if err := repo.RecordSearch(ctx, row); err != nil {
			t.Fatalf("record search: %v", err)
		}
	}

	records, err := repo.Searches(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Term() != "blue pottery" {
		t.Fatalf("u1 searches = %v, want their own history only", records)
	}

	terms, err := repo.SearchTerms(ctx, "pottery", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("terms = %v, want both pottery searches from the global list", terms)
	}
}

func TestSearchTerms_DedupesAndCaps(t *testing.T) {
	repo := New(newMemLists())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := repo.RecordSearch(ctx, dominter.NewSearchRecord("u1", "Pottery", 1, time.Now())); err != nil {
			t.Fatalf("record search: %v", err)
		}
	}

	terms, err := repo.SearchTerms(ctx, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 1 || terms[0] != "pottery" {
		t.Fatalf("terms = %v, want single lowercased entry", terms)
	}
}
