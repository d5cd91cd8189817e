// Package interaction persists user engagement and search history as
// bounded, most-recent-first JSON lists.
package interaction

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/makersmarket/discovery/internal/db"
	"github.com/makersmarket/discovery/internal/domain"
	dominter "github.com/makersmarket/discovery/internal/domain/interaction"
)

// Retention bounds. Lists are trimmed on every write so a hot user cannot
// grow a key without bound.
const (
	maxInteractionRows  = 200
	maxSearchRows       = 100
	maxRecentSearchRows = 500
	userKeyScanPattern  = domain.KeyPrefix + "user:*:interactions"
	recentSearchesKey   = domain.KeyPrefix + "searches:recent"
)

func interactionsKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":interactions"
}

func searchesKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":searches"
}

// Store is the list-store surface this repository needs.
type Store interface {
	db.ListStore
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repository reads and writes engagement rows.
type Repository struct {
	store Store
}

// New creates an interaction repository.
func New(store Store) *Repository {
	return &Repository{store: store}
}

// Interactions returns up to limit rows for a user, most recent first.
func (r *Repository) Interactions(ctx context.Context, userID string, limit int) ([]dominter.Interaction, error) {
	raws, err := r.store.LRange(ctx, interactionsKey(userID), 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("interactions of %s: %w", userID, err)
	}
	out := make([]dominter.Interaction, 0, len(raws))
	for _, raw := range raws {
		row, err := decodeInteraction(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Searches returns up to limit search history rows for a user, most recent
// first.
func (r *Repository) Searches(ctx context.Context, userID string, limit int) ([]dominter.SearchRecord, error) {
	raws, err := r.store.LRange(ctx, searchesKey(userID), 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("searches of %s: %w", userID, err)
	}
	out := make([]dominter.SearchRecord, 0, len(raws))
	for _, raw := range raws {
		row, err := decodeSearch(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Favorites returns up to limit item ids the user favorited, most recent
// first, deduplicated.
func (r *Repository) Favorites(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := r.Interactions(ctx, userID, maxInteractionRows)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		if row.Kind() != dominter.Favorite {
			continue
		}
		if _, ok := seen[row.ItemID()]; ok {
			continue
		}
		seen[row.ItemID()] = struct{}{}
		out = append(out, row.ItemID())
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// UsersWithInteractions returns up to limit user ids that have at least one
// interaction row, sorted for determinism.
func (r *Repository) UsersWithInteractions(ctx context.Context, limit int) ([]string, error) {
	keys, err := r.store.Scan(ctx, userKeyScanPattern)
	if err != nil {
		return nil, fmt.Errorf("users with interactions: %w", err)
	}
	users := make([]string, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(key, domain.KeyPrefix+"user:"), ":interactions")
		if id != "" {
			users = append(users, id)
		}
	}
	sort.Strings(users)
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// Record appends an engagement event and trims the user's list.
func (r *Repository) Record(ctx context.Context, row dominter.Interaction) error {
	raw, err := encodeInteraction(row)
	if err != nil {
		return err
	}
	key := interactionsKey(row.UserID())
	if err := r.store.LPush(ctx, key, raw); err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	if err := r.store.LTrim(ctx, key, 0, maxInteractionRows-1); err != nil {
		return fmt.Errorf("trim interactions: %w", err)
	}
	return nil
}

// RecordSearch appends a search history row for the user and mirrors the
// term into the global recent-searches list that feeds suggestions.
func (r *Repository) RecordSearch(ctx context.Context, row dominter.SearchRecord) error {
	raw, err := encodeSearch(row)
	if err != nil {
		return err
	}
	if row.UserID() != "" {
		key := searchesKey(row.UserID())
		if err := r.store.LPush(ctx, key, raw); err != nil {
			return fmt.Errorf("record search: %w", err)
		}
		if err := r.store.LTrim(ctx, key, 0, maxSearchRows-1); err != nil {
			return fmt.Errorf("trim searches: %w", err)
		}
	}
	if err := r.store.LPush(ctx, recentSearchesKey, raw); err != nil {
		return fmt.Errorf("record recent search: %w", err)
	}
	if err := r.store.LTrim(ctx, recentSearchesKey, 0, maxRecentSearchRows-1); err != nil {
		return fmt.Errorf("trim recent searches: %w", err)
	}
	return nil
}

// SearchTerms returns up to limit distinct prior search terms containing
// substr, most recent first, from the global recent-searches list.
func (r *Repository) SearchTerms(ctx context.Context, substr string, limit int) ([]string, error) {
	raws, err := r.store.LRange(ctx, recentSearchesKey, 0, maxRecentSearchRows-1)
	if err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	substr = strings.ToLower(strings.TrimSpace(substr))
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range raws {
		row, err := decodeSearch(raw)
		if err != nil {
			return nil, err
		}
		term := strings.ToLower(strings.TrimSpace(row.Term()))
		if term == "" {
			continue
		}
		if substr != "" && !strings.Contains(term, substr) {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
