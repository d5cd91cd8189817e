// Package catalog reads marketplace item rows from the hash keyspace and
// decodes them into domain items at the collaborator boundary.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/makersmarket/discovery/internal/db"
	"github.com/makersmarket/discovery/internal/domain"
	domcat "github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/search/query"
)

const keyPattern = domain.KeyPrefix + "item:*"

func itemKey(id string) string {
	return domain.KeyPrefix + "item:" + id
}

func idFromKey(key string) string {
	return strings.TrimPrefix(key, domain.KeyPrefix+"item:")
}

// Repository reads and writes catalog rows.
type Repository struct {
	hashes db.HashStore
}

// New creates a catalog repository.
func New(hashes db.HashStore) *Repository {
	return &Repository{hashes: hashes}
}

// FetchCandidates scans the item keyspace and returns up to max items that
// pass the structured filters and the case-insensitive text match against
// title, description, and tags. terms is the expanded term bag; the raw query
// text participates in the match as well.
func (r *Repository) FetchCandidates(
	ctx context.Context, q query.Query, terms []string, max int,
) ([]domcat.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	needles := textNeedles(q.Text(), terms)
	out := make([]domcat.Item, 0, max)
	for _, item := range items {
		if len(out) >= max {
			break
		}
		if !matchesFilters(q.Filters(), item) {
			continue
		}
		if !matchesText(needles, item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Item fetches a single catalog item.
func (r *Repository) Item(ctx context.Context, id string) (domcat.Item, error) {
	m, err := r.hashes.HGetAll(ctx, itemKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		return domcat.Item{}, fmt.Errorf("item %s: %w", id, err)
	}
	if len(m) == 0 {
		return domcat.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return itemFromHash(id, m)
}

// Items fetches the listed ids, skipping missing rows.
func (r *Repository) Items(ctx context.Context, ids []string) ([]domcat.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, itemKey(id))
	}
	rows, err := r.hashes.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	out := make([]domcat.Item, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		item, err := itemFromHash(ids[i], m)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ByCategory returns up to limit items in the given category.
func (r *Repository) ByCategory(ctx context.Context, category string, limit int) ([]domcat.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("by category: %w", err)
	}
	var out []domcat.Item
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		if strings.EqualFold(item.Category(), category) {
			out = append(out, item)
		}
	}
	return out, nil
}

// BySeller returns up to limit items listed by a seller.
func (r *Repository) BySeller(ctx context.Context, sellerID string, limit int) ([]domcat.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("by seller: %w", err)
	}
	var out []domcat.Item
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		if item.Seller().ID() == sellerID {
			out = append(out, item)
		}
	}
	return out, nil
}

// Trending returns up to limit items ordered by seller rating, newest first
// on ties. A rating-plus-recency proxy stands in for engagement counters the
// store does not keep yet.
func (r *Repository) Trending(ctx context.Context, limit int) ([]domcat.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Seller().Rating() != items[j].Seller().Rating() {
			return items[i].Seller().Rating() > items[j].Seller().Rating()
		}
		return items[i].CreatedAt().After(items[j].CreatedAt())
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// LowCost returns up to limit items priced at or under maxPrice, cheapest
// first.
func (r *Repository) LowCost(ctx context.Context, maxPrice float64, limit int) ([]domcat.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("low cost: %w", err)
	}
	var out []domcat.Item
	for _, item := range items {
		if item.Price() <= maxPrice {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price() < out[j].Price() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Categories returns up to limit distinct categories containing substr,
// case-insensitive, alphabetical.
func (r *Repository) Categories(ctx context.Context, substr string, limit int) ([]string, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	substr = strings.ToLower(strings.TrimSpace(substr))
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		category := strings.ToLower(item.Category())
		if category == "" {
			continue
		}
		if substr != "" && !strings.Contains(category, substr) {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Save upserts catalog rows, pipelined.
func (r *Repository) Save(ctx context.Context, items ...domcat.Item) error {
	batch := make([]db.HashSetItem, 0, len(items))
	for _, item := range items {
		batch = append(batch, db.HashSetItem{
			Key:    itemKey(item.ID()),
			Fields: buildHashFields(item),
		})
	}
	if err := r.hashes.HSetMulti(ctx, batch); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

// Delete removes a catalog row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.hashes.Del(ctx, itemKey(id)); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

func (r *Repository) scanAll(ctx context.Context) ([]domcat.Item, error) {
	keys, err := r.hashes.Scan(ctx, keyPattern)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys) // scan order is not stable across calls
	rows, err := r.hashes.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, err
	}
	items := make([]domcat.Item, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		item, err := itemFromHash(idFromKey(keys[i]), m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func matchesFilters(f query.Filters, item domcat.Item) bool {
	if f.Category() != "" && !strings.EqualFold(f.Category(), item.Category()) {
		return false
	}
	if f.Locality() != "" && !strings.EqualFold(f.Locality(), item.Locality()) {
		return false
	}
	if pr := f.PriceRange(); pr != nil && !pr.Contains(item.Price()) {
		return false
	}
	if f.Availability() != "" && f.Availability() != item.Availability() {
		return false
	}
	for _, want := range f.Tags() {
		if !hasTag(item.Tags(), want) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func textNeedles(text string, terms []string) []string {
	var out []string
	if t := strings.ToLower(strings.TrimSpace(text)); t != "" {
		out = append(out, t)
	}
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			out = append(out, term)
		}
	}
	return out
}

// matchesText reports whether any needle appears in the item's title,
// description, or tags. An empty needle set matches everything so filter-only
// queries still work.
func matchesText(needles []string, item domcat.Item) bool {
	if len(needles) == 0 {
		return true
	}
	title := strings.ToLower(item.Title())
	description := strings.ToLower(item.Description())
	for _, needle := range needles {
		if strings.Contains(title, needle) || strings.Contains(description, needle) {
			return true
		}
		for _, tag := range item.Tags() {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
	}
	return false
}
