// Package rank scores candidate catalog items against a query on three axes
// and produces a composite ordering.
package rank

import (
	"sort"
	"strings"
	"time"

	"github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
)

// Composite weights for the final ordering.
const (
	relevanceWeight  = 0.5
	popularityWeight = 0.3
	qualityWeight    = 0.2
)

const maxScore = 100

// Ranker scores and orders search candidates. Rank is a total function: no
// I/O, and equal composite scores preserve input order.
type Ranker struct{}

// New creates a ranker.
func New() *Ranker {
	return &Ranker{}
}

// Rank scores every candidate against the query and returns them ordered by
// descending composite score. An empty candidate list yields an empty result
// list.
func (r *Ranker) Rank(candidates []catalog.Item, q query.Query) []result.Result {
	now := time.Now()
	text := strings.ToLower(strings.TrimSpace(q.Text()))
	words := strings.Fields(text)

	results := make([]result.Result, 0, len(candidates))
	for _, item := range candidates {
		rel := relevanceScore(item, text, words)
		pop := popularityScore(item, now)
		qual := qualityScore(item)
		composite := relevanceWeight*rel + popularityWeight*pop + qualityWeight*qual
		results = append(results, result.New(item, rel, pop, qual, composite))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Composite() > results[j].Composite()
	})

	return results
}

// relevanceScore measures text match between the query and the listing.
func relevanceScore(item catalog.Item, text string, words []string) float64 {
	if text == "" {
		return 0
	}

	var score float64
	title := strings.ToLower(item.Title())

	if strings.Contains(title, text) {
		score += 50
		if title == text {
			score += 30
		}
	}
	if strings.Contains(strings.ToLower(item.Description()), text) {
		score += 20
	}
	for _, w := range words {
		for _, tag := range item.Tags() {
			if strings.Contains(strings.ToLower(tag), w) {
				score += 15
				break
			}
		}
	}
	if strings.Contains(strings.ToLower(item.Category()), text) {
		score += 25
	}

	return capScore(score)
}

// popularityScore is a proxy built from seller rating and listing recency.
// True engagement counters (views, favorites, purchases) live in the external
// store and are intentionally not consulted here.
func popularityScore(item catalog.Item, now time.Time) float64 {
	score := item.Seller().Rating() * 10

	age := now.Sub(item.CreatedAt())
	switch {
	case age < 7*24*time.Hour:
		score += 10
	case age < 30*24*time.Hour:
		score += 5
	}

	return capScore(score)
}

// qualityScore rewards complete listings: images, a substantial description,
// tags, and a well-rated seller.
func qualityScore(item catalog.Item) float64 {
	var score float64

	images := float64(len(item.Images())) * 10
	if images > 30 {
		images = 30
	}
	score += images

	switch descLen := len(item.Description()); {
	case descLen > 200:
		score += 20
	case descLen > 100:
		score += 10
	}

	tags := float64(len(item.Tags())) * 5
	if tags > 25 {
		tags = 25
	}
	score += tags

	score += 5 * item.Seller().Rating()

	return capScore(score)
}

func capScore(s float64) float64 {
	if s > maxScore {
		return maxScore
	}
	if s < 0 {
		return 0
	}
	return s
}
