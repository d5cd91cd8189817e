// Package cache provides the time-bounded memoization of ranked search
// results. Keys canonicalize the query and filter fields so logically equal
// requests share an entry. Unlike the usual grow-forever query cache, entries
// are capped with LRU eviction on top of the TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
)

// DefaultTTL is how long a cached result set stays valid.
const DefaultTTL = 5 * time.Minute

// DefaultCapacity bounds the number of distinct cached queries.
const DefaultCapacity = 1024

// Results memoizes ranked result sets per canonical query key. Concurrent
// callers may race to compute the same entry; last write wins, which is
// harmless because entries are pure functions of the key.
type Results struct {
	lru        *expirable.LRU[string, []result.Result]
	cacheTotal *prometheus.CounterVec
}

// NewResults creates a bounded result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); nil disables counting.
func NewResults(capacity int, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Results {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Results{
		lru:        expirable.NewLRU[string, []result.Result](capacity, nil, ttl),
		cacheTotal: cacheTotal,
	}
}

// Get returns the cached result set for a query, if present and fresh.
func (c *Results) Get(q query.Query) ([]result.Result, bool) {
	results, ok := c.lru.Get(Key(q))
	if ok {
		c.inc("hit")
	} else {
		c.inc("miss")
	}
	return results, ok
}

// Put stores a ranked result set for a query.
func (c *Results) Put(q query.Query, results []result.Result) {
	c.lru.Add(Key(q), results)
}

// Len returns the number of live entries.
func (c *Results) Len() int {
	return c.lru.Len()
}

func (c *Results) inc(outcome string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(outcome).Inc()
	}
}

// Key derives the canonical cache key of a query. Filter fields are
// serialized in a fixed order and tag sets are sorted, so field order and
// tag order never cause key drift.
func Key(q query.Query) string {
	f := q.Filters()

	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(strings.ToLower(strings.TrimSpace(q.Text())))
	b.WriteString("|cat=")
	b.WriteString(f.Category())
	b.WriteString("|loc=")
	b.WriteString(f.Locality())
	b.WriteString("|price=")
	if pr := f.PriceRange(); pr != nil {
		b.WriteString(formatFloat(pr.Min()))
		b.WriteByte(':')
		b.WriteString(formatFloat(pr.Max()))
	}
	b.WriteString("|tags=")
	tags := append([]string(nil), f.Tags()...)
	sort.Strings(tags)
	b.WriteString(strings.Join(tags, ","))
	b.WriteString("|avail=")
	b.WriteString(string(f.Availability()))
	b.WriteString("|sort=")
	b.WriteString(string(f.Sort()))
	b.WriteString("|limit=")
	b.WriteString(strconv.Itoa(q.Limit()))
	b.WriteString("|offset=")
	b.WriteString(strconv.Itoa(q.Offset()))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
