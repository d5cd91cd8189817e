package discovery

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string
	logger   *zap.Logger

	cacheTTL        time.Duration
	cacheCapacity   int
	profileTTL      time.Duration
	profileCapacity int
	maxCandidates   int
	suggestionLimit int
	addOnMaxPrice   float64
}

// WithRedis sets the Redis (or Valkey) connection.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithResultCache tunes the search result cache.
func WithResultCache(ttl time.Duration, capacity int) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
		c.cacheCapacity = capacity
	}
}

// WithProfileCache tunes the user profile cache.
func WithProfileCache(ttl time.Duration, capacity int) Option {
	return func(c *clientConfig) {
		c.profileTTL = ttl
		c.profileCapacity = capacity
	}
}

// WithMaxCandidates bounds how many candidates a search pulls for ranking.
func WithMaxCandidates(n int) Option {
	return func(c *clientConfig) {
		c.maxCandidates = n
	}
}

// WithSuggestionLimit caps the typeahead suggestion list.
func WithSuggestionLimit(n int) Option {
	return func(c *clientConfig) {
		c.suggestionLimit = n
	}
}

// WithAddOnMaxPrice sets the checkout add-on price ceiling.
func WithAddOnMaxPrice(price float64) Option {
	return func(c *clientConfig) {
		c.addOnMaxPrice = price
	}
}
