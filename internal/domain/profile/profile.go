// Package profile holds the derived user preference aggregate. A profile is
// recomputed from the interaction history snapshot on every build, never
// incrementally merged, so staleness is bounded only by cache TTL.
package profile

import (
	"time"

	"github.com/makersmarket/discovery/internal/domain/search/query"
)

// Default price range for users with no engagement history.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 1000
)

// Preferences is the derived preference vector of a user.
type Preferences struct {
	categories []string
	priceRange query.PriceRange
	styles     []string
	colors     []string
	materials  []string
}

// NewPreferences creates a preference vector.
func NewPreferences(
	categories []string, priceRange query.PriceRange,
	styles, colors, materials []string,
) Preferences {
	return Preferences{
		categories: categories, priceRange: priceRange,
		styles: styles, colors: colors, materials: materials,
	}
}

// Categories returns the top affinity categories, strongest first.
func (p Preferences) Categories() []string { return p.categories }

// PriceRange returns the 10th/90th percentile engaged-price estimate.
func (p Preferences) PriceRange() query.PriceRange { return p.priceRange }

// Styles returns the style tag affinities.
func (p Preferences) Styles() []string { return p.styles }

// Colors returns the color tag affinities.
func (p Preferences) Colors() []string { return p.colors }

// Materials returns the material tag affinities.
func (p Preferences) Materials() []string { return p.materials }

// Profile is the behavioral profile of a user.
type Profile struct {
	userID      string
	preferences Preferences
	viewed      []string
	purchased   []string
	searches    []string
	builtAt     time.Time
}

// New creates a profile.
func New(
	userID string, preferences Preferences,
	viewed, purchased, searches []string, builtAt time.Time,
) Profile {
	return Profile{
		userID: userID, preferences: preferences,
		viewed: viewed, purchased: purchased, searches: searches,
		builtAt: builtAt,
	}
}

// Anonymous returns the empty profile used when no history exists or a build
// failed: empty preference arrays and the default price range.
func Anonymous(userID string, builtAt time.Time) Profile {
	return Profile{
		userID: userID,
		preferences: Preferences{
			priceRange: query.NewPriceRange(DefaultPriceMin, DefaultPriceMax),
		},
		builtAt: builtAt,
	}
}

// UserID returns the profiled user.
func (p Profile) UserID() string { return p.userID }

// Preferences returns the derived preference vector.
func (p Profile) Preferences() Preferences { return p.preferences }

// Viewed returns recently viewed item ids, most recent first.
func (p Profile) Viewed() []string { return p.viewed }

// Purchased returns purchased item ids, most recent first.
func (p Profile) Purchased() []string { return p.purchased }

// Searches returns recent search terms, most recent first.
func (p Profile) Searches() []string { return p.searches }

// BuiltAt returns when the profile was derived.
func (p Profile) BuiltAt() time.Time { return p.builtAt }

// HasHistory reports whether the user had any interactions at build time.
func (p Profile) HasHistory() bool {
	return len(p.viewed) > 0 || len(p.purchased) > 0
}
