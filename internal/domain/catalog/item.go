// Package catalog holds the catalog item value objects the engine scores and
// recommends. Items are owned and mutated by the external store; the engine
// only reads snapshots.
package catalog

import (
	"fmt"
	"time"
)

// Availability describes how quickly an item can be in the buyer's hands.
type Availability string

const (
	// Available means the item is in stock and ships normally.
	Available Availability = "available"
	// ReadyToday means the item can be picked up the same day.
	ReadyToday Availability = "ready_today"
	// CustomOrder means the item is made to order.
	CustomOrder Availability = "custom_order"
)

// ParseAvailability validates a raw availability string.
func ParseAvailability(s string) (Availability, error) {
	switch Availability(s) {
	case Available, ReadyToday, CustomOrder:
		return Availability(s), nil
	default:
		return "", fmt.Errorf("unknown availability %q", s)
	}
}

// Seller is the summary of an item's seller joined onto catalog rows.
type Seller struct {
	id     string
	name   string
	avatar string
	rating float64
}

// NewSeller creates a seller summary.
func NewSeller(id, name, avatar string, rating float64) Seller {
	return Seller{id: id, name: name, avatar: avatar, rating: rating}
}

// ID returns the seller identifier.
func (s Seller) ID() string { return s.id }

// Name returns the seller display name.
func (s Seller) Name() string { return s.name }

// Avatar returns the seller avatar reference.
func (s Seller) Avatar() string { return s.avatar }

// Rating returns the seller aggregate rating (0-10 scale).
func (s Seller) Rating() float64 { return s.rating }

// Item is a sellable unit.
type Item struct {
	id           string
	title        string
	description  string
	price        float64
	images       []string
	seller       Seller
	category     string
	tags         []string
	locality     string
	availability Availability
	createdAt    time.Time
}

// New creates a catalog item snapshot. Price is clamped to non-negative.
func New(
	id, title, description string, price float64,
	images []string, seller Seller, category string,
	tags []string, locality string, availability Availability,
	createdAt time.Time,
) Item {
	if price < 0 {
		price = 0
	}
	return Item{
		id: id, title: title, description: description, price: price,
		images: images, seller: seller, category: category,
		tags: tags, locality: locality, availability: availability,
		createdAt: createdAt,
	}
}

// ID returns the item identifier.
func (i Item) ID() string { return i.id }

// Title returns the item title.
func (i Item) Title() string { return i.title }

// Description returns the item description.
func (i Item) Description() string { return i.description }

// Price returns the item price.
func (i Item) Price() float64 { return i.price }

// Images returns the ordered image references.
func (i Item) Images() []string { return i.images }

// Seller returns the seller summary.
func (i Item) Seller() Seller { return i.seller }

// Category returns the item category.
func (i Item) Category() string { return i.category }

// Tags returns the free-text tags.
func (i Item) Tags() []string { return i.tags }

// Locality returns the originating locality.
func (i Item) Locality() string { return i.locality }

// Availability returns the availability state.
func (i Item) Availability() Availability { return i.availability }

// CreatedAt returns the listing creation time.
func (i Item) CreatedAt() time.Time { return i.createdAt }
