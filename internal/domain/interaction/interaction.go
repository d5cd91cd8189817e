// Package interaction holds the user behavior rows the profile builder reads.
package interaction

import (
	"fmt"
	"time"
)

// Kind classifies an interaction row.
type Kind string

const (
	// View records that a user opened an item.
	View Kind = "view"
	// Purchase records that a user bought an item.
	Purchase Kind = "purchase"
	// Favorite records that a user favorited an item.
	Favorite Kind = "favorite"
)

// ParseKind validates a raw interaction kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case View, Purchase, Favorite:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown interaction kind %q", s)
	}
}

// Interaction is a single user-item event.
type Interaction struct {
	userID string
	itemID string
	kind   Kind
	at     time.Time
}

// New creates an interaction row.
func New(userID, itemID string, kind Kind, at time.Time) Interaction {
	return Interaction{userID: userID, itemID: itemID, kind: kind, at: at}
}

// UserID returns the acting user.
func (i Interaction) UserID() string { return i.userID }

// ItemID returns the item acted on.
func (i Interaction) ItemID() string { return i.itemID }

// Kind returns the interaction kind.
func (i Interaction) Kind() Kind { return i.kind }

// At returns the event time.
func (i Interaction) At() time.Time { return i.at }

// SearchRecord is a single entry of a user's search history.
type SearchRecord struct {
	userID      string
	term        string
	resultCount int
	at          time.Time
}

// NewSearchRecord creates a search history row.
func NewSearchRecord(userID, term string, resultCount int, at time.Time) SearchRecord {
	return SearchRecord{userID: userID, term: term, resultCount: resultCount, at: at}
}

// UserID returns the searching user.
func (s SearchRecord) UserID() string { return s.userID }

// Term returns the search text.
func (s SearchRecord) Term() string { return s.term }

// ResultCount returns how many results the search produced.
func (s SearchRecord) ResultCount() int { return s.resultCount }

// At returns the search time.
func (s SearchRecord) At() time.Time { return s.at }
