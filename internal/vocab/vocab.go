// Package vocab holds the fixed domain vocabularies shared by query entity
// extraction and profile tag partitioning. The sets are closed on purpose:
// extraction confidence is calibrated per vocabulary, not learned.
package vocab

// Set is a fixed membership set of lowercase terms.
type Set map[string]struct{}

// Has reports membership of a lowercase term.
func (s Set) Has(term string) bool {
	_, ok := s[term]
	return ok
}

func newSet(terms ...string) Set {
	s := make(Set, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

// Colors is the recognized color vocabulary.
var Colors = newSet(
	"red", "orange", "yellow", "green", "blue", "purple", "pink",
	"black", "white", "grey", "gray", "brown", "beige", "cream",
	"gold", "silver", "copper", "turquoise", "teal", "navy",
)

// Materials is the recognized material vocabulary.
var Materials = newSet(
	"ceramic", "clay", "wood", "wooden", "leather", "wool", "cotton",
	"linen", "silk", "glass", "metal", "brass", "bronze", "stone",
	"marble", "resin", "paper", "felt", "bamboo", "porcelain",
)

// Sizes is the recognized size vocabulary.
var Sizes = newSet(
	"tiny", "small", "medium", "large", "big", "huge",
	"mini", "oversized", "xs", "s", "m", "l", "xl",
)

// Styles is the recognized style vocabulary used for tag affinity buckets.
var Styles = newSet(
	"rustic", "modern", "vintage", "minimalist", "boho", "bohemian",
	"industrial", "scandinavian", "farmhouse", "coastal", "traditional",
	"abstract", "geometric", "floral", "whimsical",
)
