// Package processed holds the derived form of a search query: extracted
// entities, classified intent, keywords, and synonym expansions. Instances
// live only for the duration of a single search call.
package processed

// Intent is the coarse classification of a query's purpose.
type Intent string

const (
	// Purchase indicates buying intent.
	Purchase Intent = "purchase"
	// Gift indicates gift-shopping intent.
	Gift Intent = "gift"
	// Custom indicates a made-to-order request.
	Custom Intent = "custom"
	// Budget indicates price-sensitive intent.
	Budget Intent = "budget"
	// Premium indicates quality-over-price intent.
	Premium Intent = "premium"
	// Browse is the default when no rule matches.
	Browse Intent = "browse"
)

// EntityType names what an extracted entity describes.
type EntityType string

const (
	// EntityPrice is a price or price-range expression.
	EntityPrice EntityType = "price"
	// EntityColor is a color vocabulary match.
	EntityColor EntityType = "color"
	// EntityMaterial is a material vocabulary match.
	EntityMaterial EntityType = "material"
	// EntitySize is a size vocabulary match.
	EntitySize EntityType = "size"
)

// Entity is a typed value extracted from query text.
type Entity struct {
	entityType EntityType
	value      string
	confidence float64
}

// NewEntity creates an extracted entity.
func NewEntity(t EntityType, value string, confidence float64) Entity {
	return Entity{entityType: t, value: value, confidence: confidence}
}

// Type returns the entity type.
func (e Entity) Type() EntityType { return e.entityType }

// Value returns the matched value.
func (e Entity) Value() string { return e.value }

// Confidence returns the extraction confidence.
func (e Entity) Confidence() float64 { return e.confidence }

// Query is the processed form of a raw search query.
type Query struct {
	original string
	expanded string
	entities []Entity
	intent   Intent
	keywords []string
	synonyms []string
}

// New creates a processed query.
func New(
	original, expanded string, entities []Entity,
	intent Intent, keywords, synonyms []string,
) Query {
	return Query{
		original: original, expanded: expanded, entities: entities,
		intent: intent, keywords: keywords, synonyms: synonyms,
	}
}

// Original returns the raw query text.
func (q Query) Original() string { return q.original }

// Expanded returns the expanded-term bag used for candidate retrieval.
func (q Query) Expanded() string { return q.expanded }

// Entities returns the extracted entities.
func (q Query) Entities() []Entity { return q.entities }

// Intent returns the classified intent.
func (q Query) Intent() Intent { return q.intent }

// Keywords returns the extracted keywords.
func (q Query) Keywords() []string { return q.keywords }

// Synonyms returns the synonym expansions.
func (q Query) Synonyms() []string { return q.synonyms }

// Terms returns keywords and synonyms as one bag, keywords first.
func (q Query) Terms() []string {
	terms := make([]string, 0, len(q.keywords)+len(q.synonyms))
	terms = append(terms, q.keywords...)
	terms = append(terms, q.synonyms...)
	return terms
}
