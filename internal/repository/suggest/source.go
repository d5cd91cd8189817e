// Package suggest joins the two suggestion feeds, prior search terms and
// catalog categories, behind one source.
package suggest

import "context"

// TermSource provides prior search terms containing a substring.
type TermSource interface {
	SearchTerms(ctx context.Context, substr string, limit int) ([]string, error)
}

// CategorySource provides catalog categories containing a substring.
type CategorySource interface {
	Categories(ctx context.Context, substr string, limit int) ([]string, error)
}

// Source composes the suggestion feeds.
type Source struct {
	terms      TermSource
	categories CategorySource
}

// New creates a suggestion source.
func New(terms TermSource, categories CategorySource) *Source {
	return &Source{terms: terms, categories: categories}
}

// SearchTerms returns prior search terms containing substr.
func (s *Source) SearchTerms(ctx context.Context, substr string, limit int) ([]string, error) {
	return s.terms.SearchTerms(ctx, substr, limit)
}

// Categories returns catalog categories containing substr.
func (s *Source) Categories(ctx context.Context, substr string, limit int) ([]string, error) {
	return s.categories.Categories(ctx, substr, limit)
}
