// Package query turns raw search text into a structured, expanded query.
// Processing is pure and deterministic: no I/O, fixed vocabularies, fixed
// confidences. Malformed fragments are skipped, never raised as errors.
package query

import (
	"regexp"
	"strings"

	"github.com/makersmarket/discovery/internal/domain/search/processed"
	"github.com/makersmarket/discovery/internal/vocab"
)

var (
	priceRangeRe  = regexp.MustCompile(`\$(\d+(?:\.\d+)?)\s*(?:to|-)\s*\$?(\d+(?:\.\d+)?)`)
	priceSingleRe = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
	nonWordRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// Processor derives entities, intent, keywords, and synonym expansions from
// raw query text.
type Processor struct{}

// New creates a query processor.
func New() *Processor {
	return &Processor{}
}

// Process analyzes a raw query. Empty input yields empty keyword and entity
// sets and browse intent.
func (p *Processor) Process(raw string) processed.Query {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	entities := extractEntities(normalized)
	intent := classifyIntent(normalized)
	keywords := extractKeywords(normalized)
	syns := expandSynonyms(keywords)

	expanded := strings.Join(append(append([]string{}, keywords...), syns...), " ")

	return processed.New(raw, expanded, entities, intent, keywords, syns)
}

// extractEntities finds price expressions and vocabulary matches. Range
// matches claim their span so the single-price pattern does not double-count
// the bounds.
func extractEntities(text string) []processed.Entity {
	var entities []processed.Entity

	rangeSpans := priceRangeRe.FindAllStringIndex(text, -1)
	for _, m := range priceRangeRe.FindAllStringSubmatch(text, -1) {
		entities = append(entities, processed.NewEntity(
			processed.EntityPrice, m[1]+"-"+m[2], priceConfidence,
		))
	}

	for _, loc := range priceSingleRe.FindAllStringSubmatchIndex(text, -1) {
		if insideAny(loc[0], rangeSpans) {
			continue
		}
		entities = append(entities, processed.NewEntity(
			processed.EntityPrice, text[loc[2]:loc[3]], priceConfidence,
		))
	}

	seen := make(map[string]struct{})
	for _, tok := range tokens(text) {
		if _, dup := seen[tok]; dup {
			continue
		}
		switch {
		case vocab.Colors.Has(tok):
			entities = append(entities, processed.NewEntity(processed.EntityColor, tok, colorConfidence))
		case vocab.Materials.Has(tok):
			entities = append(entities, processed.NewEntity(processed.EntityMaterial, tok, materialConfidence))
		case vocab.Sizes.Has(tok):
			entities = append(entities, processed.NewEntity(processed.EntitySize, tok, sizeConfidence))
		}
		seen[tok] = struct{}{}
	}

	return entities
}

func insideAny(pos int, spans [][]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// classifyIntent applies the ordered keyword rules; the first match wins.
func classifyIntent(text string) processed.Intent {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.intent
			}
		}
	}
	return processed.Browse
}

// extractKeywords tokenizes on whitespace, strips non-word characters, and
// drops short tokens and stop words.
func extractKeywords(text string) []string {
	var keywords []string
	for _, tok := range tokens(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// expandSynonyms unions the expansion lists of every keyword with a synonym
// entry, deduplicated, keyword order preserved.
func expandSynonyms(keywords []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		for _, syn := range synonyms[kw] {
			if _, dup := seen[syn]; dup {
				continue
			}
			seen[syn] = struct{}{}
			out = append(out, syn)
		}
	}
	return out
}

func tokens(text string) []string {
	var out []string
	for _, raw := range strings.Fields(text) {
		tok := nonWordRe.ReplaceAllString(raw, "")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
