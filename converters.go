package discovery

import (
	domcat "github.com/makersmarket/discovery/internal/domain/catalog"
	"github.com/makersmarket/discovery/internal/domain/recommend"
	"github.com/makersmarket/discovery/internal/domain/search/query"
	"github.com/makersmarket/discovery/internal/domain/search/result"
)

// openPriceMax is the upper bound used when only PriceMin is given.
const openPriceMax = 1e9

func filtersToDomain(f Filters) (query.Filters, error) {
	var availability domcat.Availability
	if f.Availability != "" {
		parsed, err := domcat.ParseAvailability(f.Availability)
		if err != nil {
			return query.Filters{}, err
		}
		availability = parsed
	}
	var priceRange *query.PriceRange
	if f.PriceMin != nil || f.PriceMax != nil {
		min, max := 0.0, float64(openPriceMax)
		if f.PriceMin != nil {
			min = *f.PriceMin
		}
		if f.PriceMax != nil {
			max = *f.PriceMax
		}
		pr := query.NewPriceRange(min, max)
		priceRange = &pr
	}
	return query.NewFilters(
		f.Category, f.Locality, priceRange, f.Tags,
		availability, query.SortOption(f.Sort),
	), nil
}

func itemFromDomain(item domcat.Item) Item {
	return Item{
		ID:          item.ID(),
		Title:       item.Title(),
		Description: item.Description(),
		Price:       item.Price(),
		Images:      item.Images(),
		Seller: Seller{
			ID:     item.Seller().ID(),
			Name:   item.Seller().Name(),
			Avatar: item.Seller().Avatar(),
			Rating: item.Seller().Rating(),
		},
		Category:     item.Category(),
		Tags:         item.Tags(),
		Locality:     item.Locality(),
		Availability: string(item.Availability()),
		CreatedAt:    item.CreatedAt(),
	}
}

func itemToDomain(item Item) (domcat.Item, error) {
	availability := domcat.Available
	if item.Availability != "" {
		parsed, err := domcat.ParseAvailability(item.Availability)
		if err != nil {
			return domcat.Item{}, err
		}
		availability = parsed
	}
	seller := domcat.NewSeller(item.Seller.ID, item.Seller.Name, item.Seller.Avatar, item.Seller.Rating)
	return domcat.New(
		item.ID, item.Title, item.Description, item.Price, item.Images,
		seller, item.Category, item.Tags, item.Locality, availability,
		item.CreatedAt,
	), nil
}

func resultsFromDomain(results []result.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			Item:       itemFromDomain(r.Item()),
			Relevance:  r.Relevance(),
			Popularity: r.Popularity(),
			Quality:    r.Quality(),
			Composite:  r.Composite(),
		})
	}
	return out
}

func recommendationsFromDomain(recs []recommend.Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Recommendation{
			Item:       itemFromDomain(rec.Item()),
			Score:      rec.Score(),
			Reason:     rec.Reason(),
			Strategy:   string(rec.Strategy()),
			Confidence: rec.Confidence(),
		})
	}
	return out
}
