package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/makersmarket/discovery/internal/domain"
	domcat "github.com/makersmarket/discovery/internal/domain/catalog"
)

// Hash field names of a catalog row.
const (
	fieldTitle        = "title"
	fieldDescription  = "description"
	fieldPrice        = "price"
	fieldImages       = "images"
	fieldSellerID     = "seller_id"
	fieldSellerName   = "seller_name"
	fieldSellerAvatar = "seller_avatar"
	fieldSellerRating = "seller_rating"
	fieldCategory     = "category"
	fieldTags         = "tags"
	fieldLocality     = "locality"
	fieldAvailability = "availability"
	fieldCreatedAt    = "created_at"
)

// itemFromHash decodes a store hash into a catalog item. Rows are validated
// field by field and rejected with a typed decode error instead of carrying
// malformed values into ranking.
func itemFromHash(id string, m map[string]string) (domcat.Item, error) {
	title := m[fieldTitle]
	if title == "" {
		return domcat.Item{}, decodeErr(id, fieldTitle, "missing")
	}

	price, err := strconv.ParseFloat(m[fieldPrice], 64)
	if err != nil {
		return domcat.Item{}, decodeErr(id, fieldPrice, m[fieldPrice])
	}

	images, err := stringList(m[fieldImages])
	if err != nil {
		return domcat.Item{}, decodeErr(id, fieldImages, m[fieldImages])
	}
	tags, err := stringList(m[fieldTags])
	if err != nil {
		return domcat.Item{}, decodeErr(id, fieldTags, m[fieldTags])
	}

	rating := 0.0
	if raw := m[fieldSellerRating]; raw != "" {
		rating, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return domcat.Item{}, decodeErr(id, fieldSellerRating, raw)
		}
	}

	availability := domcat.Available
	if raw := m[fieldAvailability]; raw != "" {
		availability, err = domcat.ParseAvailability(raw)
		if err != nil {
			return domcat.Item{}, decodeErr(id, fieldAvailability, raw)
		}
	}

	var createdAt time.Time
	if raw := m[fieldCreatedAt]; raw != "" {
		createdAt, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return domcat.Item{}, decodeErr(id, fieldCreatedAt, raw)
		}
	}

	seller := domcat.NewSeller(m[fieldSellerID], m[fieldSellerName], m[fieldSellerAvatar], rating)
	return domcat.New(
		id, title, m[fieldDescription], price, images, seller,
		m[fieldCategory], tags, m[fieldLocality], availability, createdAt,
	), nil
}

// buildHashFields flattens a catalog item into the store hash shape.
func buildHashFields(item domcat.Item) map[string]string {
	return map[string]string{
		fieldTitle:        item.Title(),
		fieldDescription:  item.Description(),
		fieldPrice:        strconv.FormatFloat(item.Price(), 'f', -1, 64),
		fieldImages:       mustJSON(item.Images()),
		fieldSellerID:     item.Seller().ID(),
		fieldSellerName:   item.Seller().Name(),
		fieldSellerAvatar: item.Seller().Avatar(),
		fieldSellerRating: strconv.FormatFloat(item.Seller().Rating(), 'f', -1, 64),
		fieldCategory:     item.Category(),
		fieldTags:         mustJSON(item.Tags()),
		fieldLocality:     item.Locality(),
		fieldAvailability: string(item.Availability()),
		fieldCreatedAt:    item.CreatedAt().UTC().Format(time.RFC3339),
	}
}

func stringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func mustJSON(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func decodeErr(id, field string, detail any) error {
	return fmt.Errorf("%w: item %s field %s: %v", domain.ErrDecode, id, field, detail)
}
