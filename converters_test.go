package discovery

import (
	"testing"
	"time"
)

func TestFiltersToDomain(t *testing.T) {
	min, max := 10.0, 50.0
	f, err := filtersToDomain(Filters{
		Category:     "pottery",
		Locality:     "springfield",
		PriceMin:     &min,
		PriceMax:     &max,
		Tags:         []string{"blue"},
		Availability: "ready_today",
		Sort:         "price_asc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Category() != "pottery" || f.Locality() != "springfield" {
		t.Errorf("category/locality = %q/%q", f.Category(), f.Locality())
	}
	pr := f.PriceRange()
	if pr == nil || pr.Min() != 10 || pr.Max() != 50 {
		t.Errorf("price range = %v, want [10, 50]", pr)
	}
	if string(f.Availability()) != "ready_today" || string(f.Sort()) != "price_asc" {
		t.Errorf("availability/sort = %q/%q", f.Availability(), f.Sort())
	}
}

func TestFiltersToDomain_MinOnlyOpensUpperBound(t *testing.T) {
	min := 25.0
	f, err := filtersToDomain(Filters{PriceMin: &min})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pr := f.PriceRange()
	if pr == nil || pr.Min() != 25 || !pr.Contains(1e6) {
		t.Errorf("price range = %v, want open upper bound from 25", pr)
	}
}

func TestFiltersToDomain_BadAvailability(t *testing.T) {
	if _, err := filtersToDomain(Filters{Availability: "someday"}); err == nil {
		t.Fatal("expected error for unknown availability")
	}
}

func TestItemRoundTrip(t *testing.T) {
	want := Item{
		ID:          "mug-1",
		Title:       "Blue Ceramic Mug",
		Description: "wheel-thrown",
		Price:       24.5,
		Images:      []string{"a.jpg"},
		Seller:      Seller{ID: "s1", Name: "The Kiln", Rating: 4.5},
		Category:    "pottery",
		Tags:        []string{"blue", "ceramic"},
		Locality:    "springfield",
		CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	row, err := itemToDomain(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := itemFromDomain(row)

	if got.ID != want.ID || got.Title != want.Title || got.Price != want.Price {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Seller != want.Seller {
		t.Errorf("seller = %+v, want %+v", got.Seller, want.Seller)
	}
	// Empty availability defaults on the way in.
	if got.Availability != "available" {
		t.Errorf("availability = %q, want available default", got.Availability)
	}
}
