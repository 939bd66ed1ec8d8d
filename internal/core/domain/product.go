package domain

import "time"

type (
	// A Product is the canonical catalog item served to the storefront.
	Product struct {
		ID            int64
		Title         string
		Category      string
		Subcategory   string
		Brand         string
		Price         float64
		OriginalPrice float64
		Discount      float64
		Images        []string
		Sizes         []string
		Colors        []string
		Tags          []string
		Description   string
		Rating        *float64
		ReviewCount   *int
		InStock       bool
	}

	PriceRange struct {
		Min *float64
		Max *float64
	}

	// A FilterCriteria holds optional conditions combined conjunctively.
	//
	// Zero values are no-ops.
	FilterCriteria struct {
		Category   string
		PriceRange *PriceRange
		Sizes      []string
		Colors     []string
		Brands     []string
	}

	Facets struct {
		Categories []string
		Brands     []string
		Sizes      []string
		Colors     []string
	}
)

// HasRating reports whether the product has a rating of at least min.
func (p Product) HasRating(min float64) bool {
	return p.Rating != nil && *p.Rating >= min
}

func (p Product) OnSale() bool {
	return p.Discount > 0
}

type SearchEvent struct {
	Query      string
	Results    int
	ProductIDs []int64
	OccurredAt time.Time
}
