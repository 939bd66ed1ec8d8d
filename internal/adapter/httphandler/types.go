package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

type (
	Product struct {
		ID            int64    `json:"id"`
		Title         string   `json:"title"`
		Category      string   `json:"category,omitempty"`
		Subcategory   string   `json:"subcategory,omitempty"`
		Brand         string   `json:"brand,omitempty"`
		Price         float64  `json:"price"`
		OriginalPrice float64  `json:"originalPrice"`
		Discount      float64  `json:"discount"`
		Images        []string `json:"images"`
		Sizes         []string `json:"sizes"`
		Colors        []string `json:"colors"`
		Description   string   `json:"description,omitempty"`
		Rating        *float64 `json:"rating,omitempty"`
		ReviewCount   *int     `json:"reviewCount,omitempty"`
		InStock       bool     `json:"inStock"`
		Tags          []string `json:"tags"`
	}

	FilterOptions struct {
		Categories []string `json:"categories"`
		Brands     []string `json:"brands"`
		Sizes      []string `json:"sizes"`
		Colors     []string `json:"colors"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func fromDomain(p domain.Product) Product {
	return Product{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Brand:         p.Brand,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Images:        nonNil(p.Images),
		Sizes:         nonNil(p.Sizes),
		Colors:        nonNil(p.Colors),
		Description:   p.Description,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		InStock:       p.InStock,
		Tags:          nonNil(p.Tags),
	}
}

func fromDomainAll(ps []domain.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, fromDomain(p))
	}
	return out
}

func fromFacets(f domain.Facets) FilterOptions {
	return FilterOptions{
		Categories: nonNil(f.Categories),
		Brands:     nonNil(f.Brands),
		Sizes:      nonNil(f.Sizes),
		Colors:     nonNil(f.Colors),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
