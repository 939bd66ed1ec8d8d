package domain

import (
	"slices"
	"strings"
)

// Filter returns the products satisfying every present criterion.
//
// The input slice is not modified.
func Filter(ps []Product, c FilterCriteria) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if c.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (c FilterCriteria) match(p Product) bool {
	return c.matchCategory(p) &&
		c.matchPrice(p) &&
		intersects(p.Sizes, c.Sizes) &&
		intersects(p.Colors, c.Colors) &&
		c.matchBrand(p)
}

func (c FilterCriteria) matchCategory(p Product) bool {
	return c.Category == "" || strings.EqualFold(p.Category, c.Category)
}

func (c FilterCriteria) matchPrice(p Product) bool {
	if c.PriceRange == nil {
		return true
	}
	if c.PriceRange.Min != nil && p.Price < *c.PriceRange.Min {
		return false
	}
	if c.PriceRange.Max != nil && p.Price > *c.PriceRange.Max {
		return false
	}
	return true
}

// brand match is case-sensitive
func (c FilterCriteria) matchBrand(p Product) bool {
	return len(c.Brands) == 0 || slices.Contains(c.Brands, p.Brand)
}

func intersects(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, v := range have {
		if slices.Contains(want, v) {
			return true
		}
	}
	return false
}

// InCategory reports whether p belongs to category, ignoring case.
func InCategory(p Product, category string) bool {
	return strings.EqualFold(p.Category, category)
}

// Matches reports whether the lowercased query is a substring of the
// title, brand, category, subcategory, description or any tag.
func Matches(p Product, query string) bool {
	q := strings.ToLower(query)
	fields := []string{p.Title, p.Brand, p.Category, p.Subcategory, p.Description}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}
