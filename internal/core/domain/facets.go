package domain

// ExtractFacets collects distinct filter values across ps in first-seen
// order. Empty values are skipped.
func ExtractFacets(ps []Product) Facets {
	var (
		categories = newDistinct()
		brands     = newDistinct()
		sizes      = newDistinct()
		colors     = newDistinct()
	)

	for _, p := range ps {
		categories.add(p.Category)
		brands.add(p.Brand)
		sizes.add(p.Sizes...)
		colors.add(p.Colors...)
	}

	return Facets{
		Categories: categories.values,
		Brands:     brands.values,
		Sizes:      sizes.values,
		Colors:     colors.values,
	}
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{}), values: []string{}}
}

func (d *distinct) add(vs ...string) {
	for _, v := range vs {
		if v == "" {
			continue
		}
		if _, ok := d.seen[v]; ok {
			continue
		}
		d.seen[v] = struct{}{}
		d.values = append(d.values, v)
	}
}
