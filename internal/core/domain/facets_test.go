package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractFacets(t *testing.T) {
	t.Run("Distinct", func(t *testing.T) {
		f := domain.ExtractFacets(catalog())

		assert.Equal(t, []string{"Shoes", "Hats", "shoes"}, f.Categories)
		assert.Equal(t, []string{"Nike", "Adidas", "Salomon"}, f.Brands)
		assert.Equal(t, []string{"41", "42", "M", "43"}, f.Sizes)
		assert.Equal(t, []string{"black", "white", "red", "brown"}, f.Colors)
	})

	t.Run("SkipsAbsentValues", func(t *testing.T) {
		f := domain.ExtractFacets([]domain.Product{{ID: 1}, {ID: 2, Brand: "Puma"}})

		assert.Empty(t, f.Categories)
		assert.Equal(t, []string{"Puma"}, f.Brands)
		assert.Empty(t, f.Sizes)
		assert.Empty(t, f.Colors)
	})

	t.Run("Empty", func(t *testing.T) {
		f := domain.ExtractFacets(nil)
		assert.NotNil(t, f.Categories)
		assert.Empty(t, f.Categories)
	})
}
