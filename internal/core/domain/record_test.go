package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNormalize(t *testing.T) {
	t.Run("Example", func(t *testing.T) {
		r := domain.Record{
			ID:     ptr(int64(7)),
			Title:  ptr("Red Shirt"),
			Images: ptr("a.png\nb.png\n"),
		}

		p, err := domain.Normalize(r)
		require.NoError(t, err)

		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, "Red Shirt", p.Title)
		assert.Equal(t, []string{"a.png", "b.png"}, p.Images)
		assert.Zero(t, p.Discount)
	})

	t.Run("OnlyIdentifier", func(t *testing.T) {
		p, err := domain.Normalize(domain.Record{ID: ptr(int64(1))})
		require.NoError(t, err)

		assert.Equal(t, int64(1), p.ID)
		assert.Empty(t, p.Title)
		assert.Zero(t, p.Price)
		assert.Zero(t, p.OriginalPrice)
		assert.Zero(t, p.Discount)
		assert.False(t, p.InStock)
		assert.Nil(t, p.Rating)
		assert.Nil(t, p.ReviewCount)

		for _, vs := range [][]string{p.Images, p.Sizes, p.Colors, p.Tags} {
			require.NotNil(t, vs)
			assert.Empty(t, vs)
		}
	})

	t.Run("MissingIdentifier", func(t *testing.T) {
		_, err := domain.Normalize(domain.Record{Title: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
	})

	t.Run("TitleFallsBackToName", func(t *testing.T) {
		p, err := domain.Normalize(domain.Record{
			ID:    ptr(int64(2)),
			Name:  ptr("Blue Jeans"),
			Title: ptr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Blue Jeans", p.Title)
	})

	t.Run("AllFields", func(t *testing.T) {
		r := domain.Record{
			ID:            ptr(int64(3)),
			Title:         ptr("Runner"),
			Category:      ptr("Shoes"),
			Subcategory:   ptr("Sneakers"),
			Brand:         ptr("Nike"),
			Price:         ptr(79.9),
			OriginalPrice: ptr(99.9),
			Discount:      ptr(20.0),
			Sizes:         ptr("41\n\n42\n43"),
			Colors:        ptr("black\nwhite"),
			Description:   ptr("Light running shoe"),
			Rating:        ptr(4.7),
			ReviewCount:   ptr(120),
			InStock:       ptr(true),
			Tags:          ptr("running\nsport"),
		}

		p, err := domain.Normalize(r)
		require.NoError(t, err)

		assert.Equal(t, "Shoes", p.Category)
		assert.Equal(t, "Sneakers", p.Subcategory)
		assert.Equal(t, "Nike", p.Brand)
		assert.Equal(t, 79.9, p.Price)
		assert.Equal(t, 99.9, p.OriginalPrice)
		assert.Equal(t, 20.0, p.Discount)
		assert.Equal(t, []string{"41", "42", "43"}, p.Sizes)
		assert.Equal(t, []string{"black", "white"}, p.Colors)
		assert.Equal(t, []string{"running", "sport"}, p.Tags)
		assert.Equal(t, "Light running shoe", p.Description)
		require.NotNil(t, p.Rating)
		assert.Equal(t, 4.7, *p.Rating)
		require.NotNil(t, p.ReviewCount)
		assert.Equal(t, 120, *p.ReviewCount)
		assert.True(t, p.InStock)
	})
}

func TestNormalizeAll(t *testing.T) {
	t.Run("KeepsOrder", func(t *testing.T) {
		ps, err := domain.NormalizeAll([]domain.Record{
			{ID: ptr(int64(9))}, {ID: ptr(int64(4))},
		})
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, int64(9), ps[0].ID)
		assert.Equal(t, int64(4), ps[1].ID)
	})

	t.Run("Empty", func(t *testing.T) {
		ps, err := domain.NormalizeAll(nil)
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("MissingIdentifier", func(t *testing.T) {
		_, err := domain.NormalizeAll([]domain.Record{{ID: ptr(int64(1))}, {}})
		assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
	})
}
