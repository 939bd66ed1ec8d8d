package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (storage.RecordsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewRecordsRepository(db), mock
}

func TestRecordsRepositoryFetchRecords(t *testing.T) {
	fields := []string{"Id", "title_c", "price_c", "discount_c", "in_stock_c", "review_count_c"}
	q := domain.Query{
		Fields:  fields,
		OrderBy: []domain.OrderBy{{FieldName: "Id", SortType: "DESC"}},
		Paging:  &domain.PagingInfo{Limit: 100, Offset: 0},
	}
	const query = `SELECT "Id", "title_c", "price_c", "discount_c", "in_stock_c", "review_count_c" ` +
		`FROM "product_c" ORDER BY "Id" DESC LIMIT $1 OFFSET $2`

	t.Run("Rows", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(100, 0).WillReturnRows(
			sqlmock.NewRows(fields).
				AddRow(int64(7), "Red Shirt", 19.99, nil, true, int64(12)).
				AddRow(int64(6), []byte("Cap"), "12.50", 10.0, false, nil),
		)

		res, err := repo.FetchRecords(t.Context(), "product_c", q)
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Len(t, res.Data, 2)

		first := res.Data[0]
		assert.Equal(t, int64(7), *first.ID)
		assert.Equal(t, "Red Shirt", *first.Title)
		assert.Equal(t, 19.99, *first.Price)
		assert.Nil(t, first.Discount)
		assert.True(t, *first.InStock)
		assert.Equal(t, 12, *first.ReviewCount)

		second := res.Data[1]
		assert.Equal(t, "Cap", *second.Title)
		assert.Equal(t, 12.5, *second.Price)
		assert.Equal(t, 10.0, *second.Discount)
		assert.Nil(t, second.ReviewCount)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(100, 0).WillReturnRows(sqlmock.NewRows(fields))

		res, err := repo.FetchRecords(t.Context(), "product_c", q)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})

	t.Run("QueryFailure", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(100, 0).
			WillReturnError(errors.New("canceling statement due to statement timeout"))

		res, err := repo.FetchRecords(t.Context(), "product_c", q)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "canceling statement due to statement timeout", res.Message)
	})

	t.Run("UnknownField", func(t *testing.T) {
		repo, mock := newRepository(t)

		res, err := repo.FetchRecords(t.Context(), "product_c", domain.Query{
			Fields: []string{"Id", "password"},
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "password")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnexpectedColumnType", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(100, 0).WillReturnRows(
			sqlmock.NewRows(fields).AddRow(int64(7), "x", 1.0, 0.0, "yes", int64(1)),
		)

		res, err := repo.FetchRecords(t.Context(), "product_c", q)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "in_stock_c")
	})
}

func TestRecordsRepositoryAllColumns(t *testing.T) {
	fields := []string{
		"Id", "Name", "title_c", "category_c", "subcategory_c", "brand_c",
		"price_c", "original_price_c", "discount_c", "images_c", "sizes_c",
		"colors_c", "description_c", "rating_c", "review_count_c",
		"in_stock_c", "tags_c",
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	query := "SELECT " + strings.Join(quoted, ", ") +
		` FROM "product_c" ORDER BY "Id" DESC LIMIT $1 OFFSET $2`

	repo, mock := newRepository(t)
	mock.ExpectQuery(query).WithArgs(100, 0).WillReturnRows(
		sqlmock.NewRows(fields).AddRow(
			int64(3), "shoe", "Trail Runner", "Shoes", "Running", "Acme",
			80.0, 100.0, 20.0, "a.jpg\nb.jpg", "42\n43", "Blue",
			"Light trail shoe", 4.6, int64(31), true, "running\ntrail",
		),
	)

	res, err := repo.FetchRecords(t.Context(), "product_c", domain.Query{
		Fields:  fields,
		OrderBy: []domain.OrderBy{{FieldName: "Id", SortType: domain.SortDesc}},
		Paging:  &domain.PagingInfo{Limit: 100, Offset: 0},
	})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.Len(t, res.Data, 1)

	p, err := domain.Normalize(res.Data[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"running", "trail"}, p.Tags)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{"42", "43"}, p.Sizes)
	assert.Equal(t, "Trail Runner", p.Title)
	require.NotNil(t, p.ReviewCount)
	assert.Equal(t, 31, *p.ReviewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsRepositoryGetRecordByID(t *testing.T) {
	fields := []string{"Id", "Name", "tags_c"}
	q := domain.Query{Fields: fields}
	const query = `SELECT "Id", "Name", "tags_c" FROM "product_c" WHERE "Id" = $1 LIMIT $2 OFFSET $3`

	t.Run("Found", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(int64(7), 1, 0).WillReturnRows(
			sqlmock.NewRows(fields).AddRow(int64(7), "Red Shirt", "summer\ncotton"),
		)

		res, err := repo.GetRecordByID(t.Context(), "product_c", 7, q)
		require.NoError(t, err)
		require.True(t, res.Success)
		require.NotNil(t, res.Data)
		assert.Equal(t, "Red Shirt", *res.Data.Name)
		assert.Equal(t, "summer\ncotton", *res.Data.Tags)
	})

	t.Run("NoRow", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectQuery(query).WithArgs(int64(8), 1, 0).
			WillReturnRows(sqlmock.NewRows(fields))

		res, err := repo.GetRecordByID(t.Context(), "product_c", 8, q)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Nil(t, res.Data)
	})

	t.Run("ProvidesItself", func(t *testing.T) {
		repo, _ := newRepository(t)
		assert.NotNil(t, repo.RecordsClient())
	})
}
