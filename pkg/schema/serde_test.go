package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeSearchEventV1(t *testing.T) {
	const subject = "storefront-search-events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeSearchEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeSearchEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeSearchEventV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("IdentifierFails", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		registryErr := errors.New("registry unavailable")
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.SearchEventSchemaTextV1,
		).Return(0, registryErr)

		_, err := schema.NewSerdeSearchEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.ErrorIs(t, err, registryErr)
		schemaIdentifier.AssertExpectations(t)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.SearchEventSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeSearchEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		event1 := schema.SearchEventV1{
			Query:      "denim",
			Results:    2,
			ProductIDs: []int64{12, 4},
			OccurredAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		}

		encodedData, err := serde.Encode(event1)
		require.NoError(t, err)

		// confluent wire format: magic byte and big-endian schema ID
		require.Greater(t, len(encodedData), 5)
		assert.Equal(t, []byte{0, 0, 0, 0, 7}, encodedData[:5])

		var event2 schema.SearchEventV1
		err = serde.Decode(encodedData, &event2)
		require.NoError(t, err)

		assert.Equal(t, event1.Query, event2.Query)
		assert.Equal(t, event1.Results, event2.Results)
		assert.Equal(t, event1.ProductIDs, event2.ProductIDs)
		assert.True(t, event1.OccurredAt.Equal(event2.OccurredAt))
	})
}
