package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEventV1(t *testing.T) {
	var eventSchema avro.Schema
	require.NotPanics(t, func() {
		eventSchema = SearchEventV1Avro()
	})

	t.Run("Regular", func(t *testing.T) {
		vMarshal := SearchEventV1{
			Query:      "shirt",
			Results:    3,
			ProductIDs: []int64{9, 5, 1},
			OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		}

		data, err := avro.Marshal(eventSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal SearchEventV1
		err = avro.Unmarshal(eventSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal.Query, vUnmarshal.Query)
		assert.Equal(t, vMarshal.Results, vUnmarshal.Results)
		assert.Equal(t, vMarshal.ProductIDs, vUnmarshal.ProductIDs)
		assert.True(t, vMarshal.OccurredAt.Equal(vUnmarshal.OccurredAt))
	})

	t.Run("NoResults", func(t *testing.T) {
		vMarshal := SearchEventV1{
			Query:      "nothing",
			ProductIDs: []int64{},
			OccurredAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		}

		data, err := avro.Marshal(eventSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal SearchEventV1
		require.NoError(t, avro.Unmarshal(eventSchema, data, &vUnmarshal))
		assert.Zero(t, vUnmarshal.Results)
		assert.Empty(t, vUnmarshal.ProductIDs)
	})

	t.Run("MillisecondPrecision", func(t *testing.T) {
		at := time.Date(2025, 1, 2, 3, 4, 5, 6_789_000, time.UTC)
		data, err := avro.Marshal(eventSchema, SearchEventV1{
			Query: "q", ProductIDs: []int64{}, OccurredAt: at,
		})
		require.NoError(t, err)

		var vUnmarshal SearchEventV1
		require.NoError(t, avro.Unmarshal(eventSchema, data, &vUnmarshal))
		assert.True(t, at.Truncate(time.Millisecond).Equal(vUnmarshal.OccurredAt))
	})
}
