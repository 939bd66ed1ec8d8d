package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const SearchEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.catalog",
	"name": "search_event",
	"fields" : [
		{"name": "query", "type": "string"},
		{"name": "results", "type": "int"},
		{"name": "product_ids", "type": {"type": "array", "items": "long"}},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type SearchEventV1 struct {
	Query      string    `avro:"query"`
	Results    int       `avro:"results"`
	ProductIDs []int64   `avro:"product_ids"`
	OccurredAt time.Time `avro:"occurred_at"`
}

// SearchEventV1Avro panics if the schema text is invalid.
func SearchEventV1Avro() avro.Schema {
	return avro.MustParse(SearchEventSchemaTextV1)
}
