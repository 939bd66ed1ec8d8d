package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	closer interface {
		Close()
	}
)

// A RecordsClient is the backend records contract.
//
// A non-nil error means the call did not reach the backend or its answer
// could not be read; backend-side failures are reported by Success=false.
type RecordsClient interface {
	FetchRecords(
		ctx context.Context, table string, q domain.Query,
	) (domain.ListResponse, error)

	GetRecordByID(
		ctx context.Context, table string, id int64, q domain.Query,
	) (domain.RecordResponse, error)
}

// A RecordsClientProvider returns nil while no client is available.
type RecordsClientProvider interface {
	RecordsClient() RecordsClient
}

type Catalog interface {
	FetchAll(context.Context) ([]domain.Product, error)
	FetchByID(context.Context, int64) (domain.Product, error)
	FetchByCategory(context.Context, string) ([]domain.Product, error)
	Search(context.Context, string) ([]domain.Product, error)
	Featured(context.Context) ([]domain.Product, error)
	SaleItems(context.Context) ([]domain.Product, error)
	FilterProducts(context.Context, domain.FilterCriteria) ([]domain.Product, error)
	FilterOptions(context.Context) (domain.Facets, error)
}

type SearchEventsProducer interface {
	ProduceSearchEvent(context.Context, domain.SearchEvent) error
}

type SearchEventsProducerCloser interface {
	SearchEventsProducer
	closer
}
