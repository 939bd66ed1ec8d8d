package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Catalog = (*Service)(nil)

const (
	productsTable = "product_c"
	pageLimit     = 100
	featuredLimit = 8
	featuredMin   = 4.5
)

var productFields = []string{
	"Id", "Name", "title_c", "category_c", "subcategory_c", "brand_c",
	"price_c", "original_price_c", "discount_c", "images_c", "sizes_c",
	"colors_c", "description_c", "rating_c", "review_count_c",
	"in_stock_c", "tags_c",
}

type Service struct {
	provider port.RecordsClientProvider
	events   port.SearchEventsProducer
	now      func() time.Time
}

// New returns the catalog service.
//
// The events producer is optional.
func New(
	provider port.RecordsClientProvider,
	events port.SearchEventsProducer,
) Service {
	return Service{provider: provider, events: events, now: time.Now}
}

// FetchAll returns up to one page of products, newest first.
//
// Errors carry the operation prefix; [domain.Message] returns the backend
// message alone (e.g. "timeout"), which is what callers should present.
func (s Service) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.FetchAll"
	log := slog.With("op", op)

	ps, err := s.fetchAll(ctx)
	if err != nil {
		log.Error("failed to fetch products", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) FetchByID(ctx context.Context, id int64) (domain.Product, error) {
	const op = "Service.FetchByID"
	log := slog.With("op", op, "id", id)

	p, err := s.fetchByID(ctx, id)
	if err != nil {
		log.Error("failed to fetch product", "err", err)
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) FetchByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	const op = "Service.FetchByCategory"

	return s.selectAll(ctx, op, func(ps []domain.Product) []domain.Product {
		return keep(ps, func(p domain.Product) bool {
			return domain.InCategory(p, category)
		})
	})
}

func (s Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "Service.Search"

	found, err := s.selectAll(ctx, op, func(ps []domain.Product) []domain.Product {
		return keep(ps, func(p domain.Product) bool {
			return domain.Matches(p, query)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishSearch(ctx, query, found)
	return found, nil
}

func (s Service) Featured(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.Featured"

	return s.selectAll(ctx, op, func(ps []domain.Product) []domain.Product {
		rated := keep(ps, func(p domain.Product) bool {
			return p.HasRating(featuredMin)
		})
		if len(rated) > featuredLimit {
			rated = rated[:featuredLimit]
		}
		return rated
	})
}

func (s Service) SaleItems(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.SaleItems"

	return s.selectAll(ctx, op, func(ps []domain.Product) []domain.Product {
		return keep(ps, domain.Product.OnSale)
	})
}

func (s Service) FilterProducts(
	ctx context.Context, c domain.FilterCriteria,
) ([]domain.Product, error) {
	const op = "Service.FilterProducts"

	return s.selectAll(ctx, op, func(ps []domain.Product) []domain.Product {
		return domain.Filter(ps, c)
	})
}

func (s Service) FilterOptions(ctx context.Context) (domain.Facets, error) {
	const op = "Service.FilterOptions"
	log := slog.With("op", op)

	ps, err := s.fetchAll(ctx)
	if err != nil {
		log.Error("failed to fetch filter options", "err", err)
		return domain.Facets{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.ExtractFacets(ps), nil
}

// selectAll fetches the whole catalog and narrows it with fn.
func (s Service) selectAll(
	ctx context.Context, op string, fn func([]domain.Product) []domain.Product,
) ([]domain.Product, error) {
	log := slog.With("op", op)

	ps, err := s.fetchAll(ctx)
	if err != nil {
		log.Error("failed to fetch products", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fn(ps), nil
}

func (s Service) fetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "fetchAll"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cl, err := s.client()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := domain.Query{
		Fields:  productFields,
		OrderBy: []domain.OrderBy{{FieldName: "Id", SortType: domain.SortDesc}},
		Paging:  &domain.PagingInfo{Limit: pageLimit, Offset: 0},
	}

	res, err := cl.FetchRecords(ctx, productsTable, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.FetchFailed(err.Error(), err))
	}

	if !res.Success {
		return nil, fmt.Errorf("%s: %w", op, domain.FetchFailed(res.Message, nil))
	}

	ps, err := domain.NormalizeAll(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) fetchByID(ctx context.Context, id int64) (domain.Product, error) {
	const op = "fetchByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	cl, err := s.client()
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	q := domain.Query{Fields: productFields}

	res, err := cl.GetRecordByID(ctx, productsTable, id, q)
	if err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.FetchFailed(err.Error(), err),
		)
	}

	if !res.Success {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.FetchFailed(res.Message, nil),
		)
	}

	if res.Data == nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.NotFound())
	}

	p, err := domain.Normalize(*res.Data)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) client() (port.RecordsClient, error) {
	if s.provider == nil {
		return nil, domain.BackendUnavailable()
	}
	cl := s.provider.RecordsClient()
	if cl == nil {
		return nil, domain.BackendUnavailable()
	}
	return cl, nil
}

func (s Service) publishSearch(
	ctx context.Context, query string, found []domain.Product,
) {
	const op = "Service.publishSearch"

	if s.events == nil {
		return
	}

	evt := domain.SearchEvent{
		Query:      query,
		Results:    len(found),
		ProductIDs: make([]int64, len(found)),
		OccurredAt: s.now(),
	}
	for i, p := range found {
		evt.ProductIDs[i] = p.ID
	}

	if err := s.events.ProduceSearchEvent(ctx, evt); err != nil {
		slog.Warn("failed to publish search event", "op", op, "err", err)
	}
}

func keep(ps []domain.Product, fn func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if fn(p) {
			out = append(out, p)
		}
	}
	return out
}
