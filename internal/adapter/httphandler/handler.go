package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/products (200 OK, 502, 503)
// GET v1/products/{id} (200 OK, 400 Bad request, 404 Not found)
// GET v1/products/search?q=text
// GET v1/products/featured
// GET v1/products/sale
// GET v1/products/filter?category=&min_price=&max_price=&size=&color=&brand=
// GET v1/categories/{category}/products
// GET v1/filters

type CatalogHandler struct {
	catalog port.Catalog
}

func RegisterCatalog(mux *http.ServeMux, catalog port.Catalog) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/products/search", h.SearchProducts)
	mux.HandleFunc("GET /v1/products/featured", h.GetFeatured)
	mux.HandleFunc("GET /v1/products/sale", h.GetSaleItems)
	mux.HandleFunc("GET /v1/products/filter", h.FilterProducts)
	mux.HandleFunc("GET /v1/categories/{category}/products", h.GetCategoryProducts)
	mux.HandleFunc("GET /v1/filters", h.GetFilterOptions)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"

	ps, err := h.catalog.FetchAll(r.Context())
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Warn("invalid product id", "id", r.PathValue("id"))
		writeJSON(w, op, http.StatusBadRequest, errorResponse{"invalid product id"})
		return
	}

	p, err := h.catalog.FetchByID(r.Context(), id)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomain(p))
}

func (h CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SearchProducts"

	ps, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFeatured"

	ps, err := h.catalog.Featured(r.Context())
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) GetSaleItems(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetSaleItems"

	ps, err := h.catalog.SaleItems(r.Context())
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.FilterProducts"
	log := slog.With("op", op)

	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		log.Warn("invalid filter criteria", "err", err)
		writeJSON(w, op, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	ps, err := h.catalog.FilterProducts(r.Context(), c)
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) GetCategoryProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategoryProducts"

	ps, err := h.catalog.FetchByCategory(r.Context(), r.PathValue("category"))
	h.writeProducts(w, op, ps, err)
}

func (h CatalogHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFilterOptions"

	f, err := h.catalog.FilterOptions(r.Context())
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, fromFacets(f))
}

func (h CatalogHandler) writeProducts(
	w http.ResponseWriter, op string, ps []domain.Product, err error,
) {
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, fromDomainAll(ps))
}

func criteriaFromQuery(q url.Values) (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		Category: q.Get("category"),
		Sizes:    q["size"],
		Colors:   q["color"],
		Brands:   q["brand"],
	}

	lo, err := priceParam(q, "min_price")
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	hi, err := priceParam(q, "max_price")
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	if lo != nil || hi != nil {
		c.PriceRange = &domain.PriceRange{Min: lo, Max: hi}
	}
	return c, nil
}

func priceParam(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	log := slog.With("op", op)

	status := statusOf(err)
	msg := domain.Message(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, op, status, errorResponse{msg})
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
