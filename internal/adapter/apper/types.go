package apper

import (
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	queryRequest struct {
		Fields     []fieldSpec `json:"fields"`
		OrderBy    []orderBy   `json:"orderBy,omitempty"`
		PagingInfo *pagingInfo `json:"pagingInfo,omitempty"`
	}

	fieldSpec struct {
		Field fieldName `json:"field"`
	}

	fieldName struct {
		Name string `json:"Name"`
	}

	orderBy struct {
		FieldName string `json:"fieldName"`
		SortType  string `json:"sorttype"`
	}

	pagingInfo struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
)

type (
	listResponse struct {
		Success bool     `json:"success"`
		Data    []record `json:"data"`
		Message string   `json:"message"`
	}

	recordResponse struct {
		Success bool    `json:"success"`
		Data    *record `json:"data"`
		Message string  `json:"message"`
	}

	record struct {
		ID            *int64   `json:"Id"`
		Name          *string  `json:"Name"`
		Title         *string  `json:"title_c"`
		Category      *string  `json:"category_c"`
		Subcategory   *string  `json:"subcategory_c"`
		Brand         *string  `json:"brand_c"`
		Price         *float64 `json:"price_c"`
		OriginalPrice *float64 `json:"original_price_c"`
		Discount      *float64 `json:"discount_c"`
		Images        *string  `json:"images_c"`
		Sizes         *string  `json:"sizes_c"`
		Colors        *string  `json:"colors_c"`
		Description   *string  `json:"description_c"`
		Rating        *float64 `json:"rating_c"`
		ReviewCount   *int     `json:"review_count_c"`
		InStock       *bool    `json:"in_stock_c"`
		Tags          *string  `json:"tags_c"`
	}
)

func toQueryRequest(q domain.Query) (req queryRequest) {
	req.Fields = make([]fieldSpec, len(q.Fields))
	for i, f := range q.Fields {
		req.Fields[i].Field.Name = f
	}

	for _, o := range q.OrderBy {
		req.OrderBy = append(req.OrderBy, orderBy{
			FieldName: o.FieldName,
			SortType:  o.SortType,
		})
	}

	if q.Paging != nil {
		req.PagingInfo = &pagingInfo{
			Limit:  q.Paging.Limit,
			Offset: q.Paging.Offset,
		}
	}
	return req
}

func (r record) toDomain() domain.Record {
	return domain.Record{
		ID:            r.ID,
		Name:          r.Name,
		Title:         r.Title,
		Category:      r.Category,
		Subcategory:   r.Subcategory,
		Brand:         r.Brand,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Discount:      r.Discount,
		Images:        r.Images,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		Description:   r.Description,
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		InStock:       r.InStock,
		Tags:          r.Tags,
	}
}

func (r listResponse) toDomain() domain.ListResponse {
	res := domain.ListResponse{
		Success: r.Success,
		Message: r.Message,
		Data:    make([]domain.Record, len(r.Data)),
	}
	for i := range r.Data {
		res.Data[i] = r.Data[i].toDomain()
	}
	return res
}

func (r recordResponse) toDomain() domain.RecordResponse {
	res := domain.RecordResponse{Success: r.Success, Message: r.Message}
	if r.Data != nil {
		v := r.Data.toDomain()
		res.Data = &v
	}
	return res
}

// An envelope is a decoded backend reply.
type envelope interface {
	applyStatus(status int)
}

// applyStatus marks a non-2xx reply as failed.
func (r *listResponse) applyStatus(status int) {
	if status/100 == 2 {
		return
	}
	r.Success = false
	if r.Message == "" {
		r.Message = http.StatusText(status)
	}
}

func (r *recordResponse) applyStatus(status int) {
	if status/100 == 2 {
		return
	}
	r.Success = false
	if r.Message == "" {
		r.Message = http.StatusText(status)
	}
}
