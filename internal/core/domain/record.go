package domain

import "strings"

type (
	// A Record is a raw backend row with platform field names.
	//
	// Every field but ID may be absent.
	Record struct {
		ID            *int64
		Name          *string
		Title         *string
		Category      *string
		Subcategory   *string
		Brand         *string
		Price         *float64
		OriginalPrice *float64
		Discount      *float64
		Images        *string
		Sizes         *string
		Colors        *string
		Description   *string
		Rating        *float64
		ReviewCount   *int
		InStock       *bool
		Tags          *string
	}

	OrderBy struct {
		FieldName string
		SortType  string
	}

	PagingInfo struct {
		Limit  int
		Offset int
	}

	// A Query describes which fields, order and page the backend returns.
	Query struct {
		Fields  []string
		OrderBy []OrderBy
		Paging  *PagingInfo
	}

	ListResponse struct {
		Success bool
		Data    []Record
		Message string
	}

	RecordResponse struct {
		Success bool
		Data    *Record
		Message string
	}
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Normalize maps a raw record into a [Product].
//
// Absent optional fields yield zero values or empty slices.
// Returns [ErrMissingIdentifier] if the record has no ID.
func Normalize(r Record) (Product, error) {
	if r.ID == nil {
		return Product{}, ErrMissingIdentifier
	}

	title := deref(r.Title)
	if title == "" {
		title = deref(r.Name)
	}

	return Product{
		ID:            *r.ID,
		Title:         title,
		Category:      deref(r.Category),
		Subcategory:   deref(r.Subcategory),
		Brand:         deref(r.Brand),
		Price:         deref(r.Price),
		OriginalPrice: deref(r.OriginalPrice),
		Discount:      deref(r.Discount),
		Images:        splitLines(r.Images),
		Sizes:         splitLines(r.Sizes),
		Colors:        splitLines(r.Colors),
		Tags:          splitLines(r.Tags),
		Description:   deref(r.Description),
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		InStock:       deref(r.InStock),
	}, nil
}

func NormalizeAll(rs []Record) ([]Product, error) {
	ps := make([]Product, 0, len(rs))
	for _, r := range rs {
		p, err := Normalize(r)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func splitLines(s *string) []string {
	vs := []string{}
	if s == nil {
		return vs
	}
	for v := range strings.SplitSeq(*s, "\n") {
		if v != "" {
			vs = append(vs, v)
		}
	}
	return vs
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
