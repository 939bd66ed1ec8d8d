package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	_ port.RecordsClient         = (*RecordsRepository)(nil)
	_ port.RecordsClientProvider = (*RecordsRepository)(nil)
)

// A RecordsRepository serves backend records from a SQL table whose
// columns carry the platform field names.
//
// Query failures are reported as Success=false with the driver message.
type RecordsRepository struct {
	sqldb sqldb
}

func NewRecordsRepository(sqldb sqldb) RecordsRepository {
	return RecordsRepository{sqldb}
}

func (r RecordsRepository) RecordsClient() port.RecordsClient {
	return r
}

func (r RecordsRepository) FetchRecords(
	ctx context.Context, table string, q domain.Query,
) (domain.ListResponse, error) {
	const op = "RecordsRepository.FetchRecords"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.ListResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := buildSelect(table, q, nil)
	if err != nil {
		return domain.ListResponse{Message: err.Error()}, nil
	}

	vs, err := r.queryRecords(ctx, query, q.Fields, args...)
	if err != nil {
		log.Error("failed to query records", "err", err)
		return domain.ListResponse{Message: err.Error()}, nil
	}

	return domain.ListResponse{Success: true, Data: vs}, nil
}

func (r RecordsRepository) GetRecordByID(
	ctx context.Context, table string, id int64, q domain.Query,
) (domain.RecordResponse, error) {
	const op = "RecordsRepository.GetRecordByID"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.RecordResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	byID := domain.Query{
		Fields: q.Fields,
		Paging: &domain.PagingInfo{Limit: 1},
	}

	query, args, err := buildSelect(table, byID, &whereEq{idColumn, id})
	if err != nil {
		return domain.RecordResponse{Message: err.Error()}, nil
	}

	vs, err := r.queryRecords(ctx, query, q.Fields, args...)
	if err != nil {
		log.Error("failed to query record", "err", err)
		return domain.RecordResponse{Message: err.Error()}, nil
	}

	if len(vs) == 0 {
		return domain.RecordResponse{Success: true}, nil
	}
	return domain.RecordResponse{Success: true, Data: &vs[0]}, nil
}

func (r RecordsRepository) queryRecords(
	ctx context.Context, query string, fields []string, args ...any,
) (vs []domain.Record, queryErr error) {
	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil && queryErr == nil {
			queryErr = err
		}
	}()

	values := make([]any, len(fields))
	dest := make([]any, len(fields))
	for i := range values {
		dest[i] = &values[i]
	}

	vs = []domain.Record{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		var v domain.Record
		for i, f := range fields {
			if err := assign(&v, f, values[i]); err != nil {
				return nil, err
			}
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

const idColumn = "Id"

var columns = map[string]struct{}{
	"Id": {}, "Name": {}, "title_c": {}, "category_c": {},
	"subcategory_c": {}, "brand_c": {}, "price_c": {},
	"original_price_c": {}, "discount_c": {}, "images_c": {}, "sizes_c": {},
	"colors_c": {}, "description_c": {}, "rating_c": {},
	"review_count_c": {}, "in_stock_c": {}, "tags_c": {},
}

type whereEq struct {
	column string
	value  any
}

// buildSelect renders q as a parameterized SELECT over table, optionally
// narrowed by an equality condition.
func buildSelect(
	table string, q domain.Query, where *whereEq,
) (string, []any, error) {
	if len(q.Fields) == 0 {
		return "", nil, fmt.Errorf("%w: field list is empty", ErrUnknownField)
	}

	cols := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		if _, ok := columns[f]; !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		cols[i] = pgx.Identifier{f}.Sanitize()
	}

	var (
		b    strings.Builder
		args []any
	)
	placeholder := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(pgx.Identifier{table}.Sanitize())

	if where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(pgx.Identifier{where.column}.Sanitize())
		b.WriteString(" = " + placeholder(where.value))
	}

	if len(q.OrderBy) != 0 {
		order := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			if _, ok := columns[o.FieldName]; !ok {
				return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, o.FieldName)
			}
			dir := domain.SortAsc
			if strings.EqualFold(o.SortType, domain.SortDesc) {
				dir = domain.SortDesc
			}
			order[i] = pgx.Identifier{o.FieldName}.Sanitize() + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(order, ", "))
	}

	if q.Paging != nil {
		b.WriteString(" LIMIT " + placeholder(q.Paging.Limit))
		b.WriteString(" OFFSET " + placeholder(q.Paging.Offset))
	}

	return b.String(), args, nil
}

func assign(r *domain.Record, field string, v any) error {
	if v == nil {
		return nil
	}

	var err error
	switch field {
	case "Id":
		r.ID, err = asInt64(v)
	case "Name":
		r.Name, err = asString(v)
	case "title_c":
		r.Title, err = asString(v)
	case "category_c":
		r.Category, err = asString(v)
	case "subcategory_c":
		r.Subcategory, err = asString(v)
	case "brand_c":
		r.Brand, err = asString(v)
	case "price_c":
		r.Price, err = asFloat64(v)
	case "original_price_c":
		r.OriginalPrice, err = asFloat64(v)
	case "discount_c":
		r.Discount, err = asFloat64(v)
	case "images_c":
		r.Images, err = asString(v)
	case "sizes_c":
		r.Sizes, err = asString(v)
	case "colors_c":
		r.Colors, err = asString(v)
	case "description_c":
		r.Description, err = asString(v)
	case "rating_c":
		r.Rating, err = asFloat64(v)
	case "review_count_c":
		var n *int64
		n, err = asInt64(v)
		if n != nil {
			c := int(*n)
			r.ReviewCount = &c
		}
	case "in_stock_c":
		r.InStock, err = asBool(v)
	case "tags_c":
		r.Tags, err = asString(v)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err != nil {
		return fmt.Errorf("column %q: %w", field, err)
	}
	return nil
}

func asString(v any) (*string, error) {
	switch t := v.(type) {
	case string:
		return &t, nil
	case []byte:
		s := string(t)
		return &s, nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}

func asInt64(v any) (*int64, error) {
	switch t := v.(type) {
	case int64:
		return &t, nil
	case int32:
		n := int64(t)
		return &n, nil
	case []byte, string:
		s, _ := asString(t)
		n, err := strconv.ParseInt(*s, 10, 64)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}

func asFloat64(v any) (*float64, error) {
	switch t := v.(type) {
	case float64:
		return &t, nil
	case float32:
		f := float64(t)
		return &f, nil
	case int64:
		f := float64(t)
		return &f, nil
	case []byte, string:
		s, _ := asString(t)
		f, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return nil, err
		}
		return &f, nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}

func asBool(v any) (*bool, error) {
	if b, ok := v.(bool); ok {
		return &b, nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}
