// Package rowstore is the table-oriented data access layer: filtered selects with
// range pagination and insert/update/delete/upsert writes, over SQL (gorm) or a
// hosted Postgres REST endpoint.
package rowstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRows is returned when a lookup matched nothing
var ErrNoRows = errors.New("rowstore: no rows")

// Op is a filter comparison
type Op string

const (
	OpEq Op = "eq"
	OpIn Op = "in"
)

// Filter restricts a query or a write to matching rows
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows whose column equals value
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// In matches rows whose column is one of values
func In[T any](column string, values []T) Filter {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Filter{Column: column, Op: OpIn, Value: vals}
}

func (f Filter) values() []any {
	vals, _ := f.Value.([]any)
	return vals
}

// matchesNothing reports whether the filter set can be answered without a round-trip
func matchesNothing(filters []Filter) bool {
	for _, f := range filters {
		if f.Op == OpIn && len(f.values()) == 0 {
			return true
		}
	}
	return false
}

// Order sorts a query by one column
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query describes a select against one table or view
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
	Offset  int
	Limit   int
}

// Where returns a copy of the query with extra filters
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// Page returns a copy of the query restricted to [offset, offset+limit)
func (q Query) Page(offset, limit int) Query {
	q.Offset = offset
	q.Limit = limit
	return q
}

// Store is the row store collaborator
type Store interface {
	// Select loads matching rows into dest, which must be a pointer to a slice
	Select(ctx context.Context, q Query, dest any) error
	Insert(ctx context.Context, table string, rows any) error
	Update(ctx context.Context, table string, patch map[string]any, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
	// Upsert inserts rows, replacing existing rows that collide on conflictKeys
	Upsert(ctx context.Context, table string, rows any, conflictKeys ...string) error
	Ping(ctx context.Context) error
}

// OpError describes a failed store operation
type OpError struct {
	Op    string
	Table string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("rowstore %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// DefaultPageSize is the page length used by FetchAll when none is given
const DefaultPageSize = 1000

// FetchAll reads every matching row page by page, continuing while a full
// page is returned. Queries should carry an Order to keep pages stable.
func FetchAll[T any](ctx context.Context, s Store, q Query, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var out []T
	for offset := 0; ; offset += pageSize {
		var page []T
		if err := s.Select(ctx, q.Page(offset, pageSize), &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}

// SelectOne returns the first matching row or ErrNoRows
func SelectOne[T any](ctx context.Context, s Store, q Query) (T, error) {
	var rows []T
	var zero T
	if err := s.Select(ctx, q.Page(0, 1), &rows); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNoRows
	}
	return rows[0], nil
}
