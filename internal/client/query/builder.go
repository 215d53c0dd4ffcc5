package query

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/void2610/online-type-game/internal/client/gateway"
)

// ErrEmptyInSet is returned when In was called without values.
var ErrEmptyInSet = errors.New("in filter needs at least one value")

const (
	restPrefix = "/rest/v1/"

	PreferReturnRepresentation = "return=representation"
	PreferMergeDuplicates      = "resolution=merge-duplicates"
)

// Sender is the part of the gateway the builder needs.
type Sender interface {
	Send(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error)
}

// Builder accumulates a query against one table. The zero value is not
// usable; start with From.
type Builder[T any] struct {
	sender  Sender
	table   string
	columns []string
	filters []Filter
	orders  []OrderClause
	limit   *int
	offset  *int
	err     error
}

// From starts a query on table, decoding rows into T.
func From[T any](s Sender, table string) Builder[T] {
	return Builder[T]{sender: s, table: table}
}

// Table returns the table the builder targets.
func (b Builder[T]) Table() string { return b.table }

// Select sets the column list. With no arguments it selects all columns.
func (b Builder[T]) Select(columns ...string) Builder[T] {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	b.columns = slices.Clone(columns)
	return b
}

func (b Builder[T]) Eq(column string, value any) Builder[T]  { return b.where(column, OpEq, value) }
func (b Builder[T]) Neq(column string, value any) Builder[T] { return b.where(column, OpNeq, value) }
func (b Builder[T]) Gt(column string, value any) Builder[T]  { return b.where(column, OpGt, value) }
func (b Builder[T]) Gte(column string, value any) Builder[T] { return b.where(column, OpGte, value) }
func (b Builder[T]) Lt(column string, value any) Builder[T]  { return b.where(column, OpLt, value) }
func (b Builder[T]) Lte(column string, value any) Builder[T] { return b.where(column, OpLte, value) }

// Like matches pattern with the backend's LIKE semantics (* or % wildcards).
func (b Builder[T]) Like(column, pattern string) Builder[T] {
	return b.where(column, OpLike, pattern)
}

// In matches any of values. An empty set poisons the builder: the next
// execution fails with ErrEmptyInSet.
func (b Builder[T]) In(column string, values ...any) Builder[T] {
	if len(values) == 0 {
		if b.err == nil {
			b.err = fmt.Errorf("%w: column %q", ErrEmptyInSet, column)
		}
		return b
	}
	return b.addFilter(Filter{Column: column, Operator: OpIn, Value: encodeSet(values)})
}

// Order appends a sort key.
func (b Builder[T]) Order(column string, ascending bool) Builder[T] {
	b.orders = append(slices.Clip(b.orders), OrderClause{Column: column, Ascending: ascending})
	return b
}

func (b Builder[T]) Limit(n int) Builder[T] {
	b.limit = &n
	return b
}

func (b Builder[T]) Offset(n int) Builder[T] {
	b.offset = &n
	return b
}

func (b Builder[T]) where(column string, op Operator, value any) Builder[T] {
	return b.addFilter(Filter{Column: column, Operator: op, Value: EncodeValue(value)})
}

func (b Builder[T]) addFilter(f Filter) Builder[T] {
	b.filters = append(slices.Clip(b.filters), f)
	return b
}

// QueryString compiles the read query without the leading '?'.
func (b Builder[T]) QueryString() string {
	params := b.predicate()
	if len(b.orders) > 0 {
		keys := make([]string, len(b.orders))
		for i, o := range b.orders {
			keys[i] = o.String()
		}
		params = append(params, "order="+strings.Join(keys, ","))
	}
	if b.limit != nil {
		params = append(params, "limit="+strconv.Itoa(*b.limit))
	}
	if b.offset != nil {
		params = append(params, "offset="+strconv.Itoa(*b.offset))
	}
	return strings.Join(params, "&")
}

// Path returns the read endpoint including the compiled query string.
func (b Builder[T]) Path() string {
	return withQuery(b.tablePath(), b.QueryString())
}

// predicate is the select list plus filters: what writes target.
func (b Builder[T]) predicate() []string {
	var params []string
	if len(b.columns) > 0 {
		params = append(params, "select="+encodeSelect(b.columns))
	}
	for _, f := range b.filters {
		params = append(params, f.String())
	}
	return params
}

func (b Builder[T]) writePath() string {
	return withQuery(b.tablePath(), strings.Join(b.predicate(), "&"))
}

func (b Builder[T]) tablePath() string {
	return restPrefix + url.PathEscape(b.table)
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

func representation(prefer ...string) http.Header {
	h := http.Header{}
	h.Set(gateway.HeaderPrefer, strings.Join(append([]string{PreferReturnRepresentation}, prefer...), ","))
	return h
}
