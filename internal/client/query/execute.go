package query

import (
	"context"
	"net/http"
	"net/url"

	"github.com/void2610/online-type-game/internal/client/gateway"
)

// Execute runs the read query. A missing or null result is an empty slice.
func (b Builder[T]) Execute(ctx context.Context) ([]T, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rows(ctx, http.MethodGet, b.Path(), nil, nil)
}

// Single runs the query with limit 1. Zero rows yields (nil, nil).
func (b Builder[T]) Single(ctx context.Context) (*T, error) {
	rows, err := b.Limit(1).Execute(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Insert posts row to the table and returns the first echoed row, or nil if
// the backend echoed nothing.
func (b Builder[T]) Insert(ctx context.Context, row any) (*T, error) {
	if b.err != nil {
		return nil, b.err
	}
	rows, err := b.rows(ctx, http.MethodPost, b.tablePath(), row, representation())
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Upsert inserts rows, merging on primary-key conflicts.
func (b Builder[T]) Upsert(ctx context.Context, rows any) ([]T, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rows(ctx, http.MethodPost, b.tablePath(), rows, representation(PreferMergeDuplicates))
}

// Update patches every row matching the accumulated filters and returns
// them as echoed by the backend.
func (b Builder[T]) Update(ctx context.Context, patch any) ([]T, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rows(ctx, http.MethodPatch, b.writePath(), patch, representation())
}

// Delete removes every row matching the accumulated filters and returns them.
func (b Builder[T]) Delete(ctx context.Context) ([]T, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rows(ctx, http.MethodDelete, b.writePath(), nil, representation())
}

func (b Builder[T]) rows(ctx context.Context, method, path string, body any, header http.Header) ([]T, error) {
	data, err := b.sender.Send(ctx, method, path, body, header)
	if err != nil {
		return nil, err
	}
	rows, err := gateway.Decode[[]T](data)
	if err != nil {
		return nil, err
	}
	if rows == nil || *rows == nil {
		return []T{}, nil
	}
	return *rows, nil
}

// RPC calls a stored procedure and decodes its JSON result.
func RPC[T any](ctx context.Context, s Sender, fn string, params any) (*T, error) {
	data, err := s.Send(ctx, http.MethodPost, restPrefix+"rpc/"+url.PathEscape(fn), params, nil)
	if err != nil {
		return nil, err
	}
	return gateway.Decode[T](data)
}
