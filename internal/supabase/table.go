package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/employees/internal/store"
)

const (
	preferRepresentation = "return=representation"
	acceptSingleObject   = "application/vnd.pgrst.object+json"
)

// Table is a PostgREST table whose rows decode into T.
// It implements store.Table[T].
type Table[T any] struct {
	client *Client
	name   string
}

var _ store.Table[struct{}] = (*Table[struct{}])(nil)

// NewTable returns a handle to the named table.
func NewTable[T any](c *Client, name string) *Table[T] {
	return &Table[T]{client: c, name: name}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Insert posts rows and returns the representation echoed by PostgREST.
func (t *Table[T]) Insert(ctx context.Context, rows []T) ([]T, error) {
	var out []T
	err := t.client.do(ctx, request{
		method: http.MethodPost,
		table:  t.name,
		query:  url.Values{},
		body:   rows,
		prefer: preferRepresentation,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectAll returns every row of the table.
func (t *Table[T]) SelectAll(ctx context.Context) ([]T, error) {
	var out []T
	err := t.client.do(ctx, request{
		method: http.MethodGet,
		table:  t.name,
		query:  url.Values{"select": {"*"}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectSingle asks PostgREST for exactly one object matching f.
// PostgREST answers 406/PGRST116 when zero or several rows match.
func (t *Table[T]) SelectSingle(ctx context.Context, f store.Filter) (T, error) {
	var out T
	q := filterQuery(f)
	q.Set("select", "*")
	err := t.client.do(ctx, request{
		method: http.MethodGet,
		table:  t.name,
		query:  q,
		accept: acceptSingleObject,
	}, &out)
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update patches every row matching f with the set fields of row.
func (t *Table[T]) Update(ctx context.Context, row T, f store.Filter) ([]T, error) {
	var out []T
	err := t.client.do(ctx, request{
		method: http.MethodPatch,
		table:  t.name,
		query:  filterQuery(f),
		body:   row,
		prefer: preferRepresentation,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes every row matching f.
func (t *Table[T]) Delete(ctx context.Context, f store.Filter) ([]T, error) {
	var out []T
	err := t.client.do(ctx, request{
		method: http.MethodDelete,
		table:  t.name,
		query:  filterQuery(f),
		prefer: preferRepresentation,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// filterQuery renders f in PostgREST's column=eq.value form.
func filterQuery(f store.Filter) url.Values {
	return url.Values{f.Column: {"eq." + fmt.Sprint(f.Value)}}
}
