// Package store defines the table-scoped CRUD contract implemented by the
// remote persistence clients (PostgREST over HTTP, or Postgres through pgx).
package store

import (
	"context"

	"github.com/JonMunkholm/employees/internal/apperr"
)

// NotSingleMessage is reported when a single-row read matches zero rows or
// more than one row. It mirrors the PostgREST wording so both backends read
// the same to the user.
const NotSingleMessage = "Cannot coerce the result to a single JSON object"

// Filter is an equality filter on one column.
type Filter struct {
	Column string
	Value  any
}

// Eq returns a filter matching rows where column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Table is a remote table holding rows of type T.
//
// Implementations never panic on remote failures; every failure is returned
// as an *apperr.Error carrying its kind.
type Table[T any] interface {
	// Insert writes rows and returns whatever the backend echoes back.
	Insert(ctx context.Context, rows []T) ([]T, error)
	// SelectAll returns every row, unfiltered.
	SelectAll(ctx context.Context) ([]T, error)
	// SelectSingle returns the only row matching f. Zero or several
	// matches fail with apperr.NotFound.
	SelectSingle(ctx context.Context, f Filter) (T, error)
	// Update writes the set fields of row to every row matching f and
	// returns the updated rows. Matching nothing is not an error.
	Update(ctx context.Context, row T, f Filter) ([]T, error)
	// Delete removes every row matching f and returns the removed rows.
	// Matching nothing is not an error.
	Delete(ctx context.Context, f Filter) ([]T, error)
}

// ErrNotSingle builds the not-found error for a single-row read that
// matched n rows.
func ErrNotSingle(n int) *apperr.Error {
	return apperr.Newf(apperr.NotFound, "%s (the result contains %d rows)", NotSingleMessage, n)
}
