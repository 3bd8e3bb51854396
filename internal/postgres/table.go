package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/store"
)

// Row is implemented by row structs that can be written column by column.
// Columns returns only the fields that are set, so unset fields are left
// to the database default on insert and untouched on update.
type Row interface {
	Columns() (names []string, values []any)
}

// Table reads and writes rows of type T in one Postgres table.
// Rows are scanned by name using the `db` struct tags of T.
// It implements store.Table[T].
type Table[T Row] struct {
	db      DBTX
	name    string
	columns []string
}

// NewTable returns a handle to the named table. columns lists the columns
// read back on select and returned from writes.
func NewTable[T Row](db DBTX, name string, columns []string) *Table[T] {
	return &Table[T]{db: db, name: name, columns: columns}
}

// Insert inserts each row and returns the stored rows.
func (t *Table[T]) Insert(ctx context.Context, rows []T) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		names, values := row.Columns()

		var query string
		if len(names) == 0 {
			query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s",
				t.ident(), t.returning())
		} else {
			placeholders := make([]string, len(names))
			for i := range names {
				placeholders[i] = fmt.Sprintf("$%d", i+1)
			}
			query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
				t.ident(), quoteAll(names), strings.Join(placeholders, ", "), t.returning())
		}

		inserted, err := t.collect(ctx, query, values...)
		if err != nil {
			return nil, err
		}
		out = append(out, inserted...)
	}
	return out, nil
}

// SelectAll returns every row of the table.
func (t *Table[T]) SelectAll(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", t.returning(), t.ident())
	return t.collect(ctx, query)
}

// SelectSingle returns the only row matching f. At most two rows are
// fetched; anything other than exactly one is a not-found error.
func (t *Table[T]) SelectSingle(ctx context.Context, f store.Filter) (T, error) {
	var zero T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 2",
		t.returning(), t.ident(), quote(f.Column))

	rows, err := t.collect(ctx, query, f.Value)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, store.ErrNotSingle(len(rows))
	}
	return rows[0], nil
}

// Update sets the fields of row that are set on every row matching f.
// With nothing set no column is written and the matching rows come back
// as stored, the way PostgREST answers an empty PATCH.
func (t *Table[T]) Update(ctx context.Context, row T, f store.Filter) ([]T, error) {
	names, values := row.Columns()
	if len(names) == 0 {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
			t.returning(), t.ident(), quote(f.Column))
		return t.collect(ctx, query, f.Value)
	}

	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = $%d", quote(name), i+1)
	}
	values = append(values, f.Value)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		t.ident(), strings.Join(assignments, ", "), quote(f.Column), len(values), t.returning())
	return t.collect(ctx, query, values...)
}

// Delete removes every row matching f.
func (t *Table[T]) Delete(ctx context.Context, f store.Filter) ([]T, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 RETURNING %s",
		t.ident(), quote(f.Column), t.returning())
	return t.collect(ctx, query, f.Value)
}

// collect runs query and scans every returned row into T.
func (t *Table[T]) collect(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (t *Table[T]) ident() string {
	return pgx.Identifier(strings.Split(t.name, ".")).Sanitize()
}

func (t *Table[T]) returning() string {
	if len(t.columns) == 0 {
		return "*"
	}
	return quoteAll(t.columns)
}

// classify maps pgx errors onto the shared error kinds.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotSingle(0)
	}
	return apperr.Wrap(apperr.Transport, err)
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
