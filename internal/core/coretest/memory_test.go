package coretest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(core.EmployeeRow{ID: ptr(int64(5)), Name: ptr("Ana")})

	inserted, err := m.Insert(ctx, []core.EmployeeRow{{Name: ptr("Bruno"), City: ptr("Natal")}})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, int64(6), *inserted[0].ID)

	updated, err := m.Update(ctx, core.EmployeeRow{Role: ptr("Analista")}, store.Eq(core.ColumnID, int64(6)))
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "Bruno", *updated[0].Name)
	assert.Equal(t, "Natal", *updated[0].City)
	assert.Equal(t, "Analista", *updated[0].Role)

	got, err := m.SelectSingle(ctx, store.Eq(core.ColumnID, int64(6)))
	require.NoError(t, err)
	assert.Equal(t, "Analista", *got.Role)

	removed, err := m.Delete(ctx, store.Eq(core.ColumnID, int64(5)))
	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.Len(t, m.Rows(), 1)

	_, err = m.SelectSingle(ctx, store.Eq(core.ColumnID, int64(5)))
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestMemoryStore_UpdateDoesNotAliasInput(t *testing.T) {
	ctx := context.Background()
	name := "Ana"
	m := NewMemoryStore()
	_, err := m.Insert(ctx, []core.EmployeeRow{{Name: &name}})
	require.NoError(t, err)

	_, err = m.Update(ctx, core.EmployeeRow{Name: ptr("Beatriz")}, store.Eq(core.ColumnID, int64(1)))
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)
}

func TestMemoryStore_Err(t *testing.T) {
	m := NewMemoryStore()
	m.Err = apperr.New(apperr.Transport, "x")

	_, err := m.SelectAll(context.Background())
	assert.EqualError(t, err, "x")
}
