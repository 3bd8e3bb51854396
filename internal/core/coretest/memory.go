// Package coretest provides an in-memory employee store for tests of the
// packages built on core.Service.
package coretest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/store"
)

// MemoryStore keeps employee rows in memory and assigns ids on insert.
// Filters are only supported on the id column. When Err is set every call
// fails with it.
type MemoryStore struct {
	mu     sync.Mutex
	rows   []core.EmployeeRow
	nextID int64

	Err error
}

// NewMemoryStore returns a store holding rows, keeping their ids.
func NewMemoryStore(rows ...core.EmployeeRow) *MemoryStore {
	m := &MemoryStore{nextID: 1}
	for _, r := range rows {
		m.add(r)
	}
	return m
}

// Rows returns a copy of the stored rows.
func (m *MemoryStore) Rows() []core.EmployeeRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.EmployeeRow(nil), m.rows...)
}

func (m *MemoryStore) add(r core.EmployeeRow) core.EmployeeRow {
	if r.ID == nil {
		id := m.nextID
		r.ID = &id
	}
	if *r.ID >= m.nextID {
		m.nextID = *r.ID + 1
	}
	m.rows = append(m.rows, r)
	return r
}

func matches(r core.EmployeeRow, f store.Filter) bool {
	if f.Column != core.ColumnID || r.ID == nil {
		return false
	}
	id, ok := f.Value.(int64)
	return ok && *r.ID == id
}

func (m *MemoryStore) Insert(ctx context.Context, rows []core.EmployeeRow) ([]core.EmployeeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]core.EmployeeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.add(r))
	}
	return out, nil
}

func (m *MemoryStore) SelectAll(ctx context.Context) ([]core.EmployeeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]core.EmployeeRow{}, m.rows...), nil
}

func (m *MemoryStore) SelectSingle(ctx context.Context, f store.Filter) (core.EmployeeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return core.EmployeeRow{}, m.Err
	}

	var found []core.EmployeeRow
	for _, r := range m.rows {
		if matches(r, f) {
			found = append(found, r)
		}
	}
	if len(found) != 1 {
		return core.EmployeeRow{}, store.ErrNotSingle(len(found))
	}
	return found[0], nil
}

// Update overlays the set fields of row, the way a PATCH would.
func (m *MemoryStore) Update(ctx context.Context, row core.EmployeeRow, f store.Filter) ([]core.EmployeeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []core.EmployeeRow
	for i := range m.rows {
		if !matches(m.rows[i], f) {
			continue
		}
		merged, err := overlay(m.rows[i], row)
		if err != nil {
			return nil, err
		}
		m.rows[i] = merged
		out = append(out, merged)
	}
	return out, nil
}

// overlay returns a fresh row with the set fields of patch over base.
func overlay(base, patch core.EmployeeRow) (core.EmployeeRow, error) {
	fields := map[string]json.RawMessage{}
	for _, src := range []core.EmployeeRow{base, patch} {
		buf, err := json.Marshal(src)
		if err != nil {
			return core.EmployeeRow{}, err
		}
		if err := json.Unmarshal(buf, &fields); err != nil {
			return core.EmployeeRow{}, err
		}
	}

	buf, err := json.Marshal(fields)
	if err != nil {
		return core.EmployeeRow{}, err
	}
	var out core.EmployeeRow
	err = json.Unmarshal(buf, &out)
	return out, err
}

func (m *MemoryStore) Delete(ctx context.Context, f store.Filter) ([]core.EmployeeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var kept, removed []core.EmployeeRow
	for _, r := range m.rows {
		if matches(r, f) {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return removed, nil
}

var _ core.EmployeeStore = (*MemoryStore)(nil)
