package core

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func ptr[T any](v T) *T { return &v }

func hireDate(y int, m time.Month, d int) *pgtype.Date {
	return &pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// keys marshals v and returns its top-level JSON keys.
func keys(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestToPersisted_HireDateRenamed(t *testing.T) {
	e := Employee{Name: ptr("Ana"), HireDate: hireDate(2024, time.March, 1)}

	got := keys(t, ToPersisted(e))

	if _, ok := got["dataadmissao"]; !ok {
		t.Errorf("ToPersisted() keys = %v, want dataadmissao", got)
	}
	if _, ok := got["dataAdmissao"]; ok {
		t.Errorf("ToPersisted() kept application key dataAdmissao")
	}
	if string(got["dataadmissao"]) != `"2024-03-01"` {
		t.Errorf("dataadmissao = %s, want \"2024-03-01\"", got["dataadmissao"])
	}
}

func TestToPersisted_HireDateWithoutValueDropped(t *testing.T) {
	e := Employee{Name: ptr("Ana"), HireDate: &pgtype.Date{Valid: false}}

	row := ToPersisted(e)
	if row.HireDate != nil {
		t.Errorf("HireDate = %v, want nil", row.HireDate)
	}
	if _, ok := keys(t, row)["dataadmissao"]; ok {
		t.Error("payload should not carry an empty hire date")
	}
}

func TestToPersisted_Identifier(t *testing.T) {
	tests := []struct {
		name   string
		id     *int64
		wantID bool
	}{
		{name: "nil id omitted", id: nil, wantID: false},
		{name: "zero id retained", id: ptr(int64(0)), wantID: true},
		{name: "set id retained", id: ptr(int64(42)), wantID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ToPersisted(Employee{ID: tt.id, Name: ptr("Ana")})

			_, has := keys(t, row)["id"]
			if has != tt.wantID {
				t.Errorf("has id = %v, want %v", has, tt.wantID)
			}
			if tt.wantID && *row.ID != *tt.id {
				t.Errorf("id = %d, want %d", *row.ID, *tt.id)
			}
		})
	}
}

func TestToPersistedForUpdate_NeverHasIdentifier(t *testing.T) {
	for _, id := range []*int64{nil, ptr(int64(0)), ptr(int64(9))} {
		row := ToPersistedForUpdate(9, Employee{ID: id, Role: ptr("Dev")})
		if row.ID != nil {
			t.Errorf("ToPersistedForUpdate(id=%v) ID = %d, want nil", id, *row.ID)
		}
		if _, ok := keys(t, row)["id"]; ok {
			t.Errorf("ToPersistedForUpdate(id=%v) payload has id", id)
		}
	}
}

func TestToPersistedForUpdate_PartialPayload(t *testing.T) {
	row := ToPersistedForUpdate(3, Employee{Salary: ptr(4200.5)})

	got := keys(t, row)
	if len(got) != 1 {
		t.Errorf("payload keys = %v, want only salario", got)
	}
	if string(got["salario"]) != "4200.5" {
		t.Errorf("salario = %s, want 4200.5", got["salario"])
	}
}

func TestMappers_DoNotMutateInput(t *testing.T) {
	id := ptr(int64(5))
	date := hireDate(2023, time.July, 10)
	e := Employee{ID: id, Name: ptr("Bruno"), HireDate: date, City: ptr("Recife")}
	before := e
	dateBefore := *date

	_ = ToPersisted(e)
	_ = ToPersistedForUpdate(5, e)

	if !reflect.DeepEqual(e, before) {
		t.Errorf("input changed: %+v, want %+v", e, before)
	}
	if e.ID != id || e.HireDate != date {
		t.Error("input pointers replaced")
	}
	if *e.ID != 5 || *e.HireDate != dateBefore {
		t.Error("pointed-to values changed")
	}
}

func TestFromPersisted_RoundTrip(t *testing.T) {
	e := Employee{
		ID:       ptr(int64(1)),
		Name:     ptr("Carla"),
		HireDate: hireDate(2020, time.January, 2),
		State:    ptr("SP"),
	}

	got := FromPersisted(ToPersisted(e))
	if !reflect.DeepEqual(got, e) {
		t.Errorf("FromPersisted(ToPersisted(e)) = %+v, want %+v", got, e)
	}
}

func TestEmployeeRowColumns(t *testing.T) {
	row := EmployeeRow{Name: ptr("Ana"), HireDate: hireDate(2024, time.May, 6), State: ptr("RJ")}

	names, values := row.Columns()

	wantNames := []string{"nome", "dataadmissao", "estado"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Errorf("names = %v, want %v", names, wantNames)
	}
	if len(values) != 3 || values[0] != "Ana" || values[2] != "RJ" {
		t.Errorf("values = %v", values)
	}
	if d, ok := values[1].(pgtype.Date); !ok || !d.Valid {
		t.Errorf("values[1] = %#v, want valid pgtype.Date", values[1])
	}
}

func TestEmployeeJSONNames(t *testing.T) {
	var e Employee
	body := `{"nome":"Ana","dataAdmissao":"2024-02-03","salario":3000}`
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Name == nil || *e.Name != "Ana" {
		t.Errorf("Name = %v, want Ana", e.Name)
	}
	if FormatDate(e.HireDate) != "2024-02-03" {
		t.Errorf("HireDate = %q, want 2024-02-03", FormatDate(e.HireDate))
	}
	if e.ID != nil {
		t.Errorf("ID = %v, want nil", e.ID)
	}
}
