package core

import (
	"testing"

	"github.com/JonMunkholm/employees/internal/apperr"
)

func TestEmployeeFromValues(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		wantErr bool
	}{
		{"all blank", map[string]string{}, false},
		{"valid", map[string]string{"nome": "Ana", "salario": "1.234,50", "dataAdmissao": "2024-03-10"}, false},
		{"bad salary", map[string]string{"salario": "dez"}, true},
		{"bad date", map[string]string{"dataAdmissao": "31/31/2024"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EmployeeFromValues(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EmployeeFromValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !apperr.Is(err, apperr.Validation) {
				t.Errorf("kind = %v, want validation", apperr.KindOf(err))
			}
		})
	}
}

func TestEmployeeFromValues_BlankIsUnset(t *testing.T) {
	e, err := EmployeeFromValues(map[string]string{"nome": " Ana ", "email": "  "})
	if err != nil {
		t.Fatalf("EmployeeFromValues() error = %v", err)
	}
	if e.Email != nil || e.Salary != nil || e.HireDate != nil {
		t.Errorf("blank fields should stay nil: %+v", e)
	}
	if e.Name == nil || *e.Name != "Ana" {
		t.Errorf("Name = %v, want Ana", e.Name)
	}
}

func TestRowValuesRoundTrip(t *testing.T) {
	in := map[string]string{"nome": "Ana", "salario": "2500.75", "dataAdmissao": "2023-01-15", "estado": "PE"}
	e, err := EmployeeFromValues(in)
	if err != nil {
		t.Fatalf("EmployeeFromValues() error = %v", err)
	}

	out := RowValues(ToPersisted(e))
	for k, want := range in {
		if out[k] != want {
			t.Errorf("values[%q] = %q, want %q", k, out[k], want)
		}
	}
	if len(out) != len(FieldKeys) {
		t.Errorf("RowValues() has %d keys, want %d", len(out), len(FieldKeys))
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nome", "nome"},
		{"\ufeffNome", "nome"},
		{"Data Admissão", "dataadmissao"},
		{"data_admissao", "dataadmissao"},
		{`="Salário"`, "salario"},
		{"  CEP ", "cep"},
	}
	for _, tt := range tests {
		if got := CleanHeader(tt.in); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
