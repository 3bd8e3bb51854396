package core

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/employees/internal/store"
)

// EmployeesTable is the backend table holding employee rows.
const EmployeesTable = "funcionarios"

// ColumnID is the identifier column used as the lookup key.
const ColumnID = "id"

// ColumnHireDate is the persisted name of the hire date.
const ColumnHireDate = "dataadmissao"

// EmployeeStore is the persistence capability the data-access operations
// need. Satisfied by *supabase.Table[EmployeeRow] and
// *postgres.Table[EmployeeRow].
type EmployeeStore = store.Table[EmployeeRow]

// Employee is the application-level employee record.
//
// Every attribute is optional: a nil field was not supplied by the caller
// and is never written. ID is nil for a record that was not persisted yet.
type Employee struct {
	ID         *int64       `json:"id,omitempty"`
	Name       *string      `json:"nome,omitempty"`
	Email      *string      `json:"email,omitempty"`
	Phone      *string      `json:"telefone,omitempty"`
	CPF        *string      `json:"cpf,omitempty"`
	Role       *string      `json:"cargo,omitempty"`
	Salary     *float64     `json:"salario,omitempty"`
	HireDate   *pgtype.Date `json:"dataAdmissao,omitempty"`
	CEP        *string      `json:"cep,omitempty"`
	Street     *string      `json:"endereco,omitempty"`
	Number     *string      `json:"numero,omitempty"`
	Complement *string      `json:"complemento,omitempty"`
	District   *string      `json:"bairro,omitempty"`
	City       *string      `json:"cidade,omitempty"`
	State      *string      `json:"estado,omitempty"`
}

// EmployeeRow is the persisted shape of an employee in the funcionarios
// table. Field names are the lower-case column names; unset fields are
// omitted from insert and update payloads.
type EmployeeRow struct {
	ID         *int64       `json:"id,omitempty" db:"id"`
	Name       *string      `json:"nome,omitempty" db:"nome"`
	Email      *string      `json:"email,omitempty" db:"email"`
	Phone      *string      `json:"telefone,omitempty" db:"telefone"`
	CPF        *string      `json:"cpf,omitempty" db:"cpf"`
	Role       *string      `json:"cargo,omitempty" db:"cargo"`
	Salary     *float64     `json:"salario,omitempty" db:"salario"`
	HireDate   *pgtype.Date `json:"dataadmissao,omitempty" db:"dataadmissao"`
	CEP        *string      `json:"cep,omitempty" db:"cep"`
	Street     *string      `json:"endereco,omitempty" db:"endereco"`
	Number     *string      `json:"numero,omitempty" db:"numero"`
	Complement *string      `json:"complemento,omitempty" db:"complemento"`
	District   *string      `json:"bairro,omitempty" db:"bairro"`
	City       *string      `json:"cidade,omitempty" db:"cidade"`
	State      *string      `json:"estado,omitempty" db:"estado"`
}

// EmployeeColumns lists the columns of the funcionarios table in display order.
var EmployeeColumns = []string{
	ColumnID, "nome", "email", "telefone", "cpf", "cargo", "salario",
	ColumnHireDate, "cep", "endereco", "numero", "complemento", "bairro",
	"cidade", "estado",
}

// Columns returns the names and values of the set fields, in column order.
func (r EmployeeRow) Columns() ([]string, []any) {
	names := make([]string, 0, len(EmployeeColumns))
	values := make([]any, 0, len(EmployeeColumns))

	add := func(name string, set bool, v func() any) {
		if set {
			names = append(names, name)
			values = append(values, v())
		}
	}

	add(ColumnID, r.ID != nil, func() any { return *r.ID })
	add("nome", r.Name != nil, func() any { return *r.Name })
	add("email", r.Email != nil, func() any { return *r.Email })
	add("telefone", r.Phone != nil, func() any { return *r.Phone })
	add("cpf", r.CPF != nil, func() any { return *r.CPF })
	add("cargo", r.Role != nil, func() any { return *r.Role })
	add("salario", r.Salary != nil, func() any { return *r.Salary })
	add(ColumnHireDate, r.HireDate != nil, func() any { return *r.HireDate })
	add("cep", r.CEP != nil, func() any { return *r.CEP })
	add("endereco", r.Street != nil, func() any { return *r.Street })
	add("numero", r.Number != nil, func() any { return *r.Number })
	add("complemento", r.Complement != nil, func() any { return *r.Complement })
	add("bairro", r.District != nil, func() any { return *r.District })
	add("cidade", r.City != nil, func() any { return *r.City })
	add("estado", r.State != nil, func() any { return *r.State })

	return names, values
}
