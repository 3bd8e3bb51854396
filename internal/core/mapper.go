package core

// mapper.go converts between the application record and the persisted row.
//
// The two shapes differ in two ways only: the hire date is stored under the
// lower-case key "dataadmissao", and the identifier is never written on
// update (it is the lookup key, not a field). Unset fields stay unset, so a
// record with only a few fields produces a partial update.

// ToPersisted maps an employee to the row written on insert.
// An unset ID is omitted; a set ID (including zero) is kept.
// A hire date without a value is dropped rather than written as null.
func ToPersisted(e Employee) EmployeeRow {
	row := EmployeeRow{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		CPF:        e.CPF,
		Role:       e.Role,
		Salary:     e.Salary,
		CEP:        e.CEP,
		Street:     e.Street,
		Number:     e.Number,
		Complement: e.Complement,
		District:   e.District,
		City:       e.City,
		State:      e.State,
	}
	if hasHireDate(e) {
		row.HireDate = e.HireDate
	}
	return row
}

// ToPersistedForUpdate maps an employee to the update payload for id.
// The identifier is always stripped; id is passed to the store as the filter.
func ToPersistedForUpdate(id int64, e Employee) EmployeeRow {
	row := ToPersisted(e)
	row.ID = nil
	return row
}

// FromPersisted maps a stored row back to the application record.
// The data-access operations return rows as stored; this is for callers
// that render them.
func FromPersisted(r EmployeeRow) Employee {
	return Employee{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		CPF:        r.CPF,
		Role:       r.Role,
		Salary:     r.Salary,
		HireDate:   r.HireDate,
		CEP:        r.CEP,
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		City:       r.City,
		State:      r.State,
	}
}

func hasHireDate(e Employee) bool {
	return e.HireDate != nil && e.HireDate.Valid
}
