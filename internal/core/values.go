package core

import (
	"strconv"
	"strings"
)

// FieldKeys are the application-level names of the employee attributes, in
// display order. Forms, CSV headers and CLI flags all use them.
var FieldKeys = []string{
	"nome", "email", "telefone", "cpf", "cargo", "salario", "dataAdmissao",
	"cep", "endereco", "numero", "complemento", "bairro", "cidade", "estado",
}

// EmployeeFromValues builds an Employee from text values keyed by
// FieldKeys. Blank or missing values leave the attribute unset. The salary
// and hire date are parsed; malformed values are validation errors.
func EmployeeFromValues(v map[string]string) (Employee, error) {
	salary, err := ParseMoney(v["salario"])
	if err != nil {
		return Employee{}, err
	}
	hired, err := ParseHireDate(v["dataAdmissao"])
	if err != nil {
		return Employee{}, err
	}

	return Employee{
		Name:       CleanText(v["nome"]),
		Email:      CleanText(v["email"]),
		Phone:      CleanText(v["telefone"]),
		CPF:        CleanText(v["cpf"]),
		Role:       CleanText(v["cargo"]),
		Salary:     salary,
		HireDate:   hired,
		CEP:        CleanText(v["cep"]),
		Street:     CleanText(v["endereco"]),
		Number:     CleanText(v["numero"]),
		Complement: CleanText(v["complemento"]),
		District:   CleanText(v["bairro"]),
		City:       CleanText(v["cidade"]),
		State:      CleanText(v["estado"]),
	}, nil
}

// RowValues renders a stored row as text values keyed by FieldKeys, the
// inverse of EmployeeFromValues.
func RowValues(row EmployeeRow) map[string]string {
	e := FromPersisted(row)
	text := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	salary := ""
	if e.Salary != nil {
		salary = strconv.FormatFloat(*e.Salary, 'f', 2, 64)
	}

	return map[string]string{
		"nome":         text(e.Name),
		"email":        text(e.Email),
		"telefone":     text(e.Phone),
		"cpf":          text(e.CPF),
		"cargo":        text(e.Role),
		"salario":      salary,
		"dataAdmissao": FormatDate(e.HireDate),
		"cep":          text(e.CEP),
		"endereco":     text(e.Street),
		"numero":       text(e.Number),
		"complemento":  text(e.Complement),
		"bairro":       text(e.District),
		"cidade":       text(e.City),
		"estado":       text(e.State),
	}
}

// FieldKey resolves a loosely written column name ("Data Admissão",
// "DATAADMISSAO", "=nome") to its FieldKeys entry.
func FieldKey(name string) (string, bool) {
	n := CleanHeader(name)
	for _, k := range FieldKeys {
		if CleanHeader(k) == n {
			return k, true
		}
	}
	return "", false
}

var headerFolds = strings.NewReplacer(
	"ã", "a", "á", "a", "â", "a", "é", "e", "ê", "e", "í", "i",
	"ó", "o", "ô", "o", "õ", "o", "ú", "u", "ç", "c",
	" ", "", "_", "", "-", "",
)

// CleanHeader normalizes a CSV header cell: it drops a UTF-8 BOM, Excel
// formula prefixes and quotes, lower-cases, folds Portuguese accents and
// removes separators.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.TrimLeft(h, "=+@")
	h = strings.Trim(h, `"'`)
	return headerFolds.Replace(strings.ToLower(strings.TrimSpace(h)))
}
