// Package templates holds the server-rendered page components.
//
// The .templ files are the source; the _templ.go files next to them are
// produced by templ generate and must not be edited by hand.
package templates

//go:generate templ generate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/core"
)

// Alert is a mapped user-facing error.
type Alert struct {
	Message string
	Action  string
	Code    string
}

// HomeData is the postal-code lookup page.
type HomeData struct {
	CEP     string
	Address *cep.Address
	Error   *Alert
}

// Field is one input of the employee form. Name is the form key, which is
// also the application-level JSON name.
type Field struct {
	Name  string
	Label string
	Type  string
}

// EmployeeFields lists the form inputs in display order.
var EmployeeFields = []Field{
	{Name: "nome", Label: "Nome", Type: "text"},
	{Name: "email", Label: "E-mail", Type: "email"},
	{Name: "telefone", Label: "Telefone", Type: "tel"},
	{Name: "cpf", Label: "CPF", Type: "text"},
	{Name: "cargo", Label: "Cargo", Type: "text"},
	{Name: "salario", Label: "Salário", Type: "text"},
	{Name: "dataAdmissao", Label: "Data de admissão", Type: "date"},
	{Name: "cep", Label: "CEP", Type: "text"},
	{Name: "endereco", Label: "Endereço", Type: "text"},
	{Name: "numero", Label: "Número", Type: "text"},
	{Name: "complemento", Label: "Complemento", Type: "text"},
	{Name: "bairro", Label: "Bairro", Type: "text"},
	{Name: "cidade", Label: "Cidade", Type: "text"},
	{Name: "estado", Label: "Estado", Type: "text"},
}

// FormData is an employee form being filled or edited.
type FormData struct {
	Title  string
	Action string
	Submit string
	Values map[string]string
	Error  *Alert
}

// EmployeesData is the list page.
type EmployeesData struct {
	Rows  []core.EmployeeRow
	Form  FormData
	Error *Alert
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func rowID(row core.EmployeeRow) string {
	if row.ID == nil {
		return ""
	}
	return strconv.FormatInt(*row.ID, 10)
}

// cityState renders "City/ST", or just the city when the state is empty.
func cityState(row core.EmployeeRow) string {
	city := str(row.City)
	if st := str(row.State); st != "" {
		city += "/" + st
	}
	return city
}

func durationMillis(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

// money renders an amount the Brazilian way: R$ 1.234,56.
func money(p *float64) string {
	if p == nil {
		return ""
	}
	v := *p
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "R$ " + sign + b.String() + "," + frac
}

// addressQuery prefills the employee form with a looked-up address.
func addressQuery(a cep.Address) string {
	q := url.Values{}
	q.Set("cep", cep.Format(a.CEP))
	q.Set("endereco", a.Street)
	q.Set("bairro", a.District)
	q.Set("cidade", a.City)
	q.Set("estado", a.State)
	return q.Encode()
}
