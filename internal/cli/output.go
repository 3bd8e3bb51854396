package cli

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/core"
)

// listColumns are the columns of the list table.
var listColumns = []string{"id", "nome", "email", "cargo", "salario", "dataAdmissao", "cidade", "estado"}

var (
	success = color.New(color.FgGreen).FprintfFunc()
	warning = color.New(color.FgYellow).FprintfFunc()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func idText(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func (cl *commandline) printRows(w io.Writer, rows []core.EmployeeRow) error {
	if cl.output == "json" {
		return printJSON(w, rows)
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(listColumns)
	t.SetAutoFormatHeaders(false)
	for _, r := range rows {
		v := core.RowValues(r)
		line := []string{idText(r.ID)}
		for _, c := range listColumns[1:] {
			line = append(line, v[c])
		}
		t.Append(line)
	}
	t.Render()
	return nil
}

func (cl *commandline) printRow(w io.Writer, r core.EmployeeRow) error {
	if cl.output == "json" {
		return printJSON(w, r)
	}

	v := core.RowValues(r)
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"campo", "valor"})
	t.SetAutoFormatHeaders(false)
	t.Append([]string{"id", idText(r.ID)})
	for _, k := range core.FieldKeys {
		t.Append([]string{k, v[k]})
	}
	t.Render()
	return nil
}

func (cl *commandline) printAddress(w io.Writer, a cep.Address) error {
	if cl.output == "json" {
		return printJSON(w, a)
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"cep", "endereco", "bairro", "cidade", "estado"})
	t.SetAutoFormatHeaders(false)
	t.Append([]string{cep.Format(a.CEP), a.Street, a.District, a.City, a.State})
	t.Render()
	return nil
}
