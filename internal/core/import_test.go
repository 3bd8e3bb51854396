package core_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/core/coretest"
)

func TestImportCSV(t *testing.T) {
	mem := coretest.NewMemoryStore()
	svc := core.NewService(mem)

	in := strings.Join([]string{
		"id,Nome,E-mail,Salário,Data Admissão,extra",
		"9,Ana,ana@example.com,\"3.500,50\",2024-01-02,x",
		",,,,,",
		"10,Bruno,bruno@example.com,abc,,",
		"11,Carla,,1200,15/03/2023,",
	}, "\n")

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Blank)
	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0][0], "line 4")
	assert.Contains(t, res.Failed[0][0], "invalid number")
	assert.Equal(t, "status", res.FailedHeader[0])

	rows := mem.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", *rows[0].Name)
	assert.Equal(t, 3500.5, *rows[0].Salary)
	assert.NotEqual(t, int64(9), *rows[0].ID, "id column is ignored")
	assert.Equal(t, "2023-03-15", core.FormatDate(rows[1].HireDate))
}

func TestImportCSV_StoreFailuresAreReportedPerRow(t *testing.T) {
	mem := coretest.NewMemoryStore()
	mem.Err = apperr.New(apperr.Transport, "x")

	res, err := core.NewService(mem).ImportCSV(context.Background(), strings.NewReader("nome\nAna\nBia\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "line 2: x", res.Failed[0][0])
}

func TestImportCSV_BadFiles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "empty"},
		{"no known columns", "foo,bar\n1,2\n", "no employee columns"},
		{"semicolon separated", "nome;email\nAna;a@b.c\n", "';'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.NewService(coretest.NewMemoryStore()).ImportCSV(context.Background(), strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Validation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.NewService(coretest.NewMemoryStore()).ImportCSV(ctx, strings.NewReader("nome\nAna\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportCSV_WindowsExport(t *testing.T) {
	mem := coretest.NewMemoryStore()
	in := "\xef\xbb\xbfNome,Endere\xe7o,Cidade\r\nJo\xe3o,Pra\xe7a da S\xe9,S\xe3o Paulo\r\n"

	res, err := core.NewService(mem).ImportCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)

	row := mem.Rows()[0]
	assert.Equal(t, "João", *row.Name)
	assert.Equal(t, "Praça da Sé", *row.Street)
	assert.Equal(t, "São Paulo", *row.City)
}

func TestImportCSV_LineNumbersFollowQuotedNewlines(t *testing.T) {
	mem := coretest.NewMemoryStore()
	in := "nome,salario,complemento\nAna,10,\"apto\n12\"\nBia,abc,\n"

	res, err := core.NewService(mem).ImportCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, "apto\n12", *mem.Rows()[0].Complement)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, `line 4: invalid number: "abc"`, res.Failed[0][0])
}
