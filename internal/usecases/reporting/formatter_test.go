package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	rows := []Row{
		{"name": "Produto A", "units": 10, "revenue": 150.0},
		{"name": "Produto B", "units": 3},
	}

	columns := []Column{
		{Header: "Nome", Field: "name"},
		{Header: "Unidades", Field: "units"},
		{Header: "Receita", Field: "revenue"},
	}

	table := Format(rows, columns)

	assert.Equal(t, []string{"Nome", "Unidades", "Receita"}, table.Headers)
	assert.Len(t, table.Rows, 2)

	// Colunas de acessor reproduzem exatamente o valor da linha
	assert.Equal(t, "Produto A", table.Rows[0][0])
	assert.Equal(t, 10, table.Rows[0][1])
	assert.Equal(t, 150.0, table.Rows[0][2])

	// Campo ausente vira célula nil
	assert.Nil(t, table.Rows[1][2])
}

func TestFormat_ComputePrevaleceSobreField(t *testing.T) {
	rows := []Row{
		{"kind": "month", "month": "05-2024", "number": "VND001"},
		{"kind": "sale", "month": "05-2024", "number": "VND002"},
	}

	columns := []Column{
		{
			Header: "Mês/Número",
			Field:  "number",
			Compute: func(row Row) any {
				if row["kind"] == "month" {
					return row["month"]
				}
				return row["number"]
			},
		},
	}

	table := Format(rows, columns)

	// A coluna computada decide a variante: mês para resumo, número para venda
	assert.Equal(t, "05-2024", table.Rows[0][0])
	assert.Equal(t, "VND002", table.Rows[1][0])
}

func TestFormat_SemLinhas(t *testing.T) {
	table := Format(nil, []Column{{Header: "Nome", Field: "name"}})

	assert.Equal(t, []string{"Nome"}, table.Headers)
	assert.NotNil(t, table.Rows)
	assert.Len(t, table.Rows, 0)
}
