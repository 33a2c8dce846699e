// Package reporting transforma os resultados agregados em formas tabulares
// genéricas (cabeçalhos + linhas) que qualquer renderizador consome:
// tabela, gráfico ou exportação em PDF. O formatador nunca conhece o
// renderizador nem a variante da linha.
package reporting

import (
	"github.com/salesdesk/backoffice-api/internal/domain"
)

// Row é uma linha de entrada do formatador: campos acessados por nome.
type Row map[string]any

// Column descreve uma coluna da tabela: um rótulo de cabeçalho e um
// acessor. Field lê o valor diretamente da linha; Compute deriva o valor
// como função pura da linha (colunas monetárias pré-formatadas, colunas
// "ou um ou outro" como mês/número da transação). Quando ambos estão
// definidos, Compute prevalece.
type Column struct {
	Header  string
	Field   string
	Compute func(row Row) any
}

// Format projeta as linhas sobre a especificação de colunas. Campo ausente
// vira célula nil; nenhuma outra transformação é aplicada, então ler de
// volta uma coluna de acessor reproduz exatamente o valor da linha.
func Format(rows []Row, columns []Column) *domain.ReportTable {
	headers := make([]string, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, column.Header)
	}

	tableRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, 0, len(columns))
		for _, column := range columns {
			if column.Compute != nil {
				cells = append(cells, column.Compute(row))
				continue
			}
			cells = append(cells, row[column.Field])
		}
		tableRows = append(tableRows, cells)
	}

	return &domain.ReportTable{
		Headers: headers,
		Rows:    tableRows,
	}
}
