package domain

// SalesReportResponse é o resultado completo de uma agregação de coleção,
// consumido pelas telas de listagem e relatório.
type SalesReportResponse struct {
	Filters         *SaleFilters      `json:"filters,omitempty"`
	Sales           []*AggregatedSale `json:"sales"`
	ProductRollups  []*ProductRollup  `json:"product_rollups"`
	EmployeeRollups []*EmployeeRollup `json:"employee_rollups"`
}

// ReportTable é a forma tabular genérica consumida por qualquer
// renderizador (gráfico, tabela ou exportação paginada). As células são
// strings ou números; o núcleo nunca conversa com o renderizador.
type ReportTable struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// MonthlyRevenuePoint é um ponto da série mensal usada nos gráficos.
type MonthlyRevenuePoint struct {
	Month      string  `json:"month"` // Formato mm-yyyy
	SalesCount int     `json:"sales_count"`
	Revenue    float64 `json:"revenue"`
}
