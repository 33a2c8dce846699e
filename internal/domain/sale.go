package domain

import "time"

// SaleStatus é o rótulo derivado de completude do pagamento de uma venda.
type SaleStatus string

const (
	// SaleStatusPending indica venda sem pagamento ou com pagamento parcial
	SaleStatusPending SaleStatus = "pending"
	// SaleStatusCompleted indica pagamento maior ou igual ao total
	SaleStatusCompleted SaleStatus = "completed"
	// SaleStatusCancelled nunca é derivado pelo agregador; é definido
	// externamente no registro da venda
	SaleStatusCancelled SaleStatus = "cancelled"
)

// PricedLine é uma linha de venda com o preço resolvido na data da venda.
type PricedLine struct {
	ProductCode string  `json:"product_code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// AggregatedSale é a visão consistente de uma venda, reconstruída a cada
// agregação a partir das linhas, dos preços históricos e do pagamento.
type AggregatedSale struct {
	Number       string       `json:"number"`
	CustomerID   int          `json:"customer_id"`
	CustomerName string       `json:"customer_name"`
	EmployeeID   int          `json:"employee_id"`
	EmployeeName string       `json:"employee_name"`
	OrderDate    time.Time    `json:"order_date"`
	Lines        []PricedLine `json:"lines"`
	TotalAmount  float64      `json:"total_amount"`
	PaidAmount   *float64     `json:"paid_amount"`
	Status       SaleStatus   `json:"status"`
}

// SaleFilters delimita o período de uma agregação
type SaleFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
