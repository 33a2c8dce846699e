package domain

import "time"

// ProductRollup acumula unidades e receita de um produto ao longo de
// muitas vendas. Rank é denso, base 1, ordenado por TotalUnits
// decrescente; empates preservam a ordem de primeira aparição.
type ProductRollup struct {
	ProductCode  string  `json:"product_code"`
	Description  string  `json:"description"`
	TotalUnits   int     `json:"total_units"`
	TotalRevenue float64 `json:"total_revenue"`
	Rank         int     `json:"rank"`
}

// EmployeeRollup acumula vendas (transações, não linhas) e receita por
// funcionário. Rank segue a mesma regra do rollup de produtos, com
// SalesCount como critério.
type EmployeeRollup struct {
	EmployeeID   int     `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	SalesCount   int     `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
	Rank         int     `json:"rank"`
}

type ProductRankingResponse struct {
	Ranking    []ProductRankingItem `json:"ranking"`
	LastUpdate time.Time            `json:"last_update"`
}

// ProductRankingItem é o snapshot mensal persistido do ranking de
// produtos, com acompanhamento de mudança de posição.
type ProductRankingItem struct {
	ID               int       `json:"id"`
	ProductCode      string    `json:"product_code"`
	Month            string    `json:"month"` // Formato mm-yyyy (ex: 01-2024)
	Description      string    `json:"description"`
	TotalUnits       int       `json:"total_units"`
	TotalRevenue     float64   `json:"total_revenue"`
	Position         int       `json:"position"`
	PositionChange   int       `json:"position_change"` // Valor positivo = subiu, negativo = desceu, 0 = manteve
	PreviousPosition int       `json:"previous_position"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
