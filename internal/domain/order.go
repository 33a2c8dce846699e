package domain

import "time"

// OrderLine é um item de uma venda. Quantidade não positiva é repassada
// sem correção; a validação fica a cargo de quem cadastra a venda.
type OrderLine struct {
	OrderID     int64  `json:"order_id"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// Order é uma venda: uma transação agrupando um cliente, um funcionário
// e uma ou mais linhas de produto.
type Order struct {
	ID          int64       `json:"id"`
	Number      string      `json:"number"` // Número público da transação
	CustomerID  int         `json:"customer_id"`
	EmployeeID  int         `json:"employee_id"`
	OrderDate   time.Time   `json:"order_date"`
	Lines       []OrderLine `json:"lines"`
	CancelledAt *time.Time  `json:"cancelled_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Payment é o pagamento registrado para uma venda. No modelo atual
// existe no máximo um pagamento por venda.
type Payment struct {
	OrderID     int64     `json:"order_id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}
