package aggregating

import (
	"github.com/salesdesk/backoffice-api/internal/domain"
)

// AggregateSale soma os subtotais na ordem das linhas e deriva o status de
// pagamento. Esta é a única regra de derivação de status do sistema;
// listagens, relatórios e snapshots passam todos por aqui.
//
// Regra de status:
//   - sem pagamento registrado            -> pending
//   - pagamento >= total                  -> completed
//   - pagamento < total (parcial)         -> pending
//
// "cancelled" nunca é derivado; é um valor definido externamente no
// registro da venda. Venda sem linhas tem total 0; um pagamento de valor 0
// contra uma venda sem linhas deriva "completed" (0 >= 0); comportamento
// documentado e preservado.
func AggregateSale(order *domain.Order, pricedLines []domain.PricedLine, payment *domain.Payment) *domain.AggregatedSale {
	// Soma em ponto flutuante estável: a ordem de soma segue a ordem das
	// linhas para resultados reproduzíveis
	totalAmount := 0.0
	for _, line := range pricedLines {
		totalAmount += line.Subtotal
	}

	status := domain.SaleStatusPending
	var paidAmount *float64
	if payment != nil {
		amount := payment.Amount
		paidAmount = &amount

		if payment.Amount >= totalAmount {
			status = domain.SaleStatusCompleted
		}
	}

	return &domain.AggregatedSale{
		Number:      order.Number,
		CustomerID:  order.CustomerID,
		EmployeeID:  order.EmployeeID,
		OrderDate:   order.OrderDate,
		Lines:       pricedLines,
		TotalAmount: totalAmount,
		PaidAmount:  paidAmount,
		Status:      status,
	}
}
