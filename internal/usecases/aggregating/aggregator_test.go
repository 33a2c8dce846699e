package aggregating

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregateSale(t *testing.T) {
	orderDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	order := &domain.Order{
		ID:         1,
		Number:     "VND001",
		CustomerID: 10,
		EmployeeID: 20,
		OrderDate:  orderDate,
	}

	lines := []domain.PricedLine{
		{ProductCode: "PROD-A", Quantity: 2, UnitPrice: 50.0, Subtotal: 100.0},
		{ProductCode: "PROD-B", Quantity: 1, UnitPrice: 30.0, Subtotal: 30.0},
	}

	tests := []struct {
		name           string
		pricedLines    []domain.PricedLine
		payment        *domain.Payment
		expectedTotal  float64
		expectedStatus domain.SaleStatus
		expectedPaid   *float64
	}{
		{
			name:           "Sem pagamento registrado deriva pending",
			pricedLines:    lines,
			payment:        nil,
			expectedTotal:  130.0,
			expectedStatus: domain.SaleStatusPending,
			expectedPaid:   nil,
		},
		{
			name:           "Pagamento igual ao total deriva completed",
			pricedLines:    lines,
			payment:        &domain.Payment{OrderID: 1, Amount: 130.0},
			expectedTotal:  130.0,
			expectedStatus: domain.SaleStatusCompleted,
			expectedPaid:   floatPtr(130.0),
		},
		{
			name:           "Pagamento maior que o total deriva completed",
			pricedLines:    lines,
			payment:        &domain.Payment{OrderID: 1, Amount: 200.0},
			expectedTotal:  130.0,
			expectedStatus: domain.SaleStatusCompleted,
			expectedPaid:   floatPtr(200.0),
		},
		{
			name:           "Pagamento parcial deriva pending",
			pricedLines:    lines,
			payment:        &domain.Payment{OrderID: 1, Amount: 129.99},
			expectedTotal:  130.0,
			expectedStatus: domain.SaleStatusPending,
			expectedPaid:   floatPtr(129.99),
		},
		{
			name:           "Venda sem linhas e sem pagamento deriva pending",
			pricedLines:    []domain.PricedLine{},
			payment:        nil,
			expectedTotal:  0,
			expectedStatus: domain.SaleStatusPending,
			expectedPaid:   nil,
		},
		{
			name:           "Venda sem linhas com pagamento zero deriva completed",
			pricedLines:    []domain.PricedLine{},
			payment:        &domain.Payment{OrderID: 1, Amount: 0},
			expectedTotal:  0,
			expectedStatus: domain.SaleStatusCompleted,
			expectedPaid:   floatPtr(0),
		},
		{
			name: "Linha com quantidade negativa reduz o total",
			pricedLines: []domain.PricedLine{
				{ProductCode: "PROD-A", Quantity: 2, UnitPrice: 50.0, Subtotal: 100.0},
				{ProductCode: "PROD-B", Quantity: -1, UnitPrice: 30.0, Subtotal: -30.0},
			},
			payment:        nil,
			expectedTotal:  70.0,
			expectedStatus: domain.SaleStatusPending,
			expectedPaid:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := AggregateSale(order, tt.pricedLines, tt.payment)

			assert.Equal(t, "VND001", sale.Number)
			assert.Equal(t, 10, sale.CustomerID)
			assert.Equal(t, 20, sale.EmployeeID)
			assert.Equal(t, orderDate, sale.OrderDate)
			assert.Equal(t, tt.expectedTotal, sale.TotalAmount)
			assert.Equal(t, tt.expectedStatus, sale.Status)

			if tt.expectedPaid == nil {
				assert.Nil(t, sale.PaidAmount)
			} else {
				assert.NotNil(t, sale.PaidAmount)
				assert.Equal(t, *tt.expectedPaid, *sale.PaidAmount)
			}
		})
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
