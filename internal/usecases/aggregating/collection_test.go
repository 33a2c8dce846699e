package aggregating

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregateCollection(t *testing.T) {
	orderDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	orders := []*domain.Order{
		{
			ID: 1, Number: "VND001", CustomerID: 10, EmployeeID: 20, OrderDate: orderDate,
			Lines: []domain.OrderLine{
				{ProductCode: "PROD-A", Quantity: 2},
				{ProductCode: "PROD-B", Quantity: 1},
			},
		},
		{
			ID: 2, Number: "VND002", CustomerID: 11, EmployeeID: 21, OrderDate: orderDate,
			Lines: []domain.OrderLine{
				{ProductCode: "PROD-B", Quantity: 5},
			},
		},
		{
			ID: 3, Number: "VND003", CustomerID: 99, EmployeeID: 20, OrderDate: orderDate,
			Lines: []domain.OrderLine{
				{ProductCode: "PROD-A", Quantity: 1},
			},
		},
	}

	input := CollectionInput{
		Orders: orders,
		Prices: []domain.PricePoint{
			{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ProductCode: "PROD-B", UnitPrice: 20.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		Payments: map[int64]*domain.Payment{
			1: {OrderID: 1, Amount: 40.0}, // Total da VND001 = 40 -> completed
		},
		Products: map[string]*domain.Product{
			"PROD-A": {Code: "PROD-A", Description: "Produto A", Unit: "un"},
			"PROD-B": {Code: "PROD-B", Description: "Produto B", Unit: "un"},
		},
		Customers: map[int]*domain.Customer{
			10: {ID: 10, Name: "Cliente Dez"},
			11: {ID: 11, Name: "Cliente Onze"},
		},
		Employees: map[int]*domain.Employee{
			20: {ID: 20, FirstName: "Maria", LastName: "Silva"},
			21: {ID: 21, FirstName: "João"},
		},
	}

	result := AggregateCollection(input)

	// As vendas saem na ordem de entrada
	assert.Len(t, result.Sales, 3)
	assert.Equal(t, "VND001", result.Sales[0].Number)
	assert.Equal(t, "VND002", result.Sales[1].Number)
	assert.Equal(t, "VND003", result.Sales[2].Number)

	// Totais e status derivados
	assert.Equal(t, 40.0, result.Sales[0].TotalAmount)
	assert.Equal(t, domain.SaleStatusCompleted, result.Sales[0].Status)
	assert.Equal(t, 100.0, result.Sales[1].TotalAmount)
	assert.Equal(t, domain.SaleStatusPending, result.Sales[1].Status)

	// Nomes de exibição resolvidos; cliente desconhecido vira Unknown
	assert.Equal(t, "Cliente Dez", result.Sales[0].CustomerName)
	assert.Equal(t, "Maria Silva", result.Sales[0].EmployeeName)
	assert.Equal(t, "João", result.Sales[1].EmployeeName)
	assert.Equal(t, UnknownLabel, result.Sales[2].CustomerName)

	// Rollup de produtos: PROD-B com 6 unidades fica em 1º, PROD-A com 3 em 2º
	assert.Len(t, result.ProductRollups, 2)
	assert.Equal(t, "PROD-B", result.ProductRollups[0].ProductCode)
	assert.Equal(t, 6, result.ProductRollups[0].TotalUnits)
	assert.Equal(t, 120.0, result.ProductRollups[0].TotalRevenue)
	assert.Equal(t, 1, result.ProductRollups[0].Rank)

	assert.Equal(t, "PROD-A", result.ProductRollups[1].ProductCode)
	assert.Equal(t, 3, result.ProductRollups[1].TotalUnits)
	assert.Equal(t, 30.0, result.ProductRollups[1].TotalRevenue)
	assert.Equal(t, 2, result.ProductRollups[1].Rank)

	// Rollup de funcionários conta transações, não linhas
	assert.Len(t, result.EmployeeRollups, 2)
	assert.Equal(t, 20, result.EmployeeRollups[0].EmployeeID)
	assert.Equal(t, 2, result.EmployeeRollups[0].SalesCount)
	assert.Equal(t, 50.0, result.EmployeeRollups[0].TotalRevenue)
	assert.Equal(t, 1, result.EmployeeRollups[0].Rank)

	assert.Equal(t, 21, result.EmployeeRollups[1].EmployeeID)
	assert.Equal(t, 1, result.EmployeeRollups[1].SalesCount)
	assert.Equal(t, 2, result.EmployeeRollups[1].Rank)
}

func TestAggregateCollection_EmpatePreservaOrdemDePrimeiraAparicao(t *testing.T) {
	orderDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	input := CollectionInput{
		Orders: []*domain.Order{
			{
				ID: 1, Number: "VND001", CustomerID: 1, EmployeeID: 1, OrderDate: orderDate,
				Lines: []domain.OrderLine{
					{ProductCode: "PROD-A", Quantity: 3},
					{ProductCode: "PROD-B", Quantity: 3},
					{ProductCode: "PROD-C", Quantity: 3},
				},
			},
		},
	}

	result := AggregateCollection(input)

	// Empate em unidades: a ordem de primeira aparição é preservada
	assert.Len(t, result.ProductRollups, 3)
	assert.Equal(t, "PROD-A", result.ProductRollups[0].ProductCode)
	assert.Equal(t, "PROD-B", result.ProductRollups[1].ProductCode)
	assert.Equal(t, "PROD-C", result.ProductRollups[2].ProductCode)
	assert.Equal(t, 1, result.ProductRollups[0].Rank)
	assert.Equal(t, 2, result.ProductRollups[1].Rank)
	assert.Equal(t, 3, result.ProductRollups[2].Rank)
}

func TestAggregateCollection_ColecaoVazia(t *testing.T) {
	result := AggregateCollection(CollectionInput{})

	assert.NotNil(t, result)
	assert.Len(t, result.Sales, 0)
	assert.Len(t, result.ProductRollups, 0)
	assert.Len(t, result.EmployeeRollups, 0)
}
