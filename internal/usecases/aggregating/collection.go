package aggregating

import (
	"sort"
	"sync"

	"github.com/salesdesk/backoffice-api/internal/domain"
)

// Número máximo de vendas agregadas simultaneamente. As vendas são
// mutuamente independentes, então o fan-out é seguro; o resultado é
// gravado por índice para preservar a ordem de entrada.
const maxConcurrentOrders = 5

// CollectionInput reúne todas as linhas brutas de uma execução, já
// carregadas em lote pela camada de recuperação (uma consulta por tipo de
// linha, nunca uma por venda).
type CollectionInput struct {
	Orders    []*domain.Order
	Prices    []domain.PricePoint
	Payments  map[int64]*domain.Payment
	Products  map[string]*domain.Product
	Customers map[int]*domain.Customer
	Employees map[int]*domain.Employee
}

// CollectionResult é a saída de uma agregação de coleção: as vendas na
// ordem de entrada e os rollups derivados.
type CollectionResult struct {
	Sales           []*domain.AggregatedSale
	ProductRollups  []*domain.ProductRollup
	EmployeeRollups []*domain.EmployeeRollup
}

// AggregateCollection executa a materialização e a agregação sobre cada
// venda de forma independente e acumula os rollups por produto e por
// funcionário. Nomes de exibição não resolvíveis viram o rótulo "Unknown";
// nenhuma venda é descartada por degradação de linha.
func AggregateCollection(in CollectionInput) *CollectionResult {
	priceBook := NewPriceBook(in.Prices)

	labeler := func(productCode string) (string, string) {
		if product, ok := in.Products[productCode]; ok {
			return product.Description, product.Unit
		}
		return UnknownLabel, ""
	}

	sales := make([]*domain.AggregatedSale, len(in.Orders))

	wg := sync.WaitGroup{}
	semaphore := make(chan struct{}, maxConcurrentOrders)

	for i, order := range in.Orders {
		wg.Add(1)

		go func(i int, order *domain.Order) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			pricedLines := MaterializeLines(order, priceBook, labeler)
			sale := AggregateSale(order, pricedLines, in.Payments[order.ID])

			sale.CustomerName = customerLabel(in.Customers, order.CustomerID)
			sale.EmployeeName = employeeLabel(in.Employees, order.EmployeeID)

			sales[i] = sale
		}(i, order)
	}

	wg.Wait()

	return &CollectionResult{
		Sales:           sales,
		ProductRollups:  rollupProducts(sales),
		EmployeeRollups: rollupEmployees(sales),
	}
}

func customerLabel(customers map[int]*domain.Customer, id int) string {
	if customer, ok := customers[id]; ok {
		return customer.Name
	}
	return UnknownLabel
}

func employeeLabel(employees map[int]*domain.Employee, id int) string {
	if employee, ok := employees[id]; ok {
		return employee.FullName()
	}
	return UnknownLabel
}

// rollupProducts acumula unidades e receita por produto na ordem de
// primeira aparição, ordena por unidades decrescente (ordenação estável:
// empates mantêm a ordem de entrada) e atribui posições densas a partir
// de 1.
func rollupProducts(sales []*domain.AggregatedSale) []*domain.ProductRollup {
	byCode := make(map[string]*domain.ProductRollup)
	rollups := make([]*domain.ProductRollup, 0)

	for _, sale := range sales {
		for _, line := range sale.Lines {
			rollup, exists := byCode[line.ProductCode]
			if !exists {
				rollup = &domain.ProductRollup{
					ProductCode: line.ProductCode,
					Description: line.Description,
				}
				byCode[line.ProductCode] = rollup
				rollups = append(rollups, rollup)
			}

			rollup.TotalUnits += line.Quantity
			rollup.TotalRevenue += line.Subtotal
		}
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].TotalUnits > rollups[j].TotalUnits
	})

	for i, rollup := range rollups {
		rollup.Rank = i + 1
	}

	return rollups
}

// rollupEmployees conta transações (não linhas) e soma o total de cada
// venda por funcionário, com a mesma regra de ordenação e posição do
// rollup de produtos.
func rollupEmployees(sales []*domain.AggregatedSale) []*domain.EmployeeRollup {
	byID := make(map[int]*domain.EmployeeRollup)
	rollups := make([]*domain.EmployeeRollup, 0)

	for _, sale := range sales {
		rollup, exists := byID[sale.EmployeeID]
		if !exists {
			rollup = &domain.EmployeeRollup{
				EmployeeID:   sale.EmployeeID,
				EmployeeName: sale.EmployeeName,
			}
			byID[sale.EmployeeID] = rollup
			rollups = append(rollups, rollup)
		}

		rollup.SalesCount++
		rollup.TotalRevenue += sale.TotalAmount
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].SalesCount > rollups[j].SalesCount
	})

	for i, rollup := range rollups {
		rollup.Rank = i + 1
	}

	return rollups
}
