package aggregating

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/sirupsen/logrus"
)

// Aggregator é a interface exposta para as telas de listagem, relatórios e
// snapshots. Cada chamada recompõe as visões a partir do estado atual do
// banco; nada é cacheado entre execuções.
type Aggregator interface {
	// AggregateSales agrega todas as vendas do período com rollups
	AggregateSales(filters *domain.SaleFilters) (*CollectionResult, error)

	// AggregateSaleByNumber agrega uma única venda pelo número público
	AggregateSaleByNumber(number string) (*domain.AggregatedSale, error)
}

type Service struct {
	orderRepo    repository.OrderRepository
	priceRepo    repository.PricePointRepository
	paymentRepo  repository.PaymentRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
}

func NewService(
	orderRepo repository.OrderRepository,
	priceRepo repository.PricePointRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	employeeRepo repository.EmployeeRepository,
) Aggregator {
	return &Service{
		orderRepo:    orderRepo,
		priceRepo:    priceRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
	}
}

// AggregateSales busca as linhas brutas do período em consultas em lote
// (uma por tipo de linha, eliminando o padrão N+1 de uma consulta de preço
// por linha) e executa a agregação em memória. Falha de recuperação é
// fatal para a execução inteira: o núcleo nunca agrega a partir de uma
// busca incompleta. Degradações por linha (preço ausente, pagamento
// ausente, nome não resolvível) são absorvidas na saída.
func (s *Service) AggregateSales(filters *domain.SaleFilters) (*CollectionResult, error) {
	if filters == nil || filters.StartDate == nil || filters.EndDate == nil {
		return nil, fmt.Errorf("é necessário informar as datas de início e fim")
	}

	if filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	orders, err := s.orderRepo.ListByDateRange(*filters.StartDate, *filters.EndDate)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar vendas do período")
	}

	input, err := s.loadCollectionInput(orders)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"orders":     len(orders),
		"start_date": filters.StartDate.Format(time.DateOnly),
		"end_date":   filters.EndDate.Format(time.DateOnly),
	}).Info("Agregando vendas do período")

	result := AggregateCollection(*input)
	applyCancellations(orders, result.Sales)

	return result, nil
}

// AggregateSaleByNumber agrega uma única venda reaproveitando o mesmo
// caminho em lote da coleção.
func (s *Service) AggregateSaleByNumber(number string) (*domain.AggregatedSale, error) {
	order, err := s.orderRepo.GetByNumber(number)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar venda")
	}

	if order == nil {
		return nil, nil
	}

	input, err := s.loadCollectionInput([]*domain.Order{order})
	if err != nil {
		return nil, err
	}

	result := AggregateCollection(*input)
	applyCancellations([]*domain.Order{order}, result.Sales)

	return result.Sales[0], nil
}

// loadCollectionInput faz as buscas em lote independentes (preços,
// pagamentos e nomes de exibição) para o conjunto de vendas. As buscas são
// concorrentes entre si; qualquer erro aborta a execução.
func (s *Service) loadCollectionInput(orders []*domain.Order) (*CollectionInput, error) {
	productCodes := make([]string, 0)
	seenProducts := make(map[string]bool)
	customerIDs := make([]int, 0)
	seenCustomers := make(map[int]bool)
	employeeIDs := make([]int, 0)
	seenEmployees := make(map[int]bool)
	orderIDs := make([]int64, 0, len(orders))

	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)

		if !seenCustomers[order.CustomerID] {
			seenCustomers[order.CustomerID] = true
			customerIDs = append(customerIDs, order.CustomerID)
		}

		if !seenEmployees[order.EmployeeID] {
			seenEmployees[order.EmployeeID] = true
			employeeIDs = append(employeeIDs, order.EmployeeID)
		}

		for _, line := range order.Lines {
			if !seenProducts[line.ProductCode] {
				seenProducts[line.ProductCode] = true
				productCodes = append(productCodes, line.ProductCode)
			}
		}
	}

	var (
		prices    []domain.PricePoint
		payments  map[int64]*domain.Payment
		products  map[string]*domain.Product
		customers map[int]*domain.Customer
		employees map[int]*domain.Employee

		priceErr    error
		paymentErr  error
		productErr  error
		customerErr error
		employeeErr error
	)

	wg := sync.WaitGroup{}
	wg.Add(5)

	go func() {
		defer wg.Done()
		prices, priceErr = s.priceRepo.ListByProductCodes(productCodes)
	}()

	go func() {
		defer wg.Done()
		payments, paymentErr = s.paymentRepo.GetByOrderIDs(orderIDs)
	}()

	go func() {
		defer wg.Done()
		products, productErr = s.productRepo.GetByCodes(productCodes)
	}()

	go func() {
		defer wg.Done()
		customers, customerErr = s.customerRepo.GetByIDs(customerIDs)
	}()

	go func() {
		defer wg.Done()
		employees, employeeErr = s.employeeRepo.GetByIDs(employeeIDs)
	}()

	wg.Wait()

	for _, err := range []error{priceErr, paymentErr, productErr, customerErr, employeeErr} {
		if err != nil {
			return nil, errors.Wrap(err, "erro ao buscar dados para a agregação")
		}
	}

	return &CollectionInput{
		Orders:    orders,
		Prices:    prices,
		Payments:  payments,
		Products:  products,
		Customers: customers,
		Employees: employees,
	}, nil
}

// applyCancellations sobrescreve o status das vendas canceladas no
// registro. O cancelamento é um estado definido externamente; a regra de
// derivação em AggregateSale nunca o produz.
func applyCancellations(orders []*domain.Order, sales []*domain.AggregatedSale) {
	for i, order := range orders {
		if order.CancelledAt != nil && sales[i] != nil {
			sales[i].Status = domain.SaleStatusCancelled
		}
	}
}
