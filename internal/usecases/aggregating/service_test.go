package aggregating

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/infrastructure/repository/mocks"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServiceWithMocks(ctrl *gomock.Controller) (
	*Service,
	*mocks.MockOrderRepository,
	*mocks.MockPricePointRepository,
	*mocks.MockPaymentRepository,
	*mocks.MockProductRepository,
	*mocks.MockCustomerRepository,
	*mocks.MockEmployeeRepository,
) {
	orderRepo := mocks.NewMockOrderRepository(ctrl)
	priceRepo := mocks.NewMockPricePointRepository(ctrl)
	paymentRepo := mocks.NewMockPaymentRepository(ctrl)
	productRepo := mocks.NewMockProductRepository(ctrl)
	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	employeeRepo := mocks.NewMockEmployeeRepository(ctrl)

	service := &Service{
		orderRepo:    orderRepo,
		priceRepo:    priceRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
	}

	return service, orderRepo, priceRepo, paymentRepo, productRepo, customerRepo, employeeRepo
}

func TestService_AggregateSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, orderRepo, priceRepo, paymentRepo, productRepo, customerRepo, employeeRepo := newServiceWithMocks(ctrl)

	startDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	cancelledAt := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	orders := []*domain.Order{
		{
			ID: 1, Number: "VND001", CustomerID: 10, EmployeeID: 20,
			OrderDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Lines:     []domain.OrderLine{{ProductCode: "PROD-A", Quantity: 2}},
		},
		{
			ID: 2, Number: "VND002", CustomerID: 10, EmployeeID: 20,
			OrderDate:   time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
			Lines:       []domain.OrderLine{{ProductCode: "PROD-A", Quantity: 1}},
			CancelledAt: &cancelledAt,
		},
	}

	orderRepo.EXPECT().ListByDateRange(startDate, endDate).Return(orders, nil)
	priceRepo.EXPECT().ListByProductCodes([]string{"PROD-A"}).Return([]domain.PricePoint{
		{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)
	paymentRepo.EXPECT().GetByOrderIDs([]int64{1, 2}).Return(map[int64]*domain.Payment{
		1: {OrderID: 1, Amount: 20.0},
	}, nil)
	productRepo.EXPECT().GetByCodes([]string{"PROD-A"}).Return(map[string]*domain.Product{
		"PROD-A": {Code: "PROD-A", Description: "Produto A", Unit: "un"},
	}, nil)
	customerRepo.EXPECT().GetByIDs([]int{10}).Return(map[int]*domain.Customer{
		10: {ID: 10, Name: "Cliente Dez"},
	}, nil)
	employeeRepo.EXPECT().GetByIDs([]int{20}).Return(map[int]*domain.Employee{
		20: {ID: 20, FirstName: "Maria"},
	}, nil)

	result, err := service.AggregateSales(&domain.SaleFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	})

	assert.NoError(t, err)
	assert.Len(t, result.Sales, 2)

	// Venda paga integralmente deriva completed
	assert.Equal(t, domain.SaleStatusCompleted, result.Sales[0].Status)
	assert.Equal(t, 20.0, result.Sales[0].TotalAmount)

	// Venda cancelada no registro sobrescreve o status derivado
	assert.Equal(t, domain.SaleStatusCancelled, result.Sales[1].Status)
}

func TestService_AggregateSales_ValidacaoDeFiltros(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _, _, _, _ := newServiceWithMocks(ctrl)

	startDate := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters *domain.SaleFilters
	}{
		{
			name:    "Filtros nulos",
			filters: nil,
		},
		{
			name:    "Sem data de início",
			filters: &domain.SaleFilters{EndDate: &endDate},
		},
		{
			name:    "Sem data de fim",
			filters: &domain.SaleFilters{StartDate: &startDate},
		},
		{
			name:    "Data de início posterior à data de fim",
			filters: &domain.SaleFilters{StartDate: &startDate, EndDate: &endDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.AggregateSales(tt.filters)
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestService_AggregateSales_FalhaDeBuscaAbortaExecucao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, orderRepo, priceRepo, paymentRepo, productRepo, customerRepo, employeeRepo := newServiceWithMocks(ctrl)

	startDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	orders := []*domain.Order{
		{
			ID: 1, Number: "VND001", CustomerID: 10, EmployeeID: 20,
			OrderDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Lines:     []domain.OrderLine{{ProductCode: "PROD-A", Quantity: 2}},
		},
	}

	orderRepo.EXPECT().ListByDateRange(startDate, endDate).Return(orders, nil)

	// As buscas em lote são concorrentes: todas são chamadas, uma falha
	priceRepo.EXPECT().ListByProductCodes(gomock.Any()).Return(nil, assert.AnError)
	paymentRepo.EXPECT().GetByOrderIDs(gomock.Any()).Return(map[int64]*domain.Payment{}, nil)
	productRepo.EXPECT().GetByCodes(gomock.Any()).Return(map[string]*domain.Product{}, nil)
	customerRepo.EXPECT().GetByIDs(gomock.Any()).Return(map[int]*domain.Customer{}, nil)
	employeeRepo.EXPECT().GetByIDs(gomock.Any()).Return(map[int]*domain.Employee{}, nil)

	result, err := service.AggregateSales(&domain.SaleFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	})

	// Falha de recuperação é fatal: nenhum resultado parcial é retornado
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestService_AggregateSaleByNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, orderRepo, priceRepo, paymentRepo, productRepo, customerRepo, employeeRepo := newServiceWithMocks(ctrl)

	t.Run("Venda não encontrada retorna nil sem erro", func(t *testing.T) {
		orderRepo.EXPECT().GetByNumber("VND999").Return(nil, nil)

		sale, err := service.AggregateSaleByNumber("VND999")

		assert.NoError(t, err)
		assert.Nil(t, sale)
	})

	t.Run("Venda encontrada é agregada com preço da data da venda", func(t *testing.T) {
		order := &domain.Order{
			ID: 1, Number: "VND001", CustomerID: 10, EmployeeID: 20,
			OrderDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Lines:     []domain.OrderLine{{ProductCode: "PROD-A", Quantity: 3}},
		}

		orderRepo.EXPECT().GetByNumber("VND001").Return(order, nil)
		priceRepo.EXPECT().ListByProductCodes([]string{"PROD-A"}).Return([]domain.PricePoint{
			{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ProductCode: "PROD-A", UnitPrice: 99.0, EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
		paymentRepo.EXPECT().GetByOrderIDs([]int64{1}).Return(map[int64]*domain.Payment{}, nil)
		productRepo.EXPECT().GetByCodes([]string{"PROD-A"}).Return(map[string]*domain.Product{
			"PROD-A": {Code: "PROD-A", Description: "Produto A", Unit: "un"},
		}, nil)
		customerRepo.EXPECT().GetByIDs([]int{10}).Return(map[int]*domain.Customer{}, nil)
		employeeRepo.EXPECT().GetByIDs([]int{20}).Return(map[int]*domain.Employee{}, nil)

		sale, err := service.AggregateSaleByNumber("VND001")

		assert.NoError(t, err)
		assert.NotNil(t, sale)
		assert.Equal(t, 30.0, sale.TotalAmount) // 3 x 10 (preço vigente em maio)
		assert.Equal(t, domain.SaleStatusPending, sale.Status)
		assert.Equal(t, UnknownLabel, sale.CustomerName)
	})
}
