package selling

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/infrastructure/repository/mocks"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type stubAggregator struct {
	sale *domain.AggregatedSale
	err  error
}

func (s *stubAggregator) AggregateSales(*domain.SaleFilters) (*aggregating.CollectionResult, error) {
	return nil, nil
}

func (s *stubAggregator) AggregateSaleByNumber(string) (*domain.AggregatedSale, error) {
	return s.sale, s.err
}

func TestService_CreateSale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	paymentRepo := mocks.NewMockPaymentRepository(ctrl)
	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	employeeRepo := mocks.NewMockEmployeeRepository(ctrl)

	aggregated := &domain.AggregatedSale{Number: "VND001", Status: domain.SaleStatusPending}

	service := &Service{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		aggregator:   &stubAggregator{sale: aggregated},
	}

	t.Run("Cria a venda com as linhas na ordem do registro", func(t *testing.T) {
		customerRepo.EXPECT().GetByID(10).Return(&domain.Customer{ID: 10, Name: "Cliente"}, nil)
		employeeRepo.EXPECT().GetByID(20).Return(&domain.Employee{ID: 20, FirstName: "Maria"}, nil)

		orderRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(order *domain.Order) (*domain.Order, error) {
				assert.NotEmpty(t, order.Number)
				assert.Equal(t, 10, order.CustomerID)
				assert.Equal(t, 20, order.EmployeeID)
				assert.Len(t, order.Lines, 2)
				assert.Equal(t, "PROD-B", order.Lines[0].ProductCode)
				assert.Equal(t, "PROD-A", order.Lines[1].ProductCode)

				order.ID = 1
				return order, nil
			})

		sale, err := service.CreateSale(&CreateSaleRequest{
			CustomerID: 10,
			EmployeeID: 20,
			Lines: []CreateSaleLine{
				{ProductCode: "PROD-B", Quantity: 3},
				{ProductCode: "PROD-A", Quantity: 1},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, aggregated, sale)
	})

	t.Run("Cria a venda com pagamento na mesma requisição", func(t *testing.T) {
		customerRepo.EXPECT().GetByID(10).Return(&domain.Customer{ID: 10}, nil)
		employeeRepo.EXPECT().GetByID(20).Return(&domain.Employee{ID: 20}, nil)

		orderRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(order *domain.Order) (*domain.Order, error) {
				order.ID = 2
				return order, nil
			})

		// O pagamento embutido passa pelo mesmo caminho de RegisterPayment
		orderRepo.EXPECT().
			GetByNumber(gomock.Any()).
			DoAndReturn(func(number string) (*domain.Order, error) {
				return &domain.Order{ID: 2, Number: number}, nil
			})

		paymentRepo.EXPECT().
			SaveOrUpdate(gomock.Any()).
			DoAndReturn(func(payment *domain.Payment) error {
				assert.Equal(t, int64(2), payment.OrderID)
				assert.Equal(t, 50.0, payment.Amount)
				return nil
			})

		sale, err := service.CreateSale(&CreateSaleRequest{
			CustomerID: 10,
			EmployeeID: 20,
			Lines:      []CreateSaleLine{{ProductCode: "PROD-A", Quantity: 1}},
			Payment:    &RegisterPayment{Amount: 50.0},
		})

		assert.NoError(t, err)
		assert.NotNil(t, sale)
	})

	t.Run("Cliente inexistente impede a criação", func(t *testing.T) {
		customerRepo.EXPECT().GetByID(99).Return(nil, nil)

		sale, err := service.CreateSale(&CreateSaleRequest{
			CustomerID: 99,
			EmployeeID: 20,
		})

		assert.Error(t, err)
		assert.Nil(t, sale)
	})

	t.Run("Linha sem código de produto impede a criação", func(t *testing.T) {
		sale, err := service.CreateSale(&CreateSaleRequest{
			CustomerID: 10,
			EmployeeID: 20,
			Lines:      []CreateSaleLine{{ProductCode: "", Quantity: 1}},
		})

		assert.Error(t, err)
		assert.Nil(t, sale)
	})

	t.Run("Requisição sem cliente ou funcionário é rejeitada", func(t *testing.T) {
		sale, err := service.CreateSale(&CreateSaleRequest{})

		assert.Error(t, err)
		assert.Nil(t, sale)
	})
}

func TestService_RegisterPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	paymentRepo := mocks.NewMockPaymentRepository(ctrl)

	service := &Service{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		aggregator:  &stubAggregator{sale: &domain.AggregatedSale{Number: "VND001"}},
	}

	t.Run("Registra o pagamento e devolve a venda reagregada", func(t *testing.T) {
		paymentDate := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

		orderRepo.EXPECT().GetByNumber("VND001").Return(&domain.Order{ID: 1, Number: "VND001"}, nil)
		paymentRepo.EXPECT().
			SaveOrUpdate(&domain.Payment{OrderID: 1, Amount: 130.0, PaymentDate: paymentDate}).
			Return(nil)

		sale, err := service.RegisterPayment("VND001", &RegisterPayment{
			Amount:      130.0,
			PaymentDate: &paymentDate,
		})

		assert.NoError(t, err)
		assert.Equal(t, "VND001", sale.Number)
	})

	t.Run("Venda inexistente retorna erro", func(t *testing.T) {
		orderRepo.EXPECT().GetByNumber("VND999").Return(nil, nil)

		sale, err := service.RegisterPayment("VND999", &RegisterPayment{Amount: 10.0})

		assert.Error(t, err)
		assert.Nil(t, sale)
	})

	t.Run("Valor negativo é rejeitado", func(t *testing.T) {
		sale, err := service.RegisterPayment("VND001", &RegisterPayment{Amount: -1.0})

		assert.Error(t, err)
		assert.Nil(t, sale)
	})
}

func TestService_CancelAndReopenSale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	service := &Service{orderRepo: orderRepo}

	t.Run("Cancelar grava o timestamp de cancelamento", func(t *testing.T) {
		orderRepo.EXPECT().
			SetCancelled("VND001", gomock.Not(gomock.Nil())).
			Return(nil)

		assert.NoError(t, service.CancelSale("VND001"))
	})

	t.Run("Reabrir limpa o cancelamento", func(t *testing.T) {
		orderRepo.EXPECT().
			SetCancelled("VND001", gomock.Nil()).
			Return(nil)

		assert.NoError(t, service.ReopenSale("VND001"))
	})
}
