// Package selling cuida do ciclo de vida do registro de venda: criação,
// pagamento, cancelamento e reabertura. A leitura agregada (totais,
// status, rollups) fica a cargo do agregador.
package selling

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/salesdesk/backoffice-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// CreateSaleRequest é a entrada de criação de venda. As linhas entram na
// ordem do registro e são preservadas assim até o relatório.
type CreateSaleRequest struct {
	CustomerID int              `json:"customer_id"`
	EmployeeID int              `json:"employee_id"`
	OrderDate  *time.Time       `json:"order_date"`
	Lines      []CreateSaleLine `json:"lines"`
	Payment    *RegisterPayment `json:"payment"`
}

type CreateSaleLine struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

type RegisterPayment struct {
	Amount      float64    `json:"amount"`
	PaymentDate *time.Time `json:"payment_date"`
}

type Seller interface {
	CreateSale(request *CreateSaleRequest) (*domain.AggregatedSale, error)
	GetSale(number string) (*domain.AggregatedSale, error)
	RegisterPayment(number string, payment *RegisterPayment) (*domain.AggregatedSale, error)
	CancelSale(number string) error
	ReopenSale(number string) error
}

type Service struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	aggregator   aggregating.Aggregator
}

func NewService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	employeeRepo repository.EmployeeRepository,
	aggregator aggregating.Aggregator,
) Seller {
	return &Service{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		aggregator:   aggregator,
	}
}

// CreateSale valida as referências, gera o número público da venda e
// grava o registro. A resposta já vem agregada; preços resolvidos pela
// data da venda e status derivado.
func (s *Service) CreateSale(request *CreateSaleRequest) (*domain.AggregatedSale, error) {
	if request == nil || request.CustomerID == 0 || request.EmployeeID == 0 {
		return nil, fmt.Errorf("cliente e funcionário são obrigatórios")
	}

	for _, line := range request.Lines {
		if line.ProductCode == "" {
			return nil, fmt.Errorf("toda linha da venda precisa de um código de produto")
		}
	}

	customer, err := s.customerRepo.GetByID(request.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar cliente")
	}
	if customer == nil {
		return nil, fmt.Errorf("cliente %d não encontrado", request.CustomerID)
	}

	employee, err := s.employeeRepo.GetByID(request.EmployeeID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar funcionário")
	}
	if employee == nil {
		return nil, fmt.Errorf("funcionário %d não encontrado", request.EmployeeID)
	}

	number, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar número da venda")
	}

	orderDate := time.Now()
	if request.OrderDate != nil {
		orderDate = *request.OrderDate
	}

	order := &domain.Order{
		Number:     number,
		CustomerID: request.CustomerID,
		EmployeeID: request.EmployeeID,
		OrderDate:  orderDate,
		Lines:      make([]domain.OrderLine, 0, len(request.Lines)),
	}

	for _, line := range request.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
		})
	}

	order, err = s.orderRepo.Create(order)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar venda")
	}

	logrus.WithFields(logrus.Fields{
		"number": order.Number,
		"lines":  len(order.Lines),
	}).Info("Venda criada")

	if request.Payment != nil {
		return s.RegisterPayment(order.Number, request.Payment)
	}

	return s.aggregator.AggregateSaleByNumber(order.Number)
}

func (s *Service) GetSale(number string) (*domain.AggregatedSale, error) {
	sale, err := s.aggregator.AggregateSaleByNumber(number)
	if err != nil {
		return nil, err
	}

	if sale == nil {
		return nil, fmt.Errorf("venda %s não encontrada", number)
	}

	return sale, nil
}

// RegisterPayment grava o pagamento da venda. O status não é gravado:
// ele é rederivado na leitura a partir do valor pago contra o total.
func (s *Service) RegisterPayment(number string, payment *RegisterPayment) (*domain.AggregatedSale, error) {
	if payment == nil || payment.Amount < 0 {
		return nil, fmt.Errorf("valor de pagamento inválido")
	}

	order, err := s.orderRepo.GetByNumber(number)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar venda")
	}
	if order == nil {
		return nil, fmt.Errorf("venda %s não encontrada", number)
	}

	paymentDate := time.Now()
	if payment.PaymentDate != nil {
		paymentDate = *payment.PaymentDate
	}

	err = s.paymentRepo.SaveOrUpdate(&domain.Payment{
		OrderID:     order.ID,
		Amount:      payment.Amount,
		PaymentDate: paymentDate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao registrar pagamento")
	}

	logrus.WithFields(logrus.Fields{
		"number": number,
		"amount": payment.Amount,
	}).Info("Pagamento registrado")

	return s.aggregator.AggregateSaleByNumber(number)
}

// CancelSale marca a venda como cancelada. O cancelamento é um estado do
// registro; a derivação de status na agregação nunca o produz.
func (s *Service) CancelSale(number string) error {
	now := time.Now()
	return s.orderRepo.SetCancelled(number, &now)
}

// ReopenSale limpa o cancelamento; o status volta a ser derivado do
// pagamento na próxima leitura.
func (s *Service) ReopenSale(number string) error {
	return s.orderRepo.SetCancelled(number, nil)
}
