// Package managing expõe os cadastros de apoio da retaguarda: clientes,
// produtos (com histórico de preços) e funcionários.
package managing

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

type CustomerManager interface {
	CreateCustomer(customer *domain.Customer) (*domain.Customer, error)
	UpdateCustomer(customer *domain.Customer) error
	GetCustomer(customerID int) (*domain.Customer, error)
	ListCustomers() ([]*domain.Customer, error)
	DeleteCustomer(customerID int) error
}

type CustomerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerManager {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

func (s *CustomerService) CreateCustomer(customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil || customer.Name == "" {
		return nil, fmt.Errorf("o nome do cliente é obrigatório")
	}

	created, err := s.customerRepo.Create(customer)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente")
	}

	return created, nil
}

func (s *CustomerService) UpdateCustomer(customer *domain.Customer) error {
	if customer == nil || customer.ID == 0 {
		return fmt.Errorf("o ID do cliente é obrigatório")
	}

	existing, err := s.customerRepo.GetByID(customer.ID)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar cliente")
	}
	if existing == nil {
		return fmt.Errorf("cliente %d não encontrado", customer.ID)
	}

	return s.customerRepo.Update(customer)
}

func (s *CustomerService) GetCustomer(customerID int) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar cliente")
	}
	if customer == nil {
		return nil, fmt.Errorf("cliente %d não encontrado", customerID)
	}

	return customer, nil
}

func (s *CustomerService) ListCustomers() ([]*domain.Customer, error) {
	return s.customerRepo.List()
}

func (s *CustomerService) DeleteCustomer(customerID int) error {
	existing, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar cliente")
	}
	if existing == nil {
		return fmt.Errorf("cliente %d não encontrado", customerID)
	}

	return s.customerRepo.Delete(customerID)
}
