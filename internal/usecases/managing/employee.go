package managing

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

type EmployeeManager interface {
	CreateEmployee(employee *domain.Employee) (*domain.Employee, error)
	UpdateEmployee(employee *domain.Employee) error
	GetEmployee(employeeID int) (*domain.Employee, error)
	ListEmployees() ([]*domain.Employee, error)
	DeleteEmployee(employeeID int) error
}

type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository) EmployeeManager {
	return &EmployeeService{
		employeeRepo: employeeRepo,
	}
}

func (s *EmployeeService) CreateEmployee(employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil || employee.FirstName == "" {
		return nil, fmt.Errorf("o nome do funcionário é obrigatório")
	}

	created, err := s.employeeRepo.Create(employee)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar funcionário")
	}

	return created, nil
}

func (s *EmployeeService) UpdateEmployee(employee *domain.Employee) error {
	if employee == nil || employee.ID == 0 {
		return fmt.Errorf("o ID do funcionário é obrigatório")
	}

	existing, err := s.employeeRepo.GetByID(employee.ID)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar funcionário")
	}
	if existing == nil {
		return fmt.Errorf("funcionário %d não encontrado", employee.ID)
	}

	return s.employeeRepo.Update(employee)
}

func (s *EmployeeService) GetEmployee(employeeID int) (*domain.Employee, error) {
	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar funcionário")
	}
	if employee == nil {
		return nil, fmt.Errorf("funcionário %d não encontrado", employeeID)
	}

	return employee, nil
}

func (s *EmployeeService) ListEmployees() ([]*domain.Employee, error) {
	return s.employeeRepo.List()
}

func (s *EmployeeService) DeleteEmployee(employeeID int) error {
	existing, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar funcionário")
	}
	if existing == nil {
		return fmt.Errorf("funcionário %d não encontrado", employeeID)
	}

	return s.employeeRepo.Delete(employeeID)
}
