package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	employeesTable = "employees e"
)

type EmployeeRepository interface {
	Create(employee *domain.Employee) (*domain.Employee, error)
	Update(employee *domain.Employee) error
	GetByID(employeeID int) (*domain.Employee, error)
	GetByIDs(employeeIDs []int) (map[int]*domain.Employee, error)
	List() ([]*domain.Employee, error)
	Delete(employeeID int) error
}

type employeeRepository struct {
	conn *postgres.Connection
}

func NewEmployeeRepository(conn *postgres.Connection) EmployeeRepository {
	return &employeeRepository{
		conn: conn,
	}
}

func (r *employeeRepository) Create(employee *domain.Employee) (*domain.Employee, error) {
	query, args, err := squirrel.
		Insert("employees").
		Columns("first_name", "last_name").
		Values(employee.FirstName, employee.LastName).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir funcionário: %w", err)
	}

	return employee, nil
}

func (r *employeeRepository) Update(employee *domain.Employee) error {
	queryBuilder := squirrel.
		Update("employees").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": employee.ID})

	if employee.FirstName != "" {
		queryBuilder = queryBuilder.Set("first_name", employee.FirstName)
	}

	if employee.LastName != "" {
		queryBuilder = queryBuilder.Set("last_name", employee.LastName)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar funcionário: %w", err)
	}

	return nil
}

func (r *employeeRepository) GetByID(employeeID int) (*domain.Employee, error) {
	query, args, err := squirrel.
		Select("e.id", "e.first_name", "e.last_name", "e.created_at", "e.updated_at").
		From(employeesTable).
		Where(squirrel.Eq{"e.id": employeeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	employee, err := r.scanEmployeeRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear funcionário: %w", err)
	}

	return employee, nil
}

// GetByIDs busca todos os funcionários do conjunto em uma única consulta,
// indexados por ID.
func (r *employeeRepository) GetByIDs(employeeIDs []int) (map[int]*domain.Employee, error) {
	employees := make(map[int]*domain.Employee)
	if len(employeeIDs) == 0 {
		return employees, nil
	}

	query, args, err := squirrel.
		Select("e.id", "e.first_name", "e.last_name", "e.created_at", "e.updated_at").
		From(employeesTable).
		Where(squirrel.Eq{"e.id": employeeIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		employee, err := r.scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear funcionário: %w", err)
		}
		employees[employee.ID] = employee
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) List() ([]*domain.Employee, error) {
	query, args, err := squirrel.
		Select("e.id", "e.first_name", "e.last_name", "e.created_at", "e.updated_at").
		From(employeesTable).
		OrderBy("e.first_name ASC", "e.last_name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := r.scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear funcionário: %w", err)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) Delete(employeeID int) error {
	query, args, err := squirrel.
		Delete("employees").
		Where(squirrel.Eq{"id": employeeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao excluir funcionário: %w", err)
	}

	return nil
}

func (r *employeeRepository) scanEmployee(rows *sql.Rows) (*domain.Employee, error) {
	employee := &domain.Employee{}

	err := rows.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *employeeRepository) scanEmployeeRow(row *sql.Row) (*domain.Employee, error) {
	employee := &domain.Employee{}

	err := row.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return employee, nil
}
