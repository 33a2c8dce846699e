// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	customersTable = "customers c"
)

type CustomerRepository interface {
	Create(customer *domain.Customer) (*domain.Customer, error)
	Update(customer *domain.Customer) error
	GetByID(customerID int) (*domain.Customer, error)
	GetByIDs(customerIDs []int) (map[int]*domain.Customer, error)
	List() ([]*domain.Customer, error)
	Delete(customerID int) error
}

type customerRepository struct {
	conn *postgres.Connection
}

func NewCustomerRepository(conn *postgres.Connection) CustomerRepository {
	return &customerRepository{
		conn: conn,
	}
}

func (r *customerRepository) Create(customer *domain.Customer) (*domain.Customer, error) {
	query, args, err := squirrel.
		Insert("customers").
		Columns("name", "address", "phone").
		Values(customer.Name, customer.Address, customer.Phone).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir cliente: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) Update(customer *domain.Customer) error {
	queryBuilder := squirrel.
		Update("customers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": customer.ID})

	if customer.Name != "" {
		queryBuilder = queryBuilder.Set("name", customer.Name)
	}

	if customer.Address != "" {
		queryBuilder = queryBuilder.Set("address", customer.Address)
	}

	if customer.Phone != nil {
		queryBuilder = queryBuilder.Set("phone", customer.Phone)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar cliente: %w", err)
	}

	return nil
}

func (r *customerRepository) GetByID(customerID int) (*domain.Customer, error) {
	query, args, err := squirrel.
		Select("c.id", "c.name", "c.address", "c.phone", "c.created_at", "c.updated_at").
		From(customersTable).
		Where(squirrel.Eq{"c.id": customerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	customer, err := r.scanCustomerRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
	}

	return customer, nil
}

// GetByIDs busca todos os clientes do conjunto em uma única consulta,
// indexados por ID. IDs inexistentes simplesmente não aparecem no mapa.
func (r *customerRepository) GetByIDs(customerIDs []int) (map[int]*domain.Customer, error) {
	customers := make(map[int]*domain.Customer)
	if len(customerIDs) == 0 {
		return customers, nil
	}

	query, args, err := squirrel.
		Select("c.id", "c.name", "c.address", "c.phone", "c.created_at", "c.updated_at").
		From(customersTable).
		Where(squirrel.Eq{"c.id": customerIDs}).
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
		customer, err := r.scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
		}
		customers[customer.ID] = customer
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) List() ([]*domain.Customer, error) {
	query, args, err := squirrel.
		Select("c.id", "c.name", "c.address", "c.phone", "c.created_at", "c.updated_at").
		From(customersTable).
		OrderBy("c.name ASC").
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

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer, err := r.scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Delete(customerID int) error {
	query, args, err := squirrel.
		Delete("customers").
		Where(squirrel.Eq{"id": customerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao excluir cliente: %w", err)
	}

	return nil
}

func (r *customerRepository) scanCustomer(rows *sql.Rows) (*domain.Customer, error) {
	customer := &domain.Customer{}

	err := rows.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.Phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

func (r *customerRepository) scanCustomerRow(row *sql.Row) (*domain.Customer, error) {
	customer := &domain.Customer{}

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.Phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return customer, nil
}
