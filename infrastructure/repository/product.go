package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	productsTable = "products p"
)

type ProductRepository interface {
	Create(product *domain.Product) (*domain.Product, error)
	Update(product *domain.Product) error
	GetByCode(code string) (*domain.Product, error)
	GetByCodes(codes []string) (map[string]*domain.Product, error)
	List() ([]*domain.Product, error)
	Delete(code string) error
}

type productRepository struct {
	conn *postgres.Connection
}

func NewProductRepository(conn *postgres.Connection) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

func (r *productRepository) Create(product *domain.Product) (*domain.Product, error) {
	query, args, err := squirrel.
		Insert("products").
		Columns("code", "description", "unit").
		Values(product.Code, product.Description, product.Unit).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("já existe um produto com o código %s", product.Code)
		}
		return nil, fmt.Errorf("erro ao inserir produto: %w", err)
	}

	return product, nil
}

func (r *productRepository) Update(product *domain.Product) error {
	queryBuilder := squirrel.
		Update("products").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"code": product.Code})

	if product.Description != "" {
		queryBuilder = queryBuilder.Set("description", product.Description)
	}

	if product.Unit != "" {
		queryBuilder = queryBuilder.Set("unit", product.Unit)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}

	return nil
}

func (r *productRepository) GetByCode(code string) (*domain.Product, error) {
	query, args, err := squirrel.
		Select("p.code", "p.description", "p.unit", "p.created_at", "p.updated_at").
		From(productsTable).
		Where(squirrel.Eq{"p.code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	product, err := r.scanProductRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear produto: %w", err)
	}

	return product, nil
}

// GetByCodes busca todos os produtos do conjunto em uma única consulta,
// indexados por código. Códigos sem cadastro não aparecem no mapa; o
// materializador resolve a ausência com o rótulo de exibição padrão.
func (r *productRepository) GetByCodes(codes []string) (map[string]*domain.Product, error) {
	products := make(map[string]*domain.Product)
	if len(codes) == 0 {
		return products, nil
	}

	query, args, err := squirrel.
		Select("p.code", "p.description", "p.unit", "p.created_at", "p.updated_at").
		From(productsTable).
		Where(squirrel.Eq{"p.code": codes}).
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
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear produto: %w", err)
		}
		products[product.Code] = product
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return products, nil
}

func (r *productRepository) List() ([]*domain.Product, error) {
	query, args, err := squirrel.
		Select("p.code", "p.description", "p.unit", "p.created_at", "p.updated_at").
		From(productsTable).
		OrderBy("p.code ASC").
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

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear produto: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return products, nil
}

func (r *productRepository) Delete(code string) error {
	query, args, err := squirrel.
		Delete("products").
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao excluir produto: %w", err)
	}

	return nil
}

func (r *productRepository) scanProduct(rows *sql.Rows) (*domain.Product, error) {
	product := &domain.Product{}

	err := rows.Scan(
		&product.Code,
		&product.Description,
		&product.Unit,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) scanProductRow(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}

	err := row.Scan(
		&product.Code,
		&product.Description,
		&product.Unit,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return product, nil
}
