package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	pricePointsTable = "price_points pp"
)

type PricePointRepository interface {
	Add(point *domain.PricePoint) error
	ListByProduct(productCode string) ([]domain.PricePoint, error)
	ListByProductCodes(productCodes []string) ([]domain.PricePoint, error)
}

type pricePointRepository struct {
	conn *postgres.Connection
}

func NewPricePointRepository(conn *postgres.Connection) PricePointRepository {
	return &pricePointRepository{
		conn: conn,
	}
}

// Add registra um novo preço vigente a partir da data informada. Datas de
// vigência repetidas para o mesmo produto são sobrescritas; o histórico
// guarda no máximo um preço por produto por data.
func (r *pricePointRepository) Add(point *domain.PricePoint) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("price_points").
		Columns("product_code", "unit_price", "effective_date").
		Values(
			point.ProductCode,
			point.UnitPrice,
			point.EffectiveDate.Format(time.DateOnly),
		).
		Suffix(`
			ON CONFLICT (product_code, effective_date) DO UPDATE SET
				unit_price = EXCLUDED.unit_price
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao registrar preço: %w", err)
	}

	return nil
}

func (r *pricePointRepository) ListByProduct(productCode string) ([]domain.PricePoint, error) {
	return r.listPricePoints(squirrel.Eq{"pp.product_code": productCode})
}

// ListByProductCodes busca o histórico de preços de todos os produtos do
// conjunto em uma única consulta. É a carga em lote da agregação: uma
// consulta por execução, nunca uma por linha de venda.
func (r *pricePointRepository) ListByProductCodes(productCodes []string) ([]domain.PricePoint, error) {
	if len(productCodes) == 0 {
		return []domain.PricePoint{}, nil
	}
	return r.listPricePoints(squirrel.Eq{"pp.product_code": productCodes})
}

func (r *pricePointRepository) listPricePoints(where squirrel.Eq) ([]domain.PricePoint, error) {
	query, args, err := squirrel.
		Select("pp.product_code", "pp.unit_price", "pp.effective_date").
		From(pricePointsTable).
		Where(where).
		OrderBy("pp.product_code ASC", "pp.effective_date ASC").
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

	points := make([]domain.PricePoint, 0)
	for rows.Next() {
		point := domain.PricePoint{}
		err := rows.Scan(
			&point.ProductCode,
			&point.UnitPrice,
			&point.EffectiveDate,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear preço: %w", err)
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return points, nil
}
