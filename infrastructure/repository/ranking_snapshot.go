package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	productRankingTable = "product_ranking pr"
)

type RankingSnapshotRepository interface {
	GetByProductCode(productCode string, month string) (*domain.ProductRankingItem, error)
	GetRanking(month string) (*domain.ProductRankingResponse, error)
	SaveOrUpdateRanking(rankings []*domain.ProductRankingItem) error
}

type rankingSnapshotRepository struct {
	conn *postgres.Connection
}

func NewRankingSnapshotRepository(conn *postgres.Connection) RankingSnapshotRepository {
	return &rankingSnapshotRepository{
		conn: conn,
	}
}

// GetRanking devolve o snapshot do ranking de produtos do mês, ordenado
// por posição. Mês sem snapshot devolve ranking vazio.
func (r *rankingSnapshotRepository) GetRanking(month string) (*domain.ProductRankingResponse, error) {
	queryBuilder := squirrel.
		Select(
			"pr.id",
			"pr.product_code",
			"pr.month",
			"pr.description",
			"pr.total_units",
			"pr.total_revenue",
			"pr.position",
			"pr.position_change",
			"pr.previous_position",
			"pr.created_at",
			"pr.updated_at",
		).
		From(productRankingTable).
		Where(squirrel.Eq{"pr.month": month}).
		OrderBy("pr.position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.ProductRankingResponse{
				Ranking:    []domain.ProductRankingItem{},
				LastUpdate: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	rankings := make([]domain.ProductRankingItem, 0)
	var lastUpdate time.Time

	for rows.Next() {
		item, err := r.scanRankingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear item do ranking: %w", err)
		}

		rankings = append(rankings, *item)

		// Manter o último update mais recente
		if item.UpdatedAt.After(lastUpdate) {
			lastUpdate = item.UpdatedAt
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	if lastUpdate.IsZero() {
		lastUpdate = time.Now()
	}

	return &domain.ProductRankingResponse{
		Ranking:    rankings,
		LastUpdate: lastUpdate,
	}, nil
}

func (r *rankingSnapshotRepository) GetByProductCode(productCode string, month string) (*domain.ProductRankingItem, error) {
	query, args, err := squirrel.
		Select("pr.id, pr.product_code, pr.month, pr.description, pr.total_units, pr.total_revenue, pr.position, pr.position_change, pr.previous_position, pr.created_at, pr.updated_at").
		From(productRankingTable).
		Where(squirrel.Eq{"pr.product_code": productCode, "pr.month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	ranking, err := r.scanRankingItemRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear ranking: %w", err)
	}
	return ranking, nil
}

// SaveOrUpdateRanking grava o snapshot do mês em lote, com upsert por
// produto e mês.
func (r *rankingSnapshotRepository) SaveOrUpdateRanking(rankings []*domain.ProductRankingItem) error {
	if len(rankings) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("product_ranking").
		Columns(
			"product_code",
			"month",
			"description",
			"total_units",
			"total_revenue",
			"position",
			"position_change",
			"previous_position",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, ranking := range rankings {
		query = query.Values(
			ranking.ProductCode,
			ranking.Month,
			ranking.Description,
			ranking.TotalUnits,
			ranking.TotalRevenue,
			ranking.Position,
			ranking.PositionChange,
			ranking.PreviousPosition,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (product_code, month) DO UPDATE SET
			description = EXCLUDED.description,
			total_units = EXCLUDED.total_units,
			total_revenue = EXCLUDED.total_revenue,
			position = EXCLUDED.position,
			position_change = EXCLUDED.position_change,
			previous_position = EXCLUDED.previous_position,
			updated_at = CURRENT_TIMESTAMP
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

func (r *rankingSnapshotRepository) scanRankingItem(rows *sql.Rows) (*domain.ProductRankingItem, error) {
	item := &domain.ProductRankingItem{}

	err := rows.Scan(
		&item.ID,
		&item.ProductCode,
		&item.Month,
		&item.Description,
		&item.TotalUnits,
		&item.TotalRevenue,
		&item.Position,
		&item.PositionChange,
		&item.PreviousPosition,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *rankingSnapshotRepository) scanRankingItemRow(row *sql.Row) (*domain.ProductRankingItem, error) {
	item := &domain.ProductRankingItem{}

	err := row.Scan(
		&item.ID,
		&item.ProductCode,
		&item.Month,
		&item.Description,
		&item.TotalUnits,
		&item.TotalRevenue,
		&item.Position,
		&item.PositionChange,
		&item.PreviousPosition,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}
