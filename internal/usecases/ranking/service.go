// Package ranking expõe a leitura do snapshot mensal do ranking de
// produtos gravado pelo agendador.
package ranking

import (
	"time"

	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

type RankingService interface {
	GetProductRanking(month string) (*domain.ProductRankingResponse, error)
}

type ProductRankingService struct {
	RankingSnapshotRepository repository.RankingSnapshotRepository
}

func NewProductRankingService(rankingSnapshotRepository repository.RankingSnapshotRepository) RankingService {
	return &ProductRankingService{
		RankingSnapshotRepository: rankingSnapshotRepository,
	}
}

// GetProductRanking retorna o snapshot do mês informado (formato mm-yyyy).
// Sem mês informado, usa o mês de ontem; o mesmo que o agendador grava.
func (s *ProductRankingService) GetProductRanking(month string) (*domain.ProductRankingResponse, error) {
	if month == "" {
		month = time.Now().AddDate(0, 0, -1).Format("01-2006")
	}

	ranking, err := s.RankingSnapshotRepository.GetRanking(month)
	if err != nil {
		return nil, err
	}
	return ranking, nil
}
