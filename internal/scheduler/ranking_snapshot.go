// Package scheduler contém os serviços de agendamento da retaguarda
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/config"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/salesdesk/backoffice-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

type RankingSnapshotConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// RankingSnapshotService grava periodicamente o snapshot mensal do
// ranking de produtos, com acompanhamento de mudança de posição em
// relação ao snapshot anterior do mesmo mês.
type RankingSnapshotService struct {
	scheduler           *gocron.Scheduler
	rankingRepo         repository.RankingSnapshotRepository
	aggregator          aggregating.Aggregator
	config              RankingSnapshotConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewRankingSnapshotService(
	rankingRepo repository.RankingSnapshotRepository,
	aggregator aggregating.Aggregator,
	cfg *config.Config,
) *RankingSnapshotService {
	snapshotConfig := RankingSnapshotConfig{
		CronSchedule: cfg.RankingSnapshot.CronSchedule, // Default: 6h da manhã todos os dias
		SyncEnabled:  cfg.RankingSnapshot.SyncEnabled,  // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": snapshotConfig.CronSchedule,
	}).Info("Configuração do agendador do ranking de produtos carregada")

	return &RankingSnapshotService{
		scheduler:   scheduler,
		rankingRepo: rankingRepo,
		aggregator:  aggregator,
		config:      snapshotConfig,
	}
}

func (s *RankingSnapshotService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de snapshot do ranking de produtos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de snapshot do ranking de produtos")

	// Agendar o snapshot do ranking de produtos
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.UpdateProductRanking(); err != nil {
			logrus.WithError(err).Error("Erro na atualização do ranking de produtos")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshot do ranking de produtos: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do ranking de produtos")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *RankingSnapshotService) UpdateProductRanking() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Snapshot do ranking de produtos já está em execução")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	logrus.Info("Iniciando snapshot do ranking de produtos")

	_, err := s.processProductRankingWithDate(time.Now())
	if err != nil {
		return err
	}

	logrus.Info("Snapshot do ranking de produtos concluído")

	return nil
}

// processProductRankingWithDate agrega as vendas do mês até ontem e grava
// o snapshot. O mês do snapshot é o mês de ontem, então na virada o
// último snapshot do mês anterior fica preservado.
func (s *RankingSnapshotService) processProductRankingWithDate(processingDate time.Time) ([]*domain.ProductRankingItem, error) {
	yesterday := processingDate.AddDate(0, 0, -1)
	firstDayOfMonth := getFirstDayOfMonth(yesterday)
	month := yesterday.Format("01-2006")

	result, err := s.aggregator.AggregateSales(&domain.SaleFilters{
		StartDate: &firstDayOfMonth,
		EndDate:   &yesterday,
	})
	if err != nil {
		logrus.WithError(err).Error("RankingSnapshotService: Erro ao agregar vendas do mês")
		return nil, err
	}

	rollups := result.ProductRollups

	// Buscar as posições anteriores concorrentemente, uma por produto
	wg := sync.WaitGroup{}
	rankingBeforeUpdate := make(chan domain.ProductRankingItem, len(rollups))

	for _, rollup := range rollups {
		wg.Add(1)

		go func(productCode string) {
			defer wg.Done()

			item, err := s.rankingRepo.GetByProductCode(productCode, month)
			if err != nil {
				logrus.WithError(err).Error("RankingSnapshotService: Erro ao buscar ranking anterior")
				return
			}

			if item != nil {
				rankingBeforeUpdate <- *item
			}
		}(rollup.ProductCode)
	}

	wg.Wait()
	close(rankingBeforeUpdate)

	rankingsBeforeUpdate := make(map[string]*domain.ProductRankingItem, len(rollups))
	for ranking := range rankingBeforeUpdate {
		ranking := ranking
		rankingsBeforeUpdate[ranking.ProductCode] = &ranking
	}

	updatedRankings := make([]*domain.ProductRankingItem, 0, len(rollups))
	for _, rollup := range rollups {
		updatedRankings = append(updatedRankings, &domain.ProductRankingItem{
			ProductCode:  rollup.ProductCode,
			Month:        month,
			Description:  rollup.Description,
			TotalUnits:   rollup.TotalUnits,
			TotalRevenue: rollup.TotalRevenue,
		})
	}

	s.updatePositions(updatedRankings, rankingsBeforeUpdate)

	err = s.rankingRepo.SaveOrUpdateRanking(updatedRankings)
	if err != nil {
		logrus.WithError(err).Error("Erro ao salvar ranking de produtos atualizado")
		return updatedRankings, err
	}

	logrus.WithFields(logrus.Fields{
		"month":    month,
		"products": len(updatedRankings),
	}).Info("Ranking de produtos atualizado")

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("Ranking atualizado: %s", utils.PrettyJson(updatedRankings))
	}

	return updatedRankings, nil
}

func (*RankingSnapshotService) updatePositions(
	updatedRankings []*domain.ProductRankingItem,
	rankingsBeforeUpdate map[string]*domain.ProductRankingItem,
) {
	sort.SliceStable(updatedRankings, func(i, j int) bool {
		return updatedRankings[i].TotalUnits > updatedRankings[j].TotalUnits
	})

	for i, ranking := range updatedRankings {
		ranking.Position = i + 1

		rankingBefore, exists := rankingsBeforeUpdate[ranking.ProductCode]
		if exists {
			ranking.PositionChange = rankingBefore.Position - ranking.Position
			ranking.PreviousPosition = rankingBefore.Position
		}
	}
}

// TriggerManualSync inicia manualmente um snapshot do ranking de produtos
func (s *RankingSnapshotService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot do ranking de produtos já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando snapshot manual do ranking de produtos")
	go s.UpdateProductRanking()
}

// GetStatus retorna o status atual do agendador
func (s *RankingSnapshotService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}

func getFirstDayOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}
