package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/stretchr/testify/assert"
)

type stubAggregator struct {
	result *aggregating.CollectionResult
	err    error
}

func (s *stubAggregator) AggregateSales(*domain.SaleFilters) (*aggregating.CollectionResult, error) {
	return s.result, s.err
}

func (s *stubAggregator) AggregateSaleByNumber(string) (*domain.AggregatedSale, error) {
	return nil, nil
}

type stubRenderer struct {
	lastHTML string
	output   []byte
	err      error
}

func (s *stubRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	s.lastHTML = html
	return s.output, s.err
}

func salesFixture() *aggregating.CollectionResult {
	return &aggregating.CollectionResult{
		Sales: []*domain.AggregatedSale{
			{
				Number:       "VND001",
				CustomerName: "Cliente Um",
				EmployeeName: "Maria",
				OrderDate:    time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
				TotalAmount:  100.0,
				Status:       domain.SaleStatusCompleted,
			},
			{
				Number:       "VND002",
				CustomerName: "Cliente Dois",
				EmployeeName: "João",
				OrderDate:    time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
				TotalAmount:  50.5,
				Status:       domain.SaleStatusPending,
			},
			{
				Number:       "VND003",
				CustomerName: "Cliente Um",
				EmployeeName: "Maria",
				OrderDate:    time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
				TotalAmount:  30.0,
				Status:       domain.SaleStatusPending,
			},
		},
		ProductRollups: []*domain.ProductRollup{
			{ProductCode: "PROD-A", Description: "Produto A", TotalUnits: 6, TotalRevenue: 120.0, Rank: 1},
		},
		EmployeeRollups: []*domain.EmployeeRollup{
			{EmployeeID: 20, EmployeeName: "Maria", SalesCount: 2, TotalRevenue: 130.0, Rank: 1},
		},
	}
}

func TestService_SalesTable(t *testing.T) {
	service := &Service{aggregator: &stubAggregator{result: salesFixture()}}

	table, err := service.SalesTable(&domain.SaleFilters{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Mês/Número", "Cliente", "Funcionário", "Total", "Status"}, table.Headers)

	// 3 vendas em 2 meses: 2 linhas de resumo mensal intercaladas
	assert.Len(t, table.Rows, 5)

	// Linha de resumo mensal: rótulo do mês e total vazio
	assert.Equal(t, "04-2024", table.Rows[0][0])
	assert.Equal(t, "", table.Rows[0][3])

	// Linha de venda: número, nomes e total formatado
	assert.Equal(t, "VND001", table.Rows[1][0])
	assert.Equal(t, "Cliente Um", table.Rows[1][1])
	assert.Equal(t, "R$ 100.00", table.Rows[1][3])
	assert.Equal(t, "completed", table.Rows[1][4])

	assert.Equal(t, "VND002", table.Rows[2][0])
	assert.Equal(t, "R$ 50.50", table.Rows[2][3])

	// Virada de mês gera novo resumo
	assert.Equal(t, "05-2024", table.Rows[3][0])
	assert.Equal(t, "VND003", table.Rows[4][0])
}

func TestService_ProductRollupTable(t *testing.T) {
	service := &Service{aggregator: &stubAggregator{result: salesFixture()}}

	table, err := service.ProductRollupTable(&domain.SaleFilters{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Posição", "Código", "Descrição", "Unidades", "Receita"}, table.Headers)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, 1, table.Rows[0][0])
	assert.Equal(t, "PROD-A", table.Rows[0][1])
	assert.Equal(t, 6, table.Rows[0][3])
	assert.Equal(t, "R$ 120.00", table.Rows[0][4])
}

func TestService_EmployeeRollupTable(t *testing.T) {
	service := &Service{aggregator: &stubAggregator{result: salesFixture()}}

	table, err := service.EmployeeRollupTable(&domain.SaleFilters{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Posição", "Funcionário", "Vendas", "Receita"}, table.Headers)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "Maria", table.Rows[0][1])
	assert.Equal(t, 2, table.Rows[0][2])
	assert.Equal(t, "R$ 130.00", table.Rows[0][3])
}

func TestService_MonthlyRevenueSeries(t *testing.T) {
	service := &Service{aggregator: &stubAggregator{result: salesFixture()}}

	series, err := service.MonthlyRevenueSeries(&domain.SaleFilters{})

	assert.NoError(t, err)
	assert.Len(t, series, 2)

	// Os meses saem na ordem de primeira aparição das vendas
	assert.Equal(t, "04-2024", series[0].Month)
	assert.Equal(t, 2, series[0].SalesCount)
	assert.Equal(t, 150.5, series[0].Revenue)

	assert.Equal(t, "05-2024", series[1].Month)
	assert.Equal(t, 1, series[1].SalesCount)
	assert.Equal(t, 30.0, series[1].Revenue)
}

func TestService_SalesReport_PropagaErroDoAgregador(t *testing.T) {
	service := &Service{aggregator: &stubAggregator{err: assert.AnError}}

	report, err := service.SalesReport(&domain.SaleFilters{})

	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestService_ExportSalesPDF(t *testing.T) {
	startDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	filters := &domain.SaleFilters{StartDate: &startDate, EndDate: &endDate}

	t.Run("Renderiza a tabela do período em PDF", func(t *testing.T) {
		renderer := &stubRenderer{output: []byte("%PDF-1.4")}
		service := &Service{
			aggregator: &stubAggregator{result: salesFixture()},
			renderer:   renderer,
		}

		pdf, err := service.ExportSalesPDF(context.Background(), filters)

		assert.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), pdf)

		// O HTML enviado ao renderizador carrega título, período e dados
		assert.True(t, strings.Contains(renderer.lastHTML, "Relatório de Vendas"))
		assert.True(t, strings.Contains(renderer.lastHTML, "Período: 2024-04-01 a 2024-05-31"))
		assert.True(t, strings.Contains(renderer.lastHTML, "VND001"))
		assert.True(t, strings.Contains(renderer.lastHTML, "R$ 100.00"))
	})

	t.Run("Sem renderizador configurado retorna erro", func(t *testing.T) {
		service := &Service{aggregator: &stubAggregator{result: salesFixture()}}

		pdf, err := service.ExportSalesPDF(context.Background(), filters)

		assert.Error(t, err)
		assert.Nil(t, pdf)
	})

	t.Run("Erro do agregador aborta a exportação", func(t *testing.T) {
		renderer := &stubRenderer{}
		service := &Service{
			aggregator: &stubAggregator{err: assert.AnError},
			renderer:   renderer,
		}

		pdf, err := service.ExportSalesPDF(context.Background(), filters)

		assert.Error(t, err)
		assert.Nil(t, pdf)
		assert.Empty(t, renderer.lastHTML)
	})
}
