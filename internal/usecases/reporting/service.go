package reporting

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/salesdesk/backoffice-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

const monthFormat = "01-2006"

// PDFRenderer renderiza HTML em PDF através do serviço externo de
// renderização. Intervalo de datas, nome de arquivo e orientação são
// preocupações do renderizador, não do núcleo.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Reporter expõe as visões tabulares e as séries de gráfico derivadas da
// agregação de vendas.
type Reporter interface {
	SalesReport(filters *domain.SaleFilters) (*domain.SalesReportResponse, error)
	SalesTable(filters *domain.SaleFilters) (*domain.ReportTable, error)
	ProductRollupTable(filters *domain.SaleFilters) (*domain.ReportTable, error)
	EmployeeRollupTable(filters *domain.SaleFilters) (*domain.ReportTable, error)
	MonthlyRevenueSeries(filters *domain.SaleFilters) ([]*domain.MonthlyRevenuePoint, error)
	ExportSalesPDF(ctx context.Context, filters *domain.SaleFilters) ([]byte, error)
}

type Service struct {
	aggregator aggregating.Aggregator
	renderer   PDFRenderer
}

func NewService(aggregator aggregating.Aggregator, renderer PDFRenderer) Reporter {
	return &Service{
		aggregator: aggregator,
		renderer:   renderer,
	}
}

// SalesReport devolve o resultado bruto da agregação do período para as
// telas de listagem.
func (s *Service) SalesReport(filters *domain.SaleFilters) (*domain.SalesReportResponse, error) {
	result, err := s.aggregator.AggregateSales(filters)
	if err != nil {
		return nil, err
	}

	return &domain.SalesReportResponse{
		Filters:         filters,
		Sales:           result.Sales,
		ProductRollups:  result.ProductRollups,
		EmployeeRollups: result.EmployeeRollups,
	}, nil
}

// SalesTable monta a tabela de vendas com linhas de resumo mensal
// intercaladas. A coluna "Mês/Número" mostra o rótulo do mês para linhas
// de resumo e o número da transação para linhas de venda; o formatador
// não conhece a variante; a coluna computada decide.
func (s *Service) SalesTable(filters *domain.SaleFilters) (*domain.ReportTable, error) {
	result, err := s.aggregator.AggregateSales(filters)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(result.Sales))
	currentMonth := ""

	for _, sale := range result.Sales {
		month := sale.OrderDate.Format(monthFormat)
		if month != currentMonth {
			currentMonth = month
			rows = append(rows, Row{
				"kind":  "month",
				"month": month,
			})
		}

		rows = append(rows, Row{
			"kind":     "sale",
			"number":   sale.Number,
			"customer": sale.CustomerName,
			"employee": sale.EmployeeName,
			"total":    sale.TotalAmount,
			"status":   string(sale.Status),
		})
	}

	columns := []Column{
		{Header: "Mês/Número", Compute: func(row Row) any {
			if row["kind"] == "month" {
				return row["month"]
			}
			return row["number"]
		}},
		{Header: "Cliente", Field: "customer"},
		{Header: "Funcionário", Field: "employee"},
		{Header: "Total", Compute: func(row Row) any {
			if row["kind"] == "month" {
				return ""
			}
			return formatCurrency(row["total"].(float64))
		}},
		{Header: "Status", Field: "status"},
	}

	return Format(rows, columns), nil
}

// ProductRollupTable monta a tabela de rollup de produtos para relatório
// e exportação.
func (s *Service) ProductRollupTable(filters *domain.SaleFilters) (*domain.ReportTable, error) {
	result, err := s.aggregator.AggregateSales(filters)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(result.ProductRollups))
	for _, rollup := range result.ProductRollups {
		rows = append(rows, Row{
			"rank":        rollup.Rank,
			"code":        rollup.ProductCode,
			"description": rollup.Description,
			"units":       rollup.TotalUnits,
			"revenue":     rollup.TotalRevenue,
		})
	}

	columns := []Column{
		{Header: "Posição", Field: "rank"},
		{Header: "Código", Field: "code"},
		{Header: "Descrição", Field: "description"},
		{Header: "Unidades", Field: "units"},
		{Header: "Receita", Compute: func(row Row) any {
			return formatCurrency(row["revenue"].(float64))
		}},
	}

	return Format(rows, columns), nil
}

// EmployeeRollupTable monta a tabela de rollup de funcionários.
func (s *Service) EmployeeRollupTable(filters *domain.SaleFilters) (*domain.ReportTable, error) {
	result, err := s.aggregator.AggregateSales(filters)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(result.EmployeeRollups))
	for _, rollup := range result.EmployeeRollups {
		rows = append(rows, Row{
			"rank":     rollup.Rank,
			"employee": rollup.EmployeeName,
			"sales":    rollup.SalesCount,
			"revenue":  rollup.TotalRevenue,
		})
	}

	columns := []Column{
		{Header: "Posição", Field: "rank"},
		{Header: "Funcionário", Field: "employee"},
		{Header: "Vendas", Field: "sales"},
		{Header: "Receita", Compute: func(row Row) any {
			return formatCurrency(row["revenue"].(float64))
		}},
	}

	return Format(rows, columns), nil
}

// MonthlyRevenueSeries agrega receita e quantidade de vendas por mês para
// os gráficos do painel. Os meses seguem a ordem das vendas agregadas
// (cronológica, conforme recuperadas).
func (s *Service) MonthlyRevenueSeries(filters *domain.SaleFilters) ([]*domain.MonthlyRevenuePoint, error) {
	result, err := s.aggregator.AggregateSales(filters)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*domain.MonthlyRevenuePoint)
	series := make([]*domain.MonthlyRevenuePoint, 0)

	for _, sale := range result.Sales {
		month := sale.OrderDate.Format(monthFormat)

		point, exists := byMonth[month]
		if !exists {
			point = &domain.MonthlyRevenuePoint{Month: month}
			byMonth[month] = point
			series = append(series, point)
		}

		point.SalesCount++
		point.Revenue = utils.RoundWithTwoDecimalPlace(point.Revenue + sale.TotalAmount)
	}

	return series, nil
}

// ExportSalesPDF renderiza a tabela de vendas do período em PDF através
// do serviço de renderização externo.
func (s *Service) ExportSalesPDF(ctx context.Context, filters *domain.SaleFilters) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("serviço de renderização de PDF não configurado")
	}

	table, err := s.SalesTable(filters)
	if err != nil {
		return nil, err
	}

	html, err := renderTableHTML("Relatório de Vendas", filters, table)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao montar HTML do relatório")
	}

	logrus.WithFields(logrus.Fields{
		"rows": len(table.Rows),
	}).Info("Exportando relatório de vendas em PDF")

	return s.renderer.RenderHTML(ctx, html)
}

var tableTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: sans-serif; font-size: 12px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h2>{{.Title}}</h2>
<p>{{.Period}}</p>
<table>
<tr>{{range .Table.Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>`))

func renderTableHTML(title string, filters *domain.SaleFilters, table *domain.ReportTable) (string, error) {
	period := ""
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil {
		period = fmt.Sprintf(
			"Período: %s a %s",
			filters.StartDate.Format(time.DateOnly),
			filters.EndDate.Format(time.DateOnly),
		)
	}

	buffer := &bytes.Buffer{}
	err := tableTemplate.Execute(buffer, map[string]any{
		"Title":  title,
		"Period": period,
		"Table":  table,
	})
	if err != nil {
		return "", err
	}

	return buffer.String(), nil
}

func formatCurrency(value float64) string {
	return fmt.Sprintf("R$ %.2f", utils.RoundWithTwoDecimalPlace(value))
}
