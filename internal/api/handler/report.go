package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/salesdesk/backoffice-api/internal/usecases/reporting"
	"github.com/salesdesk/backoffice-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// GetSalesReport retorna o relatório completo do período: vendas
// agregadas e rollups de produto e de funcionário
func GetSalesReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		report, err := service.SalesReport(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar relatório de vendas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetSalesTable retorna a tabela de vendas do período, com linhas de
// resumo mensal intercaladas
func GetSalesTable(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		table, err := service.SalesTable(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar tabela de vendas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetProductRollupTable retorna a tabela de produtos mais vendidos
func GetProductRollupTable(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		table, err := service.ProductRollupTable(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar tabela de produtos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetEmployeeRollupTable retorna a tabela de desempenho por funcionário
func GetEmployeeRollupTable(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		table, err := service.EmployeeRollupTable(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar tabela de funcionários", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetMonthlyRevenueSeries retorna a série mensal de receita e contagem
// de vendas usada nos gráficos
func GetMonthlyRevenueSeries(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		series, err := service.MonthlyRevenueSeries(filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gerar série mensal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(series); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// ExportSalesPDF gera o relatório de vendas do período em PDF
func ExportSalesPDF(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ExportSalesPDF")

		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		pdf, err := service.ExportSalesPDF(r.Context(), filters)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao gerar PDF do relatório", nil)
			return
		}

		filename := "relatorio-vendas-" + time.Now().Format("2006-01-02") + ".pdf"

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if _, err := w.Write(pdf); err != nil {
			logrus.WithError(err).Error("Erro ao enviar PDF do relatório")
		}
	}
}
