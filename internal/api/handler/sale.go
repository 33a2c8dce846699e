package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/salesdesk/backoffice-api/internal/usecases/selling"
	"github.com/salesdesk/backoffice-api/pkg/apiErrors"
	"github.com/salesdesk/backoffice-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// CreateSale registra uma nova venda e devolve a visão agregada, com os
// preços resolvidos pela data da venda e o status derivado do pagamento
func CreateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateSale")

		var req *selling.CreateSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := service.CreateSale(req)
		if err != nil {
			logrus.Error(err)
			switch {
			case strings.Contains(err.Error(), "não encontrado"):
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
			case strings.Contains(err.Error(), "obrigatório"), strings.Contains(err.Error(), "precisa de"):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar venda", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetSale retorna a visão agregada de uma venda pelo número público
func GetSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, ok := saleNumberFromRequest(w, r)
		if !ok {
			return
		}

		sale, err := service.GetSale(number)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrada") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar venda", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// ListSales agrega as vendas do período informado em start_date e
// end_date (formato yyyy-mm-dd, ambos obrigatórios)
func ListSales(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, ok := saleFiltersFromRequest(w, r)
		if !ok {
			return
		}

		result, err := service.AggregateSales(filters)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "necessário informar") || strings.Contains(err.Error(), "posterior") {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao agregar vendas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(domain.SalesReportResponse{
			Filters:         filters,
			Sales:           result.Sales,
			ProductRollups:  result.ProductRollups,
			EmployeeRollups: result.EmployeeRollups,
		}); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// RegisterSalePayment registra (ou substitui) o pagamento de uma venda
func RegisterSalePayment(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RegisterSalePayment")

		number, ok := saleNumberFromRequest(w, r)
		if !ok {
			return
		}

		var payment *selling.RegisterPayment
		if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := service.RegisterPayment(number, payment)
		if err != nil {
			logrus.Error(err)
			switch {
			case strings.Contains(err.Error(), "não encontrada"):
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
			case strings.Contains(err.Error(), "inválido"):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar pagamento", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// CancelSale marca a venda como cancelada
func CancelSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CancelSale")

		number, ok := saleNumberFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.CancelSale(number); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrada") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao cancelar venda", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// ReopenSale limpa o cancelamento de uma venda
func ReopenSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ReopenSale")

		number, ok := saleNumberFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.ReopenSale(number); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrada") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao reabrir venda", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

func saleNumberFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	number := httprouter.ParamsFromContext(r.Context()).ByName("number")
	if number == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Número da venda não fornecido", nil)
		return "", false
	}

	return number, true
}

// saleFiltersFromRequest lê start_date e end_date da query string. Datas
// vazias viram ponteiros nulos e a validação de obrigatoriedade fica no
// agregador.
func saleFiltersFromRequest(w http.ResponseWriter, r *http.Request) (*domain.SaleFilters, bool) {
	filters := &domain.SaleFilters{}

	startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		logrus.WithField("start_date", r.URL.Query().Get("start_date")).Warn("Parâmetro start_date inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data de início inválida, use o formato yyyy-mm-dd", nil)
		return nil, false
	}

	endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		logrus.WithField("end_date", r.URL.Query().Get("end_date")).Warn("Parâmetro end_date inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data de fim inválida, use o formato yyyy-mm-dd", nil)
		return nil, false
	}

	if !startDate.IsZero() {
		filters.StartDate = startDate
	}
	if !endDate.IsZero() {
		filters.EndDate = endDate
	}

	return filters, true
}
