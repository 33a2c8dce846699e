package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/managing"
	"github.com/salesdesk/backoffice-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// AddPriceRequest é o corpo de cadastro de um novo preço para o produto.
// O preço vale a partir de effective_date; o histórico anterior é mantido.
type AddPriceRequest struct {
	UnitPrice     float64 `json:"unit_price"`
	EffectiveDate string  `json:"effective_date"` // Formato yyyy-mm-dd
}

// CreateProduct cria um novo produto no catálogo
func CreateProduct(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product *domain.Product

		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateProduct(product)
		if err != nil {
			logrus.Error(err)
			switch {
			case strings.Contains(err.Error(), "obrigatório"):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
			case strings.Contains(err.Error(), "já existe"):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar produto", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetProduct retorna um produto pelo código
func GetProduct(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := productCodeFromRequest(w, r)
		if !ok {
			return
		}

		product, err := service.GetProduct(code)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar produto", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(product); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// ListProducts lista todos os produtos do catálogo
func ListProducts(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.ListProducts()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar produtos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(products); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// UpdateProduct atualiza a descrição e a unidade de um produto
func UpdateProduct(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateProduct")

		code, ok := productCodeFromRequest(w, r)
		if !ok {
			return
		}

		var product *domain.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		product.Code = code

		if err := service.UpdateProduct(product); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar produto", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// DeleteProduct remove um produto do catálogo
func DeleteProduct(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteProduct")

		code, ok := productCodeFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.DeleteProduct(code); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover produto", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// AddProductPrice registra um novo preço no histórico do produto
func AddProductPrice(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - AddProductPrice")

		code, ok := productCodeFromRequest(w, r)
		if !ok {
			return
		}

		var req AddPriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data de vigência inválida, use o formato yyyy-mm-dd", nil)
			return
		}

		if err := service.AddPrice(code, req.UnitPrice, effectiveDate); err != nil {
			logrus.Error(err)
			switch {
			case strings.Contains(err.Error(), "não encontrado"):
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
			case strings.Contains(err.Error(), "negativo"):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar preço", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
	}
}

// ListProductPrices retorna o histórico de preços do produto, do mais
// antigo para o mais recente
func ListProductPrices(service managing.ProductManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := productCodeFromRequest(w, r)
		if !ok {
			return
		}

		prices, err := service.ListPrices(code)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar histórico de preços", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(prices); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

func productCodeFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := httprouter.ParamsFromContext(r.Context()).ByName("code")
	if code == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Código do produto não fornecido", nil)
		return "", false
	}

	return code, true
}
