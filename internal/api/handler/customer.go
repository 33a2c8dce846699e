package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/salesdesk/backoffice-api/internal/usecases/managing"
	"github.com/salesdesk/backoffice-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// CreateCustomer cria um novo cliente
func CreateCustomer(service managing.CustomerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var customer *domain.Customer

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateCustomer(customer)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "obrigatório") {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar cliente", nil)
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

// GetCustomer retorna um cliente por ID
func GetCustomer(service managing.CustomerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := customerIDFromRequest(w, r)
		if !ok {
			return
		}

		customer, err := service.GetCustomer(id)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar cliente", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(customer); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// ListCustomers lista todos os clientes
func ListCustomers(service managing.CustomerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := service.ListCustomers()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar clientes", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(customers); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// UpdateCustomer atualiza os dados de um cliente
func UpdateCustomer(service managing.CustomerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateCustomer")

		id, ok := customerIDFromRequest(w, r)
		if !ok {
			return
		}

		var customer *domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		customer.ID = id

		if err := service.UpdateCustomer(customer); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar cliente", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// DeleteCustomer remove um cliente
func DeleteCustomer(service managing.CustomerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteCustomer")

		id, ok := customerIDFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.DeleteCustomer(id); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover cliente", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func customerIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do cliente não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do cliente inválido", nil)
		return 0, false
	}

	return id, true
}
