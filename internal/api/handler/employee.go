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

// CreateEmployee cria um novo funcionário
func CreateEmployee(service managing.EmployeeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var employee *domain.Employee

		if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateEmployee(employee)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "obrigatório") {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar funcionário", nil)
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

// GetEmployee retorna um funcionário por ID
func GetEmployee(service managing.EmployeeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := employeeIDFromRequest(w, r)
		if !ok {
			return
		}

		employee, err := service.GetEmployee(id)
		if err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar funcionário", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(employee); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// ListEmployees lista todos os funcionários
func ListEmployees(service managing.EmployeeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := service.ListEmployees()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar funcionários", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(employees); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// UpdateEmployee atualiza os dados de um funcionário
func UpdateEmployee(service managing.EmployeeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateEmployee")

		id, ok := employeeIDFromRequest(w, r)
		if !ok {
			return
		}

		var employee *domain.Employee
		if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		employee.ID = id

		if err := service.UpdateEmployee(employee); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar funcionário", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// DeleteEmployee remove um funcionário
func DeleteEmployee(service managing.EmployeeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteEmployee")

		id, ok := employeeIDFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.DeleteEmployee(id); err != nil {
			logrus.Error(err)
			if strings.Contains(err.Error(), "não encontrado") {
				apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover funcionário", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func employeeIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do funcionário não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do funcionário inválido", nil)
		return 0, false
	}

	return id, true
}
