package handler

import (
	"encoding/json"
	"net/http"

	"github.com/salesdesk/backoffice-api/internal/usecases/ranking"
	"github.com/salesdesk/backoffice-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// GetProductRanking retorna o snapshot mensal do ranking de produtos.
// O mês pode ser informado na query string (month=mm-yyyy); sem ele, usa
// o mês corrente do snapshot.
func GetProductRanking(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")

		// Buscar o ranking dos produtos
		ranking, err := service.GetProductRanking(month)
		if err != nil {
			logrus.Error("Erro ao buscar ranking de produtos:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar ranking de produtos", nil)
			return
		}

		if ranking == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Nenhum ranking encontrado", nil)
			return
		}

		// Enviar resposta
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(ranking)
		if err != nil {
			logrus.Error("Erro ao enviar resposta do ranking:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}
