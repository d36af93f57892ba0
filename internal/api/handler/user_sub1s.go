package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/apiErrors"
)

type UpdateUserSub1sRequest struct {
	Sub1s []string `json:"sub1s"`
}

// UpdateUserSub1s substitui os sub1s atribuídos a um usuário. A atribuição
// vale no próximo login, quando o token passa a carregar a nova lista.
func UpdateUserSub1s(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateUserSub1s")

		idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if idStr == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
			return
		}

		id, err := strconv.Atoi(idStr)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
			return
		}

		var req UpdateUserSub1sRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.ManageUserSub1s(id, req.Sub1s); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar sub1s do usuário", nil)
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id": id,
			"sub1s":   req.Sub1s,
		}).Info("user: sub1s atualizados")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}
