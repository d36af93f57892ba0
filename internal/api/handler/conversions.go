package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/middleware"
)

// Limite padrão do feed de conversões quando o cliente não informa um
const defaultConversionLimit = 50

// GetConversions retorna o feed de conversões recentes do período,
// restrito aos sub1s do usuário
func GetConversions(service reporting.ConversionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		period := periodFromRequest(r)

		limit := defaultConversionLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		records, err := service.RecentConversions(userClaims, period, limit)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao buscar conversões", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}
