package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/middleware"
)

// periodFromRequest extrai o token de período da query string. Sem o
// parâmetro, o painel abre no dia atual.
func periodFromRequest(r *http.Request) string {
	period := r.URL.Query().Get("period")
	if period == "" {
		return domain.PeriodToday
	}
	return period
}

// writePeriodError traduz o erro de período para a resposta HTTP
func writePeriodError(w http.ResponseWriter, err error) bool {
	var invalidErr *domain.InvalidPeriodError
	if errors.As(err, &invalidErr) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, invalidErr.Error(), nil)
		return true
	}
	return false
}

// GetStats retorna o painel de estatísticas conforme o perfil do usuário
func GetStats(service reporting.StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		period := periodFromRequest(r)
		logrus.WithFields(logrus.Fields{
			"user_id": userClaims.UserID,
			"role_id": userClaims.UserRoleID,
			"period":  period,
		}).Info("stats: montando painel do usuário")

		stats, err := service.StatsForUser(userClaims, period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular estatísticas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetSub1Leads detalha os leads por sub1 do gerente, com custos e lucro
func GetSub1Leads(service reporting.StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		period := periodFromRequest(r)
		rows, err := service.Sub1Leads(userClaims, period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao detalhar leads por sub1", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetManagerEPC calcula o EPC global do gerente no período
func GetManagerEPC(service reporting.StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		period := periodFromRequest(r)
		epc, err := service.ManagerEPC(userClaims, period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular EPC", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(epc); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetLeaderboard retorna o ranking público de sub1s com nomes mascarados
func GetLeaderboard(service reporting.CombinedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := periodFromRequest(r)

		entries, err := service.Leaderboard(period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar ranking", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetUserBonuses retorna o extrato de comissões de sub-afiliado do usuário
func GetUserBonuses(service reporting.CombinedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		period := periodFromRequest(r)
		bonuses, err := service.UserBonuses(userClaims, period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular comissões", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bonuses); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetTrafficSummary retorna o resumo rápido hoje/ontem do painel, com os
// cliques reais do upstream quando disponíveis
func GetTrafficSummary(service reporting.CombinedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := service.TrafficSummary()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar resumo do painel", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// GetActiveSub1s lista os sub1s com atividade no período (uso administrativo)
func GetActiveSub1s(service reporting.CombinedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := periodFromRequest(r)

		activity, err := service.ActiveSub1s(period)
		if err != nil {
			logrus.Error(err)
			if writePeriodError(w, err) {
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar sub1s ativos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(activity); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}
