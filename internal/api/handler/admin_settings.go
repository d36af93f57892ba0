package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/rules"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/apiErrors"
)

// writeRuleError traduz erros de validação de regras para a resposta HTTP
func writeRuleError(w http.ResponseWriter, err error) {
	var ruleErr *rules.RuleError
	if errors.As(err, &ruleErr) {
		apiErrors.WriteError(w, ruleErr.Code, ruleErr.Error(), nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar regras", nil)
}

// GetSettings retorna o documento vigente de regras comerciais
func GetSettings(service rules.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleSet, err := service.Current()
		if err != nil {
			logrus.Error(err)
			writeRuleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ruleSet); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// UpdateSettings atualiza as taxas globais do documento de regras.
// Campos omitidos no corpo não são alterados.
func UpdateSettings(service rules.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateSettings")

		var update rules.SettingsUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		ruleSet, err := service.UpdateSettings(&update)
		if err != nil {
			logrus.Error(err)
			writeRuleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ruleSet); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// SetPhaseRules substitui as fases de multiplicador de um sub1.
// Corpo vazio remove todas as fases do sub1.
func SetPhaseRules(service rules.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SetPhaseRules")

		sub1 := httprouter.ParamsFromContext(r.Context()).ByName("sub1")
		if sub1 == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Sub1 não fornecido", nil)
			return
		}

		var phases []domain.PhaseRule
		if err := json.NewDecoder(r.Body).Decode(&phases); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		ruleSet, err := service.SetPhaseRules(sub1, phases)
		if err != nil {
			logrus.Error(err)
			writeRuleError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"sub1":   sub1,
			"phases": len(phases),
		}).Info("settings: fases do sub1 atualizadas")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ruleSet); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// SetSubAffiliateRules substitui a lista de regras de sub-afiliado
func SetSubAffiliateRules(service rules.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SetSubAffiliateRules")

		var ruleList []domain.SubAffiliateRule
		if err := json.NewDecoder(r.Body).Decode(&ruleList); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		ruleSet, err := service.SetSubAffiliateRules(ruleList)
		if err != nil {
			logrus.Error(err)
			writeRuleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ruleSet); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}
