package rules

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/apiErrors"
)

// Provider entrega o conjunto de regras comerciais vigente. A leitura é
// sempre direta do repositório: alterações do admin valem na requisição
// seguinte, sem camada de cache.
type Provider interface {
	Current() (*domain.RuleSet, error)
}

// Manager expõe as operações administrativas sobre as regras.
type Manager interface {
	Provider
	UpdateSettings(update *SettingsUpdate) (*domain.RuleSet, error)
	SetPhaseRules(sub1 string, phases []domain.PhaseRule) (*domain.RuleSet, error)
	SetSubAffiliateRules(ruleList []domain.SubAffiliateRule) (*domain.RuleSet, error)
}

// SettingsUpdate é a atualização parcial das taxas globais. Campos nulos
// ficam como estão.
type SettingsUpdate struct {
	PayoutPerLead        *float64            `json:"payout_per_lead"`
	ManagerMarginPerLead *float64            `json:"manager_margin_per_lead"`
	PayoutBySub1         *map[string]float64 `json:"payout_by_sub1"`
}

type Service struct {
	cfg            *config.Config
	ruleRepository repository.RuleSetRepository
}

func NewService(cfg *config.Config, ruleRepository repository.RuleSetRepository) Manager {
	return &Service{
		cfg:            cfg,
		ruleRepository: ruleRepository,
	}
}

// Current carrega o documento de regras, preenchendo as taxas padrão da
// configuração quando o documento ainda não as define.
func (s *Service) Current() (*domain.RuleSet, error) {
	ruleSet, err := s.ruleRepository.Get()
	if err != nil {
		logrus.WithError(err).Error("rules: failed to load rule set")
		return nil, NewRuleError(ErrFetchRules, apiErrors.ErrDatabaseOperation, err.Error())
	}

	if ruleSet == nil {
		ruleSet = &domain.RuleSet{}
	}
	if ruleSet.PayoutPerLead <= 0 {
		ruleSet.PayoutPerLead = s.cfg.Business.PayoutPerLead
	}
	if ruleSet.ManagerMarginPerLead <= 0 {
		ruleSet.ManagerMarginPerLead = s.cfg.Business.ManagerMarginPerLead
	}

	return ruleSet, nil
}

func (s *Service) UpdateSettings(update *SettingsUpdate) (*domain.RuleSet, error) {
	ruleSet, err := s.Current()
	if err != nil {
		return nil, err
	}

	if update.PayoutPerLead != nil {
		if *update.PayoutPerLead < 0 {
			return nil, NewRuleError(ErrInvalidPayout, apiErrors.ErrInvalidFormat, "payout_per_lead negativo")
		}
		ruleSet.PayoutPerLead = *update.PayoutPerLead
	}
	if update.ManagerMarginPerLead != nil {
		if *update.ManagerMarginPerLead < 0 {
			return nil, NewRuleError(ErrInvalidPayout, apiErrors.ErrInvalidFormat, "manager_margin_per_lead negativo")
		}
		ruleSet.ManagerMarginPerLead = *update.ManagerMarginPerLead
	}
	if update.PayoutBySub1 != nil {
		for sub1, rate := range *update.PayoutBySub1 {
			if rate < 0 {
				return nil, NewRuleError(ErrInvalidPayout, apiErrors.ErrInvalidFormat, "payout negativo para "+sub1)
			}
		}
		ruleSet.PayoutBySub1 = *update.PayoutBySub1
	}

	return s.save(ruleSet)
}

// SetPhaseRules substitui as fases do sub1. Datas não são validadas aqui:
// fases com datas quebradas simplesmente nunca casam na agregação.
func (s *Service) SetPhaseRules(sub1 string, phases []domain.PhaseRule) (*domain.RuleSet, error) {
	if sub1 == "" {
		return nil, NewRuleError(ErrSub1Required, apiErrors.ErrMissingRequiredData, "")
	}
	for _, phase := range phases {
		if phase.Multiplier < 0 {
			return nil, NewRuleError(ErrInvalidMultiplier, apiErrors.ErrInvalidFormat, "multiplicador negativo")
		}
	}

	ruleSet, err := s.Current()
	if err != nil {
		return nil, err
	}

	if ruleSet.PhaseRules == nil {
		ruleSet.PhaseRules = make(map[string][]domain.PhaseRule)
	}
	if len(phases) == 0 {
		delete(ruleSet.PhaseRules, sub1)
	} else {
		ruleSet.PhaseRules[sub1] = phases
	}

	return s.save(ruleSet)
}

func (s *Service) SetSubAffiliateRules(ruleList []domain.SubAffiliateRule) (*domain.RuleSet, error) {
	for _, rule := range ruleList {
		if rule.SourceSub1 == "" || rule.TargetSub1 == "" {
			return nil, NewRuleError(ErrSub1Required, apiErrors.ErrMissingRequiredData, "")
		}
		if rule.BonusPerLead < 0 {
			return nil, NewRuleError(ErrInvalidBonusPerLead, apiErrors.ErrInvalidFormat, "comissão negativa")
		}
	}

	ruleSet, err := s.Current()
	if err != nil {
		return nil, err
	}
	ruleSet.SubAffiliateRules = ruleList

	return s.save(ruleSet)
}

func (s *Service) save(ruleSet *domain.RuleSet) (*domain.RuleSet, error) {
	if err := s.ruleRepository.Save(ruleSet); err != nil {
		logrus.WithError(err).Error("rules: failed to save rule set")
		return nil, NewRuleError(ErrSaveRules, apiErrors.ErrDatabaseOperation, err.Error())
	}
	return ruleSet, nil
}
