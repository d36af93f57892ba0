package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/statscache"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/rules"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/utils"
)

// Service implementa CombinedReporter sobre o fetcher primário, com
// fallback no secundário e nos snapshots persistidos.
type Service struct {
	cfg           *config.Config
	everflow      everflow.ConversionFetcher
	tune          tune.StatsFetcher
	rulesProvider rules.Provider
	cache         statscache.Store
	snapshotRepo  repository.StatsSnapshotRepository

	now func() time.Time
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(
	cfg *config.Config,
	everflowService everflow.ConversionFetcher,
	tuneService tune.StatsFetcher,
	rulesProvider rules.Provider,
	cache statscache.Store,
	snapshotRepo repository.StatsSnapshotRepository,
) CombinedReporter {
	return &Service{
		cfg:           cfg,
		everflow:      everflowService,
		tune:          tuneService,
		rulesProvider: rulesProvider,
		cache:         cache,
		snapshotRepo:  snapshotRepo,
		now:           time.Now,
	}
}

// AggregatedTotals resolve o período, busca as conversões e devolve os
// agregados com regras aplicadas, colapsando requisições concorrentes no
// cache. Falha do primário cai para o secundário, depois para o snapshot
// persistido e por fim para zero atividade: o painel nunca fica fora do ar
// por causa de upstream.
func (s *Service) AggregatedTotals(period string, sub1Filter []string) ([]domain.AggregatedSubTotal, error) {
	window, err := domain.ResolvePeriod(period, s.now())
	if err != nil {
		return nil, err
	}

	key := statscache.NewKey(period, sub1Filter)
	return s.cache.GetOrFetch(key, func() ([]domain.AggregatedSubTotal, error) {
		return s.fetchAndAggregate(period, window, sub1Filter)
	})
}

func (s *Service) fetchAndAggregate(
	period string,
	window domain.TimeWindow,
	sub1Filter []string,
) ([]domain.AggregatedSubTotal, error) {
	// Regras sempre frescas: alteração do admin vale na próxima requisição
	ruleSet, err := s.rulesProvider.Current()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar regras comerciais")
	}

	records, err := s.everflow.FetchConversions(window, sub1Filter)
	if err == nil {
		totals := aggregateConversions(records, window, ruleSet)
		s.persistSnapshot(period, sub1Filter, totals)
		return totals, nil
	}

	logrus.WithFields(logrus.Fields{
		"period": period,
		"error":  err.Error(),
	}).Warn("Fonte primária indisponível, tentando fonte secundária")

	totals, tuneErr := s.tune.FetchSubTotals(window)
	if tuneErr == nil {
		return filterTotals(totals, sub1Filter), nil
	}

	logrus.WithFields(logrus.Fields{
		"period": period,
		"error":  tuneErr.Error(),
	}).Warn("Fonte secundária indisponível, servindo snapshot persistido")

	snapshot, snapErr := s.snapshotRepo.GetByPeriod(period)
	if snapErr == nil && snapshot != nil {
		return filterTotals(snapshot.Totals, sub1Filter), nil
	}

	logrus.WithField("period", period).Error("Sem snapshot disponível, respondendo atividade zero")
	return []domain.AggregatedSubTotal{}, nil
}

// persistSnapshot guarda o agregado sem filtro para servir de fallback.
// Agregados filtrados não viram snapshot: o fallback fatia o ALL.
func (s *Service) persistSnapshot(period string, sub1Filter []string, totals []domain.AggregatedSubTotal) {
	if len(sub1Filter) > 0 || s.snapshotRepo == nil {
		return
	}
	if err := s.snapshotRepo.Upsert(period, totals); err != nil {
		logrus.WithFields(logrus.Fields{
			"period": period,
			"error":  err.Error(),
		}).Warn("Falha ao persistir snapshot de estatísticas")
	}
}

// StatsForUser monta o painel principal conforme o perfil do usuário.
func (s *Service) StatsForUser(user *domain.Claims, period string) (*domain.DashboardStats, error) {
	strategy, ok := viewByRole[user.UserRoleID]
	if !ok {
		return nil, fmt.Errorf("perfil sem visão de painel: %d", user.UserRoleID)
	}

	window, err := domain.ResolvePeriod(period, s.now())
	if err != nil {
		return nil, err
	}

	sub1s := user.UserSub1s
	if user.UserRoleID == domain.RoleAdmin {
		sub1s = nil // admin enxerga tudo
	}

	allTotals, err := s.AggregatedTotals(period, nil)
	if err != nil {
		return nil, err
	}

	ruleSet, err := s.rulesProvider.Current()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar regras comerciais")
	}

	return strategy(s, viewContext{
		totals:    filterTotals(allTotals, sub1s),
		allTotals: allTotals,
		rules:     ruleSet,
		window:    window,
		period:    period,
		sub1s:     sub1s,
	}), nil
}

// Sub1Leads detalha custos e lucro líquido por sub1 do gerente.
func (s *Service) Sub1Leads(user *domain.Claims, period string) ([]*domain.Sub1LeadRow, error) {
	ruleSet, err := s.rulesProvider.Current()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar regras comerciais")
	}

	totals, err := s.AggregatedTotals(period, nil)
	if err != nil {
		return nil, err
	}

	managed := filterTotals(totals, user.UserSub1s)
	rows := make([]*domain.Sub1LeadRow, 0, len(managed))

	for _, total := range managed {
		bonus := s.bonusForLeads(total.Leads)

		override := 0.0
		if total.Sub1 == s.cfg.Business.OverrideBonusSub1 {
			override = float64(total.Leads) * s.cfg.Business.OverrideBonusPerLead
		}

		// Comissões devidas a sub-afiliados sobre o tráfego deste sub1
		ruleBonus := 0.0
		for _, rule := range ruleSet.SubAffiliateRules {
			if rule.SourceSub1 == total.Sub1 {
				ruleBonus += float64(total.Leads) * rule.BonusPerLead
			}
		}

		// Override e comissão de regra são colunas informativas da planilha;
		// o líquido desconta apenas o custo do afiliado e o bônus
		caTotal := float64(total.Leads) * s.cfg.Business.FlatCARatePerLead
		net := caTotal - total.Revenue - bonus

		epc := 0.0
		if clicks := s.estimateClicks(total.Leads); clicks > 0 {
			epc = utils.RoundWithTwoDecimalPlace(net / float64(clicks))
		}

		rows = append(rows, &domain.Sub1LeadRow{
			Sub1:          total.Sub1,
			Leads:         total.Leads,
			CostAffiliate: utils.RoundWithTwoDecimalPlace(total.Revenue),
			Bonus:         bonus,
			OverrideBonus: utils.RoundWithTwoDecimalPlace(override),
			RuleBonus:     utils.RoundWithTwoDecimalPlace(ruleBonus),
			CATotal:       utils.RoundWithTwoDecimalPlace(caTotal),
			Net:           utils.RoundWithTwoDecimalPlace(net),
			EPC:           epc,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Leads > rows[j].Leads })
	return rows, nil
}

// ManagerEPC calcula o EPC global do gerente sobre todos os seus sub1s.
func (s *Service) ManagerEPC(user *domain.Claims, period string) (*domain.ManagerEPC, error) {
	stats, err := s.StatsForUser(user, period)
	if err != nil {
		return nil, err
	}

	result := &domain.ManagerEPC{
		TotalClicks:      stats.Clicks,
		TotalConversions: stats.Conversions,
	}
	if stats.ManagerProfit != nil {
		result.TotalProfit = *stats.ManagerProfit
	}
	if stats.Clicks > 0 {
		result.EPC = utils.RoundWithTwoDecimalPlace(result.TotalProfit / float64(stats.Clicks))
	}
	return result, nil
}

// RecentConversions retorna as conversões cruas do período, mais recentes
// primeiro, restritas aos sub1s do usuário (admin vê todas).
func (s *Service) RecentConversions(user *domain.Claims, period string, limit int) ([]domain.ConversionRecord, error) {
	window, err := domain.ResolvePeriod(period, s.now())
	if err != nil {
		return nil, err
	}

	sub1s := user.UserSub1s
	if user.UserRoleID == domain.RoleAdmin {
		sub1s = nil
	}

	records, err := s.everflow.FetchConversions(window, sub1s)
	if err != nil {
		logrus.WithError(err).Warn("Feed de conversões indisponível")
		return []domain.ConversionRecord{}, nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Leaderboard monta o ranking de sub1s por leads com nomes mascarados.
func (s *Service) Leaderboard(period string) ([]domain.LeaderboardEntry, error) {
	totals, err := s.AggregatedTotals(period, nil)
	if err != nil {
		return nil, err
	}

	sorted := make([]domain.AggregatedSubTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Leads > sorted[j].Leads })

	entries := make([]domain.LeaderboardEntry, 0, len(sorted))
	for i, total := range sorted {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:       i + 1,
			MaskedSub1: maskSub1(total.Sub1),
			Leads:      total.Leads,
		})
	}
	return entries, nil
}

// UserBonuses monta o extrato de comissões de sub-afiliado do usuário.
func (s *Service) UserBonuses(user *domain.Claims, period string) (*domain.UserBonuses, error) {
	ruleSet, err := s.rulesProvider.Current()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar regras comerciais")
	}

	targetRules := ruleSet.RulesForTarget(user.UserSub1s)
	result := &domain.UserBonuses{Lines: []domain.BonusLine{}}
	if len(targetRules) == 0 {
		return result, nil
	}

	totals, err := s.AggregatedTotals(period, nil)
	if err != nil {
		return nil, err
	}

	for _, rule := range targetRules {
		leads := leadsForSub1(totals, rule.SourceSub1)
		amount := utils.RoundWithTwoDecimalPlace(float64(leads) * rule.BonusPerLead)
		result.Lines = append(result.Lines, domain.BonusLine{
			SourceSub1:   rule.SourceSub1,
			Label:        rule.Label,
			Leads:        leads,
			BonusPerLead: rule.BonusPerLead,
			Amount:       amount,
		})
		result.Total += amount
	}
	result.Total = utils.RoundWithTwoDecimalPlace(result.Total)
	return result, nil
}

// TrafficSummary retorna o resumo rápido hoje/ontem do painel com os
// cliques reais do upstream primário. Sem o resumo, os números são
// estimados a partir dos agregados, com os cliques derivados da taxa de
// conversão histórica como no restante do painel.
func (s *Service) TrafficSummary() (*domain.TrafficSummary, error) {
	window, err := domain.ResolvePeriod(domain.PeriodToday, s.now())
	if err != nil {
		return nil, err
	}

	summary, err := s.everflow.DashboardSummary(window)
	if err == nil {
		return summary, nil
	}

	logrus.WithError(err).Warn("Resumo do painel indisponível, estimando a partir dos agregados")

	today, err := s.AggregatedTotals(domain.PeriodToday, nil)
	if err != nil {
		return nil, err
	}
	yesterday, err := s.AggregatedTotals(domain.PeriodYesterday, nil)
	if err != nil {
		return nil, err
	}

	leadsToday, revenueToday := sumTotals(today)
	leadsYesterday, revenueYesterday := sumTotals(yesterday)
	return &domain.TrafficSummary{
		ClicksToday:          s.estimateClicks(leadsToday),
		ClicksYesterday:      s.estimateClicks(leadsYesterday),
		ConversionsToday:     leadsToday,
		ConversionsYesterday: leadsYesterday,
		RevenueToday:         utils.RoundWithTwoDecimalPlace(revenueToday),
		RevenueYesterday:     utils.RoundWithTwoDecimalPlace(revenueYesterday),
	}, nil
}

// ActiveSub1s lista os sub1s com atividade no período.
func (s *Service) ActiveSub1s(period string) ([]domain.Sub1Activity, error) {
	totals, err := s.AggregatedTotals(period, nil)
	if err != nil {
		return nil, err
	}

	activity := make([]domain.Sub1Activity, 0, len(totals))
	for _, total := range totals {
		activity = append(activity, domain.Sub1Activity{
			Sub1:    total.Sub1,
			Leads:   total.Leads,
			Revenue: utils.RoundWithTwoDecimalPlace(total.Revenue),
		})
	}
	return activity, nil
}

// maskSub1 esconde o identificador no ranking público.
func maskSub1(sub1 string) string {
	if sub1 == "" {
		return "***"
	}
	return string([]rune(sub1)[0]) + "***"
}
