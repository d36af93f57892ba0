package reporting

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/utils"
)

// viewContext carrega tudo que uma estratégia de visão precisa: os
// agregados já filtrados para o usuário, as regras frescas e a janela.
type viewContext struct {
	totals    []domain.AggregatedSubTotal // filtrados para os sub1s do usuário
	allTotals []domain.AggregatedSubTotal // sem filtro, para comissões de terceiros
	rules     *domain.RuleSet
	window    domain.TimeWindow
	period    string
	sub1s     []string
}

// viewStrategy monta o painel de um perfil a partir dos agregados.
type viewStrategy func(s *Service, ctx viewContext) *domain.DashboardStats

// viewByRole despacha a montagem do painel pelo perfil do usuário.
// Perfis novos entram aqui com sua própria estratégia.
var viewByRole = map[int]viewStrategy{
	domain.RoleAdmin:      (*Service).adminView,
	domain.RoleManager:    (*Service).managerView,
	domain.RoleSubManager: (*Service).subManagerView,
	domain.RoleAffiliate:  (*Service).affiliateView,
}

// estimateClicks estima os cliques a partir das conversões usando a taxa
// histórica de conversão da rede.
func (s *Service) estimateClicks(conversions int) int {
	ratio := s.cfg.Business.ConversionClickRatio
	if ratio <= 0 || conversions == 0 {
		return 0
	}
	return int(math.Round(float64(conversions) / ratio))
}

// bonusForLeads calcula o bônus por blocos fechados de leads.
func (s *Service) bonusForLeads(leads int) float64 {
	block := s.cfg.Business.BonusBlockSize
	if block <= 0 || leads < block {
		return 0
	}
	return float64(leads/block) * s.cfg.Business.BonusPerBlock
}

// anomalyThreshold retorna o teto de conversões plausível para o período.
func (s *Service) anomalyThreshold(period string) int {
	switch period {
	case domain.PeriodToday, domain.PeriodYesterday:
		return s.cfg.Business.DailyAnomalyThreshold
	default:
		return s.cfg.Business.MonthlyAnomalyThreshold
	}
}

// checkAnomaly zera o painel quando a contagem é implausível (falha de
// filtro upstream já vazou números globais para afiliados no passado).
func (s *Service) checkAnomaly(stats *domain.DashboardStats, ctx viewContext) *domain.DashboardStats {
	threshold := s.anomalyThreshold(ctx.period)
	if threshold <= 0 || stats.Conversions <= threshold {
		return stats
	}

	logrus.WithFields(logrus.Fields{
		"period":      ctx.period,
		"sub1s":       ctx.sub1s,
		"conversions": stats.Conversions,
		"threshold":   threshold,
	}).Warn("Estatísticas anômalas detectadas, zerando visão do usuário")

	return &domain.DashboardStats{Anomalous: true}
}

func (s *Service) affiliateView(ctx viewContext) *domain.DashboardStats {
	leads, revenue := sumTotals(ctx.totals)
	bonus := s.bonusForLeads(leads)

	return s.checkAnomaly(&domain.DashboardStats{
		Clicks:      s.estimateClicks(leads),
		Conversions: leads,
		Revenue:     utils.RoundWithTwoDecimalPlace(revenue),
		Bonus:       bonus,
	}, ctx)
}

func (s *Service) subManagerView(ctx viewContext) *domain.DashboardStats {
	stats := s.affiliateView(ctx)
	if stats.Anomalous {
		return stats
	}

	// Comissão sobre o tráfego de terceiros em que o usuário é o alvo;
	// os próprios sub1s nunca comissionam a si mesmos
	commission := 0.0
	for _, rule := range ctx.rules.RulesForTarget(ctx.sub1s) {
		commission += float64(leadsForSub1(ctx.allTotals, rule.SourceSub1)) * rule.BonusPerLead
	}
	commission = utils.RoundWithTwoDecimalPlace(commission)

	net := utils.RoundWithTwoDecimalPlace(stats.Revenue + stats.Bonus + commission)
	stats.Commission = &commission
	stats.NetProfit = &net
	return stats
}

func (s *Service) managerView(ctx viewContext) *domain.DashboardStats {
	stats := s.affiliateView(ctx)
	if stats.Anomalous {
		return stats
	}

	// Margem sempre fresca: alteração do admin vale na próxima requisição
	profit := utils.RoundWithTwoDecimalPlace(
		float64(stats.Conversions)*ctx.rules.ManagerMarginPerLead + stats.Bonus,
	)
	stats.ManagerProfit = &profit

	epc := 0.0
	if stats.Clicks > 0 {
		epc = utils.RoundWithTwoDecimalPlace(profit / float64(stats.Clicks))
	}
	stats.EPC = &epc
	return stats
}

// adminView soma tudo sem filtro de sub1 e sem o corte de anomalia: o
// admin precisa enxergar o número real para diagnosticar o upstream.
func (s *Service) adminView(ctx viewContext) *domain.DashboardStats {
	leads, revenue := sumTotals(ctx.totals)
	return &domain.DashboardStats{
		Clicks:      s.estimateClicks(leads),
		Conversions: leads,
		Revenue:     utils.RoundWithTwoDecimalPlace(revenue),
		Bonus:       s.bonusForLeads(leads),
	}
}

func leadsForSub1(totals []domain.AggregatedSubTotal, sub1 string) int {
	for _, t := range totals {
		if t.Sub1 == sub1 {
			return t.Leads
		}
	}
	return 0
}
