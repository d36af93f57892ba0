package reporting

import (
	"math"
	"sort"

	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// aggregateConversions agrega as conversões cruas por sub1 e aplica as
// regras de fase vigentes. O resultado sai ordenado por sub1 para dar
// saídas estáveis ao cache e aos snapshots.
func aggregateConversions(
	records []domain.ConversionRecord,
	window domain.TimeWindow,
	rules *domain.RuleSet,
) []domain.AggregatedSubTotal {
	bySub1 := make(map[string][]domain.ConversionRecord)
	for _, record := range records {
		bySub1[record.Sub1] = append(bySub1[record.Sub1], record)
	}

	loc := window.From.Location()
	totals := make([]domain.AggregatedSubTotal, 0, len(bySub1))
	seen := make(map[string]bool, len(bySub1))

	for sub1, convs := range bySub1 {
		seen[sub1] = true
		leads := applyPhases(convs, window, rules.SortedPhases(sub1, loc))
		totals = append(totals, domain.AggregatedSubTotal{
			Sub1:    sub1,
			Leads:   leads,
			Revenue: float64(leads) * rules.PayoutForSub1(sub1),
		})
	}

	// Sub1s sem conversão nenhuma ainda aparecem quando uma fase com bônus
	// manual cobre a janela consultada
	for sub1, phases := range rules.PhaseRules {
		if seen[sub1] {
			continue
		}
		bonus := 0
		for _, phase := range phases {
			if phase.BonusLeads > 0 && phase.Overlaps(window) {
				bonus += phase.BonusLeads
			}
		}
		if bonus > 0 {
			totals = append(totals, domain.AggregatedSubTotal{
				Sub1:    sub1,
				Leads:   bonus,
				Revenue: float64(bonus) * rules.PayoutForSub1(sub1),
			})
		}
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].Sub1 < totals[j].Sub1 })
	return totals
}

// applyPhases converte as conversões de um sub1 em leads contratuais.
// Conversões fora de qualquer fase contam 1:1. Dentro de uma fase, o total
// de conversões da fase é multiplicado e arredondado meio-para-cima. Cada
// fase que intersecta a janela injeta seus leads de bônus uma única vez.
func applyPhases(
	convs []domain.ConversionRecord,
	window domain.TimeWindow,
	phases []domain.PhaseRule,
) int {
	if len(phases) == 0 {
		return len(convs)
	}

	matched := make([]int, len(phases))
	preRule := 0

	for _, conv := range convs {
		idx := -1
		for i, phase := range phases {
			if phase.Matches(conv.OccurredAt) {
				idx = i
				break // fases sobrepostas: a primeira vence
			}
		}
		if idx < 0 {
			preRule++
			continue
		}
		matched[idx]++
	}

	leads := preRule
	for i, phase := range phases {
		if matched[i] > 0 {
			leads += int(math.Round(float64(matched[i]) * phase.Multiplier))
		}
		if phase.BonusLeads > 0 && phase.Overlaps(window) {
			leads += phase.BonusLeads
		}
	}
	return leads
}

// sumTotals acumula leads e receita de um conjunto de agregados.
func sumTotals(totals []domain.AggregatedSubTotal) (leads int, revenue float64) {
	for _, t := range totals {
		leads += t.Leads
		revenue += t.Revenue
	}
	return leads, revenue
}

// filterTotals restringe os agregados aos sub1s informados.
func filterTotals(totals []domain.AggregatedSubTotal, sub1s []string) []domain.AggregatedSubTotal {
	if len(sub1s) == 0 {
		return totals
	}
	allowed := make(map[string]bool, len(sub1s))
	for _, s := range sub1s {
		allowed[s] = true
	}
	out := make([]domain.AggregatedSubTotal, 0, len(totals))
	for _, t := range totals {
		if allowed[t.Sub1] {
			out = append(out, t)
		}
	}
	return out
}
