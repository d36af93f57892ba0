package domain

import (
	"sort"
	"time"
)

// PhaseRule é uma fase de contrato de um sub1: dentro da vigência as
// conversões valem Multiplier leads cada, e a fase pode injetar leads e
// cliques de bônus manuais uma única vez por janela consultada.
//
// As datas ficam como texto yyyy-mm-dd: fases com datas não parseáveis
// simplesmente nunca casam, sem derrubar a agregação.
type PhaseRule struct {
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date,omitempty"`
	Multiplier  float64 `json:"multiplier"`
	BonusLeads  int     `json:"manual_bonus_leads,omitempty"`
	BonusClicks int     `json:"manual_bonus_clicks,omitempty"`
	Label       string  `json:"label,omitempty"`
}

// Window materializa a vigência da fase. ok=false quando as datas não são
// parseáveis; ToDate vazio significa fase aberta.
func (p PhaseRule) Window(loc *time.Location) (from, to time.Time, open, ok bool) {
	from, err := time.ParseInLocation("2006-01-02", p.FromDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, false
	}
	if p.ToDate == "" {
		return from, time.Time{}, true, true
	}
	to, err = time.ParseInLocation("2006-01-02", p.ToDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, false
	}
	// Fim da fase cobre o dia inteiro
	return from, to.Add(24*time.Hour - time.Second), false, true
}

// Matches informa se o instante cai dentro da vigência da fase.
func (p PhaseRule) Matches(t time.Time) bool {
	from, to, open, ok := p.Window(t.Location())
	if !ok || t.Before(from) {
		return false
	}
	return open || !t.After(to)
}

// Overlaps informa se a vigência da fase intersecta a janela consultada.
func (p PhaseRule) Overlaps(w TimeWindow) bool {
	from, to, open, ok := p.Window(w.From.Location())
	if !ok || from.After(w.To) {
		return false
	}
	return open || !to.Before(w.From)
}

// SubAffiliateRule repassa uma comissão fixa por lead de um sub1 de origem
// para um sub1 alvo (sub-gerentes comissionados sobre tráfego alheio).
type SubAffiliateRule struct {
	SourceSub1   string  `json:"source_sub1"`
	TargetSub1   string  `json:"target_sub1"`
	BonusPerLead float64 `json:"bonus_per_lead"`
	Label        string  `json:"label,omitempty"`
}

// RuleSet é o documento de regras comerciais persistido. É relido a cada
// agregação: alterações do admin valem na requisição seguinte.
type RuleSet struct {
	PayoutPerLead        float64                `json:"payout_per_lead"`
	PayoutBySub1         map[string]float64     `json:"payout_by_sub1,omitempty"`
	ManagerMarginPerLead float64                `json:"manager_margin_per_lead"`
	PhaseRules           map[string][]PhaseRule `json:"phase_rules,omitempty"`
	SubAffiliateRules    []SubAffiliateRule     `json:"sub_affiliate_rules,omitempty"`
}

// PayoutForSub1 retorna a taxa por lead do sub1, com fallback na taxa padrão.
func (r *RuleSet) PayoutForSub1(sub1 string) float64 {
	if rate, ok := r.PayoutBySub1[sub1]; ok {
		return rate
	}
	return r.PayoutPerLead
}

// SortedPhases retorna as fases do sub1 ordenadas pela data inicial.
// Em conversões cobertas por fases sobrepostas, a primeira fase vence.
func (r *RuleSet) SortedPhases(sub1 string, loc *time.Location) []PhaseRule {
	phases := r.PhaseRules[sub1]
	if len(phases) == 0 {
		return nil
	}

	sorted := make([]PhaseRule, len(phases))
	copy(sorted, phases)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, _, _, oki := sorted[i].Window(loc)
		fj, _, _, okj := sorted[j].Window(loc)
		if oki != okj {
			return oki // fases não parseáveis vão para o fim
		}
		return fi.Before(fj)
	})
	return sorted
}

// RulesForTarget retorna as regras de sub-afiliado em que o sub1 é o alvo.
func (r *RuleSet) RulesForTarget(sub1s []string) []SubAffiliateRule {
	targets := make(map[string]bool, len(sub1s))
	for _, s := range sub1s {
		targets[s] = true
	}

	var out []SubAffiliateRule
	for _, rule := range r.SubAffiliateRules {
		if targets[rule.TargetSub1] {
			out = append(out, rule)
		}
	}
	return out
}
