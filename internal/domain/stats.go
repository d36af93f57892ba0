package domain

import "time"

// DashboardStats é o payload do painel principal, comum a todos os perfis.
// Os campos de lucro só são preenchidos para perfis de gestão.
type DashboardStats struct {
	Clicks        int      `json:"clicks"`
	Conversions   int      `json:"conversions"`
	Revenue       float64  `json:"revenue"`
	Bonus         float64  `json:"bonus"`
	ManagerProfit *float64 `json:"manager_profit,omitempty"`
	Commission    *float64 `json:"commission,omitempty"`
	NetProfit     *float64 `json:"net_profit,omitempty"`
	EPC           *float64 `json:"epc,omitempty"`
	Anomalous     bool     `json:"anomalous,omitempty"`
}

// Sub1LeadRow é uma linha do detalhamento por sub1 do gerente.
type Sub1LeadRow struct {
	Sub1          string  `json:"sub1"`
	Leads         int     `json:"leads"`
	CostAffiliate float64 `json:"cost_affiliate"`
	Bonus         float64 `json:"bonus"`
	OverrideBonus float64 `json:"override_bonus,omitempty"`
	RuleBonus     float64 `json:"rule_bonus,omitempty"`
	CATotal       float64 `json:"ca_total"`
	Net           float64 `json:"net"`
	EPC           float64 `json:"epc"`
}

// ManagerEPC é a visão global de EPC do gerente sobre todos os seus sub1s.
type ManagerEPC struct {
	EPC              float64 `json:"epc"`
	TotalProfit      float64 `json:"total_profit"`
	TotalClicks      int     `json:"total_clicks"`
	TotalConversions int     `json:"total_conversions"`
}

// LeaderboardEntry é uma posição do ranking público de sub1s por leads.
// O nome é mascarado para não expor os identificadores dos afiliados.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	MaskedSub1 string `json:"masked_sub1"`
	Leads      int    `json:"leads"`
}

// BonusLine é uma linha de comissão de sub-afiliado devida ao usuário.
type BonusLine struct {
	SourceSub1   string  `json:"source_sub1"`
	Label        string  `json:"label,omitempty"`
	Leads        int     `json:"leads"`
	BonusPerLead float64 `json:"bonus_per_lead"`
	Amount       float64 `json:"amount"`
}

// UserBonuses é o extrato de comissões de sub-afiliado de um usuário.
type UserBonuses struct {
	Lines []BonusLine `json:"lines"`
	Total float64     `json:"total"`
}

// Sub1Activity é um item da listagem administrativa de sub1s ativos.
type Sub1Activity struct {
	Sub1    string  `json:"sub1"`
	Leads   int     `json:"leads"`
	Revenue float64 `json:"revenue"`
}

// StatsSnapshot é o agregado persistido de um período, usado como fallback
// quando os upstreams estão indisponíveis.
type StatsSnapshot struct {
	Period    string               `json:"period"`
	Totals    []AggregatedSubTotal `json:"totals"`
	FetchedAt time.Time            `json:"fetched_at"`
}
