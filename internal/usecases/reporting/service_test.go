package reporting

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	everflowmocks "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/mocks"
	tunemocks "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/mocks"
	repomocks "github.com/vfg2006/affiliate-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/statscache"
	"go.uber.org/mock/gomock"
)

// fixedRules entrega sempre o mesmo conjunto de regras nos testes
type fixedRules struct {
	ruleSet *domain.RuleSet
}

func (f *fixedRules) Current() (*domain.RuleSet, error) {
	return f.ruleSet, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Everflow: config.Everflow{
			PageLimit:       500,
			CustomPageLimit: 2000,
			MaxPages:        20,
		},
		Business: config.Business{
			PayoutPerLead:           4.70,
			ManagerMarginPerLead:    25.30,
			FlatCARatePerLead:       30.0,
			ConversionClickRatio:    0.077,
			BonusBlockSize:          10,
			BonusPerBlock:           10.0,
			OverrideBonusSub1:       "som",
			OverrideBonusPerLead:    2.0,
			DailyAnomalyThreshold:   5000,
			MonthlyAnomalyThreshold: 10000,
		},
	}
}

// Data de referência dos testes: 10 de março de 2024, meio-dia
func testNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestService(
	t *testing.T,
	ruleSet *domain.RuleSet,
) (*Service, *everflowmocks.MockConversionFetcher, *tunemocks.MockStatsFetcher, *repomocks.MockStatsSnapshotRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockEverflow := everflowmocks.NewMockConversionFetcher(ctrl)
	mockTune := tunemocks.NewMockStatsFetcher(ctrl)
	mockSnapshots := repomocks.NewMockStatsSnapshotRepository(ctrl)

	service := &Service{
		cfg:           testConfig(),
		everflow:      mockEverflow,
		tune:          mockTune,
		rulesProvider: &fixedRules{ruleSet: ruleSet},
		cache:         statscache.New(30 * time.Second),
		snapshotRepo:  mockSnapshots,
		now:           testNow,
	}

	return service, mockEverflow, mockTune, mockSnapshots
}

func TestService_AggregatedTotals_FontePrimaria(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", inWindow, 2.0, 23), nil)

	// Agregado sem filtro vira snapshot de fallback
	mockSnapshots.EXPECT().
		Upsert(domain.PeriodToday, gomock.Any()).
		Return(nil)

	totals, err := service.AggregatedTotals(domain.PeriodToday, nil)
	assert.NoError(t, err)
	assert.Len(t, totals, 1)
	assert.Equal(t, "joao", totals[0].Sub1)
	assert.Equal(t, 23, totals[0].Leads)
	assert.InDelta(t, 108.10, totals[0].Revenue, 0.001)
}

func TestService_AggregatedTotals_FallbackParaTune(t *testing.T) {
	service, mockEverflow, mockTune, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("everflow fora do ar"))

	mockTune.EXPECT().
		FetchSubTotals(gomock.Any()).
		Return([]domain.AggregatedSubTotal{
			{Sub1: "joao", Leads: 5, Revenue: 23.5},
			{Sub1: "maria", Leads: 2, Revenue: 9.4},
		}, nil)

	// Filtro é reaplicado no lado do cliente sobre o total do secundário
	totals, err := service.AggregatedTotals(domain.PeriodToday, []string{"joao"})
	assert.NoError(t, err)
	assert.Len(t, totals, 1)
	assert.Equal(t, "joao", totals[0].Sub1)
	assert.Equal(t, 5, totals[0].Leads)
}

func TestService_AggregatedTotals_FallbackParaSnapshot(t *testing.T) {
	service, mockEverflow, mockTune, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("everflow fora do ar"))
	mockTune.EXPECT().
		FetchSubTotals(gomock.Any()).
		Return(nil, errors.New("tune fora do ar"))

	mockSnapshots.EXPECT().
		GetByPeriod(domain.PeriodToday).
		Return(&domain.StatsSnapshot{
			Period: domain.PeriodToday,
			Totals: []domain.AggregatedSubTotal{
				{Sub1: "joao", Leads: 12, Revenue: 56.4},
				{Sub1: "maria", Leads: 7, Revenue: 32.9},
			},
			FetchedAt: testNow().Add(-10 * time.Minute),
		}, nil)

	totals, err := service.AggregatedTotals(domain.PeriodToday, []string{"maria"})
	assert.NoError(t, err)
	assert.Len(t, totals, 1)
	assert.Equal(t, "maria", totals[0].Sub1)
	assert.Equal(t, 7, totals[0].Leads)
}

func TestService_AggregatedTotals_SemNenhumaFonte(t *testing.T) {
	service, mockEverflow, mockTune, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("everflow fora do ar"))
	mockTune.EXPECT().
		FetchSubTotals(gomock.Any()).
		Return(nil, errors.New("tune fora do ar"))
	mockSnapshots.EXPECT().
		GetByPeriod(domain.PeriodToday).
		Return(nil, nil)

	// O painel nunca cai por causa de upstream: responde atividade zero
	totals, err := service.AggregatedTotals(domain.PeriodToday, nil)
	assert.NoError(t, err)
	assert.Empty(t, totals)
}

func TestService_AggregatedTotals_PeriodoInvalido(t *testing.T) {
	service, _, _, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	_, err := service.AggregatedTotals("custom:2024-03-10", nil)

	var invalidErr *domain.InvalidPeriodError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestService_StatsForUser_Afiliado(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	records := append(
		convsAt("joao", inWindow, 2.0, 23),
		convsAt("maria", inWindow, 2.0, 10)...,
	)
	mockEverflow.EXPECT().FetchConversions(gomock.Any(), gomock.Any()).Return(records, nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	// 23 leads a $4.70, cliques estimados pela taxa de 7.7%, bônus por
	// blocos fechados de 10 leads
	assert.Equal(t, 23, stats.Conversions)
	assert.Equal(t, 299, stats.Clicks)
	assert.InDelta(t, 108.10, stats.Revenue, 0.001)
	assert.InDelta(t, 20.0, stats.Bonus, 0.001)
	assert.Nil(t, stats.ManagerProfit)
	assert.Nil(t, stats.Commission)
	assert.False(t, stats.Anomalous)
}

func TestService_StatsForUser_SubGerente(t *testing.T) {
	ruleSet := &domain.RuleSet{
		PayoutPerLead: 4.70,
		SubAffiliateRules: []domain.SubAffiliateRule{
			{SourceSub1: "maria", TargetSub1: "joao", BonusPerLead: 0.5},
		},
	}
	service, mockEverflow, _, mockSnapshots := newTestService(t, ruleSet)

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	records := append(
		convsAt("joao", inWindow, 2.0, 23),
		convsAt("maria", inWindow, 2.0, 10)...,
	)
	mockEverflow.EXPECT().FetchConversions(gomock.Any(), gomock.Any()).Return(records, nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 11, UserRoleID: domain.RoleSubManager, UserSub1s: []string{"joao"}}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	// Comissão sobre o tráfego do sub1 de origem: 10 leads x $0.50
	assert.NotNil(t, stats.Commission)
	assert.InDelta(t, 5.0, *stats.Commission, 0.001)
	assert.NotNil(t, stats.NetProfit)
	assert.InDelta(t, 108.10+20.0+5.0, *stats.NetProfit, 0.001)
}

func TestService_StatsForUser_Gerente(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{
		PayoutPerLead:        4.70,
		ManagerMarginPerLead: 25.30,
	})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", inWindow, 2.0, 23), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 12, UserRoleID: domain.RoleManager, UserSub1s: []string{"joao"}}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	// Lucro do gerente: 23 x $25.30 + bônus de $20
	assert.NotNil(t, stats.ManagerProfit)
	assert.InDelta(t, 601.90, *stats.ManagerProfit, 0.001)
	assert.NotNil(t, stats.EPC)
	assert.InDelta(t, 2.01, *stats.EPC, 0.001)
}

func TestService_StatsForUser_Gerente_MargemDasRegras(t *testing.T) {
	// A margem alterada pelo admin prevalece sobre o padrão da configuração
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{
		PayoutPerLead:        4.70,
		ManagerMarginPerLead: 40.0,
	})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", inWindow, 2.0, 10), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 12, UserRoleID: domain.RoleManager, UserSub1s: []string{"joao"}}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	// 10 x $40 + bônus de $10, e não 10 x $25.30 da configuração
	assert.NotNil(t, stats.ManagerProfit)
	assert.InDelta(t, 410.0, *stats.ManagerProfit, 0.001)
}

func TestService_StatsForUser_AnomaliaZeraPainel(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", inWindow, 2.0, 6000), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// 6000 conversões num único dia: filtro upstream vazou números globais
	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	assert.True(t, stats.Anomalous)
	assert.Zero(t, stats.Conversions)
	assert.Zero(t, stats.Revenue)
}

func TestService_StatsForUser_AdminVeTudoSemCorte(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", inWindow, 2.0, 6000), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// Admin precisa do número real para diagnosticar o upstream
	user := &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}
	stats, err := service.StatsForUser(user, domain.PeriodToday)
	assert.NoError(t, err)

	assert.False(t, stats.Anomalous)
	assert.Equal(t, 6000, stats.Conversions)
}

func TestService_Sub1Leads(t *testing.T) {
	ruleSet := &domain.RuleSet{
		PayoutPerLead: 4.70,
		SubAffiliateRules: []domain.SubAffiliateRule{
			{SourceSub1: "joao", TargetSub1: "sub", BonusPerLead: 0.5},
		},
	}
	service, mockEverflow, _, mockSnapshots := newTestService(t, ruleSet)

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	records := append(
		convsAt("joao", inWindow, 2.0, 20),
		convsAt("som", inWindow, 2.0, 10)...,
	)
	mockEverflow.EXPECT().FetchConversions(gomock.Any(), gomock.Any()).Return(records, nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 12, UserRoleID: domain.RoleManager, UserSub1s: []string{"joao", "som"}}
	rows, err := service.Sub1Leads(user, domain.PeriodToday)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	// Ordenado por leads, maior primeiro
	assert.Equal(t, "joao", rows[0].Sub1)
	assert.Equal(t, 20, rows[0].Leads)
	// Líquido: CA total de $30/lead menos custo de afiliado e bônus. A
	// comissão de regra aparece como coluna, mas não entra na subtração
	assert.InDelta(t, 600.0, rows[0].CATotal, 0.001)
	assert.InDelta(t, 94.0, rows[0].CostAffiliate, 0.001)
	assert.InDelta(t, 20.0, rows[0].Bonus, 0.001)
	assert.InDelta(t, 10.0, rows[0].RuleBonus, 0.001)
	assert.InDelta(t, 600.0-94.0-20.0, rows[0].Net, 0.001)

	// Sub1 "som" carrega o bônus de override de $2/lead como coluna
	// informativa; o líquido também não o desconta
	assert.Equal(t, "som", rows[1].Sub1)
	assert.InDelta(t, 20.0, rows[1].OverrideBonus, 0.001)
	assert.InDelta(t, 300.0-47.0-10.0, rows[1].Net, 0.001)
}

func TestService_Leaderboard(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	records := append(
		convsAt("joao", inWindow, 2.0, 5),
		convsAt("maria", inWindow, 2.0, 9)...,
	)
	mockEverflow.EXPECT().FetchConversions(gomock.Any(), gomock.Any()).Return(records, nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	entries, err := service.Leaderboard(domain.PeriodToday)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	// Ranking por leads com identificadores mascarados
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "m***", entries[0].MaskedSub1)
	assert.Equal(t, 9, entries[0].Leads)
	assert.Equal(t, "j***", entries[1].MaskedSub1)
}

func TestService_UserBonuses(t *testing.T) {
	ruleSet := &domain.RuleSet{
		PayoutPerLead: 4.70,
		SubAffiliateRules: []domain.SubAffiliateRule{
			{SourceSub1: "maria", TargetSub1: "joao", BonusPerLead: 0.5, Label: "Repasse maria"},
			{SourceSub1: "pedro", TargetSub1: "outro", BonusPerLead: 1.0},
		},
	}
	service, mockEverflow, _, mockSnapshots := newTestService(t, ruleSet)

	inWindow := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("maria", inWindow, 2.0, 8), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	bonuses, err := service.UserBonuses(user, domain.PeriodToday)
	assert.NoError(t, err)

	assert.Len(t, bonuses.Lines, 1)
	assert.Equal(t, "maria", bonuses.Lines[0].SourceSub1)
	assert.Equal(t, 8, bonuses.Lines[0].Leads)
	assert.InDelta(t, 4.0, bonuses.Lines[0].Amount, 0.001)
	assert.InDelta(t, 4.0, bonuses.Total, 0.001)
}

func TestService_UserBonuses_SemRegras(t *testing.T) {
	service, _, _, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	// Sem regra apontando para o usuário, nem consulta o upstream
	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	bonuses, err := service.UserBonuses(user, domain.PeriodToday)
	assert.NoError(t, err)
	assert.Empty(t, bonuses.Lines)
	assert.Zero(t, bonuses.Total)
}

func TestService_TrafficSummary(t *testing.T) {
	service, mockEverflow, _, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	// Com o upstream no ar, os cliques reais do resumo são repassados
	mockEverflow.EXPECT().
		DashboardSummary(gomock.Any()).
		Return(&domain.TrafficSummary{
			ClicksToday:          1200,
			ClicksYesterday:      900,
			ConversionsToday:     80,
			ConversionsYesterday: 60,
			RevenueToday:         376.0,
			RevenueYesterday:     282.0,
		}, nil)

	summary, err := service.TrafficSummary()
	assert.NoError(t, err)
	assert.Equal(t, 1200, summary.ClicksToday)
	assert.Equal(t, 900, summary.ClicksYesterday)
	assert.Equal(t, 80, summary.ConversionsToday)
	assert.InDelta(t, 376.0, summary.RevenueToday, 0.001)
}

func TestService_TrafficSummary_FallbackEstimaDosAgregados(t *testing.T) {
	service, mockEverflow, _, mockSnapshots := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	mockEverflow.EXPECT().
		DashboardSummary(gomock.Any()).
		Return(nil, errors.New("resumo fora do ar"))

	today := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", today, 2.0, 23), nil)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(convsAt("joao", yesterday, 2.0, 10), nil)
	mockSnapshots.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	summary, err := service.TrafficSummary()
	assert.NoError(t, err)

	// Sem o resumo, os cliques são estimados pela taxa de conversão de 7.7%
	assert.Equal(t, 23, summary.ConversionsToday)
	assert.Equal(t, 299, summary.ClicksToday)
	assert.InDelta(t, 108.10, summary.RevenueToday, 0.001)
	assert.Equal(t, 10, summary.ConversionsYesterday)
	assert.Equal(t, 130, summary.ClicksYesterday)
	assert.InDelta(t, 47.0, summary.RevenueYesterday, 0.001)
}

func TestService_RecentConversions(t *testing.T) {
	service, mockEverflow, _, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	older := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), []string{"joao"}).
		Return([]domain.ConversionRecord{
			{Sub1: "joao", OccurredAt: older, Payout: 2.0},
			{Sub1: "joao", OccurredAt: newer, Payout: 2.0},
		}, nil)

	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	records, err := service.RecentConversions(user, domain.PeriodToday, 1)
	assert.NoError(t, err)

	// Mais recente primeiro, respeitando o limite
	assert.Len(t, records, 1)
	assert.Equal(t, newer, records[0].OccurredAt)
}

func TestService_RecentConversions_UpstreamFora(t *testing.T) {
	service, mockEverflow, _, _ := newTestService(t, &domain.RuleSet{PayoutPerLead: 4.70})

	mockEverflow.EXPECT().
		FetchConversions(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("everflow fora do ar"))

	user := &domain.Claims{UserID: 10, UserRoleID: domain.RoleAffiliate, UserSub1s: []string{"joao"}}
	records, err := service.RecentConversions(user, domain.PeriodToday, 10)
	assert.NoError(t, err)
	assert.Empty(t, records)
}
