package reporting

import (
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// StatsReporter expõe as visões de estatísticas por perfil de usuário.
type StatsReporter interface {
	// StatsForUser monta o painel principal conforme o perfil do usuário
	StatsForUser(user *domain.Claims, period string) (*domain.DashboardStats, error)

	// Sub1Leads detalha os leads por sub1 do gerente, com custos e lucro líquido
	Sub1Leads(user *domain.Claims, period string) ([]*domain.Sub1LeadRow, error)

	// ManagerEPC calcula o EPC global do gerente sobre todos os seus sub1s
	ManagerEPC(user *domain.Claims, period string) (*domain.ManagerEPC, error)
}

// ConversionLister expõe o feed de conversões recentes do período.
type ConversionLister interface {
	RecentConversions(user *domain.Claims, period string, limit int) ([]domain.ConversionRecord, error)
}

// CombinedReporter combina as visões de estatísticas com os extras do painel.
type CombinedReporter interface {
	StatsReporter
	ConversionLister

	// Leaderboard retorna o ranking de sub1s por leads, com nomes mascarados
	Leaderboard(period string) ([]domain.LeaderboardEntry, error)

	// UserBonuses retorna o extrato de comissões de sub-afiliado do usuário
	UserBonuses(user *domain.Claims, period string) (*domain.UserBonuses, error)

	// ActiveSub1s lista os sub1s com atividade no período (uso administrativo)
	ActiveSub1s(period string) ([]domain.Sub1Activity, error)

	// TrafficSummary retorna o resumo hoje/ontem com cliques reais do
	// upstream, estimando a partir dos agregados quando indisponível
	TrafficSummary() (*domain.TrafficSummary, error)

	// AggregatedTotals expõe os agregados crus do período (scheduler e admin)
	AggregatedTotals(period string, sub1Filter []string) ([]domain.AggregatedSubTotal, error)
}
