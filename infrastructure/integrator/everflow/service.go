package everflow

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	everflowdomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/domain"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/everflowclient"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// ErrUnavailable é reexportado para os consumidores não dependerem do
// pacote do client.
var ErrUnavailable = everflowclient.ErrUnavailable

// ConversionFetcher é a fonte primária de conversões.
type ConversionFetcher interface {
	FetchConversions(window domain.TimeWindow, sub1Filter []string) ([]domain.ConversionRecord, error)
	DashboardSummary(window domain.TimeWindow) (*domain.TrafficSummary, error)
}

type EverflowIntegrator struct {
	cfg    *config.Config
	Client everflowclient.Client
}

func New(cfg *config.Config, client everflowclient.Client) *EverflowIntegrator {
	return &EverflowIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchConversions busca todas as conversões da janela, paginando até a
// página curta ou o teto de páginas. Janelas custom usam uma única página
// grande: a paginação do upstream é instável nesses relatórios.
//
// O filtro de sub1 é SEMPRE reaplicado aqui; o filtro server-side do
// upstream já devolveu linhas de outros sub1s em produção.
func (s *EverflowIntegrator) FetchConversions(window domain.TimeWindow, sub1Filter []string) ([]domain.ConversionRecord, error) {
	pageSize := s.cfg.Everflow.PageLimit
	maxPages := s.cfg.Everflow.MaxPages
	if window.Custom {
		pageSize = s.cfg.Everflow.CustomPageLimit
		maxPages = 1
	}

	allowed := make(map[string]bool, len(sub1Filter))
	for _, sub1 := range sub1Filter {
		allowed[sub1] = true
	}

	records := make([]domain.ConversionRecord, 0)
	for page := 1; ; page++ {
		if page > maxPages {
			logrus.WithFields(logrus.Fields{
				"from":      window.FormatFrom(),
				"to":        window.FormatTo(),
				"max_pages": maxPages,
			}).Warn("Teto de páginas do Everflow atingido, resultado truncado")
			break
		}

		resp, err := s.Client.GetConversions(&everflowdomain.ConversionsRequest{
			From:            window.FormatFrom(),
			To:              window.FormatTo(),
			TimezoneID:      s.cfg.Everflow.TimezoneID,
			ShowConversions: true,
			ShowEvents:      false,
			Page:            page,
			PageSize:        pageSize,
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"page":  page,
				"error": err.Error(),
			}).Error("conversions: failed to fetch page from Everflow")
			return nil, errors.Wrap(err, "everflow: busca de conversões falhou")
		}

		for _, conv := range resp.Conversions {
			if len(allowed) > 0 && !allowed[conv.Sub1] {
				continue
			}
			records = append(records, toRecord(conv, window.From.Location()))
		}

		if len(resp.Conversions) < pageSize {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"from":  window.FormatFrom(),
		"to":    window.FormatTo(),
		"total": len(records),
	}).Debug("conversions: successfully fetched from Everflow")

	return records, nil
}

// DashboardSummary retorna o resumo rápido hoje/ontem do painel.
func (s *EverflowIntegrator) DashboardSummary(window domain.TimeWindow) (*domain.TrafficSummary, error) {
	resp, err := s.Client.GetDashboardSummary(&everflowdomain.SummaryRequest{
		From:       window.FormatFrom(),
		To:         window.FormatTo(),
		TimezoneID: s.cfg.Everflow.TimezoneID,
	})
	if err != nil {
		logrus.WithError(err).Error("summary: failed to fetch dashboard summary from Everflow")
		return nil, errors.Wrap(err, "everflow: resumo do painel falhou")
	}

	return &domain.TrafficSummary{
		ClicksToday:          resp.Click.Today,
		ClicksYesterday:      resp.Click.Yesterday,
		ConversionsToday:     resp.Conversion.Today,
		ConversionsYesterday: resp.Conversion.Yesterday,
		RevenueToday:         resp.Revenue.Today,
		RevenueYesterday:     resp.Revenue.Yesterday,
	}, nil
}

func toRecord(conv everflowdomain.Conversion, loc *time.Location) domain.ConversionRecord {
	record := domain.ConversionRecord{
		Sub1:       conv.Sub1,
		OccurredAt: time.Unix(conv.ConversionUnixTimestamp, 0).In(loc),
		Payout:     conv.Payout,
	}
	if conv.Relationship != nil && conv.Relationship.Offer != nil {
		record.OfferName = conv.Relationship.Offer.Name
	}
	return record
}
