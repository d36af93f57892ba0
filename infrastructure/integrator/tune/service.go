package tune

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	tunedomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/domain"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/tuneclient"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// ErrPartialFailure indica envelope com status de falha na consulta
// segmentada. O serviço tenta de novo sem segmentação antes de desistir.
var ErrPartialFailure = errors.New("tune: relatório segmentado indisponível")

// PlaceholderSub1 recebe os totais da consulta sem segmentação, quando o
// upstream não consegue quebrar por sub1.
const PlaceholderSub1 = "unknown"

// StatsFetcher é a fonte secundária de totais agregados.
type StatsFetcher interface {
	FetchSubTotals(window domain.TimeWindow) ([]domain.AggregatedSubTotal, error)
}

type TuneIntegrator struct {
	cfg    *config.Config
	Client tuneclient.Client
}

func New(cfg *config.Config, client tuneclient.Client) *TuneIntegrator {
	return &TuneIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchSubTotals consulta o relatório agregado por sub1. Se o envelope
// vier com status de falha, repete a consulta sem agrupamento e atribui
// tudo ao sub1 de contingência.
func (s *TuneIntegrator) FetchSubTotals(window domain.TimeWindow) ([]domain.AggregatedSubTotal, error) {
	params := tuneclient.StatsParams{
		StartDate: window.From.Format("2006-01-02"),
		EndDate:   window.To.Format("2006-01-02"),
		Fields:    []string{"Stat.affiliate_info1", "Stat.conversions", "Stat.payout"},
		Group:     []string{"Stat.affiliate_info1"},
	}

	envelope, err := s.Client.GetStats(params)
	if err != nil {
		return nil, errors.Wrap(err, "tune: consulta segmentada falhou")
	}

	if envelope.Response.Status != 1 {
		logrus.WithFields(logrus.Fields{
			"status": envelope.Response.Status,
			"errors": envelope.Response.Errors,
		}).Warn("TUNE recusou a consulta segmentada, tentando sem segmentação")
		return s.fetchUnsegmented(window)
	}

	return s.toSubTotals(envelope.Response.Data.Data), nil
}

func (s *TuneIntegrator) fetchUnsegmented(window domain.TimeWindow) ([]domain.AggregatedSubTotal, error) {
	envelope, err := s.Client.GetStats(tuneclient.StatsParams{
		StartDate: window.From.Format("2006-01-02"),
		EndDate:   window.To.Format("2006-01-02"),
		Fields:    []string{"Stat.conversions", "Stat.payout"},
	})
	if err != nil {
		return nil, errors.Wrap(ErrPartialFailure, err.Error())
	}
	if envelope.Response.Status != 1 {
		return nil, ErrPartialFailure
	}

	var leads int
	var revenue float64
	for _, row := range envelope.Response.Data.Data {
		leads += atoiLoose(row.Stat.Conversions)
		revenue += atofLoose(row.Stat.Payout)
	}

	return []domain.AggregatedSubTotal{{
		Sub1:    PlaceholderSub1,
		Leads:   leads,
		Revenue: revenue,
	}}, nil
}

func (s *TuneIntegrator) toSubTotals(rows []tunedomain.StatRow) []domain.AggregatedSubTotal {
	totals := make([]domain.AggregatedSubTotal, 0, len(rows))
	for _, row := range rows {
		sub1 := row.Stat.AffiliateInfo1
		if sub1 == "" {
			sub1 = PlaceholderSub1
		}
		totals = append(totals, domain.AggregatedSubTotal{
			Sub1:    sub1,
			Leads:   atoiLoose(row.Stat.Conversions),
			Revenue: atofLoose(row.Stat.Payout),
		})
	}
	return totals
}

func atoiLoose(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithField("value", raw).Warn("TUNE: valor de conversões não numérico")
		return 0
	}
	return n
}

func atofLoose(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithField("value", raw).Warn("TUNE: valor de payout não numérico")
		return 0
	}
	return f
}
