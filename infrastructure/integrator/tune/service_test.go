package tune

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	tunedomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/domain"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/tuneclient"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// fakeClient responde com envelopes pré-montados, na ordem das chamadas
type fakeClient struct {
	envelopes []*tunedomain.Envelope
	errs      []error
	calls     []tuneclient.StatsParams
}

func (f *fakeClient) GetStats(params tuneclient.StatsParams) (*tunedomain.Envelope, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, params)
	if idx >= len(f.envelopes) {
		return nil, errors.New("chamada inesperada")
	}
	return f.envelopes[idx], f.errs[idx]
}

func envelopeWith(status int, rows ...tunedomain.StatRow) *tunedomain.Envelope {
	envelope := &tunedomain.Envelope{}
	envelope.Response.Status = status
	envelope.Response.Data.Data = rows
	return envelope
}

func statRow(sub1, conversions, payout string) tunedomain.StatRow {
	return tunedomain.StatRow{
		Stat: tunedomain.Stat{
			AffiliateInfo1: sub1,
			Conversions:    conversions,
			Payout:         payout,
		},
	}
}

func testWindow() domain.TimeWindow {
	return domain.TimeWindow{
		From: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 11, 1, 59, 59, 0, time.UTC),
	}
}

func TestFetchSubTotals_Segmentado(t *testing.T) {
	client := &fakeClient{
		envelopes: []*tunedomain.Envelope{
			envelopeWith(1,
				statRow("joao", "5", "23.5"),
				statRow("maria", "2", "9.4"),
			),
		},
		errs: []error{nil},
	}
	service := New(&config.Config{}, client)

	totals, err := service.FetchSubTotals(testWindow())
	assert.NoError(t, err)
	assert.Len(t, totals, 2)
	assert.Equal(t, "joao", totals[0].Sub1)
	assert.Equal(t, 5, totals[0].Leads)
	assert.InDelta(t, 23.5, totals[0].Revenue, 0.001)

	// Consulta segmentada agrupa por affiliate_info1
	assert.Contains(t, client.calls[0].Group, "Stat.affiliate_info1")
	assert.Equal(t, "2024-03-10", client.calls[0].StartDate)
	assert.Equal(t, "2024-03-11", client.calls[0].EndDate)
}

func TestFetchSubTotals_Sub1VazioViraPlaceholder(t *testing.T) {
	client := &fakeClient{
		envelopes: []*tunedomain.Envelope{
			envelopeWith(1, statRow("", "3", "14.1")),
		},
		errs: []error{nil},
	}
	service := New(&config.Config{}, client)

	totals, err := service.FetchSubTotals(testWindow())
	assert.NoError(t, err)
	assert.Len(t, totals, 1)
	assert.Equal(t, PlaceholderSub1, totals[0].Sub1)
}

func TestFetchSubTotals_RetentaSemSegmentacao(t *testing.T) {
	client := &fakeClient{
		envelopes: []*tunedomain.Envelope{
			envelopeWith(0), // segmentada recusada
			envelopeWith(1,
				statRow("", "7", "32.9"),
				statRow("", "3", "14.1"),
			),
		},
		errs: []error{nil, nil},
	}
	service := New(&config.Config{}, client)

	totals, err := service.FetchSubTotals(testWindow())
	assert.NoError(t, err)

	// Totais sem segmentação são somados e atribuídos ao sub1 de contingência
	assert.Len(t, totals, 1)
	assert.Equal(t, PlaceholderSub1, totals[0].Sub1)
	assert.Equal(t, 10, totals[0].Leads)
	assert.InDelta(t, 47.0, totals[0].Revenue, 0.001)

	// Segunda chamada sem groups[]
	assert.Len(t, client.calls, 2)
	assert.Empty(t, client.calls[1].Group)
}

func TestFetchSubTotals_FalhaTotal(t *testing.T) {
	client := &fakeClient{
		envelopes: []*tunedomain.Envelope{
			envelopeWith(0),
			envelopeWith(0),
		},
		errs: []error{nil, nil},
	}
	service := New(&config.Config{}, client)

	_, err := service.FetchSubTotals(testWindow())
	assert.ErrorIs(t, err, ErrPartialFailure)
}

func TestFetchSubTotals_ValoresNaoNumericosViramZero(t *testing.T) {
	client := &fakeClient{
		envelopes: []*tunedomain.Envelope{
			envelopeWith(1, statRow("joao", "n/a", "n/a")),
		},
		errs: []error{nil},
	}
	service := New(&config.Config{}, client)

	totals, err := service.FetchSubTotals(testWindow())
	assert.NoError(t, err)
	assert.Equal(t, 0, totals[0].Leads)
	assert.Zero(t, totals[0].Revenue)
}
