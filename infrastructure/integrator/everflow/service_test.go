package everflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	everflowdomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// fakeClient devolve páginas pré-montadas conforme o número da página
type fakeClient struct {
	pages      map[int][]everflowdomain.Conversion
	err        error
	requests   []*everflowdomain.ConversionsRequest
	summary    *everflowdomain.SummaryResponse
	summaryErr error
}

func (f *fakeClient) GetConversions(req *everflowdomain.ConversionsRequest) (*everflowdomain.ConversionsResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &everflowdomain.ConversionsResponse{Conversions: f.pages[req.Page]}, nil
}

func (f *fakeClient) GetDashboardSummary(req *everflowdomain.SummaryRequest) (*everflowdomain.SummaryResponse, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &everflowdomain.SummaryResponse{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Everflow: config.Everflow{
			TimezoneID:      67,
			PageLimit:       2,
			CustomPageLimit: 10,
			MaxPages:        3,
		},
	}
}

func standardWindow() domain.TimeWindow {
	return domain.TimeWindow{
		From: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 11, 1, 59, 59, 0, time.UTC),
	}
}

func conv(sub1 string, at time.Time) everflowdomain.Conversion {
	return everflowdomain.Conversion{
		Sub1:                    sub1,
		ConversionUnixTimestamp: at.Unix(),
		Payout:                  2.0,
	}
}

func TestFetchConversions_PaginaAteAPaginaCurta(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	client := &fakeClient{
		pages: map[int][]everflowdomain.Conversion{
			1: {conv("joao", at), conv("maria", at)},
			2: {conv("joao", at)}, // página curta encerra a varredura
		},
	}
	service := New(testConfig(), client)

	records, err := service.FetchConversions(standardWindow(), nil)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Len(t, client.requests, 2)

	assert.Equal(t, 67, client.requests[0].TimezoneID)
	assert.Equal(t, 2, client.requests[0].PageSize)
	assert.True(t, client.requests[0].ShowConversions)
	assert.False(t, client.requests[0].ShowEvents)
}

func TestFetchConversions_RespeitaTetoDePaginas(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	full := []everflowdomain.Conversion{conv("joao", at), conv("joao", at)}
	client := &fakeClient{
		pages: map[int][]everflowdomain.Conversion{1: full, 2: full, 3: full, 4: full},
	}
	service := New(testConfig(), client)

	records, err := service.FetchConversions(standardWindow(), nil)
	assert.NoError(t, err)

	// Para no teto de 3 páginas mesmo com mais dados disponíveis
	assert.Len(t, client.requests, 3)
	assert.Len(t, records, 6)
}

func TestFetchConversions_JanelaCustomUsaPaginaUnica(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	full := make([]everflowdomain.Conversion, 10)
	for i := range full {
		full[i] = conv("joao", at)
	}
	client := &fakeClient{
		pages: map[int][]everflowdomain.Conversion{1: full, 2: full},
	}
	service := New(testConfig(), client)

	window := standardWindow()
	window.Custom = true

	records, err := service.FetchConversions(window, nil)
	assert.NoError(t, err)

	// Janela custom: uma única página grande, sem paginação
	assert.Len(t, client.requests, 1)
	assert.Equal(t, 10, client.requests[0].PageSize)
	assert.Len(t, records, 10)
}

func TestFetchConversions_ReaplicaFiltroDeSub1(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	client := &fakeClient{
		pages: map[int][]everflowdomain.Conversion{
			// O upstream devolveu sub1 alheio mesmo com filtro server-side
			1: {conv("joao", at), conv("intruso", at)},
		},
	}
	service := New(testConfig(), client)

	records, err := service.FetchConversions(standardWindow(), []string{"joao"})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "joao", records[0].Sub1)
}

func TestFetchConversions_ErroDoUpstream(t *testing.T) {
	client := &fakeClient{err: ErrUnavailable}
	service := New(testConfig(), client)

	_, err := service.FetchConversions(standardWindow(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDashboardSummary_MapeiaResumo(t *testing.T) {
	client := &fakeClient{
		summary: &everflowdomain.SummaryResponse{
			Click:      everflowdomain.SummaryMetric{Today: 1200, Yesterday: 900},
			Conversion: everflowdomain.SummaryMetric{Today: 80, Yesterday: 60},
			Revenue:    everflowdomain.SummaryMoneyMetric{Today: 376.0, Yesterday: 282.0},
		},
	}
	service := New(testConfig(), client)

	summary, err := service.DashboardSummary(standardWindow())
	assert.NoError(t, err)
	assert.Equal(t, 1200, summary.ClicksToday)
	assert.Equal(t, 900, summary.ClicksYesterday)
	assert.Equal(t, 80, summary.ConversionsToday)
	assert.Equal(t, 60, summary.ConversionsYesterday)
	assert.InDelta(t, 376.0, summary.RevenueToday, 0.001)
	assert.InDelta(t, 282.0, summary.RevenueYesterday, 0.001)
}

func TestDashboardSummary_ErroDoUpstream(t *testing.T) {
	client := &fakeClient{summaryErr: ErrUnavailable}
	service := New(testConfig(), client)

	_, err := service.DashboardSummary(standardWindow())
	assert.ErrorIs(t, err, ErrUnavailable)
}
