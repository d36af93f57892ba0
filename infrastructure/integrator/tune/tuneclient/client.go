package tuneclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tunedomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
)

type Client interface {
	GetStats(params StatsParams) (*tunedomain.Envelope, error)
}

type TuneClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &TuneClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Tune.RequestTimeoutSeconds) * time.Second,
		},
	}
}

type StatsParams struct {
	StartDate string
	EndDate   string
	Fields    []string
	Group     []string
}

func (c *TuneClient) GetStats(params StatsParams) (*tunedomain.Envelope, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	// Construir a URL da requisição.
	endpoint, err := url.Parse(c.Cfg.Tune.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}

	// Adicionar parâmetros de consulta.
	query := endpoint.Query()
	query.Set("Target", "Affiliate_Report")
	query.Set("Method", "getStats")
	query.Set("api_key", c.Cfg.Tune.APIKey)
	query.Set("start_date", params.StartDate)
	query.Set("end_date", params.EndDate)
	for _, field := range params.Fields {
		query.Add("fields[]", field)
	}
	for _, group := range params.Group {
		query.Add("groups[]", group)
	}
	endpoint.RawQuery = query.Encode()

	// Criar a requisição HTTP.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// Executar a requisição.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	// Verificar o código de status da resposta.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	// Decodificar a resposta JSON.
	var envelope tunedomain.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return &envelope, nil
}
