package everflowclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	everflowdomain "github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnavailable indica falha de rede ou resposta não-2xx do Everflow.
// Os consumidores degradam para as fontes de fallback ao vê-lo.
var ErrUnavailable = errors.New("everflow indisponível")

type Client interface {
	GetConversions(req *everflowdomain.ConversionsRequest) (*everflowdomain.ConversionsResponse, error)
	GetDashboardSummary(req *everflowdomain.SummaryRequest) (*everflowdomain.SummaryResponse, error)
}

type EverflowClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &EverflowClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Everflow.RequestTimeoutSeconds) * time.Second,
		},
	}
}

func (c *EverflowClient) GetConversions(req *everflowdomain.ConversionsRequest) (*everflowdomain.ConversionsResponse, error) {
	body, err := c.post("/affiliates/reporting/conversions", req)
	if err != nil {
		return nil, err
	}

	var response everflowdomain.ConversionsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar resposta de conversões do Everflow")
		return nil, err
	}

	return &response, nil
}

func (c *EverflowClient) GetDashboardSummary(req *everflowdomain.SummaryRequest) (*everflowdomain.SummaryResponse, error) {
	body, err := c.post("/affiliates/dashboard/summary", req)
	if err != nil {
		return nil, err
	}

	var response everflowdomain.SummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar resumo do painel do Everflow")
		return nil, err
	}

	return &response, nil
}

func (c *EverflowClient) post(path string, payload any) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := c.Cfg.Everflow.BaseURL + path

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Eflow-API-Key", c.Cfg.Everflow.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição ao Everflow")
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, path)
}

func (c *EverflowClient) handleResponse(resp *http.Response, path string) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"path":        path,
		}).Error("Everflow respondeu com erro")
		return nil, errors.Wrap(ErrUnavailable, fmt.Sprintf("status %d em %s", resp.StatusCode, path))
	}

	return body, nil
}
