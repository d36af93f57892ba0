package domain

// SummaryRequest é o corpo da consulta de resumo do painel do Everflow.
type SummaryRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	TimezoneID int    `json:"timezone_id"`
}

type SummaryMetric struct {
	Today     int `json:"today"`
	Yesterday int `json:"yesterday"`
}

type SummaryMoneyMetric struct {
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
}

type SummaryResponse struct {
	Click      SummaryMetric      `json:"click"`
	Conversion SummaryMetric      `json:"conversion"`
	Revenue    SummaryMoneyMetric `json:"revenue"`
}
