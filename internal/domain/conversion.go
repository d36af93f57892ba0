package domain

import "time"

// ConversionRecord é uma conversão individual normalizada, independente do
// upstream que a originou.
type ConversionRecord struct {
	Sub1       string    `json:"sub1"`
	OccurredAt time.Time `json:"occurred_at"`
	Payout     float64   `json:"payout"`
	OfferName  string    `json:"offer_name,omitempty"`
}

// AggregatedSubTotal é o total agregado de um sub1 dentro de uma janela,
// já com as regras de fase aplicadas.
type AggregatedSubTotal struct {
	Sub1    string  `json:"sub1"`
	Leads   int     `json:"leads"`
	Revenue float64 `json:"revenue"`
}

// TrafficSummary é o resumo rápido do painel retornado pelo upstream
// primário (hoje + ontem).
type TrafficSummary struct {
	ClicksToday          int     `json:"clicks_today"`
	ClicksYesterday      int     `json:"clicks_yesterday"`
	ConversionsToday     int     `json:"conversions_today"`
	ConversionsYesterday int     `json:"conversions_yesterday"`
	RevenueToday         float64 `json:"revenue_today"`
	RevenueYesterday     float64 `json:"revenue_yesterday"`
}
