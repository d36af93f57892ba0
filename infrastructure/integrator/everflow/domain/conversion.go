package domain

// ConversionsRequest é o corpo do relatório de conversões do Everflow.
type ConversionsRequest struct {
	From            string `json:"from"`
	To              string `json:"to"`
	TimezoneID      int    `json:"timezone_id"`
	ShowConversions bool   `json:"show_conversions"`
	ShowEvents      bool   `json:"show_events"`
	Page            int    `json:"page"`
	PageSize        int    `json:"limit"`
}

type Conversion struct {
	ConversionID            string        `json:"conversion_id"`
	Sub1                    string        `json:"sub1"`
	ConversionUnixTimestamp int64         `json:"conversion_unix_timestamp"`
	Payout                  float64       `json:"payout"`
	Relationship            *Relationship `json:"relationship,omitempty"`
}

type Relationship struct {
	Offer *Offer `json:"offer,omitempty"`
}

type Offer struct {
	Name string `json:"name"`
}

type ConversionsResponse struct {
	Conversions []Conversion `json:"conversions"`
}
