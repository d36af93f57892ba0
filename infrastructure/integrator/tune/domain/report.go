package domain

// Envelope é o invólucro padrão das respostas da API TUNE/HasOffers.
// status != 1 indica falha lógica mesmo com HTTP 200.
type Envelope struct {
	Response struct {
		Status int `json:"status"`
		Data   struct {
			Data []StatRow `json:"data"`
		} `json:"data"`
		Errors []APIError `json:"errors"`
	} `json:"response"`
}

type APIError struct {
	PublicMessage string `json:"publicMessage"`
	Message       string `json:"err_msg"`
}

// StatRow é uma linha do relatório agregado. A API devolve números como
// texto, a conversão fica por conta do serviço.
type StatRow struct {
	Stat Stat `json:"Stat"`
}

type Stat struct {
	AffiliateInfo1 string `json:"affiliate_info1"`
	Conversions    string `json:"conversions"`
	Payout         string `json:"payout"`
}
