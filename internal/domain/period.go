package domain

import (
	"fmt"
	"strings"
	"time"
)

// Tokens de período aceitos pela API. O dia comercial começa às 02:00,
// acompanhando o fechamento diário da rede de afiliados.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "week"
	PeriodMonth     = "month"

	customPeriodPrefix = "custom:"

	// Hora em que o dia comercial vira
	BusinessDayStartHour = 2
)

// InvalidPeriodError indica um período custom malformado. Tokens
// desconhecidos NÃO geram erro: caem em "today" (comportamento herdado
// do painel original, clientes antigos dependem disso).
type InvalidPeriodError struct {
	Token string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("período inválido: %q", e.Token)
}

// TimeWindow é a janela absoluta resolvida a partir de um token de período.
type TimeWindow struct {
	From   time.Time
	To     time.Time
	Custom bool
}

// FormatFrom retorna o início da janela no formato aceito pelos upstreams.
func (w TimeWindow) FormatFrom() string {
	return w.From.Format("2006-01-02 15:04:05")
}

// FormatTo retorna o fim da janela no formato aceito pelos upstreams.
func (w TimeWindow) FormatTo() string {
	return w.To.Format("2006-01-02 15:04:05")
}

// Contains informa se o instante está dentro da janela (inclusivo).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Days retorna a extensão da janela em dias cheios, mínimo 1.
func (w TimeWindow) Days() int {
	d := int(w.To.Sub(w.From).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

// ResolvePeriod converte um token de período na janela absoluta
// correspondente, relativa a now. Resolver o mesmo token duas vezes com o
// mesmo relógio produz a mesma janela.
func ResolvePeriod(token string, now time.Time) (TimeWindow, error) {
	if strings.HasPrefix(token, customPeriodPrefix) {
		return resolveCustomPeriod(token, now.Location())
	}

	// Antes das 02:00 o dia comercial ainda é o dia anterior
	effective := now
	if now.Hour() < BusinessDayStartHour {
		effective = now.AddDate(0, 0, -1)
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	start := day(effective)
	switch token {
	case PeriodYesterday:
		start = start.AddDate(0, 0, -1)
		return windowBetween(start, start), nil
	case PeriodWeek:
		// Segunda-feira da semana comercial corrente
		offset := (int(start.Weekday()) + 6) % 7
		return windowBetween(start.AddDate(0, 0, -offset), day(effective)), nil
	case PeriodMonth:
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		return windowBetween(first, day(effective)), nil
	default:
		// today e qualquer token desconhecido
		return windowBetween(start, start), nil
	}
}

// windowBetween monta a janela comercial [start 02:00:00, end+1d 01:59:59].
func windowBetween(start, end time.Time) TimeWindow {
	from := start.Add(BusinessDayStartHour * time.Hour)
	to := end.AddDate(0, 0, 1).Add(BusinessDayStartHour*time.Hour - time.Second)
	return TimeWindow{From: from, To: to}
}

// resolveCustomPeriod interpreta "custom:<yyyy-mm-dd>:<yyyy-mm-dd>".
// Janelas custom não sofrem o deslocamento de dia comercial: começam às
// 02:00:00 da data inicial e terminam às 23:59:59 da data final.
func resolveCustomPeriod(token string, loc *time.Location) (TimeWindow, error) {
	parts := strings.Split(strings.TrimPrefix(token, customPeriodPrefix), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TimeWindow{}, &InvalidPeriodError{Token: token}
	}

	start, err := time.ParseInLocation("2006-01-02", parts[0], loc)
	if err != nil {
		return TimeWindow{}, &InvalidPeriodError{Token: token}
	}
	end, err := time.ParseInLocation("2006-01-02", parts[1], loc)
	if err != nil {
		return TimeWindow{}, &InvalidPeriodError{Token: token}
	}
	if end.Before(start) {
		return TimeWindow{}, &InvalidPeriodError{Token: token}
	}

	return TimeWindow{
		From:   start.Add(BusinessDayStartHour * time.Hour),
		To:     end.Add(24*time.Hour - time.Second),
		Custom: true,
	}, nil
}
