package provider

import (
	"context"
	"encoding/json"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const erAPIBaseURL = "https://open.er-api.com"

// ERAPI fetches current USD-base exchange rates from open.er-api.com.
// All rates are quoted foreign-per-USD.
type ERAPI struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewERAPI(fc *fetch.Client, tracer trace.Tracer) *ERAPI {
	return &ERAPI{
		fetch:   fc,
		baseURL: erAPIBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

// FetchRates returns the fixed currency basket, or absence if any basket
// member is missing or non-positive. Partial baskets are useless to the
// index calculator, so they are not forwarded.
func (p *ERAPI) FetchRates(ctx context.Context) (domain.FxBasket, bool) {
	_, span := p.tracer.Start(ctx, "er-api.fetch-rates")
	defer span.End()

	body, ok := p.fetch.GetJSON(ctx, "er-api:USD", p.baseURL+"/v6/latest/USD", fetch.Options{
		SoftFailKeys: []string{"error-type"},
	})
	if !ok {
		return domain.FxBasket{}, false
	}

	var payload struct {
		Result             string             `json:"result"`
		TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
		Rates              map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.FxBasket{}, false
	}
	if payload.Result != "success" || payload.Rates == nil {
		return domain.FxBasket{}, false
	}

	rates := make(map[string]float64, len(domain.BasketCurrencies))
	for _, code := range domain.BasketCurrencies {
		rate, ok := payload.Rates[code]
		if !ok || rate <= 0 {
			return domain.FxBasket{}, false
		}
		rates[code] = rate
	}

	asOf := domain.Day(p.now())
	if payload.TimeLastUpdateUnix > 0 {
		asOf = domain.Day(time.Unix(payload.TimeLastUpdateUnix, 0))
	}

	return domain.FxBasket{Rates: rates, AsOf: asOf}, true
}
