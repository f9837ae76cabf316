package provider

import (
	"context"
	"encoding/json"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const coinCapBaseURL = "https://api.coincap.io"

var coinCapPriceFields = []string{"priceUsd", "price"}

// CoinCap is the secondary bitcoin spot provider. Prices arrive as decimal
// strings inside a data envelope.
type CoinCap struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewCoinCap(fc *fetch.Client, tracer trace.Tracer) *CoinCap {
	return &CoinCap{
		fetch:   fc,
		baseURL: coinCapBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

func (p *CoinCap) FetchBitcoinSpot(ctx context.Context) (domain.SpotQuote, bool) {
	_, span := p.tracer.Start(ctx, "coincap.fetch-bitcoin-spot")
	defer span.End()

	body, ok := p.fetch.GetJSON(ctx, "coincap:spot", p.baseURL+"/v2/assets/bitcoin", fetch.Options{
		SoftFailKeys: []string{"error"},
	})
	if !ok {
		return domain.SpotQuote{}, false
	}

	var payload struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data == nil {
		return domain.SpotQuote{}, false
	}

	price, ok := pickPrice(payload.Data, coinCapPriceFields)
	if !ok {
		return domain.SpotQuote{}, false
	}

	return domain.SpotQuote{Value: price, AsOf: domain.Day(p.now())}, true
}
