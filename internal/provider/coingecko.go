package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

var coinGeckoSpotFields = []string{"usd", "usd_price"}

// CoinGecko fetches the bitcoin spot price and daily price history from the
// CoinGecko free API. Paced to 8 requests per minute.
type CoinGecko struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	pacer   *CallPacer
	now     func() time.Time
}

func NewCoinGecko(fc *fetch.Client, tracer trace.Tracer) *CoinGecko {
	return &CoinGecko{
		fetch:   fc,
		baseURL: coinGeckoBaseURL,
		tracer:  tracer,
		pacer:   NewCallPacer(8, time.Minute),
		now:     time.Now,
	}
}

// FetchBitcoinSpot returns the current bitcoin price in USD.
func (p *CoinGecko) FetchBitcoinSpot(ctx context.Context) (domain.SpotQuote, bool) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-bitcoin-spot")
	defer span.End()

	if err := p.pacer.Wait(ctx); err != nil {
		return domain.SpotQuote{}, false
	}

	url := p.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd"
	body, ok := p.fetch.GetJSON(ctx, "coingecko:spot", url, fetch.Options{
		SoftFailKeys: []string{"status"},
	})
	if !ok {
		return domain.SpotQuote{}, false
	}

	// Response shape: {"bitcoin": {"usd": 97000}}
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.SpotQuote{}, false
	}
	price, ok := pickPrice(raw["bitcoin"], coinGeckoSpotFields)
	if !ok {
		return domain.SpotQuote{}, false
	}

	return domain.SpotQuote{Value: price, AsOf: domain.Day(p.now())}, true
}

// FetchBitcoinHistory fetches market_chart daily prices for the given span
// and downsamples them to one point per calendar month, most recent
// observation winning, truncated to `months`.
func (p *CoinGecko) FetchBitcoinHistory(ctx context.Context, days, months int) (domain.Series, bool) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-bitcoin-history")
	defer span.End()

	if err := p.pacer.Wait(ctx); err != nil {
		return nil, false
	}

	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d&interval=daily", p.baseURL, days)
	body, ok := p.fetch.GetJSON(ctx, "coingecko:history", url, fetch.Options{
		SoftFailKeys: []string{"status"},
	})
	if !ok {
		return nil, false
	}

	var payload struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Prices) == 0 {
		return nil, false
	}

	points := make([]domain.TimePoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		if len(pair) < 2 || pair[1] <= 0 {
			continue
		}
		points = append(points, domain.TimePoint{
			Date:  time.UnixMilli(int64(pair[0])).UTC(),
			Value: pair[1],
		})
	}

	series := domain.DownsampleMonthly(points, months)
	if len(series) == 0 {
		return nil, false
	}
	return series, true
}
