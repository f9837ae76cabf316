package provider

import (
	"context"
	"encoding/json"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const goldAPIBaseURL = "https://api.gold-api.com"

// Price field candidates across observed gold-api response revisions.
var goldAPIPriceFields = []string{"price", "ask", "rate"}

// GoldAPI fetches gold and silver spot prices from gold-api.com.
type GoldAPI struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewGoldAPI(fc *fetch.Client, tracer trace.Tracer) *GoldAPI {
	return &GoldAPI{
		fetch:   fc,
		baseURL: goldAPIBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

// FetchMetals returns both metal spots from one provider, or absence if
// either is unavailable. The pair always carries a single provenance.
func (p *GoldAPI) FetchMetals(ctx context.Context) (domain.MetalPair, bool) {
	_, span := p.tracer.Start(ctx, "gold-api.fetch-metals")
	defer span.End()

	gold, ok := p.fetchSymbol(ctx, "XAU")
	if !ok {
		return domain.MetalPair{}, false
	}
	silver, ok := p.fetchSymbol(ctx, "XAG")
	if !ok {
		return domain.MetalPair{}, false
	}

	return domain.MetalPair{
		Gold:   gold,
		Silver: silver,
		Date:   domain.Day(p.now()),
	}, true
}

func (p *GoldAPI) fetchSymbol(ctx context.Context, symbol string) (float64, bool) {
	body, ok := p.fetch.GetJSON(ctx, "gold-api:"+symbol, p.baseURL+"/price/"+symbol, fetch.Options{})
	if !ok {
		return 0, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, false
	}
	return pickPrice(obj, goldAPIPriceFields)
}
