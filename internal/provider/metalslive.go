package provider

import (
	"context"
	"encoding/json"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const metalsLiveBaseURL = "https://api.metals.live"

var (
	metalsLiveGoldFields   = []string{"gold", "au"}
	metalsLiveSilverFields = []string{"silver", "ag"}
)

// MetalsLive is the secondary metal spot provider. Its spot endpoint
// returns an array of one-key objects, one per metal.
type MetalsLive struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewMetalsLive(fc *fetch.Client, tracer trace.Tracer) *MetalsLive {
	return &MetalsLive{
		fetch:   fc,
		baseURL: metalsLiveBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

func (p *MetalsLive) FetchMetals(ctx context.Context) (domain.MetalPair, bool) {
	_, span := p.tracer.Start(ctx, "metals-live.fetch-metals")
	defer span.End()

	body, ok := p.fetch.GetJSON(ctx, "metals.live:spot", p.baseURL+"/v1/spot", fetch.Options{})
	if !ok {
		return domain.MetalPair{}, false
	}

	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return domain.MetalPair{}, false
	}

	// Flatten the per-metal objects into one lookup; later rows win.
	merged := make(map[string]json.RawMessage)
	for _, row := range rows {
		for key, value := range row {
			merged[key] = value
		}
	}

	gold, okGold := pickPrice(merged, metalsLiveGoldFields)
	silver, okSilver := pickPrice(merged, metalsLiveSilverFields)
	if !okGold || !okSilver {
		return domain.MetalPair{}, false
	}

	return domain.MetalPair{
		Gold:   gold,
		Silver: silver,
		Date:   domain.Day(p.now()),
	}, true
}
