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

const fredBaseURL = "https://api.stlouisfed.org"

// FRED series identifiers for the tracked economic metrics.
const (
	SeriesM2  = "M2SL"
	SeriesCPI = "CPIAUCSL"
	SeriesHPI = "CSUSHPINSA"
)

// fredMissingValue marks a missing observation inside an otherwise valid
// observations array.
const fredMissingValue = "."

// FRED fetches economic series observations from the St. Louis Fed API.
type FRED struct {
	fetch   *fetch.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewFRED(fc *fetch.Client, tracer trace.Tracer, apiKey string) *FRED {
	return &FRED{
		fetch:   fc,
		baseURL: fredBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

// FetchSeries returns up to limit observations of the named series,
// ascending by date. Missing-value sentinels are dropped; any failure
// reports absence.
func (p *FRED) FetchSeries(ctx context.Context, seriesID string, limit int) (domain.Series, bool) {
	_, span := p.tracer.Start(ctx, "fred.fetch-series")
	defer span.End()

	url := fmt.Sprintf("%s/fred/series/observations?series_id=%s&api_key=%s&file_type=json&sort_order=desc&limit=%d",
		p.baseURL, seriesID, p.apiKey, limit)

	body, ok := p.fetch.GetJSON(ctx, "fred:"+seriesID, url, fetch.Options{
		SoftFailKeys: []string{"error_code"},
	})
	if !ok {
		return nil, false
	}

	var payload struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Observations) == 0 {
		return nil, false
	}

	points := make([]domain.TimePoint, 0, len(payload.Observations))
	for _, obs := range payload.Observations {
		if obs.Value == fredMissingValue {
			continue
		}
		value := parseFloatString(obs.Value)
		if value == 0 && obs.Value != "0" {
			continue
		}
		date, err := time.Parse(domain.DateLayout, obs.Date)
		if err != nil {
			continue
		}
		points = append(points, domain.TimePoint{Date: date, Value: value})
	}

	series := domain.NormalizeSeries(points).Tail(limit)
	if len(series) == 0 {
		return nil, false
	}
	return series, true
}
