package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"macro-snapshot/internal/domain"
	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// FunctionGold is the Alpha Vantage function name for the gold price series.
const FunctionGold = "GOLD"

// Alpha Vantage wraps quota exhaustion and errors in 200 responses.
var alphaVantageSoftFail = []string{"Note", "Information", "Error Message"}

// AlphaVantage fetches monthly commodity history. Keyed provider; the free
// tier is tightly quota-limited, so calls are paced.
type AlphaVantage struct {
	fetch   *fetch.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	pacer   *CallPacer
}

func NewAlphaVantage(fc *fetch.Client, tracer trace.Tracer, apiKey string) *AlphaVantage {
	return &AlphaVantage{
		fetch:   fc,
		baseURL: alphaVantageBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		pacer:   NewCallPacer(5, time.Minute),
	}
}

// FetchMonthly returns the named function's monthly series, ascending,
// truncated to the most recent months. Non-numeric and non-positive rows
// are discarded.
func (p *AlphaVantage) FetchMonthly(ctx context.Context, function string, months int) (domain.Series, bool) {
	_, span := p.tracer.Start(ctx, "alphavantage.fetch-monthly")
	defer span.End()

	if err := p.pacer.Wait(ctx); err != nil {
		log.Printf("alphavantage %s: pacing wait: %v", function, err)
		return nil, false
	}

	url := fmt.Sprintf("%s/query?function=%s&interval=monthly&apikey=%s", p.baseURL, function, p.apiKey)
	body, ok := p.fetch.GetJSON(ctx, "alphavantage:"+function, url, fetch.Options{
		SoftFailKeys: alphaVantageSoftFail,
	})
	if !ok {
		return nil, false
	}

	var payload struct {
		Data []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Data) == 0 {
		return nil, false
	}

	points := make([]domain.TimePoint, 0, len(payload.Data))
	for _, row := range payload.Data {
		value := parseFloatString(row.Value)
		if value <= 0 {
			continue
		}
		date, err := time.Parse(domain.DateLayout, row.Date)
		if err != nil {
			continue
		}
		points = append(points, domain.TimePoint{Date: date, Value: value})
	}

	series := domain.NormalizeSeries(points).Tail(months)
	if len(series) == 0 {
		return nil, false
	}
	return series, true
}
