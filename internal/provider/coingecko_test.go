package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"macro-snapshot/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeFetch(fn roundTripFunc) *fetch.Client {
	return fetch.New(&http.Client{Transport: fn})
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func TestCoinGeckoFetchBitcoinSpot(t *testing.T) {
	t.Parallel()

	p := NewCoinGecko(fakeFetch(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/simple/price") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"bitcoin":{"usd":97000.5}}`), nil
	}), noopTracer())
	p.baseURL = "http://example"
	p.pacer = NewCallPacer(10, time.Millisecond)
	p.now = func() time.Time { return time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC) }

	spot, ok := p.FetchBitcoinSpot(context.Background())
	if !ok || spot.Value != 97000.5 {
		t.Fatalf("unexpected spot: %+v ok=%v", spot, ok)
	}
	if !spot.AsOf.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected day-precision asOf, got %v", spot.AsOf)
	}
}

func TestCoinGeckoFetchBitcoinSpotAlternateField(t *testing.T) {
	t.Parallel()

	p := NewCoinGecko(fakeFetch(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"bitcoin":{"usd_price":96000}}`), nil
	}), noopTracer())
	p.baseURL = "http://example"
	p.pacer = NewCallPacer(10, time.Millisecond)

	spot, ok := p.FetchBitcoinSpot(context.Background())
	if !ok || spot.Value != 96000 {
		t.Fatalf("expected alternate field to win, got %+v ok=%v", spot, ok)
	}
}

func TestCoinGeckoFetchBitcoinSpotErrorEnvelope(t *testing.T) {
	t.Parallel()

	p := NewCoinGecko(fakeFetch(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":{"error_code":429,"error_message":"You've exceeded the Rate Limit"}}`), nil
	}), noopTracer())
	p.baseURL = "http://example"
	p.pacer = NewCallPacer(10, time.Millisecond)

	if _, ok := p.FetchBitcoinSpot(context.Background()); ok {
		t.Fatal("expected rate-limit envelope to be classified as absence")
	}
}

func TestCoinGeckoFetchBitcoinHistory(t *testing.T) {
	t.Parallel()

	prices := [][]float64{
		{float64(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC).UnixMilli()), 90000},
		{float64(time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC).UnixMilli()), 91000},
		{float64(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC).UnixMilli()), 95000},
		{float64(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC).UnixMilli()), 94000},
	}
	payload, _ := json.Marshal(map[string]any{"prices": prices})

	p := NewCoinGecko(fakeFetch(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/bitcoin/market_chart") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, string(payload)), nil
	}), noopTracer())
	p.baseURL = "http://example"
	p.pacer = NewCallPacer(10, time.Millisecond)

	series, ok := p.FetchBitcoinHistory(context.Background(), 365, 24)
	if !ok {
		t.Fatal("expected history")
	}
	if len(series) != 2 {
		t.Fatalf("expected one point per month, got %+v", series)
	}
	if series[0].Value != 91000 || series[1].Value != 95000 {
		t.Fatalf("expected last observation per month, got %+v", series)
	}
}
