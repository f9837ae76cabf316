package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestFREDFetchSeries(t *testing.T) {
	t.Parallel()

	body := `{"observations":[
		{"date":"2025-03-01","value":"21900.1"},
		{"date":"2025-02-01","value":"."},
		{"date":"2025-01-01","value":"21750.4"}
	]}`

	var gotQuery string
	p := NewFRED(fakeFetch(func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.RawQuery
		return jsonResponse(http.StatusOK, body), nil
	}), noopTracer(), "test-key")
	p.baseURL = "http://example"

	series, ok := p.FetchSeries(context.Background(), SeriesM2, 300)
	if !ok {
		t.Fatal("expected series")
	}
	if len(series) != 2 {
		t.Fatalf("expected missing-value sentinel dropped, got %+v", series)
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Fatalf("expected ascending order, got %+v", series)
	}
	if series[0].Value != 21750.4 || series[1].Value != 21900.1 {
		t.Fatalf("unexpected values: %+v", series)
	}
	for _, part := range []string{"series_id=M2SL", "api_key=test-key", "sort_order=desc", "limit=300"} {
		if !strings.Contains(gotQuery, part) {
			t.Fatalf("expected %s in query %s", part, gotQuery)
		}
	}
}

func TestFREDFetchSeriesNoObservations(t *testing.T) {
	t.Parallel()

	p := NewFRED(fakeFetch(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"count":0}`), nil
	}), noopTracer(), "test-key")
	p.baseURL = "http://example"

	if _, ok := p.FetchSeries(context.Background(), SeriesCPI, 300); ok {
		t.Fatal("expected absence when observations are missing")
	}
}

func TestFREDFetchSeriesBadStatus(t *testing.T) {
	t.Parallel()

	p := NewFRED(fakeFetch(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error_code":400,"error_message":"Bad Request"}`), nil
	}), noopTracer(), "")
	p.baseURL = "http://example"

	if _, ok := p.FetchSeries(context.Background(), SeriesHPI, 300); ok {
		t.Fatal("expected absence on error status")
	}
}

func TestFREDFetchSeriesAllSentinels(t *testing.T) {
	t.Parallel()

	p := NewFRED(fakeFetch(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"observations":[{"date":"2025-01-01","value":"."}]}`), nil
	}), noopTracer(), "test-key")
	p.baseURL = "http://example"

	if _, ok := p.FetchSeries(context.Background(), SeriesM2, 300); ok {
		t.Fatal("expected absence when every observation is a sentinel")
	}
}
