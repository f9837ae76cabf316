package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeClient(status int, body string) *Client {
	return New(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	})})
}

func TestGetJSONSuccess(t *testing.T) {
	c := fakeClient(http.StatusOK, `{"value": 42}`)
	body, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{})
	if !ok {
		t.Fatal("expected success")
	}
	if string(body) != `{"value": 42}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestGetJSONNonOKStatus(t *testing.T) {
	c := fakeClient(http.StatusTooManyRequests, `{"value": 42}`)
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{}); ok {
		t.Fatal("expected absence on non-2xx status")
	}
}

func TestGetJSONTransportError(t *testing.T) {
	c := New(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})})
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{}); ok {
		t.Fatal("expected absence on transport error")
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	c := fakeClient(http.StatusOK, `{"value": `)
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{}); ok {
		t.Fatal("expected absence on malformed body")
	}
}

func TestGetJSONSoftFailure(t *testing.T) {
	body := `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`
	c := fakeClient(http.StatusOK, body)

	opts := Options{SoftFailKeys: []string{"Note", "Information", "Error Message"}}
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", opts); ok {
		t.Fatal("expected rate-limit note to be classified as absence")
	}

	// The same body with no marker list configured is valid JSON.
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{}); !ok {
		t.Fatal("expected success without marker keys")
	}
}

func TestGetJSONSoftFailureIgnoresArrays(t *testing.T) {
	c := fakeClient(http.StatusOK, `[{"Note": "x"}]`)
	opts := Options{SoftFailKeys: []string{"Note"}}
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", opts); !ok {
		t.Fatal("marker keys apply to top-level objects only")
	}
}

func TestGetJSONSendsHeaders(t *testing.T) {
	var gotAccept, gotKey string
	c := New(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotAccept = req.Header.Get("Accept")
		gotKey = req.Header.Get("X-Api-Key")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{}`)),
			Header:     make(http.Header),
		}, nil
	})})

	header := http.Header{}
	header.Set("X-Api-Key", "secret")
	if _, ok := c.GetJSON(context.Background(), "test", "http://example/x", Options{Header: header}); !ok {
		t.Fatal("expected success")
	}
	if gotAccept != "application/json" || gotKey != "secret" {
		t.Fatalf("unexpected headers: accept=%q key=%q", gotAccept, gotKey)
	}
}
