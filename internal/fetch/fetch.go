package fetch

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound call; a timed-out call degrades to
// absence, it is never retried within a run.
const DefaultTimeout = 20 * time.Second

// Client issues single JSON GET requests and reports failure as absence.
// Transport errors, non-2xx statuses, malformed bodies and provider
// soft-failure envelopes all collapse to (nil, false); callers never see an
// error cross this boundary.
type Client struct {
	httpClient *http.Client
}

// Options adjusts one call: extra request headers and the ordered list of
// top-level keys whose presence marks a soft failure (rate-limit notes,
// error envelopes) inside an otherwise-200 response.
type Options struct {
	Header       http.Header
	SoftFailKeys []string
}

// New wraps the given http.Client; nil gets a client with DefaultTimeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{httpClient: httpClient}
}

// GetJSON performs one GET and returns the raw JSON body. The label tags the
// single diagnostic line emitted per call.
func (c *Client) GetJSON(ctx context.Context, label, url string, opts Options) (json.RawMessage, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("fetch %s: build request: %v", label, err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("fetch %s: transport: %v", label, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("fetch %s: status %d", label, resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("fetch %s: read body: %v", label, err)
		return nil, false
	}

	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		log.Printf("fetch %s: malformed body: %v", label, err)
		return nil, false
	}

	if key, soft := softFailure(body, opts.SoftFailKeys); soft {
		log.Printf("fetch %s: soft failure (%s)", label, key)
		return nil, false
	}

	log.Printf("fetch %s: ok (%d bytes)", label, len(body))
	return body, true
}

func softFailure(body []byte, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		// Non-object bodies cannot carry a marker key.
		return "", false
	}
	for _, key := range keys {
		if _, ok := obj[key]; ok {
			return key, true
		}
	}
	return "", false
}
