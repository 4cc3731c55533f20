package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
)

// APIKeyHeader carries the caller's classifier key.
const APIKeyHeader = "x-timeline-ai-key"

// HTTPClient calls the classification endpoint over HTTP.
type HTTPClient struct {
	url     string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPClient builds a client for url. Each call is bounded by timeout.
func NewHTTPClient(url, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url:     url,
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type request struct {
	Entries []Input `json:"entries"`
}

type response struct {
	Results []Result `json:"results"`
	Error   string   `json:"error"`
}

func (c *HTTPClient) Classify(ctx context.Context, entries []Input) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if len(entries) == 0 {
		return nil, nil
	}
	if len(entries) > common.ClassifierMaxBatch {
		return nil, fmt.Errorf("%d entries: %w", len(entries), common.ErrBatchTooLarge)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(request{Entries: entries})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("classifier read: %w", err)
	}

	var out response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != "" {
			return nil, fmt.Errorf("classifier: %s (status %d)", out.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("classifier decode: %w", decodeErr)
	}
	if len(out.Results) != len(entries) {
		return nil, fmt.Errorf("classifier: expected %d results, got %d", len(entries), len(out.Results))
	}

	for i := range out.Results {
		if out.Results[i].ID == "" {
			out.Results[i].ID = entries[i].ID
		}
	}
	return out.Results, nil
}

// IsRateLimited reports whether err is a 429 from the service.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Ready reports ErrNoAPIKey when the client cannot make calls.
func (c *HTTPClient) Ready() error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
