// Package predict calls the external stock prediction service and stitches
// its forecast onto synthesized historical data.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/metrics"
)

// DefaultURL is the public prediction service endpoint.
const DefaultURL = "https://stockpricepredictorapi.onrender.com/predict"

// UpstreamError is returned when the prediction service responds with a
// non-success status.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("prediction upstream returned %d: %s", e.Status, e.Body)
}

// Client calls the external prediction API. The whole call is bounded by
// the configured timeout; on failure no partial result is produced.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a prediction client. An empty url selects DefaultURL.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
}

type predictResponse struct {
	Prediction []float64 `json:"prediction"`
}

// Predict requests a days-long forecast for ticker and returns the
// predicted absolute prices.
func (c *Client) Predict(ctx context.Context, ticker string, days int) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Ticker: ticker, Days: days})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Capture a short excerpt of the error body for the logs.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(excerpt)}
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid prediction response: %w", err)
	}
	if len(out.Prediction) == 0 {
		return nil, errors.New("upstream returned empty prediction")
	}

	return out.Prediction, nil
}
