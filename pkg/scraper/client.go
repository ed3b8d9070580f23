// Package scraper is a client for the scraper microservice that fronts the
// labor guide, the OEM parts catalog and vendor pricing sites.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/estimaro/estimator/internal/resilience"
)

const (
	apiKeyHeader    = "X-API-Key"
	maxErrorBodyLen = 512
)

// ErrUnavailable wraps every failure reported by the service itself
// (success=false).
var ErrUnavailable = eris.New("scraper: request unsuccessful")

// Client performs scraper service operations.
type Client interface {
	Labor(ctx context.Context, vin, jobDescription string) (*LaborResponse, error)
	Parts(ctx context.Context, vin, jobDescription string) (*PartsResponse, error)
	Pricing(ctx context.Context, partNumbers []string) (*PricingResponse, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

type jobRequest struct {
	VIN            string `json:"vin"`
	JobDescription string `json:"job_description"`
}

type pricingRequest struct {
	PartNumbers []string `json:"part_numbers"`
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LaborResponse is the labor-guide lookup result.
type LaborResponse struct {
	envelope
	LaborHours     decimal.Decimal `json:"labor_hours"`
	JobDescription string          `json:"job_description,omitempty"`
	Source         string          `json:"source,omitempty"`
}

// Part is one catalog hit.
type Part struct {
	PartNumber   string `json:"part_number"`
	Description  string `json:"description"`
	Manufacturer string `json:"manufacturer,omitempty"`
	IsOEM        bool   `json:"is_oem"`
}

// PartsResponse is the parts-catalog search result.
type PartsResponse struct {
	envelope
	Parts []Part `json:"parts"`
}

// Price is one vendor quote for one part number.
type Price struct {
	Vendor      string          `json:"vendor"`
	PartNumber  string          `json:"part_number"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	StockStatus string          `json:"stock_status,omitempty"`
	Warehouse   string          `json:"warehouse,omitempty"`
}

// PricingResponse is the vendor pricing result.
type PricingResponse struct {
	envelope
	Prices []Price `json:"prices"`
}

// HealthResponse is the service health report.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables
// the limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

// WithRetry sets the retry and circuit breaker policy.
func WithRetry(s resilience.Settings) Option {
	return func(c *httpClient) {
		c.guard = resilience.NewGuard("scraper", s)
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	guard   *resilience.Guard
}

// NewClient creates a scraper service client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(2, 2),
		guard:   resilience.NewGuard("scraper", resilience.Settings{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Labor looks up book labor hours for a job.
func (c *httpClient) Labor(ctx context.Context, vin, jobDescription string) (*LaborResponse, error) {
	var resp LaborResponse
	if err := c.post(ctx, "labor", "/scrape/labor", jobRequest{VIN: vin, JobDescription: jobDescription}, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope("labor", resp.envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Parts searches the OEM parts catalog for a job.
func (c *httpClient) Parts(ctx context.Context, vin, jobDescription string) (*PartsResponse, error) {
	var resp PartsResponse
	if err := c.post(ctx, "parts", "/scrape/parts", jobRequest{VIN: vin, JobDescription: jobDescription}, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope("parts", resp.envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pricing fetches vendor quotes for a batch of part numbers.
func (c *httpClient) Pricing(ctx context.Context, partNumbers []string) (*PricingResponse, error) {
	var resp PricingResponse
	if err := c.post(ctx, "pricing", "/scrape/pricing", pricingRequest{PartNumbers: partNumbers}, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope("pricing", resp.envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health reports the service status. It bypasses the retry policy so a
// probe never waits on backoff.
func (c *httpClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: create health request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: health request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("scraper: health status %d", resp.StatusCode)
	}
	var h HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, eris.Wrap(err, "scraper: decode health")
	}
	return &h, nil
}

func checkEnvelope(op string, e envelope) error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = "unknown error"
	}
	return eris.Wrapf(ErrUnavailable, "scraper: %s: %s", op, msg)
}

func (c *httpClient) post(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "scraper: marshal request")
	}

	_, err = resilience.Run(ctx, c.guard, op, func(ctx context.Context) (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, eris.Wrap(err, "scraper: rate limit wait")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, eris.Wrap(err, "scraper: create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, resilience.NewTransientError(eris.Wrap(err, "scraper: send request"), 0)
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, eris.Wrap(err, "scraper: read response")
		}

		if resp.StatusCode != http.StatusOK {
			if len(respBody) > maxErrorBodyLen {
				respBody = respBody[:maxErrorBodyLen]
			}
			statusErr := eris.Errorf("scraper: %s: unexpected status %d: %s", op, resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return struct{}{}, resilience.NewTransientError(statusErr, resp.StatusCode)
			}
			return struct{}{}, statusErr
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return struct{}{}, eris.Wrap(err, "scraper: unmarshal response")
		}
		return struct{}{}, nil
	})
	return err
}
