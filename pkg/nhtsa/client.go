// Package nhtsa is a client for the public NHTSA vPIC VIN decoder and the
// NHTSA recalls API.
package nhtsa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/estimaro/estimator/internal/resilience"
)

const (
	defaultVPICBaseURL    = "https://vpic.nhtsa.dot.gov/api/vehicles"
	defaultRecallsBaseURL = "https://api.nhtsa.gov/recalls"

	vinLength       = 17
	notApplicable   = "Not Applicable"
	maxErrorBodyLen = 512
)

// ErrInvalidVIN is returned before any request when the VIN is not 17
// characters.
var ErrInvalidVIN = eris.New("nhtsa: VIN must be exactly 17 characters")

// Client performs NHTSA API operations.
type Client interface {
	DecodeVIN(ctx context.Context, vin string) (*Vehicle, error)
	RecallsByVIN(ctx context.Context, vin string) ([]Recall, error)
}

// Vehicle is the subset of vPIC decode variables the estimator uses.
type Vehicle struct {
	VIN          string `json:"vin"`
	Year         int    `json:"year,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Trim         string `json:"trim,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	BodyClass    string `json:"body_class,omitempty"`
}

// Recall is one campaign from recallsByVehicle.
type Recall struct {
	NHTSACampaignNumber string `json:"NHTSACampaignNumber"`
	Manufacturer        string `json:"Manufacturer"`
	Component           string `json:"Component"`
	Summary             string `json:"Summary"`
	Consequence         string `json:"Consequence"`
	Remedy              string `json:"Remedy"`
}

type decodeResponse struct {
	Results []struct {
		Variable string  `json:"Variable"`
		Value    *string `json:"Value"`
	} `json:"Results"`
}

type recallsResponse struct {
	Count   int      `json:"Count"`
	Results []Recall `json:"results"`
}

// Option configures the client.
type Option func(*httpClient)

// WithVPICBaseURL overrides the vPIC base URL.
func WithVPICBaseURL(u string) Option {
	return func(c *httpClient) {
		c.vpicURL = strings.TrimRight(u, "/")
	}
}

// WithRecallsBaseURL overrides the recalls API base URL.
func WithRecallsBaseURL(u string) Option {
	return func(c *httpClient) {
		c.recallsURL = strings.TrimRight(u, "/")
	}
}

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
		c.guard = resilience.NewGuard("nhtsa", s)
	}
}

type httpClient struct {
	vpicURL    string
	recallsURL string
	http       *http.Client
	limiter    *rate.Limiter
	guard      *resilience.Guard
}

// NewClient creates an NHTSA client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		vpicURL:    defaultVPICBaseURL,
		recallsURL: defaultRecallsBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(5, 5),
		guard:   resilience.NewGuard("nhtsa", resilience.Settings{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func normalizeVIN(vin string) (string, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) != vinLength {
		return "", ErrInvalidVIN
	}
	return vin, nil
}

// DecodeVIN decodes a VIN via vPIC. Variables reported as "Not Applicable"
// are treated as absent.
func (c *httpClient) DecodeVIN(ctx context.Context, vin string) (*Vehicle, error) {
	vin, err := normalizeVIN(vin)
	if err != nil {
		return nil, err
	}

	endpoint := c.vpicURL + "/DecodeVin/" + url.PathEscape(vin) + "?format=json"
	var resp decodeResponse
	if err := c.getJSON(ctx, "decode_vin", endpoint, &resp); err != nil {
		return nil, err
	}

	vars := make(map[string]string, len(resp.Results))
	for _, r := range resp.Results {
		if r.Value == nil {
			continue
		}
		v := strings.TrimSpace(*r.Value)
		if v == "" || v == notApplicable {
			continue
		}
		vars[r.Variable] = v
	}

	v := &Vehicle{
		VIN:          vin,
		Make:         vars["Make"],
		Model:        vars["Model"],
		Trim:         vars["Trim"],
		Engine:       vars["Engine Model"],
		Manufacturer: vars["Manufacturer Name"],
		VehicleType:  vars["Vehicle Type"],
		BodyClass:    vars["Body Class"],
	}
	if v.Engine == "" {
		v.Engine = vars["Engine Configuration"]
	}
	if year, err := strconv.Atoi(vars["Model Year"]); err == nil {
		v.Year = year
	}
	return v, nil
}

// RecallsByVIN returns the recall campaigns NHTSA lists for a VIN.
func (c *httpClient) RecallsByVIN(ctx context.Context, vin string) ([]Recall, error) {
	vin, err := normalizeVIN(vin)
	if err != nil {
		return nil, err
	}

	endpoint := c.recallsURL + "/recallsByVehicle?" + url.Values{"vin": {vin}}.Encode()
	var resp recallsResponse
	if err := c.getJSON(ctx, "recalls_by_vin", endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []Recall{}, nil
	}
	return resp.Results, nil
}

func (c *httpClient) getJSON(ctx context.Context, op, endpoint string, out any) error {
	_, err := resilience.Run(ctx, c.guard, op, func(ctx context.Context) (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, eris.Wrap(err, "nhtsa: rate limit wait")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return struct{}{}, eris.Wrap(err, "nhtsa: create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, resilience.NewTransientError(eris.Wrap(err, "nhtsa: send request"), 0)
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, eris.Wrap(err, "nhtsa: read response")
		}

		if resp.StatusCode != http.StatusOK {
			if len(body) > maxErrorBodyLen {
				body = body[:maxErrorBodyLen]
			}
			statusErr := eris.Errorf("nhtsa: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return struct{}{}, resilience.NewTransientError(statusErr, resp.StatusCode)
			}
			return struct{}{}, statusErr
		}

		if err := json.Unmarshal(body, out); err != nil {
			return struct{}{}, eris.Wrap(err, "nhtsa: unmarshal response")
		}
		return struct{}{}, nil
	})
	return err
}
