// Package ratesapi fetches conversion rates from an exchangerate-api v6 compatible service.
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://v6.exchangerate-api.com/v6/"
	defaultTimeout = 10 * time.Second
)

// Client is the HTTP rate provider. Each call is bounded by the client timeout and
// the caller's context, whichever ends first.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ providers.RateProvider = (*Client)(nil)

// NewClient creates a rate provider. An empty baseURL uses DefaultBaseURL and a
// non-positive timeout uses 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// ratesResponse covers both the latest and the history payloads. Some deployments
// answer history requests with "rates" instead of "conversion_rates".
type ratesResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	Rates           map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) url(from string, date *time.Time) string {
	if date == nil {
		return fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, from)
	}
	return fmt.Sprintf("%s/%s/history/%s/%d/%d/%d", c.baseURL, c.apiKey, from, date.Year(), int(date.Month()), date.Day())
}

// FetchRate asks the remote service for the from -> to rate. Every failure wraps
// apperrors.ErrRateUnavailable.
func (c *Client) FetchRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date *time.Time) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(fromCurrencyCode, date), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to create request: %v", apperrors.ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to execute request: %v", apperrors.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to read response body: %v", apperrors.ErrRateUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: rate API answered status %d", apperrors.ErrRateUnavailable, resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to unmarshal response: %v", apperrors.ErrRateUnavailable, err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return decimal.Zero, fmt.Errorf("%w: rate API error %q", apperrors.ErrRateUnavailable, payload.ErrorType)
	}

	if rate, ok := payload.ConversionRates[toCurrencyCode]; ok {
		return rate, nil
	}
	if rate, ok := payload.Rates[toCurrencyCode]; ok {
		return rate, nil
	}
	return decimal.Zero, fmt.Errorf("%w: no %s rate in %s response", apperrors.ErrRateUnavailable, toCurrencyCode, fromCurrencyCode)
}
