// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 12 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultRetries   = 3

	retryBackoff = 600 * time.Millisecond
)

// Client implements the MarketDataClient interface against CoinGecko.
type Client struct {
	baseURL    string
	apiKey     string
	retries    int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sets the demo/pro API key
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the bounded retry count for transient failures
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// NewClient creates a new CoinGecko client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		retries: DefaultRetries,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET with bounded exponential-backoff retries.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			delay := retryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		lastErr = c.doGet(ctx, path, params, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		c.logger.Debug().Err(lastErr).Str("path", path).Int("attempt", attempt+1).Msg("Request failed, retrying")
	}
	return lastErr
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// GetSimplePrices fetches quote rows for the given asset ids in the given
// currencies, including 24h change columns. Missing ids simply have no row.
func (c *Client) GetSimplePrices(ctx context.Context, ids []string, currencies []string) (models.QuoteBook, error) {
	if len(ids) == 0 {
		return models.QuoteBook{}, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", strings.Join(currencies, ","))
	params.Set("include_24hr_change", "true")

	var book models.QuoteBook
	if err := c.get(ctx, "/simple/price", params, &book); err != nil {
		return nil, fmt.Errorf("failed to fetch simple prices: %w", err)
	}

	c.logger.Debug().Int("requested", len(ids)).Int("returned", len(book)).Msg("Fetched live prices")

	return book, nil
}

// marketChartResponse is the wire shape of /coins/{id}/market_chart.
type marketChartResponse struct {
	Prices []models.PricePoint `json:"prices"`
}

// GetMarketChart fetches daily closes for an asset, oldest first.
func (c *Client) GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	if id == "" {
		return nil, fmt.Errorf("asset id is required")
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", days))
	params.Set("interval", "daily")

	var chart marketChartResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", params, &chart); err != nil {
		return nil, fmt.Errorf("failed to fetch market chart for %s: %w", id, err)
	}

	c.logger.Debug().Str("asset", id).Int("points", len(chart.Prices)).Msg("Fetched market chart")

	return chart.Prices, nil
}
