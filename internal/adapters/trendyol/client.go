// Package trendyol wraps the Trendyol partner finance API: settlement
// records, deduction invoices and cargo invoice line items. Deduction
// invoices are exposed through the /otherfinancials endpoint, not
// /settlements, and must be requested there.
package trendyol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FinanceBaseURL is the production finance API root.
const FinanceBaseURL = "https://apigw.trendyol.com/integration/finance/che/sellers"

// DefaultStoreFrontCode identifies the Turkish storefront.
const DefaultStoreFrontCode = "TRENDYOLTR"

// DefaultPageSize is the page size used for all paginated finance calls.
const DefaultPageSize = 500

const requestTimeout = 30 * time.Second

// Credentials holds the seller's API credentials.
type Credentials struct {
	SellerID  string
	APIKey    string
	APISecret string
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithStoreFrontCode sets the storeFrontCode header value.
func WithStoreFrontCode(code string) Option {
	return func(c *Client) { c.storeFrontCode = code }
}

// WithUserAgent sets a custom User-Agent header value.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithPageSize sets the page size for paginated calls.
func WithPageSize(size int) Option {
	return func(c *Client) { c.pageSize = size }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger.With(slog.String("system", "trendyol")) }
}

// Client is a Trendyol finance API client. All calls are Basic-Auth
// credentialed and carry the seller-identifying User-Agent and
// storeFrontCode headers the partner API requires.
type Client struct {
	baseURL        string
	creds          Credentials
	storeFrontCode string
	userAgent      string
	pageSize       int
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates a finance API client for the given seller.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:        FinanceBaseURL,
		creds:          creds,
		storeFrontCode: DefaultStoreFrontCode,
		userAgent:      fmt.Sprintf("%s - SelfIntegration", creds.SellerID),
		pageSize:       DefaultPageSize,
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PageSize returns the configured page size.
func (c *Client) PageSize() int {
	return c.pageSize
}

// APIError is a non-2xx response from the partner API.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trendyol api error (%d) on %s: %s", e.StatusCode, e.Path, e.Body)
}

// get performs a credentialed GET against the seller-scoped path and
// decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, c.creds.SellerID, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.SetBasicAuth(c.creds.APIKey, c.creds.APISecret)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("storeFrontCode", c.storeFrontCode)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

// pageQuery builds the shared date-range pagination query parameters.
// The API expects millisecond epoch timestamps.
func (c *Client) pageQuery(startMillis, endMillis int64, transactionType string, page int) url.Values {
	q := url.Values{}
	q.Set("startDate", strconv.FormatInt(startMillis, 10))
	q.Set("endDate", strconv.FormatInt(endMillis, 10))
	q.Set("transactionType", transactionType)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(c.pageSize))
	return q
}
