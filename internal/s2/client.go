package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/matsen/citenet/internal/metrics"
)

const (
	// BaseURL is the Semantic Scholar Academic Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout bounds each HTTP request. Expiry counts as a network error.
	DefaultTimeout = 10 * time.Second

	// SearchFields are the fields requested for title search.
	SearchFields = "title,authors,abstract,year"

	// ReferenceFields are the fields requested for each cited paper.
	ReferenceFields = "title,authors,year"

	// DefaultReferencesLimit caps the reference list fetched per paper.
	DefaultReferencesLimit = 100

	// maxErrorBody limits how much of an error response is kept in APIError.
	maxErrorBody = 512
)

// Client is a rate-limited HTTP client for the Semantic Scholar API.
// All requests share one Gate.
type Client struct {
	httpClient *http.Client
	gate       *Gate
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRequestInterval replaces the gate with one of the given interval.
func WithRequestInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.gate = NewGate(d)
	}
}

// WithGate shares an existing gate with this client.
func WithGate(g *Gate) ClientOption {
	return func(c *Client) {
		c.gate = g
	}
}

// NewClient creates a new Semantic Scholar API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		gate:       NewGate(DefaultRequestInterval),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchPapers runs a free-text paper search.
func (c *Client) SearchPapers(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", SearchFields)

	var resp SearchResponse
	if err := c.get(ctx, "search", "/paper/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReferences fetches the papers referenced by the given paper.
func (c *Client) GetReferences(ctx context.Context, paperID string, limit int) (*ReferencesResponse, error) {
	if limit <= 0 {
		limit = DefaultReferencesLimit
	}

	params := url.Values{}
	params.Set("fields", ReferenceFields)
	params.Set("limit", strconv.Itoa(limit))

	var resp ReferencesResponse
	path := "/paper/" + url.PathEscape(paperID) + "/references"
	if err := c.get(ctx, "references", path, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) > limit {
		resp.Data = resp.Data[:limit]
	}
	return &resp, nil
}

// get waits on the gate, issues one GET request and decodes the JSON body.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) (err error) {
	if err := c.gate.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.S2RequestsTotal.WithLabelValues(endpoint, statusLabel(err)).Inc()
		metrics.S2RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, endpoint); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrInvalidResponse, endpoint, err)
	}
	return nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, endpoint string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400 || resp.StatusCode < 200:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(body),
		}
	}
	return nil
}
