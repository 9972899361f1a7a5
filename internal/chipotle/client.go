// Package chipotle is a client for the Chipotle ordering API: it scrapes the
// rotating gateway subscription key out of the order-web JS bundle, lists
// store locations nationwide, and reduces per-store menus to a fixed
// three-bowl price summary.
package chipotle

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultRequestTimeout = 30 * time.Second

// Client bundles the HTTP transport, the endpoint configuration and the key
// cache shared by all API calls. The key is populated lazily on the first
// authenticated call and then read concurrently without further locking,
// since nothing refreshes it mid-run.
type Client struct {
	httpClient *http.Client
	endpoints  EndpointConfig
	keys       *KeyCache
	limiter    *rate.Limiter
}

// ClientOptions configures a Client. The zero value is usable and talks to
// the production endpoints.
type ClientOptions struct {
	Endpoints EndpointConfig

	// APIKey, when set, seeds the key cache so no bundle scrape happens.
	APIKey string

	// KeyTTL bounds how long a scraped key is reused. Zero means forever.
	KeyTTL time.Duration

	// RequestsPerSecond throttles outbound requests across all calls.
	// Zero disables throttling.
	RequestsPerSecond float64

	// Timeout applies per individual request. Zero means 30 seconds.
	Timeout time.Duration
}

// NewClient validates the endpoint configuration and builds a client.
func NewClient(opts ClientOptions) (*Client, error) {
	if err := opts.Endpoints.Validate(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := &http.Client{
		Transport: newDecompressingTransport(nil),
		Timeout:   timeout,
	}

	keys := NewKeyCache(httpClient, opts.Endpoints.APIKey, opts.KeyTTL)
	if opts.APIKey != "" {
		keys.Seed(opts.APIKey)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: httpClient,
		endpoints:  opts.Endpoints,
		keys:       keys,
		limiter:    limiter,
	}, nil
}

// APIKey returns the gateway subscription key, fetching it on first use.
func (c *Client) APIKey(ctx context.Context, forceRefresh bool) (string, error) {
	return c.keys.Key(ctx, forceRefresh)
}

// throttle blocks until the client-side rate limit admits another request.
func (c *Client) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
