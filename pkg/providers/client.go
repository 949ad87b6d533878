package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/defisentry/sdk/pkg/errors"
)

// Client is the shared HTTP client for provider requests. It retries
// transient failures and rate-limits outgoing requests per provider.
type Client struct {
	provider string
	http     *retryablehttp.Client
	limiter  *rate.Limiter
}

// NewClient creates a client for the named provider. Zero config fields
// fall back to the package defaults.
func NewClient(provider string, cfg Config) *Client {
	cfg = cfg.withDefaults()

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		provider: provider,
		http:     rc,
		limiter:  limiter,
	}
}

// GetJSON performs a GET request and decodes the JSON response into out.
// Non-2xx responses come back as *errors.ProviderError; a 404 is the
// provider's way of saying "no data" and callers check for it with
// errors.IsNotFoundError.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.ProviderError{
			Provider: c.provider,
			Message:  err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &errors.ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errors.ProviderError{
			Provider: c.provider,
			Message:  fmt.Sprintf("decode response: %v", err),
		}
	}

	return nil
}
