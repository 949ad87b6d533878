// Package providers defines the market-data provider contract and the
// shared HTTP client used by the concrete providers.
//
// Providers are optional enrichment sources: "no data" is an explicit,
// valid outcome ((nil, nil) from Fetch), and transport failures are
// absorbed by the caller as absent metrics. The scoring core never talks
// to a provider directly.
package providers

import (
	"context"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
)

// Metrics holds the size attributes a provider can contribute. Every
// field is optional; a provider fills only what it knows.
type Metrics struct {
	TVLUSD       *float64 `json:"tvl_usd,omitempty"`
	PriceUSD     *float64 `json:"price_usd,omitempty"`
	MarketCapUSD *float64 `json:"market_cap_usd,omitempty"`
	Volume24hUSD *float64 `json:"volume_24h_usd,omitempty"`
}

// Merge copies the non-nil fields of other into m.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil {
		return
	}
	if other.TVLUSD != nil {
		m.TVLUSD = other.TVLUSD
	}
	if other.PriceUSD != nil {
		m.PriceUSD = other.PriceUSD
	}
	if other.MarketCapUSD != nil {
		m.MarketCapUSD = other.MarketCapUSD
	}
	if other.Volume24hUSD != nil {
		m.Volume24hUSD = other.Volume24hUSD
	}
}

// Provider is the interface for market-data sources.
type Provider interface {
	// Name returns the provider name (e.g., "defillama")
	Name() string

	// Fetch returns the metrics the provider knows about the entity.
	// (nil, nil) means the provider has no data for this entity; an
	// error means the provider itself failed. Callers treat both as
	// "metrics absent" and proceed.
	Fetch(ctx context.Context, e entity.Entity) (*Metrics, error)
}

// Config holds common provider configuration.
type Config struct {
	// BaseURL overrides the provider's default endpoint (tests point
	// this at an httptest server).
	BaseURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CacheTTL is how long fetched metrics stay valid in the
	// provider's in-memory cache.
	CacheTTL time.Duration

	// RequestsPerSecond caps the request rate against the provider.
	// Zero means no limit.
	RequestsPerSecond float64

	// MaxRetries is the number of retries for transient failures.
	MaxRetries int

	// Verbose enables request logging.
	Verbose bool
}

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultCacheTTL is the default in-memory cache TTL.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultMaxRetries is the default retry count for transient failures.
	DefaultMaxRetries = 3
)

// withDefaults returns a copy of cfg with zero fields filled in.
func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.CacheTTL <= 0 {
		out.CacheTTL = DefaultCacheTTL
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = DefaultMaxRetries
	}
	return out
}

// Float64 returns a pointer to v. Providers use it to build Metrics.
func Float64(v float64) *float64 {
	return &v
}
