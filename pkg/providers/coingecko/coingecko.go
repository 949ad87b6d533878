// Package coingecko provides spot price and market cap data from the
// CoinGecko API. Data source: https://www.coingecko.com/en/api
package coingecko

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/providers"
)

// DefaultBaseURL is the official CoinGecko API endpoint.
const DefaultBaseURL = "https://api.coingecko.com"

type cacheEntry struct {
	metrics   *providers.Metrics
	fetchedAt time.Time
}

// Source implements the providers.Provider interface for CoinGecko.
type Source struct {
	mu sync.RWMutex

	baseURL  string
	cacheTTL time.Duration

	client *providers.Client
	cache  map[string]cacheEntry
}

// NewSource creates a CoinGecko price/market-cap source.
func NewSource(cfg *providers.Config) *Source {
	resolved := providers.Config{}
	if cfg != nil {
		resolved = *cfg
	}

	baseURL := resolved.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cacheTTL := resolved.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = providers.DefaultCacheTTL
	}

	return &Source{
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		client:   providers.NewClient("coingecko", resolved),
		cache:    make(map[string]cacheEntry),
	}
}

// Name returns the provider name.
func (s *Source) Name() string { return entity.AliasCoinGecko }

// Fetch returns the entity's USD price and market cap, or (nil, nil) when
// CoinGecko does not track it.
func (s *Source) Fetch(ctx context.Context, e entity.Entity) (*providers.Metrics, error) {
	id := e.Alias(entity.AliasCoinGecko)

	s.mu.RLock()
	if entry, ok := s.cache[id]; ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		s.mu.RUnlock()
		return entry.metrics, nil
	}
	s.mu.RUnlock()

	url := fmt.Sprintf(
		"%s/api/v3/simple/price?ids=%s&vs_currencies=usd&include_market_cap=true",
		s.baseURL, id,
	)

	var result map[string]struct {
		USD          *float64 `json:"usd"`
		USDMarketCap *float64 `json:"usd_market_cap"`
	}
	if err := s.client.GetJSON(ctx, url, &result); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	row, ok := result[id]
	if !ok {
		// CoinGecko returns 200 with an empty object for unknown ids.
		return nil, nil
	}

	metrics := &providers.Metrics{
		PriceUSD:     row.USD,
		MarketCapUSD: row.USDMarketCap,
	}

	s.mu.Lock()
	s.cache[id] = cacheEntry{metrics: metrics, fetchedAt: time.Now()}
	s.mu.Unlock()

	return metrics, nil
}

// ClearCache drops all cached quotes.
func (s *Source) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

var _ providers.Provider = (*Source)(nil)
