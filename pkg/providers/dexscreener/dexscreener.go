// Package dexscreener provides 24h trading volume data from the
// DexScreener API. Data source: https://docs.dexscreener.com/api/reference
package dexscreener

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/providers"
)

// DefaultBaseURL is the official DexScreener API endpoint.
const DefaultBaseURL = "https://api.dexscreener.com"

type cacheEntry struct {
	metrics   *providers.Metrics
	fetchedAt time.Time
}

// Source implements the providers.Provider interface for DexScreener.
type Source struct {
	mu sync.RWMutex

	baseURL  string
	cacheTTL time.Duration

	client *providers.Client
	cache  map[string]cacheEntry
}

// NewSource creates a DexScreener volume source.
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
		client:   providers.NewClient("dexscreener", resolved),
		cache:    make(map[string]cacheEntry),
	}
}

// Name returns the provider name.
func (s *Source) Name() string { return entity.AliasDexScreener }

// Fetch returns the summed 24h DEX volume of pairs whose base token
// matches the entity's symbol, or (nil, nil) when no pairs match.
func (s *Source) Fetch(ctx context.Context, e entity.Entity) (*providers.Metrics, error) {
	symbol := e.Alias(entity.AliasDexScreener)

	s.mu.RLock()
	if entry, ok := s.cache[symbol]; ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		s.mu.RUnlock()
		return entry.metrics, nil
	}
	s.mu.RUnlock()

	url := fmt.Sprintf("%s/latest/dex/search?q=%s", s.baseURL, symbol)

	var result struct {
		Pairs []struct {
			BaseToken struct {
				Symbol string `json:"symbol"`
			} `json:"baseToken"`
			Volume struct {
				H24 float64 `json:"h24"`
			} `json:"volume"`
		} `json:"pairs"`
	}
	if err := s.client.GetJSON(ctx, url, &result); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	matched := false
	total := 0.0
	for _, pair := range result.Pairs {
		if strings.EqualFold(pair.BaseToken.Symbol, symbol) {
			matched = true
			total += pair.Volume.H24
		}
	}
	if !matched {
		return nil, nil
	}

	metrics := &providers.Metrics{Volume24hUSD: providers.Float64(total)}

	s.mu.Lock()
	s.cache[symbol] = cacheEntry{metrics: metrics, fetchedAt: time.Now()}
	s.mu.Unlock()

	return metrics, nil
}

// ClearCache drops all cached volumes.
func (s *Source) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

var _ providers.Provider = (*Source)(nil)
