// Package defillama provides protocol TVL data from the DefiLlama API.
// Data source: https://defillama.com/docs/api
package defillama

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/providers"
)

// DefaultBaseURL is the official DefiLlama API endpoint.
const DefaultBaseURL = "https://api.llama.fi"

type cacheEntry struct {
	metrics   *providers.Metrics
	fetchedAt time.Time
}

// Source implements the providers.Provider interface for DefiLlama.
// It only knows about protocols; tokens and unknown entities get no data.
type Source struct {
	mu sync.RWMutex

	baseURL  string
	cacheTTL time.Duration

	client *providers.Client
	cache  map[string]cacheEntry
}

// NewSource creates a DefiLlama TVL source.
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
		client:   providers.NewClient("defillama", resolved),
		cache:    make(map[string]cacheEntry),
	}
}

// Name returns the provider name.
func (s *Source) Name() string { return entity.AliasDefiLlama }

// Fetch returns the protocol's TVL, or (nil, nil) when DefiLlama has no
// data for the entity.
func (s *Source) Fetch(ctx context.Context, e entity.Entity) (*providers.Metrics, error) {
	if e.Type != entity.TypeProtocol {
		return nil, nil
	}

	slug := e.Alias(entity.AliasDefiLlama)

	s.mu.RLock()
	if entry, ok := s.cache[slug]; ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		s.mu.RUnlock()
		return entry.metrics, nil
	}
	s.mu.RUnlock()

	// The /tvl endpoint returns the current TVL as a bare JSON number.
	var tvl float64
	url := fmt.Sprintf("%s/tvl/%s", s.baseURL, slug)
	if err := s.client.GetJSON(ctx, url, &tvl); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	metrics := &providers.Metrics{TVLUSD: providers.Float64(tvl)}

	s.mu.Lock()
	s.cache[slug] = cacheEntry{metrics: metrics, fetchedAt: time.Now()}
	s.mu.Unlock()

	return metrics, nil
}

// ClearCache drops all cached TVL values.
func (s *Source) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

var _ providers.Provider = (*Source)(nil)
