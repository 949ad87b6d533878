package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/defisentry/sdk/pkg/errors"
)

func TestMetricsMerge(t *testing.T) {
	base := &Metrics{TVLUSD: Float64(100)}

	base.Merge(&Metrics{PriceUSD: Float64(2.5), MarketCapUSD: Float64(1000)})
	base.Merge(nil)
	base.Merge(&Metrics{TVLUSD: Float64(200)})

	if *base.TVLUSD != 200 {
		t.Errorf("TVLUSD = %v, want later value 200", *base.TVLUSD)
	}
	if base.PriceUSD == nil || *base.PriceUSD != 2.5 {
		t.Errorf("PriceUSD = %v, want 2.5", base.PriceUSD)
	}
	if base.Volume24hUSD != nil {
		t.Error("Volume24hUSD should stay nil when no source set it")
	}
}

func TestMetricsMergeKeepsExisting(t *testing.T) {
	base := &Metrics{TVLUSD: Float64(100)}
	base.Merge(&Metrics{PriceUSD: Float64(1)})

	if base.TVLUSD == nil || *base.TVLUSD != 100 {
		t.Error("merging a partial Metrics should not clear existing fields")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg *Config
	resolved := cfg.withDefaults()

	if resolved.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", resolved.Timeout, DefaultTimeout)
	}
	if resolved.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", resolved.CacheTTL, DefaultCacheTTL)
	}
	if resolved.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", resolved.MaxRetries, DefaultMaxRetries)
	}

	custom := &Config{Timeout: time.Second, MaxRetries: 1}
	resolved = custom.withDefaults()
	if resolved.Timeout != time.Second || resolved.MaxRetries != 1 {
		t.Error("explicit values should survive withDefaults")
	}
}

func TestClientGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Write([]byte(`{"value": 42}`))
	}))
	defer ts.Close()

	c := NewClient("test", Config{Timeout: 2 * time.Second})

	var out struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), ts.URL, &out); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("value = %d, want 42", out.Value)
	}
}

func TestClientGetJSONNonSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient("test", Config{Timeout: 2 * time.Second})

	var out any
	err := c.GetJSON(context.Background(), ts.URL, &out)
	if err == nil {
		t.Fatal("expected error for 404")
	}

	pErr, ok := errors.IsProviderError(err)
	if !ok {
		t.Fatalf("error type = %T, want *errors.ProviderError", err)
	}
	if pErr.Provider != "test" {
		t.Errorf("Provider = %q, want test", pErr.Provider)
	}
	if pErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", pErr.StatusCode)
	}
	if !errors.IsNotFoundError(err) {
		t.Error("404 should register as not-found")
	}
}

func TestClientGetJSONDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	c := NewClient("test", Config{Timeout: 2 * time.Second})

	var out map[string]any
	err := c.GetJSON(context.Background(), ts.URL, &out)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if _, ok := errors.IsProviderError(err); !ok {
		t.Errorf("error type = %T, want *errors.ProviderError", err)
	}
}
