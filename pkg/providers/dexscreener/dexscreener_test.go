package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/providers"
)

func tokenEntity() entity.Entity {
	return entity.Entity{
		Identifier: "link",
		Name:       "Chainlink",
		Type:       entity.TypeToken,
		Aliases:    map[string]string{entity.AliasDexScreener: "link"},
	}
}

func newTestSource(url string) *Source {
	return NewSource(&providers.Config{
		BaseURL: url,
		Timeout: 2 * time.Second,
	})
}

func TestFetchSumsMatchingPairs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "link" {
			t.Errorf("q = %q, want link", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": [
			{"baseToken": {"symbol": "LINK"}, "volume": {"h24": 1000000}},
			{"baseToken": {"symbol": "link"}, "volume": {"h24": 500000}},
			{"baseToken": {"symbol": "WETH"}, "volume": {"h24": 9999999}}
		]}`))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), tokenEntity())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if m == nil || m.Volume24hUSD == nil {
		t.Fatal("expected volume metrics")
	}
	// Case-insensitive symbol match; non-matching pairs excluded.
	if *m.Volume24hUSD != 1500000 {
		t.Errorf("Volume24hUSD = %v, want 1500000", *m.Volume24hUSD)
	}
}

func TestFetchNoMatchingPairsIsNoData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": [{"baseToken": {"symbol": "WETH"}, "volume": {"h24": 100}}]}`))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), tokenEntity())
	if err != nil {
		t.Errorf("no matches should read as no data, got error: %v", err)
	}
	if m != nil {
		t.Errorf("no matches should read as no data, got %+v", m)
	}
}

func TestFetchEmptyPairs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), tokenEntity())
	if err != nil || m != nil {
		t.Errorf("Fetch() = (%+v, %v), want (nil, nil)", m, err)
	}
}

func TestFetchZeroVolumeMatchIsData(t *testing.T) {
	// A matching pair with zero volume is real data, not "no data".
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": [{"baseToken": {"symbol": "LINK"}, "volume": {"h24": 0}}]}`))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), tokenEntity())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if m == nil || m.Volume24hUSD == nil || *m.Volume24hUSD != 0 {
		t.Errorf("Fetch() = %+v, want zero volume metrics", m)
	}
}
