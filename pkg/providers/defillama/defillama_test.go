package defillama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/providers"
)

func protocolEntity() entity.Entity {
	return entity.Entity{
		Identifier: "aave",
		Name:       "Aave V3",
		Type:       entity.TypeProtocol,
		Aliases:    map[string]string{entity.AliasDefiLlama: "aave-v3"},
	}
}

func newTestSource(url string) *Source {
	return NewSource(&providers.Config{
		BaseURL: url,
		Timeout: 2 * time.Second,
	})
}

func TestFetchTVL(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("5000000000.5"))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), protocolEntity())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if gotPath != "/tvl/aave-v3" {
		t.Errorf("request path = %q, want /tvl/aave-v3 (alias, not identifier)", gotPath)
	}
	if m == nil || m.TVLUSD == nil {
		t.Fatal("expected TVL metrics")
	}
	if *m.TVLUSD != 5000000000.5 {
		t.Errorf("TVLUSD = %v, want 5000000000.5", *m.TVLUSD)
	}
}

func TestFetchSkipsNonProtocols(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for non-protocol entities")
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)

	for _, typ := range []entity.Type{entity.TypeToken, entity.TypeUnknown} {
		m, err := s.Fetch(context.Background(), entity.Entity{Identifier: "x", Type: typ})
		if err != nil {
			t.Errorf("Fetch(%s) error: %v", typ, err)
		}
		if m != nil {
			t.Errorf("Fetch(%s) = %+v, want nil", typ, m)
		}
	}
}

func TestFetchNotFoundIsNoData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	m, err := s.Fetch(context.Background(), protocolEntity())
	if err != nil {
		t.Errorf("404 should read as no data, got error: %v", err)
	}
	if m != nil {
		t.Errorf("404 should read as no data, got %+v", m)
	}
}

func TestFetchCachesResults(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("1000000"))
	}))
	defer ts.Close()

	s := newTestSource(ts.URL)
	e := protocolEntity()

	for i := 0; i < 3; i++ {
		if _, err := s.Fetch(context.Background(), e); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (cached)", calls)
	}

	s.ClearCache()
	if _, err := s.Fetch(context.Background(), e); err != nil {
		t.Fatalf("Fetch() after ClearCache error: %v", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls after ClearCache, want 2", calls)
	}
}
