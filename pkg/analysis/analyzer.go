// Package analysis provides the orchestrator that runs the full risk
// pipeline: resolve -> enrich -> detect -> score -> report.
//
// The pipeline is strictly downstream and holds no cross-request state;
// one Analyzer can serve concurrent requests.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/defisentry/sdk/pkg/cache"
	"github.com/defisentry/sdk/pkg/core"
	"github.com/defisentry/sdk/pkg/detectors"
	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/metrics"
	"github.com/defisentry/sdk/pkg/providers"
	"github.com/defisentry/sdk/pkg/report"
	"github.com/defisentry/sdk/pkg/risk"
	"github.com/defisentry/sdk/pkg/scoring"
)

// Analyzer orchestrates one analysis request end to end.
type Analyzer struct {
	resolver  *entity.Resolver
	detectors *detectors.Registry
	providers []providers.Provider
	cache     *cache.Store
	logger    core.Logger
	metrics   metrics.Collector
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithResolver sets the entity resolver.
func WithResolver(r *entity.Resolver) Option {
	return func(a *Analyzer) {
		a.resolver = r
	}
}

// WithDetectors sets the detector registry.
func WithDetectors(r *detectors.Registry) Option {
	return func(a *Analyzer) {
		a.detectors = r
	}
}

// WithProviders sets the market-data providers, in fetch order.
func WithProviders(p ...providers.Provider) Option {
	return func(a *Analyzer) {
		a.providers = p
	}
}

// WithCache sets the shared provider-response cache.
func WithCache(c *cache.Store) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l core.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m metrics.Collector) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewAnalyzer creates an analyzer. Without options it uses the builtin
// registry, the default detector pipeline, no providers, no cache, and
// discards logs and metrics.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		resolver:  entity.NewResolver(nil),
		detectors: detectors.DefaultRegistry(),
		logger:    &core.NopLogger{},
		metrics:   &metrics.NopCollector{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the pipeline for one identifier.
//
// Unknown identifiers return an error for which errors.IsNotFoundError
// is true; this is an explicit reported condition, never a zero-risk
// report. Provider failures never fail the analysis: the affected
// metrics are simply absent from the result.
func (a *Analyzer) Analyze(ctx context.Context, identifier string) (*report.Report, error) {
	const op = "analysis.Analyze"

	if identifier == "" {
		a.metrics.CounterInc(metrics.MetricAnalyses, "outcome", "invalid")
		return nil, errors.E(op, errors.KindInvalidInput, "identifier is required")
	}

	timer := metrics.NewTimer(a.metrics, metrics.MetricAnalysisSeconds)
	defer timer.ObserveDuration()

	e := a.resolver.Resolve(identifier)
	if !e.IsKnown() {
		a.logger.Info("identifier %q did not resolve, reporting not found", identifier)
		a.metrics.CounterInc(metrics.MetricAnalyses, "outcome", "not_found")
		return nil, errors.E(op, errors.KindNotFound, fmt.Sprintf("entity %q not found", identifier))
	}

	a.enrich(ctx, &e)

	findings := a.detectors.DetectAll(e)
	if err := risk.ValidateAll(findings); err != nil {
		// A malformed finding is a detector bug; fail fast rather
		// than corrupt the score.
		a.metrics.CounterInc(metrics.MetricAnalyses, "outcome", "error")
		return nil, errors.E(op, errors.KindInternal, "detector emitted malformed finding", err)
	}

	for _, f := range findings {
		a.metrics.CounterInc(metrics.MetricFindings,
			"category", f.Category.String(),
			"severity", f.Severity.String(),
		)
	}

	score := scoring.Score(e.Type, e.TotalValueLocked, findings)
	rep := report.Build(e, score, findings)

	a.logger.Info("analyzed %q: score=%d findings=%d", identifier, score, len(findings))
	a.metrics.CounterInc(metrics.MetricAnalyses, "outcome", "success")

	return rep, nil
}

// enrich populates the entity's size attributes from the providers,
// consulting the shared cache first. Failures degrade to absent values.
func (a *Analyzer) enrich(ctx context.Context, e *entity.Entity) {
	merged := &providers.Metrics{}

	for _, p := range a.providers {
		m, err := a.fetchWithCache(ctx, p, *e)
		if err != nil {
			a.logger.Warn("provider %s failed for %q: %v", p.Name(), e.Identifier, err)
			a.metrics.CounterInc(metrics.MetricProviderRequests,
				"provider", p.Name(), "outcome", "error")
			continue
		}
		if m == nil {
			a.metrics.CounterInc(metrics.MetricProviderRequests,
				"provider", p.Name(), "outcome", "no_data")
			continue
		}
		a.metrics.CounterInc(metrics.MetricProviderRequests,
			"provider", p.Name(), "outcome", "success")
		merged.Merge(m)
	}

	e.TotalValueLocked = merged.TVLUSD
	e.PriceUSD = merged.PriceUSD
	e.MarketCapUSD = merged.MarketCapUSD
	e.Volume24hUSD = merged.Volume24hUSD
}

// fetchWithCache fetches provider metrics through the shared TTL cache.
func (a *Analyzer) fetchWithCache(ctx context.Context, p providers.Provider, e entity.Entity) (*providers.Metrics, error) {
	if a.cache == nil {
		timer := metrics.NewTimer(a.metrics, metrics.MetricProviderSeconds, "provider", p.Name())
		defer timer.ObserveDuration()
		return p.Fetch(ctx, e)
	}

	key := p.Name() + ":" + e.Identifier

	if data, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		var m providers.Metrics
		if err := json.Unmarshal(data, &m); err == nil {
			a.metrics.CounterInc(metrics.MetricCacheHits, "provider", p.Name())
			return &m, nil
		}
	} else if err != nil {
		a.logger.Warn("cache read failed for %s: %v", key, err)
	}
	a.metrics.CounterInc(metrics.MetricCacheMisses, "provider", p.Name())

	timer := metrics.NewTimer(a.metrics, metrics.MetricProviderSeconds, "provider", p.Name())
	m, err := p.Fetch(ctx, e)
	timer.ObserveDuration()
	if err != nil || m == nil {
		return m, err
	}

	if data, err := json.Marshal(m); err == nil {
		if err := a.cache.Put(ctx, key, data); err != nil {
			a.logger.Warn("cache write failed for %s: %v", key, err)
		}
	}

	return m, nil
}
