// DefiSentry Agent - DeFi listing risk analyzer
//
// The agent supports three modes:
//
//  1. ONE-SHOT MODE:
//     defisentry-agent -identifier aave
//
//  2. BATCH MODE:
//     defisentry-agent -identifiers aave,makerdao,link
//
//  3. SERVER MODE:
//     defisentry-agent -serve -addr :8080
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/defisentry/sdk/pkg/analysis"
	"github.com/defisentry/sdk/pkg/cache"
	"github.com/defisentry/sdk/pkg/core"
	"github.com/defisentry/sdk/pkg/detectors"
	"github.com/defisentry/sdk/pkg/entity"
	sdkerrors "github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/health"
	"github.com/defisentry/sdk/pkg/metrics"
	"github.com/defisentry/sdk/pkg/providers"
	"github.com/defisentry/sdk/pkg/providers/coingecko"
	"github.com/defisentry/sdk/pkg/providers/defillama"
	"github.com/defisentry/sdk/pkg/providers/dexscreener"
	"github.com/defisentry/sdk/pkg/report"
	"github.com/defisentry/sdk/pkg/server"
)

const (
	appName    = "defisentry-agent"
	appVersion = "1.0.0"
)

// Config represents the agent configuration.
type Config struct {
	// Agent settings
	Agent struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"agent"`

	// Market-data providers
	Providers struct {
		Defillama   ProviderConfig `yaml:"defillama"`
		Coingecko   ProviderConfig `yaml:"coingecko"`
		Dexscreener ProviderConfig `yaml:"dexscreener"`
	} `yaml:"providers"`

	// Shared provider-response cache
	Cache struct {
		Disabled bool          `yaml:"disabled"`
		Path     string        `yaml:"path"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	// HTTP server (server mode)
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	// Extra registry entries merged over the builtin registry
	Registry map[string]entity.Record `yaml:"registry"`
}

// ProviderConfig configures one provider.
type ProviderConfig struct {
	Disabled          bool          `yaml:"disabled"`
	BaseURL           string        `yaml:"base_url"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

func (p ProviderConfig) toConfig(verbose bool) *providers.Config {
	return &providers.Config{
		BaseURL:           p.BaseURL,
		CacheTTL:          p.CacheTTL,
		RequestsPerSecond: p.RequestsPerSecond,
		Verbose:           verbose,
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config file")
	identifier := flag.String("identifier", "", "Protocol slug or token symbol to analyze")
	identifiers := flag.String("identifiers", "", "Comma-separated identifiers for batch analysis")
	serve := flag.Bool("serve", false, "Run in HTTP server mode")
	addr := flag.String("addr", "", "Server listen address (server mode)")
	outputJSON := flag.Bool("json", false, "Output reports as JSON")
	outputFile := flag.String("output", "", "Output file path (instead of stdout)")
	noCache := flag.Bool("no-cache", false, "Disable the provider-response cache")
	noProviders := flag.Bool("offline", false, "Skip market-data providers (size metrics absent)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *verbose {
		cfg.Agent.Verbose = true
	}
	if *noCache {
		cfg.Cache.Disabled = true
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	logger := core.LoggerFromVerbose(appName, cfg.Agent.Verbose)

	var collector metrics.Collector = &metrics.NopCollector{}
	if *serve {
		collector = metrics.NewPrometheusCollector(&metrics.PrometheusConfig{Namespace: "defisentry"})
	}

	var store *cache.Store
	if !cfg.Cache.Disabled {
		cacheCfg := cache.DefaultConfig()
		if cfg.Cache.Path != "" {
			cacheCfg.DatabasePath = cfg.Cache.Path
		}
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		store, err = cache.NewStore(cacheCfg)
		if err != nil {
			logger.Warn("cache disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	analyzer := buildAnalyzer(cfg, store, collector, logger, *noProviders)

	switch {
	case *serve:
		runServer(cfg, analyzer, store, collector, logger)

	case *identifiers != "":
		ids := splitIdentifiers(*identifiers)
		runBatch(analyzer, ids, *outputJSON, *outputFile)

	case *identifier != "" || flag.NArg() > 0:
		id := *identifier
		if id == "" {
			id = flag.Arg(0)
		}
		runOnce(analyzer, id, *outputJSON, *outputFile)

	default:
		fmt.Fprintln(os.Stderr, "Error: nothing to do (use -identifier, -identifiers, or -serve)")
		flag.Usage()
		os.Exit(2)
	}
}

// loadConfig reads the yaml config file, or returns defaults when no
// path is given.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// buildAnalyzer assembles the pipeline from configuration.
func buildAnalyzer(cfg *Config, store *cache.Store, collector metrics.Collector, logger core.Logger, offline bool) *analysis.Analyzer {
	registry := entity.BuiltinRegistry()
	if len(cfg.Registry) > 0 {
		merged := make(map[string]entity.Record, registry.Len()+len(cfg.Registry))
		for _, key := range registry.Keys() {
			rec, _ := registry.Lookup(key)
			merged[key] = rec
		}
		for key, rec := range cfg.Registry {
			merged[strings.ToLower(key)] = rec
		}
		registry = entity.NewRegistry(merged)
	}

	opts := []analysis.Option{
		analysis.WithResolver(entity.NewResolver(registry)),
		analysis.WithDetectors(detectors.DefaultRegistry()),
		analysis.WithLogger(logger),
		analysis.WithMetrics(collector),
	}

	if !offline {
		verbose := cfg.Agent.Verbose
		var sources []providers.Provider
		if !cfg.Providers.Defillama.Disabled {
			sources = append(sources, defillama.NewSource(cfg.Providers.Defillama.toConfig(verbose)))
		}
		if !cfg.Providers.Coingecko.Disabled {
			sources = append(sources, coingecko.NewSource(cfg.Providers.Coingecko.toConfig(verbose)))
		}
		if !cfg.Providers.Dexscreener.Disabled {
			sources = append(sources, dexscreener.NewSource(cfg.Providers.Dexscreener.toConfig(verbose)))
		}
		opts = append(opts, analysis.WithProviders(sources...))
	}

	if store != nil {
		opts = append(opts, analysis.WithCache(store))
	}

	return analysis.NewAnalyzer(opts...)
}

// runOnce analyzes a single identifier and renders the report.
func runOnce(analyzer *analysis.Analyzer, identifier string, asJSON bool, outputFile string) {
	rep, err := analyzer.Analyze(context.Background(), identifier)
	if err != nil {
		if sdkerrors.IsNotFoundError(err) {
			fmt.Fprintf(os.Stderr, "Error: entity %q not found\n", identifier)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	if err := writeReport(rep, asJSON, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runBatch analyzes multiple identifiers and renders each result.
func runBatch(analyzer *analysis.Analyzer, ids []string, asJSON bool, outputFile string) {
	results := analyzer.AnalyzeBatch(context.Background(), ids, analysis.DefaultBatchConcurrency)

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			if sdkerrors.IsNotFoundError(result.Err) {
				fmt.Fprintf(os.Stderr, "%s: not found\n", result.Identifier)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", result.Identifier, result.Err)
			}
			continue
		}
		if asJSON {
			_ = report.RenderJSON(out, result.Report)
		} else {
			_ = report.RenderText(out, result.Report)
			fmt.Fprintln(out)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// runServer runs the HTTP server until interrupted.
func runServer(cfg *Config, analyzer *analysis.Analyzer, store *cache.Store, collector metrics.Collector, logger core.Logger) {
	healthHandler := health.NewHandler(health.WithVersion(appVersion))
	healthHandler.Register("ping", &health.PingCheck{})
	if store != nil {
		healthHandler.Register("cache", &health.DatabaseCheck{PingFunc: store.Ping})
	}
	healthHandler.Register("disk", &health.DiskCheck{MinFreePercent: 5})

	serverCfg := server.DefaultConfig()
	if cfg.Server.Address != "" {
		serverCfg.Address = cfg.Server.Address
	}

	srv := server.New(serverCfg, analyzer, healthHandler, collector, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// writeReport renders a report to stdout or a file.
func writeReport(rep *report.Report, asJSON bool, outputFile string) error {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if asJSON {
		return report.RenderJSON(out, rep)
	}
	return report.RenderText(out, rep)
}

// splitIdentifiers parses a comma-separated identifier list.
func splitIdentifiers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
