package analysis

import (
	"context"
	"sync"

	"github.com/defisentry/sdk/pkg/report"
)

// BatchResult holds the outcome of one identifier in a batch analysis.
type BatchResult struct {
	// Identifier is the identifier as submitted.
	Identifier string `json:"identifier"`

	// Report is the analysis report, nil when Err is set.
	Report *report.Report `json:"report,omitempty"`

	// Err is the analysis error (e.g. not found), nil on success.
	Err error `json:"-"`
}

// DefaultBatchConcurrency bounds parallel analyses in a batch.
const DefaultBatchConcurrency = 4

// AnalyzeBatch runs the pipeline for multiple identifiers in parallel.
// Results come back in input order; per-identifier failures (including
// unknown entities) land in the corresponding BatchResult rather than
// aborting the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, identifiers []string, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(identifiers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, id := range identifiers {
		wg.Add(1)
		go func(idx int, identifier string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			rep, err := a.Analyze(ctx, identifier)
			results[idx] = BatchResult{
				Identifier: identifier,
				Report:     rep,
				Err:        err,
			}
		}(i, id)
	}

	wg.Wait()

	return results
}
