// Package detectors provides the risk-signal detectors and the registry
// that fixes their pipeline order.
//
// Detectors are total functions over the Entity type: they never fail for
// a well-formed entity, they only return zero or more findings. Each
// detector owns one risk category and signals presence of a risk class,
// not a graded measurement.
package detectors

import (
	"sync"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

// Detector is the interface for risk-signal detectors.
// Implement this interface to add a new risk category to the pipeline.
type Detector interface {
	// Name returns the detector name (e.g., "governance")
	Name() string

	// Category returns the risk category this detector emits.
	Category() risk.Category

	// Detect inspects the entity and returns zero or more findings.
	// It must not fail for a well-formed entity.
	Detect(e entity.Entity) []risk.Finding
}

// =============================================================================
// Detector Registry - fixed-order plugin system for detectors
// =============================================================================

// Registry manages registered detectors. Registration order is pipeline
// order: findings concatenate in the order detectors were added.
type Registry struct {
	mu      sync.RWMutex
	ordered []Detector
	byName  map[string]Detector
}

// NewRegistry creates an empty detector registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Detector),
	}
}

// DefaultRegistry creates a registry with the built-in detectors in their
// canonical order: governance, then oracle, then liquidity.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGovernanceDetector())
	r.Register(NewOracleDetector())
	r.Register(NewLiquidityDetector())
	return r
}

// Register adds a detector to the end of the pipeline. Registering a
// detector with an existing name replaces it in place, keeping its slot.
func (r *Registry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.Name()]; exists {
		for i, existing := range r.ordered {
			if existing.Name() == d.Name() {
				r.ordered[i] = d
				break
			}
		}
	} else {
		r.ordered = append(r.ordered, d)
	}
	r.byName[d.Name()] = d
}

// Get returns a detector by name.
func (r *Registry) Get(name string) (Detector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// List returns the detectors in pipeline order.
func (r *Registry) List() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Detector, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns the detector names in pipeline order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		names[i] = d.Name()
	}
	return names
}

// DetectAll runs every detector against the entity and concatenates the
// findings in registration order. Unknown entities produce no findings.
func (r *Registry) DetectAll(e entity.Entity) []risk.Finding {
	if e.Type == entity.TypeUnknown {
		return nil
	}

	var findings []risk.Finding
	for _, d := range r.List() {
		findings = append(findings, d.Detect(e)...)
	}
	return findings
}
