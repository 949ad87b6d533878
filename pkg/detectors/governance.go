package detectors

import (
	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

// GovernanceDetector emits the categorical governance risks of upgradeable
// protocols. Governance risk is defined over protocols with upgradeable
// contracts, not bearer tokens, so tokens and unknown entities produce
// no findings.
type GovernanceDetector struct{}

// NewGovernanceDetector creates the governance detector.
func NewGovernanceDetector() *GovernanceDetector {
	return &GovernanceDetector{}
}

// Name returns the detector name.
func (d *GovernanceDetector) Name() string { return "governance" }

// Category returns the risk category this detector emits.
func (d *GovernanceDetector) Category() risk.Category { return risk.Governance }

// Detect returns the governance risk classes for protocol entities and an
// empty sequence for everything else.
func (d *GovernanceDetector) Detect(e entity.Entity) []risk.Finding {
	if e.Type != entity.TypeProtocol {
		return nil
	}

	return []risk.Finding{
		risk.NewFinding(
			risk.Governance,
			risk.High,
			"Upgradeable contracts controlled by small multisig",
			"Centralized upgrade authority allows protocol changes without broad consensus.",
		),
		risk.NewFinding(
			risk.Governance,
			risk.Medium,
			"Emergency admin powers detected",
			"Emergency controls introduce governance and legal risk.",
		),
	}
}

var _ Detector = (*GovernanceDetector)(nil)
