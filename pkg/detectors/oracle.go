package detectors

import (
	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

// OracleDetector emits findings about dependency on third-party price
// feeds. The risk classes apply to protocols and tokens alike.
type OracleDetector struct{}

// NewOracleDetector creates the oracle detector.
func NewOracleDetector() *OracleDetector {
	return &OracleDetector{}
}

// Name returns the detector name.
func (d *OracleDetector) Name() string { return "oracle" }

// Category returns the risk category this detector emits.
func (d *OracleDetector) Category() risk.Category { return risk.Oracle }

// Detect returns the oracle risk classes, independent of entity type.
func (d *OracleDetector) Detect(e entity.Entity) []risk.Finding {
	return []risk.Finding{
		risk.NewFinding(
			risk.Oracle,
			risk.Medium,
			"Dependency on external price feeds",
			"Reliance on third-party oracles introduces trust assumptions.",
		),
		risk.NewFinding(
			risk.Oracle,
			risk.High,
			"Oracle price feeds may rely on low-liquidity markets",
			"Low-liquidity reference markets increase manipulation risk.",
		),
	}
}

var _ Detector = (*OracleDetector)(nil)
