package detectors

import (
	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

// LiquidityDetector emits the liquidity concentration risk class,
// independent of entity type.
type LiquidityDetector struct{}

// NewLiquidityDetector creates the liquidity detector.
func NewLiquidityDetector() *LiquidityDetector {
	return &LiquidityDetector{}
}

// Name returns the detector name.
func (d *LiquidityDetector) Name() string { return "liquidity" }

// Category returns the risk category this detector emits.
func (d *LiquidityDetector) Category() risk.Category { return risk.Liquidity }

// Detect returns the liquidity risk class, independent of entity type.
func (d *LiquidityDetector) Detect(e entity.Entity) []risk.Finding {
	return []risk.Finding{
		risk.NewFinding(
			risk.Liquidity,
			risk.Medium,
			"Liquidity concentration risk",
			"Liquidity may be concentrated in a small number of pools, increasing slippage and exit risk.",
		),
	}
}

var _ Detector = (*LiquidityDetector)(nil)
