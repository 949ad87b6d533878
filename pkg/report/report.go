// Package report assembles resolver output, detector findings, and the
// risk score into the canonical report structure, and renders it as
// indented JSON or plain text.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

// FindingView is the serialized form of one risk finding.
type FindingView struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Source      string `json:"source"`
}

// Report is the output artifact of one analysis request.
type Report struct {
	// ID uniquely identifies this report.
	ID string `json:"id"`

	// Protocol is the display name of the analyzed entity.
	Protocol string `json:"protocol"`

	// EntityType is the resolved entity type.
	EntityType string `json:"entity_type"`

	// Size metrics, each absent when the corresponding provider had no data.
	TVLUSD       *float64 `json:"tvl_usd,omitempty"`
	MarketCapUSD *float64 `json:"market_cap_usd,omitempty"`
	Volume24hUSD *float64 `json:"volume_24h_usd,omitempty"`

	// RiskScore is the aggregated score, always in [0,100].
	RiskScore int `json:"risk_score"`

	// RiskFindings are the serialized findings in detection order.
	RiskFindings []FindingView `json:"risk_findings"`

	// RiskSummary maps category name to finding count. Categories with
	// zero findings are omitted, so the counts sum to len(RiskFindings).
	RiskSummary map[string]int `json:"risk_summary"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`
}

// Build assembles a report from an entity, its score, and its findings.
// It is a pure projection: size fields copy over verbatim and findings
// keep their order.
func Build(e entity.Entity, score int, findings []risk.Finding) *Report {
	views := make([]FindingView, len(findings))
	for i, f := range findings {
		views[i] = FindingView{
			Category:    f.Category.String(),
			Severity:    f.Severity.String(),
			Description: f.Description,
			Rationale:   f.Rationale,
			Source:      f.Source,
		}
	}

	return &Report{
		ID:           uuid.New().String(),
		Protocol:     e.Name,
		EntityType:   e.Type.String(),
		TVLUSD:       e.TotalValueLocked,
		MarketCapUSD: e.MarketCapUSD,
		Volume24hUSD: e.Volume24hUSD,
		RiskScore:    score,
		RiskFindings: views,
		RiskSummary:  risk.CountByCategory(findings),
		GeneratedAt:  time.Now().UTC(),
	}
}
