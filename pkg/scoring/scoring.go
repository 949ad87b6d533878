// Package scoring aggregates risk findings into a bounded score.
//
// The model is deliberately simple and fully deterministic: a fixed base,
// additive severity weights, and a flat penalty for small protocols.
// Additive aggregation keeps the score monotonic in both the number and
// the severity of findings.
package scoring

import (
	"github.com/defisentry/sdk/pkg/entity"
	"github.com/defisentry/sdk/pkg/risk"
)

const (
	// BaseScore is the starting score before any findings apply.
	BaseScore = 50

	// MinScore and MaxScore bound the final score.
	MinScore = 0
	MaxScore = 100

	// SmallTVLThreshold is the TVL in USD below which a protocol is
	// considered small enough to carry elevated risk.
	SmallTVLThreshold = 100_000_000

	// SmallTVLPenalty is the flat penalty applied to small protocols.
	SmallTVLPenalty = 10
)

// severityWeights is the canonical severity -> weight table. Weights are
// summed across findings, not maxed: multiple findings compound.
var severityWeights = map[risk.Severity]int{
	risk.Low:      5,
	risk.Medium:   10,
	risk.High:     20,
	risk.Critical: 30,
}

// SeverityWeight returns the score weight for a severity level.
func SeverityWeight(s risk.Severity) int {
	return severityWeights[s]
}

// Score computes the risk score for an entity from its findings.
//
// The result always lies in [MinScore, MaxScore]. Both ends are clamped:
// the current weight table cannot drive the score below the base, but the
// floor must hold even if the base or weights change.
func Score(entityType entity.Type, tvl *float64, findings []risk.Finding) int {
	score := BaseScore

	for _, f := range findings {
		score += severityWeights[f.Severity]
	}

	if entityType == entity.TypeProtocol && tvl != nil && *tvl < SmallTVLThreshold {
		score += SmallTVLPenalty
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < MinScore {
		score = MinScore
	}
	return score
}
