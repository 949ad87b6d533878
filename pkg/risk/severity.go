// Package risk provides the canonical risk vocabulary shared across the SDK:
// severity levels, risk categories, and the Finding type emitted by detectors.
//
// IMPORTANT: Severity and Category are closed sets. A finding constructed
// outside these sets is a programming error in a detector, not bad input,
// and Finding.Validate treats it as such.
package risk

import "strings"

// Severity represents the severity level of a risk finding.
type Severity string

const (
	// Critical - the risk class alone can sink the entity.
	Critical Severity = "critical"

	// High - serious risk class that should dominate a listing decision.
	High Severity = "high"

	// Medium - moderate risk class, material but survivable.
	Medium Severity = "medium"

	// Low - minor risk class, noted for completeness.
	Low Severity = "low"
)

// AllSeverities returns all severity levels in order of priority (highest first).
func AllSeverities() []Severity {
	return []Severity{Critical, High, Medium, Low}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Valid reports whether the severity is one of the defined levels.
func (s Severity) Valid() bool {
	switch s {
	case Critical, High, Medium, Low:
		return true
	}
	return false
}

// Priority returns the numeric priority of the severity level.
// Higher numbers = higher priority.
func (s Severity) Priority() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// IsHigherThan returns true if this severity is higher than the other.
func (s Severity) IsHigherThan(other Severity) bool {
	return s.Priority() > other.Priority()
}

// IsAtLeast returns true if this severity is at least as high as the other.
func (s Severity) IsAtLeast(other Severity) bool {
	return s.Priority() >= other.Priority()
}

// SeverityFromString normalizes common severity spellings to a Severity.
// Returns the zero Severity (invalid) for anything outside the closed set.
func SeverityFromString(v string) Severity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "critical", "crit":
		return Critical
	case "high":
		return High
	case "medium", "moderate", "med":
		return Medium
	case "low":
		return Low
	default:
		return Severity("")
	}
}

// CompareSeverity returns:
//
//	-1 if a < b (a is lower severity)
//	 0 if a == b
//	+1 if a > b (a is higher severity)
func CompareSeverity(a, b Severity) int {
	pa, pb := a.Priority(), b.Priority()
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the higher of two severity levels.
func MaxSeverity(a, b Severity) Severity {
	if a.IsHigherThan(b) {
		return a
	}
	return b
}
