package risk

import "fmt"

// SourceHeuristic is the default provenance tag for rule-based findings.
const SourceHeuristic = "heuristic"

// Finding is one detected risk condition. Findings are immutable once
// created: detectors build them, the scorer and report builder only read.
type Finding struct {
	// Category is the risk axis the finding belongs to.
	Category Category `json:"category"`

	// Description is a short statement of the risk condition.
	Description string `json:"description"`

	// Severity is the pre-assigned severity of the risk class.
	Severity Severity `json:"severity"`

	// Rationale explains why the condition is a risk.
	Rationale string `json:"rationale"`

	// Source is a provenance tag (defaults to "heuristic").
	Source string `json:"source"`
}

// NewFinding constructs a finding with the default heuristic source.
func NewFinding(category Category, severity Severity, description, rationale string) Finding {
	return Finding{
		Category:    category,
		Description: description,
		Severity:    severity,
		Rationale:   rationale,
		Source:      SourceHeuristic,
	}
}

// Validate checks that the finding's category and severity are inside the
// defined sets. A failure here is a detector bug and should stop the
// pipeline rather than be coerced, since it would corrupt scoring.
func (f Finding) Validate() error {
	if !f.Category.Valid() {
		return fmt.Errorf("finding %q: invalid category %q", f.Description, f.Category)
	}
	if !f.Severity.Valid() {
		return fmt.Errorf("finding %q: invalid severity %q", f.Description, f.Severity)
	}
	return nil
}

// ValidateAll validates a sequence of findings, returning the first error.
func ValidateAll(findings []Finding) error {
	for _, f := range findings {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CountByCategory counts findings per category. Categories with zero
// findings are omitted, so the counts always sum to the input length.
func CountByCategory(findings []Finding) map[string]int {
	counts := make(map[string]int, len(findings))
	for _, f := range findings {
		counts[f.Category.String()]++
	}
	return counts
}

// CountBySeverity holds per-severity finding counts.
type CountBySeverity struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Increment increases the count for the given severity.
func (c *CountBySeverity) Increment(s Severity) {
	c.Total++
	switch s {
	case Critical:
		c.Critical++
	case High:
		c.High++
	case Medium:
		c.Medium++
	case Low:
		c.Low++
	}
}

// HighestSeverity returns the highest severity with a non-zero count,
// or the zero Severity when no findings were counted.
func (c *CountBySeverity) HighestSeverity() Severity {
	if c.Critical > 0 {
		return Critical
	}
	if c.High > 0 {
		return High
	}
	if c.Medium > 0 {
		return Medium
	}
	if c.Low > 0 {
		return Low
	}
	return Severity("")
}
