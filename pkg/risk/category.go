package risk

import "strings"

// Category represents the risk axis a finding belongs to.
// The set is closed for validation purposes but open to extension:
// registering a new detector category means adding a constant here.
type Category string

const (
	// Governance - upgrade authority, admin keys, voting capture.
	Governance Category = "Governance"

	// Oracle - dependency on external price feeds and reference markets.
	Oracle Category = "Oracle"

	// Liquidity - concentration, exit risk, slippage under stress.
	Liquidity Category = "Liquidity"

	// Security - contract-level vulnerabilities and audit posture.
	Security Category = "Security"

	// Operational - team, key management, and process risk.
	Operational Category = "Operational"
)

// AllCategories returns all defined categories in detector pipeline order.
func AllCategories() []Category {
	return []Category{Governance, Oracle, Liquidity, Security, Operational}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether the category is one of the defined axes.
func (c Category) Valid() bool {
	switch c {
	case Governance, Oracle, Liquidity, Security, Operational:
		return true
	}
	return false
}

// CategoryFromString normalizes a category name to a Category.
// Returns the zero Category (invalid) for unrecognized input.
func CategoryFromString(v string) Category {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "governance":
		return Governance
	case "oracle":
		return Oracle
	case "liquidity":
		return Liquidity
	case "security":
		return Security
	case "operational":
		return Operational
	default:
		return Category("")
	}
}
