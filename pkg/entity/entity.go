// Package entity provides the canonical entity model and the resolver that
// maps free-form identifiers (protocol slugs, token symbols) onto it.
package entity

// Type enumerates the kinds of entity the resolver can produce.
type Type string

const (
	// TypeProtocol is a DeFi protocol with its own TVL.
	TypeProtocol Type = "protocol"

	// TypeToken is a bearer token without protocol-level attributes.
	TypeToken Type = "token"

	// TypeUnknown is the low-information variant for unresolvable
	// identifiers. It is a valid outcome, not an error: downstream
	// components must handle it, and detectors emit nothing for it.
	TypeUnknown Type = "unknown"
)

// String returns the string representation of the entity type.
func (t Type) String() string {
	return string(t)
}

// Entity is the canonical subject of one analysis request. It is built
// fresh per request by the Resolver and immutable afterwards.
type Entity struct {
	// Identifier is the normalized lookup key.
	Identifier string `json:"identifier"`

	// Name is the display name. For unknown entities this is the
	// identifier exactly as the caller supplied it.
	Name string `json:"name"`

	// Type is the entity kind.
	Type Type `json:"type"`

	// TotalValueLocked is the TVL in USD. Protocols only; nil when the
	// TVL source had no data.
	TotalValueLocked *float64 `json:"total_value_locked,omitempty"`

	// PriceUSD is the spot price in USD, when known.
	PriceUSD *float64 `json:"price_usd,omitempty"`

	// MarketCapUSD is the market capitalization in USD, when known.
	MarketCapUSD *float64 `json:"market_cap_usd,omitempty"`

	// Volume24hUSD is the trailing 24h trading volume in USD, when known.
	Volume24hUSD *float64 `json:"volume_24h_usd,omitempty"`

	// Aliases maps provider names to provider-specific identifiers
	// (e.g. a DefiLlama slug). Empty for unknown entities.
	Aliases map[string]string `json:"aliases,omitempty"`
}

// IsKnown reports whether the entity resolved to a registered record.
func (e *Entity) IsKnown() bool {
	return e.Type != TypeUnknown
}

// Alias returns the provider-specific identifier for the given provider,
// falling back to the normalized identifier when no alias is registered.
func (e *Entity) Alias(provider string) string {
	if v, ok := e.Aliases[provider]; ok {
		return v
	}
	return e.Identifier
}
