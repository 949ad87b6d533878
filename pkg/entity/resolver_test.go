package entity

import "testing"

func TestResolveKnownProtocol(t *testing.T) {
	r := NewResolver(nil)

	e := r.Resolve("aave")

	if e.Type != TypeProtocol {
		t.Errorf("Type = %q, want %q", e.Type, TypeProtocol)
	}
	if e.Name != "Aave V3" {
		t.Errorf("Name = %q, want %q", e.Name, "Aave V3")
	}
	if e.Identifier != "aave" {
		t.Errorf("Identifier = %q, want %q", e.Identifier, "aave")
	}
	if !e.IsKnown() {
		t.Error("IsKnown() = false, want true")
	}
}

func TestResolveNormalizesInput(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"AAVE", "aave"},
		{"  aave  ", "aave"},
		{"Aave", "aave"},
		{"\tLINK\n", "link"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e := r.Resolve(tt.in)
			if e.Identifier != tt.want {
				t.Errorf("Identifier = %q, want %q", e.Identifier, tt.want)
			}
			if !e.IsKnown() {
				t.Errorf("resolve %q: IsKnown() = false, want true", tt.in)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewResolver(nil)

	e := r.Resolve("  NotAProtocol  ")

	if e.Type != TypeUnknown {
		t.Errorf("Type = %q, want %q", e.Type, TypeUnknown)
	}
	if e.IsKnown() {
		t.Error("IsKnown() = true, want false")
	}
	if e.Identifier != "notaprotocol" {
		t.Errorf("Identifier = %q, want normalized key", e.Identifier)
	}
	// Unknown entities keep the caller's raw input as the display name.
	if e.Name != "  NotAProtocol  " {
		t.Errorf("Name = %q, want raw input", e.Name)
	}
	if e.TotalValueLocked != nil || e.PriceUSD != nil || e.MarketCapUSD != nil {
		t.Error("unknown entity should carry no size attributes")
	}
	if len(e.Aliases) != 0 {
		t.Error("unknown entity should carry no aliases")
	}
}

func TestResolveTokenHasNoTVL(t *testing.T) {
	r := NewResolver(nil)

	e := r.Resolve("link")

	if e.Type != TypeToken {
		t.Errorf("Type = %q, want %q", e.Type, TypeToken)
	}
	if e.TotalValueLocked != nil {
		t.Error("resolver should not populate TVL; that is enrichment's job")
	}
}

func TestResolveCopiesAliases(t *testing.T) {
	reg := NewRegistry(map[string]Record{
		"foo": {
			Name:    "Foo",
			Type:    TypeToken,
			Aliases: map[string]string{AliasCoinGecko: "foo-token"},
		},
	})
	r := NewResolver(reg)

	e := r.Resolve("foo")
	e.Aliases[AliasCoinGecko] = "mutated"

	// Mutating the resolved entity must not leak into later resolutions.
	e2 := r.Resolve("foo")
	if e2.Aliases[AliasCoinGecko] != "foo-token" {
		t.Errorf("alias = %q, registry record was mutated", e2.Aliases[AliasCoinGecko])
	}
}

func TestEntityAlias(t *testing.T) {
	e := Entity{
		Identifier: "aave",
		Aliases:    map[string]string{AliasDefiLlama: "aave-v3"},
	}

	if got := e.Alias(AliasDefiLlama); got != "aave-v3" {
		t.Errorf("Alias(defillama) = %q, want %q", got, "aave-v3")
	}
	// Falls back to the identifier when no alias is registered.
	if got := e.Alias(AliasDexScreener); got != "aave" {
		t.Errorf("Alias(dexscreener) = %q, want fallback %q", got, "aave")
	}
}

func TestBuiltinRegistry(t *testing.T) {
	reg := BuiltinRegistry()

	for _, key := range []string{"aave", "makerdao", "link"} {
		if _, ok := reg.Lookup(key); !ok {
			t.Errorf("builtin registry missing %q", key)
		}
	}
	if reg.Len() != len(reg.Keys()) {
		t.Errorf("Len() = %d, Keys() has %d entries", reg.Len(), len(reg.Keys()))
	}
}
