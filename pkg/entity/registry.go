package entity

// Provider alias keys used in registry records. Providers look up their
// own identifier with Entity.Alias.
const (
	AliasDefiLlama   = "defillama"
	AliasCoinGecko   = "coingecko"
	AliasDexScreener = "dexscreener"
)

// Record is one registry entry: the static facts known about an entity
// before any market data is fetched.
type Record struct {
	Name    string            `yaml:"name" json:"name"`
	Type    Type              `yaml:"type" json:"type"`
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

// Registry is an immutable identifier -> Record lookup table. It is built
// once at process start and read-only afterwards, so it needs no locking.
type Registry struct {
	records map[string]Record
}

// NewRegistry creates a registry from the given records. Keys are expected
// to be lowercase; callers normally go through BuiltinRegistry.
func NewRegistry(records map[string]Record) *Registry {
	m := make(map[string]Record, len(records))
	for k, v := range records {
		m[k] = v
	}
	return &Registry{records: m}
}

// Lookup returns the record for a normalized key.
func (r *Registry) Lookup(key string) (Record, bool) {
	rec, ok := r.records[key]
	return rec, ok
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.records)
}

// Keys returns the registered identifiers in no particular order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.records))
	for k := range r.records {
		keys = append(keys, k)
	}
	return keys
}

// BuiltinRegistry returns the default registry of well-known protocols
// and tokens with their provider aliases.
func BuiltinRegistry() *Registry {
	return NewRegistry(map[string]Record{
		"aave": {
			Name: "Aave V3",
			Type: TypeProtocol,
			Aliases: map[string]string{
				AliasDefiLlama: "aave-v3",
				AliasCoinGecko: "aave",
			},
		},
		"makerdao": {
			Name: "MakerDAO",
			Type: TypeProtocol,
			Aliases: map[string]string{
				AliasDefiLlama: "makerdao",
				AliasCoinGecko: "maker",
			},
		},
		"compound": {
			Name: "Compound V3",
			Type: TypeProtocol,
			Aliases: map[string]string{
				AliasDefiLlama: "compound-v3",
				AliasCoinGecko: "compound-governance-token",
			},
		},
		"curve": {
			Name: "Curve Finance",
			Type: TypeProtocol,
			Aliases: map[string]string{
				AliasDefiLlama: "curve-dex",
				AliasCoinGecko: "curve-dao-token",
			},
		},
		"lido": {
			Name: "Lido",
			Type: TypeProtocol,
			Aliases: map[string]string{
				AliasDefiLlama: "lido",
				AliasCoinGecko: "lido-dao",
			},
		},
		"link": {
			Name: "Chainlink",
			Type: TypeToken,
			Aliases: map[string]string{
				AliasCoinGecko:   "chainlink",
				AliasDexScreener: "link",
			},
		},
		"uni": {
			Name: "Uniswap",
			Type: TypeToken,
			Aliases: map[string]string{
				AliasCoinGecko:   "uniswap",
				AliasDexScreener: "uni",
			},
		},
	})
}
