package entity

import "strings"

// Resolver maps free-form identifiers to canonical entities against a
// static registry. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by the given registry.
// A nil registry falls back to the builtin one.
func NewResolver(registry *Registry) *Resolver {
	if registry == nil {
		registry = BuiltinRegistry()
	}
	return &Resolver{registry: registry}
}

// Resolve normalizes the identifier (trim + lowercase) and looks it up.
// Unregistered identifiers yield an unknown entity carrying the raw input
// as its name; this is a valid low-information result, not an error.
func (r *Resolver) Resolve(identifier string) Entity {
	key := strings.ToLower(strings.TrimSpace(identifier))

	rec, ok := r.registry.Lookup(key)
	if !ok {
		return Entity{
			Identifier: key,
			Name:       identifier,
			Type:       TypeUnknown,
		}
	}

	aliases := make(map[string]string, len(rec.Aliases))
	for k, v := range rec.Aliases {
		aliases[k] = v
	}

	return Entity{
		Identifier: key,
		Name:       rec.Name,
		Type:       rec.Type,
		Aliases:    aliases,
	}
}
