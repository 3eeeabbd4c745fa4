package types

// AncestorProvider resolves the ancestor chain of a class, most-derived
// first, ending at the language root (e.g. Object). The declared-signature
// provider satisfies this, handed over by the resolver's ancestorAdapter,
// so Simplify never needs to import signature or resolver (which would be
// an import cycle).
type AncestorProvider interface {
	Ancestors(class string) []string
}

// Config tunes the simplifier's behavior.
type Config struct {
	MaxUnion int // default 3
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config { return Config{MaxUnion: 3} }

// Simplify collapses a union for display:
//  1. flatten nested unions (done by NewUnion already, repeated here for
//     safety since callers may hand-build a Union)
//  2. dedupe by structural equality (ditto)
//  3. replace a union of a class and its descendants with the common
//     ancestor, when that ancestor is itself present in the union
//  4. unwrap if size <= 1
//  5. collapse to Unknown if size exceeds cfg.MaxUnion
//
// Booleans are a special case: TrueClass|FalseClass is kept as a structural
// union (Format renders it as "bool") rather than collapsed -- a distinct
// rule from the general ancestor-narrowing and max-union rules.
func Simplify(t *Type, ancestors AncestorProvider, cfg Config) *Type {
	if t == nil || t.Kind != KindUnion {
		return t
	}
	if cfg.MaxUnion <= 0 {
		cfg = DefaultConfig()
	}

	flat := NewUnion(t.Types...)
	if flat.Kind != KindUnion {
		return flat
	}

	if isBoolUnion(flat) {
		return flat
	}

	narrowed := narrowByAncestry(flat, ancestors)
	if narrowed.Kind != KindUnion {
		return narrowed
	}

	if len(narrowed.Types) > cfg.MaxUnion {
		return Unknown
	}
	return narrowed
}

func isBoolUnion(t *Type) bool {
	if t.Kind != KindUnion || len(t.Types) != 2 {
		return false
	}
	names := map[string]bool{}
	for _, e := range t.Types {
		if e.Kind != KindInstance {
			return false
		}
		names[e.Name] = true
	}
	return names["TrueClass"] && names["FalseClass"]
}

// narrowByAncestry removes descendants from the union when their common
// ancestor is already a union member.
func narrowByAncestry(t *Type, ancestors AncestorProvider) *Type {
	if ancestors == nil || t.Kind != KindUnion {
		return t
	}

	instanceNames := map[string]bool{}
	for _, e := range t.Types {
		if e.Kind == KindInstance {
			instanceNames[e.Name] = true
		}
	}
	if len(instanceNames) < 2 {
		return t
	}

	redundant := map[string]bool{}
	for name := range instanceNames {
		for _, anc := range ancestors.Ancestors(name) {
			if anc == name {
				continue
			}
			if instanceNames[anc] {
				redundant[name] = true
				break
			}
		}
	}
	if len(redundant) == 0 {
		return t
	}

	var kept []*Type
	for _, e := range t.Types {
		if e.Kind == KindInstance && redundant[e.Name] {
			continue
		}
		kept = append(kept, e)
	}
	return NewUnion(kept...)
}
