// Package types implements the algebraic type language the inference engine
// reasons over: class instances, containers, unions and the handful of
// structural shapes needed to describe a dynamically typed program without
// a type checker behind it.
package types

import "sort"

// Kind discriminates the Type variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindInstance
	KindSingleton
	KindSelf
	KindArray
	KindTuple
	KindHash
	KindHashShape
	KindRange
	KindUnion
	KindTypeVar
	KindForwardingArgs
	KindMethodSignature
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindInstance:
		return "Instance"
	case KindSingleton:
		return "Singleton"
	case KindSelf:
		return "Self"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindHash:
		return "Hash"
	case KindHashShape:
		return "HashShape"
	case KindRange:
		return "Range"
	case KindUnion:
		return "Union"
	case KindTypeVar:
		return "TypeVar"
	case KindForwardingArgs:
		return "ForwardingArgs"
	case KindMethodSignature:
		return "MethodSignature"
	}
	return "Unknown"
}

// Type is the discriminated union every inferred or declared shape reduces to. Only the fields
// relevant to Kind are populated; callers should use the constructors below
// rather than building a Type literal directly so invariants (flattened,
// deduplicated unions) always hold.
type Type struct {
	Kind Kind

	// Instance / Singleton / TypeVar
	Name string

	// Array / Range: Elem is the element type.
	// Hash / HashShape: Elem is unused; a Hash's payload is Key/Value
	// below, a HashShape's is Fields.
	Elem *Type

	// Hash
	Key   *Type
	Value *Type

	// HashShape: ordered so formatting/round-tripping is deterministic.
	Fields []HashField

	// Tuple
	Elems []*Type

	// Union: always flat, deduplicated, len>=2.
	Types []*Type

	// MethodSignature
	Params     []Param
	Return     *Type
	Block      *MethodSignature
	IsOverload bool
}

// HashField is one symbol-keyed entry of a HashShape.
type HashField struct {
	Name string
	Type *Type
}

// ParamKind enumerates the parameter binding forms an IR Param node can take;
// MethodSignature.Params reuses the same vocabulary so a declared signature
// and an inferred Def signature are directly comparable.
type ParamKind int

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
	ParamKeywordRequired
	ParamKeywordOptional
	ParamKeywordRest
	ParamBlock
	ParamForwarding
)

// Param is one formal parameter of a MethodSignature.
type Param struct {
	Name string
	Kind ParamKind
	Type *Type
}

// MethodSignature is returned for hover on defs/calls; it is not a value
// type and never appears nested inside a Union or container.
type MethodSignature struct {
	Params []Param
	Return *Type
	Block  *MethodSignature
}

// Unknown is the top/bottom sentinel.
var Unknown = &Type{Kind: KindUnknown}

// NewInstance returns the canonical form for a class instance.
func NewInstance(fqName string) *Type { return &Type{Kind: KindInstance, Name: fqName} }

// NewSingleton returns the class-object type for fqName.
func NewSingleton(fqName string) *Type { return &Type{Kind: KindSingleton, Name: fqName} }

// Self resolves relative to the enclosing class context; it is substituted
// away by the resolver/adapter before reaching a caller.
var Self = &Type{Kind: KindSelf}

// ForwardingArgs represents the `...` forwarding parameter.
var ForwardingArgs = &Type{Kind: KindForwardingArgs}

// NewTypeVar returns an unresolved type-variable placeholder.
func NewTypeVar(name string) *Type { return &Type{Kind: KindTypeVar, Name: name} }

// NewArray returns a homogeneous array type.
func NewArray(elem *Type) *Type {
	if elem == nil {
		elem = Unknown
	}
	return &Type{Kind: KindArray, Elem: elem}
}

// NewTuple returns an ordered, fixed-arity array literal type.
func NewTuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Elems: elems}
}

// NewRange returns a Range over elem (Range(nil) is represented as
// Range(Unknown), covering the `nil..nil` edge case).
func NewRange(elem *Type) *Type {
	if elem == nil {
		elem = Unknown
	}
	return &Type{Kind: KindRange, Elem: elem}
}

// NewHash returns a nominal Hash(k, v).
func NewHash(key, value *Type) *Type {
	if key == nil {
		key = Unknown
	}
	if value == nil {
		value = Unknown
	}
	return &Type{Kind: KindHash, Key: key, Value: value}
}

// NewHashShape returns a structural, symbol-keyed record type. Fields are
// sorted by name so two shapes with the same field set compare equal
// structurally regardless of literal source order.
func NewHashShape(fields ...HashField) *Type {
	sorted := append([]HashField(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Type{Kind: KindHashShape, Fields: sorted}
}

// WithField returns a copy of a HashShape with field added or overwritten.
func (t *Type) WithField(name string, typ *Type) *Type {
	if t == nil || t.Kind != KindHashShape {
		return t
	}
	fields := make([]HashField, 0, len(t.Fields)+1)
	found := false
	for _, f := range t.Fields {
		if f.Name == name {
			fields = append(fields, HashField{Name: name, Type: typ})
			found = true
			continue
		}
		fields = append(fields, f)
	}
	if !found {
		fields = append(fields, HashField{Name: name, Type: typ})
	}
	return NewHashShape(fields...)
}

// TupleExtend returns a copy of a Tuple with v appended at index i, growing
// the tuple if i is the next index (array-literal index assignment).
func (t *Type) TupleExtend(i int, v *Type) *Type {
	if t == nil || t.Kind != KindTuple {
		return t
	}
	elems := append([]*Type(nil), t.Elems...)
	for len(elems) <= i {
		elems = append(elems, Unknown)
	}
	elems[i] = v
	return NewTuple(elems...)
}

// ToArray widens a Tuple to Array(Union(elems)); used when block iteration
// count is unknown.
func (t *Type) ToArray() *Type {
	if t == nil {
		return NewArray(Unknown)
	}
	if t.Kind != KindTuple {
		return t
	}
	return NewArray(NewUnion(t.Elems...))
}

// NewMethodSignature constructs a MethodSignature value Type wrapper so it
// can flow through the same resolver plumbing as a value type when hover
// needs to render it.
func NewMethodSignature(sig *MethodSignature) *Type {
	if sig == nil {
		return Unknown
	}
	return &Type{Kind: KindMethodSignature, Params: sig.Params, Return: sig.Return, Block: sig.Block}
}

// AsMethodSignature extracts the MethodSignature payload back out.
func (t *Type) AsMethodSignature() *MethodSignature {
	if t == nil || t.Kind != KindMethodSignature {
		return nil
	}
	return &MethodSignature{Params: t.Params, Return: t.Return, Block: t.Block}
}

// Equal reports structural equality, used by the union deduplication step.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUnknown, KindSelf, KindForwardingArgs:
		return true
	case KindInstance, KindSingleton, KindTypeVar:
		return a.Name == b.Name
	case KindArray, KindRange:
		return Equal(a.Elem, b.Elem)
	case KindHash:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KindHashShape:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case KindUnion:
		if len(a.Types) != len(b.Types) {
			return false
		}
		used := make([]bool, len(b.Types))
		for _, at := range a.Types {
			matched := false
			for i, bt := range b.Types {
				if used[i] {
					continue
				}
				if Equal(at, bt) {
					used[i] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	case KindMethodSignature:
		if len(a.Params) != len(b.Params) || !Equal(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if a.Params[i].Name != b.Params[i].Name || a.Params[i].Kind != b.Params[i].Kind || !Equal(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// NewUnion flattens nested unions, deduplicates by structural equality, and
// unwraps a singleton result. It does not apply ancestor-based narrowing or
// the max-union collapse — that is Simplify's job, which callers should run
// over any union the resolver produces.
func NewUnion(elems ...*Type) *Type {
	var flat []*Type
	var flatten func(*Type)
	flatten = func(t *Type) {
		if t == nil {
			return
		}
		if t.Kind == KindUnion {
			for _, e := range t.Types {
				flatten(e)
			}
			return
		}
		flat = append(flat, t)
	}
	for _, e := range elems {
		flatten(e)
	}

	var deduped []*Type
	for _, t := range flat {
		dup := false
		for _, u := range deduped {
			if Equal(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}

	switch len(deduped) {
	case 0:
		return Unknown
	case 1:
		return deduped[0]
	default:
		return &Type{Kind: KindUnion, Types: deduped}
	}
}
