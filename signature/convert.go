package signature

import "github.com/viant/typeguess/types"

// ExternalKind enumerates the wire shapes the declared-signature provider
// may hand back, mirroring the handful of forms RBS/Sorbet-style signature
// exports use.
type ExternalKind int

const (
	ExtInstance ExternalKind = iota
	ExtArray
	ExtHash
	ExtRange
	ExtTuple
	ExtUnion
	ExtTypeVar
	ExtSelf
	ExtBase // untyped "the base instance type", e.g. BasicObject
	ExtVoid
)

// ExternalType is the generic external representation the adapter converts
// from. A concrete provider (RBS, YARD, Sorbet...) maps its own wire
// format into this shape before handing it to Convert.
type ExternalType struct {
	Kind     ExternalKind
	Name     string // ExtInstance / ExtTypeVar
	Elem     *ExternalType
	Key      *ExternalType
	Value    *ExternalType
	Elems    []*ExternalType // ExtTuple / ExtUnion
}

// Convert implements the structural conversion rules:
//   - class instances -> Instance(fully_qualified_name)
//   - Array/Hash/Range receive special-cased wrappers preserving element/
//     key/value types
//   - type variables -> TypeVar(name)
//   - unions -> Union
//   - tuples -> Array(Union(element_types))
//   - Self -> Self
//   - the base instance type -> Unknown
func Convert(e *ExternalType) *types.Type {
	if e == nil {
		return types.Unknown
	}
	switch e.Kind {
	case ExtInstance:
		return types.NewInstance(e.Name)
	case ExtArray:
		return types.NewArray(Convert(e.Elem))
	case ExtHash:
		return types.NewHash(Convert(e.Key), Convert(e.Value))
	case ExtRange:
		return types.NewRange(Convert(e.Elem))
	case ExtTuple:
		elems := make([]*types.Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = Convert(el)
		}
		return types.NewArray(types.NewUnion(elems...))
	case ExtUnion:
		elems := make([]*types.Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = Convert(el)
		}
		return types.NewUnion(elems...)
	case ExtTypeVar:
		return types.NewTypeVar(e.Name)
	case ExtSelf:
		return types.Self
	case ExtBase, ExtVoid:
		return types.Unknown
	}
	return types.Unknown
}
