// Package libcache implements the persistent library-signature cache: one
// JSON document per (library, version, transitive-dependency-hash), keyed
// and partitioned the way the core's library indexing step needs.
//
// Grounded on inspector/graph/document.go's Document/hash/JSON idiom --
// that file is the teacher's closest analogue to "serialize a code element
// to a persisted, hashed record" -- generalized from a single flat Document
// to the class -> method -> signature schema a type-inference cache needs.
package libcache

import "github.com/viant/typeguess/types"

// SerializedType is the tagged-object wire form of types.Type: one field
// set per Kind, matching the cache file format's _type discriminator.
type SerializedType struct {
	Type   string            `json:"_type"`
	Name   string            `json:"name,omitempty"`
	Elem   *SerializedType   `json:"elem,omitempty"`
	Key    *SerializedType   `json:"key,omitempty"`
	Value  *SerializedType   `json:"value,omitempty"`
	Fields []SerializedField `json:"fields,omitempty"`
	Elems  []*SerializedType `json:"elems,omitempty"`
	Types  []*SerializedType `json:"types,omitempty"`
	Sig    *SerializedSig    `json:"signature,omitempty"`
}

// SerializedField is one HashShape field entry.
type SerializedField struct {
	Name string          `json:"name"`
	Type *SerializedType `json:"type"`
}

// SerializedParam is one formal parameter of a SerializedSig.
type SerializedParam struct {
	Name string          `json:"name"`
	Kind int              `json:"kind"`
	Type *SerializedType `json:"type"`
}

// SerializedSig is a method's cached signature: return type plus
// parameters. Block signatures are not part of the persisted schema --
// a cache hit restores a plain callable shape, not block-parameter typing,
// which is re-derived locally from the declared-signature adapter instead.
type SerializedSig struct {
	ReturnType *SerializedType   `json:"return_type"`
	Params     []SerializedParam `json:"params"`
}

var kindNames = map[types.Kind]string{
	types.KindUnknown:         "Unknown",
	types.KindInstance:        "Instance",
	types.KindSingleton:       "Singleton",
	types.KindArray:           "Array",
	types.KindTuple:           "Tuple",
	types.KindHash:            "Hash",
	types.KindHashShape:       "HashShape",
	types.KindRange:           "Range",
	types.KindUnion:           "Union",
	types.KindTypeVar:         "TypeVar",
	types.KindSelf:            "Self",
	types.KindForwardingArgs:  "ForwardingArgs",
	types.KindMethodSignature: "MethodSignature",
}

var namesToKind = func() map[string]types.Kind {
	out := make(map[string]types.Kind, len(kindNames))
	for k, v := range kindNames {
		out[v] = k
	}
	return out
}()

// EncodeType converts a resolved types.Type into its persisted form.
func EncodeType(t *types.Type) *SerializedType {
	if t == nil {
		t = types.Unknown
	}
	out := &SerializedType{Type: kindNames[t.Kind]}
	switch t.Kind {
	case types.KindInstance, types.KindSingleton, types.KindTypeVar:
		out.Name = t.Name
	case types.KindArray, types.KindRange:
		out.Elem = EncodeType(t.Elem)
	case types.KindHash:
		out.Key = EncodeType(t.Key)
		out.Value = EncodeType(t.Value)
	case types.KindHashShape:
		out.Fields = make([]SerializedField, len(t.Fields))
		for i, f := range t.Fields {
			out.Fields[i] = SerializedField{Name: f.Name, Type: EncodeType(f.Type)}
		}
	case types.KindTuple:
		out.Elems = make([]*SerializedType, len(t.Elems))
		for i, e := range t.Elems {
			out.Elems[i] = EncodeType(e)
		}
	case types.KindUnion:
		out.Types = make([]*SerializedType, len(t.Types))
		for i, e := range t.Types {
			out.Types[i] = EncodeType(e)
		}
	case types.KindMethodSignature:
		out.Sig = EncodeSig(&types.MethodSignature{Params: t.Params, Return: t.Return, Block: t.Block})
	}
	return out
}

// DecodeType reverses EncodeType; an unrecognized _type decodes to Unknown,
// matching the "format mismatches force a rebuild" rule at the file level
// -- a field-level mismatch degrades the one field instead of the file.
func DecodeType(s *SerializedType) *types.Type {
	if s == nil {
		return types.Unknown
	}
	kind, ok := namesToKind[s.Type]
	if !ok {
		return types.Unknown
	}
	switch kind {
	case types.KindInstance:
		return types.NewInstance(s.Name)
	case types.KindSingleton:
		return types.NewSingleton(s.Name)
	case types.KindTypeVar:
		return types.NewTypeVar(s.Name)
	case types.KindArray:
		return types.NewArray(DecodeType(s.Elem))
	case types.KindRange:
		return types.NewRange(DecodeType(s.Elem))
	case types.KindHash:
		return types.NewHash(DecodeType(s.Key), DecodeType(s.Value))
	case types.KindHashShape:
		fields := make([]types.HashField, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = types.HashField{Name: f.Name, Type: DecodeType(f.Type)}
		}
		return types.NewHashShape(fields...)
	case types.KindTuple:
		elems := make([]*types.Type, len(s.Elems))
		for i, e := range s.Elems {
			elems[i] = DecodeType(e)
		}
		return types.NewTuple(elems...)
	case types.KindUnion:
		elems := make([]*types.Type, len(s.Types))
		for i, e := range s.Types {
			elems[i] = DecodeType(e)
		}
		return types.NewUnion(elems...)
	case types.KindSelf:
		return types.Self
	case types.KindForwardingArgs:
		return types.ForwardingArgs
	case types.KindMethodSignature:
		if s.Sig == nil {
			return types.Unknown
		}
		sig := DecodeSig(s.Sig)
		return types.NewMethodSignature(sig)
	}
	return types.Unknown
}

// EncodeSig converts a resolved MethodSignature to its persisted form,
// dropping the block sub-signature per the cache file schema.
func EncodeSig(sig *types.MethodSignature) *SerializedSig {
	if sig == nil {
		return nil
	}
	params := make([]SerializedParam, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = SerializedParam{Name: p.Name, Kind: int(p.Kind), Type: EncodeType(p.Type)}
	}
	return &SerializedSig{ReturnType: EncodeType(sig.Return), Params: params}
}

// DecodeSig reverses EncodeSig.
func DecodeSig(s *SerializedSig) *types.MethodSignature {
	if s == nil {
		return nil
	}
	params := make([]types.Param, len(s.Params))
	for i, p := range s.Params {
		params[i] = types.Param{Name: p.Name, Kind: types.ParamKind(p.Kind), Type: DecodeType(p.Type)}
	}
	return &types.MethodSignature{Params: params, Return: DecodeType(s.ReturnType)}
}
