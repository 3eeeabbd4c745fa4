package types

import "strings"

// Format renders t in the human-readable surface syntax shown on hover:
// tuples as `[A, B, C]`, arrays as `Array[Elem]`, hashes as `Hash[K, V]`,
// hash shapes as `{a: Integer, b: String}`, unions joined with ` | `, and
// the TrueClass|FalseClass special case as `bool`.
func Format(t *Type) string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case KindUnknown:
		return "Unknown"
	case KindInstance:
		return t.Name
	case KindSingleton:
		return "Class(" + t.Name + ")"
	case KindSelf:
		return "self"
	case KindForwardingArgs:
		return "..."
	case KindTypeVar:
		return t.Name
	case KindArray:
		return "Array[" + Format(t.Elem) + "]"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRange:
		return "Range[" + Format(t.Elem) + "]"
	case KindHash:
		return "Hash[" + Format(t.Key) + ", " + Format(t.Value) + "]"
	case KindHashShape:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + Format(f.Type)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindUnion:
		if isBoolUnion(t) {
			return "bool"
		}
		parts := make([]string, len(t.Types))
		for i, e := range t.Types {
			parts[i] = Format(e)
		}
		return strings.Join(parts, " | ")
	case KindMethodSignature:
		return FormatSignature(&MethodSignature{Params: t.Params, Return: t.Return, Block: t.Block})
	}
	return "Unknown"
}

// FormatSignature renders `(params) -> return`.
func FormatSignature(sig *MethodSignature) string {
	if sig == nil {
		return "() -> Unknown"
	}
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		parts = append(parts, formatParam(p))
	}
	ret := Format(sig.Return)
	if sig.Block != nil {
		ret += " {" + FormatSignature(sig.Block) + "}"
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}

func formatParam(p Param) string {
	name := p.Name
	switch p.Kind {
	case ParamOptional:
		name += "?"
	case ParamRest:
		name = "*" + name
	case ParamKeywordRequired:
		name += ":"
	case ParamKeywordOptional:
		name += ":?"
	case ParamKeywordRest:
		name = "**" + name
	case ParamBlock:
		name = "&" + name
	case ParamForwarding:
		name = "..."
	}
	if p.Type == nil {
		return name
	}
	return name + " " + Format(p.Type)
}
