package signature

import "github.com/viant/typeguess/types"

// SeedStdlib populates a small representative stdlib signature table --
// enough for the resolver and its tests to exercise declared-signature
// lookup, block-parameter substitution and overload scoring without a real
// external type library. Grounded on the kind of minimal bootstrap fact
// tables real language-server projects ship (see DESIGN.md).
func SeedStdlib(p *StaticProvider) {
	elem := types.NewTypeVar("Elem")
	k := types.NewTypeVar("K")
	v := types.NewTypeVar("V")

	p.Define("Array", "map", false, Overload{
		Params: []types.Param{{Name: "block", Kind: types.ParamBlock}},
		Block:  &types.MethodSignature{Params: []types.Param{{Name: "x", Kind: types.ParamRequired, Type: elem}}, Return: types.NewTypeVar("R")},
		Return: types.NewArray(types.NewTypeVar("R")),
	})
	p.Define("Array", "each", false, Overload{
		Params: []types.Param{{Name: "block", Kind: types.ParamBlock}},
		Block:  &types.MethodSignature{Params: []types.Param{{Name: "x", Kind: types.ParamRequired, Type: elem}}, Return: types.Unknown},
		Return: types.NewArray(elem),
	})
	p.Define("Array", "first", false, Overload{Return: elem})
	p.Define("Array", "<<", false, Overload{
		Params: []types.Param{{Name: "v", Kind: types.ParamRequired, Type: elem}},
		Return: types.NewArray(elem),
	})
	p.Define("Array", "[]", false, Overload{
		Params: []types.Param{{Name: "i", Kind: types.ParamRequired, Type: types.NewInstance("Integer")}},
		Return: elem,
	})

	p.Define("Hash", "[]=", false, Overload{
		Params: []types.Param{{Name: "key", Kind: types.ParamRequired, Type: k}, {Name: "value", Kind: types.ParamRequired, Type: v}},
		Return: v,
	})
	p.Define("Hash", "[]", false, Overload{
		Params: []types.Param{{Name: "key", Kind: types.ParamRequired, Type: k}},
		Return: v,
	})

	p.Define("String", "+", false, Overload{
		Params: []types.Param{{Name: "other", Kind: types.ParamRequired, Type: types.NewInstance("String")}},
		Return: types.NewInstance("String"),
	})
	p.Define("String", "length", false, Overload{Return: types.NewInstance("Integer")})

	p.Define("Integer", "+", false, Overload{
		Params: []types.Param{{Name: "other", Kind: types.ParamRequired, Type: types.NewInstance("Integer")}},
		Return: types.NewInstance("Integer"),
	})
	p.Define("Integer", "to_s", false, Overload{Return: types.NewInstance("String")})

	p.DefineAncestors("Integer", "Integer", "Numeric", "Comparable", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("Float", "Float", "Numeric", "Comparable", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("String", "String", "Comparable", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("Array", "Array", "Enumerable", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("Hash", "Hash", "Enumerable", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("Symbol", "Symbol", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("NilClass", "NilClass", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("TrueClass", "TrueClass", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("FalseClass", "FalseClass", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("StandardError", "StandardError", "Exception", "Object", "Kernel", "BasicObject")
	p.DefineAncestors("RuntimeError", "RuntimeError", "StandardError", "Exception", "Object", "Kernel", "BasicObject")

	p.SetRootException("StandardError")
}
