// Package signature implements the declared-signature adapter: it converts
// the external type library's wire representation into the engine's
// internal types.Type and picks the best-matching overload for a call site.
package signature

import "github.com/viant/typeguess/types"

// Provider is the external declared-signature-provider collaborator: it
// resolves `ClassName#method` / `ClassName.method` to one or more
// overloads, and exposes a class's ancestor chain for the simplifier and
// rescue-default lookups.
type Provider interface {
	// Overloads returns every declared overload for (class, method); an
	// empty result (with no error) means "class/method not found in the
	// library".
	Overloads(class, method string, singleton bool) ([]Overload, error)
	// Ancestors returns class's ancestor chain, most-derived first, ending
	// at the language root.
	Ancestors(class string) []string
	// RootException returns the well-known root exception class name, used
	// to default an unqualified `rescue` clause.
	RootException() string
}

// Overload is one declared signature for a method, carrying positional and
// keyword parameters, an optional block signature, and a return type.
type Overload struct {
	Params []types.Param
	Block  *types.MethodSignature
	Return *types.Type
}

// ToMethodSignature renders an Overload as a types.MethodSignature for
// hover display.
func (o Overload) ToMethodSignature() *types.MethodSignature {
	return &types.MethodSignature{Params: o.Params, Return: o.Return, Block: o.Block}
}
