// Package lowering turns an ast.Program into the IR graph: name binding,
// scope construction, control-flow merges, container-mutation tracking and
// registry population all happen here. Grounded on analyzer.Analyzer's
// recursive walk-dispatch-by-node-kind with a parent-chained Scope
// (analyzer/node.go, analyzer/linage/scope.go), generalized from
// tree-sitter node kinds to the `ast` package's closed vocabulary and from a
// push data-flow model to building a persistent reverse-dependency IR.
package lowering

import (
	"fmt"

	"github.com/viant/typeguess/ir"
)

// ScopeType enumerates the lexical scope kinds the lowerer tracks.
type ScopeType int

const (
	ScopeTopLevel ScopeType = iota
	ScopeClass
	ScopeMethod
	ScopeBlock
)

// Context is one lexical scope during lowering.
type Context struct {
	parent *Context

	variables        map[string]*ir.LocalWrite
	instanceVars     map[string]*instanceVarSlot // class-level, shared across method contexts of the same class
	narrowedIvars    map[string]ir.Node          // method-local override of instanceVars
	constants        map[string]ir.Node

	scopeType    ScopeType
	classPath    []string
	methodName   string
	isSingleton  bool

	file *ir.File
}

// instanceVarSlot is shared by every Context whose classPath matches, so an
// ivar write recorded in one method is visible from another: ivar writes
// are registered at class level, not per-method.
type instanceVarSlot struct {
	writes []*ir.IvarWrite
}

// NewTopLevel starts a fresh lowering context for file.
func NewTopLevel(file *ir.File) *Context {
	return &Context{
		variables:     map[string]*ir.LocalWrite{},
		instanceVars:  map[string]*instanceVarSlot{},
		narrowedIvars: map[string]ir.Node{},
		constants:     map[string]ir.Node{},
		scopeType:     ScopeTopLevel,
		file:          file,
	}
}

// fork makes a child context of kind scopeType; variable/constant lookups
// in the child fall through to the parent via the map chain walked in
// Lookup*, not by copying.
func (c *Context) fork(scopeType ScopeType) *Context {
	child := &Context{
		parent:       c,
		variables:    map[string]*ir.LocalWrite{},
		narrowedIvars: map[string]ir.Node{},
		constants:    map[string]ir.Node{},
		scopeType:    scopeType,
		classPath:    c.classPath,
		methodName:   c.methodName,
		isSingleton:  c.isSingleton,
		file:         c.file,
	}
	// instanceVars is class-scoped, shared by reference across the whole
	// class body (all methods), not forked per-method.
	child.instanceVars = c.instanceVars
	return child
}

// forkClass enters a new class/module body.
func (c *Context) forkClass(name string) *Context {
	child := c.fork(ScopeClass)
	child.classPath = append(append([]string{}, c.classPath...), name)
	child.instanceVars = map[string]*instanceVarSlot{} // new class = new ivar namespace
	child.methodName = ""
	child.isSingleton = false
	return child
}

// forkMethod enters a method body.
func (c *Context) forkMethod(name string, singleton bool) *Context {
	child := c.fork(ScopeMethod)
	child.methodName = name
	child.isSingleton = singleton
	return child
}

// forkBlock enters a block body (`do...end` / `{...}`).
func (c *Context) forkBlock() *Context {
	return c.fork(ScopeBlock)
}

// ClassName joins the class path into the language's `::`-qualified form.
func (c *Context) ClassName() string {
	out := ""
	for i, p := range c.classPath {
		if i > 0 {
			out += "::"
		}
		out += p
	}
	return out
}

// ScopeID computes the location-index key for the current scope:
//   class scope:             Outer::Inner
//   method scope:            Outer::Inner#method
//   singleton method scope:  Outer::<Class:Inner>#method
func (c *Context) ScopeID() string {
	class := c.ClassName()
	switch c.scopeType {
	case ScopeTopLevel:
		return "main"
	case ScopeClass:
		return class
	case ScopeMethod, ScopeBlock:
		if c.methodName == "" {
			// a block directly in a class/top-level body has no method name
			return class
		}
		if c.isSingleton {
			outer, inner := splitOuterInner(class)
			return fmt.Sprintf("%s<Class:%s>#%s", outer, inner, c.methodName)
		}
		return fmt.Sprintf("%s#%s", class, c.methodName)
	}
	return class
}

// splitOuterInner splits "Outer::Inner" into ("Outer::", "Inner"); for an
// unqualified class name it returns ("", name).
func splitOuterInner(class string) (outer, inner string) {
	idx := -1
	for i := len(class) - 1; i >= 1; i-- {
		if class[i] == ':' && class[i-1] == ':' {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		return "", class
	}
	return class[:idx+2], class[idx+2:]
}

// LookupVariable walks the context chain for a bound local.
func (c *Context) LookupVariable(name string) *ir.LocalWrite {
	for cur := c; cur != nil; cur = cur.parent {
		if w, ok := cur.variables[name]; ok {
			return w
		}
	}
	return nil
}

// BindVariable binds name to write in the current (innermost) scope.
func (c *Context) BindVariable(name string, write *ir.LocalWrite) {
	c.variables[name] = write
}

// RebindOuter updates name's binding in the nearest ancestor scope that
// already owns it, without touching the current scope -- the
// container-mutation "propagate the new write to the parent context" rule,
// so a mutation inside a block remains visible to reads after the block
// exits rather than being lost with the block's own variable map.
func (c *Context) RebindOuter(name string, write *ir.LocalWrite) {
	for cur := c.parent; cur != nil; cur = cur.parent {
		if _, ok := cur.variables[name]; ok {
			cur.variables[name] = write
			return
		}
	}
}

// LookupConstant walks the context chain for a bound constant.
func (c *Context) LookupConstant(name string) ir.Node {
	for cur := c; cur != nil; cur = cur.parent {
		if n, ok := cur.constants[name]; ok {
			return n
		}
	}
	return nil
}

// BindConstant records a constant's last-assigned binding.
func (c *Context) BindConstant(name string, n ir.Node) {
	c.constants[name] = n
}

// LookupIvar returns the method-local narrowed override if present,
// otherwise the class-level write list. A narrowed binding overrides the
// class-level writes for the remainder of the current method only.
func (c *Context) LookupIvar(name string) (narrowed ir.Node, classWrites []*ir.IvarWrite) {
	for cur := c; cur != nil; cur = cur.parent {
		if n, ok := cur.narrowedIvars[name]; ok {
			return n, nil
		}
		if cur.scopeType == ScopeMethod {
			break // narrowing doesn't cross a method boundary
		}
	}
	if slot, ok := c.instanceVars[name]; ok {
		return nil, slot.writes
	}
	return nil, nil
}

// NarrowIvar overrides name with n for the remainder of the current method.
func (c *Context) NarrowIvar(name string, n ir.Node) {
	c.narrowedIvars[name] = n
}

// RegisterIvarWrite records an ivar write at class level.
func (c *Context) RegisterIvarWrite(name string, w *ir.IvarWrite) {
	slot, ok := c.instanceVars[name]
	if !ok {
		slot = &instanceVarSlot{}
		c.instanceVars[name] = slot
	}
	slot.writes = append(slot.writes, w)
}

// IsInsideBlock reports whether the current context is itself a block
// scope, used to decide the container-mutation "outer variable" widening
// rule: a variable counts as "outer" when it was bound in an ancestor
// reached by crossing at least one block-fork boundary.
func (c *Context) IsInsideBlock() bool {
	return c.scopeType == ScopeBlock
}

// DefinedInOuterScope reports whether write was bound in an ancestor
// context strictly outside the current block chain (crossing at least one
// block fork), used by container-mutation widening.
func (c *Context) DefinedInOuterScope(write *ir.LocalWrite) bool {
	if write == nil {
		return false
	}
	crossedBlock := false
	for cur := c; cur != nil; cur = cur.parent {
		if cur.scopeType == ScopeBlock {
			crossedBlock = true
		}
		if w, ok := cur.variables[write.Name]; ok && w == write {
			return crossedBlock && cur != c
		}
	}
	return false
}
