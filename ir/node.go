// Package ir implements the reverse-dependency IR graph every node stores
// a byte offset, an ordered list of dependency node references, and a
// stable node_hash that combined with an enclosing scope id forms the
// node_key used for memoization and the file index.
package ir

import "fmt"

// NodeKey is `kind:discriminator:offset` combined with the enclosing scope
// id, unique within one file.
type NodeKey string

// NewNodeKey builds the canonical key. discriminator disambiguates nodes
// that would otherwise collide at the same offset/kind (e.g. a Param's
// name, a Call's method name).
func NewNodeKey(scope, kind, discriminator string, offset int) NodeKey {
	return NodeKey(fmt.Sprintf("%s#%s:%s:%d", scope, kind, discriminator, offset))
}

// Node is the closed sum type of IR node kinds. A new variant is added only
// when the underlying construct it models genuinely has no existing fit.
type Node interface {
	Key() NodeKey
	Offset() int
	Deps() []Node
	Scope() string
	irNode()
}

// base is embedded by every concrete node and supplies the bookkeeping
// fields common to all of them.
type base struct {
	key    NodeKey
	offset int
	scope  string
	deps   []Node
}

func (b *base) Key() NodeKey   { return b.key }
func (b *base) Offset() int    { return b.offset }
func (b *base) Scope() string  { return b.scope }
func (b *base) Deps() []Node   { return b.deps }
func (*base) irNode()          {}

func newBase(scope, kind, discriminator string, offset int, deps ...Node) base {
	return base{
		key:    NewNodeKey(scope, kind, discriminator, offset),
		offset: offset,
		scope:  scope,
		deps:   deps,
	}
}

// CallSet is the mutable method-name list a LocalWrite shares, by pointer,
// with every LocalRead derived from it. Kept as a pointer-to-slice-header
// wrapper rather than re-derived on demand, since re-deriving would mean
// walking every read back to its write on each lookup.
type CallSet struct {
	Methods []string
}

// Add records a call site's method name if not already present.
func (c *CallSet) Add(method string) {
	for _, m := range c.Methods {
		if m == method {
			return
		}
	}
	c.Methods = append(c.Methods, method)
}
