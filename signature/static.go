package signature

import (
	"fmt"
	"sync"
)

// StaticProvider is an in-memory Provider: the declared-signature adapter
// is expected to be in-memory after its one-time load, and loading a real
// RBS/YARD/Sorbet export is an excluded external collaborator.
// StaticProvider is the concrete registry the engine and tests populate
// and query.
type StaticProvider struct {
	mu         sync.RWMutex
	overloads  map[string][]Overload // key: "Class#method" or "Class.method"
	ancestors  map[string][]string
	rootExc    string
}

// NewStaticProvider returns an empty provider; use SeedStdlib to populate a
// representative baseline.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		overloads: make(map[string][]Overload),
		ancestors: make(map[string][]string),
		rootExc:   "StandardError",
	}
}

func overloadKey(class, method string, singleton bool) string {
	sep := "#"
	if singleton {
		sep = "."
	}
	return class + sep + method
}

// Define registers one or more overloads for (class, method).
func (p *StaticProvider) Define(class, method string, singleton bool, overloads ...Overload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := overloadKey(class, method, singleton)
	p.overloads[key] = append(p.overloads[key], overloads...)
}

// DefineAncestors records class's ancestor chain, most-derived first.
func (p *StaticProvider) DefineAncestors(class string, chain ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ancestors[class] = chain
}

// SetRootException overrides the well-known root exception class name.
func (p *StaticProvider) SetRootException(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rootExc = name
}

// Overloads implements Provider.
func (p *StaticProvider) Overloads(class, method string, singleton bool) ([]Overload, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	key := overloadKey(class, method, singleton)
	found, ok := p.overloads[key]
	if !ok {
		return nil, nil // a miss means "class doesn't exist in library", not an error
	}
	out := make([]Overload, len(found))
	copy(out, found)
	return out, nil
}

// Ancestors implements Provider.
func (p *StaticProvider) Ancestors(class string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if chain, ok := p.ancestors[class]; ok {
		out := make([]string, len(chain))
		copy(out, chain)
		return out
	}
	return []string{class, "Object"}
}

// RootException implements Provider.
func (p *StaticProvider) RootException() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rootExc
}

// String renders a short diagnostic summary, useful from cmd/typeguessd.
func (p *StaticProvider) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("StaticProvider{%d signatures, %d classes}", len(p.overloads), len(p.ancestors))
}

var _ Provider = (*StaticProvider)(nil)
