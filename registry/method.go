package registry

import (
	"sync"

	"github.com/viant/typeguess/ir"
)

// MethodRegistry implements `class_scope -> method_name -> Def`. The
// class_scope for singleton methods is the encoded form
// `Outer::<Class:Outer>` to match declared-library conventions, matching
// the scope-id rule lowering uses.
//
// Grounded on graph.Package.LookupMethod / graph.Package.typeMap
// (inspector/graph/file.go), generalized from file-indexed types to a
// flat class-scope -> method map spanning every file of a project.
type MethodRegistry struct {
	mu      sync.RWMutex
	methods map[string]map[string]*ir.Def
}

// NewMethodRegistry returns an empty registry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{methods: make(map[string]map[string]*ir.Def)}
}

// Register records def under classScope (as produced by the scope-id rules
// Context.ScopeID computes).
func (r *MethodRegistry) Register(classScope string, def *ir.Def) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.methods[classScope]
	if !ok {
		bucket = make(map[string]*ir.Def)
		r.methods[classScope] = bucket
	}
	bucket[def.Name] = def
}

// Lookup finds a user-defined Def for method on classScope.
func (r *MethodRegistry) Lookup(classScope, method string) *ir.Def {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.methods[classScope]
	if !ok {
		return nil
	}
	return bucket[method]
}

// MethodNames returns the set of method names registered under classScope,
// used by the resolver's method-call-set heuristic.
func (r *MethodRegistry) MethodNames(classScope string) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.methods[classScope]
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(bucket))
	for name := range bucket {
		out[name] = true
	}
	return out
}

// Classes returns every class scope with at least one registered method.
func (r *MethodRegistry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.methods))
	for c := range r.methods {
		out = append(out, c)
	}
	return out
}
