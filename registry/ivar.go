package registry

import (
	"sync"

	"github.com/viant/typeguess/ir"
)

// VarRegistry implements the `class -> name -> write_nodes[]` shape shared
// by both ivar and cvar registries; one instance of each is held by the
// engine session.
type VarRegistry struct {
	mu     sync.RWMutex
	writes map[string]map[string][]ir.Node
}

// NewVarRegistry returns an empty registry.
func NewVarRegistry() *VarRegistry {
	return &VarRegistry{writes: make(map[string]map[string][]ir.Node)}
}

// RegisterWrite aggregates a write node under class/name, across files.
func (r *VarRegistry) RegisterWrite(class, name string, write ir.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.writes[class]
	if !ok {
		bucket = make(map[string][]ir.Node)
		r.writes[class] = bucket
	}
	bucket[name] = append(bucket[name], write)
}

// Writes returns every write node recorded for class/name.
func (r *VarRegistry) Writes(class, name string) []ir.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.writes[class]
	if !ok {
		return nil
	}
	out := make([]ir.Node, len(bucket[name]))
	copy(out, bucket[name])
	return out
}
