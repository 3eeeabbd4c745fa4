// Package registry implements the process-wide indexes and registries: the
// location index, the method registry, and the ivar/cvar registries. Every
// mutating operation is serialized by a mutex per registry; reads that
// don't mutate take a brief lock to snapshot a sub-structure reference,
// following the same lookup-map idiom as graph.File's functionMap/typeMap
// (inspector/graph/file.go), made concurrency-safe.
package registry

import (
	"sync"

	"github.com/viant/typeguess/ir"
)

// LocationIndex implements `file_path -> scope_id -> offset -> node` plus
// `file_path -> node[]` for iteration.
type LocationIndex struct {
	mu    sync.RWMutex
	files map[string]*ir.File
}

// NewLocationIndex returns an empty index.
func NewLocationIndex() *LocationIndex {
	return &LocationIndex{files: make(map[string]*ir.File)}
}

// IndexFile installs or replaces a file's IR subtree, destroying any prior
// subtree for the same path — stale cross-file references are the editor's
// responsibility to avoid by notifying changes promptly.
func (idx *LocationIndex) IndexFile(f *ir.File) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.files[f.Path] = f
}

// RemoveFile drops a file's IR subtree entirely.
func (idx *LocationIndex) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.files, path)
}

// File returns the arena for path, or nil.
func (idx *LocationIndex) File(path string) *ir.File {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.files[path]
}

// NodeAt locates the IR node at offset within path via the file index.
func (idx *LocationIndex) NodeAt(path string, offset int) ir.Node {
	f := idx.File(path)
	if f == nil {
		return nil
	}
	return f.NodeAt(offset)
}

// Files returns every indexed file path, snapshotted under the read lock.
func (idx *LocationIndex) Files() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.files))
	for p := range idx.files {
		out = append(out, p)
	}
	return out
}

// AllNodes returns every node of every indexed file.
func (idx *LocationIndex) AllNodes() []ir.Node {
	idx.mu.RLock()
	files := make([]*ir.File, 0, len(idx.files))
	for _, f := range idx.files {
		files = append(files, f)
	}
	idx.mu.RUnlock()

	var out []ir.Node
	for _, f := range files {
		out = append(out, f.Nodes()...)
	}
	return out
}
