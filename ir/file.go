package ir

// File is the arena owning every node lowered from one source file: it is
// created during lowering and discarded on re-lowering. It is the per-file
// half of the location index; the other half (file_path -> scope_id ->
// offset -> node) is assembled by registry.LocationIndex from multiple Files.
//
// Grounded on graph.File's functionMap/typeMap/variableMap/constantMap
// lazy-built lookup maps (inspector/graph/file.go), generalized here to a
// single map keyed by the stable NodeKey rather than one map per node kind.
type File struct {
	Path  string
	nodes map[NodeKey]Node
	order []Node
}

// NewFile creates an empty arena for path; lowering populates it by calling
// Add for every node it constructs.
func NewFile(path string) *File {
	return &File{Path: path, nodes: make(map[NodeKey]Node)}
}

// Add registers n in the arena. Each node key is unique within its file; a
// duplicate Add overwrites the prior entry, which is the expected behavior
// of re-lowering the same offset.
func (f *File) Add(n Node) {
	if n == nil {
		return
	}
	if _, exists := f.nodes[n.Key()]; !exists {
		f.order = append(f.order, n)
	} else {
		for i, prev := range f.order {
			if prev.Key() == n.Key() {
				f.order[i] = n
				break
			}
		}
	}
	f.nodes[n.Key()] = n
}

// NodeByKey looks up a node by its stable key.
func (f *File) NodeByKey(key NodeKey) Node { return f.nodes[key] }

// Nodes returns every node in the file, in the order they were added
// (lowering order, suitable for coverage iteration).
func (f *File) Nodes() []Node {
	out := make([]Node, len(f.order))
	copy(out, f.order)
	return out
}

// NodeAt returns the most recently added node whose offset equals pos.
// Lowering adds a node's dependencies before the node itself, so when an
// expression and its leading sub-expression share an offset (a Call and its
// receiver, say), the enclosing node is the one returned. Callers needing
// scope-qualified lookup should use
// registry.LocationIndex instead, which disambiguates by scope too.
func (f *File) NodeAt(pos int) Node {
	var found Node
	for _, n := range f.order {
		if n.Offset() == pos {
			found = n
		}
	}
	return found
}
