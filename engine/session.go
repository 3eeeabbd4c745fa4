// Package engine ties the location index, the three registries, the
// declared-signature provider, the resolver and the library cache into the
// single object an editor integration holds one instance of per analysis
// session (spec's "replace singletons with explicit construction and
// injection; one instance per analysis session").
//
// Grounded on graph.Project (inspector/graph/project.go), the teacher's
// own "one struct owns every index, exposes the read APIs the rest of the
// tool calls" shape, generalized from a read-only project snapshot to a
// mutable, re-lowerable session.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minio/highwayhash"

	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/coverage"
	"github.com/viant/typeguess/internal/xlog"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/libcache"
	"github.com/viant/typeguess/lowering"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/resolver"
	"github.com/viant/typeguess/signature"
	"github.com/viant/typeguess/types"
)

// contentHashKey is the fixed highwayhash key LowerFile hashes source
// bytes with -- kept from the teacher's own inspector/graph/hash.go,
// which uses the same fixed-key New64 call to content-hash a byte slice.
var contentHashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func contentHash(src []byte) uint64 {
	h, err := highwayhash.New64(contentHashKey)
	if err != nil {
		return 0
	}
	_, _ = h.Write(src)
	return h.Sum64()
}

// Session owns every process-wide, mutex-protected piece of session state:
// the location index, the method/ivar/cvar registries, and (through the
// resolver) the declared-signature provider. Mutating entry points
// (LowerFile, BuildLibraryCache) take mu for their full duration; Hover
// and Coverage only need read access to state the resolver itself
// re-validates per node, so they take mu just long enough to snapshot the
// pieces they hand to the resolver.
type Session struct {
	mu sync.Mutex

	index    *registry.LocationIndex
	methods  *registry.MethodRegistry
	ivars    *registry.VarRegistry
	cvars    *registry.VarRegistry
	provider *signature.StaticProvider
	resolver *resolver.Resolver
	orch     *libcache.Orchestrator
	log      *xlog.Logger

	// lineMaps holds each indexed file's offset<->line/col converter,
	// built from the source lowered into it. Hover needs the reverse
	// direction (line/col -> offset) from the same map LowerFile built,
	// per spec §4.5's "converts byte positions to line/col via a
	// parser-provided map".
	lineMaps map[string]ast.LineMap

	// contentHashes remembers the last-lowered source's highwayhash per
	// path, so LowerFile can skip re-lowering a file an editor resends
	// unchanged (e.g. a save with no edits, or a duplicate didSave/didOpen).
	contentHashes map[string]uint64

	cfg Config
}

// Config bundles the resolver's tunables with the session-level policy
// knobs from spec §6.4.
type Config struct {
	Resolver           resolver.Config
	EnableLibraryCache bool
	Debug              bool
}

// DefaultConfig mirrors the documented defaults for every knob.
func DefaultConfig() Config {
	return Config{Resolver: resolver.DefaultConfig(), EnableLibraryCache: true}
}

// New builds a Session around a fresh provider pre-seeded by seed (pass a
// no-op to start from an empty provider), a cache store, and cfg.
func New(seed func(*signature.StaticProvider), store libcache.Store, cfg Config) *Session {
	index := registry.NewLocationIndex()
	methods := registry.NewMethodRegistry()
	ivars := registry.NewVarRegistry()
	cvars := registry.NewVarRegistry()
	provider := signature.NewStaticProvider()
	if seed != nil {
		seed(provider)
	}
	res := resolver.New(index, methods, provider, cfg.Resolver)
	log := xlog.Default()

	var orch *libcache.Orchestrator
	if store != nil {
		orch = libcache.New(store, index, provider, res, log)
	}

	return &Session{
		index:    index,
		methods:  methods,
		ivars:    ivars,
		cvars:    cvars,
		provider: provider,
		resolver: res,
		orch:     orch,
		log:           log,
		lineMaps:      make(map[string]ast.LineMap),
		contentHashes: make(map[string]uint64),
		cfg:           cfg,
	}
}

// LowerFile replaces path's IR subtree with a fresh lowering of prog,
// registering its defs and ivar/cvar writes into the shared registries,
// and records src's line map for later Hover line/col lookups.
// Re-lowering the same path destroys its prior subtree (spec §3.2
// Ownership/Lifecycle): stale cross-file references are the editor's
// responsibility to avoid by calling LowerFile promptly after an edit. A
// call whose src content-hashes identically to the last call for the same
// path is a no-op: an editor that resends an unchanged buffer (a redundant
// save, a duplicate didOpen/didSave) shouldn't pay for a full re-lowering.
func (s *Session) LowerFile(path string, src []byte, prog *ast.Program) error {
	if prog == nil {
		return fmt.Errorf("lower %s: nil program", path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := contentHash(src)
	if prev, ok := s.contentHashes[path]; ok && prev == hash {
		return nil
	}

	l := lowering.New(path, s.methods, s.ivars, s.cvars, s.provider.RootException)
	file := l.LowerProgram(prog)
	s.index.IndexFile(file)
	s.lineMaps[path] = ast.NewOffsetLineMap(src)
	s.contentHashes[path] = hash
	return nil
}

// ContentHash returns the highwayhash recorded for path's last-lowered
// source, and whether any has been recorded at all -- exposed mainly so
// tests can observe the skip-relowering behavior without reaching into
// session internals.
func (s *Session) ContentHash(path string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.contentHashes[path]
	return h, ok
}

// HoverResult is the rendered hover payload: Markdown body plus the raw
// pieces a richer front end might want directly.
type HoverResult struct {
	Markdown   string
	Type       *types.Type
	Provenance resolver.Provenance
	Found      bool
}

// Hover converts (line, col) to a byte offset via the LineMap recorded at
// LowerFile time, resolves the node found there, and renders it per spec
// §6.5: "Guessed Type: T" for an expression/variable, "Guessed Signature:
// (params) -> return" for a def or call site, and (when Debug is set) a
// Reason line plus an observed-method-calls line. A miss (unknown file, no
// node at that position, cancelled context) yields an empty, not-Found
// result and a nil error -- the core never surfaces an error to the editor
// for a hover miss, per spec §7's "hover response is either a type, a
// signature, or empty".
func (s *Session) Hover(ctx context.Context, path string, line, col int) (HoverResult, error) {
	s.mu.Lock()
	file := s.index.File(path)
	lm := s.lineMaps[path]
	res := s.resolver
	s.mu.Unlock()

	if file == nil || lm == nil {
		return HoverResult{}, nil
	}
	offset := lm.Offset(line, col)
	node := file.NodeAt(offset)
	if node == nil {
		return HoverResult{}, nil
	}

	result := res.Resolve(ctx, path, node)
	return HoverResult{
		Markdown:   s.renderHover(node, result),
		Type:       result.Type,
		Provenance: result.Provenance,
		Found:      true,
	}, nil
}

func (s *Session) renderHover(node ir.Node, result resolver.InferenceResult) string {
	var body string
	if sig := result.Type.AsMethodSignature(); sig != nil {
		body = "Guessed Signature: " + types.FormatSignature(sig)
	} else {
		body = "Guessed Type: " + types.Format(result.Type)
	}

	if !s.cfg.Debug {
		return body
	}
	body += "\nReason: " + result.Provenance.String()
	if methods := calledMethodsOf(node); len(methods) > 0 {
		body += "\nMethod calls: " + joinMethods(methods)
	}
	return body
}

func calledMethodsOf(node ir.Node) []string {
	switch n := node.(type) {
	case *ir.LocalRead:
		if n.CalledMethods != nil {
			return n.CalledMethods.Methods
		}
	case *ir.Param:
		if n.CalledMethods != nil {
			return n.CalledMethods.Methods
		}
	}
	return nil
}

func joinMethods(methods []string) string {
	out := "["
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out + "]"
}

// Coverage computes a fresh project-wide typedness report over the
// session's current index.
func (s *Session) Coverage(ctx context.Context) coverage.Report {
	s.mu.Lock()
	index := s.index
	res := s.resolver
	s.mu.Unlock()
	return coverage.New(index, res).Compute(ctx)
}

// BuildLibraryCache builds or loads a signature cache entry for every
// library in libs, registering the result into the session's
// declared-signature provider. A no-op (with no error) when the cache is
// disabled or the session was built without a Store.
func (s *Session) BuildLibraryCache(ctx context.Context, libs []libcache.Library, perLibTimeout int) error {
	if !s.cfg.EnableLibraryCache || s.orch == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.BuildAll(ctx, libs, time.Duration(perLibTimeout)*time.Second)
}
