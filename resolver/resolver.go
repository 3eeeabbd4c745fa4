// Package resolver implements demand-driven type inference over the IR
// graph: given any node, it walks that node's dependency edges on demand
// and returns a type plus a provenance tag explaining where the type came
// from. It never returns a Go error for a failed inference -- an
// unresolvable node simply resolves to Unknown.
//
// Grounded on analyzer.Analyzer's single-pass walk-with-memo-map idiom,
// generalized from a push/bulk walk (the whole file is analyzed up front)
// to a pull model: resolution starts from one queried node and recurses
// only through the edges that node's answer actually depends on. Two
// resolver shapes coexist in the retrieval pack's Kythe-style notes -- a
// ChainIndex/Chain style and a reverse-dependency-IR style; this package
// takes the IR style, since lowering already builds that graph.
package resolver

import (
	"context"

	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/signature"
	"github.com/viant/typeguess/types"
)

// Provenance explains why Resolve returned the type it did, for hover
// debug display. It is descriptive only -- never branched on internally.
type Provenance int

const (
	ProvUnknown Provenance = iota
	ProvDeclaredSignature
	ProvLiteral
	ProvInferredCall
	ProvDuckTyping
)

func (p Provenance) String() string {
	switch p {
	case ProvDeclaredSignature:
		return "declared-signature"
	case ProvLiteral:
		return "literal"
	case ProvInferredCall:
		return "inferred-call"
	case ProvDuckTyping:
		return "duck-typing"
	}
	return "unknown"
}

// InferenceResult is what Resolve returns for any IR node.
type InferenceResult struct {
	Type       *types.Type
	Provenance Provenance
}

func unknown() InferenceResult { return InferenceResult{Type: types.Unknown, Provenance: ProvUnknown} }

func known(t *types.Type, prov Provenance) InferenceResult {
	if t == nil {
		return unknown()
	}
	return InferenceResult{Type: t, Provenance: prov}
}

// Config tunes the resolver's recursion budget and the simplifier it
// invokes on every Union it produces.
type Config struct {
	MaxDepth      int // per-query method-return (Def) chain depth; default 5
	MaxAliasDepth int // constant alias-chain length; default 5
	Simplify      types.Config
}

// DefaultConfig mirrors the defaults spec'd for the resolver: depth 5,
// alias chain 5, max union size 3.
func DefaultConfig() Config {
	return Config{MaxDepth: 5, MaxAliasDepth: 5, Simplify: types.DefaultConfig()}
}

// Resolver ties the location index, method registry and declared-signature
// provider together. It holds no per-query state itself -- that lives in
// the query struct a call to Resolve constructs and discards, matching the
// "memoization cache is request-local" rule: there is no shared
// cross-request memo table.
type Resolver struct {
	index    *registry.LocationIndex
	methods  *registry.MethodRegistry
	provider signature.Provider
	cfg      Config
}

// New returns a Resolver reading from the given shared registries and
// declared-signature provider.
func New(index *registry.LocationIndex, methods *registry.MethodRegistry, provider signature.Provider, cfg Config) *Resolver {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 5
	}
	if cfg.MaxAliasDepth <= 0 {
		cfg.MaxAliasDepth = 5
	}
	if cfg.Simplify.MaxUnion <= 0 {
		cfg.Simplify = types.DefaultConfig()
	}
	return &Resolver{index: index, methods: methods, provider: provider, cfg: cfg}
}

// ancestorAdapter lets the simplifier query class ancestry without
// importing signature, avoiding an import cycle.
type ancestorAdapter struct{ provider signature.Provider }

func (a ancestorAdapter) Ancestors(class string) []string {
	if a.provider == nil {
		return []string{class}
	}
	return a.provider.Ancestors(class)
}

// Resolve infers the type of node, which must belong to the IR subtree
// indexed under file. Cancellation is checked at every recursive step, the
// one realistic suspension point in an otherwise in-memory compute path.
func (r *Resolver) Resolve(ctx context.Context, file string, node ir.Node) InferenceResult {
	if node == nil {
		return unknown()
	}
	q := &query{
		r:      r,
		file:   file,
		ctx:    ctx,
		memo:   make(map[ir.NodeKey]*memoEntry),
		onpath: make(map[ir.NodeKey]bool),
	}
	res, _ := q.resolve(node)
	return res
}

// Simplify exposes the type simplifier wired with this resolver's
// declared-signature provider as the ancestor source, for callers (hover
// formatting, tests) that want to simplify a type assembled outside the
// normal Resolve path.
func (r *Resolver) Simplify(t *types.Type) *types.Type {
	return types.Simplify(t, ancestorAdapter{r.provider}, r.cfg.Simplify)
}

type memoEntry struct {
	result InferenceResult
}

// query is the per-call resolution state: a memo table keyed by node
// identity, an in-progress stack for cycle detection, and a depth counter.
// It is discarded when Resolve returns.
type query struct {
	r      *Resolver
	file   string
	ctx    context.Context
	memo   map[ir.NodeKey]*memoEntry
	onpath map[ir.NodeKey]bool
	depth  int
}

// resolve dispatches on node's concrete kind, honoring the memo cache,
// cycle guard and depth limit. The depth counter counts the Def nodes on
// the current path, i.e. how many method-return hops deep the query is;
// reaching MaxDepth turns the next Def into Unknown. The returned bool reports whether this
// node's subtree hit a cycle -- a cyclic result is never cached, since a
// later query for the same node via a non-cyclic path might resolve to
// something more precise than the Unknown a truncated cycle forces.
func (q *query) resolve(node ir.Node) (InferenceResult, bool) {
	if node == nil {
		return unknown(), false
	}
	select {
	case <-q.ctx.Done():
		return unknown(), false
	default:
	}

	key := node.Key()
	if q.onpath[key] {
		return unknown(), true
	}
	if entry, ok := q.memo[key]; ok {
		return entry.result, false
	}
	_, isDef := node.(*ir.Def)
	if isDef && q.depth >= q.r.cfg.MaxDepth {
		return unknown(), false
	}

	q.onpath[key] = true
	if isDef {
		q.depth++
	}
	result, cyclic := q.dispatch(node)
	if isDef {
		q.depth--
	}
	delete(q.onpath, key)

	if !cyclic {
		q.memo[key] = &memoEntry{result: result}
	}
	return result, cyclic
}

func (q *query) simplify(t *types.Type) *types.Type {
	return q.r.Simplify(t)
}
