// Package coverage implements the project-wide typedness report: node
// coverage by kind (excluding Def, to avoid double-counting a method's
// signature against its own body) and a per-Def signature score, both
// aggregated by walking every indexed file.
//
// Grounded on inspector/info/document.go's CreateDocuments, the teacher's
// closest analogue to "walk every indexed unit and aggregate a metric" --
// that walk goes Project -> Package -> File -> declarations; this reporter
// reuses registry.LocationIndex.Files/File/Nodes for the same shape,
// generalized from a file/symbol count to a typedness fraction.
package coverage

import (
	"context"
	"sort"

	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/resolver"
	"github.com/viant/typeguess/types"
)

// KindCoverage is one node kind's tally: how many nodes of that kind were
// seen, and how many resolved to a type other than Unknown.
type KindCoverage struct {
	Total int
	Typed int
}

// Fraction is Typed/Total, or 0 for a kind with no observed nodes.
func (k KindCoverage) Fraction() float64 {
	if k.Total == 0 {
		return 0
	}
	return float64(k.Typed) / float64(k.Total)
}

// Report is one project-wide coverage snapshot.
type Report struct {
	ByKind map[string]KindCoverage
	// SignatureScore averages, across every Def, (typed_params +
	// typed_return) / (params + 1).
	SignatureScore float64
	DefCount       int
}

// Kinds returns the node kinds present in the report, sorted, for
// deterministic display.
func (r Report) Kinds() []string {
	out := make([]string, 0, len(r.ByKind))
	for k := range r.ByKind {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reporter computes a Report by resolving every indexed node through a
// Resolver. A fresh query is used per node (Resolver.Resolve already
// manages that), so a node's own resolution never benefits from another
// node's partial work -- a coverage pass pays the same per-node inference
// cost hover would.
type Reporter struct {
	index    *registry.LocationIndex
	resolver *resolver.Resolver
}

// New returns a Reporter walking index through res.
func New(index *registry.LocationIndex, res *resolver.Resolver) *Reporter {
	return &Reporter{index: index, resolver: res}
}

// Compute walks every indexed file and aggregates a Report. Nodes whose
// inference fails (returns Unknown for any reason, including a cancelled
// context) are counted as untyped, never as errors, per the reporter's
// spec.
func (r *Reporter) Compute(ctx context.Context) Report {
	byKind := make(map[string]KindCoverage)
	var scoreSum float64
	var defCount int

	for _, path := range r.index.Files() {
		file := r.index.File(path)
		if file == nil {
			continue
		}
		for _, n := range file.Nodes() {
			if def, ok := n.(*ir.Def); ok {
				scoreSum += r.signatureScore(ctx, path, def)
				defCount++
				continue
			}
			c := byKind[kindLabel(n)]
			c.Total++
			res := r.resolver.Resolve(ctx, path, n)
			if res.Type != nil && res.Type.Kind != types.KindUnknown {
				c.Typed++
			}
			byKind[kindLabel(n)] = c
		}
	}

	rep := Report{ByKind: byKind, DefCount: defCount}
	if defCount > 0 {
		rep.SignatureScore = scoreSum / float64(defCount)
	}
	return rep
}

func (r *Reporter) signatureScore(ctx context.Context, path string, def *ir.Def) float64 {
	res := r.resolver.Resolve(ctx, path, def)
	sig := res.Type.AsMethodSignature()
	if sig == nil {
		return 0
	}
	typed := 0
	for _, p := range sig.Params {
		if p.Type != nil && p.Type.Kind != types.KindUnknown {
			typed++
		}
	}
	if sig.Return != nil && sig.Return.Kind != types.KindUnknown {
		typed++
	}
	return float64(typed) / float64(len(sig.Params)+1)
}

// kindLabel names n's concrete IR kind. A type switch over the closed
// ir.Node sum type, the same dispatch shape resolver/dispatch.go uses to
// route a node to its resolution rule.
func kindLabel(n ir.Node) string {
	switch n.(type) {
	case *ir.Literal:
		return "Literal"
	case *ir.LocalWrite:
		return "LocalWrite"
	case *ir.LocalRead:
		return "LocalRead"
	case *ir.IvarWrite:
		return "IvarWrite"
	case *ir.IvarRead:
		return "IvarRead"
	case *ir.CvarWrite:
		return "CvarWrite"
	case *ir.CvarRead:
		return "CvarRead"
	case *ir.Param:
		return "Param"
	case *ir.BlockParamSlot:
		return "BlockParamSlot"
	case *ir.Call:
		return "Call"
	case *ir.Return:
		return "Return"
	case *ir.ClassModule:
		return "ClassModule"
	case *ir.Constant:
		return "Constant"
	case *ir.Self:
		return "Self"
	case *ir.Merge:
		return "Merge"
	case *ir.Or:
		return "Or"
	case *ir.And:
		return "And"
	case *ir.Narrow:
		return "Narrow"
	default:
		return "Other"
	}
}
