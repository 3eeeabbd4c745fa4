package coverage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/resolver"
	"github.com/viant/typeguess/signature"
	"github.com/viant/typeguess/types"
)

func TestComputeSplitsNodeCoverageByKind(t *testing.T) {
	idx := registry.NewLocationIndex()
	f := ir.NewFile("widget.rb")

	lit := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	write := ir.NewLocalWrite("main", "x", 5, lit)
	read := ir.NewLocalRead("main", "x", 10, write) // typed, via Write
	unboundRead := ir.NewLocalRead("main", "y", 20, nil) // unresolvable, stays Unknown

	f.Add(lit)
	f.Add(write)
	f.Add(read)
	f.Add(unboundRead)
	idx.IndexFile(f)

	methods := registry.NewMethodRegistry()
	provider := signature.NewStaticProvider()
	res := resolver.New(idx, methods, provider, resolver.DefaultConfig())

	report := New(idx, res).Compute(context.Background())

	lw := report.ByKind["Literal"]
	assert.Equal(t, 1, lw.Total)
	assert.Equal(t, 1, lw.Typed)

	lr := report.ByKind["LocalRead"]
	assert.Equal(t, 2, lr.Total)
	assert.Equal(t, 1, lr.Typed, "only the read backed by a typed write should count as typed")
}

func TestComputeScoresDefSignatures(t *testing.T) {
	idx := registry.NewLocationIndex()
	f := ir.NewFile("widget.rb")

	paramDefault := ir.NewLiteral("Widget#size", 0, types.NewInstance("Integer"))
	param := ir.NewParam("Widget#size", "count", types.ParamRequired, 0, paramDefault)
	ret := ir.NewLiteral("Widget#size", 10, types.NewInstance("Integer"))
	def := ir.NewDef("Widget#size", "size", "Widget", 0, []*ir.Param{param}, ret, nil, false, false)

	f.Add(param)
	f.Add(ret)
	f.Add(def)
	idx.IndexFile(f)

	methods := registry.NewMethodRegistry()
	provider := signature.NewStaticProvider()
	res := resolver.New(idx, methods, provider, resolver.DefaultConfig())

	report := New(idx, res).Compute(context.Background())

	require.Equal(t, 1, report.DefCount)
	assert.InDelta(t, 1.0, report.SignatureScore, 0.0001, "typed param + typed return over 1 param + 1 should score 1.0")
	assert.NotContains(t, report.ByKind, "Def", "Def nodes are excluded from node coverage")
}
