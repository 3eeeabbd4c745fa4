package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/typeguess/ir"
)

func TestLocationIndexNodeAt(t *testing.T) {
	idx := NewLocationIndex()
	f := ir.NewFile("main.rb")
	write := ir.NewLocalWrite("Main", "x", 42, nil)
	f.Add(write)
	idx.IndexFile(f)

	assert.Equal(t, write, idx.NodeAt("main.rb", 42))
	assert.Nil(t, idx.NodeAt("missing.rb", 42))
}

func TestLocationIndexReplaceOnReindex(t *testing.T) {
	idx := NewLocationIndex()
	f1 := ir.NewFile("main.rb")
	f1.Add(ir.NewLocalWrite("Main", "x", 1, nil))
	idx.IndexFile(f1)

	f2 := ir.NewFile("main.rb")
	idx.IndexFile(f2)

	assert.Nil(t, idx.NodeAt("main.rb", 1))
}

func TestMethodRegistryLookup(t *testing.T) {
	reg := NewMethodRegistry()
	def := ir.NewDef("Recipe", "steps", "Recipe", 0, nil, nil, nil, false, false)
	reg.Register("Recipe", def)

	assert.Equal(t, def, reg.Lookup("Recipe", "steps"))
	assert.Nil(t, reg.Lookup("Recipe", "missing"))
	assert.True(t, reg.MethodNames("Recipe")["steps"])
}

func TestVarRegistryAggregatesAcrossFiles(t *testing.T) {
	reg := NewVarRegistry()
	w1 := ir.NewIvarWrite("Recipe#init", "Recipe", "name", 1, nil)
	w2 := ir.NewIvarWrite("Recipe#rename", "Recipe", "name", 2, nil)
	reg.RegisterWrite("Recipe", "name", w1)
	reg.RegisterWrite("Recipe", "name", w2)

	writes := reg.Writes("Recipe", "name")
	assert.Len(t, writes, 2)
}
