package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnionFlattensAndDedupes(t *testing.T) {
	a := NewInstance("Integer")
	b := NewInstance("String")
	nested := NewUnion(a, NewUnion(b, NewInstance("Integer")))

	assert.Equal(t, KindUnion, nested.Kind)
	assert.Len(t, nested.Types, 2)
}

func TestNewUnionUnwrapsSingleton(t *testing.T) {
	single := NewUnion(NewInstance("Integer"), NewInstance("Integer"))
	assert.Equal(t, KindInstance, single.Kind)
	assert.Equal(t, "Integer", single.Name)
}

func TestNewUnionEmptyIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, NewUnion())
}

func TestHashShapeWidening(t *testing.T) {
	shape := NewHashShape(HashField{Name: "a", Type: NewInstance("Integer")})
	widened := shape.WithField("b", NewInstance("String"))
	assert.Len(t, widened.Fields, 2)
	assert.Equal(t, "{a: Integer, b: String}", Format(widened))
}

func TestTupleToArrayWidening(t *testing.T) {
	tuple := NewTuple(NewInstance("Integer"), NewInstance("String"))
	arr := tuple.ToArray()
	assert.Equal(t, KindArray, arr.Kind)
	assert.Equal(t, "Array[Integer | String]", Format(arr))
}

type staticAncestors map[string][]string

func (s staticAncestors) Ancestors(class string) []string { return s[class] }

func TestSimplifyNarrowsToCommonAncestor(t *testing.T) {
	ancestors := staticAncestors{
		"Cat": {"Cat", "Animal", "Object"},
		"Dog": {"Dog", "Animal", "Object"},
	}
	u := NewUnion(NewInstance("Cat"), NewInstance("Dog"), NewInstance("Animal"))
	got := Simplify(u, ancestors, DefaultConfig())
	assert.Equal(t, NewInstance("Animal"), got)
}

func TestSimplifyCollapsesLargeUnion(t *testing.T) {
	u := NewUnion(NewInstance("A"), NewInstance("B"), NewInstance("C"), NewInstance("D"))
	got := Simplify(u, staticAncestors{}, DefaultConfig())
	assert.Equal(t, Unknown, got)
}

func TestSimplifyKeepsBoolUnion(t *testing.T) {
	u := NewUnion(NewInstance("TrueClass"), NewInstance("FalseClass"))
	got := Simplify(u, staticAncestors{}, DefaultConfig())
	assert.Equal(t, KindUnion, got.Kind)
	assert.Equal(t, "bool", Format(got))
}

func TestFormatTuple(t *testing.T) {
	tuple := NewTuple(NewInstance("Integer"), NewInstance("Integer"), NewInstance("Integer"))
	assert.Equal(t, "[Integer, Integer, Integer]", Format(tuple))
}

func TestFormatMethodSignature(t *testing.T) {
	sig := &MethodSignature{
		Params: []Param{
			{Name: "n", Kind: ParamRequired, Type: NewInstance("Integer")},
			{Name: "opts", Kind: ParamKeywordOptional, Type: NewInstance("Hash")},
		},
		Return: NewInstance("String"),
	}
	assert.Equal(t, "(n Integer, opts:? Hash) -> String", FormatSignature(sig))
}
