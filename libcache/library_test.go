package libcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func indexOf(libs []Library, name string) int {
	for i, l := range libs {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func TestTopoOrderPlacesDependenciesFirst(t *testing.T) {
	libs := []Library{
		{Name: "rails", Deps: map[string]string{"activesupport": "7.1.0", "rack": "3.0.0"}},
		{Name: "rack"},
		{Name: "activesupport"},
	}
	order := topoOrder(libs)
	assert.Less(t, indexOf(order, "rack"), indexOf(order, "rails"))
	assert.Less(t, indexOf(order, "activesupport"), indexOf(order, "rails"))
}

func TestTopoOrderBreaksCycles(t *testing.T) {
	libs := []Library{
		{Name: "a", Deps: map[string]string{"b": "1.0"}},
		{Name: "b", Deps: map[string]string{"a": "1.0"}},
	}
	order := topoOrder(libs)
	assert.Len(t, order, 2)
}

func TestTopoOrderIgnoresDepsOutsideBatch(t *testing.T) {
	libs := []Library{
		{Name: "rack", Deps: map[string]string{"unversioned-stdlib-thing": "0"}},
	}
	order := topoOrder(libs)
	assert.Len(t, order, 1)
	assert.Equal(t, "rack", order[0].Name)
}
