package libcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMethodSeparatesSingletonFromInstance(t *testing.T) {
	f := NewCacheFile()
	f.AddMethod("Widget", "size", false, SerializedSig{})
	f.AddMethod("Widget", "build", true, SerializedSig{})

	assert.Contains(t, f.InstanceMethods["Widget"], "size")
	assert.Contains(t, f.ClassMethods["Widget"], "build")
	assert.NotContains(t, f.InstanceMethods["Widget"], "build")
}

func TestCacheFileValid(t *testing.T) {
	assert.True(t, NewCacheFile().Valid())
	assert.False(t, (&CacheFile{Version: FileVersion + 1}).Valid())
	assert.False(t, (*CacheFile)(nil).Valid())
}
