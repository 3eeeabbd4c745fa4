package libcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile() *CacheFile {
	f := NewCacheFile()
	f.AddMethod("Widget", "size", false, SerializedSig{ReturnType: EncodeType(nil)})
	return f
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	key := Key("widgetlib", "1.0.0", nil)
	require.NoError(t, store.Save(ctx, key, testFile()))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, loaded.InstanceMethods["Widget"], "size")

	require.NoError(t, store.Clear(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMsgpackStoreSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewMsgpackStore(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	key := Key("widgetlib", "1.0.0", nil)
	require.NoError(t, store.Save(ctx, key, testFile()))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, loaded.InstanceMethods["Widget"], "size")

	require.NoError(t, store.Clear(ctx, key))
	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDefaultCacheRootHonorsEnvOverride(t *testing.T) {
	t.Setenv("TYPEGUESS_CACHE_DIR", "/tmp/custom-typeguess-cache")
	assert.Equal(t, "/tmp/custom-typeguess-cache", DefaultCacheRoot())
}
