package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.MaxUnion)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, 5, cfg.MaxAliasDepth)
	assert.Equal(t, 0, cfg.PerLibTimeoutS)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.EnableLibraryCache)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeguess.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_union: 7\ndebug: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxUnion)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.MaxDepth, "fields absent from the file keep their default")
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeguess.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_union: [this is not an int\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAppliesEnvOverridesOnTopOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeguess.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_union: 7\n"), 0o644))

	t.Setenv("TYPEGUESS_MAX_UNION", "9")
	t.Setenv("TYPEGUESS_DEBUG", "true")
	t.Setenv("TYPEGUESS_PER_LIB_TIMEOUT_S", "30")
	t.Setenv("TYPEGUESS_ENABLE_LIBRARY_CACHE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxUnion, "env overrides the file")
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30, cfg.PerLibTimeoutS)
	assert.False(t, cfg.EnableLibraryCache)
}

func TestLoadIgnoresMalformedEnvOverride(t *testing.T) {
	t.Setenv("TYPEGUESS_MAX_DEPTH", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDepth, "a malformed override is ignored, not fatal")
}

func TestLoadUnsetEnvLeavesFileValueAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeguess.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_alias_depth: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxAliasDepth)
}

func TestSessionConfigMapsEveryField(t *testing.T) {
	cfg := Config{
		MaxUnion:           4,
		MaxDepth:           6,
		MaxAliasDepth:      8,
		PerLibTimeoutS:     12,
		Debug:              true,
		EnableLibraryCache: false,
	}

	sc := cfg.SessionConfig()
	assert.Equal(t, 6, sc.Resolver.MaxDepth)
	assert.Equal(t, 8, sc.Resolver.MaxAliasDepth)
	assert.Equal(t, 4, sc.Resolver.Simplify.MaxUnion)
	assert.False(t, sc.EnableLibraryCache)
	assert.True(t, sc.Debug)
}
