package projconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFiles_ReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	indexDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(indexDir, FileName),
		[]byte("[search]\ntop_k = 25\n"), 0o644))

	cfg, err := Load(indexDir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Search.TopK)
	assert.Equal(t, Default().Chunk, cfg.Chunk)
}

func TestLoad_ProjectOverridesUserConfig(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "ember"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "ember", FileName),
		[]byte("[search]\ntop_k = 5\n"), 0o644))

	indexDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(indexDir, FileName),
		[]byte("[search]\ntop_k = 30\n"), 0o644))

	cfg, err := Load(indexDir)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Search.TopK)
}

func TestSeedUserConfig_WritesOnlyOnce(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, SeedUserConfig())

	path := UserConfigPath()
	info1, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, SeedUserConfig())
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
}
