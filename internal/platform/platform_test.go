package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDirFromEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("AppData", filepath.Join(home, "xdg"))

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
}

func TestFallbackConfigDirIsUnderHome(t *testing.T) {
	home := filepath.Join("home", "user")
	dir := fallbackConfigDir(home)
	rel, err := filepath.Rel(home, dir)
	require.NoError(t, err)
	assert.NotEqual(t, ".", rel)
	assert.False(t, filepath.IsAbs(rel))
}
