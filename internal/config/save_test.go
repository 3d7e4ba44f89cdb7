package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveConfigDir_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveConfigDir(path, "/machines/line-1"))

	var raw map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, "/machines/line-1", raw["config_dir"])
}

func TestSaveConfigDir_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := "# my precious comment\nauto_reload: true\nconfig_dir: /old\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	require.NoError(t, SaveConfigDir(path, "/machines/line-2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# my precious comment")
	require.Contains(t, content, "config_dir: /machines/line-2")
	require.NotContains(t, content, "/old")
}

func TestSaveConfigDir_AppendsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_reload: false\n"), 0o644))

	require.NoError(t, SaveConfigDir(path, "/machines/line-3"))

	var raw map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, false, raw["auto_reload"])
	require.Equal(t, "/machines/line-3", raw["config_dir"])
}

func TestSaveAutoReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveAutoReload(path, false))

	var raw map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, false, raw["auto_reload"])
}

func TestSaveConfigDir_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveConfigDir(path, "/machines/line-4"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.Contains(entry.Name(), ".tmp."),
			"temp file %s left behind", entry.Name())
	}
}
