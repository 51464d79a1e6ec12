package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigReadsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bench]\niterations = 42\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.Bench.Iterations)
	require.Equal(t, defaultConfig().Demo.Scenario, cfg.Demo.Scenario)
}

func TestFindConfigUpwardFindsAncestorFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cellsctl.toml"), []byte("[demo]\nscenario = \"array\"\n"), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := findConfigUpward(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "cellsctl.toml"), found)
}

func TestFindConfigUpwardNoFileFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := findConfigUpward(dir)
	require.NoError(t, err)
	require.False(t, ok)
}
