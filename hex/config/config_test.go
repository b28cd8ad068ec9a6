package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultProducesUsableConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, "easy", cfg.Heuristic)
	require.Equal(t, "internal", cfg.Backend)
	require.Equal(t, 30, cfg.OracleTimeoutSeconds)
}

func TestLoadOverridesOnlyTheFieldsPresentInTheFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heuristic: trivial\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "trivial", cfg.Heuristic)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "internal", cfg.Backend, "fields absent from the file keep their Default() value")
}

func TestLoadRejectsAMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
