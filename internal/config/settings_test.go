package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadRunSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, s.InProcDataCollectorsAvailable())
	assert.False(t, s.RandomSeedSpecified())
	assert.Equal(t, DefaultExplorerCommand, s.Explorer.Command)
	assert.Equal(t, DefaultExplorerArgs, s.Explorer.Args)
}

func TestLoadRunSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tda.runsettings.yaml")
	doc := `
inProcDataCollectors:
  - coverlet
randomSeed: 42
verbosity: 2
explorer:
  command: /opt/engine/console
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s, err := LoadRunSettings(path)
	require.NoError(t, err)
	assert.True(t, s.InProcDataCollectorsAvailable())
	assert.True(t, s.RandomSeedSpecified())
	assert.Equal(t, 2, s.Verbosity)
	assert.Equal(t, "/opt/engine/console", s.Explorer.Command)
	assert.Equal(t, DefaultExplorerArgs, s.Explorer.Args)

	s.DeriveSeed()
	assert.Equal(t, 42, s.Seed())
}

func TestLoadRunSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("randomSeed: [oops"), 0644))

	_, err := LoadRunSettings(path)
	assert.Error(t, err)
}

func TestRunSettings_ApplyEnv(t *testing.T) {
	t.Setenv("TDA_EXPLORER", "custom-console")
	t.Setenv("TDA_RANDOM_SEED", "7")

	s := DefaultRunSettings()
	require.NoError(t, s.ApplyEnv())
	assert.Equal(t, "custom-console", s.Explorer.Command)
	require.True(t, s.RandomSeedSpecified())
	assert.Equal(t, 7, *s.RandomSeed)

	t.Setenv("TDA_RANDOM_SEED", "seven")
	assert.Error(t, DefaultRunSettings().ApplyEnv())
}

func TestRunSettings_SaveRandomSeed(t *testing.T) {
	dir := t.TempDir()
	s := DefaultRunSettings()
	s.DeriveSeed()
	seed := s.Seed()

	require.NoError(t, s.SaveRandomSeed(dir))
	data, err := os.ReadFile(filepath.Join(dir, RandomSeedFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "value=\"")

	s.DeriveSeed()
	assert.Equal(t, seed, s.Seed(), "seed is fixed for the run")

	err = s.SaveRandomSeed(filepath.Join(dir, "missing", "dir"))
	assert.Error(t, err)
}
