package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ExplorerSettings selects the external engine console used for exploration.
type ExplorerSettings struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// RunSettings is the persisted run configuration consulted by discovery.
type RunSettings struct {
	InProcDataCollectors []string         `yaml:"inProcDataCollectors"`
	RandomSeed           *int             `yaml:"randomSeed"`
	Verbosity            int              `yaml:"verbosity"`
	Explorer             ExplorerSettings `yaml:"explorer"`
	SessionRoot          string           `yaml:"sessionRoot"`

	seed int
}

// DefaultRunSettings returns settings used when no file is present.
func DefaultRunSettings() *RunSettings {
	return &RunSettings{
		Explorer: ExplorerSettings{
			Command: DefaultExplorerCommand,
			Args:    append([]string(nil), DefaultExplorerArgs...),
		},
	}
}

// LoadRunSettings reads a YAML run-settings file. A missing file yields the
// defaults.
func LoadRunSettings(path string) (*RunSettings, error) {
	settings := DefaultRunSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read run settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse run settings %s: %w", path, err)
	}

	if settings.Explorer.Command == "" {
		settings.Explorer.Command = DefaultExplorerCommand
	}
	if len(settings.Explorer.Args) == 0 {
		settings.Explorer.Args = append([]string(nil), DefaultExplorerArgs...)
	}
	return settings, nil
}

// ApplyEnv applies TDA_EXPLORER and TDA_RANDOM_SEED overrides.
func (s *RunSettings) ApplyEnv() error {
	if cmd := os.Getenv("TDA_EXPLORER"); cmd != "" {
		s.Explorer.Command = cmd
	}
	if raw := os.Getenv("TDA_RANDOM_SEED"); raw != "" {
		seed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid TDA_RANDOM_SEED %q: %w", raw, err)
		}
		s.RandomSeed = &seed
	}
	return nil
}

// InProcDataCollectorsAvailable reports whether in-process data collectors
// are configured.
func (s *RunSettings) InProcDataCollectorsAvailable() bool {
	return len(s.InProcDataCollectors) > 0
}

// RandomSeedSpecified reports whether the seed came from configuration.
func (s *RunSettings) RandomSeedSpecified() bool {
	return s.RandomSeed != nil
}

// DeriveSeed fixes the seed for this run: the configured one, or a random
// one when none is specified.
func (s *RunSettings) DeriveSeed() {
	if s.RandomSeed != nil {
		s.seed = *s.RandomSeed
		return
	}
	if s.seed == 0 {
		s.seed = int(rand.Int32N(math.MaxInt32-1)) + 1
	}
}

// Seed returns the seed for this run.
func (s *RunSettings) Seed() int {
	return s.seed
}

// SaveRandomSeed writes the run's seed into dir so a later execution run
// can reuse it.
func (s *RunSettings) SaveRandomSeed(dir string) error {
	s.DeriveSeed()
	path := filepath.Join(dir, RandomSeedFile)
	data := fmt.Sprintf("<Seed value=\"%d\" />", s.seed)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("save random seed: %w", err)
	}
	return nil
}
