package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tda/internal/domain"
)

// Save writes the discovery output to the configured JSON output file.
func (s *JSONStorage) Save(output *domain.DiscoveryOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal discovery output: %w", err)
	}

	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write discovery output: %w", err)
	}
	return nil
}

// Load reads the last discovery output from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.DiscoveryOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read discovery output: %w", err)
	}
	var output domain.DiscoveryOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse discovery output: %w", err)
	}
	return &output, nil
}
