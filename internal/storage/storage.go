package storage

import (
	"time"

	"tda/internal/config"
	"tda/internal/domain"
)

// Storage persists and loads discovery output (e.g. for the cases command).
type Storage interface {
	Save(output *domain.DiscoveryOutput) error
	Load() (*domain.DiscoveryOutput, error)
}

// NewOutput builds the persisted record of one discovery run.
func NewOutput(version string, cases []domain.DiscoveredCase, sources int, duration time.Duration) *domain.DiscoveryOutput {
	if cases == nil {
		cases = []domain.DiscoveredCase{}
	}
	return &domain.DiscoveryOutput{
		Meta: domain.DiscoveryMeta{
			AdapterVersion:  version,
			TotalSources:    sources,
			DiscoveredCases: len(cases),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Cases: cases,
	}
}

// JSONStorage stores output in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
