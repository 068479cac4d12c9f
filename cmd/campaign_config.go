package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/austin-mroz/summit/opt"
)

// CampaignSpec is the top-level campaign configuration.
// Loaded from YAML via LoadCampaignSpec(path).
type CampaignSpec struct {
	Seed             int64  `yaml:"seed"`
	NumBatches       int    `yaml:"num_batches"`
	BatchSize        int    `yaml:"batch_size"`
	NumComponents    int    `yaml:"num_components"`
	Normalize        bool   `yaml:"normalize"`
	FitRetries       int    `yaml:"fit_retries,omitempty"`
	MaxParallelEvals int    `yaml:"max_parallel_evals,omitempty"`
	Restarts         int    `yaml:"restarts,omitempty"`
	Descriptors      string `yaml:"descriptors"`      // path to the solvent descriptor CSV
	Output           string `yaml:"output,omitempty"` // results directory
}

// LoadCampaignSpec reads and validates a campaign spec from a YAML file.
func LoadCampaignSpec(path string) (*CampaignSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign spec: %w", err)
	}
	var spec CampaignSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse campaign spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the spec before any work starts.
func (s *CampaignSpec) Validate() error {
	if s.Descriptors == "" {
		return fmt.Errorf("campaign spec: descriptors path is required")
	}
	return s.RunConfig().Validate()
}

// RunConfig converts the spec into the engine's configuration.
func (s *CampaignSpec) RunConfig() opt.RunConfig {
	return opt.RunConfig{
		Seed:                 s.Seed,
		NumBatches:           s.NumBatches,
		BatchSize:            s.BatchSize,
		NumFeatureDimensions: s.NumComponents,
		NumObjectives:        2,
		FitRetries:           s.FitRetries,
		MaxParallelEvals:     s.MaxParallelEvals,
	}
}
