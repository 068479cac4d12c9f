package opt

import "fmt"

// RunConfig groups the campaign parameters fixed at construction.
type RunConfig struct {
	Seed                 int64 // drives every stochastic component via PartitionedRNG
	NumBatches           int   // optimization rounds after the initial design (must be > 0)
	BatchSize            int   // candidates proposed and evaluated per round (must be > 0)
	NumFeatureDimensions int   // descriptor dimensionality D (must be > 0)
	NumObjectives        int   // objective dimensionality M (default 2)
	FitRetries           int   // refits with perturbed initialization before a fit failure is fatal
	MaxParallelEvals     int   // oracle evaluations in flight per batch (<=1 = sequential)
}

// Validate checks the configuration before any oracle call is made.
func (c RunConfig) Validate() error {
	if c.NumBatches <= 0 {
		return fmt.Errorf("num batches must be positive, got %d", c.NumBatches)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.NumFeatureDimensions <= 0 {
		return fmt.Errorf("num feature dimensions must be positive, got %d", c.NumFeatureDimensions)
	}
	if c.NumObjectives <= 0 {
		return fmt.Errorf("num objectives must be positive, got %d", c.NumObjectives)
	}
	if c.FitRetries < 0 {
		return fmt.Errorf("fit retries must be non-negative, got %d", c.FitRetries)
	}
	return nil
}
