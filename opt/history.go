package opt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Observation pairs a candidate with its measured objective vector.
// Immutable once recorded.
type Observation struct {
	Candidate  Candidate
	Objectives []float64
}

// History is the append-only record of all observations across rounds,
// owned exclusively by the campaign controller. It only grows by whole
// batches, so a failed round never leaves partial entries behind.
type History struct {
	dim           int
	numObjectives int
	observations  []Observation
}

// NewHistory creates an empty history for the given feature and objective
// dimensionalities.
func NewHistory(dim, numObjectives int) *History {
	return &History{dim: dim, numObjectives: numObjectives}
}

// Len returns the number of recorded observations.
func (h *History) Len() int { return len(h.observations) }

// NumObjectives returns the objective dimensionality M.
func (h *History) NumObjectives() int { return h.numObjectives }

// Dim returns the feature dimensionality D.
func (h *History) Dim() int { return h.dim }

// AppendBatch validates and appends a full batch of observations. The batch
// is appended atomically: any dimension mismatch rejects the whole batch and
// leaves the history untouched.
func (h *History) AppendBatch(batch []Observation) error {
	for i, obs := range batch {
		if len(obs.Candidate.Features) != h.dim {
			return fmt.Errorf("batch entry %d: %d features, want %d", i, len(obs.Candidate.Features), h.dim)
		}
		if len(obs.Objectives) != h.numObjectives {
			return fmt.Errorf("batch entry %d: %d objectives, want %d", i, len(obs.Objectives), h.numObjectives)
		}
	}
	h.observations = append(h.observations, batch...)
	return nil
}

// X returns the inputs as an [n, D] matrix, rows in observation order.
func (h *History) X() *mat.Dense {
	n := len(h.observations)
	if n == 0 {
		return nil
	}
	x := mat.NewDense(n, h.dim, nil)
	for i, obs := range h.observations {
		x.SetRow(i, obs.Candidate.Features)
	}
	return x
}

// Y returns the outputs as an [n, M] matrix, rows in observation order.
func (h *History) Y() *mat.Dense {
	n := len(h.observations)
	if n == 0 {
		return nil
	}
	y := mat.NewDense(n, h.numObjectives, nil)
	for i, obs := range h.observations {
		y.SetRow(i, obs.Objectives)
	}
	return y
}

// YColumn returns one objective column as a plain slice.
func (h *History) YColumn(j int) []float64 {
	out := make([]float64, len(h.observations))
	for i, obs := range h.observations {
		out[i] = obs.Objectives[j]
	}
	return out
}

// Observations returns a copy of the observation sequence.
func (h *History) Observations() []Observation {
	out := make([]Observation, len(h.observations))
	copy(out, h.observations)
	return out
}
