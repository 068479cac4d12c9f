package opt

import (
	"fmt"
	"math"
	"math/rand"
)

// Proposer produces the next batch of candidates from the fitted surrogate
// pair and the accumulated history. Returned batches have exactly batchSize
// members drawn from the design space; repeats of previously observed
// candidates are permitted.
type Proposer interface {
	Propose(models []SurrogateModel, space *DesignSpace, hist *History, batchSize int, rng *rand.Rand) ([]Candidate, error)
}

// ThompsonProposer selects batches by Thompson sampling across both
// objectives: it draws one posterior sample per candidate and objective,
// keeps the Pareto-efficient candidates of that draw, and fills the batch by
// greedy hypervolume contribution so the selection spreads along the sampled
// front. When one draw's front is smaller than the remaining batch budget,
// it redraws and continues, which lets strong candidates repeat.
type ThompsonProposer struct{}

// Propose returns exactly batchSize candidates. Deterministic under a fixed
// rng.
func (ThompsonProposer) Propose(models []SurrogateModel, space *DesignSpace, hist *History, batchSize int, rng *rand.Rand) ([]Candidate, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if space.Len() == 0 {
		return nil, fmt.Errorf("%w: empty design space", ErrInvalidDesignSpace)
	}
	if len(models) != hist.NumObjectives() {
		return nil, fmt.Errorf("%d surrogate models for %d objectives", len(models), hist.NumObjectives())
	}

	candidates := space.Candidates()
	numObjectives := len(models)

	// Posterior moments are fixed for the round; only the draws vary.
	means := make([][]float64, len(candidates))
	stdDevs := make([][]float64, len(candidates))
	for i, c := range candidates {
		means[i] = make([]float64, numObjectives)
		stdDevs[i] = make([]float64, numObjectives)
		for j, model := range models {
			mean, variance := model.Predict(c.Features)
			if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(variance) || math.IsInf(variance, 0) {
				return nil, fmt.Errorf("non-finite prediction for candidate %q objective %d", c.Key, j)
			}
			means[i][j] = mean
			stdDevs[i][j] = math.Sqrt(math.Max(variance, 0))
		}
	}

	batch := make([]Candidate, 0, batchSize)
	for len(batch) < batchSize {
		samples := make([][]float64, len(candidates))
		for i := range candidates {
			samples[i] = make([]float64, numObjectives)
			for j := 0; j < numObjectives; j++ {
				samples[i][j] = means[i][j] + stdDevs[i][j]*rng.NormFloat64()
			}
		}
		front := ParetoEfficient(samples)
		picked := spreadAlongFront(samples, front, batchSize-len(batch))
		for _, idx := range picked {
			batch = append(batch, candidates[idx])
		}
	}
	return batch, nil
}

// spreadAlongFront greedily selects up to budget front members by largest
// hypervolume contribution relative to the sampled points' nadir, so the
// picks cover the front rather than cluster at one end.
func spreadAlongFront(samples [][]float64, front []int, budget int) []int {
	if len(front) == 0 {
		return nil
	}
	numObjectives := len(samples[0])
	ref := make([]float64, numObjectives)
	for j := range ref {
		ref[j] = math.Inf(1)
	}
	for _, s := range samples {
		for j, v := range s {
			ref[j] = math.Min(ref[j], v)
		}
	}
	// Nudge the reference below the nadir so boundary points still carry
	// positive volume.
	for j := range ref {
		ref[j] -= 1e-9 + 1e-9*math.Abs(ref[j])
	}

	remaining := append([]int(nil), front...)
	var selected [][]float64
	var picked []int
	for len(picked) < budget && len(remaining) > 0 {
		base := Hypervolume(selected, ref)
		bestPos, bestGain := 0, math.Inf(-1)
		for pos, idx := range remaining {
			gain := Hypervolume(append(selected, samples[idx]), ref) - base
			if gain > bestGain {
				bestPos, bestGain = pos, gain
			}
		}
		idx := remaining[bestPos]
		picked = append(picked, idx)
		selected = append(selected, samples[idx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	return picked
}
