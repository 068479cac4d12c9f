package opt

import (
	"fmt"
	"math"
	"math/rand"
)

// InitialDesigner produces the space-filling first batch, before any
// surrogate exists.
type InitialDesigner interface {
	Generate(space *DesignSpace, batchSize int, rng *rand.Rand) ([]Candidate, error)
}

// LatinDesigner places a Latin-hypercube sample across the descriptor
// bounds and maps each sample point to its nearest still-unused candidate.
// Every returned candidate is distinct, so the design fails with
// ErrInvalidDesignSpace when the finite space is smaller than the batch.
type LatinDesigner struct{}

// Generate returns exactly batchSize distinct candidates approximately
// filling the design space. Reproducible under a fixed rng.
func (LatinDesigner) Generate(space *DesignSpace, batchSize int, rng *rand.Rand) ([]Candidate, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if space.Len() < batchSize {
		return nil, fmt.Errorf("%w: %d candidates for batch of %d", ErrInvalidDesignSpace, space.Len(), batchSize)
	}

	lo, hi := space.Bounds()
	points := latinHypercube(space.Dim(), batchSize, rng)
	for _, pt := range points {
		for d := range pt {
			pt[d] = lo[d] + pt[d]*(hi[d]-lo[d])
		}
	}

	candidates := space.Candidates()
	used := make([]bool, len(candidates))
	design := make([]Candidate, 0, batchSize)
	for _, pt := range points {
		best := -1
		bestDist := math.Inf(1)
		for i, c := range candidates {
			if used[i] {
				continue
			}
			d := squaredDistance(pt, c.Features)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		used[best] = true
		design = append(design, candidates[best])
	}
	return design, nil
}

// latinHypercube returns n points in [0,1]^dim with one point per stratum
// in every dimension: strata are permuted independently per dimension and
// each point lands uniformly within its stratum.
func latinHypercube(dim, n int, rng *rand.Rand) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dim)
	}
	for d := 0; d < dim; d++ {
		perm := rng.Perm(n)
		for i := 0; i < n; i++ {
			points[i][d] = (float64(perm[i]) + rng.Float64()) / float64(n)
		}
	}
	return points
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
