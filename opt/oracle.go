package opt

import (
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Oracle maps a candidate to its measured objective vector, one value per
// campaign objective. Implementations may be stochastic but must draw all
// randomness from the supplied rng so a campaign replays identically from
// its seed. Evaluate must not retain the candidate or the rng past the call.
type Oracle interface {
	Evaluate(c Candidate, rng *rand.Rand) ([]float64, error)
}

// EvaluateBatch runs the oracle over a batch. Each candidate gets its own
// pre-derived rng stream, so results are independent of evaluation order and
// the batch may be evaluated concurrently (parallel > 1) without losing
// reproducibility. Results are re-associated by index before returning.
//
// Any failed evaluation fails the whole batch; no partial results escape.
func EvaluateBatch(oracle Oracle, batch []Candidate, streams []*rand.Rand, parallel int) ([]Observation, error) {
	if len(streams) != len(batch) {
		return nil, fmt.Errorf("got %d rng streams for a batch of %d", len(streams), len(batch))
	}
	results := make([]Observation, len(batch))

	if parallel <= 1 {
		for i, c := range batch {
			vals, err := oracle.Evaluate(c, streams[i])
			if err != nil {
				return nil, &OracleError{Key: c.Key, Err: err}
			}
			results[i] = Observation{Candidate: c, Objectives: vals}
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, c := range batch {
		i, c := i, c
		g.Go(func() error {
			vals, err := oracle.Evaluate(c, streams[i])
			if err != nil {
				return &OracleError{Key: c.Key, Err: err}
			}
			results[i] = Observation{Candidate: c, Objectives: vals}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
