package opt

import (
	"fmt"
	"io"
)

// RoundDiagnostics is the per-round, per-objective snapshot of surrogate
// quality. It characterizes the models that generated the round's proposal,
// fitted on history prior to that round's own batch.
type RoundDiagnostics struct {
	Lengthscales   [][]float64 // [objective][feature dimension]
	LogLikelihoods []float64   // [objective]
	LOOErrors      []float64   // [objective]
}

// Diagnostics is the append-only sequence of RoundDiagnostics, one entry per
// optimization round, owned by the campaign controller.
type Diagnostics struct {
	numObjectives int
	numDims       int
	rounds        []RoundDiagnostics
}

// NewDiagnostics creates an empty diagnostics sequence for the given
// objective and feature dimensionalities.
func NewDiagnostics(numObjectives, numDims int) *Diagnostics {
	return &Diagnostics{numObjectives: numObjectives, numDims: numDims}
}

// Rounds returns the number of recorded rounds.
func (d *Diagnostics) Rounds() int { return len(d.rounds) }

// Round returns the record for one round (0-based).
func (d *Diagnostics) Round(k int) RoundDiagnostics { return d.rounds[k] }

// Append validates and records one round's snapshot atomically.
func (d *Diagnostics) Append(rec RoundDiagnostics) error {
	if len(rec.Lengthscales) != d.numObjectives ||
		len(rec.LogLikelihoods) != d.numObjectives ||
		len(rec.LOOErrors) != d.numObjectives {
		return fmt.Errorf("diagnostics record covers %d/%d/%d objectives, want %d",
			len(rec.Lengthscales), len(rec.LogLikelihoods), len(rec.LOOErrors), d.numObjectives)
	}
	for j, ls := range rec.Lengthscales {
		if len(ls) != d.numDims {
			return fmt.Errorf("objective %d has %d lengthscales, want %d", j, len(ls), d.numDims)
		}
	}
	d.rounds = append(d.rounds, rec)
	return nil
}

// Lengthscales returns the full [round][objective][dimension] array.
func (d *Diagnostics) Lengthscales() [][][]float64 {
	out := make([][][]float64, len(d.rounds))
	for k, rec := range d.rounds {
		out[k] = rec.Lengthscales
	}
	return out
}

// LogLikelihoods returns the full [round][objective] array.
func (d *Diagnostics) LogLikelihoods() [][]float64 {
	out := make([][]float64, len(d.rounds))
	for k, rec := range d.rounds {
		out[k] = rec.LogLikelihoods
	}
	return out
}

// LOOErrors returns the full [round][objective] array.
func (d *Diagnostics) LOOErrors() [][]float64 {
	out := make([][]float64, len(d.rounds))
	for k, rec := range d.rounds {
		out[k] = rec.LOOErrors
	}
	return out
}

// Print writes a per-round summary table, in the spirit of end-of-run
// metrics reporting.
func (d *Diagnostics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Campaign Diagnostics ===")
	for k, rec := range d.rounds {
		for j := 0; j < d.numObjectives; j++ {
			fmt.Fprintf(w, "round %d objective %d : logL=%.4f looRMSE=%.4f lengthscales=%v\n",
				k+1, j, rec.LogLikelihoods[j], rec.LOOErrors[j], rec.Lengthscales[j])
		}
	}
}
