package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/austin-mroz/summit/opt"
)

// writeResults persists the campaign outputs: the three diagnostics arrays,
// the full observation history, and a metadata file recording the run
// configuration.
func writeResults(dir string, spec *CampaignSpec, diag *opt.Diagnostics, hist *opt.History) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeLengthscales(filepath.Join(dir, "lengthscales.csv"), diag); err != nil {
		return err
	}
	if err := writePerObjective(filepath.Join(dir, "log_likelihoods.csv"), diag.LogLikelihoods()); err != nil {
		return err
	}
	if err := writePerObjective(filepath.Join(dir, "loo_errors.csv"), diag.LOOErrors()); err != nil {
		return err
	}
	if err := writeHistory(filepath.Join(dir, "history.csv"), hist); err != nil {
		return err
	}
	return writeMetadata(filepath.Join(dir, "metadata.txt"), spec)
}

func writeLengthscales(path string, diag *opt.Diagnostics) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"round", "objective", "dimension", "lengthscale"}); err != nil {
			return err
		}
		for round, perObjective := range diag.Lengthscales() {
			for objective, ls := range perObjective {
				for dim, v := range ls {
					row := []string{
						strconv.Itoa(round),
						strconv.Itoa(objective),
						strconv.Itoa(dim),
						strconv.FormatFloat(v, 'g', -1, 64),
					}
					if err := w.Write(row); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func writePerObjective(path string, values [][]float64) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"round", "objective", "value"}); err != nil {
			return err
		}
		for round, perObjective := range values {
			for objective, v := range perObjective {
				row := []string{
					strconv.Itoa(round),
					strconv.Itoa(objective),
					strconv.FormatFloat(v, 'g', -1, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeHistory(path string, hist *opt.History) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"index", "solvent", "conversion", "de"}); err != nil {
			return err
		}
		for i, obs := range hist.Observations() {
			row := []string{
				strconv.Itoa(i),
				obs.Candidate.Key,
				strconv.FormatFloat(obs.Objectives[0], 'g', -1, 64),
				strconv.FormatFloat(obs.Objectives[1], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeMetadata(path string, spec *CampaignSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintf(f, "Random seed: %d\n", spec.Seed)
	fmt.Fprintf(f, "Number of principal components: %d\n", spec.NumComponents)
	fmt.Fprintf(f, "Number of batches: %d\n", spec.NumBatches)
	fmt.Fprintf(f, "Batch size: %d\n", spec.BatchSize)
	return nil
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
