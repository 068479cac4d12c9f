package opt

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Candidate is one point of the design space: a stable identifier (here a
// solvent CAS number) plus its fixed-length descriptor vector.
type Candidate struct {
	Key      string
	Features []float64
}

// DesignSpace is a finite, read-only mapping from candidate key to feature
// vector. All vectors share the same dimensionality and are validated to be
// NaN-free when added, so downstream numeric code never re-checks.
type DesignSpace struct {
	dim      int
	keys     []string // insertion order
	features map[string][]float64
}

// NewDesignSpace creates an empty design space with the given feature
// dimensionality.
func NewDesignSpace(dim int) *DesignSpace {
	return &DesignSpace{
		dim:      dim,
		features: make(map[string][]float64),
	}
}

// Add registers a candidate. Rejects duplicate keys, wrong dimensionality,
// and non-finite feature values.
func (d *DesignSpace) Add(key string, features []float64) error {
	if _, ok := d.features[key]; ok {
		return fmt.Errorf("duplicate candidate key %q", key)
	}
	if len(features) != d.dim {
		return fmt.Errorf("candidate %q has %d features, want %d", key, len(features), d.dim)
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("candidate %q has non-finite feature at dimension %d", key, i)
		}
	}
	stored := make([]float64, len(features))
	copy(stored, features)
	d.keys = append(d.keys, key)
	d.features[key] = stored
	return nil
}

// Len returns the number of candidates.
func (d *DesignSpace) Len() int { return len(d.keys) }

// Dim returns the feature dimensionality.
func (d *DesignSpace) Dim() int { return d.dim }

// Keys returns the candidate keys in insertion order.
func (d *DesignSpace) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Candidate looks up one candidate by key. The returned feature slice is a
// copy; callers may not mutate the space through it.
func (d *DesignSpace) Candidate(key string) (Candidate, bool) {
	feats, ok := d.features[key]
	if !ok {
		return Candidate{}, false
	}
	out := make([]float64, len(feats))
	copy(out, feats)
	return Candidate{Key: key, Features: out}, true
}

// Candidates returns all candidates in insertion order.
func (d *DesignSpace) Candidates() []Candidate {
	out := make([]Candidate, 0, len(d.keys))
	for _, k := range d.keys {
		c, _ := d.Candidate(k)
		out = append(out, c)
	}
	return out
}

// Bounds returns per-dimension [lo, hi] over all candidates. Used by the
// initial designer to place stratified sample points. Empty spaces return
// nil slices.
func (d *DesignSpace) Bounds() (lo, hi []float64) {
	if len(d.keys) == 0 {
		return nil, nil
	}
	lo = make([]float64, d.dim)
	hi = make([]float64, d.dim)
	for i := range lo {
		lo[i] = math.Inf(1)
		hi[i] = math.Inf(-1)
	}
	for _, k := range d.keys {
		for i, v := range d.features[k] {
			lo[i] = math.Min(lo[i], v)
			hi[i] = math.Max(hi[i], v)
		}
	}
	return lo, hi
}

// LoadDesignSpace reads a descriptor table from a CSV file. The first column
// is the candidate key, remaining columns are numeric descriptors; a header
// row is required. Validation (dimensionality, NaN) happens at load time.
func LoadDesignSpace(path string) (*DesignSpace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read descriptor header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("descriptor table needs a key column and at least one descriptor, got %d columns", len(header))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read descriptor rows: %w", err)
	}

	space := NewDesignSpace(len(header) - 1)
	for row, record := range records {
		feats := make([]float64, len(record)-1)
		for i, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row+1, header[i+1], err)
			}
			feats[i] = v
		}
		if err := space.Add(record[0], feats); err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
	}
	return space, nil
}
