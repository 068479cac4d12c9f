package opt

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ReduceDesignSpace standardizes the raw descriptor columns and projects
// every candidate onto the leading numComponents principal components,
// returning a new design space over the reduced features plus the fraction
// of descriptor variance those components explain.
//
// The raw space is left untouched; candidate keys and ordering carry over.
func ReduceDesignSpace(space *DesignSpace, numComponents int) (*DesignSpace, float64, error) {
	n, d := space.Len(), space.Dim()
	if numComponents <= 0 || numComponents > d {
		return nil, 0, fmt.Errorf("num components %d out of range [1, %d]", numComponents, d)
	}
	if n < 2 {
		return nil, 0, fmt.Errorf("need at least 2 candidates for principal components, got %d", n)
	}

	std := standardized(space)

	var pc stat.PC
	if ok := pc.PrincipalComponents(std, nil); !ok {
		return nil, 0, fmt.Errorf("principal component decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	var proj mat.Dense
	proj.Mul(std, vecs.Slice(0, d, 0, numComponents))

	explained := floats.Sum(vars[:numComponents]) / floats.Sum(vars)

	reduced := NewDesignSpace(numComponents)
	for i, key := range space.Keys() {
		if err := reduced.Add(key, mat.Row(nil, i, &proj)); err != nil {
			return nil, 0, err
		}
	}
	return reduced, explained, nil
}

// standardized returns the z-scored [n, D] descriptor matrix of the space.
func standardized(space *DesignSpace) *mat.Dense {
	n, d := space.Len(), space.Dim()
	x := mat.NewDense(n, d, nil)
	for i, c := range space.Candidates() {
		x.SetRow(i, c.Features)
	}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		mean, stdDev := stat.MeanStdDev(col, nil)
		if stdDev == 0 {
			stdDev = 1 // constant column, center only
		}
		for i := range col {
			x.Set(i, j, (col[i]-mean)/stdDev)
		}
	}
	return x
}
