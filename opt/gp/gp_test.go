package gp

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// smoothDataset samples a smooth two-dimensional surface on a grid.
func smoothDataset() (*mat.Dense, []float64) {
	var rows [][]float64
	var y []float64
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			a, b := float64(i)/2, float64(j)/2
			rows = append(rows, []float64{a, b})
			y = append(y, 2*a-b+0.3*a*b)
		}
	}
	x := mat.NewDense(len(rows), 2, nil)
	for i, r := range rows {
		x.SetRow(i, r)
	}
	return x, y
}

func fitSmooth(t *testing.T, cfg Config) *Model {
	t.Helper()
	x, y := smoothDataset()
	model, err := FitModel(x, y, cfg, rand.New(rand.NewSource(1000)))
	require.NoError(t, err)
	return model
}

func TestFitModel_Contract(t *testing.T) {
	model := fitSmooth(t, Config{Restarts: 2})

	ls := model.Lengthscales()
	require.Len(t, ls, 2)
	for i, v := range ls {
		assert.Greater(t, v, 0.0, "lengthscale %d must be positive", i)
		assert.False(t, math.IsNaN(v))
	}

	assert.False(t, math.IsNaN(model.LogLikelihood()))
	assert.False(t, math.IsInf(model.LogLikelihood(), 0))
	assert.Greater(t, model.NoiseVariance(), 0.0)
}

func TestFitModel_PredictBeatsMeanBaseline(t *testing.T) {
	x, y := smoothDataset()
	model, err := FitModel(x, y, Config{Restarts: 2}, rand.New(rand.NewSource(1000)))
	require.NoError(t, err)

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var sseModel, sseBase float64
	for i := range y {
		pred, variance := model.Predict(mat.Row(nil, i, x))
		require.False(t, math.IsNaN(pred))
		require.GreaterOrEqual(t, variance, 0.0)
		sseModel += (pred - y[i]) * (pred - y[i])
		sseBase += (mean - y[i]) * (mean - y[i])
	}
	assert.Less(t, sseModel, sseBase, "fitted surrogate should beat the constant-mean predictor")
}

func TestFitModel_LeaveOneOut(t *testing.T) {
	model := fitSmooth(t, Config{Restarts: 2})

	loo := model.LeaveOneOutError()
	assert.False(t, math.IsNaN(loo))
	assert.GreaterOrEqual(t, loo, 0.0)

	lp := model.LeaveOneOutLogProb()
	assert.False(t, math.IsNaN(lp))
	assert.False(t, math.IsInf(lp, 0))
}

func TestFitModel_Deterministic(t *testing.T) {
	x, y := smoothDataset()

	a, err := FitModel(x, y, Config{Restarts: 3}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := FitModel(x, y, Config{Restarts: 3}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, a.Lengthscales(), b.Lengthscales())
	assert.Equal(t, a.LogLikelihood(), b.LogLikelihood())
	assert.Equal(t, a.LeaveOneOutError(), b.LeaveOneOutError())
}

func TestFitModel_NormalizedPredictionsInOriginalUnits(t *testing.T) {
	x, y := smoothDataset()
	model, err := FitModel(x, y, Config{Normalize: true, Restarts: 2}, rand.New(rand.NewSource(1000)))
	require.NoError(t, err)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range y {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	for i := range y {
		pred, _ := model.Predict(mat.Row(nil, i, x))
		assert.Greater(t, pred, lo-span, "prediction fell far outside the data range")
		assert.Less(t, pred, hi+span)
	}
}

func TestFitModel_Errors(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		x := mat.NewDense(1, 2, []float64{0, 0})
		_, err := FitModel(x, []float64{1}, Config{}, rand.New(rand.NewSource(1)))
		assert.Error(t, err)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		x := mat.NewDense(3, 2, nil)
		_, err := FitModel(x, []float64{1, 2}, Config{}, rand.New(rand.NewSource(1)))
		assert.Error(t, err)
	})

	t.Run("constant outputs do not converge", func(t *testing.T) {
		x := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
		_, err := FitModel(x, []float64{5, 5, 5, 5}, Config{}, rand.New(rand.NewSource(1)))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoConvergence))
	})
}

func TestMatern52_KernelProperties(t *testing.T) {
	k := matern52{lengthscales: []float64{1, 2}, signalVar: 1.5}

	// Identical points return the signal variance.
	assert.InDelta(t, 1.5, k.eval([]float64{1, 1}, []float64{1, 1}), 1e-12)

	// Symmetry.
	a, b := []float64{0, 1}, []float64{2, -1}
	assert.Equal(t, k.eval(a, b), k.eval(b, a))

	// Similarity decays with distance.
	near := k.eval([]float64{0, 0}, []float64{0.1, 0})
	far := k.eval([]float64{0, 0}, []float64{3, 0})
	assert.Greater(t, near, far)
	assert.Greater(t, far, 0.0)
}

func TestFitter_ImplementsSurrogateContract(t *testing.T) {
	x, y := smoothDataset()
	fitter := NewFitter(Config{})

	model, err := fitter.Fit(x, y, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Len(t, model.Lengthscales(), 2)
}
