// Package gp implements the Gaussian-process surrogate used by the
// optimization loop: Matern-5/2 ARD regression with hyperparameters chosen
// by maximizing the log marginal likelihood from multiple random starts.
package gp

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/austin-mroz/summit/opt"
)

// ErrNoConvergence reports that no hyperparameter start produced a finite
// likelihood with a positive-definite covariance.
var ErrNoConvergence = errors.New("gp: fit did not converge")

// Config controls surrogate training.
type Config struct {
	// Normalize z-scores inputs and outputs before fitting. Predictions and
	// leave-one-out errors are reported back in original units.
	Normalize bool

	// Restarts is the number of additional random hyperparameter starts
	// beyond the data-derived one.
	Restarts int

	// Jitter is added to the covariance diagonal for numerical stability.
	Jitter float64
}

// DefaultConfig returns the training configuration used by campaigns unless
// overridden.
func DefaultConfig() Config {
	return Config{
		Normalize: false,
		Restarts:  4,
		Jitter:    1e-8,
	}
}

// Fitter trains Models and satisfies the optimization loop's fitter
// contract.
type Fitter struct {
	Config Config
}

// NewFitter creates a Fitter with the given config, filling zero values
// from DefaultConfig.
func NewFitter(cfg Config) Fitter {
	def := DefaultConfig()
	if cfg.Restarts == 0 {
		cfg.Restarts = def.Restarts
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = def.Jitter
	}
	return Fitter{Config: cfg}
}

// Fit trains a fresh Model on the full (x, y) snapshot.
func (f Fitter) Fit(x *mat.Dense, y []float64, rng *rand.Rand) (opt.SurrogateModel, error) {
	return FitModel(x, y, f.Config, rng)
}

// Model is an immutable fitted Gaussian process for one objective.
type Model struct {
	kernel   matern52
	noiseVar float64
	jitter   float64

	x     *mat.Dense // training inputs, possibly normalized
	alpha *mat.VecDense
	chol  mat.Cholesky

	logLik   float64
	kinvDiag []float64
	residual []float64 // leave-one-out residuals, original units

	// normalization state; identity when Config.Normalize is false
	xMean, xStd []float64
	yMean, yStd float64
}

// FitModel trains a Model; Fit is the interface-shaped wrapper around it.
func FitModel(x *mat.Dense, y []float64, cfg Config, rng *rand.Rand) (*Model, error) {
	n, d := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("gp: %d rows of inputs for %d outputs", n, len(y))
	}
	if n < 2 {
		return nil, fmt.Errorf("gp: need at least 2 observations, got %d", n)
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = DefaultConfig().Jitter
	}

	xs, ys, norm := normalize(x, y, cfg.Normalize)

	best, bestNLL, err := searchHyperparameters(xs, ys, d, cfg, rng)
	if err != nil {
		return nil, err
	}

	m := &Model{
		kernel: matern52{
			lengthscales: best.lengthscales,
			signalVar:    best.signalVar,
		},
		noiseVar: best.noiseVar,
		jitter:   cfg.Jitter,
		x:        xs,
		logLik:   -bestNLL,
		xMean:    norm.xMean,
		xStd:     norm.xStd,
		yMean:    norm.yMean,
		yStd:     norm.yStd,
	}
	if err := m.factorize(ys); err != nil {
		return nil, err
	}
	return m, nil
}

// factorize builds the final Cholesky state, alpha weights, and the
// analytic leave-one-out residuals.
func (m *Model) factorize(y []float64) error {
	gram := m.kernel.gram(m.x, m.noiseVar, m.jitter)
	if ok := m.chol.Factorize(gram); !ok {
		return fmt.Errorf("%w: covariance not positive definite", ErrNoConvergence)
	}

	n := len(y)
	yVec := mat.NewVecDense(n, y)
	m.alpha = mat.NewVecDense(n, nil)
	if err := m.chol.SolveVecTo(m.alpha, yVec); err != nil {
		return fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	var kinv mat.SymDense
	if err := m.chol.InverseTo(&kinv); err != nil {
		return fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	m.kinvDiag = make([]float64, n)
	m.residual = make([]float64, n)
	for i := 0; i < n; i++ {
		m.kinvDiag[i] = kinv.At(i, i)
		// Closed-form LOO residual: withholding point i and predicting it
		// leaves a residual of alpha_i / [K^-1]_ii.
		m.residual[i] = m.alpha.AtVec(i) / m.kinvDiag[i] * m.yStd
	}
	return nil
}

// Lengthscales returns the fitted ARD lengthscales, one per dimension.
func (m *Model) Lengthscales() []float64 {
	out := make([]float64, len(m.kernel.lengthscales))
	copy(out, m.kernel.lengthscales)
	return out
}

// LogLikelihood returns the log marginal likelihood at the fitted
// hyperparameters.
func (m *Model) LogLikelihood() float64 { return m.logLik }

// NoiseVariance returns the fitted observation noise variance.
func (m *Model) NoiseVariance() float64 { return m.noiseVar }

// LeaveOneOutError returns the root-mean-square leave-one-out prediction
// residual over the training set, in original output units. Uses the
// analytic Cholesky form rather than n refits.
func (m *Model) LeaveOneOutError() float64 {
	var sum float64
	for _, r := range m.residual {
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(m.residual)))
}

// LeaveOneOutLogProb returns the summed log predictive density of each
// withheld training point under its leave-one-out posterior.
func (m *Model) LeaveOneOutLogProb() float64 {
	var sum float64
	for i, r := range m.residual {
		sd := math.Sqrt(1/m.kinvDiag[i]) * m.yStd
		sum += distuv.Normal{Mu: 0, Sigma: sd}.LogProb(r)
	}
	return sum
}

// Predict returns the predictive mean and variance (including observation
// noise) at x, in original units.
func (m *Model) Predict(x []float64) (mean, variance float64) {
	q := make([]float64, len(x))
	for i := range x {
		q[i] = (x[i] - m.xMean[i]) / m.xStd[i]
	}

	kstar := m.kernel.cross(m.x, q)
	mean = mat.Dot(kstar, m.alpha)*m.yStd + m.yMean

	n := kstar.Len()
	v := mat.NewVecDense(n, nil)
	if err := m.chol.SolveVecTo(v, kstar); err != nil {
		// Factorization already succeeded at fit time; a solve failure here
		// means the query produced non-finite covariances.
		return math.NaN(), math.NaN()
	}
	latent := m.kernel.eval(q, q) - mat.Dot(kstar, v)
	variance = (math.Max(latent, 0) + m.noiseVar) * m.yStd * m.yStd
	return mean, variance
}

// === hyperparameter search ===

type hyperparams struct {
	lengthscales []float64
	signalVar    float64
	noiseVar     float64
}

// searchHyperparameters minimizes the negative log marginal likelihood over
// log-lengthscales, log signal variance, and log noise variance using
// Nelder-Mead from one data-derived start plus cfg.Restarts perturbed
// starts.
func searchHyperparameters(x *mat.Dense, y []float64, d int, cfg Config, rng *rand.Rand) (hyperparams, float64, error) {
	n, _ := x.Dims()
	yVar := stat.Variance(y, nil)
	if yVar <= 0 || math.IsNaN(yVar) {
		return hyperparams{}, 0, fmt.Errorf("%w: degenerate outputs", ErrNoConvergence)
	}

	theta0 := make([]float64, d+2)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		sd := stat.StdDev(col, nil)
		if sd <= 0 {
			sd = 1
		}
		theta0[j] = math.Log(sd)
	}
	theta0[d] = math.Log(yVar)
	theta0[d+1] = math.Log(0.1 * yVar)

	nll := func(theta []float64) float64 {
		return negLogLikelihood(x, y, theta, cfg.Jitter)
	}
	problem := optimize.Problem{Func: nll}

	bestNLL := math.Inf(1)
	var bestTheta []float64
	for attempt := 0; attempt <= cfg.Restarts; attempt++ {
		start := make([]float64, len(theta0))
		copy(start, theta0)
		if attempt > 0 {
			for i := range start {
				start[i] += rng.NormFloat64()
			}
		}

		result, err := optimize.Minimize(problem, start, nil, &optimize.NelderMead{})
		if err != nil || result == nil {
			continue
		}
		if !math.IsInf(result.F, 0) && !math.IsNaN(result.F) && result.F < bestNLL {
			bestNLL = result.F
			bestTheta = result.X
		}
	}
	if bestTheta == nil {
		return hyperparams{}, 0, ErrNoConvergence
	}

	hp := hyperparams{lengthscales: make([]float64, d)}
	for j := 0; j < d; j++ {
		hp.lengthscales[j] = math.Exp(bestTheta[j])
	}
	hp.signalVar = math.Exp(bestTheta[d])
	hp.noiseVar = math.Exp(bestTheta[d+1])
	return hp, bestNLL, nil
}

// negLogLikelihood evaluates -log p(y | X, theta). Returns +Inf for
// unfactorizable or overflowing hyperparameters so the optimizer backs off.
func negLogLikelihood(x *mat.Dense, y []float64, theta []float64, jitter float64) float64 {
	for _, t := range theta {
		if math.Abs(t) > 20 {
			return math.Inf(1)
		}
	}
	n, d := x.Dims()
	kernel := matern52{
		lengthscales: make([]float64, d),
		signalVar:    math.Exp(theta[d]),
	}
	for j := 0; j < d; j++ {
		kernel.lengthscales[j] = math.Exp(theta[j])
	}
	noiseVar := math.Exp(theta[d+1])

	gram := kernel.gram(x, noiseVar, jitter)
	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return math.Inf(1)
	}

	yVec := mat.NewVecDense(n, y)
	alpha := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(alpha, yVec); err != nil {
		return math.Inf(1)
	}

	nll := 0.5*mat.Dot(yVec, alpha) + 0.5*chol.LogDet() + 0.5*float64(n)*math.Log(2*math.Pi)
	if math.IsNaN(nll) {
		return math.Inf(1)
	}
	return nll
}

// === normalization ===

type normState struct {
	xMean, xStd []float64
	yMean, yStd float64
}

// normalize optionally z-scores inputs and outputs; the identity transform
// is represented by zero means and unit scales so the predict path never
// branches.
func normalize(x *mat.Dense, y []float64, enabled bool) (*mat.Dense, []float64, normState) {
	n, d := x.Dims()
	state := normState{
		xMean: make([]float64, d),
		xStd:  make([]float64, d),
		yStd:  1,
	}
	for j := range state.xStd {
		state.xStd[j] = 1
	}

	xs := mat.DenseCopyOf(x)
	ys := make([]float64, n)
	copy(ys, y)
	if !enabled {
		return xs, ys, state
	}

	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, xs)
		mean, sd := stat.MeanStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		state.xMean[j], state.xStd[j] = mean, sd
		for i := range col {
			xs.Set(i, j, (col[i]-mean)/sd)
		}
	}

	mean, sd := stat.MeanStdDev(ys, nil)
	if sd == 0 {
		sd = 1
	}
	state.yMean, state.yStd = mean, sd
	for i := range ys {
		ys[i] = (ys[i] - mean) / sd
	}
	return xs, ys, state
}
