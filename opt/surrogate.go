package opt

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SurrogateModel is one fitted probabilistic regressor for a single
// objective. A model is an immutable snapshot: it is produced fresh from the
// full history each round and discarded afterwards, never updated in place.
type SurrogateModel interface {
	// Lengthscales returns the fitted kernel lengthscales, one per feature
	// dimension. All values are positive on a successful fit.
	Lengthscales() []float64

	// LogLikelihood returns the log marginal likelihood of the fit.
	LogLikelihood() float64

	// LeaveOneOutError returns the root-mean-square leave-one-out residual
	// over the training set, computed on this model's state.
	LeaveOneOutError() float64

	// Predict returns the predictive mean and variance at x.
	Predict(x []float64) (mean, variance float64)
}

// SurrogateFitter trains one SurrogateModel per call on a full (X, y)
// snapshot. Implementations live in sub-packages (opt/gp); the rng seeds
// hyperparameter search initialization so fits are reproducible.
type SurrogateFitter interface {
	Fit(x *mat.Dense, y []float64, rng *rand.Rand) (SurrogateModel, error)
}
