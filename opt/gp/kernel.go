package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// matern52 is the Matern-5/2 kernel with automatic relevance determination:
// one lengthscale per input dimension plus a shared signal variance.
type matern52 struct {
	lengthscales []float64
	signalVar    float64
}

const sqrt5 = 2.23606797749978969640917366873

// eval returns k(a, b).
func (k matern52) eval(a, b []float64) float64 {
	var r2 float64
	for i := range a {
		d := (a[i] - b[i]) / k.lengthscales[i]
		r2 += d * d
	}
	r := math.Sqrt(r2)
	return k.signalVar * (1 + sqrt5*r + 5.0/3.0*r2) * math.Exp(-sqrt5*r)
}

// gram fills an n x n symmetric Gram matrix over the rows of x, adding
// noiseVar (plus jitter) on the diagonal.
func (k matern52) gram(x *mat.Dense, noiseVar, jitter float64) *mat.SymDense {
	n, _ := x.Dims()
	gram := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		ri := x.RawRowView(i)
		for j := i; j < n; j++ {
			v := k.eval(ri, x.RawRowView(j))
			if i == j {
				v += noiseVar + jitter
			}
			gram.SetSym(i, j, v)
		}
	}
	return gram
}

// cross fills the n-vector of covariances between query point q and the
// rows of x.
func (k matern52) cross(x *mat.Dense, q []float64) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.eval(x.RawRowView(i), q))
	}
	return out
}
