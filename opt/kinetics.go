package opt

import (
	"fmt"
	"math"
	"math/rand"
)

// KineticsParams parameterizes the simulated borrowing-hydrogen oracle.
// The defaults reproduce the in-silico benchmark; treat the literal values
// as tunable fixtures rather than chemistry.
type KineticsParams struct {
	A1  float64 // pre-exponential factor, diastereomer 1
	A2  float64 // pre-exponential factor, diastereomer 2
	Ea1 float64 // activation energy offset, diastereomer 1
	Ea2 float64 // activation energy offset, diastereomer 2

	TempMean   float64 // reaction temperature (K)
	TempStdDev float64
	TimeMean   float64 // reaction time (h)
	TimeStdDev float64

	ConversionCeiling       float64 // saturation point for conversion (%)
	ConversionCeilingStdDev float64 // the ceiling itself is noisy
	ConversionNoiseStdDev   float64 // additive measurement noise

	DECeiling       float64 // saturation point for de (fraction)
	DECeilingStdDev float64
	DENoiseStdDev   float64
}

// DefaultKineticsParams returns the benchmark constants.
func DefaultKineticsParams() KineticsParams {
	return KineticsParams{
		A1:                      8.5,
		A2:                      0.7,
		Ea1:                     50,
		Ea2:                     70,
		TempMean:                393,
		TempStdDev:              5,
		TimeMean:                7,
		TimeStdDev:              0.1,
		ConversionCeiling:       95.0,
		ConversionCeilingStdDev: 2,
		ConversionNoiseStdDev:   2,
		DECeiling:               0.98,
		DECeilingStdDev:         0.02,
		DENoiseStdDev:           0.02,
	}
}

// KineticsOracle simulates the borrowing-hydrogen reaction: two competing
// Arrhenius rate laws whose solvent-dependent activation energies are
// polynomial functions of the first three descriptor components. Conversion
// and diastereomeric excess are both capped by a noisy ceiling, so the
// saturation point drifts between evaluations.
type KineticsOracle struct {
	params KineticsParams
}

// NewKineticsOracle creates a simulated oracle with the given parameters.
func NewKineticsOracle(params KineticsParams) *KineticsOracle {
	return &KineticsOracle{params: params}
}

// NumObjectives returns the objective dimensionality (conversion, de).
func (o *KineticsOracle) NumObjectives() int { return 2 }

// Evaluate returns [conversion %, de %] for one candidate. Pure in
// (candidate, rng): all stochasticity comes from the supplied stream.
func (o *KineticsOracle) Evaluate(c Candidate, rng *rand.Rand) ([]float64, error) {
	if len(c.Features) < 3 {
		return nil, fmt.Errorf("kinetics oracle needs >= 3 descriptor components, candidate %q has %d", c.Key, len(c.Features))
	}
	p := o.params
	pc1, pc2, pc3 := c.Features[0], c.Features[1], c.Features[2]

	// Solvent contribution to each activation energy.
	es1 := -20*pc2*math.Abs(pc3) + 0.025*math.Pow(pc1, 3)
	es2 := 15*pc2*pc3 - 40*pc3*pc3

	temp := p.TempStdDev*rng.NormFloat64() + p.TempMean
	time := p.TimeStdDev*rng.NormFloat64() + p.TimeMean

	cd1 := p.A1 * time * math.Exp(-(p.Ea1+es1)/temp)
	cd2 := p.A2 * time * math.Exp(-(p.Ea2+es2)/temp)

	conversion := cd1 + cd2
	maxConversion := p.ConversionCeiling + rng.NormFloat64()*p.ConversionCeilingStdDev
	conversion = math.Min(maxConversion, conversion)
	conversion += rng.NormFloat64() * p.ConversionNoiseStdDev

	de := math.Abs(cd1-cd2) / (cd1 + cd2)
	maxDE := p.DECeiling + rng.NormFloat64()*p.DECeilingStdDev
	de = math.Min(maxDE, de)
	de += rng.NormFloat64() * p.DENoiseStdDev

	return []float64{conversion, de * 100}, nil
}
