// Package decompose evaluates the composite distribution of the next price
// change implied by a fitted parameter set. The joint law factors as
// P(occurrence) * P(direction | occurrence) * P(size | direction); sizes are
// 1 + Geometric on each side.
package decompose

import (
	"errors"
	"fmt"
	"math"

	"github.com/Alias1177/Decomposer/models"
)

var (
	// ErrInvalidPrevState is returned when the conditioning observation
	// violates the occurrence/direction/size invariant
	ErrInvalidPrevState = errors.New("previous observation violates the occurrence/direction/size invariant")
	// ErrInvalidCoefficients is returned when the parameter set yields
	// non-finite links or boundary success probabilities
	ErrInvalidCoefficients = errors.New("parameter set yields an invalid probability")
)

// Conditionals are the four probabilities a parameter set implies at a given
// previous observation.
type Conditionals struct {
	PChange    float64 // probability the next tick moves the price
	PUp        float64 // probability the move is upward, given a move
	LambdaUp   float64 // per-step success probability of the up-size model
	LambdaDown float64 // per-step success probability of the down-size model
}

// At evaluates the four conditional probabilities for a previous observation
func At(params models.ParameterSet, prev models.PriceChange) (Conditionals, error) {
	if !prev.Valid() {
		return Conditionals{}, ErrInvalidPrevState
	}

	occ := boolToFloat(prev.Occurred)
	cond := Conditionals{
		PChange:    sigmoid(params.Occurrence.Intercept + params.Occurrence.Slope*occ),
		PUp:        sigmoid(params.Direction.Intercept + params.Direction.Slope*float64(prev.Direction)),
		LambdaUp:   sigmoid(params.UpSize.Intercept + params.UpSize.Slope*float64(prev.Size)),
		LambdaDown: sigmoid(params.DownSize.Intercept + params.DownSize.Slope*float64(prev.Size)),
	}

	for _, p := range []float64{cond.PChange, cond.PUp, cond.LambdaUp, cond.LambdaDown} {
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			return Conditionals{}, fmt.Errorf("%w: %v", ErrInvalidCoefficients, p)
		}
	}

	return cond, nil
}

// CDF returns P(next price change <= x ticks | previous observation).
// Pure function of its inputs.
func CDF(params models.ParameterSet, prev models.PriceChange, x int) (float64, error) {
	cond, err := At(params, prev)
	if err != nil {
		return 0, err
	}
	return cdf(cond, x), nil
}

// PMF returns P(next price change == x ticks | previous observation)
func PMF(params models.ParameterSet, prev models.PriceChange, x int) (float64, error) {
	cond, err := At(params, prev)
	if err != nil {
		return 0, err
	}
	return pmf(cond, x), nil
}

func cdf(c Conditionals, x int) float64 {
	p, q := c.PChange, c.PUp

	if x < 0 {
		// Survival of the 1+Geometric down-size at -x:
		// P(S >= k) = (1-lambda)^(k-1) for k >= 1
		return p * (1 - q) * math.Pow(1-c.LambdaDown, float64(-x-1))
	}

	// No change, plus all downward mass, plus the up-size CDF at x:
	// P(S <= x) = 1 - (1-lambda)^x, zero at x = 0
	return (1 - p) + p*(1-q) + p*q*(1-math.Pow(1-c.LambdaUp, float64(x)))
}

func pmf(c Conditionals, x int) float64 {
	p, q := c.PChange, c.PUp

	switch {
	case x == 0:
		return 1 - p
	case x > 0:
		return p * q * c.LambdaUp * math.Pow(1-c.LambdaUp, float64(x-1))
	default:
		return p * (1 - q) * c.LambdaDown * math.Pow(1-c.LambdaDown, float64(-x-1))
	}
}

// Row is one entry of a distribution table
type Row struct {
	X   int
	PMF float64
	CDF float64
}

// Table evaluates the distribution over the inclusive tick range [lo, hi]
func Table(params models.ParameterSet, prev models.PriceChange, lo, hi int) ([]Row, error) {
	if lo > hi {
		return nil, fmt.Errorf("invalid tick range [%d, %d]", lo, hi)
	}

	cond, err := At(params, prev)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, hi-lo+1)
	for x := lo; x <= hi; x++ {
		rows = append(rows, Row{X: x, PMF: pmf(cond, x), CDF: cdf(cond, x)})
	}
	return rows, nil
}

func sigmoid(eta float64) float64 {
	return 1 / (1 + math.Exp(-eta))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
