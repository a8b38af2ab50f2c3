package estimate

import (
	"fmt"
	"math"

	"github.com/Alias1177/Decomposer/models"
)

// geometricFamily models a count response s in {1, 2, 3, ...} as
// 1 + Geometric with per-step success probability sigmoid(eta):
// P(s=k) = lambda * (1-lambda)^(k-1).
type geometricFamily struct{}

func (geometricFamily) score(eta, s float64) float64 {
	return 1 - sigmoid(eta)*s
}

func (geometricFamily) curvature(eta, s float64) float64 {
	lambda := sigmoid(eta)
	return s * lambda * (1 - lambda)
}

func (geometricFamily) logLik(eta, s float64) float64 {
	lambda := sigmoid(eta)
	// A size-1 observation has no failure term; writing it as
	// (s-1)*log(1-lambda) would yield 0*(-Inf) = NaN when lambda saturates
	if s == 1 {
		return math.Log(lambda)
	}
	return math.Log(lambda) + (s-1)*math.Log(1-lambda)
}

// fitGeometric fits a geometric regression of sizes s (supported on
// {1,2,...}) on a single covariate x by maximum likelihood.
func fitGeometric(x []float64, sizes []int) (models.Coefficients, models.FitDiagnostics, error) {
	if len(x) == 0 {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrEmptySubset
	}

	s := make([]float64, len(sizes))
	allOne := true
	for i, size := range sizes {
		if size < 1 {
			return models.Coefficients{}, models.FitDiagnostics{},
				fmt.Errorf("size observation %d is %d, want >= 1", i, size)
		}
		s[i] = float64(size)
		if size != 1 {
			allOne = false
		}
	}

	// When every size is 1 the likelihood is maximized at lambda -> 1,
	// which has no finite coefficient
	if allOne {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrConstantResponse
	}
	if allEqual(x) {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrConstantCovariate
	}

	return newtonFit(geometricFamily{}, x, s)
}
