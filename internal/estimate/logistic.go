package estimate

import (
	"math"

	"github.com/Alias1177/Decomposer/models"
)

// logisticFamily models a binary response y in {0,1} with
// P(y=1) = sigmoid(eta).
type logisticFamily struct{}

func (logisticFamily) score(eta, y float64) float64 {
	return y - sigmoid(eta)
}

func (logisticFamily) curvature(eta, y float64) float64 {
	p := sigmoid(eta)
	return p * (1 - p)
}

func (logisticFamily) logLik(eta, y float64) float64 {
	p := sigmoid(eta)
	if y == 1 {
		return math.Log(p)
	}
	return math.Log(1 - p)
}

// fitLogistic fits a logistic regression of y on a single covariate x by
// maximum likelihood.
func fitLogistic(x, y []float64) (models.Coefficients, models.FitDiagnostics, error) {
	if len(x) == 0 {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrEmptySubset
	}
	if allEqual(y) {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrConstantResponse
	}
	if allEqual(x) {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrConstantCovariate
	}

	return newtonFit(logisticFamily{}, x, y)
}
