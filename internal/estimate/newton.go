package estimate

import (
	"math"

	"github.com/Alias1177/Decomposer/models"
)

const (
	maxIterations = 100
	gradTolerance = 1e-10
	// Coefficients beyond this magnitude mean the likelihood is drifting to
	// a boundary (complete separation), not converging
	coefLimit = 35.0
)

// glmFamily supplies the per-observation score and curvature of a
// two-parameter model with linear predictor eta = b0 + b1*x.
type glmFamily interface {
	// score returns d(loglik)/d(eta) for one observation
	score(eta, y float64) float64
	// curvature returns -d2(loglik)/d(eta)2 for one observation, always >= 0
	curvature(eta, y float64) float64
	// logLik returns the log-likelihood contribution of one observation
	logLik(eta, y float64) float64
}

// newtonFit maximizes the likelihood of a two-parameter GLM by
// Newton-Raphson, starting from (0, 0). The caller guarantees x has
// variation and y is not degenerate for the family.
func newtonFit(fam glmFamily, x, y []float64) (models.Coefficients, models.FitDiagnostics, error) {
	var b0, b1 float64
	var iters int

	for iters = 1; iters <= maxIterations; iters++ {
		var g0, g1 float64
		var h00, h01, h11 float64

		for i := range x {
			eta := b0 + b1*x[i]
			s := fam.score(eta, y[i])
			w := fam.curvature(eta, y[i])

			g0 += s
			g1 += s * x[i]
			h00 += w
			h01 += w * x[i]
			h11 += w * x[i] * x[i]
		}

		if math.IsNaN(g0) || math.IsNaN(g1) {
			return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
		}

		if math.Abs(g0) < gradTolerance && math.Abs(g1) < gradTolerance {
			break
		}

		det := h00*h11 - h01*h01
		if det <= 1e-12 {
			return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
		}

		b0 += (h11*g0 - h01*g1) / det
		b1 += (h00*g1 - h01*g0) / det

		if math.Abs(b0) > coefLimit || math.Abs(b1) > coefLimit {
			return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
		}
	}

	if iters > maxIterations {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
	}

	var ll float64
	for i := range x {
		eta := b0 + b1*x[i]
		// A fitted probability at the machine boundary means the gradient
		// vanished along a separation ray, not at an interior maximum
		if p := sigmoid(eta); p <= 0 || p >= 1 {
			return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
		}
		ll += fam.logLik(eta, y[i])
	}
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return models.Coefficients{}, models.FitDiagnostics{}, ErrNoConvergence
	}

	coefs := models.Coefficients{Intercept: b0, Slope: b1}
	diag := models.FitDiagnostics{
		Observations:  len(x),
		LogLikelihood: ll,
		Iterations:    iters,
	}
	return coefs, diag, nil
}

func sigmoid(eta float64) float64 {
	return 1 / (1 + math.Exp(-eta))
}

func allEqual(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}
