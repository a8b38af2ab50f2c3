package models

import (
	"time"
)

// Tick represents a single trade print
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceChange is the classified transition between two consecutive ticks.
// Direction and Size carry meaning only when Occurred is true; both are
// zero otherwise.
type PriceChange struct {
	Timestamp time.Time `json:"timestamp"`
	Occurred  bool      `json:"occurred"`
	Direction int       `json:"direction"` // -1, 0 or +1
	Size      int       `json:"size"`      // magnitude in ticks, >= 1 when Occurred
}

// Valid reports whether the observation satisfies the classifier invariant
func (c PriceChange) Valid() bool {
	if !c.Occurred {
		return c.Direction == 0 && c.Size == 0
	}
	return (c.Direction == -1 || c.Direction == 1) && c.Size >= 1
}

// Coefficients holds the intercept and slope of one fitted sub-model
type Coefficients struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// ParameterSet is the complete fitted decomposition model: eight scalar
// coefficients, two per sub-model
type ParameterSet struct {
	Occurrence Coefficients `json:"occurrence"`
	Direction  Coefficients `json:"direction"`
	UpSize     Coefficients `json:"up_size"`
	DownSize   Coefficients `json:"down_size"`
}

// FitDiagnostics describes how one sub-model fit went
type FitDiagnostics struct {
	Observations  int     `json:"observations"`
	LogLikelihood float64 `json:"log_likelihood"`
	Iterations    int     `json:"iterations"`
}

// FitResult bundles the fitted coefficients with per-sub-model diagnostics
type FitResult struct {
	Params     ParameterSet   `json:"params"`
	Occurrence FitDiagnostics `json:"occurrence_fit"`
	Direction  FitDiagnostics `json:"direction_fit"`
	UpSize     FitDiagnostics `json:"up_size_fit"`
	DownSize   FitDiagnostics `json:"down_size_fit"`
}

// DecompositionRun ties a fit result to the dataset it was estimated on
type DecompositionRun struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	TickSize  float64   `json:"tick_size"`
	TickCount int       `json:"tick_count"`
	Result    FitResult `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}
