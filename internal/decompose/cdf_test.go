package decompose

import (
	"errors"
	"math"
	"testing"

	"github.com/Alias1177/Decomposer/models"
)

// All-zero coefficients give p = q = lambda = 0.5 through the logistic link
var neutralParams = models.ParameterSet{}

var skewedParams = models.ParameterSet{
	Occurrence: models.Coefficients{Intercept: 0.4, Slope: -0.3},
	Direction:  models.Coefficients{Intercept: -0.2, Slope: 0.5},
	UpSize:     models.Coefficients{Intercept: 0.8, Slope: -0.1},
	DownSize:   models.Coefficients{Intercept: 1.1, Slope: 0.2},
}

func TestCDFNeutralReferenceValues(t *testing.T) {
	prev := models.PriceChange{} // no change: occurrence 0, direction 0, size 0

	tests := []struct {
		x    int
		want float64
	}{
		// (1-p) + p(1-q) = 0.75
		{0, 0.75},
		// p(1-q) * survival at shift 0 = 0.25 * 1
		{-1, 0.25},
		// p(1-q)(1-lambda)^1
		{-2, 0.125},
		// 0.75 + p*q*(1 - 0.5^1)
		{1, 0.875},
		{2, 0.9375},
	}

	for _, tt := range tests {
		got, err := CDF(neutralParams, prev, tt.x)
		if err != nil {
			t.Fatalf("CDF(%d) error = %v", tt.x, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("CDF(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestCDFMonotone(t *testing.T) {
	prevStates := []models.PriceChange{
		{},
		{Occurred: true, Direction: 1, Size: 1},
		{Occurred: true, Direction: -1, Size: 3},
	}

	for _, prev := range prevStates {
		last := -1.0
		for x := -50; x <= 50; x++ {
			got, err := CDF(skewedParams, prev, x)
			if err != nil {
				t.Fatalf("CDF(%d) error = %v", x, err)
			}
			if got < last {
				t.Fatalf("CDF decreased at x=%d: %v < %v (prev=%+v)", x, got, last, prev)
			}
			last = got
		}
	}
}

func TestCDFLimits(t *testing.T) {
	prev := models.PriceChange{Occurred: true, Direction: 1, Size: 2}

	low, err := CDF(skewedParams, prev, -500)
	if err != nil {
		t.Fatalf("CDF(-500) error = %v", err)
	}
	if low > 1e-9 {
		t.Errorf("CDF(-500) = %v, want ~0", low)
	}

	high, err := CDF(skewedParams, prev, 500)
	if err != nil {
		t.Fatalf("CDF(500) error = %v", err)
	}
	if math.Abs(high-1) > 1e-9 {
		t.Errorf("CDF(500) = %v, want ~1", high)
	}
}

// The point masses must tie out with CDF increments and sum to one
func TestPMFConsistency(t *testing.T) {
	prev := models.PriceChange{Occurred: true, Direction: -1, Size: 1}

	var total float64
	for x := -200; x <= 200; x++ {
		mass, err := PMF(skewedParams, prev, x)
		if err != nil {
			t.Fatalf("PMF(%d) error = %v", x, err)
		}
		total += mass

		cur, err := CDF(skewedParams, prev, x)
		if err != nil {
			t.Fatalf("CDF(%d) error = %v", x, err)
		}
		before, err := CDF(skewedParams, prev, x-1)
		if err != nil {
			t.Fatalf("CDF(%d) error = %v", x-1, err)
		}
		if math.Abs(cur-before-mass) > 1e-12 {
			t.Errorf("PMF(%d) = %v, but CDF increment = %v", x, mass, cur-before)
		}
	}

	if math.Abs(total-1) > 1e-9 {
		t.Errorf("total mass = %v, want 1", total)
	}
}

func TestCDFPureFunction(t *testing.T) {
	prev := models.PriceChange{Occurred: true, Direction: 1, Size: 4}

	first, err := CDF(skewedParams, prev, -3)
	if err != nil {
		t.Fatalf("CDF error = %v", err)
	}
	second, err := CDF(skewedParams, prev, -3)
	if err != nil {
		t.Fatalf("CDF error = %v", err)
	}
	if first != second {
		t.Errorf("repeated evaluation differs: %v vs %v", first, second)
	}
}

func TestCDFInvalidPrevState(t *testing.T) {
	tests := []struct {
		name string
		prev models.PriceChange
	}{
		{"Direction without occurrence", models.PriceChange{Direction: 1}},
		{"Size without occurrence", models.PriceChange{Size: 2}},
		{"Occurrence without direction", models.PriceChange{Occurred: true, Size: 1}},
		{"Occurrence without size", models.PriceChange{Occurred: true, Direction: -1}},
		{"Out of range direction", models.PriceChange{Occurred: true, Direction: 2, Size: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CDF(neutralParams, tt.prev, 0)
			if !errors.Is(err, ErrInvalidPrevState) {
				t.Errorf("error = %v, want ErrInvalidPrevState", err)
			}
		})
	}
}

func TestCDFInvalidCoefficients(t *testing.T) {
	tests := []struct {
		name   string
		params models.ParameterSet
	}{
		{
			"Infinite intercept saturates lambda",
			models.ParameterSet{UpSize: models.Coefficients{Intercept: math.Inf(1)}},
		},
		{
			"NaN slope",
			models.ParameterSet{Occurrence: models.Coefficients{Slope: math.NaN()}},
		},
	}

	prev := models.PriceChange{Occurred: true, Direction: 1, Size: 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CDF(tt.params, prev, 0)
			if !errors.Is(err, ErrInvalidCoefficients) {
				t.Errorf("error = %v, want ErrInvalidCoefficients", err)
			}
		})
	}
}

func TestTable(t *testing.T) {
	prev := models.PriceChange{}

	rows, err := Table(neutralParams, prev, -3, 3)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	if rows[0].X != -3 || rows[6].X != 3 {
		t.Errorf("range = [%d, %d], want [-3, 3]", rows[0].X, rows[6].X)
	}

	if _, err := Table(neutralParams, prev, 2, -2); err == nil {
		t.Error("expected error for inverted range")
	}
}
