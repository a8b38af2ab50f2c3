// Package estimate fits the four conditional sub-models of the price-change
// decomposition: occurrence, direction, and the two direction-specific size
// models. Each fit is an independent maximum-likelihood estimation over its
// filtered subset of lagged observation pairs.
package estimate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Decomposer/models"
)

var (
	// ErrEmptySubset is returned when a sub-model's filtered subset has no rows
	ErrEmptySubset = errors.New("filtered subset is empty")
	// ErrConstantResponse is returned when the response never varies, so the
	// likelihood has no interior maximum
	ErrConstantResponse = errors.New("response has no variation")
	// ErrConstantCovariate is returned when the covariate never varies, so the
	// slope is unidentifiable
	ErrConstantCovariate = errors.New("covariate has no variation")
	// ErrNoConvergence is returned when the Newton iteration fails to settle
	ErrNoConvergence = errors.New("maximum likelihood fit did not converge")

	// ErrNotEnoughChanges is returned when the series is too short to form a
	// single lagged pair
	ErrNotEnoughChanges = errors.New("need at least two price-change observations")
)

// SubModelError tags an estimation failure with the sub-model it came from
type SubModelError struct {
	Model string
	Err   error
}

func (e *SubModelError) Error() string {
	return fmt.Sprintf("%s model: %v", e.Model, e.Err)
}

func (e *SubModelError) Unwrap() error {
	return e.Err
}

// Fit estimates all four sub-models from a classified price-change series.
// Observations are aligned as (previous, current) pairs; the four fits are
// independent and any of them failing fails the whole estimation.
func Fit(changes []models.PriceChange) (*models.FitResult, error) {
	if len(changes) < 2 {
		return nil, ErrNotEnoughChanges
	}

	var (
		occX, occY []float64
		dirX, dirY []float64
		upX, downX []float64
		upS, downS []int
	)

	for i := 1; i < len(changes); i++ {
		prev, cur := changes[i-1], changes[i]

		occX = append(occX, boolToFloat(prev.Occurred))
		occY = append(occY, boolToFloat(cur.Occurred))

		if !cur.Occurred {
			continue
		}

		dirX = append(dirX, float64(prev.Direction))
		if cur.Direction > 0 {
			dirY = append(dirY, 1)
			upX = append(upX, float64(prev.Size))
			upS = append(upS, cur.Size)
		} else {
			dirY = append(dirY, 0)
			downX = append(downX, float64(prev.Size))
			downS = append(downS, cur.Size)
		}
	}

	result := &models.FitResult{}
	var err error

	result.Params.Occurrence, result.Occurrence, err = fitLogistic(occX, occY)
	if err != nil {
		return nil, &SubModelError{Model: "occurrence", Err: err}
	}

	result.Params.Direction, result.Direction, err = fitLogistic(dirX, dirY)
	if err != nil {
		return nil, &SubModelError{Model: "direction", Err: err}
	}

	result.Params.UpSize, result.UpSize, err = fitGeometric(upX, upS)
	if err != nil {
		return nil, &SubModelError{Model: "up-size", Err: err}
	}

	result.Params.DownSize, result.DownSize, err = fitGeometric(downX, downS)
	if err != nil {
		return nil, &SubModelError{Model: "down-size", Err: err}
	}

	log.Debug().
		Int("pairs", len(occX)).
		Int("direction_rows", len(dirX)).
		Int("up_rows", len(upS)).
		Int("down_rows", len(downS)).
		Msg("Fitted decomposition sub-models")

	return result, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
