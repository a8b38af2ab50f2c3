package ticks

import (
	"fmt"
	"math"

	"github.com/Alias1177/Decomposer/models"
)

// ChangeSeries converts a raw tick series into tick-unit price-change
// observations. The first tick has no predecessor and is excluded, so the
// result holds len(ticks)-1 observations.
func ChangeSeries(ticks []models.Tick, tickSize float64) ([]models.PriceChange, error) {
	if tickSize <= 0 {
		return nil, fmt.Errorf("tick size must be positive, got %v", tickSize)
	}
	if len(ticks) == 0 {
		return nil, ErrNoTicks
	}
	if len(ticks) < 2 {
		return nil, ErrNotEnoughTicks
	}

	changes := make([]models.PriceChange, 0, len(ticks)-1)
	for i := 1; i < len(ticks); i++ {
		steps := int(math.Round((ticks[i].Price - ticks[i-1].Price) / tickSize))

		change := models.PriceChange{Timestamp: ticks[i].Timestamp}
		if steps != 0 {
			change.Occurred = true
			change.Size = steps
			change.Direction = 1
			if steps < 0 {
				change.Direction = -1
				change.Size = -steps
			}
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// SampleStats summarizes a classified series for reporting
type SampleStats struct {
	Total     int
	Changed   int
	Up        int
	Down      int
	MeanSize  float64
	MaxSize   int
	ChangePct float64
}

// Summarize computes counting statistics over a classified series
func Summarize(changes []models.PriceChange) SampleStats {
	stats := SampleStats{Total: len(changes)}

	var sizeSum int
	for _, c := range changes {
		if !c.Occurred {
			continue
		}
		stats.Changed++
		sizeSum += c.Size
		if c.Size > stats.MaxSize {
			stats.MaxSize = c.Size
		}
		if c.Direction > 0 {
			stats.Up++
		} else {
			stats.Down++
		}
	}

	if stats.Changed > 0 {
		stats.MeanSize = float64(sizeSum) / float64(stats.Changed)
	}
	if stats.Total > 0 {
		stats.ChangePct = 100 * float64(stats.Changed) / float64(stats.Total)
	}

	return stats
}
