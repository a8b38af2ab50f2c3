// Package report renders the decomposition diagnostics as plain-text tables.
package report

import (
	"fmt"
	"strings"

	"github.com/Alias1177/Decomposer/internal/decompose"
	"github.com/Alias1177/Decomposer/internal/ticks"
	"github.com/Alias1177/Decomposer/models"
)

// Format creates a human-readable summary of a decomposition run. The
// distribution grid is conditioned on the last observation of the series.
func Format(run *models.DecompositionRun, changes []models.PriceChange, gridRange int) (string, error) {
	if run == nil {
		return "No decomposition results available", nil
	}
	if len(changes) == 0 {
		return "", fmt.Errorf("no price-change observations to report on")
	}
	if gridRange < 1 {
		gridRange = 5
	}

	var b strings.Builder

	stats := ticks.Summarize(changes)
	fmt.Fprintf(&b, "\n===== TICK DECOMPOSITION: %s =====\n", run.Symbol)
	fmt.Fprintf(&b, "Ticks: %d | Observations: %d | Tick size: %g\n",
		run.TickCount, stats.Total, run.TickSize)
	fmt.Fprintf(&b, "Changed: %d (%.2f%%) | Up: %d | Down: %d\n",
		stats.Changed, stats.ChangePct, stats.Up, stats.Down)
	fmt.Fprintf(&b, "Mean size: %.3f ticks | Max size: %d ticks\n",
		stats.MeanSize, stats.MaxSize)

	b.WriteString("\nFitted coefficients:\n")
	writeModelLine(&b, "Occurrence", run.Result.Params.Occurrence, run.Result.Occurrence)
	writeModelLine(&b, "Direction", run.Result.Params.Direction, run.Result.Direction)
	writeModelLine(&b, "Up size", run.Result.Params.UpSize, run.Result.UpSize)
	writeModelLine(&b, "Down size", run.Result.Params.DownSize, run.Result.DownSize)

	if err := writeConditionals(&b, run.Result.Params); err != nil {
		return "", err
	}

	if err := writeTransitionCheck(&b, run.Result.Params, changes); err != nil {
		return "", err
	}

	// Distribution of the next change given the most recent observation
	last := changes[len(changes)-1]
	rows, err := decompose.Table(run.Result.Params, last, -gridRange, gridRange)
	if err != nil {
		return "", fmt.Errorf("evaluating distribution grid: %w", err)
	}

	fmt.Fprintf(&b, "\nNext-change distribution (prev: occurred=%t dir=%+d size=%d):\n",
		last.Occurred, last.Direction, last.Size)
	b.WriteString("    x      P(X=x)    P(X<=x)\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %+3d    %8.5f   %8.5f\n", row.X, row.PMF, row.CDF)
	}

	return b.String(), nil
}

// Summary produces the one-line digest used by the broadcast binary
func Summary(run *models.DecompositionRun) (string, error) {
	up, err := decompose.At(run.Result.Params, models.PriceChange{
		Occurred: true, Direction: 1, Size: 1,
	})
	if err != nil {
		return "", err
	}
	down, err := decompose.At(run.Result.Params, models.PriceChange{
		Occurred: true, Direction: -1, Size: 1,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"%s: after a 1-tick up move P(change)=%.3f P(up|change)=%.3f; after a 1-tick down move P(change)=%.3f P(up|change)=%.3f (run %s)",
		run.Symbol, up.PChange, up.PUp, down.PChange, down.PUp, run.ID,
	), nil
}

func writeModelLine(b *strings.Builder, name string, c models.Coefficients, d models.FitDiagnostics) {
	fmt.Fprintf(b, "- %-10s intercept=%+.5f slope=%+.5f (n=%d, loglik=%.3f, iters=%d)\n",
		name, c.Intercept, c.Slope, d.Observations, d.LogLikelihood, d.Iterations)
}

// writeConditionals prints the probabilities the model implies at the
// representative previous states.
func writeConditionals(b *strings.Builder, params models.ParameterSet) error {
	states := []struct {
		label string
		prev  models.PriceChange
	}{
		{"no change", models.PriceChange{}},
		{"1-tick up", models.PriceChange{Occurred: true, Direction: 1, Size: 1}},
		{"1-tick down", models.PriceChange{Occurred: true, Direction: -1, Size: 1}},
		{"2-tick up", models.PriceChange{Occurred: true, Direction: 1, Size: 2}},
		{"2-tick down", models.PriceChange{Occurred: true, Direction: -1, Size: 2}},
	}

	b.WriteString("\nImplied conditionals by previous state:\n")
	b.WriteString("  prev          P(change)   P(up|chg)   lambda+   lambda-\n")
	for _, s := range states {
		cond, err := decompose.At(params, s.prev)
		if err != nil {
			return fmt.Errorf("evaluating %s state: %w", s.label, err)
		}
		fmt.Fprintf(b, "  %-12s  %9.5f   %9.5f   %7.5f   %7.5f\n",
			s.label, cond.PChange, cond.PUp, cond.LambdaUp, cond.LambdaDown)
	}

	return nil
}

// writeTransitionCheck compares the empirical occurrence frequencies with
// the fitted ones, the basic sanity check of the occurrence model.
func writeTransitionCheck(b *strings.Builder, params models.ParameterSet, changes []models.PriceChange) error {
	var nAfterChange, changedAfterChange int
	var nAfterStill, changedAfterStill int

	for i := 1; i < len(changes); i++ {
		if changes[i-1].Occurred {
			nAfterChange++
			if changes[i].Occurred {
				changedAfterChange++
			}
		} else {
			nAfterStill++
			if changes[i].Occurred {
				changedAfterStill++
			}
		}
	}

	fittedStill, err := decompose.At(params, models.PriceChange{})
	if err != nil {
		return err
	}
	fittedChange, err := decompose.At(params, models.PriceChange{Occurred: true, Direction: 1, Size: 1})
	if err != nil {
		return err
	}

	b.WriteString("\nOccurrence model check (empirical vs fitted):\n")
	if nAfterStill > 0 {
		fmt.Fprintf(b, "- after no change:  %.5f vs %.5f (n=%d)\n",
			float64(changedAfterStill)/float64(nAfterStill), fittedStill.PChange, nAfterStill)
	}
	if nAfterChange > 0 {
		fmt.Fprintf(b, "- after a change:   %.5f vs %.5f (n=%d)\n",
			float64(changedAfterChange)/float64(nAfterChange), fittedChange.PChange, nAfterChange)
	}

	return nil
}
