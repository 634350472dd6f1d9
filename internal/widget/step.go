package widget

import (
	"math"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/render"
)

const (
	// fillRatio is the share of the plot width samples may occupy.
	fillRatio = 0.9

	// MinSampleSpacing is the minimum distance in dots between two samples
	// drawn with markers.
	MinSampleSpacing = 6
)

// EstimateOptimalStep returns the step to request for [from, to) so that the
// samples fit in a plot of width dots. The base step is kept when it fits;
// otherwise it is scaled by a whole factor.
func EstimateOptimalStep(from, to time.Time, step time.Duration, width int) (time.Duration, error) {
	if step <= 0 {
		return 0, errors.NewConfigError("step", step, "a positive duration")
	}
	if width <= 0 {
		return 0, errors.New(errors.ErrEstimate,
			"cannot estimate step: container has no width yet", "")
	}

	n := float64(to.Sub(from)) / float64(step)
	capacity := math.Floor(fillRatio * float64(width))
	if n <= capacity {
		return step, nil
	}
	if capacity < 1 {
		capacity = 1
	}
	return time.Duration(math.Ceil(n/capacity)) * step, nil
}

// EstimateDataMode picks markers only when samples are far enough apart to
// stay distinguishable.
func EstimateDataMode(samples, width int) render.Mode {
	capacity := math.Floor(fillRatio * float64(width) / MinSampleSpacing)
	if float64(samples) > capacity {
		return render.ModeLines
	}
	return render.ModeLinesMarkers
}
