package widget

import (
	"time"

	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/metric"
)

// FillGaps inserts null samples at every missing step boundary between two
// consecutive samples, so outages render as breaks instead of straight
// lines. Samples must be sorted by time.
func FillGaps(samples []gateway.Sample, step time.Duration) []gateway.Sample {
	if step <= 0 || len(samples) < 2 {
		return samples
	}

	out := make([]gateway.Sample, 0, len(samples))
	for i, s := range samples {
		if i > 0 {
			prev := samples[i-1].At
			if s.At.Sub(prev) > step {
				for t := prev.Add(step); t.Before(s.At); t = t.Add(step) {
					out = append(out, gateway.Sample{At: t, Value: metric.Value{Null: true}})
				}
			}
		}
		out = append(out, s)
	}
	return out
}
