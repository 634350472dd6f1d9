package widget

import (
	"math"
	"strings"
	"time"

	"github.com/rileyhilliard/statgrid/internal/render"
	"github.com/rileyhilliard/statgrid/internal/timerange"
)

// plotlyLayout is the date format used by browser chart libraries in
// relayout payloads.
const plotlyLayout = "2006-01-02 15:04:05.999999"

// ExtractZoom reads the x-axis window out of a relayout payload. reset is
// true when the payload asks for autoranging; ok is false when the payload
// does not touch the x-axis.
func ExtractZoom(r render.Relayout) (rng *timerange.Range, reset bool, ok bool) {
	if v, found := r[render.KeyAutorange]; found {
		if b, isBool := v.(bool); isBool && b {
			return nil, true, true
		}
	}

	var start, end any
	if pair, found := r[render.KeyRange]; found {
		switch p := pair.(type) {
		case []any:
			if len(p) == 2 {
				start, end = p[0], p[1]
			}
		case []time.Time:
			if len(p) == 2 {
				start, end = p[0], p[1]
			}
		}
	} else {
		start, end = r[render.KeyRangeStart], r[render.KeyRangeEnd]
	}

	from, okFrom := toTime(start)
	to, okTo := toTime(end)
	if !okFrom || !okTo {
		return nil, false, false
	}
	if to.Before(from) {
		from, to = to, from
	}
	return &timerange.Range{From: from, To: to}, false, true
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case int:
		return time.Unix(int64(t), 0), true
	case int64:
		return time.Unix(t, 0), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*1e9)), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{time.RFC3339Nano, plotlyLayout} {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// ClampZoom bounds r to full. A window narrower than one step is widened to
// exactly one step around its midpoint, then moved back inside full if
// needed.
func ClampZoom(r, full timerange.Range, step time.Duration) timerange.Range {
	from, to := r.From, r.To
	if from.Before(full.From) {
		from = full.From
	}
	if to.After(full.To) {
		to = full.To
	}
	if to.Before(from) {
		// No overlap: collapse onto the nearest edge.
		if r.To.Before(full.From) {
			from, to = full.From, full.From
		} else {
			from, to = full.To, full.To
		}
	}

	if step > 0 && to.Sub(from) < step {
		if full.Duration() <= step {
			return full
		}
		mid := from.Add(to.Sub(from) / 2)
		from = mid.Add(-step / 2)
		to = from.Add(step)
		if from.Before(full.From) {
			from, to = full.From, full.From.Add(step)
		}
		if to.After(full.To) {
			from, to = full.To.Add(-step), full.To
		}
	}
	return timerange.Range{From: from, To: to}
}
