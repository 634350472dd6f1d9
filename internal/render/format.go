package render

import (
	"math"
	"strconv"
	"time"
)

var siPrefixes = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "G"},
	{1e6, "M"},
	{1e3, "k"},
}

// FormatValue renders an axis value in at most six characters.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	for _, p := range siPrefixes {
		if v >= p.scale {
			return sign + trimFloat(v/p.scale) + p.suffix
		}
	}
	if v != 0 && v < 0.01 {
		return sign + strconv.FormatFloat(v, 'e', 0, 64)
	}
	return sign + trimFloat(v)
}

func trimFloat(v float64) string {
	prec := 2
	switch {
	case v >= 100:
		prec = 0
	case v >= 10:
		prec = 1
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// timeLayout picks a tick label layout for a window width.
func timeLayout(span time.Duration) string {
	switch {
	case span > 24*time.Hour:
		return "01-02 15:04"
	case span >= 10*time.Minute:
		return "15:04"
	default:
		return "15:04:05"
	}
}
