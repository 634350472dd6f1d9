// Package metric describes the metrics shown on the dashboard: their kind,
// value format, aggregators and the projections that turn raw storage values
// into plottable numbers.
package metric

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strings"
)

// Kind distinguishes counter, gauge and bitmap semantics.
type Kind int

const (
	Gauge Kind = iota
	Counter
	Bitmap
)

// String returns the storage API flag for the kind.
func (k Kind) String() string {
	switch k {
	case Counter:
		return "c"
	case Bitmap:
		return "b"
	default:
		return "g"
	}
}

// ParseKind decodes a storage API flag. Unknown flags are treated as gauges.
func ParseKind(flag string) Kind {
	switch flag {
	case "c":
		return Counter
	case "b":
		return Bitmap
	default:
		return Gauge
	}
}

// Format distinguishes how values are expressed.
type Format int

const (
	Integer Format = iota
	Bytes
	Duration
	BitmapFormat
)

// String returns the storage API format character.
func (f Format) String() string {
	switch f {
	case Bytes:
		return "B"
	case Duration:
		return "d"
	case BitmapFormat:
		return "b"
	default:
		return "i"
	}
}

// ParseFormat decodes a storage API format. Unknown formats are plain integers.
func ParseFormat(format string) Format {
	switch format {
	case "B":
		return Bytes
	case "d":
		return Duration
	case "b":
		return BitmapFormat
	default:
		return Integer
	}
}

// Descriptor identifies one metric.
type Descriptor struct {
	ID          int
	Name        string
	Description string
	Kind        Kind
	Format      Format
	// Debug marks low level metrics hidden at normal verbosity.
	Debug bool
}

// IsBitmap reports whether values arrive as hexadecimal bit patterns.
func (d Descriptor) IsBitmap() bool {
	return d.Kind == Bitmap || d.Format == BitmapFormat
}

// Unit returns the y-axis label for the metric.
func (d Descriptor) Unit() string {
	switch d.Kind {
	case Counter:
		switch d.Format {
		case Duration:
			return "seconds"
		case Bytes:
			return "Bps"
		case Integer, BitmapFormat:
			return "eps"
		}
	case Gauge:
		switch d.Format {
		case Duration:
			return "seconds"
		case Bytes:
			return "bytes"
		case Integer, BitmapFormat:
			return ""
		}
	case Bitmap:
		return "bits set"
	}
	return ""
}

// Aggregator names the storage-side aggregation function.
type Aggregator string

const (
	Avg    Aggregator = "avg"
	Min    Aggregator = "min"
	Max    Aggregator = "max"
	First  Aggregator = "first"
	Last   Aggregator = "last"
	Count  Aggregator = "count"
	BitAnd Aggregator = "bit_and"
)

// Aggregators lists the user-selectable aggregators in display order.
var Aggregators = []Aggregator{Avg, Min, Max, First, Last, Count}

// ParseAggregator validates a user supplied aggregator.
func ParseAggregator(s string) (Aggregator, error) {
	a := Aggregator(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Aggregators {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown aggregator %q", s)
}

// EffectiveAggregator returns the aggregator to request for the metric.
// Averaging bit patterns is meaningless, so bitmaps always use bit_and.
func (d Descriptor) EffectiveAggregator(selected Aggregator) Aggregator {
	if d.IsBitmap() {
		return BitAnd
	}
	return selected
}

// Value is one raw sample value as delivered by the storage API.
type Value struct {
	Num  float64
	Hex  string
	Null bool
}

// NumberValue wraps a numeric sample value.
func NumberValue(v float64) Value {
	return Value{Num: v}
}

// HexValue wraps a hexadecimal bitmap sample value.
func HexValue(h string) Value {
	return Value{Hex: h}
}

// Project converts a raw value into the plotted number. Bitmaps are shown as
// the number of bits set. Null values and unparsable hex become NaN.
func (d Descriptor) Project(v Value) float64 {
	if v.Null {
		return math.NaN()
	}
	if v.Hex != "" {
		if !d.IsBitmap() {
			if n, ok := new(big.Int).SetString(strings.TrimPrefix(v.Hex, "0x"), 16); ok {
				f, _ := new(big.Float).SetInt(n).Float64()
				return f
			}
			return math.NaN()
		}
		n, err := PopCount(v.Hex)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	return v.Num
}

// PopCount returns the number of one bits of a hexadecimal big integer.
func PopCount(hex string) (int, error) {
	hex = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hex), "0x"), "0X")
	n, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return 0, fmt.Errorf("invalid bitmap value %q", hex)
	}
	count := 0
	for _, w := range n.Bits() {
		count += bits.OnesCount(uint(w))
	}
	return count, nil
}
