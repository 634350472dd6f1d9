package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKindAndFormat(t *testing.T) {
	assert.Equal(t, Counter, ParseKind("c"))
	assert.Equal(t, Gauge, ParseKind("g"))
	assert.Equal(t, Bitmap, ParseKind("b"))
	assert.Equal(t, Gauge, ParseKind("?"))

	assert.Equal(t, Integer, ParseFormat("i"))
	assert.Equal(t, Bytes, ParseFormat("B"))
	assert.Equal(t, Duration, ParseFormat("d"))
	assert.Equal(t, BitmapFormat, ParseFormat("b"))
	assert.Equal(t, Integer, ParseFormat(""))

	for _, k := range []Kind{Gauge, Counter, Bitmap} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	for _, f := range []Format{Integer, Bytes, Duration, BitmapFormat} {
		assert.Equal(t, f, ParseFormat(f.String()))
	}
}

func TestDescriptor_Unit(t *testing.T) {
	tests := []struct {
		kind   Kind
		format Format
		want   string
	}{
		{Counter, Duration, "seconds"},
		{Counter, Bytes, "Bps"},
		{Counter, Integer, "eps"},
		{Gauge, Duration, "seconds"},
		{Gauge, Bytes, "bytes"},
		{Gauge, Integer, ""},
		{Bitmap, BitmapFormat, "bits set"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+tt.format.String(), func(t *testing.T) {
			d := Descriptor{Kind: tt.kind, Format: tt.format}
			assert.Equal(t, tt.want, d.Unit())
		})
	}
}

func TestEffectiveAggregator(t *testing.T) {
	gauge := Descriptor{Kind: Gauge}
	bitmap := Descriptor{Kind: Bitmap, Format: BitmapFormat}
	bitmapFormatOnly := Descriptor{Kind: Gauge, Format: BitmapFormat}

	assert.Equal(t, Max, gauge.EffectiveAggregator(Max))
	assert.Equal(t, BitAnd, bitmap.EffectiveAggregator(Avg))
	assert.Equal(t, BitAnd, bitmapFormatOnly.EffectiveAggregator(Last))
}

func TestParseAggregator(t *testing.T) {
	a, err := ParseAggregator(" AVG ")
	require.NoError(t, err)
	assert.Equal(t, Avg, a)

	_, err = ParseAggregator("bit_and")
	assert.Error(t, err, "bit_and is not user selectable")

	_, err = ParseAggregator("median")
	assert.Error(t, err)
}

func TestPopCount(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"ff", 8},
		{"0xf0f0", 8},
		{"ffffffffffffffff", 64},
		{"1ffffffffffffffff", 65},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := PopCount(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PopCount("zz")
	assert.Error(t, err)
}

func TestDescriptor_Project(t *testing.T) {
	bitmap := Descriptor{Kind: Bitmap, Format: BitmapFormat}
	gauge := Descriptor{Kind: Gauge}

	assert.Equal(t, 3.0, bitmap.Project(HexValue("b")))
	assert.True(t, math.IsNaN(bitmap.Project(HexValue("xyz"))))
	assert.Equal(t, 42.5, gauge.Project(NumberValue(42.5)))
	assert.True(t, math.IsNaN(gauge.Project(Value{Null: true})))

	// A bitmap aggregated with 'count' arrives as a plain number.
	assert.Equal(t, 7.0, bitmap.Project(NumberValue(7)))

	// Hex on a non-bitmap metric keeps its magnitude.
	assert.Equal(t, 255.0, gauge.Project(HexValue("ff")))
}
