package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 30, 500, time.UTC)

func clock() time.Time { return fixedNow }

func TestParseExpr_Relative(t *testing.T) {
	tests := []struct {
		expr string
		want time.Time
	}{
		{"now", fixedNow.Truncate(time.Second)},
		{"NOW", fixedNow.Truncate(time.Second)},
		{"now-1h", fixedNow.Truncate(time.Second).Add(-time.Hour)},
		{" now - 30m ", fixedNow.Truncate(time.Second).Add(-30 * time.Minute)},
		{"now+45s", fixedNow.Truncate(time.Second).Add(45 * time.Second)},
		{"now-3d", fixedNow.Truncate(time.Second).Add(-72 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := ParseExpr(tt.expr)
			require.NoError(t, err)
			assert.True(t, e.IsRelative())
			assert.Equal(t, tt.want, e.Eval(fixedNow))
		})
	}
}

func TestParseExpr_Absolute(t *testing.T) {
	e, err := ParseExpr("2024-04-30T10:00:00Z")
	require.NoError(t, err)
	assert.False(t, e.IsRelative())
	assert.True(t, e.Eval(fixedNow).Equal(time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)))

	e, err = ParseExpr("2024-04-30 10:15")
	require.NoError(t, err)
	assert.Equal(t, 15, e.Eval(fixedNow).Minute())
}

func TestParseExpr_Invalid(t *testing.T) {
	for _, s := range []string{"", "yesterday", "now-1w", "now-h", "2024-13-01"} {
		_, err := ParseExpr(s)
		assert.Error(t, err, s)
	}
}

func TestPicker_SupplierReevaluates(t *testing.T) {
	now := fixedNow
	p, err := NewPicker("now-1h", "now", func() time.Time { return now })
	require.NoError(t, err)

	supply := p.Supplier()
	first, err := supply()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, first.Duration())

	now = now.Add(10 * time.Minute)
	second, err := supply()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, second.To.Sub(first.To))
}

func TestPicker_SupplierSnapshotsExpressions(t *testing.T) {
	p, err := NewPicker("now-1h", "now", clock)
	require.NoError(t, err)
	supply := p.Supplier()

	require.NoError(t, p.SetRaw("now-6h", "now"))

	r, err := supply()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, r.Duration(), "supplier must not follow later picker changes")
}

func TestPicker_SetRawRejectsInverted(t *testing.T) {
	p, err := NewPicker(DefaultFrom, DefaultTo, clock)
	require.NoError(t, err)

	err = p.SetRaw("now", "now-1h")
	assert.Error(t, err)

	from, to := p.Raw()
	assert.Equal(t, "now-1h", from, "picker must keep previous value")
	assert.Equal(t, "now", to)
}

func TestPicker_SetDatesAndRestore(t *testing.T) {
	p, err := NewPicker(DefaultFrom, DefaultTo, clock)
	require.NoError(t, err)

	savedFrom, savedTo := p.Exprs()
	zoom := Range{From: fixedNow.Add(-20 * time.Minute), To: fixedNow.Add(-10 * time.Minute)}
	p.SetDates(zoom)
	assert.False(t, p.IsRelative())
	assert.True(t, p.Dates().Equal(Range{From: zoom.From.Truncate(time.Second), To: zoom.To.Truncate(time.Second)}))

	p.SetExprs(savedFrom, savedTo)
	from, to := p.Raw()
	assert.Equal(t, "now-1h", from)
	assert.Equal(t, "now", to)
}

func TestRange_Helpers(t *testing.T) {
	base := time.Unix(0, 0)
	r := Range{From: base, To: base.Add(1000 * time.Second)}
	inner := Range{From: base.Add(10 * time.Second), To: base.Add(20 * time.Second)}

	assert.True(t, r.Valid())
	assert.True(t, r.Contains(inner))
	assert.False(t, inner.Contains(r))
	assert.False(t, Range{}.Valid())
	assert.False(t, Range{From: r.To, To: r.From}.Valid())

	got, err := Fixed(r)()
	require.NoError(t, err)
	assert.True(t, got.Equal(r))
}
