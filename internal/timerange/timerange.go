// Package timerange parses the dashboard's time range selection. Ranges are
// either absolute dates or simple relative expressions such as "now-1h",
// which are re-evaluated each time the range is requested.
package timerange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Range is a [From, To) time window.
type Range struct {
	From time.Time
	To   time.Time
}

// Duration returns the width of the range.
func (r Range) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Valid reports whether From is not after To and both are set.
func (r Range) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.From.After(r.To)
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return !o.From.Before(r.From) && !o.To.After(r.To)
}

// Equal compares both edges at second precision or better.
func (r Range) Equal(o Range) bool {
	return r.From.Equal(o.From) && r.To.Equal(o.To)
}

func (r Range) String() string {
	return fmt.Sprintf("%s → %s", r.From.Format(DisplayLayout), r.To.Format(DisplayLayout))
}

// Supplier produces the currently selected range on demand.
type Supplier func() (Range, error)

// Fixed returns a supplier that always yields r.
func Fixed(r Range) Supplier {
	return func() (Range, error) { return r, nil }
}

// DisplayLayout is the layout used to render and parse absolute dates.
const DisplayLayout = "2006-01-02 15:04"

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	DisplayLayout,
	"2006-01-02",
}

var relativeExpr = regexp.MustCompile(`(?i)^\s*now\s*(?:(-|\+)\s*(\d+)([dhms]))?\s*$`)

// Expr is one edge of a time range: absolute, or relative to now.
type Expr struct {
	raw      string
	relative bool
	offset   time.Duration
	abs      time.Time
}

// ParseExpr parses "now", "now-1h", "now + 30m", RFC3339 or
// "2006-01-02 15:04" (local time).
func ParseExpr(s string) (Expr, error) {
	if m := relativeExpr.FindStringSubmatch(s); m != nil {
		e := Expr{raw: strings.TrimSpace(s), relative: true}
		if m[1] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return Expr{}, fmt.Errorf("invalid offset in %q", s)
			}
			var unit time.Duration
			switch strings.ToLower(m[3]) {
			case "d":
				unit = 24 * time.Hour
			case "h":
				unit = time.Hour
			case "m":
				unit = time.Minute
			case "s":
				unit = time.Second
			}
			e.offset = time.Duration(n) * unit
			if m[1] == "-" {
				e.offset = -e.offset
			}
		}
		return e, nil
	}

	trimmed := strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return Absolute(t), nil
		}
	}
	return Expr{}, fmt.Errorf("invalid date %q: use ISO 8601 or expressions like 'now-1h'", s)
}

// Absolute wraps a fixed point in time.
func Absolute(t time.Time) Expr {
	t = t.Truncate(time.Second)
	return Expr{raw: t.Format(time.RFC3339), abs: t}
}

// IsRelative reports whether the expression depends on the current time.
func (e Expr) IsRelative() bool {
	return e.relative
}

// IsZero reports whether the expression is unset.
func (e Expr) IsZero() bool {
	return e.raw == ""
}

// Eval resolves the expression against now, at second precision.
func (e Expr) Eval(now time.Time) time.Time {
	if e.relative {
		return now.Truncate(time.Second).Add(e.offset)
	}
	return e.abs
}

// String returns the raw expression, suitable for persisting.
func (e Expr) String() string {
	return e.raw
}

// Picker holds the selected from/to expressions.
type Picker struct {
	from Expr
	to   Expr
	now  func() time.Time
}

// DefaultFrom and DefaultTo form the range used when nothing is stored.
const (
	DefaultFrom = "now-1h"
	DefaultTo   = "now"
)

// NewPicker parses both edges. A nil now uses time.Now.
func NewPicker(from, to string, now func() time.Time) (*Picker, error) {
	if now == nil {
		now = time.Now
	}
	p := &Picker{now: now}
	if err := p.SetRaw(from, to); err != nil {
		return nil, err
	}
	return p, nil
}

// SetRaw parses and stores both edges; on error the picker is unchanged.
func (p *Picker) SetRaw(from, to string) error {
	f, err := ParseExpr(from)
	if err != nil {
		return err
	}
	t, err := ParseExpr(to)
	if err != nil {
		return err
	}
	if f.Eval(p.now()).After(t.Eval(p.now())) {
		return fmt.Errorf("invalid range: %q is after %q", from, to)
	}
	p.from, p.to = f, t
	return nil
}

// SetDates stores two absolute edges.
func (p *Picker) SetDates(r Range) {
	p.from, p.to = Absolute(r.From), Absolute(r.To)
}

// Raw returns the stored expressions.
func (p *Picker) Raw() (string, string) {
	return p.from.String(), p.to.String()
}

// Exprs returns the stored expressions.
func (p *Picker) Exprs() (Expr, Expr) {
	return p.from, p.to
}

// SetExprs restores previously saved expressions.
func (p *Picker) SetExprs(from, to Expr) {
	p.from, p.to = from, to
}

// Dates evaluates the current selection.
func (p *Picker) Dates() Range {
	now := p.now()
	return Range{From: p.from.Eval(now), To: p.to.Eval(now)}
}

// IsRelative reports whether either edge follows the clock.
func (p *Picker) IsRelative() bool {
	return p.from.IsRelative() || p.to.IsRelative()
}

// Supplier snapshots the current expressions. Later changes to the picker do
// not affect the returned supplier, but relative edges are evaluated against
// the clock on every call.
func (p *Picker) Supplier() Supplier {
	from, to, now := p.from, p.to, p.now
	return func() (Range, error) {
		n := now()
		r := Range{From: from.Eval(n), To: to.Eval(n)}
		if !r.Valid() {
			return Range{}, fmt.Errorf("invalid range %s", r)
		}
		return r, nil
	}
}
