package field

import "math"

const (
	// Epsilon is the width below which a range counts as degenerate.
	Epsilon = 1e-12

	// DefaultMargin is how far a degenerate range is widened on each side.
	DefaultMargin = 0.5
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Widen returns r, or r expanded by margin on both sides of its midpoint when
// its span is below Epsilon. A non-positive margin falls back to DefaultMargin.
func (r Range) Widen(margin float64) Range {
	if r.Span() >= Epsilon {
		return r
	}
	if margin <= 0 {
		margin = DefaultMargin
	}
	mid := r.Min + r.Span()/2
	return Range{Min: mid - margin, Max: mid + margin}
}

// Accumulator tracks the min and max of the finite values fed to it.
type Accumulator struct {
	r     Range
	count int
}

func (a *Accumulator) Add(vals ...float64) {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if a.count == 0 {
			a.r = Range{Min: v, Max: v}
		} else {
			a.r.Min = math.Min(a.r.Min, v)
			a.r.Max = math.Max(a.r.Max, v)
		}
		a.count++
	}
}

func (a *Accumulator) Count() int { return a.count }

// Range returns the widened range of everything added. With nothing added it
// is the degenerate range around zero.
func (a *Accumulator) Range(margin float64) Range {
	return a.r.Widen(margin)
}

// Span computes the widened range of vals.
func Span(margin float64, vals ...float64) Range {
	var acc Accumulator
	acc.Add(vals...)
	return acc.Range(margin)
}
