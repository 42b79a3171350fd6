// Package resolver implements the two boundary binary searches that turn a
// caller's filter interval [lo, hi] into the half-open sorted-ID window
// eligible for a query. That window holds only the points whose filter value
// lies strictly between lo and hi (see Resolve).
package resolver

import "sort"

// FirstGT returns the smallest index i with values[i] > x, or len(values) if
// no such index exists. values must be non-decreasing.
func FirstGT(values []float64, x float64) int {
	return sort.Search(len(values), func(i int) bool {
		return values[i] > x
	})
}

// FirstGE returns the smallest index i with values[i] >= x, or len(values)
// if no such index exists. values must be non-decreasing.
func FirstGE(values []float64, x float64) int {
	return sort.Search(len(values), func(i int) bool {
		return values[i] >= x
	})
}

// Window is the half-open sorted-ID range [Start, End) eligible for a
// query's filter interval.
type Window struct {
	Start int
	End   int
}

// Empty reports whether the window contains no sorted IDs.
func (w Window) Empty() bool { return w.End <= w.Start }

// Len returns the number of sorted IDs the window covers.
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start
}

// Resolve computes the eligible window for filter interval [lo, hi] against
// non-decreasing values, per §4.E's asymmetric convention: the left boundary
// is strict-greater, the right is greater-or-equal.
//
//	[inclusive_start, exclusive_end) := [FirstGT(lo), FirstGE(hi))
//
// This is deliberate, not a typo, and it is stricter than the "inclusive
// [lo, hi]" framing callers see suggests: FirstGT(lo) skips every point
// whose filter value equals lo, and FirstGE(hi) stops before the first
// point whose filter value equals hi, so both boundary values are excluded
// even when duplicated. The net eligible window is values strictly between
// lo and hi — see the package tests for worked cases.
func Resolve(values []float64, lo, hi float64) Window {
	return Window{Start: FirstGT(values, lo), End: FirstGE(values, hi)}
}

// OutOfRange reports whether [lo, hi] does not intersect the indexed filter
// range at all — the OutOfRangeWarning condition from §7. It is independent
// of Resolve's result: a non-intersecting range always resolves to an empty
// window, but an empty window can also arise from a tie-heavy interior gap,
// which is not a warning-worthy condition.
func OutOfRange(values []float64, lo, hi float64) bool {
	if len(values) == 0 {
		return true
	}
	return hi < values[0] || lo > values[len(values)-1]
}
