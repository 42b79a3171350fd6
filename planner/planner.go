// Package planner implements the QueryPlanner: the component that turns a
// caller's (query vector, filter range, strategy) into a routed set of
// SubIndex queries against the bucket pyramid, and merges their answers.
package planner

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/internal/heap"
	"github.com/hupe1980/rangefiltertree/layout"
	"github.com/hupe1980/rangefiltertree/pyramid"
	"github.com/hupe1980/rangefiltertree/resolver"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// Strategy selects which of the three routing algorithms answers a query.
type Strategy int

const (
	// FenwickTree covers the eligible window with the fewest possible
	// aligned pyramid buckets (a Fenwick/binary-indexed-tree-style
	// decomposition), plus brute-forced residues at the boundaries.
	FenwickTree Strategy = iota

	// OptimizedPostfilter looks for the smallest single bucket that fully
	// contains the eligible window and post-filters its SubIndex query,
	// falling back to FenwickTree when no such bucket is tight enough.
	OptimizedPostfilter

	// ThreeSplit looks for the largest bucket fully contained within the
	// eligible window, queries it as the "center", and recurses into
	// OptimizedPostfilter for the two uncovered remainders.
	ThreeSplit
)

func (s Strategy) String() string {
	switch s {
	case FenwickTree:
		return "fenwick_tree"
	case OptimizedPostfilter:
		return "optimized_postfilter"
	case ThreeSplit:
		return "three_split"
	default:
		return "unknown"
	}
}

// Warning is returned as a non-fatal error value when a query's filter range
// does not intersect the indexed data at all — §7's OutOfRangeWarning.
// Callers should log it and treat the accompanying empty result as
// authoritative.
type Warning struct {
	Lo, Hi float64
}

func (w *Warning) Error() string {
	return fmt.Sprintf("planner: range [%v, %v] does not intersect the indexed filter range", w.Lo, w.Hi)
}

// Search answers a single query by dispatching to the requested strategy.
// It returns (nil, *Warning) — not a fatal error — when the filter range
// does not intersect the index at all; callers should treat that as an
// empty, legitimate result rather than a failure.
func Search(p *pyramid.Pyramid, sorted *layout.Sorted, strategy Strategy, q []float32, lo, hi float64, qp subindex.QueryParams) ([]subindex.Result, error) {
	if qp.K <= 0 {
		return nil, &core.ParameterError{Parameter: "k", Value: qp.K}
	}

	if resolver.OutOfRange(sorted.FilterValues, lo, hi) {
		return nil, &Warning{Lo: lo, Hi: hi}
	}

	w := resolver.Resolve(sorted.FilterValues, lo, hi)
	if w.Empty() {
		return nil, nil
	}

	switch strategy {
	case FenwickTree:
		return fenwickTree(p, sorted, w, q, lo, hi, qp)
	case OptimizedPostfilter:
		return optimizedPostfilter(p, sorted, w, q, lo, hi, qp)
	case ThreeSplit:
		return threeSplit(p, sorted, w, q, lo, hi, qp)
	default:
		return nil, fmt.Errorf("planner: unknown strategy %d", strategy)
	}
}

func toItems(results []subindex.Result) []heap.Item {
	items := make([]heap.Item, len(results))
	for i, r := range results {
		items[i] = heap.Item{ID: r.SortedID, Distance: r.Distance}
	}
	return items
}

func toResults(items []heap.Item) []subindex.Result {
	out := make([]subindex.Result, len(items))
	for i, it := range items {
		out[i] = subindex.Result{SortedID: it.ID, Distance: it.Distance}
	}
	return out
}

// bruteForce scores every point in [start, end) directly, bypassing any
// SubIndex. Used to cover window residue too small, or too awkwardly
// aligned, to hand off to a bucket's SubIndex.
func bruteForce(sorted *layout.Sorted, start, end core.SortedID, q []float32, qp subindex.QueryParams) ([]heap.Item, error) {
	if end <= start {
		return nil, nil
	}
	topK := heap.NewTopK(qp.K)
	for i := start; i < end; i++ {
		dist, err := sorted.Points.Distance(int(i), q)
		if err != nil {
			return nil, err
		}
		topK.Push(heap.Item{ID: i, Distance: dist})
	}
	return topK.Sorted(), nil
}

// contains reports whether bucket b is fully contained in [start, end) —
// used by fenwickTree/threeSplit to find a bucket small enough to nest
// inside the eligible window.
func contains(start, end core.SortedID, b *pyramid.Bucket) bool {
	return b.Start >= start && b.End <= end
}

// containsWindow reports the opposite relationship: whether bucket b fully
// covers [start, end) — used by optimizedPostfilter to find a bucket large
// enough to post-filter instead of decomposing the window.
func containsWindow(start, end core.SortedID, b *pyramid.Bucket) bool {
	return b.Start <= start && b.End >= end
}

// fenwickTree decomposes [w.Start, w.End) into the fewest aligned pyramid
// buckets, scanning levels from largest to smallest. At each level, if no
// bucket is covered yet, it seeds coverage with the first bucket at that
// level fully contained in the window — and stops looking for more seeds at
// that level the moment one is found, so the decomposition never double
// covers a span. Once coverage exists (freshly seeded this level or
// inherited from a coarser level), it greedily extends one more bucket on
// each side using the current level's width, but only where the gap left to
// that window edge is strictly greater than the width (a bucket that would
// end exactly on the edge is not added). Whatever remains uncovered at the
// boundaries is brute-forced.
func fenwickTree(p *pyramid.Pyramid, sorted *layout.Sorted, w resolver.Window, q []float32, lo, hi float64, qp subindex.QueryParams) ([]subindex.Result, error) {
	start, end := core.SortedID(w.Start), core.SortedID(w.End)

	var coveredStart, coveredEnd core.SortedID
	haveCoverage := false

	var matched []subindex.Result

	for j := p.NumLevels() - 1; j >= 0; j-- {
		if !haveCoverage {
			for b := 0; b < p.NumBuckets(j); b++ {
				bucket := p.Bucket(j, b)
				if contains(start, end, bucket) {
					results, err := bucket.Sub.Query(q, lo, hi, qp)
					if err != nil {
						return nil, err
					}
					matched = append(matched, results...)
					coveredStart, coveredEnd = bucket.Start, bucket.End
					haveCoverage = true
					break
				}
			}
		}

		if haveCoverage {
			width := core.SortedID(p.Width(j))

			// Extend left: the bucket immediately left of the covered span,
			// aligned to this level's width, if it stays strictly inside the
			// window (spec §4.F.1: "if C_lo - inclusive_start > w prepend").
			if coveredStart > start {
				leftStart := coveredStart - width
				if leftStart > start {
					if b, ok := bucketAt(p, j, leftStart); ok {
						results, err := b.Sub.Query(q, lo, hi, qp)
						if err != nil {
							return nil, err
						}
						matched = append(matched, results...)
						coveredStart = b.Start
					}
				}
			}

			// Extend right, symmetrically (spec §4.F.1: "if exclusive_end -
			// C_hi > w append").
			if coveredEnd < end {
				rightEnd := coveredEnd + width
				if rightEnd < end {
					if b, ok := bucketAt(p, j, coveredEnd); ok && b.End == rightEnd {
						results, err := b.Sub.Query(q, lo, hi, qp)
						if err != nil {
							return nil, err
						}
						matched = append(matched, results...)
						coveredEnd = b.End
					}
				}
			}
		}
	}

	items := toItems(matched)

	if !haveCoverage {
		residue, err := bruteForce(sorted, start, end, q, qp)
		if err != nil {
			return nil, err
		}
		return toResults(heap.MergeSorted(qp.K, residue)), nil
	}

	leftResidue, err := bruteForce(sorted, start, coveredStart, q, qp)
	if err != nil {
		return nil, err
	}
	rightResidue, err := bruteForce(sorted, coveredEnd, end, q, qp)
	if err != nil {
		return nil, err
	}

	merged := heap.MergeSorted(qp.K, items, leftResidue, rightResidue)
	return toResults(merged), nil
}

// bucketAt finds the bucket at level j whose Start equals start, if any.
func bucketAt(p *pyramid.Pyramid, j int, start core.SortedID) (*pyramid.Bucket, bool) {
	width := core.SortedID(p.Width(j))
	idx := int(start / width)
	if idx < 0 || idx >= p.NumBuckets(j) {
		return nil, false
	}
	b := p.Bucket(j, idx)
	if b.Start != start {
		return nil, false
	}
	return b, true
}

// optimizedPostfilter scans levels ascending (tightest first) for the
// smallest single bucket fully containing the window, and answers by
// post-filtering that bucket's SubIndex. It falls back to fenwickTree when
// the window is too small relative to the cutoff bucket width, or when
// MinQueryToBucketRatio is set and no candidate bucket is tight enough.
func optimizedPostfilter(p *pyramid.Pyramid, sorted *layout.Sorted, w resolver.Window, q []float32, lo, hi float64, qp subindex.QueryParams) ([]subindex.Result, error) {
	start, end := core.SortedID(w.Start), core.SortedID(w.End)
	windowLen := int(end - start)

	if 4*windowLen < p.Cutoff {
		return fenwickTree(p, sorted, w, q, lo, hi, qp)
	}

	for j := 0; j < p.NumLevels(); j++ {
		for b := 0; b < p.NumBuckets(j); b++ {
			bucket := p.Bucket(j, b)
			if !containsWindow(start, end, bucket) {
				continue
			}
			if qp.MinQueryToBucketRatio > 0 {
				bucketLen := int(bucket.End - bucket.Start)
				if bucketLen > 0 && float64(windowLen)/float64(bucketLen) < qp.MinQueryToBucketRatio {
					return fenwickTree(p, sorted, w, q, lo, hi, qp)
				}
			}
			return bucket.Sub.Query(q, lo, hi, qp)
		}
	}

	return fenwickTree(p, sorted, w, q, lo, hi, qp)
}

// threeSplit scans levels descending (largest first) for the largest bucket
// fully contained in the window, queries it once as the "center" with
// FinalBeamMultiply forced to 1, and recurses via optimizedPostfilter (with
// the caller's original qp, unmodified) over the left and right remainders.
// Results are merged, deduplicated by SortedID with a roaring bitmap (since
// the center and a remainder can never overlap by construction, dedup here
// only guards against a SubIndex reporting the same point from two distinct
// queries), sorted, and truncated to k.
func threeSplit(p *pyramid.Pyramid, sorted *layout.Sorted, w resolver.Window, q []float32, lo, hi float64, qp subindex.QueryParams) ([]subindex.Result, error) {
	start, end := core.SortedID(w.Start), core.SortedID(w.End)

	var center *pyramid.Bucket
	for j := p.NumLevels() - 1; j >= 0 && center == nil; j-- {
		for b := 0; b < p.NumBuckets(j); b++ {
			bucket := p.Bucket(j, b)
			if contains(start, end, bucket) {
				center = bucket
				break
			}
		}
	}

	if center == nil {
		return fenwickTree(p, sorted, w, q, lo, hi, qp)
	}

	centerResults, err := center.Sub.Query(q, lo, hi, qp.WithFinalBeamMultiply(1))
	if err != nil {
		return nil, err
	}

	all := append([]subindex.Result{}, centerResults...)

	// Both remainders re-resolve their filter-value range through
	// FirstGT/FirstGE rather than reusing the center bucket's raw sorted-ID
	// boundary, matching the original's optimized_postfiltering_search,
	// which always recomputes inclusive_start/exclusive_end fresh from the
	// passed range. This matters at the tie: center.Start/center.End are
	// themselves boundary positions whose filter value equals leftHi/rightLo,
	// and the asymmetric (first_gt, first_ge) convention excludes that exact
	// tied value from the recursive window, not just from the center.
	if center.Start > start {
		leftHi := sorted.FilterValues[center.Start]
		leftWindow := resolver.Resolve(sorted.FilterValues, lo, leftHi)
		if !leftWindow.Empty() {
			leftResults, err := optimizedPostfilter(p, sorted, leftWindow, q, lo, leftHi, qp)
			if err != nil {
				return nil, err
			}
			all = append(all, leftResults...)
		}
	}

	if center.End < end {
		rightLo := sorted.FilterValues[center.End]
		rightWindow := resolver.Resolve(sorted.FilterValues, rightLo, hi)
		if !rightWindow.Empty() {
			rightResults, err := optimizedPostfilter(p, sorted, rightWindow, q, rightLo, hi, qp)
			if err != nil {
				return nil, err
			}
			all = append(all, rightResults...)
		}
	}

	return dedupAndTruncate(all, qp.K), nil
}

func dedupAndTruncate(results []subindex.Result, k int) []subindex.Result {
	seen := roaring.New()
	deduped := make([]subindex.Result, 0, len(results))
	for _, r := range results {
		if seen.Contains(r.SortedID) {
			continue
		}
		seen.Add(r.SortedID)
		deduped = append(deduped, r)
	}

	items := toItems(deduped)
	merged := heap.MergeSorted(k, items)
	return toResults(merged)
}
