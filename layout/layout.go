// Package layout implements the one-time filter sort every range filter
// tree is built over: points are reordered so their filter values are
// non-decreasing, and the permutation back to the caller's original
// indices is recorded for result remapping.
package layout

import (
	"fmt"
	"sort"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/pointstore"
)

// Sorted is the immutable result of a filter sort: the points view and
// filter values in sorted order, plus the permutation back to original IDs.
type Sorted struct {
	// Points is a view over the input points in filter-ascending order.
	Points pointstore.Store

	// FilterValues[i] is the filter scalar of the point at sorted index i.
	// Non-decreasing by construction.
	FilterValues []float64

	// OriginalID[i] is the caller's input index for the point now at sorted
	// index i. A bijection over [0, n).
	OriginalID []core.OriginalID
}

// Len returns the number of points in the layout.
func (s *Sorted) Len() int { return len(s.FilterValues) }

// Build computes a stable filter-ascending permutation of n points and
// materializes the corresponding sorted views. Stability is required so
// that scenarios with tied filter values produce deterministic output
// (§4.C): ties keep their original relative order.
func Build(points pointstore.Store, filterValues []float64) (*Sorted, error) {
	n := points.Len()
	if len(filterValues) != n {
		return nil, fmt.Errorf("layout: points (%d) and filter values (%d) length mismatch", n, len(filterValues))
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return filterValues[perm[a]] < filterValues[perm[b]]
	})

	sortedFilter := make([]float64, n)
	originalID := make([]core.OriginalID, n)
	for sortedIdx, origIdx := range perm {
		sortedFilter[sortedIdx] = filterValues[origIdx]
		originalID[sortedIdx] = core.OriginalID(origIdx)
	}

	return &Sorted{
		Points:       points.MakeSubset(perm),
		FilterValues: sortedFilter,
		OriginalID:   originalID,
	}, nil
}
