package subindex

import (
	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/internal/heap"
	"github.com/hupe1980/rangefiltertree/pointstore"
)

// Flat is an exact, brute-force SubIndex: every Query scans its full
// population and scores each point against q, so a query costs O(bucket
// size). Bucket sizes range from the cutoff at the finest pyramid level up
// to every indexed point at the coarsest, so Flat is the always-correct
// default rather than a fast one — callers after faster queries on large
// buckets supply their own BuildFunc for a graph-based or quantized variant
// instead.
type Flat struct {
	points       pointstore.Store
	filterValues []float64
	ids          []core.SortedID
}

var _ Index = (*Flat)(nil)

// BuildFlat is a BuildFunc constructing a Flat SubIndex.
func BuildFlat(points pointstore.Store, filterValues []float64, ids []core.SortedID) (Index, error) {
	return &Flat{points: points, filterValues: filterValues, ids: ids}, nil
}

func (f *Flat) Len() int { return f.points.Len() }

func (f *Flat) Query(q []float32, lo, hi float64, qp QueryParams) ([]Result, error) {
	topK := heap.NewTopK(qp.K)

	for i := 0; i < f.points.Len(); i++ {
		fv := f.filterValues[i]
		if fv <= lo || fv >= hi {
			continue
		}
		dist, err := f.points.Distance(i, q)
		if err != nil {
			return nil, err
		}
		topK.Push(heap.Item{ID: f.ids[i], Distance: dist})
	}

	items := topK.Sorted()
	out := make([]Result, len(items))
	for i, it := range items {
		out[i] = Result{SortedID: it.ID, Distance: it.Distance}
	}
	return out, nil
}
