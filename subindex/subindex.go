// Package subindex defines the SubIndex collaborator: the per-bucket ANN
// engine the range filter tree routes queries to. The tree treats
// implementations as opaque; only this contract matters.
package subindex

import (
	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/pointstore"
)

// QueryParams carries the tunables forwarded to a SubIndex query, plus the
// couple of fields the QueryPlanner itself interprets (K and
// MinQueryToBucketRatio). Treat it as a plain value: strategies that need a
// variant (three_split's center search) build a local copy rather than
// mutating the caller's struct.
type QueryParams struct {
	// K is the number of results the caller ultimately wants.
	K int

	// BeamSize, Cut, Limit, DegreeLimit and PostfilteringMaxBeam are
	// forwarded to the SubIndex unchanged; their meaning is entirely up to
	// the SubIndex implementation (e.g. graph beam width, candidate cut,
	// node degree cap).
	BeamSize             int
	Cut                  int
	Limit                int
	DegreeLimit          int
	PostfilteringMaxBeam int

	// FinalBeamMultiply is forwarded as-is, except three_split overrides it
	// to 1 for its center-bucket search to avoid over-dilating the search
	// on the dense central slice.
	FinalBeamMultiply int

	// MinQueryToBucketRatio, if non-zero, caps how loose a containing bucket
	// may be relative to the query window before optimized_postfilter
	// falls back to fenwick_tree.
	MinQueryToBucketRatio float64

	// Verbose is passed to the SubIndex along with the other fields. Neither
	// the planner nor Flat reads it; it produces no diagnostic output here.
	Verbose bool
}

// WithFinalBeamMultiply returns a copy of qp with FinalBeamMultiply
// overridden. QueryParams is a plain value, so this never mutates qp.
func (qp QueryParams) WithFinalBeamMultiply(v int) QueryParams {
	qp.FinalBeamMultiply = v
	return qp
}

// Result is a single match, identified in the range filter tree's sorted
// coordinate space (not the SubIndex's local bucket space). Translating
// local indices to absolute SortedIDs is the SubIndex implementation's
// responsibility, done once at Build time.
type Result struct {
	SortedID core.SortedID
	Distance float32
}

// Index is the SubIndex collaborator contract: construct from a point
// subset and its filter values, then answer bounded-range queries.
//
// Implementations are free to be exact (brute force) or approximate (graph,
// quantized); the planner never depends on which.
type Index interface {
	// Query returns up to qp.K matches whose filter value lies in the open
	// interval (lo, hi) — strictly between the bounds, matching the tree's
	// first_gt/first_ge boundary convention (a point whose filter value
	// equals lo or hi exactly is excluded, even as a tie) — sorted by
	// ascending distance (ties by ascending SortedID). Implementations MUST
	// honor (lo, hi) themselves: the planner may invoke a SubIndex whose
	// covered population is a superset of the eligible window.
	Query(q []float32, lo, hi float64, qp QueryParams) ([]Result, error)

	// Len reports how many points this SubIndex was built over.
	Len() int
}

// BuildFunc constructs an Index over a point subset.
//
// points is a view over exactly the subset's vectors (local indices
// 0..len(filterValues)). filterValues[i] is the filter scalar for local
// index i. ids[i] is that same point's absolute SortedID in the full,
// filter-sorted array — Query results are reported in that space.
type BuildFunc func(points pointstore.Store, filterValues []float64, ids []core.SortedID) (Index, error)
