// Package rangefiltertree implements the Range Filter Tree (RFT): an index
// that answers range-filtered approximate nearest-neighbor queries over a
// static collection of high-dimensional vectors, each tagged with a scalar
// filter value.
//
// A query supplies a vector, an inclusive-looking filter interval [lo, hi]
// (see the resolver package for the exact, asymmetric boundary semantics),
// and a count k; the index returns up to k points whose filter value lies
// in the eligible window, ordered by ascending distance.
//
// The index is built once from points, their filter values, and a per-bucket
// SubIndex constructor (subindex.BuildFunc); queries then choose one of
// three routing strategies (planner.FenwickTree, planner.OptimizedPostfilter,
// planner.ThreeSplit) to decompose the eligible window into a small set of
// pre-built sub-indices.
//
//	idx, err := rangefiltertree.Build(ctx, points, n, dim, filterValues,
//		rangefiltertree.WithCutoff(256))
//	results, err := idx.Query(ctx, q, lo, hi, rangefiltertree.FenwickTree, subindex.QueryParams{K: 10})
package rangefiltertree
