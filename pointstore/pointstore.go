// Package pointstore implements the PointStore collaborator: dense vector
// storage, the distance kernel, and cheap subset-view creation over a
// contiguous run of sorted IDs or an arbitrary index list.
//
// The range filter tree treats PointStore as an external dependency per its
// own contract (§6 of the design); this package is the concrete, in-memory
// implementation the rest of the module builds against.
package pointstore

import (
	"fmt"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/metric"
)

// DistanceFunc compares a query vector against a stored point.
type DistanceFunc func(v1, v2 []float32) (float32, error)

// Store is the PointStore collaborator contract: dense vector storage plus
// the distance kernel used to score a query against a stored point.
//
// Implementations must treat Dimension as authoritative for every vector
// passed to Distance. Vector may return memory that aliases the store's
// backing array; callers must not mutate it.
type Store interface {
	// Dimension returns the fixed vector width D.
	Dimension() int

	// Len returns the number of points visible through this view.
	Len() int

	// Vector returns the raw vector for local index i (0 <= i < Len()).
	Vector(i int) []float32

	// Distance scores query q against the point at local index i.
	Distance(i int, q []float32) (float32, error)

	// MakeSubset returns an owned view restricted to the given local
	// indices, renumbered 0..len(indices). The returned Store shares the
	// underlying vector memory; it never copies vector data.
	MakeSubset(indices []int) Store
}

// Dense is the default Store: a single contiguous, row-major []float32
// buffer holding every point's vector.
type Dense struct {
	dim    int
	data   []float32
	distFn DistanceFunc
}

// New builds a Dense store from row-major points (n rows of dim float32s
// each) using the given distance function.
func New(points []float32, n, dim int, distFn DistanceFunc) (*Dense, error) {
	if dim <= 0 {
		return nil, &core.ParameterError{Parameter: "dimension", Value: dim}
	}
	if len(points) != n*dim {
		return nil, fmt.Errorf("pointstore: expected %d floats for %d points of dimension %d, got %d", n*dim, n, dim, len(points))
	}
	if distFn == nil {
		distFn = metric.SquaredL2
	}
	return &Dense{dim: dim, data: points, distFn: distFn}, nil
}

func (d *Dense) Dimension() int { return d.dim }

func (d *Dense) Len() int {
	if d.dim == 0 {
		return 0
	}
	return len(d.data) / d.dim
}

func (d *Dense) Vector(i int) []float32 {
	return d.data[i*d.dim : (i+1)*d.dim]
}

func (d *Dense) Distance(i int, q []float32) (float32, error) {
	return d.distFn(d.Vector(i), q)
}

func (d *Dense) MakeSubset(indices []int) Store {
	return &subsetView{base: d, indices: indices}
}

// subsetView is a non-owning, renumbered window into a base Store. It is the
// concrete shape of the "owned subset view" the PointStore contract
// describes: owned in the sense of fixed membership, but the vector bytes
// themselves are never duplicated.
type subsetView struct {
	base    Store
	indices []int
}

func (s *subsetView) Dimension() int { return s.base.Dimension() }

func (s *subsetView) Len() int { return len(s.indices) }

func (s *subsetView) Vector(i int) []float32 {
	return s.base.Vector(s.indices[i])
}

func (s *subsetView) Distance(i int, q []float32) (float32, error) {
	return s.base.Distance(s.indices[i], q)
}

func (s *subsetView) MakeSubset(indices []int) Store {
	remapped := make([]int, len(indices))
	for i, local := range indices {
		remapped[i] = s.indices[local]
	}
	return &subsetView{base: s.base, indices: remapped}
}

// ContiguousIndices is a small helper for the common case (a bucket is a
// contiguous run of SortedIDs): it returns a new []int holding lo, lo+1, ...,
// hi-1, ready to pass to MakeSubset.
func ContiguousIndices(lo, hi core.SortedID) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, int(i))
	}
	return out
}
