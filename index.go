package rangefiltertree

import (
	"context"
	"errors"

	"github.com/hupe1980/rangefiltertree/batch"
	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/layout"
	"github.com/hupe1980/rangefiltertree/planner"
	"github.com/hupe1980/rangefiltertree/pointstore"
	"github.com/hupe1980/rangefiltertree/pyramid"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// Index is a built Range Filter Tree: the filter-sorted layout and the
// bucket pyramid constructed over it, ready to answer queries.
type Index struct {
	sorted *layout.Sorted
	p      *pyramid.Pyramid
	logger *Logger
}

// Build constructs an Index from n row-major points of the given dimension,
// each tagged with filterValues[i], applying the options in opts.
func Build(ctx context.Context, points []float32, n, dimension int, filterValues []float64, opts ...BuildOption) (*Index, error) {
	c := newConfig(opts)

	if n == 0 {
		return nil, ErrEmptyIndex
	}
	if c.cutoff <= 0 {
		return nil, &ParameterError{Parameter: "cutoff", Value: c.cutoff}
	}
	if len(filterValues) != n {
		return nil, &ShapeError{Reason: "points and filter values length mismatch"}
	}

	store, err := pointstore.New(points, n, dimension, c.distFn)
	if err != nil {
		var paramErr *ParameterError
		if errors.As(err, &paramErr) {
			return nil, err
		}
		return nil, core.NewShapeError(err.Error(), err)
	}

	sorted, err := layout.Build(store, filterValues)
	if err != nil {
		return nil, core.NewShapeError(err.Error(), err)
	}

	p, err := pyramid.Build(ctx, sorted, c.cutoff, c.buildFn)
	c.logger.LogBuild(ctx, n, dimension, c.cutoff, numLevels(p), err)
	if err != nil {
		return nil, err
	}

	return &Index{sorted: sorted, p: p, logger: c.logger}, nil
}

func numLevels(p *pyramid.Pyramid) int {
	if p == nil {
		return 0
	}
	return p.NumLevels()
}

// Len returns the number of points the index was built over.
func (idx *Index) Len() int { return idx.sorted.Len() }

// Query answers a single range-filtered nearest-neighbor search. A non-nil,
// *planner.Warning-typed error (use errors.As) means [lo, hi] did not
// intersect the index at all; the accompanying nil result is the correct
// answer, not a failure.
func (idx *Index) Query(ctx context.Context, q []float32, lo, hi float64, strategy Strategy, qp subindex.QueryParams) ([]subindex.Result, error) {
	results, err := planner.Search(idx.p, idx.sorted, strategy, q, lo, hi, qp)
	idx.logger.LogQuery(ctx, strategy, lo, hi, qp.K, len(results), err)
	return results, err
}

// BatchSearch answers every query in queries in parallel, remapping results
// to the caller's original point coordinate space and sentinel-padding rows
// with fewer than k matches. Out-of-range rows are logged through idx's
// Logger and otherwise treated as empty, successful results.
func (idx *Index) BatchSearch(ctx context.Context, queries []batch.Query, k int, strategy Strategy, qp subindex.QueryParams) (*batch.Result, error) {
	result, err := batch.Search(ctx, idx.p, idx.sorted, strategy, queries, k, qp, loggingWarner{idx.logger})
	idx.logger.LogBatch(ctx, strategy, len(queries), k, err)
	return result, err
}

type loggingWarner struct {
	logger *Logger
}

func (w loggingWarner) Warn(row int, warning *planner.Warning) {
	w.logger.LogOutOfRange(context.Background(), row, warning.Lo, warning.Hi)
}
