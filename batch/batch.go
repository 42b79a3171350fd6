// Package batch implements the BatchDriver: parallel per-query fan-out over
// the query planner, ID remapping back to the caller's original coordinate
// space, and sentinel padding for queries that return fewer than k results.
package batch

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/layout"
	"github.com/hupe1980/rangefiltertree/planner"
	"github.com/hupe1980/rangefiltertree/pyramid"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// Query is one row of a batch request: a query vector paired with its
// filter interval.
type Query struct {
	Vector []float32
	Lo, Hi float64
}

// Warner receives a diagnostic for each query whose filter range didn't
// intersect the index at all (§7's OutOfRangeWarning). It is optional;
// passing nil drops the diagnostics silently. Row is the query's index in
// the batch.
type Warner interface {
	Warn(row int, w *planner.Warning)
}

// Result holds the Q x k output matrices: IDs in the caller's original
// coordinate space and their distances. Short rows (fewer than k matches)
// are padded with the sentinel (ID 0, distance +Inf).
type Result struct {
	IDs   [][]core.OriginalID
	Dists [][]float32
}

// Search answers every query in queries independently and in parallel,
// mirroring the pyramid package's per-bucket fan-out: each query is its own
// unit of work, bounded by GOMAXPROCS via errgroup.SetLimit.
func Search(ctx context.Context, p *pyramid.Pyramid, sorted *layout.Sorted, strategy planner.Strategy, queries []Query, k int, qp subindex.QueryParams, warn Warner) (*Result, error) {
	if k <= 0 {
		return nil, &core.ParameterError{Parameter: "k", Value: k}
	}

	qp.K = k

	rows := make([][]subindex.Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelism())

	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			results, err := planner.Search(p, sorted, strategy, query.Vector, query.Lo, query.Hi, qp)
			if err != nil {
				var w *planner.Warning
				if errors.As(err, &w) {
					if warn != nil {
						warn.Warn(i, w)
					}
					rows[i] = nil
					return nil
				}
				return err
			}

			rows[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		IDs:   make([][]core.OriginalID, len(queries)),
		Dists: make([][]float32, len(queries)),
	}
	for i, row := range rows {
		ids := make([]core.OriginalID, k)
		dists := make([]float32, k)
		for j := 0; j < k; j++ {
			if j < len(row) {
				ids[j] = sorted.OriginalID[row[j].SortedID]
				dists[j] = row[j].Distance
			} else {
				ids[j] = 0
				dists[j] = float32(math.Inf(1))
			}
		}
		out.IDs[i] = ids
		out.Dists[i] = dists
	}

	return out, nil
}

func maxParallelism() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}
