// Package pyramid builds the multi-resolution bucket structure (the
// BucketPyramid) that the query planner routes searches through: a
// geometric-size family of contiguous buckets over the filter-sorted
// points, one SubIndex per bucket.
package pyramid

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/layout"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// Bucket is a single (level, bucket) entry: the contiguous sorted-ID span it
// covers and the SubIndex built over exactly that span.
type Bucket struct {
	Start core.SortedID
	End   core.SortedID // half-open: covers [Start, End)
	Sub   subindex.Index
}

// Level is one row of the pyramid: every bucket at this level shares the
// same width, except the last bucket, which may be short.
type Level struct {
	Width   int
	Buckets []Bucket
}

// Pyramid is the built BucketPyramid: BucketPyramid exclusively owns every
// SubIndex it constructs; callers only ever get non-owning (*Bucket) views
// keyed by (level, bucket).
type Pyramid struct {
	Levels []Level
	N      int
	Cutoff int
}

// Width returns level j's bucket width w_j = cutoff * 2^j.
func (p *Pyramid) Width(j int) int { return p.Levels[j].Width }

// NumLevels returns m, the number of pyramid levels.
func (p *Pyramid) NumLevels() int { return len(p.Levels) }

// Bucket returns a non-owning view of bucket b at level j.
func (p *Pyramid) Bucket(j, b int) *Bucket { return &p.Levels[j].Buckets[b] }

// NumBuckets returns the bucket count at level j.
func (p *Pyramid) NumBuckets(j int) int { return len(p.Levels[j].Buckets) }

// Build constructs the pyramid over sorted, following §4.D: starting at
// w = cutoff, while w < 2n append a level of ceil(n/w) buckets, each built
// independently (and, within a level, in parallel) from exactly its
// covered sorted slice; then w doubles.
//
// This literally follows the reference implementation's loop rather than
// the "w_{m-1} >= 2n" phrasing used elsewhere to describe the stopping
// point: the widest level built is narrower than 2n. DESIGN.md (Open
// Question resolution #2) records why.
func Build(ctx context.Context, sorted *layout.Sorted, cutoff int, buildFn subindex.BuildFunc) (*Pyramid, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("pyramid: cutoff must be positive, got %d", cutoff)
	}
	n := sorted.Len()
	if n == 0 {
		return nil, fmt.Errorf("pyramid: cannot build over zero points")
	}

	p := &Pyramid{N: n, Cutoff: cutoff}

	for w := cutoff; w < 2*n; w *= 2 {
		level, err := buildLevel(ctx, sorted, w, buildFn)
		if err != nil {
			return nil, err
		}
		p.Levels = append(p.Levels, level)
	}

	return p, nil
}

// buildLevel constructs every bucket of width w in parallel. Each bucket's
// SubIndex is an independent unit of work; the worker count is capped at
// GOMAXPROCS via errgroup's SetLimit, mirroring the fan-out the rest of the
// tree uses for query batches.
func buildLevel(ctx context.Context, sorted *layout.Sorted, w int, buildFn subindex.BuildFunc) (Level, error) {
	n := sorted.Len()
	numBuckets := (n + w - 1) / w

	level := Level{Width: w, Buckets: make([]Bucket, numBuckets)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelism())

	for b := 0; b < numBuckets; b++ {
		b := b
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			start := b * w
			end := start + w
			if end > n {
				end = n
			}

			indices := make([]int, end-start)
			for i := range indices {
				indices[i] = start + i
			}

			subsetPoints := sorted.Points.MakeSubset(indices)
			subsetFilter := sorted.FilterValues[start:end]
			ids := make([]core.SortedID, end-start)
			for i := range ids {
				ids[i] = core.SortedID(start + i)
			}

			sub, err := buildFn(subsetPoints, subsetFilter, ids)
			if err != nil {
				return fmt.Errorf("pyramid: build bucket width=%d start=%d: %w", w, start, err)
			}

			level.Buckets[b] = Bucket{Start: core.SortedID(start), End: core.SortedID(end), Sub: sub}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Level{}, err
	}

	return level, nil
}

func maxParallelism() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}
