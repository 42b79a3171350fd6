package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rangefiltertree/core"
	"github.com/hupe1980/rangefiltertree/layout"
	"github.com/hupe1980/rangefiltertree/metric"
	"github.com/hupe1980/rangefiltertree/pointstore"
	"github.com/hupe1980/rangefiltertree/pyramid"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// buildFixture constructs n 1-D points at (i, 0) with filter value i, so
// distance-to-query and filter value coincide and expected results are easy
// to state by hand.
func buildFixture(t *testing.T, n, cutoff int) (*pyramid.Pyramid, *layout.Sorted) {
	t.Helper()
	points := make([]float32, n*2)
	filter := make([]float64, n)
	for i := 0; i < n; i++ {
		points[i*2] = float32(i)
		points[i*2+1] = 0
		filter[i] = float64(i)
	}
	store, err := pointstore.New(points, n, 2, metric.SquaredL2)
	require.NoError(t, err)

	sorted, err := layout.Build(store, filter)
	require.NoError(t, err)

	p, err := pyramid.Build(context.Background(), sorted, cutoff, subindex.BuildFlat)
	require.NoError(t, err)

	return p, sorted
}

func ids(results []subindex.Result) []uint32 {
	out := make([]uint32, len(results))
	for i, r := range results {
		out[i] = r.SortedID
	}
	return out
}

func TestSearch_TrivialSinglePoint(t *testing.T) {
	p, sorted := buildFixture(t, 1, 1)

	for _, strat := range []Strategy{FenwickTree, OptimizedPostfilter, ThreeSplit} {
		// The single point's filter value is 0; the asymmetric boundary
		// convention excludes both endpoints, so the query range must
		// strictly surround 0, not equal it.
		results, err := Search(p, sorted, strat, []float32{0, 0}, -1, 1, subindex.QueryParams{K: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, uint32(0), results[0].SortedID)
	}
}

func TestSearch_EmptyIntersection(t *testing.T) {
	p, sorted := buildFixture(t, 10, 2)

	results, err := Search(p, sorted, FenwickTree, []float32{0, 0}, 100, 200, subindex.QueryParams{K: 5})
	assert.Nil(t, results)
	var warning *Warning
	require.ErrorAs(t, err, &warning)
}

func TestSearch_AsymmetricBoundary(t *testing.T) {
	p, sorted := buildFixture(t, 10, 2)

	// Both lo=2 and hi=4 are excluded: only the point at filter value 3
	// lies strictly between them.
	results, err := Search(p, sorted, FenwickTree, []float32{3, 0}, 2, 4, subindex.QueryParams{K: 10})
	require.NoError(t, err)
	got := ids(results)
	assert.ElementsMatch(t, []uint32{3}, got)
}

func TestSearch_FenwickCoverage_AllStrategiesAgree(t *testing.T) {
	p, sorted := buildFixture(t, 32, 2)

	lo, hi := 5.0, 20.0
	q := []float32{12, 0}

	var reference []uint32
	for i, strat := range []Strategy{FenwickTree, OptimizedPostfilter, ThreeSplit} {
		results, err := Search(p, sorted, strat, q, lo, hi, subindex.QueryParams{K: 5})
		require.NoError(t, err)
		got := ids(results)
		if i == 0 {
			reference = got
			continue
		}
		assert.ElementsMatch(t, reference, got, "strategy %d disagreed", strat)
	}
}

func TestSearch_FullRangeReturnsClosestK(t *testing.T) {
	p, sorted := buildFixture(t, 20, 2)

	results, err := Search(p, sorted, FenwickTree, []float32{9, 0}, 0, 19, subindex.QueryParams{K: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []uint32{9, 8, 10}, ids(results))
}

func TestSearch_ThreeSplitOnAlignedWindow(t *testing.T) {
	p, sorted := buildFixture(t, 32, 2)

	// lo=7, hi=16 resolves to window [8, 16), exactly a level-2 bucket
	// (width 8) for n=32,cutoff=2, so three_split should use only the
	// center SubIndex (per S5).
	results, err := Search(p, sorted, ThreeSplit, []float32{12, 0}, 7, 16, subindex.QueryParams{K: 4})
	require.NoError(t, err)
	got := ids(results)
	assert.ElementsMatch(t, []uint32{12, 11, 13, 10}, got)
}

func TestSearch_UnknownStrategy(t *testing.T) {
	p, sorted := buildFixture(t, 4, 1)
	_, err := Search(p, sorted, Strategy(99), []float32{0, 0}, 0, 3, subindex.QueryParams{K: 1})
	assert.Error(t, err)
}

func TestSearch_RejectsNonPositiveK(t *testing.T) {
	p, sorted := buildFixture(t, 4, 1)

	_, err := Search(p, sorted, FenwickTree, []float32{0, 0}, -1, 3, subindex.QueryParams{K: 0})
	var paramErr *core.ParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "k", paramErr.Parameter)
}

// buildTieBoundaryFixture builds 32 points whose filter values are mostly
// distinct (0..11, then 21..38) except for sorted IDs 12 and 13, which are
// both pinned to 20: a tie sitting exactly where a cutoff=12 center bucket's
// boundary falls for the window used below.
func buildTieBoundaryFixture(t *testing.T, cutoff int) (*pyramid.Pyramid, *layout.Sorted) {
	t.Helper()
	const n = 32
	points := make([]float32, n*2)
	filter := make([]float64, n)
	for i := 0; i < n; i++ {
		points[i*2] = float32(i)
		points[i*2+1] = 0
	}
	for i := 0; i < 12; i++ {
		filter[i] = float64(i)
	}
	filter[12] = 20
	filter[13] = 20
	for i := 14; i < n; i++ {
		filter[i] = float64(21 + (i - 14))
	}

	store, err := pointstore.New(points, n, 2, metric.SquaredL2)
	require.NoError(t, err)

	sorted, err := layout.Build(store, filter)
	require.NoError(t, err)

	p, err := pyramid.Build(context.Background(), sorted, cutoff, subindex.BuildFlat)
	require.NoError(t, err)

	return p, sorted
}

func TestSearch_ThreeSplitExcludesTiedRemainderBoundary(t *testing.T) {
	p, sorted := buildTieBoundaryFixture(t, 12)

	// lo=-1, hi=21 resolves to window [0,14). three_split's center is the
	// width-12 bucket [0,12); the two-element remainder at sorted IDs
	// {12,13} is non-empty in raw ID terms, but both carry filter value 20 —
	// exactly the value the center's own boundary cuts on — so re-resolving
	// the remainder's range through FirstGT must drop both, even though 20
	// lies inside (lo, hi) and the remainder was genuinely non-empty.
	results, err := Search(p, sorted, ThreeSplit, []float32{6, 0}, -1, 21, subindex.QueryParams{K: 20})
	require.NoError(t, err)
	got := ids(results)

	want := make([]uint32, 12)
	for i := range want {
		want[i] = uint32(i)
	}
	assert.ElementsMatch(t, want, got)
}
