package layout

import (
	"testing"

	"github.com/hupe1980/rangefiltertree/metric"
	"github.com/hupe1980/rangefiltertree/pointstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SortsAndRecordsPermutation(t *testing.T) {
	// original order: filter 3, 1, 2
	points := []float32{
		30, 0,
		10, 0,
		20, 0,
	}
	store, err := pointstore.New(points, 3, 2, metric.SquaredL2)
	require.NoError(t, err)

	sorted, err := Build(store, []float64{3, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, sorted.FilterValues)
	assert.Equal(t, []uint32{1, 2, 0}, sorted.OriginalID)
	assert.Equal(t, []float32{10, 0}, sorted.Points.Vector(0))
	assert.Equal(t, []float32{20, 0}, sorted.Points.Vector(1))
	assert.Equal(t, []float32{30, 0}, sorted.Points.Vector(2))
}

func TestBuild_StableOnTies(t *testing.T) {
	points := []float32{0, 1, 2, 3}
	store, err := pointstore.New(points, 4, 1, metric.SquaredL2)
	require.NoError(t, err)

	// Indices 1 and 2 tie on filter value 5; stability must keep 1 before 2.
	sorted, err := Build(store, []float64{1, 5, 5, 9})
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2, 3}, sorted.OriginalID)
}

func TestBuild_LengthMismatch(t *testing.T) {
	points := []float32{0, 1}
	store, err := pointstore.New(points, 2, 1, metric.SquaredL2)
	require.NoError(t, err)

	_, err = Build(store, []float64{1})
	assert.Error(t, err)
}

func TestBuild_PermutationIsBijection(t *testing.T) {
	points := []float32{4, 1, 3, 2, 0}
	store, err := pointstore.New(points, 5, 1, metric.SquaredL2)
	require.NoError(t, err)

	sorted, err := Build(store, []float64{4, 1, 3, 2, 0})
	require.NoError(t, err)

	seen := make(map[uint32]bool)
	for _, id := range sorted.OriginalID {
		assert.False(t, seen[id], "duplicate original id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 5)
}
