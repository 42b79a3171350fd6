package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK_KeepsSmallest(t *testing.T) {
	tk := NewTopK(3)
	for _, it := range []Item{
		{ID: 1, Distance: 5},
		{ID: 2, Distance: 1},
		{ID: 3, Distance: 9},
		{ID: 4, Distance: 2},
		{ID: 5, Distance: 0.5},
	} {
		tk.Push(it)
	}

	got := tk.Sorted()
	assert.Len(t, got, 3)
	assert.Equal(t, []Item{
		{ID: 5, Distance: 0.5},
		{ID: 2, Distance: 1},
		{ID: 4, Distance: 2},
	}, got)
}

func TestTopK_TieBreakByID(t *testing.T) {
	tk := NewTopK(2)
	tk.Push(Item{ID: 9, Distance: 1})
	tk.Push(Item{ID: 3, Distance: 1})
	tk.Push(Item{ID: 7, Distance: 1})

	got := tk.Sorted()
	assert.Equal(t, []Item{{ID: 3, Distance: 1}, {ID: 7, Distance: 1}}, got)
}

func TestTopK_ZeroCapacity(t *testing.T) {
	tk := NewTopK(0)
	tk.Push(Item{ID: 1, Distance: 1})
	assert.Empty(t, tk.Sorted())
}

func TestMergeSorted(t *testing.T) {
	a := []Item{{ID: 1, Distance: 1}, {ID: 2, Distance: 3}}
	b := []Item{{ID: 3, Distance: 2}}

	got := MergeSorted(2, a, b)
	assert.Equal(t, []Item{{ID: 1, Distance: 1}, {ID: 3, Distance: 2}}, got)
}

func TestMergeSorted_Empty(t *testing.T) {
	assert.Nil(t, MergeSorted(5))
}
