// Package heap provides a small value-based priority queue used to merge
// candidate lists into a top-k result.
//
// The shape mirrors the classic container/heap adapter pattern: a slice plus
// Less/Swap/Push/Pop, with a thin TopK wrapper exposing Push and Sorted by
// value instead of interface{}.
package heap

import "container/heap"

// Item is a single candidate: an identifier paired with its distance to the
// query. Ties are broken by ascending ID, matching the ordering determinism
// required of every query strategy.
type Item struct {
	ID       uint32
	Distance float32
}

// innerHeap implements heap.Interface over a max-heap of Items, so that the
// worst of the current top-k sits at the root and can be evicted in O(log k).
type innerHeap struct {
	items []Item
}

func (h innerHeap) Len() int { return len(h.items) }

func (h innerHeap) Less(i, j int) bool {
	if h.items[i].Distance != h.items[j].Distance {
		return h.items[i].Distance > h.items[j].Distance
	}
	// Max-heap root should be the "worst" to evict; among ties, prefer to
	// keep the smaller ID, so treat the larger ID as worse.
	return h.items[i].ID > h.items[j].ID
}

func (h *innerHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *innerHeap) Push(x any) { h.items = append(h.items, x.(Item)) }

func (h *innerHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// TopK is a bounded max-heap that retains only the k smallest-distance items
// pushed into it, breaking ties by ascending ID.
type TopK struct {
	k int
	h innerHeap
}

// NewTopK creates a TopK heap bounded to k items. k <= 0 retains nothing.
func NewTopK(k int) *TopK {
	return &TopK{k: k}
}

// Push offers a candidate. If the heap is already at capacity k, the
// candidate is kept only if it beats the current worst member.
func (t *TopK) Push(item Item) {
	if t.k <= 0 {
		return
	}
	if len(t.h.items) < t.k {
		heap.Push(&t.h, item)
		return
	}
	worst := t.h.items[0]
	if item.Distance < worst.Distance || (item.Distance == worst.Distance && item.ID < worst.ID) {
		t.h.items[0] = item
		heap.Fix(&t.h, 0)
	}
}

// Sorted drains the heap into an ascending-distance slice (ties broken by
// ascending ID), which is the output contract every query strategy must meet.
func (t *TopK) Sorted() []Item {
	out := make([]Item, len(t.h.items))
	copy(out, t.h.items)
	sortItems(out)
	return out
}

func sortItems(items []Item) {
	// Small-n insertion sort keeps this allocation-free relative to
	// sort.Slice's closure captures; k is typically tiny (<=100s).
	for i := 1; i < len(items); i++ {
		v := items[i]
		j := i - 1
		for j >= 0 && less(v, items[j]) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = v
	}
}

func less(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.ID < b.ID
}

// MergeSorted merges already-sorted (ascending) Item slices, truncating to k.
// Used to combine per-bucket SubIndex results with brute-forced residues,
// each of which is produced sorted.
func MergeSorted(k int, lists ...[]Item) []Item {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	if total == 0 {
		return nil
	}

	all := make([]Item, 0, total)
	for _, l := range lists {
		all = append(all, l...)
	}
	sortItems(all)

	if k > 0 && len(all) > k {
		all = all[:k]
	}
	return all
}
