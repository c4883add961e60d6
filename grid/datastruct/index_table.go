package datastruct

import (
	"iter"
	"sort"

	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Range is a run of consecutive indexes [Lower, Upper] sharing one value.
type Range[T comparable] struct {
	Lower int
	Upper int
	Value T
}

func (r Range[T]) Count() int {
	return r.Upper - r.Lower + 1
}

// IndexTable is a sparse map from integer index to value, stored as sorted,
// non-overlapping ranges. Adjacent ranges holding the same value are always
// merged, so a uniform block of a million indexes costs one range.
//
// Indexes that are not in the table are "gaps". Most of the grid's position
// math is phrased as counting table indexes (collapsed slots, group
// headers) or walking gaps (visible slots, data rows).
//
// Count queries are O(log r) in the number of ranges: a prefix count over
// ranges is rebuilt lazily after each mutation.
type IndexTable[T comparable] struct {
	ranges []Range[T]

	// prefix[i] is the number of indexes held by ranges[0:i]. nil when stale.
	prefix []int
}

func NewIndexTable[T comparable]() *IndexTable[T] {
	return &IndexTable[T]{}
}

func (t *IndexTable[T]) invalidate() {
	t.prefix = nil
}

func (t *IndexTable[T]) ensurePrefix() {
	if t.prefix != nil {
		return
	}
	t.prefix = make([]int, len(t.ranges)+1)
	for i, r := range t.ranges {
		t.prefix[i+1] = t.prefix[i] + r.Count()
	}
}

// IsEmpty reports whether the table holds no index.
func (t *IndexTable[T]) IsEmpty() bool {
	return len(t.ranges) == 0
}

// RangeCount is the number of stored ranges.
func (t *IndexTable[T]) RangeCount() int {
	return len(t.ranges)
}

// IndexCount is the total number of indexes in the table.
func (t *IndexTable[T]) IndexCount() int {
	t.ensurePrefix()
	return t.prefix[len(t.ranges)]
}

// Clear removes every index.
func (t *IndexTable[T]) Clear() {
	t.ranges = nil
	t.invalidate()
}

// FirstIndex returns the lowest index in the table, or -1.
func (t *IndexTable[T]) FirstIndex() int {
	if len(t.ranges) == 0 {
		return -1
	}
	return t.ranges[0].Lower
}

// LastIndex returns the highest index in the table, or -1.
func (t *IndexTable[T]) LastIndex() int {
	if len(t.ranges) == 0 {
		return -1
	}
	return t.ranges[len(t.ranges)-1].Upper
}

// search returns the position of the first range whose Upper >= index, and
// whether that range contains index.
func (t *IndexTable[T]) search(index int) (int, bool) {
	i := sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].Upper >= index
	})
	return i, i < len(t.ranges) && t.ranges[i].Lower <= index
}

// Contains reports whether index is in the table.
func (t *IndexTable[T]) Contains(index int) bool {
	_, found := t.search(index)
	return found
}

// ContainsAll reports whether every index in [lo, hi] is in the table.
func (t *IndexTable[T]) ContainsAll(lo, hi int) bool {
	if lo > hi {
		return true
	}
	return t.IndexCountIn(lo, hi) == hi-lo+1
}

// ValueAt returns the value stored for index.
func (t *IndexTable[T]) ValueAt(index int) (T, bool) {
	i, found := t.search(index)
	if !found {
		var zero T
		return zero, false
	}
	return t.ranges[i].Value, true
}

// countBelow returns the number of table indexes strictly lower than x.
func (t *IndexTable[T]) countBelow(x int) int {
	t.ensurePrefix()
	i, _ := t.search(x)
	count := t.prefix[i]
	if i < len(t.ranges) && t.ranges[i].Lower < x {
		count += x - t.ranges[i].Lower
	}
	return count
}

// IndexCountIn returns the number of table indexes in [lo, hi], inclusive.
func (t *IndexTable[T]) IndexCountIn(lo, hi int) int {
	if lo > hi || len(t.ranges) == 0 {
		return 0
	}
	return t.countBelow(hi+1) - t.countBelow(lo)
}

// IndexCountBeforeGap returns how many table indexes precede the gap-th
// (0-based) index that is NOT in the table. In other words the position of
// that gap is gap + IndexCountBeforeGap(gap).
func (t *IndexTable[T]) IndexCountBeforeGap(gap int) int {
	utils.Assert(gap >= 0, "negative gap number")
	if len(t.ranges) == 0 {
		return 0
	}
	t.ensurePrefix()
	// Number of gaps below ranges[i].Lower is Lower - prefix[i], which is
	// non-decreasing in i. The first range with more than gap gaps below it
	// starts after our gap, so every range before it precedes the gap.
	k := sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].Lower-t.prefix[i] > gap
	})
	return t.prefix[k]
}

// NextGap returns the lowest index greater than index that is not in the
// table.
func (t *IndexTable[T]) NextGap(index int) int {
	next := index + 1
	i, found := t.search(next)
	if !found {
		return next
	}
	for i+1 < len(t.ranges) && t.ranges[i+1].Lower == t.ranges[i].Upper+1 {
		i++
	}
	return t.ranges[i].Upper + 1
}

// PreviousGap returns the highest index lower than index that is not in the
// table, or -1.
func (t *IndexTable[T]) PreviousGap(index int) int {
	prev := index - 1
	if prev < 0 {
		return -1
	}
	i, found := t.search(prev)
	if !found {
		return prev
	}
	for i > 0 && t.ranges[i-1].Upper == t.ranges[i].Lower-1 {
		i--
	}
	return t.ranges[i].Lower - 1
}

// NextIndex returns the lowest table index greater than index, or -1.
func (t *IndexTable[T]) NextIndex(index int) int {
	i, found := t.search(index + 1)
	if found {
		return index + 1
	}
	if i < len(t.ranges) {
		return t.ranges[i].Lower
	}
	return -1
}

// PreviousIndex returns the highest table index lower than index, or -1.
func (t *IndexTable[T]) PreviousIndex(index int) int {
	if index <= 0 {
		return -1
	}
	i, found := t.search(index - 1)
	if found {
		return index - 1
	}
	if i > 0 {
		return t.ranges[i-1].Upper
	}
	return -1
}

// AddValue stores value at index, overwriting what was there.
func (t *IndexTable[T]) AddValue(index int, value T) {
	t.AddValues(index, 1, value)
}

// AddValues stores value for every index in [start, start+count).
func (t *IndexTable[T]) AddValues(start, count int, value T) {
	utils.Assert(start >= 0, "negative index")
	if count <= 0 {
		return
	}
	t.RemoveValues(start, count)
	r := Range[T]{Lower: start, Upper: start + count - 1, Value: value}
	i, _ := t.search(start)
	t.ranges = append(t.ranges, Range[T]{})
	copy(t.ranges[i+1:], t.ranges[i:])
	t.ranges[i] = r
	t.mergeAround(i)
	t.invalidate()
}

// mergeAround merges ranges[i] with equal-valued contiguous neighbors.
func (t *IndexTable[T]) mergeAround(i int) {
	if i+1 < len(t.ranges) {
		next := t.ranges[i+1]
		if next.Lower == t.ranges[i].Upper+1 && next.Value == t.ranges[i].Value {
			t.ranges[i].Upper = next.Upper
			t.ranges = append(t.ranges[:i+1], t.ranges[i+2:]...)
		}
	}
	if i > 0 {
		prev := t.ranges[i-1]
		if prev.Upper+1 == t.ranges[i].Lower && prev.Value == t.ranges[i].Value {
			t.ranges[i-1].Upper = t.ranges[i].Upper
			t.ranges = append(t.ranges[:i], t.ranges[i+1:]...)
		}
	}
}

// RemoveValue drops index from the table without shifting other indexes.
func (t *IndexTable[T]) RemoveValue(index int) {
	t.RemoveValues(index, 1)
}

// RemoveValues drops every index in [start, start+count) from the table
// without shifting other indexes.
func (t *IndexTable[T]) RemoveValues(start, count int) {
	if count <= 0 || len(t.ranges) == 0 {
		return
	}
	end := start + count - 1
	out := t.ranges[:0:0]
	for _, r := range t.ranges {
		if r.Upper < start || r.Lower > end {
			out = append(out, r)
			continue
		}
		if r.Lower < start {
			out = append(out, Range[T]{Lower: r.Lower, Upper: start - 1, Value: r.Value})
		}
		if r.Upper > end {
			out = append(out, Range[T]{Lower: end + 1, Upper: r.Upper, Value: r.Value})
		}
	}
	t.ranges = out
	t.invalidate()
}

// InsertIndex shifts every index at or after index up by one. The new index
// is a gap.
func (t *IndexTable[T]) InsertIndex(index int) {
	t.InsertIndexes(index, 1)
}

// InsertIndexAndValue shifts indexes at or after index up by one and stores
// value at index.
func (t *IndexTable[T]) InsertIndexAndValue(index int, value T) {
	t.InsertIndexes(index, 1)
	t.AddValue(index, value)
}

// InsertIndexes shifts every index at or after start up by count. A range
// straddling start is split so the inserted indexes are gaps.
func (t *IndexTable[T]) InsertIndexes(start, count int) {
	utils.Assert(start >= 0, "negative index")
	if count <= 0 || len(t.ranges) == 0 {
		return
	}
	i, found := t.search(start)
	if found && t.ranges[i].Lower < start {
		r := t.ranges[i]
		head := Range[T]{Lower: r.Lower, Upper: start - 1, Value: r.Value}
		tail := Range[T]{Lower: start, Upper: r.Upper, Value: r.Value}
		t.ranges = append(t.ranges, Range[T]{})
		copy(t.ranges[i+1:], t.ranges[i:])
		t.ranges[i] = head
		t.ranges[i+1] = tail
		i++
	}
	for j := i; j < len(t.ranges); j++ {
		t.ranges[j].Lower += count
		t.ranges[j].Upper += count
	}
	t.invalidate()
}

// RemoveIndex deletes index and shifts the following indexes down by one.
func (t *IndexTable[T]) RemoveIndex(index int) {
	t.RemoveIndexes(index, 1)
}

// RemoveIndexes deletes [start, start+count) and shifts the following
// indexes down by count.
func (t *IndexTable[T]) RemoveIndexes(start, count int) {
	if count <= 0 || len(t.ranges) == 0 {
		return
	}
	t.RemoveValues(start, count)
	i, _ := t.search(start)
	for j := i; j < len(t.ranges); j++ {
		t.ranges[j].Lower -= count
		t.ranges[j].Upper -= count
	}
	// The ranges around the removed block may now touch.
	if i > 0 && i < len(t.ranges) {
		t.mergeAround(i)
	}
	t.invalidate()
}

// Ranges yields the stored ranges in ascending order.
func (t *IndexTable[T]) Ranges() iter.Seq[Range[T]] {
	return func(yield func(Range[T]) bool) {
		for _, r := range t.ranges {
			if !yield(r) {
				return
			}
		}
	}
}

// All yields every index and its value in ascending order.
func (t *IndexTable[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for _, r := range t.ranges {
			for idx := r.Lower; idx <= r.Upper; idx++ {
				if !yield(idx, r.Value) {
					return
				}
			}
		}
	}
}

// Copy returns an independent copy of the table.
func (t *IndexTable[T]) Copy() *IndexTable[T] {
	c := &IndexTable[T]{ranges: make([]Range[T], len(t.ranges))}
	copy(c.ranges, t.ranges)
	return c
}
