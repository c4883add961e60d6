package display

import (
	"testing"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/stretchr/testify/assert"
)

type layout struct {
	count     int
	collapsed *datastruct.IndexTable[bool]
}

func newLayout(count int) *layout {
	return &layout{count: count, collapsed: datastruct.NewIndexTable[bool]()}
}

func (l *layout) NextVisibleSlot(slot int) int {
	next := l.collapsed.NextGap(slot)
	if next >= l.count {
		return -1
	}
	return next
}

func (l *layout) PreviousVisibleSlot(slot int) int {
	return l.collapsed.PreviousGap(slot)
}

func (l *layout) CollapsedSlotCount(lo, hi int) int {
	return l.collapsed.IndexCountIn(lo, hi)
}

func realizeRange(w *Window, lo, hi int) []*element.Row {
	var out []*element.Row
	for s := lo; s <= hi; s++ {
		r := element.NewRow()
		w.RealizeElement(r, s)
		out = append(out, r)
	}
	return out
}

func slotsOf(w *Window) []int {
	var out []int
	for e := range w.Elements() {
		out = append(out, e.Common().Slot())
	}
	return out
}

func TestWindow_RealizeAtBothEdges(t *testing.T) {
	w := NewWindow(newLayout(100))
	assert.True(t, w.IsEmpty())
	assert.Equal(t, -1, w.FirstScrollingSlot())

	realizeRange(w, 10, 12)
	top := element.NewRow()
	w.RealizeElement(top, 9)

	assert.Equal(t, 9, w.FirstScrollingSlot())
	assert.Equal(t, 12, w.LastScrollingSlot())
	assert.Equal(t, 4, w.NumDisplayedScrollingElements())
	assert.Same(t, top, w.DisplayedElement(9))
	assert.Equal(t, []int{9, 10, 11, 12}, slotsOf(w))
	assert.True(t, w.IsContiguous())
}

func TestWindow_RealizeNonAdjacentPanics(t *testing.T) {
	w := NewWindow(newLayout(100))
	realizeRange(w, 10, 12)
	assert.Panics(t, func() { w.RealizeElement(element.NewRow(), 14) })
	assert.Panics(t, func() { w.RealizeElement(element.NewRow(), 8) })
}

func TestWindow_SkipsCollapsedSlots(t *testing.T) {
	l := newLayout(100)
	l.collapsed.AddValues(11, 3, true)
	w := NewWindow(l)

	w.RealizeElement(element.NewRow(), 10)
	w.RealizeElement(element.NewRow(), 14)
	w.RealizeElement(element.NewRow(), 15)

	assert.Equal(t, []int{10, 14, 15}, slotsOf(w))
	assert.True(t, w.Contains(14))
	assert.False(t, w.Contains(12))
	_, ok := w.TryDisplayedElement(12)
	assert.False(t, ok)
	assert.Equal(t, 15, w.DisplayedElement(15).Common().Slot())
}

func TestWindow_UnrealizeEdges(t *testing.T) {
	w := NewWindow(newLayout(100))
	rs := realizeRange(w, 0, 4)

	assert.Same(t, rs[0], w.UnrealizeElement(0))
	assert.Same(t, rs[4], w.UnrealizeElement(4))
	assert.Equal(t, []int{1, 2, 3}, slotsOf(w))
	assert.Panics(t, func() { w.UnrealizeElement(2) })

	w.UnrealizeElement(1)
	w.UnrealizeElement(2)
	w.UnrealizeElement(3)
	assert.True(t, w.IsEmpty())
	assert.Equal(t, -1, w.LastScrollingSlot())
}

func TestWindow_RingWrapsAndGrows(t *testing.T) {
	w := NewWindow(newLayout(1000))
	realizeRange(w, 500, 505)
	// Scroll down far enough for the ring to wrap several times.
	for s := 506; s < 600; s++ {
		w.UnrealizeElement(w.FirstScrollingSlot())
		w.RealizeElement(element.NewRow(), s)
	}
	assert.Equal(t, 594, w.FirstScrollingSlot())
	assert.Equal(t, 599, w.LastScrollingSlot())

	// Then scroll up past the original start while growing.
	for s := 593; s >= 450; s-- {
		w.RealizeElement(element.NewRow(), s)
	}
	assert.Equal(t, 150, w.NumDisplayedScrollingElements())
	assert.Equal(t, 450, w.DisplayedElement(450).Common().Slot())
	assert.True(t, w.IsContiguous())
}

func TestWindow_InsertionInsideWindow(t *testing.T) {
	l := newLayout(20)
	w := NewWindow(l)
	realizeRange(w, 5, 9)

	// One slot inserted at 7.
	l.count++
	w.CorrectSlotsAfterInsertion(7, 1)
	assert.Equal(t, []int{5, 6, 8, 9, 10}, slotsOf(w))

	inserted := element.NewRow()
	w.InsertElementAt(7, inserted)
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, slotsOf(w))
	assert.Same(t, inserted, w.DisplayedElement(7))
	assert.True(t, w.IsContiguous())
}

func TestWindow_InsertionBeforeWindowShifts(t *testing.T) {
	w := NewWindow(newLayout(50))
	realizeRange(w, 5, 7)
	w.CorrectSlotsAfterInsertion(0, 3)
	assert.Equal(t, 8, w.FirstScrollingSlot())
	assert.Equal(t, 10, w.LastScrollingSlot())
}

func TestWindow_DeletionInsideWindow(t *testing.T) {
	l := newLayout(20)
	w := NewWindow(l)
	rs := realizeRange(w, 5, 9)

	removed := w.RemoveElementAt(6)
	assert.Same(t, rs[1], removed)
	l.count--
	w.CorrectSlotsAfterDeletion(6, 1)
	assert.Equal(t, []int{5, 6, 7, 8}, slotsOf(w))
	assert.Same(t, rs[2], w.DisplayedElement(6))

	assert.Panics(t, func() { w.CorrectSlotsAfterDeletion(6, 1) }, "displayed slots cannot be deleted")
}

func TestWindow_DeletionOfFirst(t *testing.T) {
	w := NewWindow(newLayout(20))
	rs := realizeRange(w, 0, 2)
	w.RemoveElementAt(0)
	w.CorrectSlotsAfterDeletion(0, 1)
	assert.Equal(t, 0, w.FirstScrollingSlot())
	assert.Same(t, rs[1], w.First())
}

func TestWindow_TotallyDisplayed(t *testing.T) {
	w := NewWindow(newLayout(20))
	realizeRange(w, 3, 6)
	w.SetNumTotallyDisplayedScrollingElements(3)
	assert.Equal(t, 5, w.LastTotallyDisplayedSlot())
	assert.Panics(t, func() { w.SetNumTotallyDisplayedScrollingElements(5) })

	w.UnrealizeElement(6)
	w.UnrealizeElement(5)
	assert.Equal(t, 2, w.NumTotallyDisplayedScrollingElements())
}

func TestWindow_Reset(t *testing.T) {
	w := NewWindow(newLayout(20))
	rs := realizeRange(w, 3, 5)
	out := w.Reset()
	assert.Len(t, out, 3)
	assert.Same(t, rs[0], out[0])
	assert.True(t, w.IsEmpty())

	w.RealizeElement(element.NewRow(), 12)
	assert.Equal(t, 12, w.FirstScrollingSlot())
}

func TestWindow_Backward(t *testing.T) {
	w := NewWindow(newLayout(20))
	realizeRange(w, 0, 2)
	var got []int
	for e := range w.Backward() {
		got = append(got, e.Common().Slot())
	}
	assert.Equal(t, []int{2, 1, 0}, got)
}
