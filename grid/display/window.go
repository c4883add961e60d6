// Package display tracks the contiguous run of realized elements that
// covers the viewport.
package display

import (
	"fmt"
	"iter"
	"slices"

	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Layout is the part of the slot index the window reads.
type Layout interface {
	NextVisibleSlot(slot int) int
	PreviousVisibleSlot(slot int) int
	// CollapsedSlotCount returns the number of collapsed slots in [lo, hi].
	CollapsedSlotCount(lo, hi int) int
}

// Window holds the realized elements of the visible slots
// [FirstScrollingSlot, LastScrollingSlot] in slot order. Collapsed slots in
// that range hold no element. The elements live in a ring buffer so that
// realizing or unrealizing at either edge is O(1).
type Window struct {
	layout Layout

	buf   []element.Element
	head  int
	count int

	// Slots of the first and last element, -1 when empty.
	first int
	last  int

	totallyDisplayed int
}

const initialCapacity = 16

func NewWindow(layout Layout) *Window {
	return &Window{
		layout: layout,
		buf:    make([]element.Element, initialCapacity),
		first:  -1,
		last:   -1,
	}
}

func (w *Window) FirstScrollingSlot() int { return w.first }

func (w *Window) LastScrollingSlot() int { return w.last }

func (w *Window) NumDisplayedScrollingElements() int { return w.count }

// NumTotallyDisplayedScrollingElements is the number of elements, from the
// first, whose bottom edge is inside the viewport.
func (w *Window) NumTotallyDisplayedScrollingElements() int { return w.totallyDisplayed }

func (w *Window) SetNumTotallyDisplayedScrollingElements(n int) {
	utils.Assert(n >= 0 && n <= w.count, "totally displayed count out of range")
	w.totallyDisplayed = n
}

func (w *Window) IsEmpty() bool { return w.count == 0 }

// LastTotallyDisplayedSlot is the slot of the last element that is fully
// inside the viewport, or -1.
func (w *Window) LastTotallyDisplayedSlot() int {
	if w.totallyDisplayed == 0 {
		return -1
	}
	return w.at(w.totallyDisplayed - 1).Common().Slot()
}

func (w *Window) at(k int) element.Element {
	return w.buf[(w.head+k)%len(w.buf)]
}

// ordinal is the position of a visible slot in the buffer.
func (w *Window) ordinal(slot int) int {
	return slot - w.first - w.layout.CollapsedSlotCount(w.first, slot)
}

// Contains reports whether slot is displayed.
func (w *Window) Contains(slot int) bool {
	if w.count == 0 || slot < w.first || slot > w.last {
		return false
	}
	k := w.ordinal(slot)
	return k >= 0 && k < w.count && w.at(k).Common().Slot() == slot
}

// DisplayedElement returns the element realized for slot. The slot must be
// displayed.
func (w *Window) DisplayedElement(slot int) element.Element {
	e, ok := w.TryDisplayedElement(slot)
	utils.Assert(ok, fmt.Sprintf("slot %d is not displayed", slot))
	return e
}

func (w *Window) TryDisplayedElement(slot int) (element.Element, bool) {
	if !w.Contains(slot) {
		return nil, false
	}
	return w.at(w.ordinal(slot)), true
}

// First returns the first element, or nil.
func (w *Window) First() element.Element {
	if w.count == 0 {
		return nil
	}
	return w.at(0)
}

// Last returns the last element, or nil.
func (w *Window) Last() element.Element {
	if w.count == 0 {
		return nil
	}
	return w.at(w.count - 1)
}

func (w *Window) grow() {
	if w.count < len(w.buf) {
		return
	}
	w.linearize(len(w.buf) * 2)
}

// linearize copies the elements to a fresh buffer starting at index 0.
func (w *Window) linearize(capacity int) {
	buf := make([]element.Element, max(capacity, initialCapacity))
	for k := range w.count {
		buf[k] = w.at(k)
	}
	w.buf = buf
	w.head = 0
}

func (w *Window) updateBounds() {
	if w.count == 0 {
		w.first, w.last = -1, -1
		w.totallyDisplayed = 0
		return
	}
	w.first = w.at(0).Common().Slot()
	w.last = w.at(w.count - 1).Common().Slot()
	w.totallyDisplayed = min(w.totallyDisplayed, w.count)
}

// RealizeElement adds e for slot at an edge of the window. slot must be
// the visible slot right before the first or right after the last one.
func (w *Window) RealizeElement(e element.Element, slot int) {
	utils.Assert(e != nil, "nil element")
	e.Common().SetSlot(slot)
	w.grow()
	switch {
	case w.count == 0:
		w.head = 0
		w.buf[0] = e
	case slot == w.layout.NextVisibleSlot(w.last):
		w.buf[(w.head+w.count)%len(w.buf)] = e
	case slot == w.layout.PreviousVisibleSlot(w.first):
		w.head = (w.head - 1 + len(w.buf)) % len(w.buf)
		w.buf[w.head] = e
	default:
		panic(fmt.Sprintf("display: slot %d is not adjacent to [%d, %d]", slot, w.first, w.last))
	}
	w.count++
	w.updateBounds()
}

// UnrealizeElement removes the element of an edge slot and returns it.
func (w *Window) UnrealizeElement(slot int) element.Element {
	utils.Assert(w.count > 0, "unrealize from an empty window")
	var e element.Element
	switch slot {
	case w.first:
		e = w.buf[w.head]
		w.buf[w.head] = nil
		w.head = (w.head + 1) % len(w.buf)
	case w.last:
		i := (w.head + w.count - 1) % len(w.buf)
		e = w.buf[i]
		w.buf[i] = nil
	default:
		panic(fmt.Sprintf("display: slot %d is not an edge of [%d, %d]", slot, w.first, w.last))
	}
	w.count--
	w.updateBounds()
	return e
}

// InsertElementAt realizes e for a visible slot strictly inside the window.
// Elements after it must already carry their shifted slots.
func (w *Window) InsertElementAt(slot int, e element.Element) {
	utils.Assert(w.count > 0 && slot > w.first && slot <= w.last, "insert outside the window")
	k := w.ordinal(slot)
	w.linearize(max(len(w.buf), w.count+1))
	items := slices.Insert(w.buf[:w.count], k, e)
	w.buf = items[:cap(items)]
	e.Common().SetSlot(slot)
	w.count++
	w.updateBounds()
}

// RemoveElementAt removes the element of a displayed slot anywhere in the
// window and returns it. Slots of the other elements are left alone.
func (w *Window) RemoveElementAt(slot int) element.Element {
	utils.Assert(w.Contains(slot), fmt.Sprintf("slot %d is not displayed", slot))
	k := w.ordinal(slot)
	w.linearize(len(w.buf))
	e := w.buf[k]
	copy(w.buf[k:], w.buf[k+1:w.count])
	w.buf[w.count-1] = nil
	w.count--
	w.updateBounds()
	return e
}

// CorrectSlotsAfterInsertion shifts the elements at or after slot by count.
func (w *Window) CorrectSlotsAfterInsertion(slot, count int) {
	for e := range w.Elements() {
		if b := e.Common(); b.Slot() >= slot {
			b.SetSlot(b.Slot() + count)
		}
	}
	w.updateBounds()
}

// CorrectSlotsAfterDeletion shifts the elements after the deleted range
// [slot, slot+count) back by count. Elements inside the range must have
// been removed first.
func (w *Window) CorrectSlotsAfterDeletion(slot, count int) {
	for e := range w.Elements() {
		b := e.Common()
		utils.Assert(b.Slot() < slot || b.Slot() >= slot+count, "deleted slot still displayed")
		if b.Slot() >= slot+count {
			b.SetSlot(b.Slot() - count)
		}
	}
	w.updateBounds()
}

// Reset empties the window and returns the elements it held in slot order.
func (w *Window) Reset() []element.Element {
	out := slices.Collect(w.Elements())
	clear(w.buf)
	w.head = 0
	w.count = 0
	w.updateBounds()
	return out
}

// Elements yields the elements in slot order.
func (w *Window) Elements() iter.Seq[element.Element] {
	return func(yield func(element.Element) bool) {
		for k := range w.count {
			if !yield(w.at(k)) {
				return
			}
		}
	}
}

// Backward yields the elements from the last to the first.
func (w *Window) Backward() iter.Seq[element.Element] {
	return func(yield func(element.Element) bool) {
		for k := w.count - 1; k >= 0; k-- {
			if !yield(w.at(k)) {
				return
			}
		}
	}
}

// IsContiguous reports whether every element follows its predecessor's
// next visible slot.
func (w *Window) IsContiguous() bool {
	prev := -1
	for e := range w.Elements() {
		s := e.Common().Slot()
		if prev >= 0 && s != w.layout.NextVisibleSlot(prev) {
			return false
		}
		prev = s
	}
	return true
}
