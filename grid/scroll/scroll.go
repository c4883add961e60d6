// Package scroll computes where a scroll should land without touching any
// realized element. The result is an estimate: the controller reconciles
// it against measured heights afterwards.
package scroll

import (
	"fmt"

	"github.com/hnimtadd/gridvirt/grid/utils"
)

// HeightView is what the estimate reads: slot visibility, the best known
// height of each slot and the estimator's offset frame.
type HeightView interface {
	SlotCount() int
	NextVisibleSlot(slot int) int
	PreviousVisibleSlot(slot int) int

	// SlotHeight is the measured height of a realized slot, else the
	// estimate for its kind.
	SlotHeight(slot int) float64

	OffsetToSlot(slot int) float64
	EstimateSlotAtOffset(offset float64) int
}

// Position is the scroll state: the first displayed slot, how much of it
// is scrolled off the top, and the vertical offset of the viewport in the
// estimated extent.
type Position struct {
	FirstSlot      int
	NegOffset      float64
	VerticalOffset float64
}

func (p Position) String() string {
	return fmt.Sprintf("{first=%d neg=%.2f vo=%.2f}", p.FirstSlot, p.NegOffset, p.VerticalOffset)
}

// Path tells how a target was found.
type Path int

const (
	PathNone Path = iota
	// Slot by slot over the known heights.
	PathWalk
	// Through the estimator's offset frame.
	PathJump
	// Clamped at the first slot.
	PathTop
	// Ran out of slots while walking down.
	PathBottom
)

func (p Path) String() string {
	switch p {
	case PathWalk:
		return "walk"
	case PathJump:
		return "jump"
	case PathTop:
		return "top"
	case PathBottom:
		return "bottom"
	default:
		return "none"
	}
}

type Options struct {
	// Deltas larger than LargeJumpFactor viewports use the offset frame
	// instead of walking, when Confident is set and DetailsMode is not.
	LargeJumpFactor float64
	Confident       bool
	DetailsMode     bool
}

type Target struct {
	Position
	Path Path
}

// IsLargeJump reports whether delta qualifies for the offset frame.
func IsLargeJump(delta, viewport float64, opts Options) bool {
	if delta < 0 {
		delta = -delta
	}
	return opts.Confident && !opts.DetailsMode && opts.LargeJumpFactor > 0 &&
		delta > opts.LargeJumpFactor*viewport
}

// EstimateByDelta returns the position delta pixels away from pos.
func EstimateByDelta(view HeightView, pos Position, delta, viewport float64, opts Options) Target {
	first := view.NextVisibleSlot(-1)
	if first < 0 || utils.IsZero(delta) {
		return Target{Position: pos, Path: PathNone}
	}
	if IsLargeJump(delta, viewport, opts) {
		return jump(view, view.OffsetToSlot(pos.FirstSlot)+pos.NegOffset+delta)
	}
	if delta > 0 {
		return walkDown(view, pos, delta)
	}
	return walkUp(view, pos, delta)
}

// EstimateAtOffset returns the position whose top sits at offset in the
// estimator's frame.
func EstimateAtOffset(view HeightView, offset float64) Target {
	if view.NextVisibleSlot(-1) < 0 {
		return Target{Path: PathNone}
	}
	return jump(view, offset)
}

func jump(view HeightView, target float64) Target {
	if target <= 0 {
		return Target{Position: Position{FirstSlot: view.NextVisibleSlot(-1)}, Path: PathTop}
	}
	s := view.EstimateSlotAtOffset(target)
	if next := view.NextVisibleSlot(s - 1); next >= 0 {
		s = next
	} else {
		s = view.PreviousVisibleSlot(view.SlotCount())
	}
	neg := target - view.OffsetToSlot(s)
	neg = utils.Clamp(neg, 0, max(view.SlotHeight(s), 0))
	return Target{
		Position: Position{FirstSlot: s, NegOffset: neg, VerticalOffset: view.OffsetToSlot(s) + neg},
		Path:     PathJump,
	}
}

func walkDown(view HeightView, pos Position, delta float64) Target {
	s := pos.FirstSlot
	remaining := pos.NegOffset + delta
	path := PathWalk
	for {
		h := view.SlotHeight(s)
		if remaining < h {
			break
		}
		next := view.NextVisibleSlot(s)
		if next < 0 {
			// The reconcile phase snaps the bottom.
			remaining = h
			path = PathBottom
			break
		}
		remaining -= h
		s = next
	}
	return Target{
		Position: Position{FirstSlot: s, NegOffset: remaining, VerticalOffset: pos.VerticalOffset + delta},
		Path:     path,
	}
}

func walkUp(view HeightView, pos Position, delta float64) Target {
	s := pos.FirstSlot
	remaining := pos.NegOffset + delta
	for remaining < 0 {
		prev := view.PreviousVisibleSlot(s)
		if prev < 0 {
			return Target{Position: Position{FirstSlot: s}, Path: PathTop}
		}
		s = prev
		remaining += view.SlotHeight(s)
	}
	vo := max(pos.VerticalOffset+delta, remaining)
	return Target{
		Position: Position{FirstSlot: s, NegOffset: remaining, VerticalOffset: vo},
		Path:     PathWalk,
	}
}

// EstimateForSlotAtBottom returns the position that shows slot with its
// bottom on the bottom edge of the viewport. A slot taller than the
// viewport shows its top instead.
func EstimateForSlotAtBottom(view HeightView, slot int, viewport float64) Position {
	acc := view.SlotHeight(slot)
	if acc >= viewport {
		return Position{FirstSlot: slot, VerticalOffset: view.OffsetToSlot(slot)}
	}
	s := slot
	for {
		prev := view.PreviousVisibleSlot(s)
		if prev < 0 {
			return Position{FirstSlot: s}
		}
		h := view.SlotHeight(prev)
		if acc+h >= viewport {
			neg := acc + h - viewport
			return Position{FirstSlot: prev, NegOffset: neg, VerticalOffset: view.OffsetToSlot(prev) + neg}
		}
		acc += h
		s = prev
	}
}

// HeightBetween sums the heights of the visible slots in [from, to).
func HeightBetween(view HeightView, from, to int) float64 {
	var sum float64
	for s := from; s >= 0 && s < to; s = view.NextVisibleSlot(s) {
		sum += view.SlotHeight(s)
	}
	return sum
}
