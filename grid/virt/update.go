package virt

import (
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/measure"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// generate binds a fresh element for slot and measures it.
func (c *Controller) generate(s int) element.Element {
	var e element.Element
	switch c.index.Kind(s) {
	case element.KindGroupHeader:
		info, _ := c.index.GroupHeaderAt(s)
		e = c.gen.GenerateGroupHeader(s, info)
	case element.KindGroupFooter:
		info, _ := c.index.GroupFooterAt(s)
		e = c.gen.GenerateGroupFooter(s, info)
	default:
		rowIndex := c.index.RowIndexFromSlot(s)
		utils.Assert(rowIndex >= 0, "data slot without a row index")
		e = c.gen.GenerateRow(rowIndex, s, c.itemAt(rowIndex))
	}
	c.measure(e, s)
	return e
}

// measure asks the measurer for the height of e when it has none and feeds
// it to the estimator.
func (c *Controller) measure(e element.Element, s int) {
	b := e.Common()
	if !b.IsMeasured() {
		h, details := measure.Total(c.measurer, e)
		b.SetMeasuredHeight(h)
		if details > 0 {
			c.estimator.RecordDetailsHeight(details)
		}
	}
	c.estimator.RecordMeasuredHeight(s, e.Kind(), c.index.GroupLevel(s), b.Height())
}

func (c *Controller) realize(s int) element.Element {
	e := c.generate(s)
	c.window.RealizeElement(e, s)
	c.metrics.Realized.WithLabelValues(e.Kind().String()).Inc()
	return e
}

func (c *Controller) unrealize(s int) {
	c.recycle(c.window.UnrealizeElement(s))
}

func (c *Controller) recycle(e element.Element) {
	c.metrics.Unrealized.WithLabelValues(e.Kind().String()).Inc()
	c.gen.Recycle(e)
}

func (c *Controller) resetWindow() {
	for _, e := range c.window.Reset() {
		c.recycle(e)
	}
}

func (c *Controller) displayedHeight(s int) float64 {
	return c.window.DisplayedElement(s).Common().Height()
}

// scheduleCleanup posts the pass that hides recyclable elements. A newer
// attach supersedes a pass that has not run yet.
func (c *Controller) scheduleCleanup() {
	c.pools.ScheduleCleanup(c.dispatcher, func(moved int) {
		if moved > 0 {
			c.logger.Debug("pool cleanup", "moved", moved)
		}
	})
}

// ensureConsistentWindow resets a window that no longer matches the slot
// index. Reaching it means a mutation path forgot to correct the window.
func (c *Controller) ensureConsistentWindow() {
	if c.window.IsEmpty() {
		return
	}
	first, last := c.window.FirstScrollingSlot(), c.window.LastScrollingSlot()
	if last < c.index.SlotCount() && c.index.IsVisible(first) && c.window.IsContiguous() {
		return
	}
	c.logger.Warn("display window out of sync, rebuilding", "first", first, "last", last,
		"slots", c.index.SlotCount())
	c.metrics.Recoveries.Inc()
	c.resetWindow()
}

// safeSlot returns the visible slot closest to s, or -1 when nothing is
// visible.
func (c *Controller) safeSlot(s int) int {
	n := c.index.SlotCount()
	if n == 0 {
		return -1
	}
	s = utils.Clamp(s, 0, n-1)
	if c.index.IsVisible(s) {
		return s
	}
	if next := c.index.NextVisibleSlot(s); next >= 0 {
		return next
	}
	return c.index.PreviousVisibleSlot(s)
}

// moveWindowTo makes first the first element of the window, reusing the
// elements already realized when the window overlaps or is close.
func (c *Controller) moveWindowTo(first int) {
	if c.window.IsEmpty() {
		c.realize(first)
		return
	}
	wf, wl := c.window.FirstScrollingSlot(), c.window.LastScrollingSlot()
	switch {
	case first >= wf && first <= wl:
		for c.window.FirstScrollingSlot() < first {
			c.unrealize(c.window.FirstScrollingSlot())
		}
	case first < wf && c.index.VisibleOrdinal(wf)-c.index.VisibleOrdinal(first) <= c.window.NumDisplayedScrollingElements():
		for s := c.index.PreviousVisibleSlot(wf); s >= first; s = c.index.PreviousVisibleSlot(s) {
			c.realize(s)
		}
	default:
		c.resetWindow()
		c.realize(first)
	}
}

// layout realizes the elements that cover the viewport from first, with
// c.neg pixels of it above the top. When the content ends above the
// viewport bottom it snaps to the bottom. It returns how many pixels the
// top moved up while snapping.
func (c *Controller) layout(first int) float64 {
	c.ensureConsistentWindow()
	first = c.safeSlot(first)
	if first < 0 {
		c.resetWindow()
		c.neg = 0
		c.updateTotallyDisplayed()
		return 0
	}
	c.neg = max(c.neg, 0)
	c.moveWindowTo(first)

	// The first slot may be shorter than estimated; move on until neg
	// falls inside it.
	for c.neg > 0 {
		h := c.displayedHeight(first)
		if c.neg < h {
			break
		}
		next := c.index.NextVisibleSlot(first)
		if next < 0 {
			break
		}
		c.neg -= h
		if !c.window.Contains(next) {
			c.realize(next)
		}
		c.unrealize(first)
		first = next
	}

	bottom := -c.neg
	for e := range c.window.Elements() {
		bottom += e.Common().Height()
	}
	for bottom < c.viewport {
		next := c.index.NextVisibleSlot(c.window.LastScrollingSlot())
		if next < 0 {
			break
		}
		bottom += c.realize(next).Common().Height()
	}
	for c.window.NumDisplayedScrollingElements() > 1 {
		last := c.window.Last().Common()
		if bottom-last.Height() < c.viewport {
			break
		}
		bottom -= last.Height()
		c.unrealize(last.Slot())
	}

	var shift float64
	if gap := c.viewport - bottom; utils.GreaterThan(gap, 0) {
		take := min(c.neg, gap)
		c.neg -= take
		gap -= take
		shift += take
		for utils.GreaterThan(gap, 0) {
			prev := c.index.PreviousVisibleSlot(c.window.FirstScrollingSlot())
			if prev < 0 {
				break
			}
			h := c.realize(prev).Common().Height()
			if h >= gap {
				c.neg = h - gap
				shift += gap
				break
			}
			gap -= h
			shift += h
		}
	}
	c.updateTotallyDisplayed()
	return shift
}

// updateTotallyDisplayed counts the elements, from the first, whose bottom
// edge is inside the viewport.
func (c *Controller) updateTotallyDisplayed() {
	n := 0
	y := -c.neg
	for e := range c.window.Elements() {
		y += e.Common().Height()
		if utils.GreaterThan(y, c.viewport) {
			break
		}
		n++
	}
	c.window.SetNumTotallyDisplayedScrollingElements(n)
	c.metrics.Displayed.Set(float64(c.window.NumDisplayedScrollingElements()))
	c.metrics.ExtentHeight.Set(c.estimator.TotalHeight())
	c.metrics.EstimatedRowHeight.Set(c.estimator.EstimatedHeight(element.KindDataRow, 0))
}

// TryReuseDisplayedRows keeps the current window when it already starts at
// first and its measured elements cover the viewport. Elements past the
// viewport bottom are unrealized.
func (c *Controller) TryReuseDisplayedRows(first int) bool {
	if c.window.IsEmpty() || c.window.FirstScrollingSlot() != first {
		return false
	}
	if f := c.window.First().Common(); c.neg > 0 && c.neg >= f.Height() {
		return false
	}
	y := -c.neg
	needed := 0
	for e := range c.window.Elements() {
		b := e.Common()
		if !b.IsMeasured() {
			return false
		}
		y += b.Height()
		needed++
		if y >= c.viewport {
			break
		}
	}
	if y < c.viewport {
		return false
	}
	for c.window.NumDisplayedScrollingElements() > needed {
		c.unrealize(c.window.LastScrollingSlot())
	}
	c.updateTotallyDisplayed()
	return true
}

// UpdateDisplayedRows is the entry point of the layout pass: it makes the
// window cover a viewport of the given height starting at firstSlot. When
// firstSlot is not the current first slot, it is shown from its top.
func (c *Controller) UpdateDisplayedRows(firstSlot int, viewport float64) {
	c.viewport = max(viewport, 0)
	c.ensureConsistentWindow()
	if c.index.FirstVisibleSlot() < 0 {
		c.resetWindow()
		c.neg, c.verticalOffset = 0, 0
		c.updateTotallyDisplayed()
		return
	}
	if firstSlot != c.window.FirstScrollingSlot() {
		firstSlot = c.safeSlot(firstSlot)
		c.neg = 0
		c.verticalOffset = c.estimator.OffsetToSlot(firstSlot)
	}
	if !c.TryReuseDisplayedRows(firstSlot) {
		c.verticalOffset -= c.layout(firstSlot)
	}
	c.normalizeOffsets()
	c.checkInvariants()
	c.scheduleCleanup()
}

// UpdateDisplayedRowsFromBottom lays the window out so that bottomSlot
// ends on the viewport bottom. A slot taller than the viewport is shown
// from its top instead.
func (c *Controller) UpdateDisplayedRowsFromBottom(bottomSlot int) {
	c.ensureConsistentWindow()
	bottomSlot = c.safeSlot(bottomSlot)
	if bottomSlot < 0 {
		c.resetWindow()
		c.neg, c.verticalOffset = 0, 0
		c.updateTotallyDisplayed()
		return
	}
	if c.window.Contains(bottomSlot) {
		for c.window.LastScrollingSlot() > bottomSlot {
			c.unrealize(c.window.LastScrollingSlot())
		}
	} else {
		c.resetWindow()
		c.realize(bottomSlot)
	}

	var acc float64
	for e := range c.window.Elements() {
		acc += e.Common().Height()
	}
	for c.window.NumDisplayedScrollingElements() > 1 {
		f := c.window.First().Common()
		if acc-f.Height() < c.viewport {
			break
		}
		acc -= f.Height()
		c.unrealize(f.Slot())
	}
	for acc < c.viewport {
		prev := c.index.PreviousVisibleSlot(c.window.FirstScrollingSlot())
		if prev < 0 {
			break
		}
		acc += c.realize(prev).Common().Height()
	}

	switch {
	case acc < c.viewport:
		// Everything up to bottomSlot fits; show from the top.
		c.neg = 0
		c.layout(c.window.FirstScrollingSlot())
	case c.window.NumDisplayedScrollingElements() == 1:
		c.neg = 0
		c.updateTotallyDisplayed()
	default:
		c.neg = acc - c.viewport
		c.updateTotallyDisplayed()
	}
	c.verticalOffset = c.estimator.OffsetToSlot(c.window.FirstScrollingSlot()) + c.neg
	c.normalizeOffsets()
	c.checkInvariants()
	c.scheduleCleanup()
}

func (c *Controller) normalizeOffsets() {
	switch {
	case c.window.IsEmpty():
		c.neg, c.verticalOffset = 0, 0
	case c.window.FirstScrollingSlot() == c.index.FirstVisibleSlot():
		c.verticalOffset = c.neg
	case c.verticalOffset < c.neg:
		c.verticalOffset = c.neg
	}
}

func (c *Controller) checkInvariants() {
	utils.Assert(c.neg >= 0, "negative vertical offset below zero")
	utils.Assert(utils.GreaterThanOrClose(c.verticalOffset, c.neg), "vertical offset below the first slot offset")
	if c.window.FirstScrollingSlot() == 0 {
		utils.Assert(utils.AreClose(c.verticalOffset, c.neg), "vertical offset drifted at the top")
	}
	utils.Assert(c.window.IsContiguous(), "display window has gaps")
}
