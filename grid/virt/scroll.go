package virt

import (
	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/scroll"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// UpdateScroll scrolls the content by delta pixels, positive is down. It
// reports whether the displayed position changed.
func (c *Controller) UpdateScroll(delta float64) bool {
	return c.scrollBy(delta, true)
}

func (c *Controller) scrollBy(delta float64, allowJump bool) bool {
	if c.window.IsEmpty() || utils.IsZero(delta) {
		return false
	}
	before := c.position()
	opts := scroll.Options{
		LargeJumpFactor: c.largeJumpFactor,
		Confident:       allowJump && c.estimator.Confidence().High,
		DetailsMode:     c.Modes.Get(core.ModeRowDetailsVisible),
	}
	target := scroll.EstimateByDelta(c.view, before, delta, c.viewport, opts)
	c.metrics.Scrolls.WithLabelValues(target.Path.String()).Inc()

	switch target.Path {
	case scroll.PathNone:
		return false
	case scroll.PathTop:
		c.reconcile(target.FirstSlot, 0, 0)
	default:
		c.reconcile(target.FirstSlot, target.NegOffset, target.VerticalOffset)
	}
	c.scheduleCleanup()

	after := c.position()
	c.logger.Debug("scrolled", "delta", delta, "path", target.Path.String(),
		"from", before.String(), "to", after.String())
	return after.FirstSlot != before.FirstSlot ||
		!utils.AreClose(after.NegOffset, before.NegOffset)
}

// reconcile realizes the estimated target and corrects the offsets with
// the measured heights. At the top the offset is exact. A first slot that
// turned out taller than the whole target offset is pulled down to it, so
// the thumb does not jump.
func (c *Controller) reconcile(first int, neg, targetOffset float64) {
	c.neg = max(neg, 0)
	targetOffset -= c.layout(first)
	first = c.window.FirstScrollingSlot()

	switch {
	case first == c.index.FirstVisibleSlot():
		c.verticalOffset = c.neg
	case c.neg > targetOffset:
		c.neg = max(targetOffset, 0)
		c.verticalOffset = c.neg
		c.verticalOffset -= c.layout(first)
	default:
		c.verticalOffset = targetOffset
	}
	c.normalizeOffsets()
	c.checkInvariants()
}

// ScrollToVerticalOffset shows the content offset pixels from the top of
// the estimated extent, as a scrollbar drag does.
func (c *Controller) ScrollToVerticalOffset(offset float64) bool {
	if c.window.IsEmpty() {
		return false
	}
	before := c.position()
	switch {
	case offset <= 0:
		c.metrics.Scrolls.WithLabelValues(scroll.PathTop.String()).Inc()
		c.reconcile(c.index.FirstVisibleSlot(), 0, 0)
	case offset >= c.ExtentHeight()-c.viewport:
		c.metrics.Scrolls.WithLabelValues(scroll.PathBottom.String()).Inc()
		c.UpdateDisplayedRowsFromBottom(c.index.LastVisibleSlot())
	default:
		target := scroll.EstimateAtOffset(c.view, offset)
		c.metrics.Scrolls.WithLabelValues(target.Path.String()).Inc()
		c.reconcile(target.FirstSlot, target.NegOffset, offset)
	}
	c.scheduleCleanup()
	after := c.position()
	return after.FirstSlot != before.FirstSlot ||
		!utils.AreClose(after.NegOffset, before.NegOffset)
}

// ScrollSlotIntoView scrolls until slot is fully displayed, and columnIndex
// too when it is not negative. Slots above the window are aligned to the
// top, slots below it to the bottom. It reports whether slot is displayed
// afterwards; collapsed or unknown slots are a miss.
func (c *Controller) ScrollSlotIntoView(columnIndex, slot int, forCurrentCell bool) bool {
	if columnIndex >= 0 {
		c.ScrollColumnIntoView(columnIndex)
	}
	if c.window.IsEmpty() || !c.index.IsVisible(slot) {
		return false
	}
	if forCurrentCell {
		c.setCurrentSlot(slot)
	}

	first := c.window.FirstScrollingSlot()
	switch {
	case slot < first || (slot == first && c.neg > 0):
		distance := c.index.VisibleOrdinal(first) - c.index.VisibleOrdinal(slot)
		if distance <= c.window.NumDisplayedScrollingElements() {
			c.scrollBy(-(c.neg + scroll.HeightBetween(c.view, slot, first)), false)
		} else {
			c.metrics.Scrolls.WithLabelValues(scroll.PathJump.String()).Inc()
			c.reconcile(slot, 0, c.estimator.OffsetToSlot(slot))
		}
	case slot > c.window.LastTotallyDisplayedSlot():
		// Measured heights can differ from the estimate of a slot that was
		// not realized yet; one more pass settles it.
		for range 2 {
			if !c.scrollDownTo(slot) {
				break
			}
		}
	}
	c.scheduleCleanup()
	return c.window.Contains(slot)
}

// scrollDownTo brings a slot below the fully displayed ones to the viewport
// bottom. It reports whether it moved anything.
func (c *Controller) scrollDownTo(slot int) bool {
	if total := c.window.LastTotallyDisplayedSlot(); total >= 0 && slot <= total {
		return false
	}
	last := c.window.LastScrollingSlot()
	if slot > c.index.NextVisibleSlot(last) {
		c.resetWindow()
		c.UpdateDisplayedRowsFromBottom(slot)
		return true
	}

	// bottom is the distance from the viewport top to the bottom of slot.
	bottom := -c.neg
	for e := range c.window.Elements() {
		bottom += e.Common().Height()
		if e.Common().Slot() == slot {
			break
		}
	}
	h := c.slotHeight(slot)
	if slot > last {
		bottom += h
	}
	delta := bottom - c.viewport
	if h > c.viewport {
		delta = bottom - h
	}
	if utils.LessThanOrClose(delta, 0) {
		return false
	}
	return c.scrollBy(delta, false)
}

// ScrollColumnIntoView adjusts the horizontal offset so columnIndex is
// fully visible.
func (c *Controller) ScrollColumnIntoView(columnIndex int) bool {
	if columnIndex < 0 || columnIndex >= c.columns.Count() {
		return false
	}
	return c.columns.ScrollColumnIntoView(columnIndex, c.viewportWidth)
}

// SetViewportWidth sets the width horizontal scrolling works against.
func (c *Controller) SetViewportWidth(width int) {
	c.viewportWidth = max(width, 0)
}

func (c *Controller) ViewportWidth() int { return c.viewportWidth }
