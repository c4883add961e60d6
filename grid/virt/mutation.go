package virt

import (
	"fmt"

	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/source"
)

// SetSource replaces the data source. Everything learned about the old
// one is dropped, estimator averages included.
func (c *Controller) SetSource(src source.DataSource) error {
	if src == nil {
		return ErrNoSource
	}
	if err := source.Validate(src); err != nil {
		return fmt.Errorf("virt: set source: %w", err)
	}
	c.endEdit("source replaced")
	c.ClearCurrentCell()
	c.gen.DropRetained()
	c.resetWindow()

	c.source = src
	c.itemCount = src.Count()
	c.groups = nil
	c.estimator.ResetAll()
	c.selection.Reset(c.RowCount())
	c.index.Reset(c.RowCount())
	c.populate(false)
	c.logger.Info("source set", "rows", c.itemCount, "slots", c.index.SlotCount())

	c.showFrom(0)
	return nil
}

// OnSourceChanged applies a change notification. The change must already
// be applied to the source. A notification that does not match the
// source count resets the grid from the source and returns an error
// matching ErrInvalidChange.
func (c *Controller) OnSourceChanged(ch source.Change) error {
	if c.source == nil {
		return ErrNoSource
	}
	count := c.source.Count()
	if err := ch.Validate(count); err != nil {
		return fmt.Errorf("virt: %w", err)
	}
	if want := c.countAfter(ch); want != count {
		c.logger.Warn("change notification out of sync with the source, resetting",
			"change", ch.Kind.String(), "expected", want, "count", count)
		c.metrics.Recoveries.Inc()
		c.resetSource()
		return fmt.Errorf("%w: %s leaves %d items, source has %d", ErrInvalidChange, ch.Kind, want, count)
	}
	c.logger.Debug("source changed", "change", ch.Kind.String(), "index", ch.Index, "count", ch.Count)

	switch {
	case ch.Kind == source.ChangeReset:
		c.resetSource()
	case len(c.groupKeys) > 0:
		c.applyGrouped(ch)
	default:
		switch ch.Kind {
		case source.ChangeAdd:
			c.insertRows(ch.Index, ch.Count)
		case source.ChangeRemove:
			c.removeRows(ch.Index, ch.Count)
		case source.ChangeReplace:
			c.replaceRows(ch.Index, ch.Count)
		case source.ChangeMove:
			selected := c.selectionOf(ch.OldIndex, ch.Count)
			c.removeRows(ch.OldIndex, ch.Count)
			c.insertRows(ch.Index, ch.Count)
			c.restoreSelection(ch.Index, selected)
		}
	}
	return nil
}

func (c *Controller) countAfter(ch source.Change) int {
	switch ch.Kind {
	case source.ChangeAdd:
		return c.itemCount + ch.Count
	case source.ChangeRemove:
		return c.itemCount - ch.Count
	case source.ChangeReset:
		return c.source.Count()
	default:
		return c.itemCount
	}
}

// insertSlotFor is the slot new rows at rowIndex go to: the slot of the
// row they push down, or the end.
func (c *Controller) insertSlotFor(rowIndex int) int {
	if rowIndex < c.index.RowCount() {
		return c.index.SlotFromRowIndex(rowIndex)
	}
	return c.index.SlotCount()
}

func (c *Controller) insertRows(rowIndex, count int) {
	s := c.insertSlotFor(rowIndex)
	c.index.InsertSlots(s, count, false)
	c.estimator.OnItemsInserted(s, count)
	c.selection.OnInserted(rowIndex, count)
	c.itemCount += count
	c.reindexRetained()

	if c.window.IsEmpty() {
		if c.viewport > 0 {
			c.showFrom(0)
		}
		return
	}
	first, last := c.window.FirstScrollingSlot(), c.window.LastScrollingSlot()
	c.window.CorrectSlotsAfterInsertion(s, count)
	switch {
	case s <= first:
		// Keep the displayed rows where they are.
		c.verticalOffset += c.estimator.OffsetToSlot(s+count) - c.estimator.OffsetToSlot(s)
	case s <= last:
		// The shifted tail no longer follows the new rows; refill.
		for c.window.LastScrollingSlot() >= s+count {
			c.unrealize(c.window.LastScrollingSlot())
		}
	}
	c.reindexDisplayed()
	c.relayout()
}

func (c *Controller) removeRows(rowIndex, count int) {
	lo := c.index.SlotFromRowIndex(rowIndex)
	hi := lo + count - 1
	wasEmpty := c.window.IsEmpty()
	first, last := c.window.FirstScrollingSlot(), c.window.LastScrollingSlot()

	var above float64
	firstRemoved := false
	if !wasEmpty {
		if lo < first {
			above = c.estimator.OffsetToSlot(min(hi+1, first)) - c.estimator.OffsetToSlot(lo)
		}
		firstRemoved = lo <= first && first <= hi
		// Highest first, so the ordinals of the rest stay valid.
		for s := min(hi, last); s >= max(lo, first); s-- {
			if c.window.Contains(s) {
				c.recycle(c.window.RemoveElementAt(s))
			}
		}
	}

	c.index.RemoveSlots(lo, count)
	c.estimator.OnItemsRemoved(lo, count)
	c.selection.OnRemoved(rowIndex, count)
	c.itemCount -= count
	c.window.CorrectSlotsAfterDeletion(lo, count)
	c.reindexRetained()
	c.dropStaleEdit()
	c.gen.ReleaseRetained()

	if wasEmpty {
		return
	}
	c.verticalOffset -= above
	c.reindexDisplayed()
	if c.window.IsEmpty() || firstRemoved {
		// What slid into the removed range is shown from its top.
		top := c.safeSlot(lo)
		if !c.window.IsEmpty() {
			top = c.window.FirstScrollingSlot()
		}
		c.neg = 0
		c.verticalOffset = c.estimator.OffsetToSlot(top)
		c.verticalOffset -= c.layout(top)
		c.settle()
		return
	}
	c.relayout()
}

func (c *Controller) replaceRows(rowIndex, count int) {
	if e := c.editing; e != nil && e.Index >= rowIndex && e.Index < rowIndex+count &&
		!source.SameItem(e.DataContext, c.itemAt(e.Index)) {
		c.endEdit("replaced")
	}
	for r := rowIndex; r < rowIndex+count; r++ {
		s := c.index.SlotFromRowIndex(r)
		c.estimator.ForgetRange(s, s)
		if c.window.Contains(s) {
			c.rebind(s)
		}
	}
	c.gen.ReleaseRetained()
	if !c.window.IsEmpty() {
		c.relayout()
	}
}

// rebind replaces the element of a displayed slot with one bound to the
// slot's current item.
func (c *Controller) rebind(s int) {
	old := c.window.RemoveElementAt(s)
	if row, ok := old.(*element.Row); ok && row == c.editing {
		c.endEdit("replaced")
	}
	c.recycle(old)
	e := c.generate(s)
	if c.window.IsEmpty() || s < c.window.FirstScrollingSlot() || s > c.window.LastScrollingSlot() {
		c.window.RealizeElement(e, s)
	} else {
		c.window.InsertElementAt(s, e)
	}
	c.metrics.Realized.WithLabelValues(e.Kind().String()).Inc()
}

// applyGrouped shifts rows, selection and pins for a change in a grouped
// source, then rebuilds the groups.
func (c *Controller) applyGrouped(ch source.Change) {
	anchor := c.anchorRow()
	c.resetWindow()
	insert := func(rowIndex, count int) {
		c.index.InsertSlots(c.insertSlotFor(rowIndex), count, false)
		c.selection.OnInserted(rowIndex, count)
		c.itemCount += count
		if anchor >= rowIndex {
			anchor += count
		}
	}
	remove := func(rowIndex, count int) {
		for r := rowIndex + count - 1; r >= rowIndex; r-- {
			c.index.RemoveSlots(c.index.SlotFromRowIndex(r), 1)
		}
		c.selection.OnRemoved(rowIndex, count)
		c.itemCount -= count
		if anchor >= rowIndex {
			anchor = max(rowIndex, anchor-count)
		}
	}
	switch ch.Kind {
	case source.ChangeAdd:
		insert(ch.Index, ch.Count)
	case source.ChangeRemove:
		remove(ch.Index, ch.Count)
	case source.ChangeMove:
		selected := c.selectionOf(ch.OldIndex, ch.Count)
		remove(ch.OldIndex, ch.Count)
		insert(ch.Index, ch.Count)
		c.restoreSelection(ch.Index, selected)
	}
	c.reindexRetained()
	c.dropStaleEdit()
	c.gen.ReleaseRetained()
	c.regroupAt(anchor, true)
}

// selectionOf returns the selection flags of count rows from rowIndex.
func (c *Controller) selectionOf(rowIndex, count int) []bool {
	selected := make([]bool, count)
	for i := range selected {
		selected[i] = c.selection.IsSelected(rowIndex + i)
	}
	return selected
}

// restoreSelection selects the moved rows that were selected before.
func (c *Controller) restoreSelection(rowIndex int, selected []bool) {
	changed := false
	for i, sel := range selected {
		if sel && c.selection.Select(rowIndex+i) {
			changed = true
		}
	}
	if changed {
		c.refreshSelection()
	}
}

// resetSource rebuilds everything from the source but keeps the estimator
// averages and the anchor row.
func (c *Controller) resetSource() {
	anchor := c.anchorRow()
	c.endEdit("reset")
	c.gen.DropRetained()
	c.resetWindow()
	c.itemCount = c.source.Count()
	c.estimator.Reset()
	c.selection.Reset(c.RowCount())
	c.index.Reset(c.RowCount())
	c.populate(true)
	c.showRow(anchor)
}

// anchorRow is the row index of the first displayed data row, or -1.
func (c *Controller) anchorRow() int {
	for e := range c.window.Elements() {
		if row, ok := e.(*element.Row); ok {
			return row.Index
		}
	}
	return -1
}

// showRow lays the window out from rowIndex, or from the top when the row
// is gone.
func (c *Controller) showRow(rowIndex int) {
	s := 0
	if rowIndex >= 0 {
		s = c.index.SlotFromRowIndex(min(rowIndex, c.index.RowCount()-1))
	}
	c.showFrom(max(s, 0))
}

// showFrom lays an empty window out with s at the viewport top.
func (c *Controller) showFrom(s int) {
	c.resetWindow()
	c.neg = 0
	s = c.safeSlot(s)
	if s < 0 {
		c.verticalOffset = 0
		c.updateTotallyDisplayed()
		return
	}
	c.verticalOffset = c.estimator.OffsetToSlot(s)
	c.verticalOffset -= c.layout(s)
	c.settle()
}

// relayout refills the window from its first slot after a mutation.
func (c *Controller) relayout() {
	first := c.window.FirstScrollingSlot()
	if first < 0 {
		c.showFrom(0)
		return
	}
	c.verticalOffset -= c.layout(first)
	c.settle()
}

func (c *Controller) settle() {
	c.normalizeOffsets()
	c.checkInvariants()
	c.scheduleCleanup()
}

func (c *Controller) reindexDisplayed() {
	for e := range c.window.Elements() {
		if row, ok := e.(*element.Row); ok {
			c.gen.Reindex(row, c.index.RowIndexFromSlot(row.Slot()))
		}
	}
}
