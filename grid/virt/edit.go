package virt

import (
	"github.com/hnimtadd/gridvirt/grid/coordinate"
	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/source"
)

// CurrentSlot returns the slot of the current cell, or -1.
func (c *Controller) CurrentSlot() int {
	if c.current == nil || !c.current.Valid {
		return -1
	}
	return c.current.Slot
}

// CurrentCell returns the column (X) and row index (Y) of the current cell.
// ok is false when there is no current cell or it sits on a group header
// or footer.
func (c *Controller) CurrentCell() (coordinate.Point[int], bool) {
	row := c.index.RowIndexFromSlot(c.CurrentSlot())
	if row < 0 {
		return coordinate.Point[int]{}, false
	}
	return coordinate.NewPoint(c.currentColumn, row), true
}

func (c *Controller) setCurrentSlot(s int) {
	if c.current == nil {
		c.current = c.index.TrackPin(s)
	} else {
		c.current.Slot = s
		c.current.Valid = true
	}
	// The previous current row may be waiting off-screen.
	c.gen.ReleaseRetained()
}

// mustRetain keeps the current row out of the pools while it is
// off-screen. The row must sit at the current row index; an equal item on
// another row does not count.
func (c *Controller) mustRetain(row *element.Row) bool {
	current := c.index.RowIndexFromSlot(c.CurrentSlot())
	if current < 0 || row.Index != current {
		return false
	}
	return source.SameItem(row.DataContext, c.itemAt(current))
}

// reindexRetained moves the off-screen rows to the row index their pin
// now resolves to: the edit pin for the editing row, the current cell for
// the rest.
func (c *Controller) reindexRetained() {
	c.gen.ReindexRetained(func(row *element.Row) int {
		pin := c.current
		if row == c.editing {
			pin = c.editPin
		}
		if pin == nil || !pin.Valid {
			return -1
		}
		return c.index.RowIndexFromSlot(pin.Slot)
	})
}

// SetCurrentCell moves the current cell and scrolls it into view. Unknown
// rows and rows inside collapsed groups are a miss.
func (c *Controller) SetCurrentCell(columnIndex, rowIndex int) bool {
	s := c.index.SlotFromRowIndex(rowIndex)
	if s < 0 || !c.index.IsVisible(s) {
		return false
	}
	if columnIndex >= 0 && columnIndex < c.columns.Count() {
		c.currentColumn = columnIndex
	}
	return c.ScrollSlotIntoView(c.currentColumn, s, true)
}

// ClearCurrentCell drops the current cell.
func (c *Controller) ClearCurrentCell() {
	if c.current == nil {
		return
	}
	c.index.UntrackPin(c.current)
	c.current = nil
	c.gen.ReleaseRetained()
}

// IsEditing reports whether a row is in edit mode.
func (c *Controller) IsEditing() bool { return c.editing != nil }

// EditingRow returns the row in edit mode, or nil. It may be off-screen.
func (c *Controller) EditingRow() *element.Row { return c.editing }

// BeginEdit makes rowIndex current and puts its row in edit mode. It fails
// in read-only mode, while another row is editing, or when the row cannot
// be shown.
func (c *Controller) BeginEdit(rowIndex int) bool {
	if c.Modes.Get(core.ModeReadOnly) || c.editing != nil {
		return false
	}
	if !c.SetCurrentCell(c.currentColumn, rowIndex) {
		return false
	}
	s := c.CurrentSlot()
	e, ok := c.window.TryDisplayedElement(s)
	if !ok {
		return false
	}
	row := e.(*element.Row)
	row.IsEditing = true
	c.editing = row
	c.editPin = c.index.TrackPin(s)
	c.logger.Debug("begin edit", "row", rowIndex)
	return true
}

// CommitEdit leaves edit mode. Writing the edited values back to the
// source is up to the caller, which then reports the change.
func (c *Controller) CommitEdit() bool {
	return c.endEdit("commit")
}

// CancelEdit leaves edit mode and drops the edited row's content.
func (c *Controller) CancelEdit() bool {
	row := c.editing
	if !c.endEdit("cancel") {
		return false
	}
	if !source.IsPlaceholder(row.DataContext) {
		row.InvalidateMeasure()
	}
	return true
}

func (c *Controller) endEdit(how string) bool {
	if c.editing == nil {
		return false
	}
	c.logger.Debug("end edit", "how", how, "row", c.editing.Index)
	c.editing.IsEditing = false
	c.editing = nil
	if c.editPin != nil {
		c.index.UntrackPin(c.editPin)
		c.editPin = nil
	}
	c.gen.ReleaseRetained()
	return true
}

// dropStaleEdit ends an edit whose row was removed from the source.
func (c *Controller) dropStaleEdit() {
	if c.editPin != nil && !c.editPin.Valid {
		c.logger.Info("editing row removed, cancelling edit")
		c.endEdit("removed")
	}
}

// RowSelectionFromRowIndex reports whether rowIndex is selected.
func (c *Controller) RowSelectionFromRowIndex(rowIndex int) bool {
	return c.selection.IsSelected(rowIndex)
}

// SetRowSelection selects or unselects one row. It reports whether the
// selection changed.
func (c *Controller) SetRowSelection(rowIndex int, selected bool) bool {
	var changed bool
	if selected {
		changed = c.selection.Select(rowIndex)
	} else {
		changed = c.selection.Unselect(rowIndex)
	}
	if changed {
		c.refreshSelection()
	}
	return changed
}

// SelectSlots applies selected to every data row in the slot range
// [lo, hi]. Group headers and footers in the range are skipped.
func (c *Controller) SelectSlots(lo, hi int, selected bool) {
	lo, hi = max(lo, 0), min(hi, c.index.SlotCount()-1)
	if lo > hi {
		return
	}
	rlo := c.index.RowsBefore(lo)
	rhi := c.index.RowsBefore(hi+1) - 1
	if rlo > rhi {
		return
	}
	if selected {
		c.selection.SelectRange(rlo, rhi)
	} else {
		c.selection.UnselectRange(rlo, rhi)
	}
	c.refreshSelection()
}

// ClearSelection unselects every row.
func (c *Controller) ClearSelection() {
	c.selection.Clear()
	c.refreshSelection()
}

// SelectedRows returns the selected row indexes in ascending order.
func (c *Controller) SelectedRows() []int {
	rows := make([]int, 0, c.selection.Count())
	for r := range c.selection.Rows() {
		rows = append(rows, r)
	}
	return rows
}

func (c *Controller) refreshSelection() {
	for e := range c.window.Elements() {
		if row, ok := e.(*element.Row); ok {
			row.IsSelected = c.selection.IsSelected(row.Index)
		}
	}
}
