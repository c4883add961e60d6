package slot

import (
	"iter"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/group"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// GroupInfo is the slot metadata of one group.
type GroupInfo struct {
	Group *group.Group
	Level int

	// Slot of the group header.
	Slot int

	// Last slot owned by the group: its last row, or its footer when
	// footers are shown.
	LastSubItemSlot int

	// False when an ancestor group is collapsed.
	IsVisible bool
}

// Index maps between row indexes (positions in the flattened source) and
// slots (positions in the interleaved sequence of rows, group headers and
// group footers), and tracks which slots are hidden by collapsed groups.
//
// Every translation is O(log n) in the number of table ranges.
type Index struct {
	slotCount int
	rowCount  int

	headers *datastruct.IndexTable[*GroupInfo]
	footers *datastruct.IndexTable[*GroupInfo]

	// headers and footers together. Kept as a merged bool table so row/slot
	// translation counts ranges instead of groups.
	decorations *datastruct.IndexTable[bool]

	collapsed *datastruct.IndexTable[bool]

	infos map[*group.Group]*GroupInfo

	// Pins are slot positions that follow inserts and removals.
	pins *datastruct.IntrusiveLinkedList[*Pin]
}

func NewIndex(rowCount int) *Index {
	utils.Assert(rowCount >= 0, "negative row count")
	return &Index{
		slotCount:   rowCount,
		rowCount:    rowCount,
		headers:     datastruct.NewIndexTable[*GroupInfo](),
		footers:     datastruct.NewIndexTable[*GroupInfo](),
		decorations: datastruct.NewIndexTable[bool](),
		collapsed:   datastruct.NewIndexTable[bool](),
		infos:       make(map[*group.Group]*GroupInfo),
		pins:        datastruct.NewIntrusiveLinkedList[*Pin](),
	}
}

// Reset drops every group and collapsed range and sizes the index for
// rowCount ungrouped rows. Tracked pins become invalid.
func (x *Index) Reset(rowCount int) {
	utils.Assert(rowCount >= 0, "negative row count")
	x.headers.Clear()
	x.footers.Clear()
	x.decorations.Clear()
	x.collapsed.Clear()
	x.infos = make(map[*group.Group]*GroupInfo)
	x.slotCount = rowCount
	x.rowCount = rowCount
	for p := range x.pins.All() {
		p.Valid = false
		p.Slot = -1
	}
}

func (x *Index) SlotCount() int { return x.slotCount }

func (x *Index) RowCount() int { return x.rowCount }

// IsGrouped reports whether any group header occupies a slot.
func (x *Index) IsGrouped() bool { return !x.headers.IsEmpty() }

func (x *Index) inBounds(slot int) bool {
	return slot >= 0 && slot < x.slotCount
}

// SlotFromRowIndex returns the slot holding row rowIndex, or -1 when the
// row index is out of range.
func (x *Index) SlotFromRowIndex(rowIndex int) int {
	if rowIndex < 0 || rowIndex >= x.rowCount {
		return -1
	}
	return rowIndex + x.decorations.IndexCountBeforeGap(rowIndex)
}

// RowIndexFromSlot returns the row index held by slot, or -1 for group
// headers, group footers and out of range slots.
func (x *Index) RowIndexFromSlot(slot int) int {
	if !x.inBounds(slot) || x.decorations.Contains(slot) {
		return -1
	}
	return slot - x.decorations.IndexCountIn(0, slot)
}

// RowsBefore returns the number of data rows in the slots below slot.
func (x *Index) RowsBefore(slot int) int {
	if slot <= 0 {
		return 0
	}
	slot = min(slot, x.slotCount)
	return slot - x.decorations.IndexCountIn(0, slot-1)
}

// Kind returns what slot holds. Out of range slots report KindDataRow; use
// RowIndexFromSlot to tell them apart.
func (x *Index) Kind(slot int) element.Kind {
	switch {
	case x.headers.Contains(slot):
		return element.KindGroupHeader
	case x.footers.Contains(slot):
		return element.KindGroupFooter
	default:
		return element.KindDataRow
	}
}

// GroupHeaderAt returns the group metadata of a header slot.
func (x *Index) GroupHeaderAt(slot int) (*GroupInfo, bool) {
	return x.headers.ValueAt(slot)
}

// GroupFooterAt returns the group metadata of a footer slot.
func (x *Index) GroupFooterAt(slot int) (*GroupInfo, bool) {
	return x.footers.ValueAt(slot)
}

// GroupInfoFor returns the slot metadata of g.
func (x *Index) GroupInfoFor(g *group.Group) (*GroupInfo, bool) {
	info, ok := x.infos[g]
	return info, ok
}

// GroupLevel returns the nesting level of a header or footer slot, or -1
// for data rows.
func (x *Index) GroupLevel(slot int) int {
	if info, ok := x.headers.ValueAt(slot); ok {
		return info.Level
	}
	if info, ok := x.footers.ValueAt(slot); ok {
		return info.Level
	}
	return -1
}

// IsCollapsed reports whether slot is hidden by a collapsed group.
func (x *Index) IsCollapsed(slot int) bool {
	return x.collapsed.Contains(slot)
}

// IsVisible reports whether slot exists and is not collapsed.
func (x *Index) IsVisible(slot int) bool {
	return x.inBounds(slot) && !x.collapsed.Contains(slot)
}

// NextVisibleSlot returns the first visible slot after slot, or -1. Pass
// -1 to get the first visible slot.
func (x *Index) NextVisibleSlot(slot int) int {
	next := x.collapsed.NextGap(slot)
	if next >= x.slotCount {
		return -1
	}
	return next
}

// PreviousVisibleSlot returns the last visible slot before slot, or -1.
// Pass SlotCount to get the last visible slot.
func (x *Index) PreviousVisibleSlot(slot int) int {
	if slot > x.slotCount {
		slot = x.slotCount
	}
	return x.collapsed.PreviousGap(slot)
}

func (x *Index) FirstVisibleSlot() int {
	return x.NextVisibleSlot(-1)
}

func (x *Index) LastVisibleSlot() int {
	return x.PreviousVisibleSlot(x.slotCount)
}

// CollapsedSlotCount returns the number of collapsed slots in [lo, hi].
func (x *Index) CollapsedSlotCount(lo, hi int) int {
	return x.collapsed.IndexCountIn(lo, hi)
}

func (x *Index) CollapsedRanges() iter.Seq[datastruct.Range[bool]] {
	return x.collapsed.Ranges()
}

// VisibleSlotCount is the number of slots not hidden by a collapsed group.
func (x *Index) VisibleSlotCount() int {
	return x.slotCount - x.collapsed.IndexCount()
}

// VisibleOrdinal returns how many visible slots precede slot.
func (x *Index) VisibleOrdinal(slot int) int {
	if slot <= 0 {
		return 0
	}
	return slot - x.collapsed.IndexCountIn(0, slot-1)
}

// InsertSlots opens count data-row slots at slot. Rows inserted inside a
// collapsed group are collapsed too.
func (x *Index) InsertSlots(slot, count int, collapsed bool) {
	utils.Assert(slot >= 0 && slot <= x.slotCount, "insert slot out of bounds")
	utils.Assert(count > 0, "insert count must be positive")
	x.headers.InsertIndexes(slot, count)
	x.footers.InsertIndexes(slot, count)
	x.decorations.InsertIndexes(slot, count)
	x.collapsed.InsertIndexes(slot, count)
	if collapsed {
		x.collapsed.AddValues(slot, count, true)
	}
	x.slotCount += count
	x.rowCount += count
	x.shiftGroupInfos(slot, count)
	x.shiftPins(slot, count)
}

// RemoveSlots deletes count data-row slots starting at slot.
func (x *Index) RemoveSlots(slot, count int) {
	utils.Assert(slot >= 0 && slot+count <= x.slotCount, "remove slots out of bounds")
	utils.Assert(x.decorations.IndexCountIn(slot, slot+count-1) == 0,
		"only data rows can be removed, regroup to drop headers")
	x.headers.RemoveIndexes(slot, count)
	x.footers.RemoveIndexes(slot, count)
	x.decorations.RemoveIndexes(slot, count)
	x.collapsed.RemoveIndexes(slot, count)
	x.slotCount -= count
	x.rowCount -= count
	x.shiftGroupInfos(slot+count, -count)
	x.removePins(slot, count)
}

func (x *Index) shiftGroupInfos(from, delta int) {
	for _, info := range x.infos {
		if info.Slot >= from {
			info.Slot += delta
		}
		if info.LastSubItemSlot >= from {
			info.LastSubItemSlot += delta
		}
	}
}

// PopulateRowGroupHeadersTable rebuilds the header, footer and collapsed
// tables from the group tree. Rows not covered by the groups follow the
// last group.
func (x *Index) PopulateRowGroupHeadersTable(groups []*group.Group, rowCount int, showFooters bool) {
	utils.Assert(rowCount >= group.Covered(groups), "groups cover more rows than the source has")

	rowsOfPins := make(map[*Pin]int)
	for p := range x.pins.All() {
		rowsOfPins[p] = x.RowIndexFromSlot(p.Slot)
	}

	x.headers.Clear()
	x.footers.Clear()
	x.decorations.Clear()
	x.collapsed.Clear()
	x.infos = make(map[*group.Group]*GroupInfo)
	x.rowCount = rowCount

	slot := 0
	var place func([]*group.Group)
	place = func(gs []*group.Group) {
		for _, g := range gs {
			info := &GroupInfo{Group: g, Level: g.Level, Slot: slot, IsVisible: g.IsVisible()}
			x.infos[g] = info
			x.headers.AddValue(slot, info)
			x.decorations.AddValue(slot, true)
			slot++
			if g.IsLeaf() {
				slot += g.Count
			} else {
				place(g.Children)
			}
			if showFooters {
				x.footers.AddValue(slot, info)
				x.decorations.AddValue(slot, true)
				slot++
			}
			info.LastSubItemSlot = slot - 1
		}
	}
	place(groups)
	x.slotCount = slot + rowCount - group.Covered(groups)

	for g := range group.Walk(groups) {
		if !g.IsExpanded && g.IsVisible() {
			x.collapseInfo(x.infos[g])
		}
	}

	for p, row := range rowsOfPins {
		p.Slot = x.SlotFromRowIndex(row)
		p.Valid = p.Valid && p.Slot >= 0
	}
}

func (x *Index) collapseInfo(info *GroupInfo) {
	if info.LastSubItemSlot > info.Slot {
		x.collapsed.AddValues(info.Slot+1, info.LastSubItemSlot-info.Slot, true)
	}
}

// CollapseSlots hides everything a group owns but its header. It returns the
// slot range [lo, hi] that was hidden; lo > hi when nothing changed.
func (x *Index) CollapseSlots(info *GroupInfo) (int, int) {
	if !info.Group.IsExpanded {
		return 0, -1
	}
	info.Group.IsExpanded = false
	for slot, nested := range x.headers.All() {
		if slot > info.Slot && slot <= info.LastSubItemSlot {
			nested.IsVisible = false
		}
	}
	if !info.IsVisible {
		return 0, -1
	}
	x.collapseInfo(info)
	return info.Slot + 1, info.LastSubItemSlot
}

// ExpandSlots shows a collapsed group again. Nested groups that are still
// collapsed keep their content hidden. It returns the slot range that
// was examined.
func (x *Index) ExpandSlots(info *GroupInfo) (int, int) {
	if info.Group.IsExpanded {
		return 0, -1
	}
	info.Group.IsExpanded = true
	if !info.IsVisible {
		return 0, -1
	}
	lo, hi := info.Slot+1, info.LastSubItemSlot
	if hi < lo {
		return 0, -1
	}
	x.collapsed.RemoveValues(lo, hi-lo+1)
	for slot, nested := range x.headers.All() {
		if slot < lo || slot > hi {
			continue
		}
		nested.IsVisible = nested.Group.IsVisible()
		if nested.IsVisible && !nested.Group.IsExpanded {
			x.collapseInfo(nested)
		}
	}
	return lo, hi
}
