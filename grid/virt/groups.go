package virt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/group"
)

// SetGroups groups the source by keys, one level per key. No keys
// ungroups it. Every group starts expanded.
func (c *Controller) SetGroups(keys ...group.KeyFunc) {
	c.groupKeys = slices.Clone(keys)
	c.groups = nil
	c.regroupAt(c.anchorRow(), false)
	c.logger.Info("groups set", "levels", len(keys), "groups", len(c.groups))
}

// populate rebuilds the group tree and the slot tables. Groups collapsed
// before keep their state when keepCollapsed is set.
func (c *Controller) populate(keepCollapsed bool) {
	var collapsed map[string]bool
	if keepCollapsed {
		collapsed = collapsedPaths(c.groups)
	}
	c.groups = nil
	if len(c.groupKeys) > 0 && c.source != nil {
		c.groups = group.Build(c.source, c.groupKeys...)
		for g := range group.Walk(c.groups) {
			if collapsed[groupPath(g)] {
				g.IsExpanded = false
			}
		}
	}
	c.index.PopulateRowGroupHeadersTable(c.groups, c.RowCount(), c.Modes.Get(core.ModeShowGroupFooters))
}

// regroupAt repopulates the slot tables and shows rowIndex at the top.
func (c *Controller) regroupAt(rowIndex int, keepCollapsed bool) {
	c.resetWindow()
	c.populate(keepCollapsed)
	c.estimator.Reset()
	c.showRow(rowIndex)
}

func groupPath(g *group.Group) string {
	var parts []string
	for p := g; p != nil; p = p.Parent {
		parts = append(parts, fmt.Sprint(p.Key))
	}
	slices.Reverse(parts)
	return strings.Join(parts, "\x1f")
}

func collapsedPaths(groups []*group.Group) map[string]bool {
	paths := make(map[string]bool)
	for g := range group.Walk(groups) {
		if !g.IsExpanded {
			paths[groupPath(g)] = true
		}
	}
	return paths
}

// CollapseGroup hides the rows and nested groups of g. Its header stays
// displayed. It reports whether anything was hidden.
func (c *Controller) CollapseGroup(g *group.Group) bool {
	info, ok := c.index.GroupInfoFor(g)
	if !ok || !g.IsExpanded {
		return false
	}
	lo, hi := info.Slot+1, info.LastSubItemSlot
	var hidden float64
	if !c.window.IsEmpty() && info.IsVisible && lo <= hi {
		first := c.window.FirstScrollingSlot()
		if hi < first {
			hidden = c.estimator.OffsetToSlot(hi+1) - c.estimator.OffsetToSlot(lo)
		}
		// Highest first, while the ordinals still count the slots as
		// visible.
		for s := min(hi, c.window.LastScrollingSlot()); s >= max(lo, first); s-- {
			if c.window.Contains(s) {
				c.recycle(c.window.RemoveElementAt(s))
			}
		}
		if first >= lo && first <= hi {
			c.neg = 0
			c.verticalOffset = c.estimator.OffsetToSlot(info.Slot)
			c.resetWindow()
			c.realize(info.Slot)
		}
	}

	lo, hi = c.index.CollapseSlots(info)
	if lo > hi {
		return false
	}
	c.estimator.ForgetRange(lo, hi)
	c.verticalOffset -= hidden
	c.logger.Debug("group collapsed", "group", g.String(), "lo", lo, "hi", hi)
	if !c.window.IsEmpty() {
		c.relayout()
	}
	return true
}

// ExpandGroup shows g's content again; nested groups still collapsed keep
// their content hidden. It reports whether anything changed.
func (c *Controller) ExpandGroup(g *group.Group) bool {
	info, ok := c.index.GroupInfoFor(g)
	if !ok || g.IsExpanded {
		return false
	}
	lo, hi := c.index.ExpandSlots(info)
	if lo > hi {
		return false
	}
	c.logger.Debug("group expanded", "group", g.String(), "lo", lo, "hi", hi)
	if c.window.IsEmpty() {
		return true
	}
	first := c.window.FirstScrollingSlot()
	switch {
	case hi < first:
		c.verticalOffset += c.estimator.OffsetToSlot(hi+1) - c.estimator.OffsetToSlot(lo)
	case info.Slot >= first && info.Slot <= c.window.LastScrollingSlot():
		// The revealed slots sit between the header and the elements
		// after it.
		for c.window.LastScrollingSlot() > info.Slot {
			c.unrealize(c.window.LastScrollingSlot())
		}
	}
	c.relayout()
	return true
}

// SetMode switches a grid mode and relays the slots out when it changes
// them.
func (c *Controller) SetMode(m core.Mode, value bool) {
	if c.Modes.Get(m) == value {
		return
	}
	c.Modes.Set(m, value)
	c.logger.Debug("mode changed", "mode", m.Name, "value", value)

	switch m {
	case core.ModeRowDetailsVisible:
		c.estimator.SetDetailsVisible(value)
		c.showRow(c.anchorRow())
	case core.ModeShowGroupFooters:
		c.regroupAt(c.anchorRow(), true)
	case core.ModeCanUserAddRows, core.ModeReadOnly:
		if value && m == core.ModeReadOnly {
			c.CancelEdit()
		}
		c.syncPlaceholder()
	}
}

// syncPlaceholder adds or removes the new-item row after a mode change.
func (c *Controller) syncPlaceholder() {
	if c.source == nil || c.RowCount() == c.index.RowCount() {
		return
	}
	anchor := c.anchorRow()
	c.resetWindow()
	if c.hasPlaceholder() {
		c.selection.OnInserted(c.itemCount, 1)
	} else {
		c.selection.OnRemoved(c.itemCount, 1)
	}
	c.populate(true)
	c.estimator.Reset()
	c.showRow(anchor)
}
