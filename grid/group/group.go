package group

import (
	"fmt"
	"iter"

	"github.com/hnimtadd/gridvirt/grid/source"
)

// Group is one node of the grouping tree laid over the flattened source.
// Groups always cover a contiguous run of row indexes, the way a sorted
// collection view groups its items.
type Group struct {
	Key   any
	Level int

	// Rows [Start, Start+Count) of the flattened source belong to the group.
	Start int
	Count int

	Parent   *Group
	Children []*Group

	// Collapsed groups hide everything but their own header.
	IsExpanded bool
}

func (g *Group) String() string {
	return fmt.Sprintf("%v (%d)", g.Key, g.Count)
}

// IsLeaf reports whether the group directly holds rows.
func (g *Group) IsLeaf() bool {
	return len(g.Children) == 0
}

// IsVisible reports whether every ancestor is expanded.
func (g *Group) IsVisible() bool {
	for p := g.Parent; p != nil; p = p.Parent {
		if !p.IsExpanded {
			return false
		}
	}
	return true
}

// KeyFunc extracts the grouping key of an item for one level.
type KeyFunc func(item any) any

// Build groups the source by keys, one level per key. Consecutive items
// with equal keys form a group; the source is expected to be sorted by the
// same keys.
func Build(src source.DataSource, keys ...KeyFunc) []*Group {
	if len(keys) == 0 || src.Count() == 0 {
		return nil
	}
	return build(src, keys, 0, 0, src.Count(), nil)
}

func build(src source.DataSource, keys []KeyFunc, level, start, end int, parent *Group) []*Group {
	var groups []*Group
	var current *Group
	for i := start; i < end; i++ {
		key := keys[level](src.Item(i))
		if current == nil || !sameKey(current.Key, key) {
			current = &Group{
				Key:        key,
				Level:      level,
				Start:      i,
				Parent:     parent,
				IsExpanded: true,
			}
			groups = append(groups, current)
		}
		current.Count++
	}
	if level+1 < len(keys) {
		for _, g := range groups {
			g.Children = build(src, keys, level+1, g.Start, g.Start+g.Count, g)
		}
	}
	return groups
}

func sameKey(a, b any) bool {
	if source.SameItem(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Walk yields every group depth-first in slot order: a group before its
// children, children in order.
func Walk(groups []*Group) iter.Seq[*Group] {
	return func(yield func(*Group) bool) {
		var walk func([]*Group) bool
		walk = func(gs []*Group) bool {
			for _, g := range gs {
				if !yield(g) {
					return false
				}
				if !walk(g.Children) {
					return false
				}
			}
			return true
		}
		walk(groups)
	}
}

// Depth is the number of grouping levels.
func Depth(groups []*Group) int {
	depth := 0
	for g := range Walk(groups) {
		depth = max(depth, g.Level+1)
	}
	return depth
}

// Covered returns the number of rows covered by the top-level groups.
func Covered(groups []*Group) int {
	n := 0
	for _, g := range groups {
		n += g.Count
	}
	return n
}
