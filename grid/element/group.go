package element

import "github.com/hnimtadd/gridvirt/grid/group"

// GroupHeader is the visual element heading a group.
type GroupHeader struct {
	Base

	Group *group.Group
	Level int

	IsRecycled bool
}

func NewGroupHeader() *GroupHeader {
	return &GroupHeader{Base: newBase()}
}

func (h *GroupHeader) Kind() Kind { return KindGroupHeader }

// GroupFooter is the visual element closing a group.
type GroupFooter struct {
	Base

	Group *group.Group
	Level int

	IsRecycled bool
}

func NewGroupFooter() *GroupFooter {
	return &GroupFooter{Base: newBase()}
}

func (f *GroupFooter) Kind() Kind { return KindGroupFooter }
