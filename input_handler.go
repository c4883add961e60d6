package gridvirt

import (
	"github.com/hnimtadd/gridvirt/grid/virt"
	"github.com/hnimtadd/gridvirt/logger"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeySpace
	KeyToggleGroup
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyPageUp:
		return "page_up"
	case KeyPageDown:
		return "page_down"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	case KeySpace:
		return "space"
	case KeyToggleGroup:
		return "toggle_group"
	default:
		return "unknown"
	}
}

var navigation = map[Key]virt.Navigation{
	KeyUp:       virt.NavUp,
	KeyDown:     virt.NavDown,
	KeyPageUp:   virt.NavPageUp,
	KeyPageDown: virt.NavPageDown,
	KeyHome:     virt.NavHome,
	KeyEnd:      virt.NavEnd,
}

// InputHandler maps keys to controller calls. It lives as long as the grid
// and holds no state of its own besides the controller.
type InputHandler struct {
	controller *virt.Controller
	logger     logger.Logger
}

// HandleKey applies k and reports whether it changed anything. While the
// controller waits for a focus loss to finish, the key is posted on the
// dispatcher and tried again on the next flush.
func (h *InputHandler) HandleKey(k Key) bool {
	c := h.controller
	if c.FocusLossPending {
		c.Dispatcher().Post(func() { h.HandleKey(k) })
		h.logger.Debug("key deferred", "key", k.String())
		return false
	}
	if nav, ok := navigation[k]; ok {
		return c.MoveCurrent(nav)
	}

	switch k {
	case KeyLeft, KeyRight:
		return h.moveColumn(k)
	case KeyEnter:
		if c.IsEditing() {
			return c.CommitEdit()
		}
		cell, ok := c.CurrentCell()
		return ok && c.BeginEdit(cell.Y)
	case KeyEscape:
		return c.CancelEdit()
	case KeySpace:
		cell, ok := c.CurrentCell()
		if !ok {
			return false
		}
		return c.SetRowSelection(cell.Y, !c.RowSelectionFromRowIndex(cell.Y))
	case KeyToggleGroup:
		return h.toggleGroup()
	default:
		h.logger.Warn("unhandled key", "key", k.String())
		return false
	}
}

func (h *InputHandler) moveColumn(k Key) bool {
	c := h.controller
	cell, ok := c.CurrentCell()
	if !ok || c.ColumnCount() == 0 {
		return false
	}
	col := cell.X + 1
	if k == KeyLeft {
		col = cell.X - 1
	}
	if col < 0 || col >= c.ColumnCount() {
		return false
	}
	return c.SetCurrentCell(col, cell.Y)
}

// toggleGroup collapses or expands the group whose header is current.
func (h *InputHandler) toggleGroup() bool {
	c := h.controller
	info, ok := c.Index().GroupHeaderAt(c.CurrentSlot())
	if !ok {
		return false
	}
	if info.Group.IsExpanded {
		return c.CollapseGroup(info.Group)
	}
	return c.ExpandGroup(info.Group)
}

var _ keyHandler = (*InputHandler)(nil)

type keyHandler interface {
	HandleKey(k Key) bool
}
